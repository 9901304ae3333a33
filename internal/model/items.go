// internal/model/items.go
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state a project is presented with.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusInProgress Status = "in_progress"
	StatusArchived   Status = "archived"
)

// ParseStatus maps free text onto a known Status, defaulting to StatusCompleted.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusInProgress:
		return StatusInProgress
	case StatusArchived:
		return StatusArchived
	default:
		return StatusCompleted
	}
}

type Technology struct {
	Name     string  `json:"name" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Version  *string `json:"version"`
}

type Feature struct {
	Title          string  `json:"title" validate:"required"`
	Description    string  `json:"description" validate:"required"`
	SubDescription *string `json:"sub_description"`
}

type Screenshot struct {
	File    string `json:"file"`
	Caption string `json:"caption"`
	Type    string `json:"type"`
	URL     string `json:"url,omitempty"`
}

type Role struct {
	RoleName               string         `json:"role_name"`
	Responsibility         *string        `json:"responsibility"`
	ContributionPercentage int            `json:"contribution_percentage"`
	Contributions          map[string]any `json:"contributions"`
}

type SystemComponent struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type CorePrinciple struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type DataModel struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type TechnicalChallenge struct {
	Title     string `json:"title" validate:"required"`
	Challenge string `json:"challenge" validate:"required"`
	Solution  string `json:"solution" validate:"required"`
}

type CodeSnippet struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	FilePath    string `json:"file_path" validate:"required"`
	Language    string `json:"language" validate:"required"`
	Code        string `json:"code" validate:"required"`
}

const dateLayout = "2006-01-02"

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string. A full RFC3339 timestamp is accepted and truncated.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
