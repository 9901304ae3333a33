// internal/overlay/overlay.go

// Package overlay decodes the optional, human-authored portfolio metadata document that a
// repository may carry at a well-known path.
package overlay

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/tailscale/hujson"

	"portfolio-sync/internal/model"
)

// DefaultPath is where the document lives inside a repository's default branch.
const DefaultPath = "portfolio/meta.json"

const (
	defaultContributionShare = 100
	defaultScreenshotType    = "desktop"
)

var validate = validator.New()

// Metadata is a fully defaulted overlay. List fields are never nil.
// Metrics stay nil when the document omits them so that derived stats can fill in.
type Metadata struct {
	Title               *string
	Subtitle            *string
	Description         *string
	DetailedDescription *string

	ProjectType []string
	Tags        []string
	Status      model.Status
	Priority    int

	StartDate *model.Date
	EndDate   *model.Date
	IsOngoing bool

	Technologies []model.Technology
	Features     []model.Feature
	Screenshots  []model.Screenshot
	Roles        []model.Role

	DemoURL          *string
	DocumentationURL *string

	LinesOfCode      *int
	CommitCount      *int
	ContributorCount *int

	Challenges   *string
	Achievements *string
	ClientName   *string

	Architecture        *string
	SystemComponents    []model.SystemComponent
	CorePrinciples      []model.CorePrinciple
	AuthFlow            []string
	DataModels          []model.DataModel
	TechnicalChallenges []model.TechnicalChallenge
	KeyAchievements     []string
	CodeSnippets        []model.CodeSnippet
}

type document struct {
	Display struct {
		Title               *string `json:"title"`
		Subtitle            *string `json:"subtitle"`
		Description         *string `json:"description"`
		DetailedDescription *string `json:"detailed_description"`
	} `json:"display"`
	Classification struct {
		ProjectType []string `json:"project_type"`
		Tags        []string `json:"tags"`
		Status      *string  `json:"status"`
		Priority    *int     `json:"priority"`
	} `json:"classification"`
	Timeline struct {
		StartDate *string `json:"start_date"`
		EndDate   *string `json:"end_date"`
		IsOngoing *bool   `json:"is_ongoing"`
	} `json:"timeline"`
	Links struct {
		DemoURL          *string `json:"demo_url"`
		DocumentationURL *string `json:"documentation_url"`
	} `json:"links"`
	Metrics struct {
		LinesOfCode      *int `json:"lines_of_code"`
		CommitCount      *int `json:"commit_count"`
		ContributorCount *int `json:"contributor_count"`
	} `json:"metrics"`
	Story struct {
		Challenges   *string `json:"challenges"`
		Achievements *string `json:"achievements"`
	} `json:"story"`

	// client and architecture are only honored when they are objects.
	Client       json.RawMessage `json:"client"`
	Architecture json.RawMessage `json:"architecture"`

	Technologies        []model.Technology         `json:"technologies" validate:"dive"`
	Features            []model.Feature            `json:"features" validate:"dive"`
	Screenshots         []screenshotDoc            `json:"screenshots" validate:"dive"`
	Roles               []roleDoc                  `json:"roles" validate:"dive"`
	TechnicalChallenges []model.TechnicalChallenge `json:"technical_challenges" validate:"dive"`
	KeyAchievements     []string                   `json:"key_achievements"`
	CodeSnippets        []model.CodeSnippet        `json:"code_snippets" validate:"dive"`
}

type screenshotDoc struct {
	File    string  `json:"file" validate:"required"`
	Caption string  `json:"caption" validate:"required"`
	Type    *string `json:"type"`
}

type roleDoc struct {
	RoleName               string         `json:"role_name" validate:"required"`
	Responsibility         *string        `json:"responsibility"`
	ContributionPercentage *int           `json:"contribution_percentage"`
	Contributions          map[string]any `json:"contributions"`
}

type architectureDoc struct {
	Overview         *string                 `json:"overview"`
	SystemComponents []model.SystemComponent `json:"system_components" validate:"dive"`
	CorePrinciples   []model.CorePrinciple   `json:"core_principles" validate:"dive"`
	AuthFlow         []string                `json:"auth_flow"`
	DataModels       []model.DataModel       `json:"data_models" validate:"dive"`
}

type clientDoc struct {
	Name *string `json:"name"`
}

// Parse decodes a document into Metadata with every default applied. Comments and
// trailing commas are tolerated. Any structural or schema violation is an error.
func Parse(raw []byte) (*Metadata, error) {
	std, err := hujson.Standardize(bytes.Clone(raw))
	if err != nil {
		return nil, fmt.Errorf("parse overlay: %w", err)
	}

	var doc document
	if err := json.Unmarshal(std, &doc); err != nil {
		return nil, fmt.Errorf("decode overlay: %w", err)
	}

	var arch architectureDoc
	if isObject(doc.Architecture) {
		if err := json.Unmarshal(doc.Architecture, &arch); err != nil {
			return nil, fmt.Errorf("decode overlay architecture: %w", err)
		}
	}
	var client clientDoc
	if isObject(doc.Client) {
		if err := json.Unmarshal(doc.Client, &client); err != nil {
			return nil, fmt.Errorf("decode overlay client: %w", err)
		}
	}

	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("validate overlay: %w", err)
	}
	if err := validate.Struct(arch); err != nil {
		return nil, fmt.Errorf("validate overlay architecture: %w", err)
	}

	return doc.toMetadata(arch, client), nil
}

func (d *document) toMetadata(arch architectureDoc, client clientDoc) *Metadata {
	m := &Metadata{
		Title:               d.Display.Title,
		Subtitle:            d.Display.Subtitle,
		Description:         d.Display.Description,
		DetailedDescription: d.Display.DetailedDescription,

		ProjectType: orEmpty(d.Classification.ProjectType),
		Tags:        orEmpty(d.Classification.Tags),
		Status:      model.StatusCompleted,

		Technologies:        orEmpty(d.Technologies),
		Features:            orEmpty(d.Features),
		Screenshots:         make([]model.Screenshot, 0, len(d.Screenshots)),
		Roles:               make([]model.Role, 0, len(d.Roles)),
		TechnicalChallenges: orEmpty(d.TechnicalChallenges),
		KeyAchievements:     orEmpty(d.KeyAchievements),
		CodeSnippets:        orEmpty(d.CodeSnippets),

		DemoURL:          d.Links.DemoURL,
		DocumentationURL: d.Links.DocumentationURL,

		LinesOfCode:      d.Metrics.LinesOfCode,
		CommitCount:      d.Metrics.CommitCount,
		ContributorCount: d.Metrics.ContributorCount,

		Challenges:   d.Story.Challenges,
		Achievements: d.Story.Achievements,
		ClientName:   client.Name,

		Architecture:     arch.Overview,
		SystemComponents: orEmpty(arch.SystemComponents),
		CorePrinciples:   orEmpty(arch.CorePrinciples),
		AuthFlow:         orEmpty(arch.AuthFlow),
		DataModels:       orEmpty(arch.DataModels),
	}

	if d.Classification.Status != nil {
		m.Status = model.ParseStatus(*d.Classification.Status)
	}
	if d.Classification.Priority != nil {
		m.Priority = *d.Classification.Priority
	}
	if d.Timeline.IsOngoing != nil {
		m.IsOngoing = *d.Timeline.IsOngoing
	}
	m.StartDate = parseOptionalDate(d.Timeline.StartDate)
	m.EndDate = parseOptionalDate(d.Timeline.EndDate)

	for _, s := range d.Screenshots {
		shot := model.Screenshot{File: s.File, Caption: s.Caption, Type: defaultScreenshotType}
		if s.Type != nil && *s.Type != "" {
			shot.Type = *s.Type
		}
		m.Screenshots = append(m.Screenshots, shot)
	}
	for _, r := range d.Roles {
		role := model.Role{
			RoleName:               r.RoleName,
			Responsibility:         r.Responsibility,
			ContributionPercentage: defaultContributionShare,
			Contributions:          r.Contributions,
		}
		if r.ContributionPercentage != nil {
			role.ContributionPercentage = *r.ContributionPercentage
		}
		m.Roles = append(m.Roles, role)
	}

	return m
}

// parseOptionalDate drops values that are not calendar dates.
func parseOptionalDate(s *string) *model.Date {
	if s == nil || *s == "" {
		return nil
	}
	d, err := model.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &d
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
