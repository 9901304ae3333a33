// internal/overlay/screenshots.go
package overlay

import (
	"strings"

	"portfolio-sync/internal/model"
)

// DefaultRawBaseURL serves raw file contents for public repositories.
const DefaultRawBaseURL = "https://raw.githubusercontent.com"

const screenshotDir = "portfolio/screenshots"

// ScreenshotURLs returns copies of shots with URL set to the raw content location of each
// file. Entries whose file is already an absolute URL are kept as-is.
func ScreenshotURLs(rawBase, owner, repo, branch string, shots []model.Screenshot) []model.Screenshot {
	if rawBase == "" {
		rawBase = DefaultRawBaseURL
	}
	rawBase = strings.TrimSuffix(rawBase, "/")

	out := make([]model.Screenshot, 0, len(shots))
	for _, s := range shots {
		if strings.HasPrefix(s.File, "http://") || strings.HasPrefix(s.File, "https://") {
			s.URL = s.File
		} else {
			s.URL = strings.Join([]string{rawBase, owner, repo, branch, screenshotDir, strings.TrimPrefix(s.File, "/")}, "/")
		}
		out = append(out, s)
	}
	return out
}
