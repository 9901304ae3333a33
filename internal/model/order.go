// internal/model/order.go
package model

import (
	"slices"
)

// SortForListing orders repositories by priority descending, then by last remote update
// descending with missing timestamps last. Ties keep their input order.
func SortForListing(repos []Repository) {
	slices.SortStableFunc(repos, compareForListing)
}

func compareForListing(a, b Repository) int {
	if a.Priority != b.Priority {
		if a.Priority > b.Priority {
			return -1
		}
		return 1
	}
	switch {
	case a.GithubUpdatedAt == nil && b.GithubUpdatedAt == nil:
		return 0
	case a.GithubUpdatedAt == nil:
		return 1
	case b.GithubUpdatedAt == nil:
		return -1
	}
	return b.GithubUpdatedAt.Compare(*a.GithubUpdatedAt)
}
