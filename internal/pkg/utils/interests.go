package utils

import (
	"regexp"
	"sort"
	"strings"
)

// MaxRoomInterests is the largest interest set a room may carry
const MaxRoomInterests = 10

var interestTagRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// roomInterestCategories is the fixed set of tags a room may be labeled with
var roomInterestCategories = map[string]struct{}{
	"art":         {},
	"books":       {},
	"business":    {},
	"cooking":     {},
	"fitness":     {},
	"gaming":      {},
	"history":     {},
	"languages":   {},
	"movies":      {},
	"music":       {},
	"nature":      {},
	"photography": {},
	"science":     {},
	"sports":      {},
	"technology":  {},
	"travel":      {},
}

// NormalizeInterestTag canonicalizes a single tag: trimmed, lowercased,
// spaces and underscores mapped to hyphens
func NormalizeInterestTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	tag = strings.ReplaceAll(tag, " ", "-")
	tag = strings.ReplaceAll(tag, "_", "-")
	return tag
}

// IsValidRoomInterest checks a single normalized tag against the fixed format
// and the known category list
func IsValidRoomInterest(tag string) bool {
	if len(tag) < 2 || len(tag) > 30 {
		return false
	}
	if !interestTagRegex.MatchString(tag) {
		return false
	}
	_, known := roomInterestCategories[tag]
	return known
}

// NormalizeRoomInterests validates and canonicalizes an interest set.
// Tags are normalized, de-duplicated and sorted, so the result is the same
// no matter how the input was cased or ordered, and normalizing an already
// normalized set returns it unchanged. Returns false if any tag is invalid
// or the set is too large; a nil or empty input yields an empty set.
func NormalizeRoomInterests(tags []string) ([]string, bool) {
	if len(tags) > MaxRoomInterests {
		return nil, false
	}

	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = NormalizeInterestTag(tag)
		if !IsValidRoomInterest(tag) {
			return nil, false
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}

	sort.Strings(normalized)
	return normalized, true
}

// RoomInterestCategories returns the known categories in sorted order
func RoomInterestCategories() []string {
	categories := make([]string, 0, len(roomInterestCategories))
	for c := range roomInterestCategories {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}
