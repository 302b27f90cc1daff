package domain

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var collationTag = language.MustParse(CollationLanguage)

// SortDisplayNames trims, removes empty and duplicate names and sorts the rest
// with the roster locale collation, so attendee lists do not depend on load order.
func SortDisplayNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))

	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}

	// collate.Collator keeps internal buffers and is not safe for concurrent use
	collate.New(collationTag).SortStrings(out)
	return out
}
