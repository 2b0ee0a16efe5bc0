package importer

import (
	"strings"

	"github.com/evcharger-search/evcharger-search/internal/prices"
)

// Diff classifies every candidate against the catalog snapshot. Names are
// matched case-insensitively; when the catalog holds names differing only by
// case the last one wins. Output order follows candidates.
func Diff(candidates []Candidate, catalog []prices.Price) []DiffEntry {
	existing := make(map[string]prices.Price, len(catalog))
	for _, p := range catalog {
		existing[strings.ToLower(p.Name)] = p
	}

	entries := make([]DiffEntry, 0, len(candidates))
	for _, c := range candidates {
		entry := DiffEntry{
			Name:    c.Name,
			ACPrice: c.ACPrice,
			DCPrice: c.DCPrice,
			Action:  ActionNew,
			Changes: []FieldChange{},
		}
		current, ok := existing[strings.ToLower(c.Name)]
		if ok {
			entry.ExistingAC = current.ACPrice
			entry.ExistingDC = current.DCPrice
			if !samePrice(current.ACPrice, c.ACPrice) {
				entry.Changes = append(entry.Changes, FieldChange{Field: FieldACPrice, Old: current.ACPrice, New: c.ACPrice})
			}
			if !samePrice(current.DCPrice, c.DCPrice) {
				entry.Changes = append(entry.Changes, FieldChange{Field: FieldDCPrice, Old: current.DCPrice, New: c.DCPrice})
			}
			entry.Action = ActionUnchanged
			if len(entry.Changes) > 0 {
				entry.Action = ActionUpdate
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// samePrice compares optional prices exactly, two absent values are equal.
func samePrice(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
