package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcharger-search/evcharger-search/internal/prices"
)

func TestDiffUpdateMatchesCaseInsensitively(t *testing.T) {
	catalog := []prices.Price{{ID: 1, Name: "Acme", ACPrice: ptr(10), DCPrice: ptr(20)}}
	entries := Diff([]Candidate{{Name: "acme", ACPrice: ptr(10), DCPrice: ptr(25)}}, catalog)

	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, ActionUpdate, e.Action)
	assert.Equal(t, []FieldChange{{Field: FieldDCPrice, Old: ptr(20), New: ptr(25)}}, e.Changes)
	assert.Equal(t, ptr(10), e.ExistingAC)
	assert.Equal(t, ptr(20), e.ExistingDC)
}

func TestDiffNewAgainstEmptyCatalog(t *testing.T) {
	entries := Diff([]Candidate{{Name: "NewCo", ACPrice: ptr(5)}}, nil)

	require.Len(t, entries, 1)
	assert.Equal(t, ActionNew, entries[0].Action)
	assert.Nil(t, entries[0].ExistingAC)
	assert.Nil(t, entries[0].ExistingDC)
	assert.NotNil(t, entries[0].Changes)
	assert.Empty(t, entries[0].Changes)
}

func TestDiffAbsentValues(t *testing.T) {
	catalog := []prices.Price{
		{ID: 1, Name: "Both", ACPrice: nil, DCPrice: ptr(9)},
		{ID: 2, Name: "Gone", ACPrice: ptr(4), DCPrice: nil},
	}
	entries := Diff([]Candidate{
		{Name: "Both", DCPrice: ptr(9)},
		{Name: "Gone"},
	}, catalog)

	assert.Equal(t, ActionUnchanged, entries[0].Action)
	assert.Equal(t, ActionUpdate, entries[1].Action)
	assert.Equal(t, []FieldChange{{Field: FieldACPrice, Old: ptr(4), New: nil}}, entries[1].Changes)
}

func TestDiffCaseDuplicatesLastWins(t *testing.T) {
	catalog := []prices.Price{
		{ID: 1, Name: "ACME", ACPrice: ptr(1)},
		{ID: 2, Name: "acme", ACPrice: ptr(2)},
	}
	entries := Diff([]Candidate{{Name: "Acme", ACPrice: ptr(2)}}, catalog)
	assert.Equal(t, ActionUnchanged, entries[0].Action)
}

func TestDiffInvariantsAndIdempotence(t *testing.T) {
	catalog := []prices.Price{
		{ID: 1, Name: "Zes", ACPrice: ptr(8.5), DCPrice: ptr(12)},
		{ID: 2, Name: "Esarj", ACPrice: ptr(7)},
		{ID: 3, Name: "Sharz", DCPrice: ptr(10)},
	}
	candidates := []Candidate{
		{Name: "Sharz", DCPrice: ptr(10)},
		{Name: "ZES", ACPrice: ptr(8.5), DCPrice: ptr(13)},
		{Name: "Voltrun", ACPrice: ptr(6)},
		{Name: "esarj", ACPrice: ptr(7.5), DCPrice: ptr(11)},
	}

	first := Diff(candidates, catalog)
	second := Diff(candidates, catalog)
	assert.Equal(t, first, second)

	known := map[string]bool{"zes": true, "esarj": true, "sharz": true}
	names := make([]string, len(first))
	for i, e := range first {
		names[i] = e.Name
		assert.Equal(t, e.Action == ActionUpdate, len(e.Changes) > 0, e.Name)
		assert.Equal(t, e.Action == ActionNew, !known[strings.ToLower(e.Name)], e.Name)
	}
	assert.Equal(t, []string{"Sharz", "ZES", "Voltrun", "esarj"}, names)

	stats := Summarize(first)
	assert.Equal(t, Stats{Total: 4, New: 1, Update: 2, Unchanged: 1}, stats)
	assert.Equal(t, stats.Total, stats.New+stats.Update+stats.Unchanged)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, Summarize(nil))
}
