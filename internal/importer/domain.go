package importer

import (
	"context"

	"github.com/evcharger-search/evcharger-search/internal/prices"
)

// RawRecord is one untyped item of the upstream data array. Values are only
// trusted after field by field validation.
type RawRecord map[string]any

// Candidate is an upstream record mapped onto the catalog shape.
type Candidate struct {
	Name    string   `json:"name"`
	ACPrice *float64 `json:"ac_price"`
	DCPrice *float64 `json:"dc_price"`
}

// CommitItem is a candidate echoed back by the client on confirmation. Its
// name is not guaranteed to be trimmed or present.
type CommitItem = Candidate

// Action classifies a candidate against the catalog.
type Action string

// Diff actions.
const (
	ActionNew       Action = "new"
	ActionUpdate    Action = "update"
	ActionUnchanged Action = "unchanged"
)

// Field names reported in FieldChange.
const (
	FieldACPrice = "ac_price"
	FieldDCPrice = "dc_price"
)

// FieldChange records one differing price field.
type FieldChange struct {
	Field string   `json:"field"`
	Old   *float64 `json:"old"`
	New   *float64 `json:"new"`
}

// DiffEntry is the preview row for one candidate.
type DiffEntry struct {
	Name       string        `json:"name"`
	ACPrice    *float64      `json:"ac_price"`
	DCPrice    *float64      `json:"dc_price"`
	ExistingAC *float64      `json:"existing_ac"`
	ExistingDC *float64      `json:"existing_dc"`
	Action     Action        `json:"action"`
	Changes    []FieldChange `json:"changes"`
}

// Stats counts diff entries per action.
type Stats struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Update    int `json:"update"`
	Unchanged int `json:"unchanged"`
}

// CommitSummary tallies the outcome of a commit. Selected and Processed are
// always equal.
type CommitSummary struct {
	Total     int `json:"total"`
	Selected  int `json:"selected"`
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
}

// Preview is the read-only result of an import request.
type Preview struct {
	Source     string      `json:"source"`
	TotalItems int         `json:"totalItems"`
	Stats      Stats       `json:"stats"`
	Preview    []DiffEntry `json:"preview"`
	ImportData []Candidate `json:"importData"`
}

// ConfirmRequest carries the echoed import data and the admin's choices.
type ConfirmRequest struct {
	ImportData    []CommitItem `json:"importData"`
	Overwrite     bool         `json:"overwrite"`
	SelectedItems []int        `json:"selectedItems"`
}

// ConfirmResult is returned after a commit.
type ConfirmResult struct {
	Message string        `json:"message"`
	Summary CommitSummary `json:"summary"`
}

// CatalogReader provides the catalog snapshot used for diffing.
type CatalogReader interface {
	List(ctx context.Context) ([]prices.Price, error)
}

// CatalogWriter is the narrow storage surface the committer mutates.
type CatalogWriter interface {
	FindByName(ctx context.Context, name string) (prices.Price, error)
	Create(ctx context.Context, in prices.Input) (prices.Price, error)
	UpdatePrices(ctx context.Context, id int64, ac, dc *float64) error
}
