package searches

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the saved search does not exist.
	ErrNotFound = errors.New("search not found")
	// ErrCriteriaRequired rejects searches without criteria.
	ErrCriteriaRequired = errors.New("search criteria is required")

	errDuplicateShortID = errors.New("searches: short id taken")
)

// Search is a saved, shareable set of listing criteria.
type Search struct {
	ID         int64           `json:"id"`
	ShortID    string          `json:"short_id"`
	Criteria   json.RawMessage `json:"criteria"`
	Visibility bool            `json:"visibility"`
	CreatedAt  time.Time       `json:"created_at"`
}
