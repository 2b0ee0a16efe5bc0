package prices

import "time"

// Price is a persisted catalog entry, one per charging provider.
type Price struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ACPrice   *float64  `json:"ac_price"`
	DCPrice   *float64  `json:"dc_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input carries the mutable fields of a price record.
type Input struct {
	Name    string
	ACPrice *float64
	DCPrice *float64
}

// Listing is the public projection of a price served to end users.
type Listing struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	AC   *float64 `json:"ac"`
	DC   *float64 `json:"dc"`
}

// ListQuery filters and orders the public listing.
type ListQuery struct {
	Filter string
	SortBy string
	Order  string
}

// Sort keys accepted by ListQuery.SortBy.
const (
	SortByName = "name"
	SortByAC   = "ac"
	SortByDC   = "dc"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ToListing projects a catalog record for the public listing.
func (p Price) ToListing() Listing {
	return Listing{ID: p.ID, Name: p.Name, AC: p.ACPrice, DC: p.DCPrice}
}
