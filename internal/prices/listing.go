package prices

import (
	"context"
	"sort"
	"strings"
)

type catalogLister interface {
	List(ctx context.Context) ([]Price, error)
}

// Lister serves the public price listing through the read-through cache.
type Lister struct {
	repo  catalogLister
	cache *Cache
}

// NewLister wires the listing service.
func NewLister(repo catalogLister, cache *Cache) *Lister {
	return &Lister{repo: repo, cache: cache}
}

// List returns the filtered and sorted listing.
func (l *Lister) List(ctx context.Context, q ListQuery) ([]Listing, error) {
	items, err := l.cache.Fetch(ctx, l.load)
	if err != nil {
		return nil, err
	}
	return applyQuery(items, q), nil
}

// Warm reloads the listing from storage into the cache and reports its size.
func (l *Lister) Warm(ctx context.Context) (int, error) {
	items, err := l.load(ctx)
	if err != nil {
		return 0, err
	}
	if err := l.cache.Store(ctx, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

func (l *Lister) load(ctx context.Context) ([]Listing, error) {
	records, err := l.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]Listing, len(records))
	for i, p := range records {
		items[i] = p.ToListing()
	}
	return items, nil
}

// applyQuery never mutates items since they may be shared with the cache.
func applyQuery(items []Listing, q ListQuery) []Listing {
	filter := strings.ToLower(strings.TrimSpace(q.Filter))
	out := make([]Listing, 0, len(items))
	for _, item := range items {
		if filter != "" && !strings.Contains(strings.ToLower(item.Name), filter) {
			continue
		}
		out = append(out, item)
	}

	less := lessFunc(q.SortBy)
	if less == nil {
		return out
	}
	desc := strings.EqualFold(q.Order, OrderDesc)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(sortBy string) func(a, b Listing) bool {
	switch sortBy {
	case SortByName:
		return func(a, b Listing) bool { return a.Name < b.Name }
	case SortByAC:
		return func(a, b Listing) bool { return lessPrice(a.AC, b.AC) }
	case SortByDC:
		return func(a, b Listing) bool { return lessPrice(a.DC, b.DC) }
	default:
		return nil
	}
}

// lessPrice orders missing prices before any known price.
func lessPrice(a, b *float64) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	default:
		return *a < *b
	}
}
