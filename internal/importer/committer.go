package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evcharger-search/evcharger-search/internal/prices"
)

// Committer applies confirmed import items to the catalog one statement at a
// time. There is no surrounding transaction: when a write fails, earlier
// writes of the same call stay applied.
type Committer struct {
	store CatalogWriter
}

// NewCommitter constructs a Committer.
func NewCommitter(store CatalogWriter) *Committer {
	return &Committer{store: store}
}

// Commit processes the working subset of items. An empty selection means all
// items. On a storage failure the summary so far is returned with the error.
func (c *Committer) Commit(ctx context.Context, items []CommitItem, overwrite bool, selected []int) (CommitSummary, error) {
	if len(items) == 0 {
		return CommitSummary{}, ErrEmptyImportData
	}
	work := workingSubset(items, selected)
	if len(work) == 0 {
		return CommitSummary{}, ErrNoItemsToProcess
	}

	summary := CommitSummary{Total: len(items), Selected: len(work), Processed: len(work)}
	for _, item := range work {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			summary.Skipped++
			continue
		}

		current, err := c.store.FindByName(ctx, name)
		switch {
		case err == nil:
			if !overwrite {
				summary.Skipped++
				continue
			}
			if err := c.store.UpdatePrices(ctx, current.ID, item.ACPrice, item.DCPrice); err != nil {
				return summary, fmt.Errorf("importer: update %q: %w", name, err)
			}
			summary.Updated++
		case errors.Is(err, prices.ErrNotFound):
			if _, err := c.store.Create(ctx, prices.Input{Name: name, ACPrice: item.ACPrice, DCPrice: item.DCPrice}); err != nil {
				return summary, fmt.Errorf("importer: create %q: %w", name, err)
			}
			summary.Created++
		default:
			return summary, fmt.Errorf("importer: lookup %q: %w", name, err)
		}
	}
	return summary, nil
}

// workingSubset keeps the selected positions in item order. Unknown and
// repeated indices are ignored.
func workingSubset(items []CommitItem, selected []int) []CommitItem {
	if len(selected) == 0 {
		return items
	}
	picked := make(map[int]struct{}, len(selected))
	for _, idx := range selected {
		picked[idx] = struct{}{}
	}
	work := make([]CommitItem, 0, len(picked))
	for i, item := range items {
		if _, ok := picked[i]; ok {
			work = append(work, item)
		}
	}
	return work
}
