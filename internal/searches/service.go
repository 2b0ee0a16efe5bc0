package searches

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

const (
	shortIDLength   = 6
	shortIDAttempts = 5
	shortIDAlphabet = "useandom-26T198340PX75pxJACKVERYMINDBUSHWOLF_GQZbfghjklqvwyzrict"
)

// Service manages saved searches.
type Service struct {
	repo    Repository
	shortID func() string
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, shortID: newShortID}
}

// Save stores criteria under a fresh short id, retrying on collisions.
func (s *Service) Save(ctx context.Context, criteria json.RawMessage, visibility bool) (Search, error) {
	trimmed := bytes.TrimSpace(criteria)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || !json.Valid(trimmed) {
		return Search{}, ErrCriteriaRequired
	}
	var lastErr error
	for i := 0; i < shortIDAttempts; i++ {
		search, err := s.repo.Create(ctx, s.shortID(), trimmed, visibility)
		if err == nil {
			return search, nil
		}
		if !errors.Is(err, errDuplicateShortID) {
			return Search{}, err
		}
		lastErr = err
	}
	return Search{}, lastErr
}

// Get returns the search stored under shortID.
func (s *Service) Get(ctx context.Context, shortID string) (Search, error) {
	return s.repo.Get(ctx, shortID)
}

// List returns all saved searches.
func (s *Service) List(ctx context.Context) ([]Search, error) {
	return s.repo.List(ctx)
}

// Delete removes the search stored under shortID.
func (s *Service) Delete(ctx context.Context, shortID string) error {
	return s.repo.Delete(ctx, shortID)
}

// newShortID derives a url-safe id from the random bytes of a v4 UUID.
func newShortID() string {
	id := uuid.New()
	out := make([]byte, shortIDLength)
	for i := range out {
		out[i] = shortIDAlphabet[id[i]&63]
	}
	return string(out)
}
