package prices

import (
	"context"
)

// Service wraps the admin price management rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every record ordered by name.
func (s *Service) List(ctx context.Context) ([]Price, error) {
	return s.repo.List(ctx)
}

// Get returns a single record.
func (s *Service) Get(ctx context.Context, id int64) (Price, error) {
	if id <= 0 {
		return Price{}, ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

// Create validates and stores a new record.
func (s *Service) Create(ctx context.Context, in Input) (Price, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return Price{}, err
	}
	return s.repo.Create(ctx, in)
}

// Update validates and replaces an existing record.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Price, error) {
	if id <= 0 {
		return Price{}, ErrInvalidID
	}
	in, err := normalizeInput(in)
	if err != nil {
		return Price{}, err
	}
	return s.repo.Update(ctx, id, in)
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}
