package usecase

import (
	"context"
	"generic-matcher/internal/domain"
)

// PersonRepository defines the interface for fetching person records.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go PersonRepository
type PersonRepository interface {
	GetSeedPeople(ctx context.Context, path string) ([]*domain.Person, error)
	GetOtherPeople(ctx context.Context, paths []string) ([]*domain.Person, error)
}
