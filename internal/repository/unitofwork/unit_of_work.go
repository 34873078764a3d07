package unitofwork

import (
	"context"

	"ai-places-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one logical operation, with an
// optional transaction around the re-embed delete+insert pair.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PlaceRepository() contract.PlaceRepository
	PlaceEmbeddingRepository() contract.PlaceEmbeddingRepository
}

type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
