package contract

import (
	"context"

	"ai-places-be/internal/entity"
	"ai-places-be/internal/repository/specification"

	"github.com/google/uuid"
)

// PlaceWithDistance pairs a place with its haversine distance from a
// query point, in kilometers.
type PlaceWithDistance struct {
	Place      *entity.Place
	DistanceKm float64
}

type PlaceRepository interface {
	Create(ctx context.Context, place *entity.Place) error
	Update(ctx context.Context, place *entity.Place) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Place, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Place, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchNearby returns places within radiusKm of the point, nearest
	// first, computed in SQL.
	SearchNearby(ctx context.Context, lat, lng, radiusKm float64, limit int, specs ...specification.Specification) ([]*PlaceWithDistance, error)
}
