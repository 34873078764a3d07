package implementation

import (
	"context"
	"errors"

	"ai-places-be/internal/entity"
	"ai-places-be/internal/mapper"
	"ai-places-be/internal/model"
	"ai-places-be/internal/repository/contract"
	"ai-places-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlaceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PlaceMapper
}

func NewPlaceRepository(db *gorm.DB) contract.PlaceRepository {
	return &PlaceRepositoryImpl{
		db:     db,
		mapper: mapper.NewPlaceMapper(),
	}
}

func (r *PlaceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PlaceRepositoryImpl) Create(ctx context.Context, place *entity.Place) error {
	m := r.mapper.ToModel(place)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*place = *r.mapper.ToEntity(m)
	return nil
}

func (r *PlaceRepositoryImpl) Update(ctx context.Context, place *entity.Place) error {
	m := r.mapper.ToModel(place)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*place = *r.mapper.ToEntity(m)
	return nil
}

func (r *PlaceRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Place{}, id).Error
}

func (r *PlaceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Place, error) {
	var m model.Place
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PlaceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Place, error) {
	var models []*model.Place
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PlaceRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Place{}).Count(&count).Error
	return count, err
}

func (r *PlaceRepositoryImpl) SearchNearby(ctx context.Context, lat, lng, radiusKm float64, limit int, specs ...specification.Specification) ([]*contract.PlaceWithDistance, error) {
	if limit <= 0 {
		limit = 20
	}

	type result struct {
		model.Place
		DistanceKm float64
	}
	var results []result

	// Haversine in SQL over the (latitude, longitude) columns. 6371 is
	// the earth radius in km.
	distanceExpr := `6371 * acos(
		least(1.0, cos(radians(?)) * cos(radians(latitude)) *
		cos(radians(longitude) - radians(?)) +
		sin(radians(?)) * sin(radians(latitude))))`

	query := r.db.WithContext(ctx).
		Table("places").
		Select("places.*, "+distanceExpr+" AS distance_km", lat, lng, lat).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Where("deleted_at IS NULL").
		Where(distanceExpr+" <= ?", lat, lng, lat, radiusKm).
		Order("distance_km ASC").
		Limit(limit)
	query = r.applySpecifications(query, specs...)

	if err := query.Scan(&results).Error; err != nil {
		return nil, err
	}

	out := make([]*contract.PlaceWithDistance, len(results))
	for i, res := range results {
		out[i] = &contract.PlaceWithDistance{
			Place:      r.mapper.ToEntity(&res.Place),
			DistanceKm: res.DistanceKm,
		}
	}
	return out, nil
}
