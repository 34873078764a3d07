package mapper

import (
	"encoding/json"
	"time"

	"ai-places-be/internal/entity"
	"ai-places-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlaceMapper struct{}

func NewPlaceMapper() *PlaceMapper {
	return &PlaceMapper{}
}

func (m *PlaceMapper) ToEntity(e *model.Place) *entity.Place {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	var tags []string
	if len(e.AiTags) > 0 {
		// Tags that fail to parse are treated as absent, not fatal.
		_ = json.Unmarshal(e.AiTags, &tags)
	}

	return &entity.Place{
		Id:          e.Id,
		Name:        e.Name,
		Description: e.Description,
		Address:     e.Address,
		District:    e.District,
		Category:    e.Category,
		Price:       e.Price,
		Rating:      e.Rating,
		ReviewCount: e.ReviewCount,
		ImageURL:    e.ImageURL,
		AiTags:      tags,
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   e.DeletedAt.Valid,
	}
}

func (m *PlaceMapper) ToModel(e *entity.Place) *model.Place {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	var tags datatypes.JSON
	if len(e.AiTags) > 0 {
		if raw, err := json.Marshal(e.AiTags); err == nil {
			tags = datatypes.JSON(raw)
		}
	}

	return &model.Place{
		Id:          e.Id,
		Name:        e.Name,
		Description: e.Description,
		Address:     e.Address,
		District:    e.District,
		Category:    e.Category,
		Price:       e.Price,
		Rating:      e.Rating,
		ReviewCount: e.ReviewCount,
		ImageURL:    e.ImageURL,
		AiTags:      tags,
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *PlaceMapper) ToEntities(places []*model.Place) []*entity.Place {
	entities := make([]*entity.Place, len(places))
	for i, e := range places {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
