package mapper

import (
	"testing"
	"time"

	"ai-places-be/internal/entity"
	"ai-places-be/internal/model"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestPlaceMapperRoundTrip(t *testing.T) {
	m := NewPlaceMapper()
	lat, lng := 21.0285, 105.8542
	now := time.Now()

	src := &entity.Place{
		Id:          uuid.New(),
		Name:        "Phở Thìn",
		Description: "Quán phở bò truyền thống.",
		Address:     "13 Lò Đúc",
		District:    "Hai Bà Trưng",
		Category:    "Ăn uống",
		Price:       60000,
		Rating:      4.5,
		ReviewCount: 1200,
		AiTags:      []string{"phở", "ăn sáng"},
		Latitude:    &lat,
		Longitude:   &lng,
		CreatedAt:   now,
		UpdatedAt:   &now,
	}

	got := m.ToEntity(m.ToModel(src))

	assert.Equal(t, src.Id, got.Id)
	assert.Equal(t, src.Name, got.Name)
	assert.Equal(t, src.District, got.District)
	assert.Equal(t, src.Price, got.Price)
	assert.Equal(t, src.AiTags, got.AiTags)
	assert.Equal(t, src.Latitude, got.Latitude)
	assert.False(t, got.IsDeleted)
}

func TestPlaceMapperDeletedAt(t *testing.T) {
	m := NewPlaceMapper()
	deleted := time.Now()

	got := m.ToEntity(&model.Place{
		Id:        uuid.New(),
		Name:      "Quán đã đóng",
		DeletedAt: gorm.DeletedAt{Time: deleted, Valid: true},
	})

	assert.True(t, got.IsDeleted)
	if assert.NotNil(t, got.DeletedAt) {
		assert.WithinDuration(t, deleted, *got.DeletedAt, time.Second)
	}
}

func TestPlaceMapperEmptyTags(t *testing.T) {
	m := NewPlaceMapper()

	got := m.ToEntity(&model.Place{Id: uuid.New(), Name: "Quán A"})
	assert.Nil(t, got.AiTags)

	mod := m.ToModel(&entity.Place{Id: uuid.New(), Name: "Quán A"})
	assert.Empty(t, mod.AiTags)
}

func TestPlaceEmbeddingMapperRoundTrip(t *testing.T) {
	m := NewPlaceEmbeddingMapper()

	src := &entity.PlaceEmbedding{
		Id:             uuid.New(),
		Document:       "Tên: Phở Thìn",
		EmbeddingValue: []float32{0.1, 0.2, 0.3},
		PlaceId:        uuid.New(),
		ChunkIndex:     2,
		CreatedAt:      time.Now(),
	}

	mod := m.ToModel(src)
	assert.Equal(t, pgvector.NewVector([]float32{0.1, 0.2, 0.3}), mod.EmbeddingValue)

	got := m.ToEntity(mod)
	assert.Equal(t, src.EmbeddingValue, got.EmbeddingValue)
	assert.Equal(t, src.PlaceId, got.PlaceId)
	assert.Equal(t, src.ChunkIndex, got.ChunkIndex)
}
