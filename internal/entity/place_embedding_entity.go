package entity

import (
	"time"

	"github.com/google/uuid"
)

// PlaceEmbedding is one embedded chunk of a place's searchable document.
type PlaceEmbedding struct {
	Id             uuid.UUID
	Document       string
	EmbeddingValue []float32
	PlaceId        uuid.UUID
	ChunkIndex     int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
