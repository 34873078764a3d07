package contract

import (
	"context"

	"ai-places-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredPlaceEmbedding pairs an embedding row with its cosine
// similarity to the query vector.
type ScoredPlaceEmbedding struct {
	Embedding  *entity.PlaceEmbedding
	Similarity float64
}

type PlaceEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.PlaceEmbedding) error
	DeleteByPlaceId(ctx context.Context, placeId uuid.UUID) error

	// SearchSimilarWithScore returns the closest embeddings by cosine
	// similarity, filtered to a minimum score.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredPlaceEmbedding, error)
}
