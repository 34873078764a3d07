package implementation

import (
	"context"

	"ai-places-be/internal/entity"
	"ai-places-be/internal/mapper"
	"ai-places-be/internal/model"
	"ai-places-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PlaceEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PlaceEmbeddingMapper
}

func NewPlaceEmbeddingRepository(db *gorm.DB) contract.PlaceEmbeddingRepository {
	return &PlaceEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewPlaceEmbeddingMapper(),
	}
}

func (r *PlaceEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.PlaceEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.PlaceEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *PlaceEmbeddingRepositoryImpl) DeleteByPlaceId(ctx context.Context, placeId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("place_id = ?", placeId).Delete(&model.PlaceEmbedding{}).Error
}

func (r *PlaceEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredPlaceEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding_value <=> query) is the similarity score.
	type result struct {
		model.PlaceEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("place_embeddings").
		Select("place_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN places ON places.id = place_embeddings.place_id").
		Where("place_embeddings.deleted_at IS NULL").
		Where("places.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredPlaceEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredPlaceEmbedding{
			Embedding:  r.mapper.ToEntity(&res.PlaceEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
