package service

import (
	"context"
	"fmt"
	"strings"

	"ai-places-be/internal/entity"
	"ai-places-be/internal/repository/contract"
	"ai-places-be/internal/repository/specification"
	"ai-places-be/pkg/embedding"
	"ai-places-be/pkg/retrieval"

	"github.com/google/uuid"
)

// similarityThreshold drops semantic matches too far from the query to
// be useful candidates.
const similarityThreshold = 0.35

// placeSearchService adapts the place repositories to the retrieval
// engine's search ports. It satisfies both retrieval.Searcher and
// retrieval.VectorSearcher.
type placeSearchService struct {
	places            contract.PlaceRepository
	embeddings        contract.PlaceEmbeddingRepository
	embeddingProvider embedding.EmbeddingProvider
}

func NewPlaceSearchService(
	places contract.PlaceRepository,
	embeddings contract.PlaceEmbeddingRepository,
	embeddingProvider embedding.EmbeddingProvider,
) *placeSearchService {
	return &placeSearchService{
		places:            places,
		embeddings:        embeddings,
		embeddingProvider: embeddingProvider,
	}
}

var (
	_ retrieval.Searcher       = (*placeSearchService)(nil)
	_ retrieval.VectorSearcher = (*placeSearchService)(nil)
)

func (s *placeSearchService) SemanticSearch(ctx context.Context, query string, topK int, f retrieval.Filters) ([]retrieval.Document, error) {
	res, err := s.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := s.embeddings.SearchSimilarWithScore(ctx, res.Embedding.Values, topK, similarityThreshold)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return nil, nil
	}

	// Chunks reference places; one query fetches the referenced rows and
	// the chunk text becomes the document snippet.
	ids := make([]uuid.UUID, 0, len(scored))
	seen := make(map[uuid.UUID]struct{}, len(scored))
	for _, sc := range scored {
		if _, dup := seen[sc.Embedding.PlaceId]; dup {
			continue
		}
		seen[sc.Embedding.PlaceId] = struct{}{}
		ids = append(ids, sc.Embedding.PlaceId)
	}

	places, err := s.places.FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*entity.Place, len(places))
	for _, p := range places {
		byID[p.Id] = p
	}

	var docs []retrieval.Document
	for _, sc := range scored {
		place, ok := byID[sc.Embedding.PlaceId]
		if !ok {
			continue
		}
		if !matchesFilters(place, f) {
			continue
		}
		doc := toDocument(place, sc.Similarity)
		doc.Snippet = sc.Embedding.Document
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *placeSearchService) SearchByText(ctx context.Context, query string, limit int, f retrieval.Filters) ([]retrieval.Document, error) {
	specs := []specification.Specification{
		specification.TextSearch{Query: query},
		specification.OrderBy{Field: "rating", Desc: true},
		specification.Limit{N: limit},
	}
	specs = append(specs, filterSpecs(f)...)

	places, err := s.places.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return entityDocuments(places, f), nil
}

func (s *placeSearchService) SearchByTags(ctx context.Context, tags []string, limit int, f retrieval.Filters) ([]retrieval.Document, error) {
	specs := []specification.Specification{
		specification.TagsContainAny{Tags: tags},
		specification.OrderBy{Field: "rating", Desc: true},
		specification.Limit{N: limit},
	}
	specs = append(specs, filterSpecs(f)...)

	places, err := s.places.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return entityDocuments(places, f), nil
}

func (s *placeSearchService) SearchNearby(ctx context.Context, lat, lng, radiusKm float64, limit int, f retrieval.Filters) ([]retrieval.Document, error) {
	var specs []specification.Specification
	if f.Keyword != "" {
		specs = append(specs, specification.TextSearch{Query: f.Keyword})
	}
	specs = append(specs, filterSpecs(f)...)

	nearby, err := s.places.SearchNearby(ctx, lat, lng, radiusKm, limit, specs...)
	if err != nil {
		return nil, err
	}

	var docs []retrieval.Document
	for _, n := range nearby {
		if !matchesFilters(n.Place, f) {
			continue
		}
		// Nearer places score higher; the ranking engine refines order.
		score := 1.0 / (1.0 + n.DistanceKm)
		docs = append(docs, toDocument(n.Place, score))
	}
	return docs, nil
}

func (s *placeSearchService) SearchByAddressPattern(ctx context.Context, pattern string, limit int, f retrieval.Filters) ([]retrieval.Document, error) {
	specs := []specification.Specification{
		specification.AddressRegex{Pattern: pattern},
		specification.Limit{N: limit},
	}
	specs = append(specs, filterSpecs(f)...)

	places, err := s.places.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	// Address matches are near-exact; they outrank fuzzy text hits.
	var docs []retrieval.Document
	for _, p := range places {
		if !matchesFilters(p, f) {
			continue
		}
		docs = append(docs, toDocument(p, 0.95))
	}
	return docs, nil
}

// filterSpecs translates the SQL-expressible part of the retrieval
// filters into query specifications.
func filterSpecs(f retrieval.Filters) []specification.Specification {
	var specs []specification.Specification
	if f.Category != "" {
		specs = append(specs, specification.ByCategory{Category: f.Category})
	}
	if f.District != "" {
		specs = append(specs, specification.ByDistrict{District: f.District})
	}
	if f.MinPrice > 0 {
		specs = append(specs, specification.MinPrice{Price: f.MinPrice})
	}
	if f.Entity != nil && f.Entity.MinPrice > 0 {
		specs = append(specs, specification.MinPrice{Price: f.Entity.MinPrice})
	}
	return specs
}

// matchesFilters evaluates the full filter set in process. The SQL
// strategies also push category, district and price down as
// specifications, but the semantic path has no SQL stage, so every
// constraint must hold here too.
func matchesFilters(place *entity.Place, f retrieval.Filters) bool {
	if place == nil {
		return false
	}

	if f.Category != "" && !strings.EqualFold(place.Category, f.Category) {
		return false
	}
	if f.District != "" && !strings.EqualFold(place.District, f.District) {
		return false
	}

	minPrice := f.MinPrice
	if f.Entity != nil && f.Entity.MinPrice > minPrice {
		minPrice = f.Entity.MinPrice
	}
	if minPrice > 0 && place.Price < minPrice {
		return false
	}

	if f.Entity != nil && len(f.Entity.Categories) > 0 && place.Category != "" {
		category := strings.ToLower(place.Category)
		admitted := false
		for _, c := range f.Entity.Categories {
			if strings.EqualFold(place.Category, c) {
				admitted = true
				break
			}
		}
		if !admitted && f.Entity.CategoryPattern != "" {
			for _, part := range strings.Split(f.Entity.CategoryPattern, "|") {
				if part != "" && strings.Contains(category, part) {
					admitted = true
					break
				}
			}
		}
		if !admitted {
			return false
		}
	}

	if f.Exclude != nil {
		for _, c := range f.Exclude.Categories {
			if strings.EqualFold(place.Category, c) {
				return false
			}
		}
		name := strings.ToLower(place.Name)
		for _, kw := range f.Exclude.NameKeywords {
			if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
				return false
			}
		}
		desc := strings.ToLower(place.Description)
		for _, kw := range f.Exclude.DescKeywords {
			if kw != "" && strings.Contains(desc, strings.ToLower(kw)) {
				return false
			}
		}
	}
	return true
}

func entityDocuments(places []*entity.Place, f retrieval.Filters) []retrieval.Document {
	var docs []retrieval.Document
	for i, p := range places {
		if !matchesFilters(p, f) {
			continue
		}
		// Positional score keeps the repository ordering meaningful when
		// the reranker is unavailable.
		score := 0.9 - float64(i)*0.01
		docs = append(docs, toDocument(p, score))
	}
	return docs
}

func toDocument(place *entity.Place, score float64) retrieval.Document {
	doc := retrieval.Document{
		ID:      place.Id.String(),
		Score:   score,
		Snippet: buildSnippet(place),
		Metadata: retrieval.Metadata{
			Name:        place.Name,
			Address:     place.Address,
			District:    place.District,
			Category:    place.Category,
			Price:       place.Price,
			Rating:      place.Rating,
			ReviewCount: place.ReviewCount,
			Image:       place.ImageURL,
			Tags:        place.AiTags,
			Source:      "postgres",
		},
	}
	if place.Latitude != nil && place.Longitude != nil {
		doc.Metadata.Coordinates = &retrieval.Coordinates{
			Lat: *place.Latitude,
			Lng: *place.Longitude,
		}
	}
	return doc
}

func buildSnippet(place *entity.Place) string {
	var b strings.Builder
	b.WriteString(place.Description)
	if place.Category != "" {
		fmt.Fprintf(&b, " Phân loại: %s.", place.Category)
	}
	if len(place.AiTags) > 0 {
		fmt.Fprintf(&b, " Đặc điểm: %s.", strings.Join(place.AiTags, ", "))
	}
	return strings.TrimSpace(b.String())
}
