package retrieval

import (
	"context"

	"ai-places-be/pkg/intent"
)

// Filters constrain a document-store query. Zero values mean
// "unrestricted" for every field.
type Filters struct {
	Category string
	MinPrice int
	District string
	// Keyword is a dish extracted from a near-me query, matched loosely
	// against name and description.
	Keyword string
	Entity  *intent.MustFilter
	Exclude *intent.ExcludeFilter
}

// Searcher is the document-store port for keyword, geo and address
// pattern lookups.
type Searcher interface {
	SearchByText(ctx context.Context, query string, limit int, f Filters) ([]Document, error)
	SearchByTags(ctx context.Context, tags []string, limit int, f Filters) ([]Document, error)
	SearchNearby(ctx context.Context, lat, lng, radiusKm float64, limit int, f Filters) ([]Document, error)
	SearchByAddressPattern(ctx context.Context, pattern string, limit int, f Filters) ([]Document, error)
}

// VectorSearcher is the vector-store port for nearest-neighbor lookup.
type VectorSearcher interface {
	SemanticSearch(ctx context.Context, query string, topK int, f Filters) ([]Document, error)
}
