package retrieval

import (
	"context"
	"regexp"
	"strings"

	"ai-places-be/pkg/intent"
	"ai-places-be/pkg/keywords"
	"ai-places-be/pkg/textutil"
)

const (
	// DefaultTopK bounds the semantic candidate set.
	DefaultTopK = 12
	// DefaultTextLimit bounds each keyword strategy result.
	DefaultTextLimit = 5
	// ItineraryTextLimit widens keyword search for itinerary requests.
	ItineraryTextLimit = 20

	nearbyRadiusKm       = 30
	nearbyCandidateLimit = 100
	addressResultLimit   = 5
)

// Request is one retrieval pass over all active strategies.
type Request struct {
	// Query is the text to search with, after any rewriting.
	Query          string
	Classification intent.Classification
	// District is the canonical district name, empty when none detected.
	District string
	// NearMe activates geo search and suppresses semantic/keyword
	// strategies so only genuinely close places surface.
	NearMe   bool
	Location *Coordinates

	TextLimit int
	TopK      int
}

func (r Request) filters() Filters {
	f := Filters{District: r.District}
	if r.Classification.Accommodation {
		f.Category = keywords.AccommodationCategory
	}
	if r.Classification.Luxury && r.Classification.Must != nil {
		f.MinPrice = r.Classification.Must.MinPrice
	}
	return f
}

// Strategy is one bounded search tactic. Implementations return their
// own candidates and never consult each other.
type Strategy interface {
	Name() string
	Search(ctx context.Context, req Request) ([]Document, error)
}

// semanticStrategy embeds the query and runs nearest-neighbor lookup.
type semanticStrategy struct {
	vector VectorSearcher
}

func (s *semanticStrategy) Name() string { return "semantic" }

func (s *semanticStrategy) Search(ctx context.Context, req Request) ([]Document, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	f := req.filters()
	docs, err := s.vector.SemanticSearch(ctx, req.Query, topK, f)
	if err != nil {
		return nil, err
	}

	docs = dedupeKeepBest(docs)
	if req.Classification.Intent == intent.IntentFoodEntity && req.Classification.Must != nil {
		docs = filterFoodCategories(docs, req.Classification.Must)
	}
	return docs, nil
}

// dedupeKeepBest collapses chunks of the same place, keeping the chunk
// with the highest similarity.
func dedupeKeepBest(docs []Document) []Document {
	best := make(map[string]int)
	var out []Document
	for _, doc := range docs {
		idx, ok := best[doc.ID]
		if !ok {
			best[doc.ID] = len(out)
			out = append(out, doc)
			continue
		}
		if doc.Score > out[idx].Score {
			out[idx] = doc
		}
	}
	return out
}

// filterFoodCategories drops non-food venues from a dish query. A
// missing category keeps the document; inclusion beats exclusion when
// the store data is incomplete.
func filterFoodCategories(docs []Document, must *intent.MustFilter) []Document {
	pattern := must.CategoryPattern
	var re *regexp.Regexp
	if pattern != "" {
		re = regexp.MustCompile("(?i)" + pattern)
	}

	out := docs[:0]
	for _, doc := range docs {
		category := doc.Metadata.Category
		if category == "" {
			out = append(out, doc)
			continue
		}
		keep := false
		for _, c := range must.Categories {
			if c == category {
				keep = true
				break
			}
		}
		if !keep && re != nil && re.MatchString(category) {
			keep = true
		}
		if keep {
			out = append(out, doc)
		}
	}
	return out
}

// keywordStrategy queries the document store, shaped by intent.
type keywordStrategy struct {
	store Searcher
}

func (s *keywordStrategy) Name() string { return "keyword" }

func (s *keywordStrategy) Search(ctx context.Context, req Request) ([]Document, error) {
	limit := req.TextLimit
	if limit <= 0 {
		limit = DefaultTextLimit
	}
	f := req.filters()

	switch req.Classification.Intent {
	case intent.IntentFoodEntity:
		f.Entity = req.Classification.Must
		return s.store.SearchByText(ctx, req.Query, limit, f)
	case intent.IntentPlaceVibe, intent.IntentActivity:
		f.Exclude = req.Classification.Exclude
		return s.store.SearchByTags(ctx, req.Classification.Tags, limit, f)
	default:
		return s.store.SearchByText(ctx, req.Query, limit, f)
	}
}

// nearbyStrategy runs a geo-radius query with a generous candidate
// superset so distance sorting can pick the true nearest few.
type nearbyStrategy struct {
	store Searcher
}

func (s *nearbyStrategy) Name() string { return "nearby" }

func (s *nearbyStrategy) Search(ctx context.Context, req Request) ([]Document, error) {
	if req.Location == nil {
		return nil, nil
	}
	f := req.filters()
	f.Keyword = ExtractFoodKeyword(req.Query)
	return s.store.SearchNearby(ctx, req.Location.Lat, req.Location.Lng, nearbyRadiusKm, nearbyCandidateLimit, f)
}

// ExtractFoodKeyword pulls a dish name out of a near-me query so the geo
// search matches on the dish instead of the full sentence. Longer
// keywords win so "bún chả" is not shortened to "bún". Returns the
// whole query when no dish is recognized.
func ExtractFoodKeyword(query string) string {
	normalized := textutil.Normalize(query)
	for _, kw := range textutil.SortByLengthDesc(keywords.NearbyFoodKeywords) {
		if strings.Contains(normalized, kw) {
			return kw
		}
	}
	return normalized
}

// addressStrategy fires only when the query names a concrete address
// (alley, lane, street, ward) and matches it loosely against stored
// addresses.
type addressStrategy struct {
	store Searcher
}

func (s *addressStrategy) Name() string { return "address" }

func (s *addressStrategy) Search(ctx context.Context, req Request) ([]Document, error) {
	pattern, ok := BuildAddressPattern(req.Query)
	if !ok {
		return nil, nil
	}
	f := req.filters()
	f.Entity = req.Classification.Must
	return s.store.SearchByAddressPattern(ctx, pattern, addressResultLimit, f)
}

// BuildAddressPattern extracts the literal address after a marker word
// and turns it into a whitespace-flexible case-insensitive pattern, e.g.
// "ngõ 67 văn cao" becomes `(?:ngõ|ng\.?)\s+67\s+văn\s+cao`. A strict
// substring match would miss spacing and abbreviation variants.
func BuildAddressPattern(query string) (string, bool) {
	normalized := textutil.Normalize(query)

	for _, marker := range keywords.AddressMarkers {
		idx := strings.Index(normalized, marker.Key)
		if idx < 0 {
			continue
		}

		suffix := strings.TrimSpace(normalized[idx+len(marker.Key):])
		for _, stop := range keywords.StopWords {
			if wIdx := strings.Index(suffix, stop); wIdx >= 0 {
				suffix = strings.TrimSpace(suffix[:wIdx])
			}
		}
		if suffix == "" {
			continue
		}

		parts := strings.Fields(regexp.QuoteMeta(suffix))
		return marker.Pattern + `\s+` + strings.Join(parts, `\s+`), true
	}
	return "", false
}

// HasAddressMarker reports whether the query names a concrete address.
func HasAddressMarker(query string) bool {
	normalized := textutil.Normalize(query)
	for _, marker := range keywords.AddressMarkers {
		if strings.Contains(normalized, marker.Key) {
			return true
		}
	}
	return false
}
