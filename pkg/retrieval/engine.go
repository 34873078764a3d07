package retrieval

import (
	"context"
	"sync"
	"time"
)

// DefaultStrategyTimeout bounds each individual strategy. A slow store
// degrades that one strategy to empty instead of stalling the request.
const DefaultStrategyTimeout = 1 * time.Second

// ItineraryType selects the multi-query plan for itinerary requests.
type ItineraryType string

const (
	ItineraryFullDay       ItineraryType = "FULL_DAY"
	ItineraryEveningSimple ItineraryType = "EVENING_SIMPLE"
	ItineraryEveningFancy  ItineraryType = "EVENING_FANCY"
	// ItineraryEveningFull has no dedicated query plan and retrieves
	// with the full-day queries; only the prompt differs.
	ItineraryEveningFull ItineraryType = "EVENING_FULL"
)

// itineraryQueries lists the per-slot retrieval queries for each plan.
var itineraryQueries = map[ItineraryType][]string{
	ItineraryEveningFancy: {
		"nhà hàng lẩu buffet cao cấp ăn tối Hà Nội",
		"karaoke music box hát cao cấp Hà Nội",
		"khách sạn nghỉ ngơi Hà Nội",
		"khách sạn gần trung tâm Hà Nội",
	},
	ItineraryEveningSimple: {
		"KFC Jollibee McDonald fast food ăn nhanh Hà Nội",
		"quán phở bún cơm ăn nhanh Hà Nội",
		"quán cafe chill view đẹp Hà Nội",
		"hồ hoàn kiếm hồ tây dạo bộ tối Hà Nội",
	},
	ItineraryFullDay: {
		"quán phở ngon Hà Nội ăn sáng",
		"quán cafe yên tĩnh làm việc Hà Nội",
		"Lăng Bác Hồ Chí Minh tham quan",
		"quán bún chả ngon Hà Nội ăn trưa",
		"văn miếu quốc tử giám di tích lịch sử",
		"hồ tây công viên dạo chơi Hà Nội",
		"nhà hàng lẩu buffet ăn tối Hà Nội",
		"hồ hoàn kiếm phố cổ dạo bộ tối Hà Nội",
	},
}

const (
	itineraryPerQueryTopK = 5
	itineraryPerQueryKeep = 2
)

// Result is a merged candidate pool plus the names of strategies that
// failed or timed out and contributed nothing.
type Result struct {
	Documents []Document
	Degraded  []string
}

// Engine fans a request out over the active strategies, bounds each one
// in time, and merges the pools by id with first-writer-wins metadata.
type Engine struct {
	vector  VectorSearcher
	store   Searcher
	timeout time.Duration
}

func NewEngine(vector VectorSearcher, store Searcher, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = DefaultStrategyTimeout
	}
	return &Engine{vector: vector, store: store, timeout: timeout}
}

// Retrieve runs the strategy set for the request concurrently. In
// near-me mode only geo and address search run, because semantic matches
// far across town would defeat the point of "near me". Merge order is
// the fixed strategy order, not completion order, so results are
// deterministic for a given set of store responses.
func (e *Engine) Retrieve(ctx context.Context, req Request) Result {
	var strategies []Strategy
	if req.NearMe && req.Location != nil {
		strategies = []Strategy{
			&nearbyStrategy{store: e.store},
			&addressStrategy{store: e.store},
		}
	} else {
		strategies = []Strategy{
			&semanticStrategy{vector: e.vector},
			&keywordStrategy{store: e.store},
			&addressStrategy{store: e.store},
		}
	}

	pools := make([][]Document, len(strategies))
	errs := make([]error, len(strategies))

	var wg sync.WaitGroup
	for i, strategy := range strategies {
		wg.Add(1)
		go func(i int, strategy Strategy) {
			defer wg.Done()

			sctx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			docs, err := strategy.Search(sctx, req)
			if err != nil {
				errs[i] = err
				return
			}
			pools[i] = docs
		}(i, strategy)
	}
	wg.Wait()

	result := Result{Documents: MergeByID(pools...)}
	for i, err := range errs {
		if err != nil {
			result.Degraded = append(result.Degraded, strategies[i].Name())
		}
	}
	return result
}

// RetrieveForItinerary runs the multi-query plan for the itinerary type
// and picks the top candidates from each slot query, so a full-day plan
// gets breakfast, sightseeing and dinner places instead of eight
// variations of the best-matching restaurant.
func (e *Engine) RetrieveForItinerary(ctx context.Context, itineraryType ItineraryType) Result {
	queries, ok := itineraryQueries[itineraryType]
	if !ok {
		queries = itineraryQueries[ItineraryFullDay]
	}

	pools := make([][]Document, len(queries))
	failures := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()

			sctx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			docs, err := e.vector.SemanticSearch(sctx, query, itineraryPerQueryTopK, Filters{})
			if err != nil {
				failures[i] = err
				return
			}
			pools[i] = docs
		}(i, query)
	}
	wg.Wait()

	// Stratified selection: up to two places per slot query, never the
	// same place twice across slots.
	var result Result
	seen := make(map[string]struct{})
	for i, pool := range pools {
		if failures[i] != nil {
			result.Degraded = append(result.Degraded, "semantic")
			continue
		}
		count := 0
		for _, doc := range pool {
			if count >= itineraryPerQueryKeep {
				break
			}
			if doc.ID == "" {
				continue
			}
			if _, ok := seen[doc.ID]; ok {
				continue
			}
			seen[doc.ID] = struct{}{}
			result.Documents = append(result.Documents, doc)
			count++
		}
	}
	return result
}
