package ranking

import (
	"context"
	"sort"
	"strings"

	"ai-places-be/pkg/intent"
	"ai-places-be/pkg/rerank"
	"ai-places-be/pkg/retrieval"
)

const (
	// TopK caps the pool handed to prompt assembly.
	TopK = 8
	// nearestKeep is how many places survive a near-me distance sort.
	nearestKeep = 5
)

// Preferences are the caller's saved tastes, applied only when the
// personalization flag is on.
type Preferences struct {
	FavoriteFoods []string `json:"favoriteFoods,omitempty"`
	Styles        []string `json:"styles,omitempty"`
	Atmosphere    []string `json:"atmosphere,omitempty"`
	Activities    []string `json:"activities,omitempty"`
	Dietary       []string `json:"dietary,omitempty"`
}

// Options steer one ranking pass.
type Options struct {
	Query          string
	Classification intent.Classification
	// District is the canonical district the query named, empty for none.
	District string
	// Dietary arms the vegetarian name filter after query rewriting.
	Dietary bool
	// Preferences is nil when personalization is disabled.
	Preferences *Preferences
	// Location enables the final distance sort.
	Location *retrieval.Coordinates
}

// Engine turns a merged candidate pool into the final ranked list. Every
// stage filters or reorders; none may invent or duplicate an id.
type Engine struct {
	reranker rerank.Reranker
}

func NewEngine(reranker rerank.Reranker) *Engine {
	if reranker == nil {
		reranker = rerank.Disabled{}
	}
	return &Engine{reranker: reranker}
}

// Rank applies the full stage order. A failing reranker degrades to the
// retrieval order instead of failing the request; the returned degraded
// flag tells the caller the order is unreranked.
func (e *Engine) Rank(ctx context.Context, pool []retrieval.Document, opts Options) (ranked []retrieval.Document, degraded bool) {
	pool = DropInvalidAddresses(pool)
	pool = DedupeKeepBest(pool)

	pool, degraded = e.applyRerank(ctx, pool, opts.Query)

	if opts.Preferences != nil {
		pool = ApplyPreferenceBoost(pool, opts.Preferences)
	}
	if opts.Classification.Mood != nil {
		pool = ApplyMoodAdjust(pool, opts.Classification.Mood)
	}
	if opts.Classification.Intent == intent.IntentFoodEntity {
		pool = ApplyEntityFilter(pool, opts.Classification.Keyword)
	}

	if len(pool) > TopK {
		pool = pool[:TopK]
	}

	if opts.Dietary {
		pool = DietaryFilter(pool)
	}
	pool = DistrictFilter(pool, opts.District)
	pool = DatingFilter(pool, opts.Classification.IsDating)

	if opts.Location != nil {
		pool = SortByDistance(pool, *opts.Location, nearestKeep)
	}
	return pool, degraded
}

func (e *Engine) applyRerank(ctx context.Context, pool []retrieval.Document, query string) ([]retrieval.Document, bool) {
	if len(pool) == 0 || !e.reranker.Available() {
		return pool, !e.reranker.Available() && len(pool) > 0
	}

	texts := make([]string, len(pool))
	for i, doc := range pool {
		texts[i] = rerankText(doc)
	}

	results, err := e.reranker.Rerank(ctx, query, texts)
	if err != nil || len(results) == 0 {
		return pool, true
	}

	reordered := make([]retrieval.Document, 0, len(pool))
	taken := make(map[int]struct{}, len(results))
	for _, res := range results {
		doc := pool[res.Index]
		doc.Score = res.Score
		reordered = append(reordered, doc)
		taken[res.Index] = struct{}{}
	}
	// A truncating reranker must not lose candidates.
	for i, doc := range pool {
		if _, ok := taken[i]; !ok {
			reordered = append(reordered, doc)
		}
	}
	return reordered, false
}

func rerankText(doc retrieval.Document) string {
	if doc.Snippet != "" {
		return doc.Snippet
	}
	return doc.Metadata.Name + " - " + doc.Metadata.Address
}

// DropInvalidAddresses removes places that cannot be visited because the
// address is blank or a placeholder.
func DropInvalidAddresses(pool []retrieval.Document) []retrieval.Document {
	out := pool[:0:0]
	for _, doc := range pool {
		address := strings.TrimSpace(doc.Metadata.Address)
		if address == "" || strings.EqualFold(address, "đang cập nhật") {
			continue
		}
		out = append(out, doc)
	}
	return out
}

// DedupeKeepBest collapses duplicate ids, keeping the highest score.
func DedupeKeepBest(pool []retrieval.Document) []retrieval.Document {
	index := make(map[string]int)
	var out []retrieval.Document
	for _, doc := range pool {
		key := doc.ID
		if key == "" {
			key = doc.Metadata.Name
		}
		if key == "" {
			out = append(out, doc)
			continue
		}
		at, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, doc)
			continue
		}
		if doc.Score > out[at].Score {
			out[at] = doc
		}
	}
	return out
}

func sortByScoreDesc(pool []retrieval.Document) {
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].Score > pool[j].Score })
}
