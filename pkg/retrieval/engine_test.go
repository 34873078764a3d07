package retrieval

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ai-places-be/pkg/intent"
)

type fakeVector struct {
	mu      sync.Mutex
	docs    []Document
	err     error
	delay   time.Duration
	queries []string
}

func (f *fakeVector) SemanticSearch(ctx context.Context, query string, topK int, filters Filters) ([]Document, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type fakeStore struct {
	mu          sync.Mutex
	textDocs    []Document
	tagDocs     []Document
	nearbyDocs  []Document
	addressDocs []Document

	textErr error

	textCalls    int
	tagCalls     int
	nearbyCalls  int
	addressCalls int

	lastFilters Filters
	lastPattern string
}

func (f *fakeStore) SearchByText(ctx context.Context, query string, limit int, filters Filters) ([]Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.textCalls++
	f.lastFilters = filters
	return f.textDocs, f.textErr
}

func (f *fakeStore) SearchByTags(ctx context.Context, tags []string, limit int, filters Filters) ([]Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagCalls++
	f.lastFilters = filters
	return f.tagDocs, nil
}

func (f *fakeStore) SearchNearby(ctx context.Context, lat, lng, radiusKm float64, limit int, filters Filters) ([]Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nearbyCalls++
	f.lastFilters = filters
	return f.nearbyDocs, nil
}

func (f *fakeStore) SearchByAddressPattern(ctx context.Context, pattern string, limit int, filters Filters) ([]Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addressCalls++
	f.lastPattern = pattern
	return f.addressDocs, nil
}

func doc(id, name string, score float64) Document {
	return Document{ID: id, Score: score, Metadata: Metadata{Name: name, Category: "Quán ăn"}}
}

func TestRetrieveMergesStrategiesFirstWriterWins(t *testing.T) {
	vector := &fakeVector{docs: []Document{doc("a", "semantic A", 0.9), doc("b", "semantic B", 0.8)}}
	store := &fakeStore{textDocs: []Document{doc("b", "keyword B", 0.5), doc("c", "keyword C", 0.4)}}
	engine := NewEngine(vector, store, time.Second)

	result := engine.Retrieve(context.Background(), Request{Query: "quán phở ngon"})

	if len(result.Degraded) != 0 {
		t.Fatalf("degraded = %v", result.Degraded)
	}
	if len(result.Documents) != 3 {
		t.Fatalf("documents = %d, want 3", len(result.Documents))
	}
	// Id "b" was found by both strategies; the semantic copy came first.
	for _, d := range result.Documents {
		if d.ID == "b" && d.Metadata.Name != "semantic B" {
			t.Errorf("doc b name = %q, want first-seen metadata", d.Metadata.Name)
		}
	}
}

func TestRetrieveNearMeSkipsSemanticAndKeyword(t *testing.T) {
	vector := &fakeVector{docs: []Document{doc("far", "semantic far", 0.99)}}
	store := &fakeStore{nearbyDocs: []Document{doc("near", "gần đây", 0)}}
	engine := NewEngine(vector, store, time.Second)

	result := engine.Retrieve(context.Background(), Request{
		Query:    "quán phở gần đây",
		NearMe:   true,
		Location: &Coordinates{Lat: 21.0285, Lng: 105.8542},
	})

	if len(vector.queries) != 0 {
		t.Error("near-me mode must not run semantic search")
	}
	if store.textCalls != 0 || store.tagCalls != 0 {
		t.Error("near-me mode must not run keyword search")
	}
	if store.nearbyCalls != 1 {
		t.Errorf("nearbyCalls = %d, want 1", store.nearbyCalls)
	}
	if len(result.Documents) != 1 || result.Documents[0].ID != "near" {
		t.Errorf("documents = %+v", result.Documents)
	}
	if store.lastFilters.Keyword != "phở" {
		t.Errorf("extracted keyword = %q, want phở", store.lastFilters.Keyword)
	}
}

func TestRetrieveSlowStrategyDegrades(t *testing.T) {
	vector := &fakeVector{docs: []Document{doc("a", "A", 0.9)}, delay: 200 * time.Millisecond}
	store := &fakeStore{textDocs: []Document{doc("b", "B", 0.5)}}
	engine := NewEngine(vector, store, 20*time.Millisecond)

	result := engine.Retrieve(context.Background(), Request{Query: "quán ăn ngon"})

	if len(result.Documents) != 1 || result.Documents[0].ID != "b" {
		t.Fatalf("documents = %+v, want only keyword result", result.Documents)
	}
	found := false
	for _, name := range result.Degraded {
		if name == "semantic" {
			found = true
		}
	}
	if !found {
		t.Errorf("degraded = %v, want semantic", result.Degraded)
	}
}

func TestRetrieveFailingStrategyDegrades(t *testing.T) {
	vector := &fakeVector{docs: []Document{doc("a", "A", 0.9)}}
	store := &fakeStore{textErr: errors.New("store down")}
	engine := NewEngine(vector, store, time.Second)

	result := engine.Retrieve(context.Background(), Request{Query: "quán ăn ngon"})

	if len(result.Documents) != 1 {
		t.Fatalf("documents = %d, want semantic result only", len(result.Documents))
	}
	if len(result.Degraded) != 1 || result.Degraded[0] != "keyword" {
		t.Errorf("degraded = %v, want [keyword]", result.Degraded)
	}
}

func TestRetrieveVibeIntentUsesTagSearch(t *testing.T) {
	vector := &fakeVector{}
	store := &fakeStore{tagDocs: []Document{doc("v", "vibe place", 0)}}
	engine := NewEngine(vector, store, time.Second)

	result := engine.Retrieve(context.Background(), Request{
		Query: "quán cafe chill",
		Classification: intent.Classification{
			Intent: intent.IntentPlaceVibe,
			Tags:   []string{"chill", "yên tĩnh"},
		},
	})

	if store.tagCalls != 1 {
		t.Errorf("tagCalls = %d, want 1", store.tagCalls)
	}
	if store.textCalls != 0 {
		t.Errorf("textCalls = %d, want 0", store.textCalls)
	}
	if len(result.Documents) != 1 {
		t.Errorf("documents = %d", len(result.Documents))
	}
}

func TestRetrieveAddressPatternReachesStore(t *testing.T) {
	vector := &fakeVector{}
	store := &fakeStore{addressDocs: []Document{doc("addr", "số nhà", 0)}}
	engine := NewEngine(vector, store, time.Second)

	engine.Retrieve(context.Background(), Request{Query: "quán ăn ngõ 67 văn cao"})

	if store.addressCalls != 1 {
		t.Fatalf("addressCalls = %d, want 1", store.addressCalls)
	}
	if !strings.Contains(store.lastPattern, `67\s+văn\s+cao`) {
		t.Errorf("pattern = %q", store.lastPattern)
	}
}

func TestRetrieveForItineraryStratifiedSelection(t *testing.T) {
	// The same top doc for every slot query: stratified selection must
	// not repeat it.
	vector := &fakeVector{docs: []Document{
		doc("x", "top hit", 0.95),
		doc("y", "second", 0.90),
		doc("z", "third", 0.85),
	}}
	engine := NewEngine(vector, &fakeStore{}, time.Second)

	result := engine.RetrieveForItinerary(context.Background(), ItineraryEveningSimple)

	if len(vector.queries) != 4 {
		t.Fatalf("slot queries = %d, want 4", len(vector.queries))
	}
	if len(result.Documents) != 3 {
		t.Fatalf("documents = %d, want 3 unique", len(result.Documents))
	}
	seen := make(map[string]bool)
	for _, d := range result.Documents {
		if seen[d.ID] {
			t.Errorf("duplicate id %s", d.ID)
		}
		seen[d.ID] = true
	}
}

func TestBuildAddressPattern(t *testing.T) {
	tests := []struct {
		query string
		want  string
		ok    bool
	}{
		{"quán ăn ngõ 67 văn cao", `(?:ngõ|ng\.?)\s+67\s+văn\s+cao`, true},
		{"cafe phố huế giá rẻ", `(?:phố|p\.?)\s+huế`, true},
		{"quán phở ngon", "", false},
		{"ngõ", "", false},
	}

	for _, tt := range tests {
		got, ok := BuildAddressPattern(tt.query)
		if ok != tt.ok || got != tt.want {
			t.Errorf("BuildAddressPattern(%q) = %q, %v; want %q, %v", tt.query, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractFoodKeyword(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"tìm quán bún chả gần đây", "bún chả"},
		{"quán phở gần tôi", "phở"},
		{"chỗ nào chill gần đây", "chỗ nào chill gần đây"},
	}
	for _, tt := range tests {
		if got := ExtractFoodKeyword(tt.query); got != tt.want {
			t.Errorf("ExtractFoodKeyword(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestFilterFoodCategoriesOnSemanticResults(t *testing.T) {
	vector := &fakeVector{docs: []Document{
		{ID: "1", Metadata: Metadata{Name: "Phở Thìn", Category: "Quán ăn"}},
		{ID: "2", Metadata: Metadata{Name: "Sunshine Karaoke", Category: "Karaoke"}},
		{ID: "3", Metadata: Metadata{Name: "No category"}},
	}}
	engine := NewEngine(vector, &fakeStore{}, time.Second)

	result := engine.Retrieve(context.Background(), Request{
		Query: "quán phở ngon",
		Classification: intent.Classification{
			Intent: intent.IntentFoodEntity,
			Must: &intent.MustFilter{
				Keyword:         "phở",
				Categories:      []string{"Quán ăn", "Nhà hàng"},
				CategoryPattern: `ăn|uống|cafe|coffee|nhà hàng|quán|buffet|food`,
			},
		},
	})

	ids := make(map[string]bool)
	for _, d := range result.Documents {
		ids[d.ID] = true
	}
	if !ids["1"] || ids["2"] || !ids["3"] {
		t.Errorf("kept ids = %v, want 1 and 3 only", ids)
	}
}

func TestMergeByIDSkipsEmptyIDs(t *testing.T) {
	merged := MergeByID(
		[]Document{{ID: ""}, {ID: "a"}},
		[]Document{{ID: "a"}, {ID: "b"}},
	)
	if len(merged) != 2 {
		t.Errorf("merged = %d, want 2", len(merged))
	}
}
