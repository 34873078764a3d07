package ranking

import (
	"context"
	"errors"
	"testing"

	"ai-places-be/pkg/intent"
	"ai-places-be/pkg/keywords"
	"ai-places-be/pkg/rerank"
	"ai-places-be/pkg/retrieval"
)

type fakeReranker struct {
	results []rerank.Result
	err     error
}

func (f *fakeReranker) Available() bool { return true }

func (f *fakeReranker) Rerank(ctx context.Context, query string, documents []string) ([]rerank.Result, error) {
	return f.results, f.err
}

func place(id, name, address, category string, score float64) retrieval.Document {
	return retrieval.Document{
		ID:    id,
		Score: score,
		Metadata: retrieval.Metadata{
			Name:     name,
			Address:  address,
			Category: category,
		},
	}
}

func ids(pool []retrieval.Document) []string {
	out := make([]string, len(pool))
	for i, d := range pool {
		out[i] = d.ID
	}
	return out
}

func TestDropInvalidAddresses(t *testing.T) {
	pool := []retrieval.Document{
		place("a", "A", "12 Hàng Bài", "Ăn uống", 1),
		place("b", "B", "", "Ăn uống", 1),
		place("c", "C", "Đang cập nhật", "Ăn uống", 1),
		place("d", "D", "  ", "Ăn uống", 1),
	}
	got := DropInvalidAddresses(pool)
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("kept = %v, want [a]", ids(got))
	}
}

func TestDedupeKeepBest(t *testing.T) {
	pool := []retrieval.Document{
		place("a", "A", "x", "", 0.3),
		place("a", "A", "x", "", 0.9),
		place("b", "B", "x", "", 0.5),
	}
	got := DedupeKeepBest(pool)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Score != 0.9 {
		t.Errorf("kept score = %v, want the higher duplicate", got[0].Score)
	}
}

func TestRankAppliesRerankerOrder(t *testing.T) {
	engine := NewEngine(&fakeReranker{results: []rerank.Result{
		{Index: 1, Score: 0.9},
		{Index: 0, Score: 0.4},
	}})

	pool := []retrieval.Document{
		place("a", "Quán A", "addr", "Ăn uống", 0.8),
		place("b", "Quán B", "addr", "Ăn uống", 0.7),
	}

	ranked, degraded := engine.Rank(context.Background(), pool, Options{Query: "quán ngon"})
	if degraded {
		t.Fatal("degraded = true with a working reranker")
	}
	if got := ids(ranked); got[0] != "b" || got[1] != "a" {
		t.Errorf("order = %v, want [b a]", got)
	}
	if ranked[0].Score != 0.9 {
		t.Errorf("score = %v, want reranker relevance", ranked[0].Score)
	}
}

func TestRankRerankerFailureKeepsOrder(t *testing.T) {
	engine := NewEngine(&fakeReranker{err: errors.New("down")})

	pool := []retrieval.Document{
		place("a", "Quán A", "addr", "Ăn uống", 0.8),
		place("b", "Quán B", "addr", "Ăn uống", 0.7),
	}

	ranked, degraded := engine.Rank(context.Background(), pool, Options{Query: "quán ngon"})
	if !degraded {
		t.Error("degraded = false, want true")
	}
	if got := ids(ranked); got[0] != "a" || got[1] != "b" {
		t.Errorf("order = %v, want unchanged [a b]", got)
	}
}

func TestRankDisabledRerankerDegrades(t *testing.T) {
	engine := NewEngine(rerank.Disabled{})
	pool := []retrieval.Document{place("a", "A", "addr", "Ăn uống", 0.8)}

	ranked, degraded := engine.Rank(context.Background(), pool, Options{Query: "q"})
	if !degraded {
		t.Error("degraded = false, want true without a reranker")
	}
	if len(ranked) != 1 {
		t.Errorf("len = %d", len(ranked))
	}
}

func TestRankCapsTopK(t *testing.T) {
	engine := NewEngine(rerank.Disabled{})
	var pool []retrieval.Document
	for i := 0; i < 20; i++ {
		pool = append(pool, place(string(rune('a'+i)), "P", "addr", "Ăn uống", float64(20-i)))
	}

	ranked, _ := engine.Rank(context.Background(), pool, Options{Query: "q"})
	if len(ranked) != TopK {
		t.Errorf("len = %d, want %d", len(ranked), TopK)
	}
}

func TestApplyPreferenceBoostStacksAndResorts(t *testing.T) {
	pool := []retrieval.Document{
		{ID: "plain", Score: 1.0, Metadata: retrieval.Metadata{Name: "Plain"}},
		{
			ID:      "match",
			Score:   0.95,
			Snippet: "quán phở bò gia truyền",
			Metadata: retrieval.Metadata{
				Name: "Match",
				Tags: []string{"yên tĩnh", "ấm cúng"},
			},
		},
	}

	got := ApplyPreferenceBoost(pool, &Preferences{
		FavoriteFoods: []string{"phở"},
		Styles:        []string{"cozy"},
		Atmosphere:    []string{"quiet"},
	})

	if got[0].ID != "match" {
		t.Fatalf("order = %v, want boosted doc first", ids(got))
	}
	want := 0.95 * favoriteFoodBoost * styleBoost * atmosphereBoost
	if diff := got[0].Score - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("score = %v, want %v", got[0].Score, want)
	}
	// Input slice must not be mutated.
	if pool[1].Score != 0.95 {
		t.Error("input pool was mutated")
	}
}

func TestApplyMoodAdjust(t *testing.T) {
	var sad *keywords.Mood
	for i := range keywords.Moods {
		if keywords.Moods[i].Name == "sad" {
			sad = &keywords.Moods[i]
		}
	}
	if sad == nil {
		t.Fatal("sad mood missing from table")
	}

	pool := []retrieval.Document{
		{ID: "loud", Score: 1.0, Metadata: retrieval.Metadata{Tags: []string{"sôi động"}}},
		{ID: "calm", Score: 0.9, Metadata: retrieval.Metadata{Tags: []string{"yên tĩnh"}}},
	}

	got := ApplyMoodAdjust(pool, sad)
	if got[0].ID != "calm" {
		t.Errorf("order = %v, want calm boosted above demoted loud", ids(got))
	}
}

func TestApplyEntityFilter(t *testing.T) {
	pool := []retrieval.Document{
		place("spa", "Zen Spa", "addr", "Spa", 1.0),
		place("cafe", "Cafe Giảng", "addr", "Cafe", 1.0),
		{ID: "oc-name", Score: 1.0, Metadata: retrieval.Metadata{Name: "Ốc Luộc Hà Trang", Category: "Quán ăn"}},
		{ID: "other", Score: 1.0, Snippet: "bún chả nổi tiếng", Metadata: retrieval.Metadata{Name: "Hương Liên", Category: "Quán ăn"}},
	}

	got := ApplyEntityFilter(pool, "ốc")

	kept := map[string]float64{}
	for _, d := range got {
		kept[d.ID] = d.Score
	}
	if _, ok := kept["spa"]; ok {
		t.Error("non-food category survived")
	}
	if _, ok := kept["cafe"]; ok {
		t.Error("drink place without the dish survived a food query")
	}
	if _, ok := kept["other"]; ok {
		t.Error("keyword miss survived the penalty threshold")
	}
	want := 1.0 * entityKeywordBoost * entityNameBoost
	if diff := kept["oc-name"] - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("boosted score = %v, want %v", kept["oc-name"], want)
	}
}

func TestApplyEntityFilterGenericKeywordKeepsPool(t *testing.T) {
	pool := []retrieval.Document{
		{ID: "a", Score: 1.0, Metadata: retrieval.Metadata{Name: "Nhà hàng A", Category: "Nhà hàng"}},
	}
	got := ApplyEntityFilter(pool, "quán")
	if len(got) != 1 {
		t.Errorf("generic keyword must not crush unmatched places, got %v", ids(got))
	}
}

func TestDietaryFilterNameOnly(t *testing.T) {
	pool := []retrieval.Document{
		{ID: "veg", Metadata: retrieval.Metadata{Name: "Cơm Chay An Lạc"}},
		{ID: "fake", Snippet: "nhiều món chay", Metadata: retrieval.Metadata{Name: "Bò Tơ Quán Mộc"}},
	}
	got := DietaryFilter(pool)
	if len(got) != 1 || got[0].ID != "veg" {
		t.Errorf("kept = %v, want name matches only", ids(got))
	}
}

func TestDistrictFilter(t *testing.T) {
	pool := []retrieval.Document{
		{ID: "exact", Metadata: retrieval.Metadata{District: "Ba Đình"}},
		{ID: "addr", Metadata: retrieval.Metadata{Address: "5 Đội Cấn, Ba Đình, Hà Nội"}},
		{ID: "wrong", Metadata: retrieval.Metadata{District: "Hoàn Kiếm"}},
		{ID: "wrong-addr", Metadata: retrieval.Metadata{District: "Hoàn Kiếm", Address: "có chữ Ba Đình trong mô tả"}},
	}
	got := DistrictFilter(pool, "Ba Đình")
	if len(got) != 2 || got[0].ID != "exact" || got[1].ID != "addr" {
		t.Errorf("kept = %v, want [exact addr]", ids(got))
	}
	if all := DistrictFilter(pool, ""); len(all) != len(pool) {
		t.Error("empty district must be a no-op")
	}
}

func TestDatingFilter(t *testing.T) {
	pool := []retrieval.Document{
		place("ok", "Nhà hàng Sen Tây Hồ", "addr", "Ăn uống", 1),
		place("hotel", "Khách sạn ABC", "addr", "Lưu trú", 1),
		place("nocat", "Quán X", "addr", "", 1),
		place("buffet", "Buffet Poseidon", "addr", "Ăn uống", 1),
		{ID: "nhau", Metadata: retrieval.Metadata{Name: "Quán Nhậu 19", Address: "addr", Category: "Ăn uống"}},
	}

	got := DatingFilter(pool, true)
	if len(got) != 1 || got[0].ID != "ok" {
		t.Errorf("kept = %v, want [ok]", ids(got))
	}

	if all := DatingFilter(pool, false); len(all) != len(pool) {
		t.Error("dating filter must be a no-op outside dating mode")
	}
}

func TestSortByDistance(t *testing.T) {
	here := retrieval.Coordinates{Lat: 21.0285, Lng: 105.8542}
	pool := []retrieval.Document{
		{ID: "nocoords"},
		{ID: "far", Metadata: retrieval.Metadata{Coordinates: &retrieval.Coordinates{Lat: 21.2, Lng: 106.0}}},
		{ID: "near", Metadata: retrieval.Metadata{Coordinates: &retrieval.Coordinates{Lat: 21.03, Lng: 105.855}}},
	}

	got := SortByDistance(pool, here, 5)
	if want := []string{"near", "far", "nocoords"}; len(got) != 3 ||
		got[0].ID != want[0] || got[1].ID != want[1] || got[2].ID != want[2] {
		t.Errorf("order = %v, want %v", ids(got), want)
	}

	if capped := SortByDistance(pool, here, 2); len(capped) != 2 {
		t.Errorf("keep = %d, want 2", len(capped))
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Hoan Kiem Lake to Noi Bai airport is roughly 23 km.
	hoanKiem := retrieval.Coordinates{Lat: 21.0285, Lng: 105.8542}
	noiBai := retrieval.Coordinates{Lat: 21.2212, Lng: 105.8072}
	km := HaversineKm(hoanKiem, noiBai)
	if km < 20 || km > 26 {
		t.Errorf("distance = %.1f km, want roughly 23", km)
	}
}

func TestRankFullDatingQuery(t *testing.T) {
	engine := NewEngine(rerank.Disabled{})

	pool := []retrieval.Document{
		place("ok", "The Hanoi Social Club", "6 Hội Vũ", "Ăn uống", 0.9),
		place("hotel", "Khách sạn Daewoo", "360 Kim Mã", "Lưu trú", 0.8),
		place("noaddr", "Quán Ẩn", "", "Ăn uống", 0.7),
	}

	ranked, _ := engine.Rank(context.Background(), pool, Options{
		Query: "chỗ hẹn hò lãng mạn",
		Classification: intent.Classification{
			Intent:   intent.IntentPlaceVibe,
			IsDating: true,
		},
	})

	if len(ranked) != 1 || ranked[0].ID != "ok" {
		t.Errorf("ranked = %v, want [ok]", ids(ranked))
	}
}
