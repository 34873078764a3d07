package pipeline

import (
	"encoding/json"
	"strings"
	"testing"

	"ai-places-be/pkg/retrieval"
)

func doc(id, name, address string) retrieval.Document {
	return retrieval.Document{
		ID: id,
		Metadata: retrieval.Metadata{
			Name:    name,
			Address: address,
		},
	}
}

func TestAppendMissingPlaces(t *testing.T) {
	docs := []retrieval.Document{
		doc("1", "Phở Thìn", "13 Lò Đúc"),
		doc("2", "Bún Chả Hương Liên", "24 Lê Văn Hưu"),
	}

	answer := appendMissingPlaces("Bạn nên thử Phở Thìn ở Lò Đúc.", docs)
	if !strings.Contains(answer, "Bổ sung thêm 1 địa điểm khác cũng phù hợp") {
		t.Fatalf("missing supplement header in %q", answer)
	}
	if !strings.Contains(answer, "Bún Chả Hương Liên") {
		t.Fatalf("unmentioned place absent from supplement: %q", answer)
	}
	if strings.Count(answer, "Phở Thìn") != 1 {
		t.Fatalf("mentioned place duplicated: %q", answer)
	}
}

func TestAppendMissingPlacesAllMentioned(t *testing.T) {
	docs := []retrieval.Document{doc("1", "Phở Thìn", "13 Lò Đúc")}
	answer := "Phở Thìn là lựa chọn tốt."
	if got := appendMissingPlaces(answer, docs); got != answer {
		t.Fatalf("answer changed when nothing was missing: %q", got)
	}
}

func TestExtractFirstJSON(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		wantNil bool
		wantKey string
	}{
		{
			name:    "json wrapped in prose",
			answer:  "Đây là lịch trình:\n{\"itinerary\":[{\"time\":\"18:00\"}]}\nChúc vui!",
			wantKey: "itinerary",
		},
		{
			name:    "control characters stripped",
			answer:  "{\"itinerary\":\x00[]}",
			wantKey: "itinerary",
		},
		{
			name:    "no braces",
			answer:  "không có dữ liệu",
			wantNil: true,
		},
		{
			name:    "invalid json",
			answer:  "{itinerary: broken}",
			wantNil: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := ExtractFirstJSON(tt.answer)
			if tt.wantNil {
				if raw != nil {
					t.Fatalf("expected nil, got %s", raw)
				}
				return
			}
			var parsed map[string]json.RawMessage
			if err := json.Unmarshal(raw, &parsed); err != nil {
				t.Fatalf("extracted payload does not parse: %v", err)
			}
			if _, ok := parsed[tt.wantKey]; !ok {
				t.Fatalf("key %q missing from %s", tt.wantKey, raw)
			}
		})
	}
}

func TestOrderPlacesByMention(t *testing.T) {
	docs := []retrieval.Document{
		doc("1", "Phở Thìn", ""),
		doc("2", "Bún Chả Hương Liên", ""),
		doc("3", "Chả Cá Lã Vọng", ""),
	}
	answer := "Gợi ý đầu tiên là Chả Cá Lã Vọng, sau đó là Phở Thìn."

	places := orderPlacesByMention(answer, docs)
	if len(places) != 3 {
		t.Fatalf("expected 3 places, got %d", len(places))
	}
	if places[0].Name != "Chả Cá Lã Vọng" || places[1].Name != "Phở Thìn" {
		t.Fatalf("mention order not respected: %v", places)
	}
	if places[2].Name != "Bún Chả Hương Liên" {
		t.Fatalf("unmentioned place should top up last: %v", places)
	}
}

func TestOrderPlacesByMentionCapsAndDedupes(t *testing.T) {
	var docs []retrieval.Document
	for i := 0; i < 14; i++ {
		docs = append(docs, doc(string(rune('a'+i)), "Quán "+string(rune('A'+i)), ""))
	}
	docs = append(docs, docs[0])

	places := orderPlacesByMention("không nhắc quán nào", docs)
	if len(places) != maxResponsePlaces {
		t.Fatalf("expected cap at %d, got %d", maxResponsePlaces, len(places))
	}
	seen := map[string]bool{}
	for _, p := range places {
		if seen[p.ID] {
			t.Fatalf("duplicate place %q survived", p.ID)
		}
		seen[p.ID] = true
	}
}
