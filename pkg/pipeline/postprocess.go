package pipeline

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"ai-places-be/pkg/retrieval"
	"ai-places-be/pkg/textutil"
)

// maxResponsePlaces caps the place list returned to the client.
const maxResponsePlaces = 10

// Place is the client-facing place card.
type Place struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	District    string  `json:"district,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       int     `json:"price,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	ReviewCount int     `json:"reviewCount,omitempty"`
	Image       string  `json:"image,omitempty"`
}

func toPlace(doc retrieval.Document) Place {
	return Place{
		ID:          doc.ID,
		Name:        doc.Metadata.Name,
		Address:     doc.Metadata.Address,
		District:    doc.Metadata.District,
		Category:    doc.Metadata.Category,
		Price:       doc.Metadata.Price,
		Rating:      doc.Metadata.Rating,
		ReviewCount: doc.Metadata.ReviewCount,
		Image:       doc.Metadata.Image,
	}
}

// appendMissingPlaces adds a supplementary list for ranked candidates
// the model failed to mention, so a thin answer still surfaces every
// relevant place.
func appendMissingPlaces(answer string, docs []retrieval.Document) string {
	var missing []retrieval.Document
	normalizedAnswer := textutil.Normalize(answer)
	for _, doc := range docs {
		name := textutil.Normalize(doc.Metadata.Name)
		if name == "" || strings.Contains(normalizedAnswer, name) {
			continue
		}
		missing = append(missing, doc)
	}
	if len(missing) == 0 {
		return answer
	}

	var b strings.Builder
	b.WriteString(answer)
	fmt.Fprintf(&b, "\n\n**Bổ sung thêm %d địa điểm khác cũng phù hợp:**\n", len(missing))
	for i, doc := range missing {
		address := doc.Metadata.Address
		if address == "" {
			address = "Địa chỉ: Đang cập nhật"
		}
		price := "Giá: Liên hệ"
		if doc.Metadata.Price > 0 {
			price = fmt.Sprintf("%d VND", doc.Metadata.Price)
		}
		fmt.Fprintf(&b, "\n%d. **%s**\n   %s\n   %s\n", i+1, doc.Metadata.Name, address, price)
	}
	return b.String()
}

// ExtractFirstJSON pulls the first top-level JSON object out of a
// free-text answer. Models wrap structured output in prose; the
// extraction tolerates leading and trailing text and strips control
// characters that break strict parsers. Returns nil when no valid
// object is present.
func ExtractFirstJSON(answer string) json.RawMessage {
	firstOpen := strings.IndexByte(answer, '{')
	lastClose := strings.LastIndexByte(answer, '}')
	if firstOpen < 0 || lastClose <= firstOpen {
		return nil
	}

	candidate := answer[firstOpen : lastClose+1]
	candidate = strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' && r != '\r' {
			return -1
		}
		return r
	}, candidate)

	if !json.Valid([]byte(candidate)) {
		return nil
	}
	return json.RawMessage(candidate)
}

// orderPlacesByMention returns the ranked pool as client place cards,
// ordered by where each place is first mentioned in the answer.
// Unmentioned but highly ranked candidates are appended after, capped
// at maxResponsePlaces.
func orderPlacesByMention(answer string, docs []retrieval.Document) []Place {
	normalizedAnswer := textutil.Normalize(answer)

	type mention struct {
		doc      retrieval.Document
		position int
	}

	var mentioned []mention
	var unmentioned []retrieval.Document
	seen := make(map[string]struct{})

	for _, doc := range docs {
		if doc.ID == "" || doc.Metadata.Name == "" {
			continue
		}
		if _, dup := seen[doc.ID]; dup {
			continue
		}
		seen[doc.ID] = struct{}{}

		pos := strings.Index(normalizedAnswer, textutil.Normalize(doc.Metadata.Name))
		if pos >= 0 {
			mentioned = append(mentioned, mention{doc: doc, position: pos})
		} else {
			unmentioned = append(unmentioned, doc)
		}
	}

	sort.SliceStable(mentioned, func(i, j int) bool {
		return mentioned[i].position < mentioned[j].position
	})

	places := make([]Place, 0, len(mentioned)+len(unmentioned))
	for _, m := range mentioned {
		places = append(places, toPlace(m.doc))
	}
	for _, doc := range unmentioned {
		if len(places) >= maxResponsePlaces {
			break
		}
		places = append(places, toPlace(doc))
	}
	if len(places) > maxResponsePlaces {
		places = places[:maxResponsePlaces]
	}
	return places
}
