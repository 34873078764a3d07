package retrieval

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Metadata carries the place fields ranking and prompt assembly need.
type Metadata struct {
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	District    string       `json:"district"`
	Category    string       `json:"category"`
	Price       int          `json:"price"`
	Rating      float64      `json:"rating"`
	ReviewCount int          `json:"reviewCount"`
	Image       string       `json:"image"`
	Tags        []string     `json:"tags,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Source      string       `json:"source"`
}

// Document is one retrieved candidate. Score is strategy-local and not
// comparable across strategies until the pool has been reranked.
type Document struct {
	ID       string   `json:"id"`
	Score    float64  `json:"score"`
	Snippet  string   `json:"snippet"`
	Metadata Metadata `json:"metadata"`
}

// MergeByID combines pools in order. The first occurrence of an id wins;
// later strategies never overwrite metadata or add a second score.
func MergeByID(pools ...[]Document) []Document {
	var merged []Document
	seen := make(map[string]struct{})
	for _, pool := range pools {
		for _, doc := range pool {
			if doc.ID == "" {
				continue
			}
			if _, ok := seen[doc.ID]; ok {
				continue
			}
			seen[doc.ID] = struct{}{}
			merged = append(merged, doc)
		}
	}
	return merged
}
