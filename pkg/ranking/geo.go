package ranking

import (
	"math"
	"sort"

	"ai-places-be/pkg/retrieval"
)

const earthRadiusKm = 6371.0

// HaversineKm is the great-circle distance between two WGS84 points.
func HaversineKm(a, b retrieval.Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// SortByDistance orders the pool by distance from the caller and keeps
// the nearest few. Documents without coordinates sort last and are the
// first to be cut.
func SortByDistance(pool []retrieval.Document, from retrieval.Coordinates, keep int) []retrieval.Document {
	type withDistance struct {
		doc retrieval.Document
		km  float64
		has bool
	}

	measured := make([]withDistance, len(pool))
	for i, doc := range pool {
		measured[i] = withDistance{doc: doc}
		if doc.Metadata.Coordinates != nil {
			measured[i].km = HaversineKm(from, *doc.Metadata.Coordinates)
			measured[i].has = true
		}
	}

	sort.SliceStable(measured, func(i, j int) bool {
		if measured[i].has != measured[j].has {
			return measured[i].has
		}
		return measured[i].km < measured[j].km
	})

	if keep > 0 && len(measured) > keep {
		measured = measured[:keep]
	}

	out := make([]retrieval.Document, len(measured))
	for i, m := range measured {
		out[i] = m.doc
	}
	return out
}
