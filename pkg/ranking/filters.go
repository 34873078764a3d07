package ranking

import (
	"regexp"
	"strings"

	"ai-places-be/pkg/keywords"
	"ai-places-be/pkg/retrieval"
	"ai-places-be/pkg/textutil"
)

// vegetarianNameKeywords mark a genuinely vegetarian venue. The check is
// name-only on purpose: free-text descriptions mention vegetables far
// too often for a description match to mean anything.
var vegetarianNameKeywords = []string{
	"chay", "chày", "thuần chay", "thuan chay", "vegan",
}

// DietaryFilter keeps only vegetarian venues. Active only after the
// query was rewritten toward a dietary-restricted variant.
func DietaryFilter(pool []retrieval.Document) []retrieval.Document {
	out := pool[:0:0]
	for _, doc := range pool {
		name := strings.ToLower(doc.Metadata.Name)
		for _, kw := range vegetarianNameKeywords {
			if strings.Contains(name, kw) {
				out = append(out, doc)
				break
			}
		}
	}
	return out
}

// DistrictFilter removes documents outside the target district. A
// document without a district field falls back to an address substring
// check, since older catalog rows carry the district only there.
func DistrictFilter(pool []retrieval.Document, district string) []retrieval.Document {
	if district == "" {
		return pool
	}
	out := pool[:0:0]
	for _, doc := range pool {
		if doc.Metadata.District == district {
			out = append(out, doc)
			continue
		}
		if doc.Metadata.District == "" && strings.Contains(doc.Metadata.Address, district) {
			out = append(out, doc)
		}
	}
	return out
}

// datingAllowedCategories is the only category admitted in dating mode.
var datingAllowedCategories = []string{"Ăn uống"}

// datingExcludePatterns drop street-food, drinking and lodging venues
// that have no place in a date suggestion.
var datingExcludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)buffet`),
	regexp.MustCompile(`(?i)nhậu`),
	regexp.MustCompile(`(?i)bia hơi`),
	regexp.MustCompile(`(?i)xiên`),
	regexp.MustCompile(`(?i)nem nướng`),
	regexp.MustCompile(`(?i)bún đậu`),
	regexp.MustCompile(`(?i)ốc`),
	regexp.MustCompile(`(?i)vỉa hè`),
	regexp.MustCompile(`(?i)nhà nghỉ`),
	regexp.MustCompile(`(?i)khách sạn`),
	regexp.MustCompile(`(?i)hotel`),
	regexp.MustCompile(`(?i)motel`),
	regexp.MustCompile(`(?i)bánh mì`),
	regexp.MustCompile(`(?i)cơm văn phòng`),
	regexp.MustCompile(`(?i)quán nhậu`),
}

// DatingFilter strictly prunes the pool for a romance-context query: a
// missing or non-dining category is rejected, as is any place whose
// name or text matches an exclusion pattern or negative keyword.
func DatingFilter(pool []retrieval.Document, datingMode bool) []retrieval.Document {
	if !datingMode {
		return pool
	}

	out := pool[:0:0]
	for _, doc := range pool {
		if !datingCategoryAllowed(doc.Metadata.Category) {
			continue
		}

		name := doc.Metadata.Name
		text := doc.Snippet
		if matchesDatingExclusion(name) || matchesDatingExclusion(text) {
			continue
		}
		out = append(out, doc)
	}
	return out
}

func datingCategoryAllowed(category string) bool {
	for _, allowed := range datingAllowedCategories {
		if category == allowed {
			return true
		}
	}
	return false
}

func matchesDatingExclusion(text string) bool {
	for _, pattern := range datingExcludePatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	lower := strings.ToLower(text)
	for _, kw := range keywords.DatingNegativeKeywords {
		if textutil.ContainsWord(lower, kw) {
			return true
		}
	}
	return false
}
