package ranking

import (
	"strings"

	"ai-places-be/pkg/keywords"
	"ai-places-be/pkg/retrieval"
)

// Boost multipliers for preference matches. Multipliers stack, so a
// place matching several preferences climbs accordingly.
const (
	favoriteFoodBoost = 1.10
	styleBoost        = 1.05
	atmosphereBoost   = 1.08
	activityBoost     = 1.07

	moodRelatedBoost  = 1.2
	moodExcludeDemote = 0.5

	entityKeywordBoost = 1.5
	entityNameBoost    = 1.2
	entityMissPenalty  = 0.1
	entityDropBelow    = 0.2
)

// styleMapping translates saved preference enums into the Vietnamese
// tags the catalog carries.
var styleMapping = map[string][]string{
	"modern":      {"hiện đại", "thoáng đãng"},
	"traditional": {"cổ điển", "vintage"},
	"cozy":        {"ấm cúng", "riêng tư"},
	"elegant":     {"thanh lịch", "chuyên nghiệp"},
}

var atmosphereMapping = map[string][]string{
	"quiet":    {"yên tĩnh", "yên bình", "thư giãn"},
	"lively":   {"sôi động", "năng động", "vui vẻ"},
	"romantic": {"lãng mạn", "ấm cúng"},
}

var activityMapping = map[string][]string{
	"dating":     {"hẹn hò", "lãng mạn"},
	"work-study": {"học bài", "công việc", "một mình"},
	"hangout":    {"bạn bè", "tụ tập", "nhóm lớn"},
}

// ApplyPreferenceBoost lifts places matching the caller's saved tastes
// and re-sorts by the adjusted scores.
func ApplyPreferenceBoost(pool []retrieval.Document, prefs *Preferences) []retrieval.Document {
	out := make([]retrieval.Document, len(pool))
	copy(out, pool)

	for i := range out {
		multiplier := 1.0
		snippet := strings.ToLower(out[i].Snippet)
		tags := lowerTags(out[i].Metadata.Tags)

		for _, food := range prefs.FavoriteFoods {
			if food != "" && strings.Contains(snippet, strings.ToLower(food)) {
				multiplier *= favoriteFoodBoost
				break
			}
		}
		if matchesMapping(prefs.Styles, styleMapping, tags) {
			multiplier *= styleBoost
		}
		if matchesMapping(prefs.Atmosphere, atmosphereMapping, tags) {
			multiplier *= atmosphereBoost
		}
		if matchesMapping(prefs.Activities, activityMapping, tags) {
			multiplier *= activityBoost
		}

		if multiplier > 1.0 {
			out[i].Score *= multiplier
		}
	}

	sortByScoreDesc(out)
	return out
}

func matchesMapping(selected []string, mapping map[string][]string, tags map[string]struct{}) bool {
	for _, sel := range selected {
		for _, target := range mapping[sel] {
			if _, ok := tags[target]; ok {
				return true
			}
		}
	}
	return false
}

func lowerTags(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set
}

// ApplyMoodAdjust boosts places whose tags or text match the detected
// mood and demotes those matching its exclusions.
func ApplyMoodAdjust(pool []retrieval.Document, mood *keywords.Mood) []retrieval.Document {
	out := make([]retrieval.Document, len(pool))
	copy(out, pool)

	for i := range out {
		fullText := moodText(out[i])
		multiplier := 1.0

		for _, tag := range mood.RelatedTags {
			if strings.Contains(fullText, strings.ToLower(tag)) {
				multiplier *= moodRelatedBoost
				break
			}
		}
		for _, tag := range mood.ExcludeTags {
			if strings.Contains(fullText, strings.ToLower(tag)) {
				multiplier *= moodExcludeDemote
				break
			}
		}

		if multiplier != 1.0 {
			out[i].Score *= multiplier
		}
	}

	sortByScoreDesc(out)
	return out
}

func moodText(doc retrieval.Document) string {
	parts := make([]string, 0, len(doc.Metadata.Tags)+2)
	parts = append(parts, doc.Metadata.Tags...)
	parts = append(parts, doc.Metadata.Category, doc.Snippet)
	return strings.ToLower(strings.Join(parts, " "))
}

// Categories that are never food, dropped outright on a dish query.
var nonFoodCategories = []string{
	"spa", "gym", "khách sạn", "hotel", "homestay", "shop", "cửa hàng", "siêu thị",
}

// Drink-only venues, dropped on a food query unless the place itself
// mentions the dish.
var drinkOnlyCategories = []string{
	"cafe", "coffee", "cà phê", "trà sữa", "giải khát", "pub", "bar",
}

// Generic words that are not a real dish; a miss on these must not
// crush the score.
var genericEntityKeywords = map[string]struct{}{
	"quán": {}, "ăn": {}, "ngon": {}, "đâu": {}, "gì": {},
	"tại": {}, "với": {}, "ở": {}, "tìm": {}, "thấy": {},
}

// ApplyEntityFilter enforces that a dish query ("quán ốc") does not
// surface unrelated venues. Non-food categories are dropped, drink
// places are dropped unless they mention the dish, keyword hits are
// boosted and misses on a specific dish are crushed below the drop
// threshold.
func ApplyEntityFilter(pool []retrieval.Document, keyword string) []retrieval.Document {
	keyword = strings.ToLower(strings.TrimSpace(keyword))

	var out []retrieval.Document
	for _, doc := range pool {
		name := strings.ToLower(doc.Metadata.Name)
		category := strings.ToLower(doc.Metadata.Category)
		fullText := name + " " + category + " " + strings.ToLower(doc.Snippet)

		if containsAny(category, nonFoodCategories) {
			continue
		}

		isDrinkPlace := containsAny(category, drinkOnlyCategories)
		wantsDrink := keyword != "" && containsAny(keyword, drinkOnlyCategories)
		mentions := keyword != "" && strings.Contains(fullText, keyword)
		if isDrinkPlace && !wantsDrink && !mentions && len([]rune(keyword)) >= 2 {
			continue
		}

		_, generic := genericEntityKeywords[keyword]
		generic = generic || len([]rune(keyword)) < 2

		multiplier := 1.0
		if mentions {
			multiplier *= entityKeywordBoost
			if strings.Contains(name, keyword) {
				multiplier *= entityNameBoost
			}
		} else if !generic {
			multiplier *= entityMissPenalty
		}

		if multiplier < entityDropBelow {
			continue
		}

		doc.Score *= multiplier
		out = append(out, doc)
	}

	sortByScoreDesc(out)
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
