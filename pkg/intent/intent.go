// Package intent classifies a user query into one of the engine's query
// intents and derives the structured filters retrieval will run with.
package intent

import (
	"ai-places-be/pkg/keywords"
	"ai-places-be/pkg/textutil"
)

// Intent is the query intent class.
type Intent string

const (
	IntentFoodEntity Intent = "FOOD_ENTITY"
	IntentActivity   Intent = "ACTIVITY"
	IntentPlaceVibe  Intent = "PLACE_VIBE"
	IntentGeneral    Intent = "GENERAL"
)

// MustFilter narrows keyword retrieval to places matching the detected
// entity. Repositories translate it into SQL.
type MustFilter struct {
	// Keyword must appear in name, description, tags or menu.
	Keyword string
	// Categories the place may belong to. Empty means unrestricted.
	Categories []string
	// CategoryPattern is an additional case-insensitive pattern that also
	// admits a category ("ăn|uống|cafe|..." for food).
	CategoryPattern string
	// MinPrice filters out places below the given price band.
	MinPrice int
}

// ExcludeFilter drops places that must never surface for this query.
type ExcludeFilter struct {
	Categories   []string
	NameKeywords []string
	DescKeywords []string
}

// Classification is the full analysis of one query.
type Classification struct {
	Intent  Intent
	Keyword string
	Tags    []string

	IsDating      bool
	Accommodation bool
	Luxury        bool
	Mood          *keywords.Mood

	Must    *MustFilter
	Exclude *ExcludeFilter
}

// foodCategoryPattern admits categories the fixed list misses, e.g.
// "Quán ăn gia đình".
const foodCategoryPattern = `ăn|uống|cafe|coffee|nhà hàng|quán|buffet|food`

// luxuryMinPrice is the price band floor applied to luxury stays.
const luxuryMinPrice = 500000

// Classifier runs the intent cascade. It is stateless apart from the
// pre-sorted keyword tables and safe for concurrent use.
type Classifier struct {
	foodKeywords     []string
	vibeKeywords     []string
	activityKeywords []string
}

func NewClassifier() *Classifier {
	return &Classifier{
		foodKeywords:     textutil.SortByLengthDesc(keywords.FoodKeywords),
		vibeKeywords:     textutil.SortByLengthDesc(keywords.VibeKeywords),
		activityKeywords: textutil.SortByLengthDesc(keywords.ActivityKeywords),
	}
}

// Classify analyzes a query. Priority: FOOD_ENTITY > ACTIVITY > PLACE_VIBE >
// GENERAL; within one class the longest keyword wins. Dating, mood and
// accommodation detection run for every intent.
func (c *Classifier) Classify(query string) Classification {
	normalized := textutil.Normalize(query)

	result := Classification{
		Intent:   IntentGeneral,
		IsDating: c.isDatingQuery(normalized),
		Mood:     detectMood(normalized),
	}

	// Romantic mood implies a date even without an explicit dating keyword.
	if result.Mood != nil && result.Mood.Name == "romantic" {
		result.IsDating = true
	}

	c.applyAccommodation(normalized, &result)

	if kw := textutil.ContainsAnyWord(normalized, c.foodKeywords); kw != "" && !result.Accommodation && !c.isDatingDrink(result.IsDating, kw) {
		result.Intent = IntentFoodEntity
		result.Keyword = kw
		result.Must = buildFoodMustFilter(kw)
	} else if kw := textutil.ContainsAnyWord(normalized, c.activityKeywords); kw != "" && !result.Accommodation {
		result.Intent = IntentActivity
		result.Keyword = kw
		result.Tags = []string{kw}
	} else if kw := textutil.ContainsAnyWord(normalized, c.vibeKeywords); kw != "" {
		result.Intent = IntentPlaceVibe
		result.Keyword = kw
		if tags, ok := keywords.VibeToTags[kw]; ok {
			result.Tags = tags
		} else {
			result.Tags = []string{kw}
		}
	}

	if result.IsDating {
		result.Exclude = buildDatingExcludeFilter()
	}

	return result
}

// IsShortQuery reports whether the query is short enough to be a direct
// place lookup rather than a conversational request.
func (c *Classifier) IsShortQuery(query string) bool {
	return len([]rune(query)) < 60
}

// isDatingDrink reports whether a dating-mode query matched only a generic
// drink venue word ("cafe", "trà"). That is an atmosphere request, not a
// dish request, so it falls through to the vibe classifier.
func (c *Classifier) isDatingDrink(isDating bool, keyword string) bool {
	if !isDating {
		return false
	}
	for _, kw := range keywords.DrinkKeywords {
		if kw == keyword {
			return true
		}
	}
	return false
}

func (c *Classifier) isDatingQuery(normalized string) bool {
	for _, kw := range keywords.DatingKeywords {
		if textutil.ContainsWord(normalized, kw) {
			return true
		}
	}
	return false
}

// HasDatingNegatives reports whether the query itself asks for a place type
// normally excluded in dating mode ("bún đậu cho buổi hẹn"). The caller uses
// it to keep the user's explicit wish over the exclusion list.
func (c *Classifier) HasDatingNegatives(query string) bool {
	normalized := textutil.Normalize(query)
	for _, kw := range keywords.DatingNegativeKeywords {
		if textutil.ContainsWord(normalized, kw) {
			return true
		}
	}
	return false
}

func (c *Classifier) applyAccommodation(normalized string, result *Classification) {
	matched := false
	for _, kw := range keywords.AccommodationKeywords {
		if textutil.ContainsWord(normalized, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return
	}

	result.Accommodation = true
	result.Must = &MustFilter{Categories: []string{keywords.AccommodationCategory}}

	for _, kw := range keywords.LuxuryKeywords {
		if textutil.ContainsWord(normalized, kw) {
			result.Luxury = true
			result.Must.MinPrice = luxuryMinPrice
			break
		}
	}
}

func detectMood(normalized string) *keywords.Mood {
	for i := range keywords.Moods {
		mood := &keywords.Moods[i]
		for _, kw := range mood.Keywords {
			if textutil.ContainsWord(normalized, kw) {
				return mood
			}
		}
	}
	return nil
}

func buildFoodMustFilter(keyword string) *MustFilter {
	return &MustFilter{
		Keyword:         keyword,
		Categories:      keywords.FoodCategories,
		CategoryPattern: foodCategoryPattern,
	}
}

func buildDatingExcludeFilter() *ExcludeFilter {
	return &ExcludeFilter{
		Categories: []string{keywords.AccommodationCategory},
		NameKeywords: []string{
			"nhà nghỉ", "khách sạn", "hotel", "motel", "homestay",
			"buffet", "nhậu", "bia hơi", "quán nhậu", "ăn vặt",
			"xiên", "nem nướng", "bún đậu", "ốc", "vỉa hè", "lề đường",
		},
		DescKeywords: []string{
			"nhà nghỉ", "khách sạn", "buffet", "xiên", "nem nướng", "bún đậu",
		},
	}
}
