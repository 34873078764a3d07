package pipeline

import (
	"context"
	"regexp"
	"strings"

	"ai-places-be/pkg/intent"
	"ai-places-be/pkg/keywords"
	"ai-places-be/pkg/prompt"
	"ai-places-be/pkg/retrieval"
	"ai-places-be/pkg/textutil"
)

// ChatIntent separates a conversational answer from an itinerary plan.
type ChatIntent string

const (
	IntentChat      ChatIntent = "CHAT"
	IntentItinerary ChatIntent = "ITINERARY"
)

// analysis is everything the retrieval and ranking stages need to know
// about one query.
type analysis struct {
	// query is the text retrieval should use, after any rewriting.
	query          string
	classification intent.Classification
	district       string
	chatIntent     ChatIntent
	itineraryType  retrieval.ItineraryType
	// dietary marks that the query was silently rewritten toward a
	// vegetarian search, arming the post-rank dietary filter.
	dietary bool
}

var (
	eveningPattern = regexp.MustCompile(`(?i)(?:buổi\s*)?tối(?:\s+(?:nay|ở|hà nội|thứ))?|evening`)
	simplePattern  = regexp.MustCompile(`đơn giản|nhanh|gọn|casual|simple`)
	fancyPattern   = regexp.MustCompile(`chỉnh chu|tươm tất|sang trọng|cao cấp|fancy|elegant|luxury`)
)

const (
	// llmIntentMinRunes skips the LLM intent call for short queries,
	// which are overwhelmingly plain chat.
	llmIntentMinRunes = 15
	// llmIntentLongRunes forces the LLM intent call for long queries
	// even without an itinerary keyword.
	llmIntentLongRunes = 50
	// rewriteMinRunes skips the rewrite call for queries too short to
	// benefit.
	rewriteMinRunes = 10
)

// hasItineraryKeyword checks the static itinerary cue list.
func hasItineraryKeyword(query string) bool {
	normalized := textutil.Normalize(query)
	for _, kw := range keywords.ItineraryKeywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

// needsLLMIntent decides whether the CHAT/ITINERARY split requires a
// model call. Clear keyword matches and short queries skip it.
func needsLLMIntent(query string) bool {
	hasKeyword := hasItineraryKeyword(query)
	runes := len([]rune(strings.TrimSpace(query)))
	if runes < llmIntentMinRunes && !hasKeyword {
		return false
	}
	return hasKeyword || runes > llmIntentLongRunes
}

// classifyItineraryType refines an itinerary request by scope.
func classifyItineraryType(query string) retrieval.ItineraryType {
	normalized := textutil.Normalize(query)

	if !eveningPattern.MatchString(normalized) {
		return retrieval.ItineraryFullDay
	}
	if fancyPattern.MatchString(normalized) {
		return retrieval.ItineraryEveningFancy
	}
	if simplePattern.MatchString(normalized) {
		return retrieval.ItineraryEveningSimple
	}
	return retrieval.ItineraryEveningFull
}

// classifyChatIntent resolves CHAT vs ITINERARY, asking the model only
// when the heuristics are inconclusive. Model failure defaults to CHAT;
// a wrong CHAT still answers the question, a wrong ITINERARY builds a
// plan nobody asked for.
func (o *Orchestrator) classifyChatIntent(ctx context.Context, query string) (ChatIntent, retrieval.ItineraryType) {
	if !needsLLMIntent(query) {
		return IntentChat, retrieval.ItineraryFullDay
	}

	if hasItineraryKeyword(query) {
		return IntentItinerary, classifyItineraryType(query)
	}

	answer, err := o.llm.Generate(ctx, prompt.BuildIntentClassifyPrompt(query))
	if err != nil {
		return IntentChat, retrieval.ItineraryFullDay
	}
	if strings.Contains(strings.ToUpper(answer), "ITINERARY") {
		return IntentItinerary, classifyItineraryType(query)
	}
	return IntentChat, retrieval.ItineraryFullDay
}

// rewriteQuery asks the model to compact a colloquial query into search
// terms. Failure falls back to the original text.
func (o *Orchestrator) rewriteQuery(ctx context.Context, query string) string {
	if !o.rewriteEnabled || len([]rune(query)) < rewriteMinRunes {
		return query
	}

	rewritten, err := o.llm.Generate(ctx, prompt.BuildQueryRewritePrompt(query))
	if err != nil {
		return query
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return query
	}
	return rewritten
}

// vegetarianSearchQuery replaces a generic food query for a vegetarian
// user.
const vegetarianSearchQuery = "top các quán chay ngon review tốt"

// applyDietaryAugment silently steers a generic "find me food" query
// toward vegetarian places when the caller's saved diet asks for it. A
// specific dish request is never overridden; asking for bún chả means
// bún chả.
func applyDietaryAugment(query string, dietary []string) (string, bool) {
	if len(dietary) == 0 {
		return query, false
	}

	vegetarian := false
	for _, d := range dietary {
		d = strings.ToLower(d)
		for _, kw := range keywords.VegetarianKeywords {
			if d == kw {
				vegetarian = true
				break
			}
		}
	}
	if !vegetarian {
		return query, false
	}

	normalized := textutil.Normalize(query)
	for _, kw := range keywords.SpecificFoodKeywords {
		if strings.Contains(normalized, kw) {
			return query, false
		}
	}
	for _, kw := range keywords.GenericFoodKeywords {
		if strings.Contains(normalized, kw) {
			return vegetarianSearchQuery, true
		}
	}
	return query, false
}
