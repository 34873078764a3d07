package conversation

import (
	"regexp"
	"strings"
)

// ReferenceType classifies a follow-up query against session memory.
type ReferenceType string

const (
	// ReferenceNewQuery means no session context applies.
	ReferenceNewQuery ReferenceType = "NEW_QUERY"
	// ReferenceOrdinal points at a specific previously shown place.
	ReferenceOrdinal ReferenceType = "REFERENCE"
	// ReferenceFollowUp asks a detail question about the last subject.
	ReferenceFollowUp ReferenceType = "FOLLOW_UP"
	// ReferenceRefinement modifies the previous search ("closer", "cheaper").
	ReferenceRefinement ReferenceType = "REFINEMENT"
)

// Reference is the result of analyzing a query against a session.
type Reference struct {
	Type        ReferenceType
	TargetPlace *PlaceRef // REFERENCE and FOLLOW_UP
	TargetIndex int       // REFERENCE
	BaseIntent  string    // FOLLOW_UP and REFINEMENT
	BaseContext Context   // REFINEMENT
	LastPlaces  []PlaceRef
}

// ordinalPatterns map "quán đầu tiên", "quán thứ 3", ... to a zero-based
// index into lastPlaces. Checked in order; lastPlaces holds up to ten
// entries so ordinals one through five cover realistic follow-ups.
var ordinalPatterns = []struct {
	re    *regexp.Regexp
	index int
}{
	{regexp.MustCompile(`quán (đầu tiên|thứ nhất|đầu|1)`), 0},
	{regexp.MustCompile(`quán (thứ hai|thứ 2|hai|2)`), 1},
	{regexp.MustCompile(`quán (thứ ba|thứ 3|ba|3)`), 2},
	{regexp.MustCompile(`quán (thứ tư|thứ 4|bốn|4)`), 3},
	{regexp.MustCompile(`quán (thứ năm|thứ 5|năm|5)`), 4},
}

var followUpPatterns = []*regexp.Regexp{
	regexp.MustCompile(`có (mở cửa|phục vụ|đông|xa)`),
	regexp.MustCompile(`giá (bao nhiêu|như thế nào|thế nào)`),
	regexp.MustCompile(`(địa chỉ|ở đâu|đường nào)`),
	regexp.MustCompile(`(review|đánh giá) (thế nào|sao)`),
}

var refinementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(gần|xa) hơn`),
	regexp.MustCompile(`(rẻ|đắt) hơn`),
	regexp.MustCompile(`(đông|vắng|yên tĩnh|sôi động) hơn`),
}

// AnalyzeReference decides whether a query can be answered from session
// memory instead of a full retrieval round. Ordinal references win over
// follow-up phrasing so "quán thứ 2 có mở cửa không" targets place two.
func (m *Manager) AnalyzeReference(query, sessionID string) Reference {
	state := m.GetState(sessionID)
	if state == nil || len(state.LastPlaces) == 0 {
		return Reference{Type: ReferenceNewQuery}
	}

	queryLower := strings.ToLower(query)

	target := -1
	for _, p := range ordinalPatterns {
		if p.re.MatchString(queryLower) && p.index < len(state.LastPlaces) {
			target = p.index
			break
		}
	}

	for _, re := range followUpPatterns {
		if re.MatchString(queryLower) {
			// "quán thứ 2 có mở cửa không" is a detail question about the
			// referenced place, not a bare reference.
			subject := 0
			if target >= 0 {
				subject = target
			}
			return Reference{
				Type:        ReferenceFollowUp,
				TargetPlace: &state.LastPlaces[subject],
				TargetIndex: subject,
				BaseIntent:  state.LastIntent,
				LastPlaces:  state.LastPlaces,
			}
		}
	}

	if target >= 0 {
		return Reference{
			Type:        ReferenceOrdinal,
			TargetPlace: &state.LastPlaces[target],
			TargetIndex: target,
			BaseIntent:  state.LastIntent,
			LastPlaces:  state.LastPlaces,
		}
	}

	for _, re := range refinementPatterns {
		if re.MatchString(queryLower) {
			return Reference{
				Type:        ReferenceRefinement,
				BaseIntent:  state.LastIntent,
				BaseContext: state.Context,
				LastPlaces:  state.LastPlaces,
			}
		}
	}

	return Reference{Type: ReferenceNewQuery}
}

// FormatHistory renders the last turns as a compact context block for the
// prompt, oldest first.
func FormatHistory(history []Turn, maxTurns int) string {
	if len(history) == 0 {
		return ""
	}
	if maxTurns > 0 && len(history) > maxTurns {
		history = history[len(history)-maxTurns:]
	}

	var b strings.Builder
	for _, turn := range history {
		role := "Người dùng"
		if turn.Role == "assistant" {
			role = "Trợ lý"
		}
		b.WriteString(role)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
