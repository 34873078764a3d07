package conversation

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func seededManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(time.Hour, 10, time.Minute, zap.NewNop())
	m.AppendTurn("s1", "u1", "user", "tìm quán phở ngon")
	m.UpdateLastPlaces("s1", []PlaceRef{
		{ID: "a", Name: "Phở Thìn", Address: "13 Lò Đúc", District: "Hai Bà Trưng"},
		{ID: "b", Name: "Phở Bát Đàn", Address: "49 Bát Đàn", District: "Hoàn Kiếm"},
		{ID: "c", Name: "Phở Lý Quốc Sư", Address: "10 Lý Quốc Sư", District: "Hoàn Kiếm"},
	}, "FOOD_ENTITY")
	return m
}

func TestAnalyzeReferenceFollowUpOnFirstPlace(t *testing.T) {
	m := seededManager(t)

	ref := m.AnalyzeReference("quán đầu tiên có mở cửa không", "s1")
	if ref.Type != ReferenceFollowUp {
		t.Fatalf("Type = %s, want FOLLOW_UP", ref.Type)
	}
	if ref.TargetPlace == nil || ref.TargetPlace.ID != "a" {
		t.Errorf("TargetPlace = %+v, want place a", ref.TargetPlace)
	}
}

func TestAnalyzeReferenceOrdinal(t *testing.T) {
	m := seededManager(t)

	tests := []struct {
		query     string
		wantIndex int
		wantID    string
	}{
		{"quán đầu tiên ấy", 0, "a"},
		{"quán thứ 2 nhé", 1, "b"},
		{"quán thứ ba thì sao", 2, "c"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			ref := m.AnalyzeReference(tt.query, "s1")
			if ref.Type != ReferenceOrdinal {
				t.Fatalf("Type = %s, want REFERENCE", ref.Type)
			}
			if ref.TargetIndex != tt.wantIndex || ref.TargetPlace.ID != tt.wantID {
				t.Errorf("target = %d/%s, want %d/%s", ref.TargetIndex, ref.TargetPlace.ID, tt.wantIndex, tt.wantID)
			}
		})
	}
}

func TestAnalyzeReferenceOrdinalBeyondShownPlaces(t *testing.T) {
	m := seededManager(t)

	ref := m.AnalyzeReference("quán thứ 5 thế nào", "s1")
	if ref.Type == ReferenceOrdinal {
		t.Error("ordinal beyond lastPlaces must not resolve to a reference")
	}
}

func TestAnalyzeReferenceFollowUp(t *testing.T) {
	m := seededManager(t)

	tests := []string{
		"giá bao nhiêu vậy",
		"địa chỉ ở đâu",
		"review thế nào",
	}

	for _, q := range tests {
		t.Run(q, func(t *testing.T) {
			ref := m.AnalyzeReference(q, "s1")
			if ref.Type != ReferenceFollowUp {
				t.Fatalf("Type = %s, want FOLLOW_UP", ref.Type)
			}
			if ref.TargetPlace == nil || ref.TargetPlace.ID != "a" {
				t.Errorf("follow-up subject should default to the first place")
			}
			if ref.BaseIntent != "FOOD_ENTITY" {
				t.Errorf("BaseIntent = %q", ref.BaseIntent)
			}
		})
	}
}

func TestAnalyzeReferenceRefinement(t *testing.T) {
	m := seededManager(t)

	ref := m.AnalyzeReference("có quán nào gần hơn không", "s1")
	if ref.Type != ReferenceRefinement {
		t.Fatalf("Type = %s, want REFINEMENT", ref.Type)
	}
	if len(ref.LastPlaces) != 3 {
		t.Errorf("refinement should carry lastPlaces")
	}
}

func TestAnalyzeReferenceNewQuery(t *testing.T) {
	m := seededManager(t)

	if ref := m.AnalyzeReference("tìm quán lẩu ở Cầu Giấy", "s1"); ref.Type != ReferenceNewQuery {
		t.Errorf("Type = %s, want NEW_QUERY", ref.Type)
	}
	// No session at all.
	if ref := m.AnalyzeReference("quán đầu tiên có mở cửa không", "unknown"); ref.Type != ReferenceNewQuery {
		t.Errorf("Type = %s, want NEW_QUERY without session", ref.Type)
	}
}

func TestFormatHistory(t *testing.T) {
	history := []Turn{
		{Role: "user", Content: "tìm quán phở"},
		{Role: "assistant", Content: "gợi ý Phở Thìn"},
	}
	got := FormatHistory(history, 10)
	want := "Người dùng: tìm quán phở\nTrợ lý: gợi ý Phở Thìn"
	if got != want {
		t.Errorf("FormatHistory = %q, want %q", got, want)
	}
	if FormatHistory(nil, 10) != "" {
		t.Error("empty history should format empty")
	}
}
