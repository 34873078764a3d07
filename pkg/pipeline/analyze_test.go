package pipeline

import (
	"testing"

	"ai-places-be/pkg/retrieval"
)

func TestNeedsLLMIntent(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"short plain chat", "phở ngon", false},
		{"itinerary keyword", "lên lịch trình đi chơi", true},
		{"medium without keyword", "quán cà phê nào đẹp ở Tây Hồ", false},
		{
			"long without keyword",
			"mình muốn tìm một nơi thật đặc biệt để đưa gia đình đi chơi cuối tuần này ở Hà Nội",
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := needsLLMIntent(tt.query); got != tt.want {
				t.Fatalf("needsLLMIntent(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestClassifyItineraryType(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  retrieval.ItineraryType
	}{
		{"no evening cue", "lên lịch trình đi chơi Hà Nội", retrieval.ItineraryFullDay},
		{"evening simple", "lịch trình tối nay đơn giản thôi", retrieval.ItineraryEveningSimple},
		{"evening fancy", "kế hoạch buổi tối sang trọng", retrieval.ItineraryEveningFancy},
		{"evening unqualified", "lịch trình tối nay", retrieval.ItineraryEveningFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyItineraryType(tt.query); got != tt.want {
				t.Fatalf("classifyItineraryType(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestApplyDietaryAugment(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		dietary   []string
		wantQuery string
		wantFlag  bool
	}{
		{
			name:      "generic food query rewritten",
			query:     "tìm quán ăn ngon",
			dietary:   []string{"vegetarian"},
			wantQuery: vegetarianSearchQuery,
			wantFlag:  true,
		},
		{
			name:      "specific dish untouched",
			query:     "quán bún chả ngon nhất",
			dietary:   []string{"vegetarian"},
			wantQuery: "quán bún chả ngon nhất",
			wantFlag:  false,
		},
		{
			name:      "no dietary preference",
			query:     "tìm quán ăn ngon",
			dietary:   nil,
			wantQuery: "tìm quán ăn ngon",
			wantFlag:  false,
		},
		{
			name:      "non food query untouched",
			query:     "chỗ nào chụp ảnh đẹp",
			dietary:   []string{"vegan"},
			wantQuery: "chỗ nào chụp ảnh đẹp",
			wantFlag:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, flag := applyDietaryAugment(tt.query, tt.dietary)
			if got != tt.wantQuery || flag != tt.wantFlag {
				t.Fatalf("applyDietaryAugment(%q, %v) = (%q, %v), want (%q, %v)",
					tt.query, tt.dietary, got, flag, tt.wantQuery, tt.wantFlag)
			}
		})
	}
}
