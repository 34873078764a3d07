package textutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Tìm Quán PHỞ", "tìm quán phở"},
		{"collapse spaces", "  quán   cafe \t view đẹp ", "quán cafe view đẹp"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		keyword string
		want    bool
	}{
		{"start of string", "phở bò ngon", "phở", true},
		{"end of string", "tìm quán phở", "phở", true},
		{"middle", "tìm quán phở ở đống đa", "phở", true},
		{"compound keyword", "ăn bún chả ở đâu", "bún chả", true},
		{"no partial word match", "caphe sữa đá", "cafe", false},
		{"substring inside word rejected", "karaokebar gần đây", "karaoke", false},
		{"diacritic boundary respected", "bún đậu mắm tôm", "bún đậu", true},
		{"missing", "quán trà đá", "phở", false},
		{"empty keyword", "phở", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsWord(tt.text, tt.keyword); got != tt.want {
				t.Errorf("ContainsWord(%q, %q) = %v, want %v", tt.text, tt.keyword, got, tt.want)
			}
		})
	}
}

func TestContainsAnyWordLongestFirst(t *testing.T) {
	keywords := SortByLengthDesc([]string{"bún", "bún chả", "bún đậu"})
	got := ContainsAnyWord("ăn bún chả hà nội", keywords)
	if got != "bún chả" {
		t.Errorf("expected compound keyword to win, got %q", got)
	}
}

func TestFoldDiacritics(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Đống Đa", "Dong Da"},
		{"quận hoàn kiếm", "quan hoan kiem"},
		{"cầu giấy", "cau giay"},
		{"abc xyz", "abc xyz"},
	}

	for _, tt := range tests {
		if got := FoldDiacritics(tt.in); got != tt.want {
			t.Errorf("FoldDiacritics(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSortByLengthDesc(t *testing.T) {
	in := []string{"phở", "bún chả", "cơm", "lẩu hải sản"}
	got := SortByLengthDesc(in)
	for i := 1; i < len(got); i++ {
		if len(got[i]) > len(got[i-1]) {
			t.Fatalf("not sorted longest-first: %v", got)
		}
	}
	if in[0] != "phở" {
		t.Error("input slice mutated")
	}
}
