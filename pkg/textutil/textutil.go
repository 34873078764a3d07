package textutil

import (
	"strings"
	"unicode"
)

// Normalize lowercases a query and collapses runs of whitespace into single
// spaces. All keyword matching in the engine operates on normalized text.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ContainsWord reports whether keyword occurs in text delimited by start of
// string, end of string, or whitespace. Go's regexp \b is ASCII-only and
// breaks on Vietnamese diacritics, so boundaries are checked at rune level.
// Both arguments are expected to be lowercase.
func ContainsWord(text, keyword string) bool {
	if keyword == "" {
		return false
	}
	start := 0
	for {
		idx := strings.Index(text[start:], keyword)
		if idx < 0 {
			return false
		}
		idx += start

		if boundaryBefore(text, idx) && boundaryAfter(text, idx+len(keyword)) {
			return true
		}
		start = idx + 1
		if start >= len(text) {
			return false
		}
	}
}

// ContainsAnyWord returns the first keyword from the list found in text with
// word boundaries, or "" when none match. Callers pass keywords pre-sorted
// longest-first so compound terms win over their prefixes.
func ContainsAnyWord(text string, keywords []string) string {
	for _, kw := range keywords {
		if ContainsWord(text, kw) {
			return kw
		}
	}
	return ""
}

func boundaryBefore(text string, idx int) bool {
	if idx == 0 {
		return true
	}
	r := lastRuneBefore(text, idx)
	return unicode.IsSpace(r)
}

func boundaryAfter(text string, idx int) bool {
	if idx >= len(text) {
		return true
	}
	r, _ := firstRune(text[idx:])
	return unicode.IsSpace(r)
}

func lastRuneBefore(s string, idx int) rune {
	r := rune(0)
	for _, c := range s[:idx] {
		r = c
	}
	return r
}

func firstRune(s string) (rune, int) {
	for i, c := range s {
		_ = i
		return c, len(string(c))
	}
	return 0, 0
}

// FoldDiacritics strips Vietnamese tone marks and maps đ/Đ to d/D, so that
// "Đống Đa" and "dong da" compare equal after folding. Only the Latin range
// used by Vietnamese is handled.
func FoldDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if folded, ok := foldTable[r]; ok {
			b.WriteRune(folded)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SortByLengthDesc returns a copy of keywords ordered longest first. Equal
// lengths keep their original relative order.
func SortByLengthDesc(keywords []string) []string {
	out := make([]string, len(keywords))
	copy(out, keywords)
	// Insertion sort keeps this dependency-free and stable; tables are small.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && len(out[j]) > len(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

var foldTable = buildFoldTable()

func buildFoldTable() map[rune]rune {
	groups := map[rune]string{
		'a': "àáạảãâầấậẩẫăằắặẳẵ",
		'e': "èéẹẻẽêềếệểễ",
		'i': "ìíịỉĩ",
		'o': "òóọỏõôồốộổỗơờớợởỡ",
		'u': "ùúụủũưừứựửữ",
		'y': "ỳýỵỷỹ",
		'd': "đ",
	}
	table := make(map[rune]rune)
	for base, variants := range groups {
		for _, v := range variants {
			table[v] = base
			table[unicode.ToUpper(v)] = unicode.ToUpper(base)
		}
	}
	return table
}

// SplitChunks splits long text into rune-based chunks of roughly
// chunkSize with an overlap that preserves context across boundaries.
// Short inputs come back as a single chunk.
func SplitChunks(text string, chunkSize, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
