// Package district resolves Hanoi administrative districts from free-text
// queries and builds the hard filter retrieval applies for them.
package district

import (
	"regexp"
	"strings"

	"ai-places-be/pkg/keywords"
	"ai-places-be/pkg/textutil"
)

// Filter is the hard district constraint: the place's district must equal
// Name, or, when the catalog row has no district, its address must contain
// the district name.
type Filter struct {
	Name string
}

// locationPattern captures the words after "ở", "tại", "quận" or "q." for a
// dictionary lookup ("quán phở ở đống đa" -> "đống đa").
var locationPattern = regexp.MustCompile(`(?:ở|tại|quận|q\.|q)\s+([\p{L}\s]+)`)

// Extractor detects districts with a three-tier strategy. Stateless after
// construction and safe for concurrent use.
type Extractor struct {
	variants []string // dictionary keys, longest first
}

func NewExtractor() *Extractor {
	variantKeys := make([]string, 0, len(keywords.DistrictVariants))
	for v := range keywords.DistrictVariants {
		variantKeys = append(variantKeys, v)
	}
	return &Extractor{
		variants: textutil.SortByLengthDesc(variantKeys),
	}
}

// Detect returns the canonical district name for a query, or "" when the
// query names no known district. Tiers, in strict priority order:
//  1. variant dictionary match (word-boundary-safe, longest variant first),
//  2. "ở/tại/quận X" pattern capture followed by dictionary lookup,
//  3. diacritic-folded substring match against canonical names.
func (e *Extractor) Detect(query string) string {
	normalized := textutil.Normalize(query)
	if normalized == "" {
		return ""
	}

	for _, variant := range e.variants {
		if textutil.ContainsWord(normalized, variant) {
			return keywords.DistrictVariants[variant]
		}
	}

	if m := locationPattern.FindStringSubmatch(normalized); m != nil {
		candidate := strings.TrimSpace(m[1])
		if canonical, ok := keywords.DistrictVariants[candidate]; ok {
			return canonical
		}
	}

	foldedQuery := textutil.FoldDiacritics(normalized)
	for _, district := range keywords.Districts {
		folded := textutil.FoldDiacritics(strings.ToLower(district))
		if strings.Contains(foldedQuery, folded) {
			return district
		}
	}

	return ""
}

// BuildFilter returns the hard filter for a detected district, or nil when
// district is empty.
func (e *Extractor) BuildFilter(district string) *Filter {
	if district == "" {
		return nil
	}
	return &Filter{Name: district}
}

// IsValid reports whether the name is one of the canonical districts.
func (e *Extractor) IsValid(district string) bool {
	for _, d := range keywords.Districts {
		if d == district {
			return true
		}
	}
	return false
}
