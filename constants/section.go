package constants

import (
	"strings"
)

// SectionKind discriminates the two region shapes the oracle reports.
type SectionKind string

const (
	SectionNews  SectionKind = "news"
	SectionImage SectionKind = "image"
)

var allKinds = []SectionKind{
	SectionNews,
	SectionImage,
}

func KindStrings() []string {
	result := make([]string, len(allKinds))
	for i, k := range allKinds {
		result[i] = string(k)
	}
	return result
}

// CanonicalKind maps an oracle discriminator to a canonical kind. Unrecognized
// values fall back to SectionImage so the region keeps its slot in the layout.
func CanonicalKind(input string) (SectionKind, bool) {
	if input == "" {
		return SectionImage, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]SectionKind{
		"text":    SectionNews,
		"article": SectionNews,
		"story":   SectionNews,
		"photo":   SectionImage,
		"picture": SectionImage,
		"figure":  SectionImage,
		"graphic": SectionImage,
	}

	if kind, ok := synonyms[normalized]; ok {
		return kind, true
	}

	for _, kind := range allKinds {
		if normalized == string(kind) {
			return kind, true
		}
	}

	return SectionImage, false
}
