package layout

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ClaireJ59/News-Translator/constants"
	"github.com/ClaireJ59/News-Translator/internal/geometry"
)

// normalizeDocument folds a decoded payload into the typed model. Missing
// fields default instead of failing: no date means the unknown sentinel, no
// sections means an empty list.
func normalizeDocument(m map[string]any, logger *slog.Logger) *Document {
	doc := &Document{Date: UnknownDate, Sections: []Section{}}
	if d := stringAt(m, "date"); d != "" {
		doc.Date = d
	}

	rawSections, _ := m["sections"].([]any)
	folded := make([]string, 0, 4)
	for _, item := range rawSections {
		sm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		section, renames := normalizeSection(sm)
		folded = append(folded, renames...)
		doc.Sections = append(doc.Sections, section)
	}
	if len(folded) > 0 {
		logger.Debug("layout.parse.fold", "renamed", folded)
	}
	return doc
}

// normalizeSection
// - Renames known synonyms (content_zh -> body_zh, box_2d -> box, ...)
// - Canonicalizes the kind discriminator; unrecognized kinds keep their slot
//   as an empty image section
// - Assembles source/translated pairs from nested objects or suffixed fields
// - Ignores unknown keys
func normalizeSection(m map[string]any) (Section, []string) {
	renames := make([]string, 0, 4)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			// don't overwrite existing value if already present
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			renames = append(renames, from+"->"+to)
		}
	}

	// 1) fold discriminator and box synonyms
	renamed("type", "kind")
	renamed("box_2d", "box")
	renamed("bbox", "box")

	// 2) fold text-field synonyms from historical prompt revisions
	for _, suffix := range []string{"_jp", "_zh"} {
		renamed("headline"+suffix, "headline_main"+suffix)
		renamed("title"+suffix, "headline_main"+suffix)
		renamed("subtitle"+suffix, "headline_sub"+suffix)
		renamed("body_text"+suffix, "body"+suffix)
		renamed("content"+suffix, "body"+suffix)
		renamed("caption_text"+suffix, "caption"+suffix)
	}

	kind, recognized := constants.CanonicalKind(stringAt(m, "kind"))
	if !recognized {
		return Section{Kind: constants.SectionImage}, renames
	}

	box := boxAt(m)
	if kind == constants.SectionNews {
		return NewNewsSection(
			box,
			bitextAt(m, "headline_main"),
			bitextAt(m, "headline_sub"),
			bitextAt(m, "body"),
		), renames
	}

	section := NewImageSection(box, bitextAt(m, "caption"))
	section.SavedImagePath = stringAt(m, "saved_image_path")
	return section, renames
}

// bitextAt reads a text pair at base, accepting the nested object form, a
// bare string (source side only), or flat _jp/_zh suffixed fields.
func bitextAt(m map[string]any, base string) Bitext {
	if v, ok := m[base]; ok {
		switch t := v.(type) {
		case map[string]any:
			return Bitext{
				Source:     stringAt(t, "source_text"),
				Translated: stringAt(t, "translated_text"),
			}
		case string:
			return Bitext{Source: strings.TrimSpace(t)}
		}
	}
	return Bitext{
		Source:     stringAt(m, base+"_jp"),
		Translated: stringAt(m, base+"_zh"),
	}
}

// boxAt reads the box value as a four-number array. Wrong arity or
// non-numeric entries make the box absent, never a document failure.
func boxAt(m map[string]any) *geometry.RelativeBox {
	arr, ok := m["box"].([]any)
	if !ok {
		return nil
	}
	vals := make([]float64, 0, len(arr))
	for _, item := range arr {
		f, ok := asFloat(item)
		if !ok {
			return nil
		}
		vals = append(vals, f)
	}
	box, ok := geometry.BoxFromSlice(vals)
	if !ok {
		return nil
	}
	return box
}

func stringAt(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
