package layout

import (
	"strings"

	"github.com/ClaireJ59/News-Translator/constants"
	"github.com/ClaireJ59/News-Translator/internal/geometry"
)

// UnknownDate is the sentinel stored when the oracle reports no usable date.
const UnknownDate = "unknown"

// Bitext pairs a passage of source text with its translation. The two sides
// always travel together; either may be empty.
type Bitext struct {
	Source     string `json:"source_text"`
	Translated string `json:"translated_text"`
}

// IsEmpty reports whether both sides are blank.
func (b Bitext) IsEmpty() bool {
	return strings.TrimSpace(b.Source) == "" && strings.TrimSpace(b.Translated) == ""
}

// Preferred returns the translated side when present, falling back to the
// source side.
func (b Bitext) Preferred() string {
	if strings.TrimSpace(b.Translated) != "" {
		return b.Translated
	}
	return b.Source
}

// Section is one oracle-reported region of a page. Kind discriminates the two
// shapes: news sections carry headline and body pairs, image sections carry an
// optional caption. SavedImagePath is set by the archive builder after an
// image crop is persisted and is never set on news sections.
type Section struct {
	Kind           constants.SectionKind `json:"kind"`
	Box            *geometry.RelativeBox `json:"box,omitempty"`
	HeadlineMain   *Bitext               `json:"headline_main,omitempty"`
	HeadlineSub    *Bitext               `json:"headline_sub,omitempty"`
	Body           *Bitext               `json:"body,omitempty"`
	Caption        *Bitext               `json:"caption,omitempty"`
	SavedImagePath string                `json:"saved_image_path,omitempty"`
}

// NewNewsSection builds a news section. Main headline and body are always
// materialized so serialized records keep both pairs even when blank.
func NewNewsSection(box *geometry.RelativeBox, main, sub, body Bitext) Section {
	s := Section{
		Kind:         constants.SectionNews,
		Box:          box,
		HeadlineMain: &main,
		Body:         &body,
	}
	if !sub.IsEmpty() {
		s.HeadlineSub = &sub
	}
	return s
}

// NewImageSection builds an image section. The caption is kept only when it
// has content.
func NewImageSection(box *geometry.RelativeBox, caption Bitext) Section {
	s := Section{
		Kind: constants.SectionImage,
		Box:  box,
	}
	if !caption.IsEmpty() {
		s.Caption = &caption
	}
	return s
}

// IsNews reports whether the section is a news region.
func (s Section) IsNews() bool { return s.Kind == constants.SectionNews }

// IsImage reports whether the section is an image region.
func (s Section) IsImage() bool { return s.Kind == constants.SectionImage }

// Title returns the raw text used to label this section in the archive: the
// main headline for news, the caption for images, translated side preferred.
func (s Section) Title() string {
	switch {
	case s.IsNews() && s.HeadlineMain != nil:
		return s.HeadlineMain.Preferred()
	case s.IsImage() && s.Caption != nil:
		return s.Caption.Preferred()
	}
	return ""
}

// Document is the complete parsed description of one page: a free-form issue
// date and the oracle's sections in reading order. Position is meaningful,
// archive naming is 1-based on it.
type Document struct {
	Date     string    `json:"date"`
	Sections []Section `json:"sections"`
}

// Counts returns the number of news and image sections.
func (d *Document) Counts() (news, images int) {
	for _, s := range d.Sections {
		if s.IsNews() {
			news++
		} else {
			images++
		}
	}
	return news, images
}
