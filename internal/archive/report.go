package archive

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/ClaireJ59/News-Translator/internal/layout"
)

// buildReportMarkdown renders the bilingual digest for one document: issue
// date, then every section in archive order with its translation above the
// source text, image references pointing at the packaged crops.
func buildReportMarkdown(doc *layout.Document) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# 📅 %s\n", doc.Date)

	for i, s := range doc.Sections {
		sb.WriteString("\n---\n\n")
		if s.IsNews() {
			writeNewsSection(&sb, i+1, s)
		} else {
			writeImageSection(&sb, i+1, s)
		}
	}
	return []byte(sb.String())
}

func writeNewsSection(sb *strings.Builder, index int, s layout.Section) {
	title := "無標題"
	if s.HeadlineMain != nil && s.HeadlineMain.Preferred() != "" {
		title = s.HeadlineMain.Preferred()
	}
	fmt.Fprintf(sb, "## %02d. %s\n\n", index, title)

	if s.HeadlineSub != nil && s.HeadlineSub.Preferred() != "" {
		fmt.Fprintf(sb, "**└ %s**\n\n", s.HeadlineSub.Preferred())
	}
	if s.Body == nil {
		return
	}
	if s.Body.Translated != "" {
		sb.WriteString("### 內文翻譯\n\n")
		sb.WriteString(s.Body.Translated)
		sb.WriteString("\n\n")
	}
	if s.Body.Source != "" {
		sb.WriteString("### 日文原文\n\n")
		sb.WriteString(s.Body.Source)
		sb.WriteString("\n\n")
	}
}

func writeImageSection(sb *strings.Builder, index int, s layout.Section) {
	fmt.Fprintf(sb, "## %02d. 圖片\n\n", index)

	caption := ""
	if s.Caption != nil {
		caption = s.Caption.Preferred()
	}
	if s.SavedImagePath != "" {
		fmt.Fprintf(sb, "![%s](%s)\n\n", caption, s.SavedImagePath)
	}
	if caption != "" {
		fmt.Fprintf(sb, "📝 %s\n\n", caption)
	} else {
		sb.WriteString("(無附註)\n\n")
	}
}

// renderHTML converts the digest to a standalone HTML fragment.
func renderHTML(md []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert(md, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
