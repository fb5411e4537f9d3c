package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"image"
	"io"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/ClaireJ59/News-Translator/internal/geometry"
	"github.com/ClaireJ59/News-Translator/internal/layout"
)

func testDocument() *layout.Document {
	return &layout.Document{
		Date: "2024年09月15日",
		Sections: []layout.Section{
			layout.NewNewsSection(
				&geometry.RelativeBox{100, 50, 900, 950},
				layout.Bitext{Source: "経済成長が加速", Translated: "Economy Grows"},
				layout.Bitext{},
				layout.Bitext{Source: "本文テキスト。", Translated: "內文文字。"},
			),
			layout.NewImageSection(
				&geometry.RelativeBox{920, 100, 980, 900},
				layout.Bitext{Source: "東京の朝", Translated: "Tokyo Morning"},
			),
		},
	}
}

func testCrop(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func openArchive(t *testing.T, b *Builder) *zip.Reader {
	t.Helper()
	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}
	return zr
}

func entryNames(zr *zip.Reader) []string {
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

func readEntry(t *testing.T, zr *zip.Reader, name string) []byte {
	t.Helper()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return data
	}
	t.Fatalf("entry %s not in archive, have %v", name, entryNames(zr))
	return nil
}

func TestAddDocumentLayout(t *testing.T) {
	b := NewBuilder(DefaultJPEGQuality, nil)
	doc := testDocument()

	manifest, err := b.AddDocument("page1.jpg", doc, []*image.RGBA{nil, testCrop(16, 8)})
	if err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	if manifest.Dir != "page1" {
		t.Errorf("Dir = %q, want page1", manifest.Dir)
	}
	if manifest.CropsSaved != 1 {
		t.Errorf("CropsSaved = %d, want 1", manifest.CropsSaved)
	}

	zr := openArchive(t, b)
	want := []string{
		"page1/01_news_Economy_Grows/report_data.json",
		"page1/02_image_Tokyo_Morning/main_image.jpg",
		"page1/02_image_Tokyo_Morning/report_data.json",
		"page1/page1_full_report.json",
		"page1/report.html",
		"page1/report.md",
	}
	got := entryNames(zr)
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// News sections never receive an image file.
	for _, name := range got {
		if strings.HasPrefix(name, "page1/01_news_") && strings.HasSuffix(name, ".jpg") {
			t.Errorf("news section received an image entry: %s", name)
		}
	}
}

func TestAddDocumentEntryNameCharset(t *testing.T) {
	safe := regexp.MustCompile(`^[A-Za-z0-9_./]+$`)
	b := NewBuilder(DefaultJPEGQuality, nil)
	doc := testDocument()

	if _, err := b.AddDocument("紙面 スキャン (1).jpg", doc, []*image.RGBA{nil, nil}); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}

	for _, name := range entryNames(openArchive(t, b)) {
		if !safe.MatchString(name) {
			t.Errorf("entry name %q escapes the safe charset", name)
		}
	}
}

func TestAddDocumentSavedImagePath(t *testing.T) {
	b := NewBuilder(DefaultJPEGQuality, nil)
	doc := testDocument()

	if _, err := b.AddDocument("page1.jpg", doc, []*image.RGBA{nil, testCrop(8, 8)}); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}

	wantPath := "02_image_Tokyo_Morning/main_image.jpg"
	if doc.Sections[1].SavedImagePath != wantPath {
		t.Errorf("SavedImagePath = %q, want %q", doc.Sections[1].SavedImagePath, wantPath)
	}
	if doc.Sections[0].SavedImagePath != "" {
		t.Errorf("news SavedImagePath = %q, want empty", doc.Sections[0].SavedImagePath)
	}

	zr := openArchive(t, b)

	var full layout.Document
	if err := json.Unmarshal(readEntry(t, zr, "page1/page1_full_report.json"), &full); err != nil {
		t.Fatalf("unmarshal full report: %v", err)
	}
	if full.Sections[1].SavedImagePath != wantPath {
		t.Errorf("full report SavedImagePath = %q, want %q", full.Sections[1].SavedImagePath, wantPath)
	}

	var section layout.Section
	if err := json.Unmarshal(readEntry(t, zr, "page1/02_image_Tokyo_Morning/report_data.json"), &section); err != nil {
		t.Fatalf("unmarshal section report: %v", err)
	}
	if section.SavedImagePath != wantPath {
		t.Errorf("section report SavedImagePath = %q, want %q", section.SavedImagePath, wantPath)
	}
}

func TestAddDocumentRoundTrip(t *testing.T) {
	b := NewBuilder(DefaultJPEGQuality, nil)
	doc := testDocument()

	if _, err := b.AddDocument("page1.jpg", doc, []*image.RGBA{nil, testCrop(8, 8)}); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	zr := openArchive(t, b)

	reports := []string{
		"page1/01_news_Economy_Grows/report_data.json",
		"page1/02_image_Tokyo_Morning/report_data.json",
	}
	for i, name := range reports {
		var got layout.Section
		if err := json.Unmarshal(readEntry(t, zr, name), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", name, err)
		}
		want := doc.Sections[i]
		if got.Kind != want.Kind {
			t.Errorf("%s kind = %q, want %q", name, got.Kind, want.Kind)
		}
		if got.Box == nil || *got.Box != *want.Box {
			t.Errorf("%s box = %v, want %v", name, got.Box, want.Box)
		}
	}

	var news layout.Section
	if err := json.Unmarshal(readEntry(t, zr, reports[0]), &news); err != nil {
		t.Fatalf("unmarshal news report: %v", err)
	}
	if news.HeadlineMain.Source != "経済成長が加速" || news.Body.Translated != "內文文字。" {
		t.Errorf("news text fields changed across packaging: %+v", news)
	}
}

func TestAddDocumentNewsCropNeverPersisted(t *testing.T) {
	b := NewBuilder(DefaultJPEGQuality, nil)
	doc := testDocument()

	// A crop wrongly supplied at a news slot must not produce an image file.
	if _, err := b.AddDocument("page1.jpg", doc, []*image.RGBA{testCrop(8, 8), nil}); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}

	for _, name := range entryNames(openArchive(t, b)) {
		if strings.HasSuffix(name, "main_image.jpg") {
			t.Errorf("unexpected image entry %s", name)
		}
	}
	if doc.Sections[0].SavedImagePath != "" {
		t.Errorf("news SavedImagePath = %q, want empty", doc.Sections[0].SavedImagePath)
	}
}

func TestAddDocumentMissingCropStillWritesRecord(t *testing.T) {
	b := NewBuilder(DefaultJPEGQuality, nil)
	doc := testDocument()

	if _, err := b.AddDocument("page1.jpg", doc, []*image.RGBA{nil, nil}); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	zr := openArchive(t, b)

	var section layout.Section
	if err := json.Unmarshal(readEntry(t, zr, "page1/02_image_Tokyo_Morning/report_data.json"), &section); err != nil {
		t.Fatalf("unmarshal section report: %v", err)
	}
	if section.SavedImagePath != "" {
		t.Errorf("SavedImagePath = %q, want empty without a crop", section.SavedImagePath)
	}
	for _, name := range entryNames(zr) {
		if strings.HasSuffix(name, ".jpg") {
			t.Errorf("unexpected image entry %s", name)
		}
	}
}

func TestAddDocumentDuplicateSourceNames(t *testing.T) {
	b := NewBuilder(DefaultJPEGQuality, nil)

	m1, err := b.AddDocument("page1.jpg", testDocument(), []*image.RGBA{nil, nil})
	if err != nil {
		t.Fatalf("AddDocument(first) error = %v", err)
	}
	m2, err := b.AddDocument("page1.png", testDocument(), []*image.RGBA{nil, nil})
	if err != nil {
		t.Fatalf("AddDocument(second) error = %v", err)
	}
	m3, err := b.AddDocument("scans/page1.jpg", testDocument(), []*image.RGBA{nil, nil})
	if err != nil {
		t.Fatalf("AddDocument(third) error = %v", err)
	}

	if m1.Dir != "page1" || m2.Dir != "page1_2" || m3.Dir != "page1_3" {
		t.Errorf("dirs = %q, %q, %q; want page1, page1_2, page1_3", m1.Dir, m2.Dir, m3.Dir)
	}

	zr := openArchive(t, b)
	for _, name := range []string{
		"page1/page1_full_report.json",
		"page1_2/page1_2_full_report.json",
		"page1_3/page1_3_full_report.json",
	} {
		readEntry(t, zr, name)
	}
}

func TestAddDocumentMisalignedCrops(t *testing.T) {
	b := NewBuilder(DefaultJPEGQuality, nil)
	if _, err := b.AddDocument("page1.jpg", testDocument(), []*image.RGBA{nil}); err == nil {
		t.Fatal("AddDocument() error = nil, want alignment failure")
	}
}

func TestAddDocumentLabelFallback(t *testing.T) {
	b := NewBuilder(DefaultJPEGQuality, nil)
	doc := &layout.Document{
		Date: layout.UnknownDate,
		Sections: []layout.Section{
			layout.NewImageSection(nil, layout.Bitext{}),
		},
	}

	if _, err := b.AddDocument("頁面.jpg", doc, []*image.RGBA{nil}); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}

	zr := openArchive(t, b)
	readEntry(t, zr, "document/01_image_image/report_data.json")
}

func TestBuildIdempotent(t *testing.T) {
	build := func() (*Builder, *layout.Document) {
		b := NewBuilder(DefaultJPEGQuality, nil)
		doc := testDocument()
		if _, err := b.AddDocument("page1.jpg", doc, []*image.RGBA{nil, testCrop(8, 8)}); err != nil {
			t.Fatalf("AddDocument() error = %v", err)
		}
		return b, doc
	}

	b1, _ := build()
	b2, _ := build()

	zr1 := openArchive(t, b1)
	zr2 := openArchive(t, b2)

	names1 := entryNames(zr1)
	names2 := entryNames(zr2)
	if len(names1) != len(names2) {
		t.Fatalf("entry counts differ: %v vs %v", names1, names2)
	}
	for i := range names1 {
		if names1[i] != names2[i] {
			t.Errorf("entry[%d] = %q vs %q, want identical naming", i, names1[i], names2[i])
		}
	}
	for _, name := range names1 {
		if strings.HasSuffix(name, ".jpg") {
			continue
		}
		if !bytes.Equal(readEntry(t, zr1, name), readEntry(t, zr2, name)) {
			t.Errorf("entry %s differs between rebuilds", name)
		}
	}
}

func TestReportDigestContent(t *testing.T) {
	b := NewBuilder(DefaultJPEGQuality, nil)
	doc := testDocument()

	if _, err := b.AddDocument("page1.jpg", doc, []*image.RGBA{nil, testCrop(8, 8)}); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	zr := openArchive(t, b)

	md := string(readEntry(t, zr, "page1/report.md"))
	for _, want := range []string{
		"2024年09月15日",
		"Economy Grows",
		"內文翻譯",
		"內文文字。",
		"日文原文",
		"本文テキスト。",
		"Tokyo Morning",
		"02_image_Tokyo_Morning/main_image.jpg",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report.md missing %q:\n%s", want, md)
		}
	}

	html := string(readEntry(t, zr, "page1/report.html"))
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<img") {
		t.Errorf("report.html not rendered: %s", html)
	}
}
