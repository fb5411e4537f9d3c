// Package archive packages parsed documents, their section records and their
// image crops into a single zip container.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"image"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ClaireJ59/News-Translator/internal/common"
	"github.com/ClaireJ59/News-Translator/internal/layout"
)

// DefaultJPEGQuality is used when a Builder is constructed with an
// out-of-range quality setting.
const DefaultJPEGQuality = 95

type entry struct {
	name   string
	data   []byte
	method uint16
}

// SectionError records a contained, section-level packaging failure.
type SectionError struct {
	Index int // 1-based archive position
	Err   error
}

// DocumentManifest summarizes what AddDocument packaged for one source image.
type DocumentManifest struct {
	Dir         string
	SectionDirs []string
	CropsSaved  int
	SectionErrs []SectionError
}

// Builder accumulates one packaged container across documents. Entries are
// held in memory until Bytes or WriteFile assembles the zip. Entry names use
// only [A-Za-z0-9_./] and carry no timestamps, so rebuilding from the same
// inputs yields identical bytes. A Builder is single-owner: it must not be
// shared by concurrent batches.
type Builder struct {
	logger   *slog.Logger
	quality  int
	entries  []entry
	dirCount map[string]int
}

// NewBuilder returns an empty Builder encoding crops at the given JPEG
// quality.
func NewBuilder(quality int, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Builder{
		logger:   logger,
		quality:  quality,
		dirCount: make(map[string]int),
	}
}

// Len returns the number of accumulated entries.
func (b *Builder) Len() int { return len(b.entries) }

// AddDocument packages one parsed document: a directory per section with its
// JSON record, main_image.jpg for image sections whose crop is present, the
// whole-document report and a bilingual digest. crops must align 1:1 with
// doc.Sections, nil where no crop exists.
//
// AddDocument performs the one permitted document mutation: image sections
// whose crop is persisted gain SavedImagePath, every other section has it
// cleared. A crop encoding failure is contained to its section and reported
// through the manifest; the document keeps packaging.
func (b *Builder) AddDocument(sourceName string, doc *layout.Document, crops []*image.RGBA) (DocumentManifest, error) {
	if len(crops) != len(doc.Sections) {
		return DocumentManifest{}, fmt.Errorf("crops do not align with sections: %d != %d", len(crops), len(doc.Sections))
	}

	docDir := b.uniqueDocDir(Label(stripExt(sourceName), "document"))
	manifest := DocumentManifest{Dir: docDir}

	for i := range doc.Sections {
		section := &doc.Sections[i]
		kind := string(section.Kind)
		secName := fmt.Sprintf("%02d_%s_%s", i+1, kind, Label(section.Title(), kind))
		secDir := docDir + "/" + secName
		manifest.SectionDirs = append(manifest.SectionDirs, secDir)

		// Clear first so stale paths from re-parsed records never survive.
		section.SavedImagePath = ""
		if section.IsImage() && crops[i] != nil {
			var imgBuf bytes.Buffer
			if err := jpeg.Encode(&imgBuf, crops[i], &jpeg.Options{Quality: b.quality}); err != nil {
				manifest.SectionErrs = append(manifest.SectionErrs, SectionError{Index: i + 1, Err: err})
				b.logger.Warn("archive.section.encode", "dir", secDir, "error", err)
			} else {
				b.add(secDir+"/main_image.jpg", imgBuf.Bytes(), zip.Store)
				section.SavedImagePath = secName + "/main_image.jpg"
				manifest.CropsSaved++
			}
		}

		data, err := marshalIndented(section)
		if err != nil {
			return manifest, common.WrapError(err, fmt.Sprintf("serialize section %02d", i+1))
		}
		b.add(secDir+"/report_data.json", data, zip.Deflate)
	}

	full, err := marshalIndented(doc)
	if err != nil {
		return manifest, common.WrapError(err, "serialize document")
	}
	b.add(docDir+"/"+docDir+"_full_report.json", full, zip.Deflate)

	md := buildReportMarkdown(doc)
	b.add(docDir+"/report.md", md, zip.Deflate)
	if html, err := renderHTML(md); err != nil {
		b.logger.Warn("archive.report.render", "dir", docDir, "error", err)
	} else {
		b.add(docDir+"/report.html", html, zip.Deflate)
	}

	b.logger.Info("archive.document.added",
		"dir", docDir,
		"sections", len(doc.Sections),
		"crops_saved", manifest.CropsSaved,
	)
	return manifest, nil
}

// Bytes assembles the accumulated entries into a zip container. Images are
// stored uncompressed, text entries are deflated.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range b.entries {
		header := &zip.FileHeader{
			Name:   e.name,
			Method: e.method,
		}
		header.UncompressedSize64 = uint64(len(e.data))
		if e.method == zip.Store {
			header.CRC32 = crc32.ChecksumIEEE(e.data)
		}
		w, err := zw.CreateHeader(header)
		if err != nil {
			return nil, common.WrapError(err, "create archive entry")
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, common.WrapError(err, "write archive entry")
		}
	}
	if err := zw.Close(); err != nil {
		return nil, common.WrapError(err, "finalize archive")
	}
	return buf.Bytes(), nil
}

// WriteFile assembles the archive and writes it to path.
func (b *Builder) WriteFile(path string) error {
	data, err := b.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (b *Builder) add(name string, data []byte, method uint16) {
	b.entries = append(b.entries, entry{name: name, data: data, method: method})
}

// uniqueDocDir suffixes repeated base names so page1.jpg and page1.png
// cannot collide within one build.
func (b *Builder) uniqueDocDir(base string) string {
	b.dirCount[base]++
	if n := b.dirCount[base]; n > 1 {
		return fmt.Sprintf("%s_%d", base, n)
	}
	return base
}

func stripExt(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func marshalIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
