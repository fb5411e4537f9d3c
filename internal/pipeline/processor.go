// Package pipeline drives scanned pages through the engine: decode the
// image, call the recognition oracle, parse its description, crop every
// boxed section and hand the results to the archive builder.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ClaireJ59/News-Translator/constants"
	"github.com/ClaireJ59/News-Translator/internal/archive"
	"github.com/ClaireJ59/News-Translator/internal/common"
	"github.com/ClaireJ59/News-Translator/internal/crop"
	"github.com/ClaireJ59/News-Translator/internal/geometry"
	"github.com/ClaireJ59/News-Translator/internal/layout"
	"github.com/ClaireJ59/News-Translator/internal/oracle"
)

// Input is one scanned page queued for processing.
type Input struct {
	Source   string // page identifier, usually the file name
	Data     []byte
	MIMEType string
}

// Processor runs the per-document stages. It holds no per-document state,
// so one Processor serves a whole batch.
type Processor struct {
	logger  *slog.Logger
	rec     oracle.Recognizer
	timeout time.Duration // per-document oracle budget; 0 means caller context only
}

// NewProcessor wires a processor around the given recognizer.
func NewProcessor(rec oracle.Recognizer, timeout time.Duration, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, rec: rec, timeout: timeout}
}

// Process runs one page end to end and packages it into builder. The
// returned status describes a successful document; on error the caller
// classifies the failure for the batch report. Sections whose geometry is
// degenerate are skipped silently at the crop stage, never failed.
func (p *Processor) Process(ctx context.Context, in Input, builder *archive.Builder) (DocumentStatus, error) {
	start := time.Now()

	// 1) decode stage
	img, format, err := crop.Decode(bytes.NewReader(in.Data))
	if err != nil {
		p.logger.Error("processor.decode.failed", "source", in.Source, "err", err)
		return DocumentStatus{}, common.Fail(common.ErrDecode, err)
	}
	p.logger.Debug("processor decode success",
		"source", in.Source,
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
	)

	// 2) oracle stage
	raw, err := p.recognize(ctx, in)
	if err != nil {
		p.logger.Error("processor.recognize.failed", "source", in.Source, "err", err)
		return DocumentStatus{}, common.Fail(common.ErrOracle, err)
	}

	// 3) parse stage; a malformed payload keeps its raw text in the error
	doc, err := layout.ParseDocument([]byte(raw), p.logger)
	if err != nil {
		p.logger.Error("processor.parse.failed", "source", in.Source, "err", err)
		return DocumentStatus{}, err
	}

	// 4) crop stage, aligned 1:1 with the sections
	boxes := make([]*geometry.RelativeBox, len(doc.Sections))
	for i, s := range doc.Sections {
		boxes[i] = s.Box
	}
	crops := crop.Regions(img, boxes)

	// 5) package stage
	manifest, err := builder.AddDocument(in.Source, doc, crops)
	if err != nil {
		p.logger.Error("processor.package.failed", "source", in.Source, "err", err)
		return DocumentStatus{}, common.Fail(common.ErrPackaging, err)
	}
	for _, se := range manifest.SectionErrs {
		p.logger.Warn("processor.section.skipped",
			"source", in.Source, "index", se.Index, "err", se.Err)
	}

	news, images := doc.Counts()
	p.logger.Info("processor.document.ok",
		"source", in.Source,
		"sections", len(doc.Sections),
		"crops_saved", manifest.CropsSaved,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return DocumentStatus{
		Source:     in.Source,
		Status:     constants.DocStatusSucceeded,
		Date:       doc.Date,
		Sections:   len(doc.Sections),
		News:       news,
		Images:     images,
		CropsSaved: manifest.CropsSaved,
		ArchiveDir: manifest.Dir,
	}, nil
}

func (p *Processor) recognize(ctx context.Context, in Input) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	raw, err := p.rec.Recognize(ctx, oracle.RecognizeRequest{
		ImageBytes: in.Data,
		MIMEType:   in.MIMEType,
		SourceName: in.Source,
	})
	if err != nil {
		return "", err
	}
	if raw == "" {
		return "", fmt.Errorf("oracle returned empty payload")
	}
	return raw, nil
}
