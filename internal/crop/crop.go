// Package crop decodes scanned pages and extracts per-section sub-images.
package crop

import (
	"fmt"
	"image"
	"image/draw"
	"io"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/ClaireJ59/News-Translator/internal/geometry"
)

// Decode reads a scanned page. JPEG, PNG and WebP decoders are registered.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// Region extracts the part of img covered by box. The returned image owns an
// independent pixel buffer, so it stays valid after the source is released.
// ok is false when the box is absent or normalizes to an empty window; that
// is an expected outcome, not an error.
func Region(img image.Image, box *geometry.RelativeBox) (*image.RGBA, bool) {
	bounds := img.Bounds()
	rect, ok := geometry.Normalize(box, bounds.Dx(), bounds.Dy())
	if !ok {
		return nil, false
	}

	// Source bounds may not start at the origin.
	window := rect.Bounds().Add(bounds.Min)
	if !window.In(bounds) {
		window = window.Intersect(bounds)
	}
	if window.Empty() {
		return nil, false
	}

	out := image.NewRGBA(image.Rect(0, 0, window.Dx(), window.Dy()))
	draw.Draw(out, out.Bounds(), img, window.Min, draw.Src)
	return out, true
}

// Regions extracts one sub-image per section box, aligned by position: the
// result always has exactly len(boxes) entries, nil where no crop exists.
func Regions(img image.Image, boxes []*geometry.RelativeBox) []*image.RGBA {
	out := make([]*image.RGBA, len(boxes))
	for i, box := range boxes {
		if region, ok := Region(img, box); ok {
			out[i] = region
		}
	}
	return out
}
