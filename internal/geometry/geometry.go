package geometry

import (
	"image"
	"math"
)

// Scale is the coordinate space the oracle reports boxes in.
const Scale = 1000.0

// RelativeBox is a region in oracle coordinates, ordered
// [ymin, xmin, ymax, xmax] on a nominal 0-1000 scale. Values are untrusted:
// they may be negative, exceed the scale, or describe an empty region.
type RelativeBox [4]float64

// YMin returns the top edge in oracle coordinates.
func (b RelativeBox) YMin() float64 { return b[0] }

// XMin returns the left edge in oracle coordinates.
func (b RelativeBox) XMin() float64 { return b[1] }

// YMax returns the bottom edge in oracle coordinates.
func (b RelativeBox) YMax() float64 { return b[2] }

// XMax returns the right edge in oracle coordinates.
func (b RelativeBox) XMax() float64 { return b[3] }

// BoxFromSlice builds a RelativeBox from a decoded JSON array. Slices that
// do not hold exactly four values are rejected.
func BoxFromSlice(vals []float64) (*RelativeBox, bool) {
	if len(vals) != 4 {
		return nil, false
	}
	b := RelativeBox{vals[0], vals[1], vals[2], vals[3]}
	return &b, true
}

// PixelRect is a crop window in image pixels. A rect produced by Normalize
// always satisfies 0 <= Left < Right <= width and 0 <= Top < Bottom <= height.
type PixelRect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Width returns the horizontal extent in pixels.
func (r PixelRect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent in pixels.
func (r PixelRect) Height() int { return r.Bottom - r.Top }

// Bounds returns the rect as a stdlib image.Rectangle.
func (r PixelRect) Bounds() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

// Normalize maps a relative box onto an image of the given pixel size.
// Coordinates are scaled, clamped to the image bounds, then truncated.
// ok is false when the box is absent, holds non-finite values, or collapses
// to zero width or height after clamping. Normalize never panics.
func Normalize(box *RelativeBox, width, height int) (PixelRect, bool) {
	if box == nil || width <= 0 || height <= 0 {
		return PixelRect{}, false
	}
	for _, v := range box {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return PixelRect{}, false
		}
	}

	left := box.XMin() / Scale * float64(width)
	top := box.YMin() / Scale * float64(height)
	right := box.XMax() / Scale * float64(width)
	bottom := box.YMax() / Scale * float64(height)

	rect := PixelRect{
		Left:   int(math.Max(0, left)),
		Top:    int(math.Max(0, top)),
		Right:  int(math.Min(float64(width), right)),
		Bottom: int(math.Min(float64(height), bottom)),
	}
	if rect.Right <= rect.Left || rect.Bottom <= rect.Top {
		return PixelRect{}, false
	}
	return rect, true
}
