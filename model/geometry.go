package model

import "fmt"

// CoordOrigin identifies the coordinate system a bounding box is
// expressed in. A box belongs to exactly one system at any instant;
// the tag is carried with the box rather than inferred, because the
// bottom-left to top-left transform is not self-inverse.
type CoordOrigin int

const (
	// BottomLeft places the origin at the bottom-left corner of the
	// page with Y increasing upward. This is the convention used by
	// the analysis output (PDF point space).
	BottomLeft CoordOrigin = iota
	// TopLeft places the origin at the top-left corner of the page
	// with Y increasing downward, as used by screen and SVG rendering.
	TopLeft
)

// String returns the wire tag for the coordinate origin.
func (o CoordOrigin) String() string {
	if o == TopLeft {
		return "TOPLEFT"
	}
	return "BOTTOMLEFT"
}

// ParseCoordOrigin parses a wire tag into a CoordOrigin. Matching is
// case-insensitive. An empty tag defaults to BottomLeft, the source
// convention.
func ParseCoordOrigin(tag string) (CoordOrigin, error) {
	switch normalizeTag(tag) {
	case "", "BOTTOMLEFT":
		return BottomLeft, nil
	case "TOPLEFT":
		return TopLeft, nil
	}
	return BottomLeft, fmt.Errorf("unrecognized coord_origin %q", tag)
}

func normalizeTag(tag string) string {
	b := make([]byte, 0, len(tag))
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b = append(b, c)
	}
	return string(b)
}

// BoundingBox is a rectangle in source coordinate units, tagged with the
// coordinate system its vertical edges are expressed in.
//
// In the BottomLeft system T is the higher Y value (nearer the top of
// the page) and B the lower; source data may present swapped or
// degenerate coordinates, which the Normalizer tolerates up to its
// configured tolerance.
type BoundingBox struct {
	L, T, R, B float64
	Origin     CoordOrigin
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 { return b.R - b.L }

// Height returns the vertical extent of the box in its own coordinate
// system.
func (b BoundingBox) Height() float64 {
	if b.Origin == TopLeft {
		return b.B - b.T
	}
	return b.T - b.B
}

// NormalizedBBox is a rectangle in top-left-origin screen units at a
// specific target scale. It is produced only by a Normalizer and is not
// retained between compositions.
type NormalizedBBox struct {
	X, Y, Width, Height float64
}

// Scale returns a copy of the box with all fields multiplied by factor.
func (n NormalizedBBox) Scale(factor float64) NormalizedBBox {
	return NormalizedBBox{
		X:      n.X * factor,
		Y:      n.Y * factor,
		Width:  n.Width * factor,
		Height: n.Height * factor,
	}
}

// IsValid reports whether the box has positive dimensions.
func (n NormalizedBBox) IsValid() bool {
	return n.Width > 0 && n.Height > 0
}

// ToBottomLeft inverts the normalization transform, mapping the box back
// into bottom-left source units for the given page height and the scale
// it was normalized at.
func (n NormalizedBBox) ToBottomLeft(pageHeight, scale float64) BoundingBox {
	l := n.X / scale
	t := pageHeight - n.Y/scale
	return BoundingBox{
		L:      l,
		T:      t,
		R:      l + n.Width/scale,
		B:      t - n.Height/scale,
		Origin: BottomLeft,
	}
}

// InvalidGeometryError reports a box whose computed width or height is
// negative beyond the normalizer's tolerance. It usually indicates a
// coordinate-system mismatch in the source data.
type InvalidGeometryError struct {
	Box    BoundingBox
	Width  float64
	Height float64
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: box (l=%g t=%g r=%g b=%g %s) normalizes to %gx%g",
		e.Box.L, e.Box.T, e.Box.R, e.Box.B, e.Box.Origin, e.Width, e.Height)
}

// DefaultGeometryTolerance is the default slack allowed for slightly
// negative computed dimensions before normalization fails.
const DefaultGeometryTolerance = 1e-6

// Normalizer converts tagged bounding boxes into top-left screen
// coordinates. The zero value uses a zero tolerance; NewNormalizer
// applies the default.
type Normalizer struct {
	// Tolerance is the magnitude of negative width or height absorbed
	// as floating-point noise and clamped to zero.
	Tolerance float64
}

// NewNormalizer returns a Normalizer with the default tolerance.
func NewNormalizer() Normalizer {
	return Normalizer{Tolerance: DefaultGeometryTolerance}
}

// Normalize transforms box into top-left screen units for a page of the
// given height, applying scale in the same step so no intermediate
// rounding pass occurs. Identical inputs always yield identical outputs.
//
// Degenerate (zero-area) boxes pass through unchanged. A width or height
// more negative than the tolerance returns an *InvalidGeometryError.
func (n Normalizer) Normalize(box BoundingBox, pageHeight, scale float64) (NormalizedBBox, error) {
	var x, y, w, h float64
	if box.Origin == TopLeft {
		x = box.L * scale
		y = box.T * scale
		w = (box.R - box.L) * scale
		h = (box.B - box.T) * scale
	} else {
		x = box.L * scale
		y = (pageHeight - box.T) * scale
		w = (box.R - box.L) * scale
		h = (box.T - box.B) * scale
	}

	if w < -n.Tolerance || h < -n.Tolerance {
		return NormalizedBBox{}, &InvalidGeometryError{Box: box, Width: w, Height: h}
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	return NormalizedBBox{X: x, Y: y, Width: w, Height: h}, nil
}

// Normalize transforms box using the default tolerance. See
// Normalizer.Normalize.
func Normalize(box BoundingBox, pageHeight, scale float64) (NormalizedBBox, error) {
	return NewNormalizer().Normalize(box, pageHeight, scale)
}
