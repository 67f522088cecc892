// Package annotate burns overlay shapes directly into page images,
// producing standalone annotated PNGs for contexts where a browser is
// not available.
package annotate

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/tsawler/pagelens/overlay"
)

// Options controls how shapes are drawn.
type Options struct {
	// LineWidth is the stroke width in pixels. Zero means 2.
	LineWidth float64

	// DrawLabels draws each shape's sequence number and kind next to
	// its box.
	DrawLabels bool

	// MaxWidth, when positive, downscales output images wider than
	// this many pixels, preserving the aspect ratio.
	MaxWidth int
}

// Page renders one annotated page image. When the page carries no
// background raster a white canvas of the page dimensions is used.
func Page(pg overlay.Page, opts Options) ([]byte, error) {
	lineWidth := opts.LineWidth
	if lineWidth == 0 {
		lineWidth = 2
	}

	var dc *gg.Context
	if pg.Image != nil {
		bg, err := png.Decode(bytes.NewReader(pg.Image))
		if err != nil {
			return nil, fmt.Errorf("decode page %d image: %w", pg.PageNo, err)
		}
		dc = gg.NewContextForImage(bg)
	} else {
		w, h := int(pg.Width), int(pg.Height)
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("page %d has no image and no dimensions", pg.PageNo)
		}
		dc = gg.NewContext(w, h)
		dc.SetRGB(1, 1, 1)
		dc.Clear()
	}

	for _, layer := range pg.Layers {
		for _, shape := range layer.Shapes {
			// Degenerate boxes survive normalization; there is nothing
			// to stroke for them.
			if !shape.Box.IsValid() {
				continue
			}
			dc.SetHexColor(shape.Color)
			dc.SetLineWidth(lineWidth)
			dc.DrawRectangle(shape.Box.X, shape.Box.Y, shape.Box.Width, shape.Box.Height)
			dc.Stroke()

			for _, cell := range shape.Cells {
				if !cell.Box.IsValid() {
					continue
				}
				dc.SetHexColor(overlay.CellColor)
				dc.SetLineWidth(lineWidth / 2)
				dc.DrawRectangle(cell.Box.X, cell.Box.Y, cell.Box.Width, cell.Box.Height)
				dc.Stroke()
			}

			if opts.DrawLabels {
				dc.SetHexColor(shape.Color)
				label := fmt.Sprintf("%d %s", shape.Seq, shape.Kind)
				dc.DrawString(label, shape.Box.X+2, shape.Box.Y-3)
			}
		}
	}

	out := dc.Image()
	if opts.MaxWidth > 0 && out.Bounds().Dx() > opts.MaxWidth {
		out = downscale(out, opts.MaxWidth)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode page %d: %w", pg.PageNo, err)
	}
	return buf.Bytes(), nil
}

// Artifact renders every page of the artifact, returned in page order.
func Artifact(art *overlay.Artifact, opts Options) ([][]byte, error) {
	out := make([][]byte, 0, len(art.Pages))
	for _, pg := range art.Pages {
		data, err := Page(pg, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

func downscale(src image.Image, maxWidth int) image.Image {
	b := src.Bounds()
	ratio := float64(maxWidth) / float64(b.Dx())
	h := int(float64(b.Dy()) * ratio)
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
