package annotate

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/tsawler/pagelens/model"
	"github.com/tsawler/pagelens/overlay"
)

func solidPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return cfg.Width, cfg.Height
}

func testPage(t *testing.T, withImage bool) overlay.Page {
	pg := overlay.Page{
		PageNo: 1,
		Width:  200,
		Height: 300,
		Layers: []overlay.Layer{{
			Kind:  model.KindTable,
			Color: overlay.Colors[model.KindTable],
			Shapes: []overlay.Shape{{
				Seq:   1,
				Kind:  model.KindTable,
				Color: overlay.Colors[model.KindTable],
				Box:   model.NormalizedBBox{X: 20, Y: 30, Width: 120, Height: 80},
				Cells: []overlay.CellShape{{
					Box: model.NormalizedBBox{X: 20, Y: 30, Width: 60, Height: 20},
				}},
			}},
		}},
	}
	if withImage {
		pg.Image = solidPNG(t, 200, 300)
	}
	return pg
}

func TestPagePreservesImageDims(t *testing.T) {
	out, err := Page(testPage(t, true), Options{})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	w, h := decodeDims(t, out)
	if w != 200 || h != 300 {
		t.Errorf("output dims = %dx%d, want 200x300", w, h)
	}
}

func TestPageWhiteCanvasFallback(t *testing.T) {
	out, err := Page(testPage(t, false), Options{DrawLabels: true})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	w, h := decodeDims(t, out)
	if w != 200 || h != 300 {
		t.Errorf("output dims = %dx%d, want 200x300", w, h)
	}
}

func TestPageDownscale(t *testing.T) {
	pg := testPage(t, true)
	out, err := Page(pg, Options{MaxWidth: 100})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	w, h := decodeDims(t, out)
	if w != 100 || h != 150 {
		t.Errorf("downscaled dims = %dx%d, want 100x150", w, h)
	}
}

func TestPageSkipsDegenerateShapes(t *testing.T) {
	blank := overlay.Page{PageNo: 1, Width: 200, Height: 300}
	degenerate := overlay.Page{
		PageNo: 1,
		Width:  200,
		Height: 300,
		Layers: []overlay.Layer{{
			Kind:  model.KindText,
			Color: overlay.Colors[model.KindText],
			Shapes: []overlay.Shape{{
				Seq:   1,
				Kind:  model.KindText,
				Color: overlay.Colors[model.KindText],
				Box:   model.NormalizedBBox{X: 20, Y: 30, Width: 0, Height: 80},
			}},
		}},
	}

	want, err := Page(blank, Options{DrawLabels: true})
	if err != nil {
		t.Fatalf("Page blank: %v", err)
	}
	got, err := Page(degenerate, Options{DrawLabels: true})
	if err != nil {
		t.Fatalf("Page degenerate: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Error("zero-width shape left marks on the canvas")
	}
}

func TestPageNoImageNoDims(t *testing.T) {
	pg := overlay.Page{PageNo: 3}
	if _, err := Page(pg, Options{}); err == nil {
		t.Error("expected error for page with neither image nor dimensions")
	}
}

func TestArtifactOrder(t *testing.T) {
	art := &overlay.Artifact{
		Pages: []overlay.Page{
			{PageNo: 1, Width: 100, Height: 100},
			{PageNo: 2, Width: 100, Height: 100},
		},
	}
	out, err := Artifact(art, Options{})
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("pages = %d, want 2", len(out))
	}
}
