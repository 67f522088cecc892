package pagelens

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/pagelens/model"
	"github.com/tsawler/pagelens/render"
	"github.com/tsawler/pagelens/validate"
)

const analysisJSON = `{
	"name": "report",
	"origin": {"filename": "report.pdf"},
	"pages": [
		{"width": 612, "height": 792},
		{"width": 612, "height": 792}
	],
	"items": [
		{"kind": "heading", "page": 1, "label": "section_header", "text": "Results",
		 "box": {"l": 72, "t": 720, "r": 540, "b": 700}},
		{"kind": "text", "page": 1, "text": "Body paragraph.",
		 "box": {"l": 72, "t": 690, "r": 540, "b": 600}},
		{"kind": "table", "page": 2,
		 "box": {"l": 72, "t": 580, "r": 540, "b": 400},
		 "cells": [
			{"box": {"l": 72, "t": 580, "r": 300, "b": 560}, "row": 0, "col": 0, "is_header": true, "text": "Name"}
		 ]}
	]
}`

// fakeSource implements render.Source with solid-color pages.
type fakeSource struct {
	pages    int
	identity string
	fail     map[int]bool
}

func (f *fakeSource) PageCount(ctx context.Context) (int, error) { return f.pages, nil }

func (f *fakeSource) Identity() string { return f.identity }

func (f *fakeSource) Render(ctx context.Context, pageNo int, scale float64) (*render.RasterPage, error) {
	if f.fail[pageNo] {
		return nil, errors.New("boom")
	}
	w, h := int(612*scale), int(792*scale)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return &render.RasterPage{PageNo: pageNo, PNG: buf.Bytes(), WidthPx: w, HeightPx: h, Scale: scale}, nil
}

func writeAnalysis(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "report.json")
	if err := os.WriteFile(path, []byte(analysisJSON), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestArtifactEndToEnd(t *testing.T) {
	path := writeAnalysis(t, t.TempDir())

	src := &fakeSource{pages: 2, identity: "report.pdf"}
	art, warnings, err := Open(path).WithSource(src).Artifact(context.Background())
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	if art.Name != "report" {
		t.Errorf("Name = %q, want report", art.Name)
	}
	if len(art.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(art.Pages))
	}
	if art.Pages[0].Image == nil || art.Pages[1].Image == nil {
		t.Error("expected background images on both pages")
	}
	if art.Stats.Items != 3 {
		t.Errorf("Stats.Items = %d, want 3", art.Stats.Items)
	}
}

func TestArtifactRenderFailureIsWarning(t *testing.T) {
	path := writeAnalysis(t, t.TempDir())

	src := &fakeSource{pages: 2, identity: "report.pdf", fail: map[int]bool{2: true}}
	art, warnings, err := Open(path).WithSource(src).Artifact(context.Background())
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}

	found := false
	for _, w := range warnings {
		if w.Code == validate.CodePageRender && w.PageNo == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want a page-render warning for page 2", warnings)
	}

	if art.Pages[0].Image == nil {
		t.Error("page 1 should still have a background")
	}
	if art.Pages[1].Image != nil {
		t.Error("failed page 2 should be backgroundless")
	}
	// The table layer survives on the backgroundless page.
	if len(art.Pages[1].Layers) != 1 || art.Pages[1].Layers[0].Kind != model.KindTable {
		t.Errorf("page 2 layers = %+v, want one table layer", art.Pages[1].Layers)
	}
}

func TestArtifactPageCountMismatchWarning(t *testing.T) {
	tests := []struct {
		name        string
		sourcePages int
	}{
		{"source shorter than document", 1},
		{"source longer than document", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeAnalysis(t, t.TempDir())

			src := &fakeSource{pages: tt.sourcePages, identity: "report.pdf"}
			art, warnings, err := Open(path).WithSource(src).Artifact(context.Background())
			if err != nil {
				t.Fatalf("Artifact: %v", err)
			}

			count := 0
			for _, w := range warnings {
				if w.Code == validate.CodePageCount {
					count++
				}
			}
			if count != 1 {
				t.Errorf("warnings = %v, want exactly one page-count warning", warnings)
			}

			// The overlay still covers every declared page.
			if len(art.Pages) != 2 {
				t.Errorf("pages = %d, want the document's 2", len(art.Pages))
			}
		})
	}
}

func TestArtifactRendersOnlySourcePages(t *testing.T) {
	// A one-page source against a two-page document: page 2 has no
	// raster to fail on, so the only warning is the count mismatch.
	path := writeAnalysis(t, t.TempDir())

	src := &fakeSource{pages: 1, identity: "report.pdf"}
	art, warnings, err := Open(path).WithSource(src).Artifact(context.Background())
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}
	for _, w := range warnings {
		if w.Code == validate.CodePageRender {
			t.Errorf("unexpected page-render warning: %v", w)
		}
	}
	if art.Pages[0].Image == nil {
		t.Error("page 1 should have a background")
	}
	if art.Pages[1].Image != nil {
		t.Error("page 2 is beyond the source and should be backgroundless")
	}
}

func TestArtifactNoPDFIsBackgroundless(t *testing.T) {
	path := writeAnalysis(t, t.TempDir())

	art, warnings, err := Open(path).Artifact(context.Background())
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none without a source PDF", warnings)
	}
	for _, pg := range art.Pages {
		if pg.Image != nil {
			t.Errorf("page %d unexpectedly has an image", pg.PageNo)
		}
		if pg.Width != 612 || pg.Height != 792 {
			t.Errorf("page %d dims = %gx%g, want declared 612x792", pg.PageNo, pg.Width, pg.Height)
		}
	}
}

func TestArtifactOriginMismatchWarning(t *testing.T) {
	path := writeAnalysis(t, t.TempDir())

	src := &fakeSource{pages: 2, identity: "different.pdf"}
	_, warnings, err := Open(path).WithSource(src).Artifact(context.Background())
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}
	found := false
	for _, w := range warnings {
		if w.Code == validate.CodeOrigin {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want an origin mismatch warning", warnings)
	}
}

func TestKindsFilterFlowsThrough(t *testing.T) {
	path := writeAnalysis(t, t.TempDir())

	art, _, err := Open(path).Kinds(model.KindTable).Artifact(context.Background())
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}
	if art.Stats.Items != 1 || art.Stats.ByKind[model.KindTable] != 1 {
		t.Errorf("Stats = %+v, want only the table", art.Stats)
	}
}

func TestScaleValidation(t *testing.T) {
	path := writeAnalysis(t, t.TempDir())

	_, _, err := Open(path).Scale(-1).Artifact(context.Background())
	if err == nil || !strings.Contains(err.Error(), "scale") {
		t.Errorf("err = %v, want scale validation error", err)
	}
}

func TestChainingDoesNotMutateParent(t *testing.T) {
	base := Open("analysis.json").Kinds(model.KindText)
	derived := base.Kinds(model.KindTable).Scale(2.0).IncludeFurniture()

	if base.options.kinds[model.KindTable] {
		t.Error("parent viewer gained table kind from derived chain")
	}
	if base.options.scale != 1.0 {
		t.Errorf("parent scale = %g, want 1.0", base.options.scale)
	}
	if base.options.includeFurniture {
		t.Error("parent gained includeFurniture")
	}
	if !derived.options.kinds[model.KindText] || !derived.options.kinds[model.KindTable] {
		t.Error("derived viewer should accumulate both kinds")
	}
}

func TestFromDocument(t *testing.T) {
	doc := &model.Document{
		Name:  "inmem",
		Pages: []model.Page{{Number: 1, Width: 100, Height: 100}},
		Items: []model.Item{{
			Kind: model.KindText, PageNo: 1,
			Box: model.BoundingBox{L: 10, T: 90, R: 90, B: 10},
		}},
	}
	art, _, err := FromDocument(doc).Artifact(context.Background())
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}
	if art.Name != "inmem" || art.Stats.Items != 1 {
		t.Errorf("artifact = %+v, want inmem with one item", art.Stats)
	}
}

type fakeAnalyzer struct{ doc *model.Document }

func (a *fakeAnalyzer) Analyze(ctx context.Context, pdfPath string) (*model.Document, error) {
	if a.doc == nil {
		return nil, fmt.Errorf("no analysis for %s", pdfPath)
	}
	return a.doc, nil
}

func TestPDFInputRequiresAnalyzer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.7\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := Open(path).Document(context.Background())
	if err == nil || !strings.Contains(err.Error(), "WithAnalyzer") {
		t.Errorf("err = %v, want analyzer guidance", err)
	}

	doc := &model.Document{Name: "scan", Pages: []model.Page{{Number: 1, Width: 10, Height: 10}}}
	got, err := Open(path).WithAnalyzer(&fakeAnalyzer{doc: doc}).Document(context.Background())
	if err != nil {
		t.Fatalf("Document with analyzer: %v", err)
	}
	if got.Name != "scan" {
		t.Errorf("Name = %q, want scan", got.Name)
	}
}

func TestNative(t *testing.T) {
	path := writeAnalysis(t, t.TempDir())

	md, _, err := Open(path).Native(context.Background())
	if err != nil {
		t.Fatalf("Native: %v", err)
	}
	for _, want := range []string{"## Results", "Body paragraph.", "| Name |"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestWriteOverlayFile(t *testing.T) {
	dir := t.TempDir()
	path := writeAnalysis(t, dir)
	out := filepath.Join(dir, "report.html")

	src := &fakeSource{pages: 2, identity: "report.pdf"}
	warnings, err := Open(path).WithSource(src).WriteOverlayFile(context.Background(), out)
	if err != nil {
		t.Fatalf("WriteOverlayFile: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Contains(data, []byte("data:image/png;base64,")) {
		t.Error("output missing embedded page image")
	}
}

// captureLogger records formatted debug lines.
type captureLogger struct{ debug []string }

func (l *captureLogger) Debugf(format string, args ...any) {
	l.debug = append(l.debug, fmt.Sprintf(format, args...))
}
func (l *captureLogger) Infof(format string, args ...any) {}
func (l *captureLogger) Warnf(format string, args ...any) {}

func TestRunLogsKindBreakdown(t *testing.T) {
	path := writeAnalysis(t, t.TempDir())

	log := &captureLogger{}
	if _, _, err := Open(path).WithLogger(log).Artifact(context.Background()); err != nil {
		t.Fatalf("Artifact: %v", err)
	}

	joined := strings.Join(log.debug, "\n")
	for _, want := range []string{"heading: 1", "text: 1", "table: 1"} {
		if !strings.Contains(joined, want) {
			t.Errorf("debug output missing %q:\n%s", want, joined)
		}
	}
}

type fakeRecognizer struct{ text string }

func (r *fakeRecognizer) RecognizeImage(data []byte) (string, error) { return r.text, nil }

func TestOCRCrossCheck(t *testing.T) {
	// An analysis with an empty page triggers the cross-check.
	dir := t.TempDir()
	path := filepath.Join(dir, "sparse.json")
	sparse := `{
		"pages": [{"width": 612, "height": 792}],
		"items": []
	}`
	if err := os.WriteFile(path, []byte(sparse), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	src := &fakeSource{pages: 1, identity: "sparse.pdf"}
	_, warnings, err := Open(path).
		WithSource(src).
		WithRecognizer(&fakeRecognizer{text: "hidden text"}).
		Artifact(context.Background())
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}

	found := false
	for _, w := range warnings {
		if w.Code == validate.CodeOCRText {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want an OCR text-presence warning", warnings)
	}
}
