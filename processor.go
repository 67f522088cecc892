package pagelens

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/pagelens/docjson"
	"github.com/tsawler/pagelens/format"
	"github.com/tsawler/pagelens/logging"
	"github.com/tsawler/pagelens/model"
	"github.com/tsawler/pagelens/native"
	"github.com/tsawler/pagelens/overlay"
	"github.com/tsawler/pagelens/render"
	"github.com/tsawler/pagelens/validate"
)

// Analyzer turns a source PDF into an analysis document. It is the
// integration point for document understanding backends; pagelens does
// not perform layout analysis itself.
type Analyzer interface {
	Analyze(ctx context.Context, pdfPath string) (*model.Document, error)
}

// Viewer provides a fluent interface for building visualization
// artifacts. Each configuration method returns a new Viewer instance,
// making it safe for concurrent use and allowing method chaining.
type Viewer struct {
	// Source
	filename string
	doc      *model.Document

	// Collaborators
	analyzer   Analyzer
	source     render.Source
	recognizer validate.TextRecognizer

	// Configuration
	options viewOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Viewer with a deep copy of
// options. This ensures immutability: each chain method returns a new
// instance.
func (v *Viewer) clone() *Viewer {
	return &Viewer{
		filename:   v.filename,
		doc:        v.doc,
		analyzer:   v.analyzer,
		source:     v.source,
		recognizer: v.recognizer,
		options:    v.options.clone(),
		err:        v.err,
	}
}

// ============================================================================
// Configuration Methods (return new Viewer instance)
// ============================================================================

// Scale sets the display scale factor: page coordinates and rendered
// page images are both scaled by it. 1.0 means 72 DPI.
//
// Example:
//
//	art, _, err := pagelens.Open("analysis.json").Scale(2.0).Artifact(ctx)
func (v *Viewer) Scale(scale float64) *Viewer {
	newV := v.clone()
	if scale <= 0 {
		newV.err = fmt.Errorf("scale must be positive, got %g", scale)
		return newV
	}
	newV.options.scale = scale
	return newV
}

// Kinds restricts the overlay to the given item kinds. Multiple calls
// are cumulative. Furniture is still excluded unless IncludeFurniture
// is also set.
//
// Example:
//
//	art, _, err := pagelens.Open("analysis.json").
//	    Kinds(model.KindTable, model.KindPicture).
//	    Artifact(ctx)
func (v *Viewer) Kinds(kinds ...model.Kind) *Viewer {
	newV := v.clone()
	if newV.options.kinds == nil {
		newV.options.kinds = make(map[model.Kind]bool, len(kinds))
	}
	for _, k := range kinds {
		newV.options.kinds[k] = true
	}
	return newV
}

// IncludeFurniture admits page headers and footers into the overlay.
// They are excluded by default.
func (v *Viewer) IncludeFurniture() *Viewer {
	newV := v.clone()
	newV.options.includeFurniture = true
	return newV
}

// Workers sets the page rendering pool size. Zero or negative selects
// the default, 80% of the host's CPUs.
func (v *Viewer) Workers(n int) *Viewer {
	newV := v.clone()
	newV.options.workers = n
	return newV
}

// WithPDF names the source PDF explicitly, overriding companion
// discovery.
func (v *Viewer) WithPDF(path string) *Viewer {
	newV := v.clone()
	newV.options.pdfPath = path
	return newV
}

// WithAnalyzer configures the document understanding backend used when
// the input is a PDF rather than analysis JSON.
func (v *Viewer) WithAnalyzer(a Analyzer) *Viewer {
	newV := v.clone()
	newV.analyzer = a
	return newV
}

// WithSource injects a page rendering source directly, bypassing both
// companion discovery and the poppler backend.
func (v *Viewer) WithSource(src render.Source) *Viewer {
	newV := v.clone()
	newV.source = src
	return newV
}

// WithRecognizer enables the OCR text-presence cross-check: rendered
// pages that visibly contain text but have no analysis items produce a
// warning.
func (v *Viewer) WithRecognizer(rec validate.TextRecognizer) *Viewer {
	newV := v.clone()
	newV.recognizer = rec
	newV.options.ocrCheck = true
	return newV
}

// WithLogger directs progress and warning output to log.
func (v *Viewer) WithLogger(log logging.Logger) *Viewer {
	newV := v.clone()
	if log == nil {
		log = logging.Nop()
	}
	newV.options.logger = log
	return newV
}

// GeometryTolerance sets the slack allowed before a negative box
// dimension is treated as an error rather than rounding noise.
func (v *Viewer) GeometryTolerance(tol float64) *Viewer {
	newV := v.clone()
	newV.options.geometryTolerance = tol
	return newV
}

// DimensionTolerance sets the relative tolerance used when comparing
// declared page dimensions against rendered pixel dimensions.
func (v *Viewer) DimensionTolerance(tol float64) *Viewer {
	newV := v.clone()
	newV.options.dimensionTolerance = tol
	return newV
}

// ============================================================================
// Terminal Operations (execute the pipeline and return results)
// ============================================================================

// Document loads and returns the parsed analysis document without
// rendering anything.
//
// Example:
//
//	doc, err := pagelens.Open("analysis.json").Document(ctx)
func (v *Viewer) Document(ctx context.Context) (*model.Document, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.loadDocument(ctx)
}

// Artifact runs the full pipeline and returns the composed overlay.
//
// Returns the artifact, any warnings encountered during processing, and
// an error if processing failed. Warnings indicate non-fatal issues
// (e.g., a page that failed to render) where the run succeeded but the
// output may be incomplete.
//
// Example:
//
//	art, warnings, err := pagelens.Open("analysis.json").Artifact(ctx)
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pagelens.FormatWarnings(warnings))
//	}
func (v *Viewer) Artifact(ctx context.Context) (*overlay.Artifact, []Warning, error) {
	if v.err != nil {
		return nil, nil, v.err
	}
	return v.run(ctx)
}

// Overlay runs the full pipeline and writes the artifact as
// self-contained HTML to w.
func (v *Viewer) Overlay(ctx context.Context, w io.Writer) ([]Warning, error) {
	art, warnings, err := v.Artifact(ctx)
	if err != nil {
		return warnings, err
	}
	if err := overlay.WriteHTML(w, art); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// WriteOverlayFile runs the full pipeline and writes the artifact as
// self-contained HTML to path.
//
// Example:
//
//	warnings, err := pagelens.Open("analysis.json").
//	    Scale(2.0).
//	    WriteOverlayFile(ctx, "out.html")
func (v *Viewer) WriteOverlayFile(ctx context.Context, path string) ([]Warning, error) {
	art, warnings, err := v.Artifact(ctx)
	if err != nil {
		return warnings, err
	}
	if err := overlay.WriteHTMLFile(path, art); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// Native loads the document and returns its content as Markdown in
// natural reading order, without any geometry or page images.
//
// Example:
//
//	md, _, err := pagelens.Open("analysis.json").Native(ctx)
func (v *Viewer) Native(ctx context.Context) (string, []Warning, error) {
	if v.err != nil {
		return "", nil, v.err
	}
	doc, err := v.loadDocument(ctx)
	if err != nil {
		return "", nil, err
	}
	return native.ToMarkdown(doc), nil, nil
}

// NativeHTML loads the document and returns its content as an HTML
// fragment in natural reading order.
func (v *Viewer) NativeHTML(ctx context.Context) (string, []Warning, error) {
	if v.err != nil {
		return "", nil, v.err
	}
	doc, err := v.loadDocument(ctx)
	if err != nil {
		return "", nil, err
	}
	out, err := native.ToHTML(doc)
	if err != nil {
		return "", nil, err
	}
	return out, nil, nil
}

// ============================================================================
// Internal pipeline
// ============================================================================

func (v *Viewer) run(ctx context.Context) (*overlay.Artifact, []Warning, error) {
	log := v.options.logger

	doc, err := v.loadDocument(ctx)
	if err != nil {
		return nil, nil, err
	}
	log.Debugf("loaded %q: %d pages, %d items", doc.Name, doc.PageCount(), len(doc.Items))
	counts := doc.CountByKind()
	for _, k := range model.Kinds {
		if counts[k] > 0 {
			log.Debugf("  %s: %d", k, counts[k])
		}
	}

	src, warnings := v.openSource()

	var rasters []render.Result
	if src != nil {
		srcPages, err := src.PageCount(ctx)
		if err != nil {
			warnings = append(warnings, Warning{
				Code:    validate.CodePageRender,
				Message: fmt.Sprintf("cannot count pages in %s: %v", src.Identity(), err),
			})
			src = nil
		} else {
			// Render only pages both sides agree on; the count check
			// below reports any mismatch.
			renderPages := srcPages
			if doc.PageCount() < renderPages {
				renderPages = doc.PageCount()
			}

			r := render.NewRasterizer(render.Config{
				Workers: v.options.workers,
				Logger:  log,
			})
			log.Debugf("rendering %d pages with %d workers", renderPages, r.Workers())
			rasters = r.RasterizeAll(ctx, src, renderPages, v.options.scale)

			for _, res := range rasters {
				if res.Err != nil {
					warnings = append(warnings, Warning{
						Code:    validate.CodePageRender,
						PageNo:  res.PageNo,
						Message: res.Err.Error(),
					})
				}
			}

			warnings = append(warnings, validate.Compare(doc, rasters, srcPages, src.Identity(), v.options.scale, validate.Options{
				DimensionTolerance: v.options.dimensionTolerance,
			})...)
		}
	}
	if src == nil {
		log.Debugf("no source PDF: composing without page backgrounds")
	}

	if v.options.ocrCheck && v.recognizer != nil {
		warnings = append(warnings, validate.TextPresence(doc, rasters, v.recognizer)...)
	}

	for _, w := range warnings {
		log.Warnf("%s", w)
	}

	art, err := overlay.Compose(doc, rasters, overlay.Options{
		Kinds:            v.options.kinds,
		IncludeFurniture: v.options.includeFurniture,
		Scale:            v.options.scale,
		Normalizer:       model.Normalizer{Tolerance: v.options.geometryTolerance},
	})
	if err != nil {
		return nil, warnings, err
	}

	log.Infof("composed %d pages, %d items", len(art.Pages), art.Stats.Items)
	return art, warnings, nil
}

// loadDocument resolves the analysis document from whichever source the
// Viewer was built with.
func (v *Viewer) loadDocument(ctx context.Context) (*model.Document, error) {
	if v.doc != nil {
		return v.doc, nil
	}
	if v.filename == "" {
		return nil, fmt.Errorf("no input specified")
	}

	data, err := os.ReadFile(v.filename)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	switch format.DetectFromMagic(data) {
	case format.JSON:
		base := filepath.Base(v.filename)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		return docjson.Parse(data, name)

	case format.PDF:
		if v.analyzer == nil {
			return nil, fmt.Errorf("%s is a PDF: configure an analysis backend with WithAnalyzer", v.filename)
		}
		doc, err := v.analyzer.Analyze(ctx, v.filename)
		if err != nil {
			return nil, fmt.Errorf("analyze %s: %w", v.filename, err)
		}
		return doc, nil

	default:
		return nil, fmt.Errorf("unsupported input format: %s", v.filename)
	}
}

// openSource resolves the page rendering source. A missing or unusable
// PDF is a warning, not an error: the overlay is still produced, just
// without page backgrounds.
func (v *Viewer) openSource() (render.Source, []Warning) {
	if v.source != nil {
		return v.source, nil
	}

	pdf := v.options.pdfPath
	if pdf == "" && v.filename != "" {
		switch format.Detect(v.filename) {
		case format.PDF:
			pdf = v.filename
		case format.JSON:
			pdf = CompanionPDF(v.filename)
		}
	}
	if pdf == "" {
		return nil, nil
	}

	src, err := render.NewPopplerSource(pdf)
	if err != nil {
		return nil, []Warning{{
			Code:    validate.CodePageRender,
			Message: fmt.Sprintf("cannot render %s: %v", pdf, err),
		}}
	}
	v.options.logger.Debugf("rendering from %s", pdf)
	return src, nil
}
