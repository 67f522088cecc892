// Package validate cross-checks the raster source against the parsed
// analysis document. Every check is independent and non-fatal: failures
// accumulate as Warnings for the caller to display, and the pipeline
// never aborts on them.
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/tsawler/pagelens/model"
	"github.com/tsawler/pagelens/render"
)

// Warning codes.
const (
	CodePageCount  = "page-count"
	CodePageSize   = "page-size"
	CodeOrigin     = "origin"
	CodePageRender = "page-render"
	CodeOCRText    = "ocr-text"
)

// Warning is one non-fatal validation finding. PageNo is 0 for
// document-level findings.
type Warning struct {
	Code    string
	PageNo  int
	Message string
}

func (w Warning) String() string {
	if w.PageNo > 0 {
		return fmt.Sprintf("[%s] page %d: %s", w.Code, w.PageNo, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// Format joins warnings into a readable multi-line block.
func Format(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// DefaultDimensionTolerance is the default relative tolerance for the
// page-dimension check, absorbing rasterization rounding at any scale.
const DefaultDimensionTolerance = 0.02

// Options configures the comparison. Tolerances are policy values and
// are passed in rather than hard-coded.
type Options struct {
	// DimensionTolerance is the maximum relative deviation between a
	// raster page's scaled-back pixel size and the document's declared
	// page size. Zero means DefaultDimensionTolerance.
	DimensionTolerance float64
}

// Compare cross-checks the rendered pages against the parsed document:
// page count, per-page dimensions, and originating-file identity. Each
// failed check yields one Warning; none of them aborts the run.
//
// sourcePages is the page count the raster source reports for itself,
// which may differ from how many pages were actually rendered. identity
// is the raster source's declared origin, compared against the
// document's only when both are non-empty. scale is the render scale
// the rasters were produced at; declared page sizes are compared after
// dividing pixel dimensions by it.
func Compare(doc *model.Document, rasters []render.Result, sourcePages int, identity string, scale float64, opts Options) []Warning {
	tol := opts.DimensionTolerance
	if tol <= 0 {
		tol = DefaultDimensionTolerance
	}

	var warnings []Warning

	if sourcePages != doc.PageCount() {
		warnings = append(warnings, Warning{
			Code: CodePageCount,
			Message: fmt.Sprintf("document declares %d pages but raster source has %d; boxes may appear on wrong pages",
				doc.PageCount(), sourcePages),
		})
	}

	for _, res := range rasters {
		if res.Page == nil {
			continue
		}
		page := doc.Page(res.PageNo)
		if page == nil {
			continue
		}
		gotW := float64(res.Page.WidthPx) / scale
		gotH := float64(res.Page.HeightPx) / scale
		if !withinRelative(gotW, page.Width, tol) || !withinRelative(gotH, page.Height, tol) {
			warnings = append(warnings, Warning{
				Code:   CodePageSize,
				PageNo: res.PageNo,
				Message: fmt.Sprintf("declared %.0fx%.0f but raster measures %.0fx%.0f at scale %g",
					page.Width, page.Height, gotW, gotH, scale),
			})
		}
	}

	if identity != "" && doc.Origin != "" && identity != doc.Origin {
		warnings = append(warnings, Warning{
			Code: CodeOrigin,
			Message: fmt.Sprintf("raster source is %q but document was produced from %q; content may not match",
				identity, doc.Origin),
		})
	}

	return warnings
}

func withinRelative(got, want, tol float64) bool {
	if want == 0 {
		return got == 0
	}
	return math.Abs(got-want)/math.Abs(want) <= tol
}

// TextRecognizer extracts text from an encoded image. Satisfied by
// ocr.Client when the ocr build tag is enabled.
type TextRecognizer interface {
	RecognizeImage(imageData []byte) (string, error)
}

// TextPresence warns for every page whose raster contains recognizable
// text while the document lists no items for it, a sign the analysis
// missed content. Recognition errors are skipped silently; this check
// is best-effort.
func TextPresence(doc *model.Document, rasters []render.Result, rec TextRecognizer) []Warning {
	var warnings []Warning
	for _, res := range rasters {
		if res.Page == nil {
			continue
		}
		if len(doc.ItemsOnPage(res.PageNo, nil, true)) > 0 {
			continue
		}
		text, err := rec.RecognizeImage(res.Page.PNG)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			warnings = append(warnings, Warning{
				Code:    CodeOCRText,
				PageNo:  res.PageNo,
				Message: "rendered page contains text but the analysis lists no items for it",
			})
		}
	}
	return warnings
}
