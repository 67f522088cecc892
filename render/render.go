package render

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/tsawler/pagelens/logging"
)

// RasterPage is one rendered page. Instances are produced by a single
// worker and are read-only once returned.
type RasterPage struct {
	PageNo   int // 1-indexed
	PNG      []byte
	WidthPx  int
	HeightPx int
	Scale    float64 // the scale the page was rendered at
}

// PageRenderError reports a failed render of a single page. It is
// recovered locally: the page's overlay is composed without a
// background and the run continues.
type PageRenderError struct {
	PageNo int
	Err    error
}

func (e *PageRenderError) Error() string {
	return fmt.Sprintf("render page %d: %v", e.PageNo, e.Err)
}

func (e *PageRenderError) Unwrap() error { return e.Err }

// Result is the outcome for one page: exactly one of Page or Err is
// set.
type Result struct {
	PageNo int
	Page   *RasterPage
	Err    error
}

// Source provides independent access to the pages of a rasterizable
// input. Implementations must support concurrent Render calls for
// distinct pages.
type Source interface {
	// PageCount returns the number of pages in the source.
	PageCount(ctx context.Context) (int, error)
	// Identity names the originating file, for cross-checking against
	// the analysis document's declared origin. Empty when unknown.
	Identity() string
	// Render rasterizes one 1-indexed page at the given scale
	// (1.0 = 72 DPI).
	Render(ctx context.Context, pageNo int, scale float64) (*RasterPage, error)
}

// DefaultWorkers returns the default pool size: 80% of the host's
// available parallelism, leaving headroom for the orchestrating
// process, and never less than one.
func DefaultWorkers() int {
	n := int(float64(runtime.NumCPU()) * 0.8)
	if n < 1 {
		n = 1
	}
	return n
}

// Config configures a Rasterizer. Pool size is an explicit value so
// tests can inject a fixed one; it is never read from the environment.
type Config struct {
	// Workers bounds the number of pages rendered concurrently.
	// Zero or negative means DefaultWorkers().
	Workers int
	// Logger receives per-page progress. Nil means no logging.
	Logger logging.Logger
}

// Rasterizer renders pages through a bounded worker pool. The pool size
// is fixed at construction and not resized mid-run.
type Rasterizer struct {
	workers int
	log     logging.Logger
}

// NewRasterizer builds a Rasterizer from cfg.
func NewRasterizer(cfg Config) *Rasterizer {
	workers := cfg.Workers
	if workers < 1 {
		workers = DefaultWorkers()
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Rasterizer{workers: workers, log: log}
}

// Workers returns the fixed pool size.
func (r *Rasterizer) Workers() int { return r.workers }

// RasterizeAll renders pages 1..pageCount of src at the given scale and
// returns one Result per page, indexed by page order. The call blocks
// until every dispatched page has completed or failed. Each worker
// writes only its own page's slot, so no shared accumulator exists.
//
// Context cancellation marks not-yet-started pages as failed but still
// waits for in-flight renders to finish.
func (r *Rasterizer) RasterizeAll(ctx context.Context, src Source, pageCount int, scale float64) []Result {
	results := make([]Result, pageCount)
	if pageCount == 0 {
		return results
	}

	r.log.Debugf("rendering %d pages at %gx scale using %d workers", pageCount, scale, r.workers)

	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup
	for i := 0; i < pageCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			pageNo := idx + 1

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[idx] = Result{PageNo: pageNo, Err: &PageRenderError{PageNo: pageNo, Err: ctx.Err()}}
				return
			}
			defer func() { <-sem }()

			page, err := src.Render(ctx, pageNo, scale)
			if err != nil {
				r.log.Warnf("page %d failed: %v", pageNo, err)
				results[idx] = Result{PageNo: pageNo, Err: &PageRenderError{PageNo: pageNo, Err: err}}
				return
			}
			r.log.Debugf("page %d: %dx%dpx", pageNo, page.WidthPx, page.HeightPx)
			results[idx] = Result{PageNo: pageNo, Page: page}
		}(i)
	}
	wg.Wait()

	return results
}
