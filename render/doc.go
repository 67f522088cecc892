// Package render converts source pages into raster images under bounded
// parallelism.
//
// A [Rasterizer] fans page renders out across a fixed-size worker pool
// and returns one [Result] per page, in page order, regardless of
// completion order. A failure on one page is captured in that page's
// Result and never cancels or affects the others; no page is retried.
//
// Rasterization itself is delegated to a [Source]. [PopplerSource]
// shells out to the poppler-utils binaries (pdftoppm, pdfinfo), which
// support concurrent independent page access.
package render
