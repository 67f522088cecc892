// Package overlay composes analysis items and rendered page images into
// a layered visualization artifact, and writes it out as a single
// self-contained HTML file.
//
// Composition walks the document page by page, normalizes each item's
// bounding box into top-left screen coordinates, and groups the
// resulting shapes into per-kind layers so a viewer can toggle them
// independently. Pages whose raster is missing get a blank background
// sized from the declared page dimensions, so a render failure never
// blocks the overlay.
package overlay
