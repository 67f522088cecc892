package overlay

import (
	"fmt"

	"github.com/tsawler/pagelens/model"
	"github.com/tsawler/pagelens/render"
)

// Colors maps each item kind to its display hex color. Table cells use
// CellColor, distinct from the table outline.
var Colors = map[model.Kind]string{
	model.KindText:      "#28a745",
	model.KindHeading:   "#fd7e14",
	model.KindTable:     "#007bff",
	model.KindPicture:   "#dc3545",
	model.KindList:      "#6f42c1",
	model.KindFurniture: "#6c757d",
}

// CellColor is the display color for individual table cells.
const CellColor = "#17a2b8"

const (
	maxShapeText = 200
	maxCellText  = 100
)

// ItemGeometryError wraps a geometry failure with the page and item it
// occurred on.
type ItemGeometryError struct {
	PageNo int
	Seq    int
	Err    error
}

func (e *ItemGeometryError) Error() string {
	return fmt.Sprintf("page %d item %d: %v", e.PageNo, e.Seq, e.Err)
}

func (e *ItemGeometryError) Unwrap() error { return e.Err }

// CellShape is one table cell positioned in screen coordinates.
type CellShape struct {
	Box    model.NormalizedBBox
	Row    int
	Col    int
	Header bool
	Text   string
}

// Shape is one document item positioned in screen coordinates.
type Shape struct {
	Seq   int
	Kind  model.Kind
	Color string
	Label string
	Text  string
	Box   model.NormalizedBBox
	Cells []CellShape
}

// Layer groups the shapes of one kind on one page.
type Layer struct {
	Kind   model.Kind
	Color  string
	Shapes []Shape
}

// Page is one composed page: a background image (when rendering
// succeeded) plus per-kind layers.
type Page struct {
	PageNo int
	Width  float64
	Height float64
	Image  []byte // PNG; nil when no raster is available
	Layers []Layer
}

// Stats summarizes what the artifact contains.
type Stats struct {
	Pages  int
	Items  int
	ByKind map[model.Kind]int
}

// Artifact is the composed visualization, ready to be written as HTML.
type Artifact struct {
	Name  string
	Scale float64
	Pages []Page
	Stats Stats
}

// Options controls composition.
type Options struct {
	// Kinds selects which item kinds to include. Nil means all kinds.
	Kinds map[model.Kind]bool

	// IncludeFurniture admits furniture items. They are excluded by
	// default regardless of Kinds.
	IncludeFurniture bool

	// Scale is the display scale factor applied to page coordinates.
	// Zero means 1.0.
	Scale float64

	// Normalizer converts item boxes to screen coordinates.
	Normalizer model.Normalizer
}

// Compose builds the overlay artifact for doc. rasters carries the
// rendering results indexed in page order; failed or absent entries
// yield pages with a blank background. The single error case is an item
// box that cannot be normalized, reported as *ItemGeometryError.
func Compose(doc *model.Document, rasters []render.Result, opts Options) (*Artifact, error) {
	scale := opts.Scale
	if scale == 0 {
		scale = 1.0
	}

	byPage := make(map[int]*render.RasterPage, len(rasters))
	for _, r := range rasters {
		if r.Err == nil && r.Page != nil {
			byPage[r.PageNo] = r.Page
		}
	}

	art := &Artifact{
		Name:  doc.Name,
		Scale: scale,
		Stats: Stats{
			Pages:  doc.PageCount(),
			ByKind: make(map[model.Kind]int),
		},
	}

	for _, pg := range doc.Pages {
		page := Page{
			PageNo: pg.Number,
			Width:  pg.Width * scale,
			Height: pg.Height * scale,
		}
		if raster, ok := byPage[pg.Number]; ok {
			page.Image = raster.PNG
			page.Width = float64(raster.WidthPx)
			page.Height = float64(raster.HeightPx)
		}

		items := doc.ItemsOnPage(pg.Number, opts.Kinds, opts.IncludeFurniture)
		layers := make(map[model.Kind]*Layer)
		seq := 0
		for _, item := range items {
			seq++
			shape, err := composeShape(opts.Normalizer, item, pg, scale, seq)
			if err != nil {
				return nil, &ItemGeometryError{PageNo: pg.Number, Seq: seq, Err: err}
			}

			layer, ok := layers[item.Kind]
			if !ok {
				layer = &Layer{Kind: item.Kind, Color: Colors[item.Kind]}
				layers[item.Kind] = layer
			}
			layer.Shapes = append(layer.Shapes, shape)

			art.Stats.Items++
			art.Stats.ByKind[item.Kind]++
		}

		// Layers appear in the fixed display order so the output is
		// deterministic.
		for _, k := range model.Kinds {
			if layer, ok := layers[k]; ok {
				page.Layers = append(page.Layers, *layer)
			}
		}
		art.Pages = append(art.Pages, page)
	}

	return art, nil
}

func composeShape(n model.Normalizer, item model.Item, pg model.Page, scale float64, seq int) (Shape, error) {
	box, err := n.Normalize(item.Box, pg.Height, scale)
	if err != nil {
		return Shape{}, err
	}

	shape := Shape{
		Seq:   seq,
		Kind:  item.Kind,
		Color: Colors[item.Kind],
		Label: item.Label,
		Text:  truncate(item.Text, maxShapeText),
		Box:   box,
	}

	for _, cell := range item.Cells {
		cellBox, err := n.Normalize(cell.Box, pg.Height, scale)
		if err != nil {
			return Shape{}, fmt.Errorf("cell [%d,%d]: %w", cell.Row, cell.Col, err)
		}
		shape.Cells = append(shape.Cells, CellShape{
			Box:    cellBox,
			Row:    cell.Row,
			Col:    cell.Col,
			Header: cell.Header,
			Text:   truncate(cell.Text, maxCellText),
		})
	}

	return shape, nil
}

// truncate shortens s to at most n runes, appending an ellipsis when it
// was cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
