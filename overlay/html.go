package overlay

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"github.com/tsawler/pagelens/model"
)

type kindToggle struct {
	Kind  model.Kind
	Color string
}

type htmlPage struct {
	PageNo  int
	Width   float64
	Height  float64
	DataURI template.URL
	Layers  []Layer
}

type htmlData struct {
	Title     string
	Styles    template.CSS
	Kinds     []kindToggle
	CellColor string
	Pages     []htmlPage
	Summary   string
	DocJSON   template.JS
}

// WriteHTML renders the artifact as a single self-contained HTML page.
// Page images are embedded as base64 data URIs, so the output has no
// external file dependencies.
func WriteHTML(w io.Writer, art *Artifact) error {
	data, err := buildHTMLData(art)
	if err != nil {
		return err
	}
	return overlayTemplate.Execute(w, data)
}

// WriteHTMLFile writes the artifact to path, creating or truncating it.
func WriteHTMLFile(path string, art *Artifact) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteHTML(f, art); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func buildHTMLData(art *Artifact) (htmlData, error) {
	title := art.Name
	if title == "" {
		title = "document"
	}

	data := htmlData{
		Title:     title,
		Styles:    template.CSS(baseCSS),
		CellColor: CellColor,
		Summary:   summarize(art),
	}

	for _, k := range model.Kinds {
		data.Kinds = append(data.Kinds, kindToggle{Kind: k, Color: Colors[k]})
	}

	for _, pg := range art.Pages {
		hp := htmlPage{
			PageNo: pg.PageNo,
			Width:  pg.Width,
			Height: pg.Height,
			Layers: pg.Layers,
		}
		if pg.Image != nil {
			uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pg.Image)
			hp.DataURI = template.URL(uri)
		}
		data.Pages = append(data.Pages, hp)
	}

	blob, err := json.Marshal(map[string]any{
		"name":  art.Name,
		"scale": art.Scale,
		"pages": art.Stats.Pages,
		"items": art.Stats.Items,
		"kinds": kindCounts(art.Stats),
	})
	if err != nil {
		return htmlData{}, fmt.Errorf("encode document data: %w", err)
	}
	data.DocJSON = template.JS(blob)

	return data, nil
}

func kindCounts(s Stats) map[string]int {
	out := make(map[string]int, len(s.ByKind))
	for k, n := range s.ByKind {
		out[k.String()] = n
	}
	return out
}

func summarize(art *Artifact) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d pages", art.Stats.Pages))
	parts = append(parts, fmt.Sprintf("%d items", art.Stats.Items))
	for _, k := range model.Kinds {
		if n := art.Stats.ByKind[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	return strings.Join(parts, " · ")
}

const baseCSS = `
body { margin: 0; font-family: system-ui, sans-serif; background: #e9ecef; }
.toolbar { position: sticky; top: 0; background: #fff; padding: 10px 16px; box-shadow: 0 1px 4px rgba(0,0,0,.15); z-index: 10; }
.toolbar h1 { margin: 0 0 6px; font-size: 16px; }
.toggles { display: flex; flex-wrap: wrap; gap: 12px; font-size: 13px; }
.toggle { display: inline-flex; align-items: center; gap: 4px; cursor: pointer; }
.swatch { display: inline-block; width: 10px; height: 10px; border-radius: 2px; }
.stats { margin-top: 4px; font-size: 12px; color: #6c757d; }
main { display: flex; flex-direction: column; align-items: center; gap: 24px; padding: 24px 0; }
.sheet { text-align: center; }
.page-label { font-size: 12px; color: #6c757d; margin-bottom: 4px; }
.page { position: relative; background: #fff; box-shadow: 0 2px 8px rgba(0,0,0,.2); }
.page img { display: block; }
.annotations { position: absolute; top: 0; left: 0; }
.annotations rect { stroke-width: 1.5; }
.annotations g.item { cursor: pointer; }
.annotations g.item:hover rect { fill-opacity: 0.3; }
#inspector { position: fixed; bottom: 0; left: 0; right: 0; background: #212529; color: #f8f9fa; padding: 8px 16px; font-size: 13px; white-space: pre-wrap; max-height: 20vh; overflow-y: auto; }
`
