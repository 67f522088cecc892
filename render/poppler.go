package render

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// basePointsPerInch is the PDF unit density; scale 1.0 renders at this
// DPI.
const basePointsPerInch = 72

// PopplerSource rasterizes PDF pages by shelling out to the
// poppler-utils binaries. Each Render call spawns its own pdftoppm
// process, so concurrent page access never interferes.
type PopplerSource struct {
	path      string
	pageCount int
}

// NewPopplerSource opens a PDF for rendering. It fails if pdftoppm or
// pdfinfo is not installed, or if the page count cannot be read.
func NewPopplerSource(path string) (*PopplerSource, error) {
	for _, tool := range []string{"pdftoppm", "pdfinfo"} {
		if _, err := exec.LookPath(tool); err != nil {
			return nil, fmt.Errorf("%s not found: install poppler-utils", tool)
		}
	}

	out, err := exec.Command("pdfinfo", path).Output()
	if err != nil {
		return nil, fmt.Errorf("pdfinfo %s: %w", path, err)
	}
	count, err := parsePageCount(string(out))
	if err != nil {
		return nil, fmt.Errorf("pdfinfo %s: %w", path, err)
	}

	return &PopplerSource{path: path, pageCount: count}, nil
}

// Path returns the PDF path the source reads from.
func (s *PopplerSource) Path() string { return s.path }

// PageCount returns the number of pages reported by pdfinfo.
func (s *PopplerSource) PageCount(ctx context.Context) (int, error) {
	return s.pageCount, nil
}

// Identity returns the base name of the PDF file.
func (s *PopplerSource) Identity() string { return filepath.Base(s.path) }

// Render rasterizes a single page to PNG via pdftoppm. The context can
// kill a hung render.
func (s *PopplerSource) Render(ctx context.Context, pageNo int, scale float64) (*RasterPage, error) {
	dpi := strconv.FormatFloat(basePointsPerInch*scale, 'f', -1, 64)
	n := strconv.Itoa(pageNo)

	cmd := exec.CommandContext(ctx, "pdftoppm", "-png", "-r", dpi, "-f", n, "-l", n, s.path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("pdftoppm: %s", msg)
		}
		return nil, fmt.Errorf("pdftoppm: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no output for page %d", pageNo)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode rendered page %d: %w", pageNo, err)
	}

	return &RasterPage{
		PageNo:   pageNo,
		PNG:      out,
		WidthPx:  cfg.Width,
		HeightPx: cfg.Height,
		Scale:    scale,
	}, nil
}

// parsePageCount extracts the Pages line from pdfinfo output.
func parsePageCount(info string) (int, error) {
	for _, line := range strings.Split(info, "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(line, "Pages:"))
		count, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("unparseable page count %q", value)
		}
		return count, nil
	}
	return 0, fmt.Errorf("no Pages line in pdfinfo output")
}
