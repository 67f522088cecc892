// Package native exports a document's analysis content in its natural
// reading order, without any geometry, as Markdown or HTML.
package native

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/tsawler/pagelens/model"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ToMarkdown renders the document's items in input order. Headings
// become level-two headings, lists become bullet items, tables become
// GitHub-flavored pipe tables, pictures become placeholders, and
// furniture is skipped.
func ToMarkdown(doc *model.Document) string {
	var sb strings.Builder

	if doc.Name != "" {
		fmt.Fprintf(&sb, "# %s\n\n", doc.Name)
	}

	for _, item := range doc.Items {
		switch item.Kind {
		case model.KindHeading:
			fmt.Fprintf(&sb, "## %s\n\n", strings.TrimSpace(item.Text))
		case model.KindText:
			if text := strings.TrimSpace(item.Text); text != "" {
				fmt.Fprintf(&sb, "%s\n\n", text)
			}
		case model.KindList:
			writeList(&sb, item.Text)
		case model.KindTable:
			writeTable(&sb, item)
		case model.KindPicture:
			fmt.Fprintf(&sb, "![picture on page %d]()\n\n", item.PageNo)
		case model.KindFurniture:
			// Headers and footers carry no content value.
		}
	}

	return sb.String()
}

// ToHTML converts the document to an HTML fragment by rendering its
// Markdown form.
func ToHTML(doc *model.Document) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(ToMarkdown(doc)), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

func writeList(sb *strings.Builder, text string) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fmt.Fprintf(sb, "- %s\n", line)
	}
	sb.WriteString("\n")
}

// writeTable lays cells out on a row/column grid and emits a pipe
// table. Cells that span columns are written once in their anchor
// position; the covered positions stay empty.
func writeTable(sb *strings.Builder, item model.Item) {
	// Cells with coordinates outside the grid are dropped rather than
	// trusted; analysis backends occasionally emit negative positions.
	maxRow, maxCol := -1, -1
	for _, c := range item.Cells {
		if c.Row < 0 || c.Col < 0 {
			continue
		}
		if r := c.Row + spanOrOne(c.RowSpan) - 1; r > maxRow {
			maxRow = r
		}
		if col := c.Col + spanOrOne(c.ColSpan) - 1; col > maxCol {
			maxCol = col
		}
	}
	if maxRow < 0 || maxCol < 0 {
		return
	}

	grid := make([][]string, maxRow+1)
	for i := range grid {
		grid[i] = make([]string, maxCol+1)
	}
	headerRows := 0
	for _, c := range item.Cells {
		if c.Row < 0 || c.Col < 0 {
			continue
		}
		grid[c.Row][c.Col] = sanitizeCell(c.Text)
		if c.Header && c.Row+1 > headerRows {
			headerRows = c.Row + 1
		}
	}

	// A pipe table needs a header row; synthesize an empty one when the
	// analysis marked none.
	if headerRows == 0 {
		headerRows = 1
	}

	for r, row := range grid {
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
		if r == headerRows-1 {
			sep := make([]string, len(row))
			for i := range sep {
				sep[i] = "---"
			}
			sb.WriteString("| " + strings.Join(sep, " | ") + " |\n")
		}
	}
	sb.WriteString("\n")
}

func spanOrOne(span int) int {
	if span < 1 {
		return 1
	}
	return span
}

func sanitizeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.TrimSpace(s)
}
