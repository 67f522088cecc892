package docjson

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pagelens/model"
)

// MalformedInputError reports an analysis document that is structurally
// invalid: required fields missing, wrong types, or references that
// cannot resolve. Item is the index of the offending item in input
// order, or -1 for document-level problems.
type MalformedInputError struct {
	Item   int
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Item >= 0 {
		return fmt.Sprintf("malformed input: item %d: %s", e.Item, e.Reason)
	}
	return "malformed input: " + e.Reason
}

type rawBox struct {
	L           float64 `json:"l"`
	T           float64 `json:"t"`
	R           float64 `json:"r"`
	B           float64 `json:"b"`
	CoordOrigin string  `json:"coord_origin"`
}

type rawCell struct {
	Box      *rawBox `json:"box"`
	Text     string  `json:"text"`
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	RowSpan  int     `json:"row_span"`
	ColSpan  int     `json:"col_span"`
	IsHeader bool    `json:"is_header"`
}

type rawItem struct {
	Kind  string    `json:"kind"`
	Page  int       `json:"page"`
	Label string    `json:"label"`
	Text  string    `json:"text"`
	Box   *rawBox   `json:"box"`
	Cells []rawCell `json:"cells"`
}

type rawPage struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type rawOrigin struct {
	Filename string `json:"filename"`
}

type rawDocument struct {
	Name   string     `json:"name"`
	Origin *rawOrigin `json:"origin"`
	Pages  []rawPage  `json:"pages"`
	Items  []rawItem  `json:"items"`
}

// Parse decodes an analysis document into the typed model. The fallback
// name is used when the document does not declare one (typically the
// input file's stem).
//
// Structural problems return a *MalformedInputError; an unrecognized
// item kind returns a *model.UnsupportedKindError. The returned document
// preserves item input order exactly.
func Parse(data []byte, fallbackName string) (*model.Document, error) {
	if err := validateStructure(data); err != nil {
		return nil, err
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedInputError{Item: -1, Reason: err.Error()}
	}

	doc := &model.Document{
		Name:  raw.Name,
		Pages: make([]model.Page, len(raw.Pages)),
		Items: make([]model.Item, 0, len(raw.Items)),
	}
	if doc.Name == "" {
		doc.Name = fallbackName
	}
	if raw.Origin != nil {
		doc.Origin = raw.Origin.Filename
	}
	for i, p := range raw.Pages {
		doc.Pages[i] = model.Page{Number: i + 1, Width: p.Width, Height: p.Height}
	}

	for i, ri := range raw.Items {
		kind, err := model.ParseKind(ri.Kind)
		if err != nil {
			var kindErr *model.UnsupportedKindError
			if errors.As(err, &kindErr) {
				kindErr.Item = i
			}
			return nil, err
		}

		if ri.Page < 1 || ri.Page > len(raw.Pages) {
			return nil, &MalformedInputError{
				Item:   i,
				Reason: fmt.Sprintf("page reference %d outside 1..%d", ri.Page, len(raw.Pages)),
			}
		}

		box, err := parseBox(ri.Box, i)
		if err != nil {
			return nil, err
		}

		item := model.Item{
			Kind:   kind,
			PageNo: ri.Page,
			Box:    box,
			Label:  ri.Label,
			Text:   norm.NFC.String(ri.Text),
		}

		for _, rc := range ri.Cells {
			cellBox, err := parseBox(rc.Box, i)
			if err != nil {
				return nil, err
			}
			item.Cells = append(item.Cells, model.TableCell{
				Box:     cellBox,
				Row:     rc.Row,
				Col:     rc.Col,
				RowSpan: spanOrOne(rc.RowSpan),
				ColSpan: spanOrOne(rc.ColSpan),
				Header:  rc.IsHeader,
				Text:    norm.NFC.String(rc.Text),
			})
		}

		doc.Items = append(doc.Items, item)
	}

	return doc, nil
}

func validateStructure(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile document schema: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return &MalformedInputError{Item: -1, Reason: err.Error()}
	}

	if err := s.Validate(decoded); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			leaf := ve
			for len(leaf.Causes) > 0 {
				leaf = leaf.Causes[0]
			}
			reason := leaf.Message
			if leaf.InstanceLocation != "" {
				reason = leaf.InstanceLocation + ": " + leaf.Message
			}
			return &MalformedInputError{Item: -1, Reason: reason}
		}
		return &MalformedInputError{Item: -1, Reason: err.Error()}
	}
	return nil
}

func parseBox(rb *rawBox, item int) (model.BoundingBox, error) {
	if rb == nil {
		return model.BoundingBox{}, &MalformedInputError{Item: item, Reason: "missing box"}
	}
	origin, err := model.ParseCoordOrigin(rb.CoordOrigin)
	if err != nil {
		return model.BoundingBox{}, &MalformedInputError{Item: item, Reason: err.Error()}
	}
	return model.BoundingBox{L: rb.L, T: rb.T, R: rb.R, B: rb.B, Origin: origin}, nil
}

func spanOrOne(span int) int {
	if span < 1 {
		return 1
	}
	return span
}
