package model

import "fmt"

// Kind is the semantic type of a document item.
type Kind int

const (
	KindText Kind = iota
	KindHeading
	KindTable
	KindPicture
	KindList
	KindFurniture
)

// Kinds lists every recognized kind in display order. This order fixes
// layer ordering in composed artifacts.
var Kinds = []Kind{KindText, KindHeading, KindTable, KindPicture, KindList, KindFurniture}

// String returns the lowercase wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindHeading:
		return "heading"
	case KindTable:
		return "table"
	case KindPicture:
		return "picture"
	case KindList:
		return "list"
	case KindFurniture:
		return "furniture"
	}
	return "unknown"
}

// UnsupportedKindError reports an item whose kind is not one of the six
// recognized kinds. Unknown kinds are fatal at parse time; silently
// dropping them would hide analysis data.
type UnsupportedKindError struct {
	Kind string
	Item int // index of the offending item in input order, -1 if unknown
}

func (e *UnsupportedKindError) Error() string {
	if e.Item >= 0 {
		return fmt.Sprintf("item %d: unsupported kind %q", e.Item, e.Kind)
	}
	return fmt.Sprintf("unsupported kind %q", e.Kind)
}

// ParseKind parses a wire name into a Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, &UnsupportedKindError{Kind: name, Item: -1}
}

// Page is a single page of the analysis output. Width and height are in
// source coordinate units. Pages are immutable once parsed.
type Page struct {
	Number int // 1-indexed
	Width  float64
	Height float64
}

// TableCell is one cell of a table item. Its box shares the coordinate
// system of the parent table.
type TableCell struct {
	Box     BoundingBox
	Row     int
	Col     int
	RowSpan int
	ColSpan int
	Header  bool
	Text    string
}

// Item is a single positioned element of the analysis output. Tables
// additionally carry cell geometry in Cells; for every other kind Cells
// is nil.
type Item struct {
	Kind   Kind
	PageNo int // 1-indexed page reference
	Box    BoundingBox
	Label  string // original label from the analysis output, if any
	Text   string
	Cells  []TableCell
}

// Document is a fully parsed analysis result: its declared pages and its
// items in input order. Constructed once per run and read-only after.
type Document struct {
	Name   string
	Origin string // declared originating-file identity, if any
	Pages  []Page
	Items  []Item
}

// PageCount returns the number of declared pages.
func (d *Document) PageCount() int { return len(d.Pages) }

// Page returns the page with the given 1-indexed number, or nil.
func (d *Document) Page(number int) *Page {
	if number < 1 || number > len(d.Pages) {
		return nil
	}
	return &d.Pages[number-1]
}

// ItemsOnPage returns the items on a page whose kind is in kinds, in
// input order. A nil kinds set retains every kind. Furniture is removed
// when includeFurniture is false, regardless of kinds.
func (d *Document) ItemsOnPage(number int, kinds map[Kind]bool, includeFurniture bool) []Item {
	var items []Item
	for _, it := range d.Items {
		if it.PageNo != number {
			continue
		}
		if it.Kind == KindFurniture && !includeFurniture {
			continue
		}
		if kinds != nil && !kinds[it.Kind] {
			continue
		}
		items = append(items, it)
	}
	return items
}

// CountByKind tallies items per kind across the whole document.
func (d *Document) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, it := range d.Items {
		counts[it.Kind]++
	}
	return counts
}
