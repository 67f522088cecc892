// Package model provides the typed in-memory representation of a parsed
// document-analysis result.
//
// This package defines the data structures shared by every stage of the
// overlay pipeline. A [Document] is constructed once from the analysis
// output and is read-only thereafter.
//
// # Document Structure
//
// A [Document] carries its declared pages and a flat, ordered sequence of
// [Item] values:
//
//	doc := &model.Document{Name: "report"}
//	for _, item := range doc.Items {
//	    fmt.Println(item.Kind, item.PageNo)
//	}
//
// Item order is the input order of the analysis output. That order is the
// z-order and inspection order downstream and is preserved through
// filtering.
//
// # Geometry
//
// Positions are expressed as a [BoundingBox] tagged with the coordinate
// system it lives in ([BottomLeft] or [TopLeft]). The [Normalizer]
// converts a source box into a [NormalizedBBox] in top-left screen units
// at a target scale. A transform always produces a new value; boxes are
// never mutated in place.
package model
