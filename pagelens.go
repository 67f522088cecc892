// Package pagelens provides a fluent API for turning document analysis
// output into visual overlays: each detected item drawn as a colored
// box on top of the rendered source page.
//
// Basic usage:
//
//	art, warnings, err := pagelens.Open("analysis.json").Artifact(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pagelens.FormatWarnings(warnings))
//	}
//
// With options:
//
//	err := pagelens.Open("analysis.json").
//	    Scale(2.0).
//	    Kinds(model.KindTable, model.KindPicture).
//	    WriteOverlayFile(ctx, "out.html")
//
// For advanced use cases, the lower-level docjson, render, and overlay
// packages are also available.
package pagelens

import (
	"github.com/tsawler/pagelens/model"
	"github.com/tsawler/pagelens/validate"
)

// Warning is a non-fatal finding recorded during processing. The run
// continues; warnings describe what may look off in the output.
type Warning = validate.Warning

// FormatWarnings renders warnings as a human-readable multi-line string.
func FormatWarnings(warnings []Warning) string {
	return validate.Format(warnings)
}

// Open prepares a Viewer for the given analysis file. The format is
// detected from the file content: analysis JSON is parsed directly,
// while a PDF needs an Analyzer configured via WithAnalyzer.
//
// Example:
//
//	art, warnings, err := pagelens.Open("analysis.json").Artifact(ctx)
func Open(filename string) *Viewer {
	return &Viewer{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromDocument creates a Viewer for an already-parsed document. This is
// useful when the analysis comes from somewhere other than a file.
//
// Example:
//
//	art, warnings, err := pagelens.FromDocument(doc).Artifact(ctx)
func FromDocument(doc *model.Document) *Viewer {
	return &Viewer{
		doc:     doc,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult is a helper that wraps a terminal operation returning
// (T, []Warning, error) and panics if the error is non-nil. It discards
// warnings and returns just the value.
//
// Example:
//
//	art := pagelens.MustResult(pagelens.Open("analysis.json").Artifact(ctx))
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
