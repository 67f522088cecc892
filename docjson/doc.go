// Package docjson parses the JSON output of a document-analysis pipeline
// into the typed model.
//
// Parsing is a pure, single-pass function over an already-loaded byte
// slice; locating and reading the file is the caller's concern. The
// input structure is validated against a JSON schema before decoding, so
// structural problems surface as one [MalformedInputError] naming the
// offending location instead of a cascade of zero values.
//
// Unknown extra fields are ignored for forward compatibility. Unknown
// item kinds are not: they fail with model.UnsupportedKindError, since
// silently dropping them would hide analysis data.
package docjson
