package docjson

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema captures the structural contract of the analysis
// output: the page list, the item list, and per-item kind and box are
// required; everything else is optional and unknown fields pass through.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["pages", "items"],
  "properties": {
    "name": {"type": "string"},
    "origin": {
      "type": "object",
      "properties": {
        "filename": {"type": "string"}
      }
    },
    "pages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["width", "height"],
        "properties": {
          "width": {"type": "number"},
          "height": {"type": "number"}
        }
      }
    },
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["kind", "page", "box"],
        "properties": {
          "kind": {"type": "string"},
          "page": {"type": "integer"},
          "label": {"type": "string"},
          "text": {"type": "string"},
          "box": {"$ref": "#/$defs/box"},
          "cells": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["box"],
              "properties": {
                "box": {"$ref": "#/$defs/box"},
                "text": {"type": "string"},
                "row": {"type": "integer", "minimum": 0},
                "col": {"type": "integer", "minimum": 0},
                "row_span": {"type": "integer"},
                "col_span": {"type": "integer"},
                "is_header": {"type": "boolean"}
              }
            }
          }
        }
      }
    }
  },
  "$defs": {
    "box": {
      "type": "object",
      "required": ["l", "t", "r", "b"],
      "properties": {
        "l": {"type": "number"},
        "t": {"type": "number"},
        "r": {"type": "number"},
        "b": {"type": "number"},
        "coord_origin": {"type": "string"}
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("document.json", strings.NewReader(documentSchema)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("document.json")
	})
	return schema, schemaErr
}
