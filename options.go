package pagelens

import (
	"github.com/tsawler/pagelens/logging"
	"github.com/tsawler/pagelens/model"
	"github.com/tsawler/pagelens/validate"
)

// viewOptions holds configuration for the visualization pipeline.
type viewOptions struct {
	// Display
	scale            float64
	kinds            map[model.Kind]bool // nil means all kinds
	includeFurniture bool

	// Rendering
	workers int    // 0 means render.DefaultWorkers()
	pdfPath string // explicit source PDF, overrides discovery

	// Validation
	geometryTolerance  float64
	dimensionTolerance float64
	ocrCheck           bool

	logger logging.Logger
}

// defaultOptions returns the default pipeline options.
func defaultOptions() viewOptions {
	return viewOptions{
		scale:              1.0,
		kinds:              nil,
		includeFurniture:   false,
		workers:            0,
		geometryTolerance:  model.DefaultGeometryTolerance,
		dimensionTolerance: validate.DefaultDimensionTolerance,
		logger:             logging.Nop(),
	}
}

// clone creates a deep copy of viewOptions.
func (o viewOptions) clone() viewOptions {
	newOpts := o

	if o.kinds != nil {
		newOpts.kinds = make(map[model.Kind]bool, len(o.kinds))
		for k, v := range o.kinds {
			newOpts.kinds[k] = v
		}
	}

	return newOpts
}
