// Package engine provides the core pipeline logic behind the gis2bim CLI.
//
// The engine is the orchestration layer between the commands and the
// format/geometry packages. It owns two operations:
//   - Convert: shapefile folder -> styled IFC volumes in a fresh model
//   - Reconcile: copy footprint properties and styles onto a 3D model by
//     spatial overlap
//
// Whole-file steps (loading inputs, loading styles, saving output) are
// all-or-nothing; every per-record step is best-effort and surfaces as a
// Warning in the run result instead of aborting.
package engine

import (
	"github.com/bimshape/gis2bim/internal/clock"
)

// Engine runs the conversion and reconciliation pipelines.
type Engine struct {
	clock clock.Clock
}

// New creates a new Engine with the given dependencies.
func New(clk clock.Clock) *Engine {
	return &Engine{clock: clk}
}

// Warning is one per-record recoverable failure or data-quality note,
// carried in run results so callers decide how to present it.
type Warning struct {
	// Stage names the pipeline step that produced the warning.
	Stage string

	// ID identifies the affected record where known (GlobalId, feature
	// index, property-set name).
	ID string

	// Reason is the human-readable cause.
	Reason string
}
