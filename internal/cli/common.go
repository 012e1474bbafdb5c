package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bimshape/gis2bim/internal/clock"
	"github.com/bimshape/gis2bim/internal/engine"
)

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine() *engine.Engine {
	return engine.New(&clock.RealClock{})
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printWarnings prints every pipeline warning as a labelled line.
func printWarnings(warnings []engine.Warning) {
	for _, w := range warnings {
		PrintWarning(fmt.Sprintf("%s: %s: %s", w.Stage, w.ID, w.Reason))
	}
}
