package style

import (
	"fmt"

	"github.com/bimshape/gis2bim/internal/ifc"
)

// Applier owns the surface styles of one target file. Styles are created
// once up front; Apply then only attaches them.
type Applier struct {
	file   *ifc.File
	styles map[string]*ifc.Entity
}

// NewApplier creates every rule's surface style in the target file.
func NewApplier(f *ifc.File, rules []Rule) *Applier {
	styles := make(map[string]*ifc.Entity, len(rules))
	for _, r := range rules {
		styles[r.Name] = f.AddSurfaceStyle(r.Name, r.Color[0], r.Color[1], r.Color[2])
	}
	return &Applier{file: f, styles: styles}
}

// Apply attaches the named style to the element's visual representation.
// Returns true only when the style was attached; attachment failures are
// reported as errors for the caller to log, never as aborts.
func (a *Applier) Apply(element *ifc.Entity, styleName string) (bool, error) {
	styleEntity, ok := a.styles[styleName]
	if !ok {
		return false, fmt.Errorf("unknown style %q", styleName)
	}
	if err := a.file.AssignStyle(element, styleEntity); err != nil {
		return false, err
	}
	return true, nil
}
