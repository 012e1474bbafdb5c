package engine

import (
	"fmt"
	"strings"

	"github.com/bimshape/gis2bim/internal/ifc"
)

// reservedPrefixes name the property sets that must not be copied across
// files: quantity sets, shared/common sets, and base quantities.
var reservedPrefixes = []string{
	"BaseQuantities",
	"Qto_",
	"GSA_",
	"Pset_",
	"Common",
}

// copyProperties clones every non-reserved property set of the source
// element onto the target element, authoring fresh entities in the target
// file. A failure in one property set is reported as a warning and does not
// stop the remaining sets.
func copyProperties(
	source *ifc.File, sourceElem *ifc.Entity,
	target *ifc.File, targetElem, ownerHistory *ifc.Entity,
) (copied int, warnings []Warning) {
	for _, pset := range source.DefinedPropertySets(sourceElem) {
		name, ok := pset.StrAttr(2)
		if !ok || reserved(name) {
			continue
		}

		props, err := cloneProperties(source, pset)
		if err != nil {
			warnings = append(warnings, Warning{
				Stage:  "copy",
				ID:     name,
				Reason: err.Error(),
			})
			continue
		}
		if len(props) == 0 {
			continue
		}

		newPset := target.AddPropertySet(ownerHistory, name, pset.Attr(3), props)
		target.RelDefines(ownerHistory, targetElem, newPset)
		copied++
	}
	return copied, warnings
}

// reserved reports whether a property-set name starts with a reserved
// prefix.
func reserved(name string) bool {
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// cloneProperties builds a fresh property list from a source property set.
// Scalar values keep their wrapped types; entity references (such as unit
// references) are file-local and dropped rather than carried across.
func cloneProperties(source *ifc.File, pset *ifc.Entity) ([]ifc.Property, error) {
	members, ok := pset.ListAttr(4)
	if !ok {
		return nil, fmt.Errorf("property set #%d has no member list", pset.ID)
	}

	var props []ifc.Property
	for _, member := range members {
		prop := source.Deref(member)
		if prop == nil || prop.Type != "IFCPROPERTYSINGLEVALUE" {
			continue
		}
		name, ok := prop.StrAttr(0)
		if !ok {
			return nil, fmt.Errorf("property #%d has no name", prop.ID)
		}
		props = append(props, ifc.Property{
			Name:        name,
			Description: scrubRef(prop.Attr(1)),
			Value:       scrubRef(prop.Attr(2)),
			Unit:        scrubRef(prop.Attr(3)),
		})
	}
	return props, nil
}

func scrubRef(v ifc.Value) ifc.Value {
	if _, isRef := v.(ifc.Ref); isRef {
		return ifc.Null{}
	}
	return v
}
