package ifc

import (
	"errors"
	"fmt"
)

// ErrNoRepresentation is returned when a style cannot be attached because
// the element exposes no shape representation.
var ErrNoRepresentation = errors.New("element has no shape representation")

// AddSurfaceStyle creates a named flat-color surface style. Channels are
// 0-255 and stored as normalized ratios.
func (f *File) AddSurfaceStyle(name string, r, g, b uint8) *Entity {
	colour := f.Add("IFCCOLOURRGB",
		Null{}, Float(float64(r)/255), Float(float64(g)/255), Float(float64(b)/255))
	rendering := f.Add("IFCSURFACESTYLERENDERING",
		Ref(colour.ID), Float(0), Null{}, Null{}, Null{}, Null{}, Null{}, Null{},
		Enum("NOTDEFINED"))
	return f.Add("IFCSURFACESTYLE",
		Str(name), Enum("BOTH"), List{Ref(rendering.ID)})
}

// AssignStyle attaches a surface style to every geometry item of the
// element's first shape representation.
func (f *File) AssignStyle(element, style *Entity) error {
	rep := f.Deref(element.Attr(AttrRepresentation))
	if rep == nil || rep.Type != "IFCPRODUCTDEFINITIONSHAPE" {
		return fmt.Errorf("%w: %s #%d", ErrNoRepresentation, element.Type, element.ID)
	}

	reps, ok := rep.ListAttr(2)
	if !ok || len(reps) == 0 {
		return fmt.Errorf("%w: %s #%d", ErrNoRepresentation, element.Type, element.ID)
	}

	shapeRep := f.Deref(reps[0])
	if shapeRep == nil {
		return fmt.Errorf("%w: %s #%d", ErrNoRepresentation, element.Type, element.ID)
	}
	items, ok := shapeRep.ListAttr(3)
	if !ok || len(items) == 0 {
		return fmt.Errorf("%w: representation of %s #%d has no items", ErrNoRepresentation, element.Type, element.ID)
	}

	for _, item := range items {
		target := f.Deref(item)
		if target == nil {
			continue
		}
		assignment := f.Add("IFCPRESENTATIONSTYLEASSIGNMENT", List{Ref(style.ID)})
		f.Add("IFCSTYLEDITEM", Ref(target.ID), List{Ref(assignment.ID)}, Null{})
	}
	return nil
}
