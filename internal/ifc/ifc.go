// Package ifc implements the subset of the IFC 2X3 building-data exchange
// format that the conversion and reconciliation pipelines touch.
//
// Files are held as a generic STEP instance graph: numbered entities with
// positional attributes. Typed knowledge (which attribute is the placement,
// which types are products) lives in small helpers on top of the graph rather
// than in a generated schema. The package covers:
//   - SPF (STEP physical file) encoding and decoding, gzip-aware
//   - project scaffolding (owner history, units, context, spatial structure)
//   - extruded and swept volume builders for GIS features
//   - property sets and defines-relations
//   - surface styles and styled-item attachment
package ifc

import (
	"fmt"
	"sort"
	"time"
)

// Schema is the exchange schema written to and expected from files.
const Schema = "IFC2X3"

// File is an in-memory IFC document: an ordered collection of STEP entities.
type File struct {
	// Name is the file name recorded in the SPF header.
	Name string

	// Timestamp is recorded in the SPF header on write.
	Timestamp time.Time

	entities []*Entity
	byID     map[int]*Entity
	nextID   int
}

// NewFile creates an empty IFC document.
func NewFile() *File {
	return &File{
		byID:   make(map[int]*Entity),
		nextID: 1,
	}
}

// Add appends a new entity of the given type and returns it.
func (f *File) Add(entityType string, attrs ...Value) *Entity {
	e := &Entity{
		ID:    f.nextID,
		Type:  entityType,
		Attrs: attrs,
	}
	f.nextID++
	f.entities = append(f.entities, e)
	f.byID[e.ID] = e
	return e
}

// add inserts a decoded entity with a pre-assigned ID.
func (f *File) add(e *Entity) error {
	if _, ok := f.byID[e.ID]; ok {
		return fmt.Errorf("duplicate entity id #%d", e.ID)
	}
	f.entities = append(f.entities, e)
	f.byID[e.ID] = e
	if e.ID >= f.nextID {
		f.nextID = e.ID + 1
	}
	return nil
}

// sortEntities restores id order after decoding.
func (f *File) sortEntities() {
	sort.Slice(f.entities, func(i, j int) bool {
		return f.entities[i].ID < f.entities[j].ID
	})
}

// Len returns the number of entities in the file.
func (f *File) Len() int {
	return len(f.entities)
}

// ByID returns the entity with the given id, or nil.
func (f *File) ByID(id int) *Entity {
	return f.byID[id]
}

// Deref resolves a reference attribute to its entity, or nil.
func (f *File) Deref(v Value) *Entity {
	ref, ok := v.(Ref)
	if !ok {
		return nil
	}
	return f.byID[int(ref)]
}

// ByType returns all entities of the given type, in id order.
func (f *File) ByType(entityType string) []*Entity {
	var out []*Entity
	for _, e := range f.entities {
		if e.Type == entityType {
			out = append(out, e)
		}
	}
	return out
}

// ByGUID returns the entity whose first attribute equals the given GlobalId.
func (f *File) ByGUID(guid string) *Entity {
	for _, e := range f.entities {
		if g, ok := e.GUID(); ok && g == guid {
			return e
		}
	}
	return nil
}

// productTypes lists the IfcProduct subtypes this tool recognizes. Spatial
// elements are included: like any product they may carry geometry, and ones
// that do not simply fail extraction and are skipped.
var productTypes = map[string]bool{
	"IFCBUILDINGELEMENTPROXY": true,
	"IFCWALL":                 true,
	"IFCWALLSTANDARDCASE":     true,
	"IFCSLAB":                 true,
	"IFCROOF":                 true,
	"IFCCOLUMN":               true,
	"IFCBEAM":                 true,
	"IFCDOOR":                 true,
	"IFCWINDOW":               true,
	"IFCSTAIR":                true,
	"IFCRAILING":              true,
	"IFCPLATE":                true,
	"IFCMEMBER":               true,
	"IFCCOVERING":             true,
	"IFCFOOTING":              true,
	"IFCPILE":                 true,
	"IFCCURTAINWALL":          true,
	"IFCFURNISHINGELEMENT":    true,
	"IFCBUILDINGELEMENTPART":  true,
	"IFCSPACE":                true,
	"IFCSITE":                 true,
	"IFCBUILDING":             true,
	"IFCBUILDINGSTOREY":       true,
}

// Products returns all product entities except opening elements, in id order.
func (f *File) Products() []*Entity {
	var out []*Entity
	for _, e := range f.entities {
		if productTypes[e.Type] {
			out = append(out, e)
		}
	}
	return out
}

// Entities returns all entities in id order. The returned slice is shared;
// callers must not modify it.
func (f *File) Entities() []*Entity {
	return f.entities
}
