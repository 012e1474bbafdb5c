package ifc

import "sort"

// Attribute positions shared by every IfcProduct subtype.
const (
	AttrGlobalID        = 0
	AttrName            = 2
	AttrObjectPlacement = 5
	AttrRepresentation  = 6
)

// AttributeSetName is the property set name given to converted GIS features.
const AttributeSetName = "FKB egenskaper"

// Property is one scalar entry of a property set. Description, Value, and
// Unit keep their raw attribute form so clones preserve wrapped value types.
type Property struct {
	Name        string
	Description Value
	Value       Value
	Unit        Value
}

// AddPropertySet creates an IfcPropertySet with the given single values and
// returns it. The set is not attached to any element; use RelDefines.
func (f *File) AddPropertySet(ownerHistory *Entity, name string, description Value, props []Property) *Entity {
	refs := make(List, 0, len(props))
	for _, p := range props {
		pv := f.Add("IFCPROPERTYSINGLEVALUE",
			Str(p.Name), orNull(p.Description), orNull(p.Value), orNull(p.Unit))
		refs = append(refs, Ref(pv.ID))
	}
	return f.Add("IFCPROPERTYSET",
		Str(NewGUID()), Ref(ownerHistory.ID), Str(name), orNull(description), refs)
}

// RelDefines attaches a property set to an element via a defines-relation.
func (f *File) RelDefines(ownerHistory, element, pset *Entity) *Entity {
	return f.Add("IFCRELDEFINESBYPROPERTIES",
		Str(NewGUID()), Ref(ownerHistory.ID), Null{}, Null{},
		List{Ref(element.ID)}, Ref(pset.ID))
}

// AddAttributeSet attaches the GIS attribute table of a converted feature to
// an element as a property set. Keys are emitted in sorted order so output
// files are deterministic.
func (f *File) AddAttributeSet(ownerHistory, element *Entity, attrs map[string]string) *Entity {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	props := make([]Property, 0, len(keys))
	for _, k := range keys {
		props = append(props, Property{
			Name:  k,
			Value: Typed{Type: "IFCLABEL", Value: Str(attrs[k])},
		})
	}
	pset := f.AddPropertySet(ownerHistory, AttributeSetName, Null{}, props)
	f.RelDefines(ownerHistory, element, pset)
	return pset
}

// DefinedPropertySets returns the property sets attached to an element via
// defines-relations, in file order.
func (f *File) DefinedPropertySets(element *Entity) []*Entity {
	var psets []*Entity
	for _, rel := range f.ByType("IFCRELDEFINESBYPROPERTIES") {
		related, ok := rel.ListAttr(4)
		if !ok || !containsRef(related, element.ID) {
			continue
		}
		def := f.Deref(rel.Attr(5))
		if def != nil && def.Type == "IFCPROPERTYSET" {
			psets = append(psets, def)
		}
	}
	return psets
}

// Properties returns the single-value members of a property set.
func (f *File) Properties(pset *Entity) []*Entity {
	members, ok := pset.ListAttr(4)
	if !ok {
		return nil
	}
	var props []*Entity
	for _, m := range members {
		p := f.Deref(m)
		if p != nil && p.Type == "IFCPROPERTYSINGLEVALUE" {
			props = append(props, p)
		}
	}
	return props
}

// ElementAttributes flattens every property set of an element into a single
// attribute map of nominal values. Duplicate names: last write wins.
func (f *File) ElementAttributes(element *Entity) map[string]string {
	attrs := make(map[string]string)
	for _, pset := range f.DefinedPropertySets(element) {
		for _, prop := range f.Properties(pset) {
			name, ok := prop.StrAttr(0)
			if !ok {
				continue
			}
			if v, ok := ScalarString(prop.Attr(2)); ok {
				attrs[name] = v
			}
		}
	}
	return attrs
}

func containsRef(l List, id int) bool {
	for _, v := range l {
		if r, ok := v.(Ref); ok && int(r) == id {
			return true
		}
	}
	return false
}

func orNull(v Value) Value {
	if v == nil {
		return Null{}
	}
	return v
}
