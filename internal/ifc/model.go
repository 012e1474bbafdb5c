package ifc

import "time"

// Model is a File plus handles to the scaffolding entities that element
// builders need: the geometric context, owner history, and the storey that
// contains every generated element.
type Model struct {
	File         *File
	Context      *Entity
	OwnerHistory *Entity
	Project      *Entity
	Site         *Entity
	Building     *Entity
	Storey       *Entity
}

// NewModel creates a fresh IFC document with the standard spatial structure:
// project -> site -> building -> storey, SI units in metres, and an owner
// history stamped with the given creation time.
func NewModel(created time.Time) *Model {
	f := NewFile()
	f.Timestamp = created

	person := f.Add("IFCPERSON", Null{}, Null{}, Null{}, Null{}, Null{}, Null{}, Null{}, Null{})
	org := f.Add("IFCORGANIZATION", Null{}, Str("gis2bim"), Null{}, Null{}, Null{})
	personAndOrg := f.Add("IFCPERSONANDORGANIZATION", Ref(person.ID), Ref(org.ID), Null{})
	app := f.Add("IFCAPPLICATION", Ref(org.ID), Str("1.0"), Str("gis2bim"), Str("gis2bim"))
	ownerHistory := f.Add("IFCOWNERHISTORY",
		Ref(personAndOrg.ID), Ref(app.ID), Enum("READWRITE"), Enum("NOCHANGE"),
		Null{}, Null{}, Null{}, Int(created.Unix()))

	lengthUnit := f.Add("IFCSIUNIT", Derived{}, Enum("LENGTHUNIT"), Null{}, Enum("METRE"))
	areaUnit := f.Add("IFCSIUNIT", Derived{}, Enum("AREAUNIT"), Null{}, Enum("SQUARE_METRE"))
	volumeUnit := f.Add("IFCSIUNIT", Derived{}, Enum("VOLUMEUNIT"), Null{}, Enum("CUBIC_METRE"))
	units := f.Add("IFCUNITASSIGNMENT", List{Ref(lengthUnit.ID), Ref(areaUnit.ID), Ref(volumeUnit.ID)})

	worldOrigin := f.Add("IFCCARTESIANPOINT", List{Float(0), Float(0), Float(0)})
	worldPlacement := f.Add("IFCAXIS2PLACEMENT3D", Ref(worldOrigin.ID), Null{}, Null{})
	context := f.Add("IFCGEOMETRICREPRESENTATIONCONTEXT",
		Null{}, Str("Model"), Int(3), Float(1e-5), Ref(worldPlacement.ID), Null{})

	project := f.Add("IFCPROJECT",
		Str(NewGUID()), Ref(ownerHistory.ID), Str("GIS Import"), Null{}, Null{}, Null{}, Null{},
		List{Ref(context.ID)}, Ref(units.ID))

	sitePlacement := localPlacement(f, 0)
	site := f.Add("IFCSITE",
		Str(NewGUID()), Ref(ownerHistory.ID), Str("Site"), Null{}, Null{},
		Ref(sitePlacement.ID), Null{}, Null{}, Enum("ELEMENT"),
		Null{}, Null{}, Null{}, Null{}, Null{})

	buildingPlacement := localPlacement(f, sitePlacement.ID)
	building := f.Add("IFCBUILDING",
		Str(NewGUID()), Ref(ownerHistory.ID), Str("Building"), Null{}, Null{},
		Ref(buildingPlacement.ID), Null{}, Null{}, Enum("ELEMENT"),
		Null{}, Null{}, Null{})

	storeyPlacement := localPlacement(f, buildingPlacement.ID)
	storey := f.Add("IFCBUILDINGSTOREY",
		Str(NewGUID()), Ref(ownerHistory.ID), Str("Building Storey"), Null{}, Null{},
		Ref(storeyPlacement.ID), Null{}, Null{}, Enum("ELEMENT"), Float(0))

	aggregate(f, ownerHistory, "Project Container", project, site)
	aggregate(f, ownerHistory, "Site Container", site, building)
	aggregate(f, ownerHistory, "Building Container", building, storey)

	return &Model{
		File:         f,
		Context:      context,
		OwnerHistory: ownerHistory,
		Project:      project,
		Site:         site,
		Building:     building,
		Storey:       storey,
	}
}

// localPlacement creates an identity IfcLocalPlacement, optionally relative
// to a parent placement (0 for none).
func localPlacement(f *File, relTo int) *Entity {
	origin := f.Add("IFCCARTESIANPOINT", List{Float(0), Float(0), Float(0)})
	axis := f.Add("IFCAXIS2PLACEMENT3D", Ref(origin.ID), Null{}, Null{})
	rel := Value(Null{})
	if relTo != 0 {
		rel = Ref(relTo)
	}
	return f.Add("IFCLOCALPLACEMENT", rel, Ref(axis.ID))
}

func aggregate(f *File, ownerHistory *Entity, name string, relating *Entity, related ...*Entity) {
	refs := make(List, len(related))
	for i, e := range related {
		refs[i] = Ref(e.ID)
	}
	f.Add("IFCRELAGGREGATES",
		Str(NewGUID()), Ref(ownerHistory.ID), Str(name), Null{},
		Ref(relating.ID), refs)
}

// cartesianPoint3 creates a 3D IfcCartesianPoint.
func (m *Model) cartesianPoint3(x, y, z float64) *Entity {
	return m.File.Add("IFCCARTESIANPOINT", List{Float(x), Float(y), Float(z)})
}

// direction creates an IfcDirection.
func (m *Model) direction(x, y, z float64) *Entity {
	return m.File.Add("IFCDIRECTION", List{Float(x), Float(y), Float(z)})
}

// axisPlacement3 creates an IfcAxis2Placement3D at the given origin with
// default axes.
func (m *Model) axisPlacement3(origin *Entity) *Entity {
	return m.File.Add("IFCAXIS2PLACEMENT3D", Ref(origin.ID), Null{}, Null{})
}

// AddPointVolume creates a cube of the given size centered on the (x, y)
// location at z=0 and returns the new element.
func (m *Model) AddPointVolume(name string, x, y, size float64) *Entity {
	f := m.File

	placementAxis := m.axisPlacement3(m.cartesianPoint3(x, y, 0))
	placement := f.Add("IFCLOCALPLACEMENT", Null{}, Ref(placementAxis.ID))

	center2 := f.Add("IFCCARTESIANPOINT", List{Float(0), Float(0)})
	profilePos := f.Add("IFCAXIS2PLACEMENT2D", Ref(center2.ID), Null{})
	profile := f.Add("IFCRECTANGLEPROFILEDEF",
		Enum("AREA"), Null{}, Ref(profilePos.ID), Float(size), Float(size))

	solidPos := m.axisPlacement3(m.cartesianPoint3(0, 0, 0))
	up := m.direction(0, 0, 1)
	solid := f.Add("IFCEXTRUDEDAREASOLID",
		Ref(profile.ID), Ref(solidPos.ID), Ref(up.ID), Float(size))

	return m.addElement(name, placement, solid)
}

// AddLineVolume creates a swept disk solid along the given 2D path at z=0.
func (m *Model) AddLineVolume(name string, path [][2]float64, radius float64) *Entity {
	f := m.File

	pts := make(List, len(path))
	for i, p := range path {
		pts[i] = Ref(m.cartesianPoint3(p[0], p[1], 0).ID)
	}
	polyline := f.Add("IFCPOLYLINE", pts)

	placementAxis := m.axisPlacement3(m.cartesianPoint3(0, 0, 0))
	placement := f.Add("IFCLOCALPLACEMENT", Null{}, Ref(placementAxis.ID))

	solid := f.Add("IFCSWEPTDISKSOLID",
		Ref(polyline.ID), Float(radius), Null{}, Float(0), Float(1))

	return m.addElement(name, placement, solid)
}

// AddPolygonVolume extrudes the given closed 2D ring upward by depth. The
// ring must be passed without a closing duplicate of the first point.
func (m *Model) AddPolygonVolume(name string, ring [][2]float64, depth float64) *Entity {
	f := m.File

	pts := make(List, len(ring))
	for i, p := range ring {
		pts[i] = Ref(m.cartesianPoint3(p[0], p[1], 0).ID)
	}
	polyline := f.Add("IFCPOLYLINE", pts)
	profile := f.Add("IFCARBITRARYCLOSEDPROFILEDEF", Enum("AREA"), Null{}, Ref(polyline.ID))

	placementAxis := m.axisPlacement3(m.cartesianPoint3(0, 0, 0))
	placement := f.Add("IFCLOCALPLACEMENT", Null{}, Ref(placementAxis.ID))

	solidPos := m.axisPlacement3(m.cartesianPoint3(0, 0, 0))
	up := m.direction(0, 0, 1)
	solid := f.Add("IFCEXTRUDEDAREASOLID",
		Ref(profile.ID), Ref(solidPos.ID), Ref(up.ID), Float(depth))

	return m.addElement(name, placement, solid)
}

// addElement wraps a solid in a shape representation, creates the building
// element proxy, and contains it in the storey.
func (m *Model) addElement(name string, placement, solid *Entity) *Entity {
	f := m.File

	shapeRep := f.Add("IFCSHAPEREPRESENTATION",
		Ref(m.Context.ID), Str("Body"), Str("SweptSolid"), List{Ref(solid.ID)})
	productShape := f.Add("IFCPRODUCTDEFINITIONSHAPE", Null{}, Null{}, List{Ref(shapeRep.ID)})

	element := f.Add("IFCBUILDINGELEMENTPROXY",
		Str(NewGUID()), Ref(m.OwnerHistory.ID), Str(name), Null{}, Null{},
		Ref(placement.ID), Ref(productShape.ID), Null{}, Null{})

	f.Add("IFCRELCONTAINEDINSPATIALSTRUCTURE",
		Str(NewGUID()), Ref(m.OwnerHistory.ID), Str("Storey Container"), Null{},
		List{Ref(element.ID)}, Ref(m.Storey.ID))

	return element
}
