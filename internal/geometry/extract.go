package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/bimshape/gis2bim/internal/ifc"
)

var (
	// ErrNoGeometry indicates a product without a usable shape representation.
	ErrNoGeometry = errors.New("no shape representation")

	// ErrUnsupportedGeometry indicates a representation item this tool
	// cannot evaluate.
	ErrUnsupportedGeometry = errors.New("unsupported geometry")
)

// maxPlacementDepth bounds placement-chain recursion against reference cycles.
const maxPlacementDepth = 64

// spatialTypes lists the spatial-structure products that are allowed to have
// no geometry without being reported.
var spatialTypes = map[string]bool{
	"IFCSITE":           true,
	"IFCBUILDING":       true,
	"IFCBUILDINGSTOREY": true,
	"IFCSPACE":          true,
}

// Extract evaluates every product in the file except opening elements into a
// Record. Products whose geometry cannot be evaluated are returned as skips;
// extraction never fails as a whole.
func Extract(f *ifc.File) (map[string]Record, []Skip) {
	records := make(map[string]Record)
	var skips []Skip

	for _, product := range f.Products() {
		if product.Type == "IFCOPENINGELEMENT" {
			continue
		}
		id, ok := product.GUID()
		if !ok {
			skips = append(skips, Skip{Type: product.Type, Err: fmt.Errorf("entity #%d has no GlobalId", product.ID)})
			continue
		}

		verts, err := productVertices(f, product)
		if err != nil {
			// Spatial containers routinely carry no geometry of their own;
			// that is structure, not a data-quality problem.
			if !(errors.Is(err, ErrNoGeometry) && spatialTypes[product.Type]) {
				skips = append(skips, Skip{ID: id, Type: product.Type, Err: err})
			}
			continue
		}

		records[id] = summarize(id, product.ID, verts)
	}
	return records, skips
}

// summarize reduces a vertex set to centroid and bounding box.
func summarize(id string, entityID int, verts [][3]float64) Record {
	bbox := BBox{
		Min: [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	var sum [3]float64
	for _, v := range verts {
		for axis := 0; axis < 3; axis++ {
			sum[axis] += v[axis]
			bbox.Min[axis] = math.Min(bbox.Min[axis], v[axis])
			bbox.Max[axis] = math.Max(bbox.Max[axis], v[axis])
		}
	}
	n := float64(len(verts))
	return Record{
		ID:       id,
		Centroid: [3]float64{sum[0] / n, sum[1] / n, sum[2] / n},
		BBox:     bbox,
		EntityID: entityID,
	}
}

// productVertices evaluates a product's representation items into world
// coordinates.
func productVertices(f *ifc.File, product *ifc.Entity) ([][3]float64, error) {
	placement, err := placementTransform(f, f.Deref(product.Attr(ifc.AttrObjectPlacement)), 0)
	if err != nil {
		return nil, err
	}

	shape := f.Deref(product.Attr(ifc.AttrRepresentation))
	if shape == nil || shape.Type != "IFCPRODUCTDEFINITIONSHAPE" {
		return nil, ErrNoGeometry
	}
	reps, ok := shape.ListAttr(2)
	if !ok || len(reps) == 0 {
		return nil, ErrNoGeometry
	}

	var verts [][3]float64
	for _, repRef := range reps {
		rep := f.Deref(repRef)
		if rep == nil || rep.Type != "IFCSHAPEREPRESENTATION" {
			continue
		}
		items, ok := rep.ListAttr(3)
		if !ok {
			continue
		}
		for _, itemRef := range items {
			item := f.Deref(itemRef)
			if item == nil {
				continue
			}
			local, err := itemVertices(f, item)
			if err != nil {
				return nil, err
			}
			for _, v := range local {
				verts = append(verts, placement.apply(v))
			}
		}
	}

	if len(verts) == 0 {
		return nil, ErrNoGeometry
	}
	return verts, nil
}

// itemVertices evaluates one representation item into product-local
// coordinates.
func itemVertices(f *ifc.File, item *ifc.Entity) ([][3]float64, error) {
	switch item.Type {
	case "IFCEXTRUDEDAREASOLID":
		return extrudedVertices(f, item)
	case "IFCSWEPTDISKSOLID":
		return sweptDiskVertices(f, item)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, item.Type)
	}
}

// extrudedVertices evaluates an extruded area solid: the profile points at
// the base and at the extrusion cap.
func extrudedVertices(f *ifc.File, solid *ifc.Entity) ([][3]float64, error) {
	base, err := profilePoints(f, f.Deref(solid.Attr(0)))
	if err != nil {
		return nil, err
	}

	position, err := axisTransform3(f, f.Deref(solid.Attr(1)))
	if err != nil {
		return nil, err
	}

	dir, ok := directionVector(f, solid.Attr(2))
	if !ok {
		return nil, fmt.Errorf("%w: extruded solid #%d has no direction", ErrUnsupportedGeometry, solid.ID)
	}
	depth, ok := solid.FloatAttr(3)
	if !ok {
		return nil, fmt.Errorf("%w: extruded solid #%d has no depth", ErrUnsupportedGeometry, solid.ID)
	}
	extrusion := position.rotate(scale(normalize(dir), depth))

	verts := make([][3]float64, 0, 2*len(base))
	for _, p := range base {
		world := position.apply(p)
		verts = append(verts, world, add(world, extrusion))
	}
	return verts, nil
}

// sweptDiskVertices approximates a swept disk by its directrix inflated by
// the disk radius on every axis, which is exact for bbox purposes and close
// enough for the centroid.
func sweptDiskVertices(f *ifc.File, solid *ifc.Entity) ([][3]float64, error) {
	directrix := f.Deref(solid.Attr(0))
	pts, err := polylinePoints(f, directrix)
	if err != nil {
		return nil, err
	}
	radius, ok := solid.FloatAttr(1)
	if !ok {
		return nil, fmt.Errorf("%w: swept disk #%d has no radius", ErrUnsupportedGeometry, solid.ID)
	}

	var verts [][3]float64
	for _, p := range pts {
		for axis := 0; axis < 3; axis++ {
			lo, hi := p, p
			lo[axis] -= radius
			hi[axis] += radius
			verts = append(verts, lo, hi)
		}
	}
	if len(verts) == 0 {
		return nil, fmt.Errorf("%w: swept disk #%d has an empty directrix", ErrUnsupportedGeometry, solid.ID)
	}
	return verts, nil
}

// profilePoints evaluates a profile definition into its outline points in
// profile-local coordinates.
func profilePoints(f *ifc.File, profile *ifc.Entity) ([][3]float64, error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: missing profile", ErrUnsupportedGeometry)
	}
	switch profile.Type {
	case "IFCRECTANGLEPROFILEDEF":
		return rectanglePoints(f, profile)
	case "IFCARBITRARYCLOSEDPROFILEDEF":
		return polylinePoints(f, f.Deref(profile.Attr(2)))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, profile.Type)
	}
}

func rectanglePoints(f *ifc.File, profile *ifc.Entity) ([][3]float64, error) {
	xdim, okX := profile.FloatAttr(3)
	ydim, okY := profile.FloatAttr(4)
	if !okX || !okY {
		return nil, fmt.Errorf("%w: rectangle profile #%d has no dimensions", ErrUnsupportedGeometry, profile.ID)
	}

	// Profile position: 2D location plus optional rotation.
	var cx, cy, cos, sin float64
	cos = 1
	if pos := f.Deref(profile.Attr(2)); pos != nil {
		if loc := f.Deref(pos.Attr(0)); loc != nil {
			if c, ok := pointCoords(loc); ok {
				cx, cy = c[0], c[1]
			}
		}
		if dir, ok := directionVector(f, pos.Attr(1)); ok {
			n := normalize(dir)
			cos, sin = n[0], n[1]
		}
	}

	hx, hy := xdim/2, ydim/2
	corners := [][2]float64{{-hx, -hy}, {hx, -hy}, {hx, hy}, {-hx, hy}}
	pts := make([][3]float64, 0, 4)
	for _, c := range corners {
		pts = append(pts, [3]float64{
			cx + c[0]*cos - c[1]*sin,
			cy + c[0]*sin + c[1]*cos,
			0,
		})
	}
	return pts, nil
}

func polylinePoints(f *ifc.File, curve *ifc.Entity) ([][3]float64, error) {
	if curve == nil || curve.Type != "IFCPOLYLINE" {
		name := "missing curve"
		if curve != nil {
			name = curve.Type
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, name)
	}
	refs, ok := curve.ListAttr(0)
	if !ok || len(refs) == 0 {
		return nil, fmt.Errorf("%w: polyline #%d is empty", ErrUnsupportedGeometry, curve.ID)
	}

	pts := make([][3]float64, 0, len(refs))
	for _, ref := range refs {
		pt := f.Deref(ref)
		if pt == nil || pt.Type != "IFCCARTESIANPOINT" {
			return nil, fmt.Errorf("%w: polyline #%d has a non-point vertex", ErrUnsupportedGeometry, curve.ID)
		}
		c, ok := pointCoords(pt)
		if !ok {
			return nil, fmt.Errorf("%w: malformed point #%d", ErrUnsupportedGeometry, pt.ID)
		}
		pts = append(pts, c)
	}
	return pts, nil
}

// pointCoords reads an IfcCartesianPoint's 2D or 3D coordinates.
func pointCoords(pt *ifc.Entity) ([3]float64, bool) {
	coords, ok := pt.ListAttr(0)
	if !ok || len(coords) < 2 || len(coords) > 3 {
		return [3]float64{}, false
	}
	var out [3]float64
	for i, c := range coords {
		v, ok := floatValue(c)
		if !ok {
			return [3]float64{}, false
		}
		out[i] = v
	}
	return out, true
}

func directionVector(f *ifc.File, v ifc.Value) ([3]float64, bool) {
	dir := f.Deref(v)
	if dir == nil || dir.Type != "IFCDIRECTION" {
		return [3]float64{}, false
	}
	return pointCoords(dir)
}

func floatValue(v ifc.Value) (float64, bool) {
	switch n := v.(type) {
	case ifc.Float:
		return float64(n), true
	case ifc.Int:
		return float64(n), true
	}
	return 0, false
}
