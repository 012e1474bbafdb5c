package geometry

import (
	"fmt"
	"math"

	"github.com/bimshape/gis2bim/internal/ifc"
)

// transform is a rigid placement: rotation columns x/y/z plus translation.
type transform struct {
	x, y, z [3]float64
	t       [3]float64
}

func identityTransform() transform {
	return transform{
		x: [3]float64{1, 0, 0},
		y: [3]float64{0, 1, 0},
		z: [3]float64{0, 0, 1},
	}
}

// apply maps a local point into the parent frame.
func (tr transform) apply(p [3]float64) [3]float64 {
	return add(tr.t, tr.rotate(p))
}

// rotate maps a local vector into the parent frame, ignoring translation.
func (tr transform) rotate(v [3]float64) [3]float64 {
	return [3]float64{
		tr.x[0]*v[0] + tr.y[0]*v[1] + tr.z[0]*v[2],
		tr.x[1]*v[0] + tr.y[1]*v[1] + tr.z[1]*v[2],
		tr.x[2]*v[0] + tr.y[2]*v[1] + tr.z[2]*v[2],
	}
}

// compose returns the transform that applies child first, then parent.
func (tr transform) compose(child transform) transform {
	return transform{
		x: tr.rotate(child.x),
		y: tr.rotate(child.y),
		z: tr.rotate(child.z),
		t: tr.apply(child.t),
	}
}

// placementTransform resolves an IfcLocalPlacement chain into a single
// world transform. A nil placement is the identity.
func placementTransform(f *ifc.File, placement *ifc.Entity, depth int) (transform, error) {
	if placement == nil {
		return identityTransform(), nil
	}
	if depth > maxPlacementDepth {
		return transform{}, fmt.Errorf("placement chain too deep at #%d", placement.ID)
	}
	if placement.Type != "IFCLOCALPLACEMENT" {
		return transform{}, fmt.Errorf("%w: placement type %s", ErrUnsupportedGeometry, placement.Type)
	}

	parent, err := placementTransform(f, f.Deref(placement.Attr(0)), depth+1)
	if err != nil {
		return transform{}, err
	}
	local, err := axisTransform3(f, f.Deref(placement.Attr(1)))
	if err != nil {
		return transform{}, err
	}
	return parent.compose(local), nil
}

// axisTransform3 converts an IfcAxis2Placement3D into a transform. A nil
// placement is the identity.
func axisTransform3(f *ifc.File, placement *ifc.Entity) (transform, error) {
	if placement == nil {
		return identityTransform(), nil
	}
	if placement.Type != "IFCAXIS2PLACEMENT3D" {
		return transform{}, fmt.Errorf("%w: axis placement type %s", ErrUnsupportedGeometry, placement.Type)
	}

	tr := identityTransform()
	if loc := f.Deref(placement.Attr(0)); loc != nil {
		if c, ok := pointCoords(loc); ok {
			tr.t = c
		}
	}

	zAxis := [3]float64{0, 0, 1}
	if dir, ok := directionVector(f, placement.Attr(1)); ok {
		zAxis = normalize(dir)
	}
	xAxis := [3]float64{1, 0, 0}
	if dir, ok := directionVector(f, placement.Attr(2)); ok {
		xAxis = dir
	}

	// Gram-Schmidt: project the reference direction off the axis.
	xAxis = sub(xAxis, scale(zAxis, dot(xAxis, zAxis)))
	if length(xAxis) < 1e-9 {
		xAxis = perpendicular(zAxis)
	}
	xAxis = normalize(xAxis)

	tr.x = xAxis
	tr.z = zAxis
	tr.y = cross(zAxis, xAxis)
	return tr, nil
}

func add(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func scale(v [3]float64, s float64) [3]float64 {
	return [3]float64{v[0] * s, v[1] * s, v[2] * s}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func length(v [3]float64) float64 {
	return math.Sqrt(dot(v, v))
}

func normalize(v [3]float64) [3]float64 {
	l := length(v)
	if l == 0 {
		return [3]float64{0, 0, 1}
	}
	return scale(v, 1/l)
}

// perpendicular returns an arbitrary unit vector orthogonal to v.
func perpendicular(v [3]float64) [3]float64 {
	other := [3]float64{1, 0, 0}
	if math.Abs(v[0]) > 0.9 {
		other = [3]float64{0, 1, 0}
	}
	return normalize(cross(v, other))
}
