// Package geometry derives spatial summaries from IFC products and pairs
// footprints with volumes by overlap.
//
// Extraction evaluates each product's placement chain and swept-solid
// representation into world-space vertices, then reduces them to a centroid
// and axis-aligned bounding box. Matching is a deliberate O(n*m) scan: the
// datasets are single-run batches of buildings, not an online index.
package geometry

// BBox is an axis-aligned bounding box.
type BBox struct {
	Min [3]float64
	Max [3]float64
}

// Center returns the box center.
func (b BBox) Center() [3]float64 {
	return [3]float64{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// ContainsXY reports whether the planar point lies strictly inside the box
// in x and y. Boundary-touching points do not count; z is ignored.
func (b BBox) ContainsXY(x, y float64) bool {
	return b.Min[0] < x && x < b.Max[0] && b.Min[1] < y && y < b.Max[1]
}

// Record is the spatial summary of one product. The authoritative geometry
// stays in the owning ifc.File; EntityID is the handle back into it.
type Record struct {
	// ID is the product's GlobalId, unique within its file.
	ID string

	// Centroid is the arithmetic mean of all evaluated vertices.
	Centroid [3]float64

	// BBox is the per-axis min/max over all evaluated vertices.
	BBox BBox

	// EntityID is the product's entity id in the owning file.
	EntityID int
}

// Skip records a product that could not be evaluated. Extraction failures
// are per-record and never abort a run.
type Skip struct {
	ID   string
	Type string
	Err  error
}
