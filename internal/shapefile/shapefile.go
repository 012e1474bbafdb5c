// Package shapefile reads GIS shapefile datasets into orb geometries plus
// their DBF attribute tables.
package shapefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// Feature is one shapefile record: its geometry and attribute table.
type Feature struct {
	Geometry   orb.Geometry
	Attributes map[string]string
}

// Skip records a feature that could not be converted. Skips are per-record
// and never abort reading a file.
type Skip struct {
	Index  int
	Reason string
}

// List returns all shapefiles in a folder, sorted by name.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input folder: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".shp") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Read loads every feature of one shapefile. Features with unsupported
// shape types are returned as skips.
func Read(path string) ([]Feature, []Skip, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open shapefile %s: %w", path, err)
	}
	defer func() {
		_ = r.Close()
	}()

	fields := r.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimSpace(f.String())
	}

	var features []Feature
	var skips []Skip
	for r.Next() {
		row, shape := r.Shape()

		geom, ok := convertShape(shape)
		if !ok {
			skips = append(skips, Skip{Index: row, Reason: fmt.Sprintf("unsupported shape type %T", shape)})
			continue
		}

		attrs := make(map[string]string, len(fields))
		for col, name := range names {
			value := strings.TrimSpace(strings.Trim(r.ReadAttribute(row, col), "\x00"))
			if value != "" {
				attrs[name] = value
			}
		}
		features = append(features, Feature{Geometry: geom, Attributes: attrs})
	}
	if err := r.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read shapefile %s: %w", path, err)
	}
	return features, skips, nil
}

// convertShape maps a go-shp shape onto an orb geometry. Z and M variants
// are flattened to the plane; heights come from styling rules downstream,
// not from the source geometry.
func convertShape(shape shp.Shape) (orb.Geometry, bool) {
	switch s := shape.(type) {
	case *shp.Point:
		return orb.Point{s.X, s.Y}, true
	case *shp.PointZ:
		return orb.Point{s.X, s.Y}, true
	case *shp.PointM:
		return orb.Point{s.X, s.Y}, true
	case *shp.MultiPoint:
		return multiPoint(s.Points), true
	case *shp.PolyLine:
		return lineGeometry(s.Points, s.Parts), true
	case *shp.PolyLineZ:
		return lineGeometry(s.Points, s.Parts), true
	case *shp.Polygon:
		return polygonGeometry(s.Points, s.Parts), true
	case *shp.PolygonZ:
		return polygonGeometry(s.Points, s.Parts), true
	default:
		return nil, false
	}
}

func multiPoint(points []shp.Point) orb.MultiPoint {
	mp := make(orb.MultiPoint, 0, len(points))
	for _, p := range points {
		mp = append(mp, orb.Point{p.X, p.Y})
	}
	return mp
}

func lineGeometry(points []shp.Point, parts []int32) orb.Geometry {
	segments := splitParts(points, parts)
	if len(segments) == 1 {
		return orb.LineString(segments[0])
	}
	ml := make(orb.MultiLineString, 0, len(segments))
	for _, seg := range segments {
		ml = append(ml, orb.LineString(seg))
	}
	return ml
}

func polygonGeometry(points []shp.Point, parts []int32) orb.Polygon {
	segments := splitParts(points, parts)
	poly := make(orb.Polygon, 0, len(segments))
	for _, seg := range segments {
		ring := orb.Ring(seg)
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}
		poly = append(poly, ring)
	}
	return poly
}

// splitParts slices a shapefile point array at its part offsets.
func splitParts(points []shp.Point, parts []int32) [][]orb.Point {
	if len(parts) == 0 {
		parts = []int32{0}
	}
	var segments [][]orb.Point
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || int(start) > len(points) || end < start {
			continue
		}
		seg := make([]orb.Point, 0, end-start)
		for _, p := range points[start:end] {
			seg = append(seg, orb.Point{p.X, p.Y})
		}
		segments = append(segments, seg)
	}
	return segments
}
