// Package shptest writes shapefile fixtures for tests.
//
// go-shp's writer names the sidecar files it creates "<base>dbf" and
// "<base>shx" (no dot) while its reader opens "<base>.dbf"; Write renames
// them after close so fixtures read back with their attribute tables.
package shptest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
)

// Write creates a shapefile at path with the given shapes and one attribute
// row per shape.
func Write(t testing.TB, path string, shapeType shp.ShapeType, shapes []shp.Shape, fields []shp.Field, attrs [][]string) {
	t.Helper()

	w, err := shp.Create(path, shapeType)
	if err != nil {
		t.Fatalf("failed to create shapefile %s: %v", path, err)
	}
	w.SetFields(fields)
	for n, shape := range shapes {
		w.Write(shape)
		if n >= len(attrs) {
			continue
		}
		for col, value := range attrs[n] {
			w.WriteAttribute(n, col, value)
		}
	}
	w.Close()

	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range []string{"dbf", "shx"} {
		misnamed := base + ext
		if _, err := os.Stat(misnamed); err != nil {
			continue
		}
		if err := os.Rename(misnamed, base+"."+ext); err != nil {
			t.Fatalf("failed to rename %s: %v", misnamed, err)
		}
	}
}

// objtypeFields is the single-column attribute table most fixtures use.
var objtypeFields = []shp.Field{shp.StringField("OBJTYPE", 25)}

// WritePoints creates a point shapefile with one OBJTYPE attribute per point.
func WritePoints(t testing.TB, path string, points []shp.Point, objtypes []string) {
	t.Helper()
	shapes := make([]shp.Shape, len(points))
	attrs := make([][]string, len(points))
	for n := range points {
		shapes[n] = &points[n]
		attrs[n] = []string{objtypes[n]}
	}
	Write(t, path, shp.POINT, shapes, objtypeFields, attrs)
}

// WriteLines creates a polyline shapefile with a single multi-part record.
func WriteLines(t testing.TB, path string, parts [][]shp.Point, objtype string) {
	t.Helper()
	Write(t, path, shp.POLYLINE,
		[]shp.Shape{shp.NewPolyLine(parts)},
		objtypeFields, [][]string{{objtype}})
}

// WritePolygon creates a polygon shapefile with a single record made of the
// given rings.
func WritePolygon(t testing.TB, path string, rings [][]shp.Point, objtype string) {
	t.Helper()
	poly := shp.Polygon(*shp.NewPolyLine(rings))
	Write(t, path, shp.POLYGON,
		[]shp.Shape{&poly},
		objtypeFields, [][]string{{objtype}})
}
