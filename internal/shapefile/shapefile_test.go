package shapefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimshape/gis2bim/internal/shapefile/shptest"
)

func writePointFixture(t *testing.T, path string, points []shp.Point, objtypes []string) {
	t.Helper()
	shptest.WritePoints(t, path, points, objtypes)
}

func writeLineFixture(t *testing.T, path string, parts [][]shp.Point) {
	t.Helper()
	shptest.WriteLines(t, path, parts, "Veg")
}

func writePolygonFixture(t *testing.T, path string, ring []shp.Point) {
	t.Helper()
	shptest.WritePolygon(t, path, [][]shp.Point{ring}, "Bygning")
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writePointFixture(t, filepath.Join(dir, "b_points.shp"), []shp.Point{{X: 1, Y: 2}}, []string{"x"})
	writePointFixture(t, filepath.Join(dir, "a_points.shp"), []shp.Point{{X: 1, Y: 2}}, []string{"x"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("n"), 0o644))

	paths, err := List(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "a_points.shp"), paths[0])
	assert.Equal(t, filepath.Join(dir, "b_points.shp"), paths[1])
}

func TestList_MissingFolder(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestRead_Points(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.shp")
	writePointFixture(t, path,
		[]shp.Point{{X: 10, Y: 20}, {X: 30, Y: 40}},
		[]string{"Hydrant", ""})

	features, skips, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, skips)
	require.Len(t, features, 2)

	assert.Equal(t, orb.Point{10, 20}, features[0].Geometry)
	assert.Equal(t, map[string]string{"OBJTYPE": "Hydrant"}, features[0].Attributes)

	// Empty attribute values are dropped.
	assert.Empty(t, features[1].Attributes)
}

func TestRead_PolyLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.shp")
	writeLineFixture(t, path, [][]shp.Point{{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}}})

	features, skips, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, skips)
	require.Len(t, features, 1)

	ls, ok := features[0].Geometry.(orb.LineString)
	require.True(t, ok, "want LineString, got %T", features[0].Geometry)
	assert.Equal(t, orb.LineString{{0, 0}, {5, 0}, {5, 5}}, ls)
}

func TestRead_MultiPartPolyLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.shp")
	writeLineFixture(t, path, [][]shp.Point{
		{{X: 0, Y: 0}, {X: 5, Y: 0}},
		{{X: 10, Y: 0}, {X: 15, Y: 0}},
	})

	features, _, err := Read(path)
	require.NoError(t, err)
	require.Len(t, features, 1)

	ml, ok := features[0].Geometry.(orb.MultiLineString)
	require.True(t, ok, "want MultiLineString, got %T", features[0].Geometry)
	assert.Len(t, ml, 2)
}

func TestRead_PolygonRingClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polys.shp")
	// Unclosed ring in the source; reading closes it.
	writePolygonFixture(t, path, []shp.Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	})

	features, _, err := Read(path)
	require.NoError(t, err)
	require.Len(t, features, 1)

	poly, ok := features[0].Geometry.(orb.Polygon)
	require.True(t, ok, "want Polygon, got %T", features[0].Geometry)
	require.Len(t, poly, 1)
	ring := poly[0]
	require.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[len(ring)-1])
	assert.Equal(t, "Bygning", features[0].Attributes["OBJTYPE"])
}

func TestRead_MissingFile(t *testing.T) {
	_, _, err := Read(filepath.Join(t.TempDir(), "nope.shp"))
	assert.Error(t, err)
}
