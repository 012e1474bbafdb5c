package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonas-p/go-shp"

	"github.com/bimshape/gis2bim/internal/clock"
	"github.com/bimshape/gis2bim/internal/engine"
	"github.com/bimshape/gis2bim/internal/ifc"
	"github.com/bimshape/gis2bim/internal/shapefile/shptest"
)

// TestConvertThenReconcile_FullCycle drives both pipelines back to back: a
// polygon shapefile becomes a footprint model, which then enriches a
// separately built volume model.
func TestConvertThenReconcile_FullCycle(t *testing.T) {
	workDir := t.TempDir()
	clk := clock.NewFakeClock(time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC))
	eng := engine.New(clk)

	// A building footprint around the origin.
	shpDir := filepath.Join(workDir, "shapefiles")
	if err := os.MkdirAll(shpDir, 0o755); err != nil {
		t.Fatalf("failed to create shapefile dir: %v", err)
	}
	writeBuildingShapefile(t, filepath.Join(shpDir, "buildings.shp"))

	styleFile := filepath.Join(workDir, "styles.json")
	doc := `{"Bygning": {"color": [200, 30, 30], "attribute": "OBJTYPE", "values": ["Bygning"]}}`
	if err := os.WriteFile(styleFile, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write style file: %v", err)
	}

	// Convert: shapefile folder -> footprint model.
	footprintFile := filepath.Join(workDir, "footprints.ifc")
	convResult, err := eng.Convert(&engine.ConvertRequest{
		InputFolder: shpDir,
		OutputFile:  footprintFile,
		StyleFile:   styleFile,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if convResult.Features != 1 {
		t.Fatalf("Features = %d, want 1", convResult.Features)
	}

	// An independently built volume model with its centroid inside the
	// footprint.
	targetFile := filepath.Join(workDir, "volumes.ifc")
	m := ifc.NewModel(clk.Now())
	m.AddPointVolume("building volume", 5, 5, 2)
	if err := m.File.Write(targetFile); err != nil {
		t.Fatalf("failed to write target model: %v", err)
	}

	// Reconcile: footprint attributes and style land on the volume.
	outFile := filepath.Join(workDir, "enriched.ifc")
	recResult, err := eng.Reconcile(&engine.ReconcileRequest{
		FootprintFile: footprintFile,
		TargetFile:    targetFile,
		OutputFile:    outFile,
		StyleFile:     styleFile,
	})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if recResult.MatchedSources != 1 {
		t.Errorf("MatchedSources = %d, want 1", recResult.MatchedSources)
	}
	if recResult.PropertySetsCopied != 1 {
		t.Errorf("PropertySetsCopied = %d, want 1", recResult.PropertySetsCopied)
	}
	if recResult.Styled != 1 {
		t.Errorf("Styled = %d, want 1", recResult.Styled)
	}

	enriched, err := ifc.Open(outFile)
	if err != nil {
		t.Fatalf("failed to open enriched model: %v", err)
	}
	proxies := enriched.ByType("IFCBUILDINGELEMENTPROXY")
	if len(proxies) != 1 {
		t.Fatalf("got %d proxies, want 1", len(proxies))
	}
	attrs := enriched.ElementAttributes(proxies[0])
	if attrs["OBJTYPE"] != "Bygning" {
		t.Errorf("attribute OBJTYPE = %q, want Bygning", attrs["OBJTYPE"])
	}
	if attrs["KOMMUNE"] != "Oslo" {
		t.Errorf("attribute KOMMUNE = %q, want Oslo", attrs["KOMMUNE"])
	}
	if len(enriched.ByType("IFCSTYLEDITEM")) != 1 {
		t.Errorf("got %d styled items, want 1", len(enriched.ByType("IFCSTYLEDITEM")))
	}
}

func writeBuildingShapefile(t *testing.T, path string) {
	t.Helper()
	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{
		{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
	}))
	shptest.Write(t, path, shp.POLYGON,
		[]shp.Shape{&poly},
		[]shp.Field{
			shp.StringField("OBJTYPE", 25),
			shp.StringField("KOMMUNE", 25),
		},
		[][]string{{"Bygning", "Oslo"}})
}
