package engine

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bimshape/gis2bim/internal/ifc"
)

const bygningStyles = `{
	"Bygning": {"color": [200, 30, 30], "attribute": "OBJTYPE", "values": ["Bygning"]}
}`

// writeFootprintFile writes an IFC file with one 10x10 footprint at the
// origin, carrying an attribute set plus one reserved property set.
func writeFootprintFile(t *testing.T, path string) {
	t.Helper()
	m := ifc.NewModel(testStart)
	element := m.AddPolygonVolume("footprint 0",
		[][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, 0.1)
	m.File.AddAttributeSet(m.OwnerHistory, element, map[string]string{
		"OBJTYPE":    "Bygning",
		"bygningsnr": "42",
	})

	reserved := m.File.AddPropertySet(m.OwnerHistory, "Pset_Internal", ifc.Null{}, []ifc.Property{
		{Name: "secret", Value: ifc.Str("do not copy")},
	})
	m.File.RelDefines(m.OwnerHistory, element, reserved)

	if err := m.File.Write(path); err != nil {
		t.Fatalf("failed to write footprint file: %v", err)
	}
}

// writeTargetFile writes an IFC file with one volume whose centroid sits at
// the given location.
func writeTargetFile(t *testing.T, path string, x, y float64) {
	t.Helper()
	m := ifc.NewModel(testStart)
	m.AddPointVolume("volume 0", x, y, 2)
	if err := m.File.Write(path); err != nil {
		t.Fatalf("failed to write target file: %v", err)
	}
}

func TestReconcile_CopiesPropertiesAndStyles(t *testing.T) {
	dir := t.TempDir()
	footprint := filepath.Join(dir, "footprint.ifc")
	target := filepath.Join(dir, "target.ifc")
	out := filepath.Join(dir, "out.ifc")
	writeFootprintFile(t, footprint)
	writeTargetFile(t, target, 5, 5)

	eng := newTestEngine()
	result, err := eng.Reconcile(&ReconcileRequest{
		FootprintFile: footprint,
		TargetFile:    target,
		OutputFile:    out,
		StyleFile:     writeStyles(t, bygningStyles),
	})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if result.SourceRecords != 1 || result.TargetRecords != 1 {
		t.Errorf("records = %d/%d, want 1/1", result.SourceRecords, result.TargetRecords)
	}
	if result.MatchedSources != 1 {
		t.Errorf("MatchedSources = %d, want 1", result.MatchedSources)
	}
	if result.TotalMatches != 1 {
		t.Errorf("TotalMatches = %d, want 1", result.TotalMatches)
	}
	if result.PropertySetsCopied != 1 {
		t.Errorf("PropertySetsCopied = %d, want 1 (reserved set must be skipped)", result.PropertySetsCopied)
	}
	if result.Styled != 1 {
		t.Errorf("Styled = %d, want 1", result.Styled)
	}
	if len(result.UnmatchedSources) != 0 {
		t.Errorf("UnmatchedSources = %v, want none", result.UnmatchedSources)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	// The enriched target carries the footprint's attributes and style.
	enriched, err := ifc.Open(out)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	proxies := enriched.ByType("IFCBUILDINGELEMENTPROXY")
	if len(proxies) != 1 {
		t.Fatalf("got %d proxies, want 1", len(proxies))
	}
	attrs := enriched.ElementAttributes(proxies[0])
	if attrs["OBJTYPE"] != "Bygning" {
		t.Errorf("attribute OBJTYPE = %q, want Bygning", attrs["OBJTYPE"])
	}
	if attrs["bygningsnr"] != "42" {
		t.Errorf("attribute bygningsnr = %q, want 42", attrs["bygningsnr"])
	}
	if _, present := attrs["secret"]; present {
		t.Error("reserved property set was copied")
	}
	if len(enriched.ByType("IFCSTYLEDITEM")) != 1 {
		t.Errorf("got %d styled items, want 1", len(enriched.ByType("IFCSTYLEDITEM")))
	}

	// Inputs are never modified.
	original, err := ifc.Open(target)
	if err != nil {
		t.Fatalf("failed to reopen target: %v", err)
	}
	if len(original.ByType("IFCSTYLEDITEM")) != 0 {
		t.Error("target input file was modified")
	}
}

func TestReconcile_UnmatchedFootprint(t *testing.T) {
	dir := t.TempDir()
	footprint := filepath.Join(dir, "footprint.ifc")
	target := filepath.Join(dir, "target.ifc")
	writeFootprintFile(t, footprint)
	// Centroid (50, 50) is outside the footprint bbox.
	writeTargetFile(t, target, 50, 50)

	eng := newTestEngine()
	result, err := eng.Reconcile(&ReconcileRequest{
		FootprintFile: footprint,
		TargetFile:    target,
		OutputFile:    filepath.Join(dir, "out.ifc"),
		StyleFile:     writeStyles(t, bygningStyles),
	})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if result.MatchedSources != 0 {
		t.Errorf("MatchedSources = %d, want 0", result.MatchedSources)
	}
	if len(result.UnmatchedSources) != 1 {
		t.Fatalf("UnmatchedSources = %v, want 1 entry", result.UnmatchedSources)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Stage != "match" {
		t.Errorf("warnings = %v, want one match warning", result.Warnings)
	}
	if result.PropertySetsCopied != 0 {
		t.Errorf("PropertySetsCopied = %d, want 0", result.PropertySetsCopied)
	}
}

func TestReconcile_BoundaryCentroidDoesNotMatch(t *testing.T) {
	dir := t.TempDir()
	footprint := filepath.Join(dir, "footprint.ifc")
	target := filepath.Join(dir, "target.ifc")
	writeFootprintFile(t, footprint)
	// Centroid exactly on the bbox corner; strict containment excludes it.
	writeTargetFile(t, target, 10, 10)

	eng := newTestEngine()
	result, err := eng.Reconcile(&ReconcileRequest{
		FootprintFile: footprint,
		TargetFile:    target,
		OutputFile:    filepath.Join(dir, "out.ifc"),
		StyleFile:     writeStyles(t, bygningStyles),
	})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if result.MatchedSources != 0 {
		t.Errorf("MatchedSources = %d, want 0", result.MatchedSources)
	}
}

func TestReconcile_TargetWithoutOwnerHistory(t *testing.T) {
	dir := t.TempDir()
	footprint := filepath.Join(dir, "footprint.ifc")
	writeFootprintFile(t, footprint)

	bare := ifc.NewFile()
	bare.Timestamp = testStart
	bare.Add("IFCBUILDINGELEMENTPROXY",
		ifc.Str(ifc.NewGUID()), ifc.Null{}, ifc.Str("orphan"), ifc.Null{}, ifc.Null{},
		ifc.Null{}, ifc.Null{}, ifc.Null{}, ifc.Null{})
	target := filepath.Join(dir, "bare.ifc")
	if err := bare.Write(target); err != nil {
		t.Fatalf("failed to write bare target: %v", err)
	}

	eng := newTestEngine()
	_, err := eng.Reconcile(&ReconcileRequest{
		FootprintFile: footprint,
		TargetFile:    target,
		OutputFile:    filepath.Join(dir, "out.ifc"),
		StyleFile:     writeStyles(t, bygningStyles),
	})
	if !errors.Is(err, ErrNoOwnerHistory) {
		t.Errorf("error = %v, want ErrNoOwnerHistory", err)
	}
}

func TestReconcile_MissingInput(t *testing.T) {
	dir := t.TempDir()
	footprint := filepath.Join(dir, "footprint.ifc")
	writeFootprintFile(t, footprint)

	eng := newTestEngine()
	_, err := eng.Reconcile(&ReconcileRequest{
		FootprintFile: footprint,
		TargetFile:    filepath.Join(dir, "missing.ifc"),
		OutputFile:    filepath.Join(dir, "out.ifc"),
		StyleFile:     writeStyles(t, bygningStyles),
	})
	if err == nil {
		t.Fatal("expected an error for a missing target file")
	}
}

func TestCopyProperties_OnlyReservedSets(t *testing.T) {
	source := ifc.NewModel(testStart)
	sourceElem := source.AddPointVolume("src", 0, 0, 1)
	for _, name := range []string{"Pset_WallCommon", "Qto_WallBaseQuantities", "BaseQuantities"} {
		pset := source.File.AddPropertySet(source.OwnerHistory, name, ifc.Null{}, []ifc.Property{
			{Name: "x", Value: ifc.Str("y")},
		})
		source.File.RelDefines(source.OwnerHistory, sourceElem, pset)
	}

	target := ifc.NewModel(testStart)
	targetElem := target.AddPointVolume("tgt", 0, 0, 1)

	copied, warnings := copyProperties(source.File, sourceElem, target.File, targetElem, target.OwnerHistory)
	if copied != 0 {
		t.Errorf("copied = %d, want 0", copied)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if got := target.File.DefinedPropertySets(targetElem); len(got) != 0 {
		t.Errorf("target gained %d property sets, want 0", len(got))
	}
}

func TestCopyProperties_PreservesValueTuples(t *testing.T) {
	source := ifc.NewModel(testStart)
	sourceElem := source.AddPointVolume("src", 0, 0, 1)
	pset := source.File.AddPropertySet(source.OwnerHistory, "Survey", ifc.Null{}, []ifc.Property{
		{Name: "objtype", Value: ifc.Typed{Type: "IFCLABEL", Value: ifc.Str("Bygning")}},
		{Name: "floors", Value: ifc.Int(3)},
	})
	source.File.RelDefines(source.OwnerHistory, sourceElem, pset)

	target := ifc.NewModel(testStart)
	targetElem := target.AddPointVolume("tgt", 0, 0, 1)

	copied, warnings := copyProperties(source.File, sourceElem, target.File, targetElem, target.OwnerHistory)
	if copied != 1 {
		t.Fatalf("copied = %d, want 1", copied)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	got := target.File.DefinedPropertySets(targetElem)
	if len(got) != 1 {
		t.Fatalf("target has %d property sets, want 1", len(got))
	}
	props := target.File.Properties(got[0])
	if len(props) != 2 {
		t.Fatalf("cloned set has %d properties, want 2", len(props))
	}
	if v := props[0].Attr(2); v != (ifc.Typed{Type: "IFCLABEL", Value: ifc.Str("Bygning")}) {
		t.Errorf("objtype value = %v, want wrapped label", v)
	}
	if v := props[1].Attr(2); v != ifc.Int(3) {
		t.Errorf("floors value = %v, want Int(3)", v)
	}
}

func TestCopyProperties_ReservedPrefixes(t *testing.T) {
	for _, name := range []string{"Pset_X", "Qto_Area", "GSA_Thing", "BaseQuantities", "CommonSet"} {
		if !reserved(name) {
			t.Errorf("reserved(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"FKB egenskaper", "Survey", "pset_lower"} {
		if reserved(name) {
			t.Errorf("reserved(%q) = true, want false", name)
		}
	}
}
