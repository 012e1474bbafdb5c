package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/bimshape/gis2bim/internal/ifc"
	"github.com/bimshape/gis2bim/internal/shapefile"
	"github.com/bimshape/gis2bim/internal/style"
)

// Convert reads every shapefile in the input folder and emits one IFC file
// of styled volume elements. Load failures are fatal; individual feature
// failures become warnings.
func (e *Engine) Convert(req *ConvertRequest) (*ConvertResult, error) {
	start := e.clock.Now()
	req.applyDefaults()

	rules, err := style.LoadRules(req.StyleFile)
	if err != nil {
		return nil, err
	}

	paths, err := shapefile.List(req.InputFolder)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoShapefiles, req.InputFolder)
	}

	model := ifc.NewModel(start)
	applier := style.NewApplier(model.File, rules)

	result := &ConvertResult{
		Shapefiles:   len(paths),
		StylesLoaded: len(rules),
	}

	for _, path := range paths {
		features, skips, err := shapefile.Read(path)
		if err != nil {
			return nil, err
		}
		layer := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		for _, skip := range skips {
			result.Warnings = append(result.Warnings, Warning{
				Stage:  "read",
				ID:     fmt.Sprintf("%s #%d", layer, skip.Index),
				Reason: skip.Reason,
			})
		}
		e.convertFeatures(model, applier, rules, layer, features, req, result)
	}

	outPath := ifc.OutputPath(req.OutputFile)
	if err := model.File.Write(outPath); err != nil {
		return nil, err
	}
	result.OutputFile = outPath
	result.Elapsed = e.clock.Now().Sub(start)
	return result, nil
}

// convertFeatures turns one layer's features into volume elements.
func (e *Engine) convertFeatures(
	model *ifc.Model,
	applier *style.Applier,
	rules []style.Rule,
	layer string,
	features []shapefile.Feature,
	req *ConvertRequest,
	result *ConvertResult,
) {
	for i, feature := range features {
		name := fmt.Sprintf("%s %d", layer, i)

		elements, warn := buildVolumes(model, name, feature.Geometry, req)
		if warn != "" {
			result.Warnings = append(result.Warnings, Warning{Stage: "convert", ID: name, Reason: warn})
		}
		if len(elements) == 0 {
			continue
		}

		styleName, hasStyle := style.Resolve(feature.Attributes, rules)
		for _, element := range elements {
			result.Features++
			model.File.AddAttributeSet(model.OwnerHistory, element, feature.Attributes)

			if !hasStyle {
				continue
			}
			applied, err := applier.Apply(element, styleName)
			if err != nil {
				result.Warnings = append(result.Warnings, Warning{Stage: "style", ID: name, Reason: err.Error()})
				continue
			}
			if applied {
				result.Styled++
			}
		}
	}
}

// buildVolumes creates the volume element(s) for one feature geometry.
// Multi-part geometries yield one element per part. A non-empty warn string
// reports skipped or degenerate parts.
func buildVolumes(model *ifc.Model, name string, geom orb.Geometry, req *ConvertRequest) (elements []*ifc.Entity, warn string) {
	switch g := geom.(type) {
	case orb.Point:
		return []*ifc.Entity{model.AddPointVolume(name, g[0], g[1], req.PointSize)}, ""

	case orb.MultiPoint:
		for _, p := range g {
			elements = append(elements, model.AddPointVolume(name, p[0], p[1], req.PointSize))
		}
		return elements, ""

	case orb.LineString:
		if len(g) < 2 {
			return nil, "line has fewer than 2 points"
		}
		return []*ifc.Entity{model.AddLineVolume(name, linePath(g), req.LineRadius)}, ""

	case orb.MultiLineString:
		for _, ls := range g {
			if len(ls) < 2 {
				warn = "line part has fewer than 2 points"
				continue
			}
			elements = append(elements, model.AddLineVolume(name, linePath(ls), req.LineRadius))
		}
		return elements, warn

	case orb.Polygon:
		if len(g) == 0 {
			return nil, "polygon has no rings"
		}
		// Rings wound like the first ring are outer rings; opposite winding
		// marks a hole, which the extruded profile cannot represent.
		outer := g[0].Orientation()
		for _, ring := range g {
			if len(ring) < 4 || planar.Area(ring) == 0 {
				warn = "degenerate polygon ring with zero area"
				continue
			}
			if ring.Orientation() != outer {
				warn = "interior ring dropped"
				continue
			}
			elements = append(elements, model.AddPolygonVolume(name, ringPath(ring[:len(ring)-1]), req.PolygonDepth))
		}
		return elements, warn

	default:
		return nil, fmt.Sprintf("unsupported geometry type %T", geom)
	}
}

func linePath(ls orb.LineString) [][2]float64 {
	path := make([][2]float64, len(ls))
	for i, p := range ls {
		path[i] = [2]float64{p[0], p[1]}
	}
	return path
}

func ringPath(ring orb.Ring) [][2]float64 {
	path := make([][2]float64, len(ring))
	for i, p := range ring {
		path[i] = [2]float64{p[0], p[1]}
	}
	return path
}
