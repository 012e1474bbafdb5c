package engine

// ConvertRequest describes one shapefile-folder conversion run.
type ConvertRequest struct {
	// InputFolder contains the shapefile datasets to convert.
	InputFolder string

	// OutputFile is the IFC file to write. ".ifc" is appended when the
	// path carries no recognized extension; ".gz" enables compression.
	OutputFile string

	// StyleFile is the JSON style configuration.
	StyleFile string

	// PointSize is the cube edge length for point features (default 2).
	PointSize float64

	// LineRadius is the swept-disk radius for line features (default 0.1).
	LineRadius float64

	// PolygonDepth is the extrusion depth for polygon features (default 0.1).
	PolygonDepth float64
}

// ReconcileRequest describes one footprint/volume reconciliation run.
type ReconcileRequest struct {
	// FootprintFile is the IFC file with the 2D footprints (property and
	// style source).
	FootprintFile string

	// TargetFile is the IFC file with the 3D volumes to enrich.
	TargetFile string

	// OutputFile is the updated IFC file to write.
	OutputFile string

	// StyleFile is the JSON style configuration.
	StyleFile string
}

// Default feature sizes, matching the original tool's hardcoded values.
const (
	DefaultPointSize    = 2.0
	DefaultLineRadius   = 0.1
	DefaultPolygonDepth = 0.1
)

func (r *ConvertRequest) applyDefaults() {
	if r.PointSize <= 0 {
		r.PointSize = DefaultPointSize
	}
	if r.LineRadius <= 0 {
		r.LineRadius = DefaultLineRadius
	}
	if r.PolygonDepth <= 0 {
		r.PolygonDepth = DefaultPolygonDepth
	}
}
