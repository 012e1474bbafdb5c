package engine

import "time"

// ConvertResult summarizes one conversion run.
type ConvertResult struct {
	// Shapefiles is the number of shapefiles processed.
	Shapefiles int

	// Features is the number of features converted into volumes.
	Features int

	// Styled is the number of elements that received a style.
	Styled int

	// StylesLoaded is the number of style rules in the configuration.
	StylesLoaded int

	// OutputFile is the path actually written.
	OutputFile string

	// Warnings lists per-record failures and data-quality notes.
	Warnings []Warning

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// ReconcileResult summarizes one reconciliation run.
type ReconcileResult struct {
	// SourceRecords is the number of footprint geometries extracted.
	SourceRecords int

	// TargetRecords is the number of volume geometries extracted.
	TargetRecords int

	// MatchedSources is the number of footprints with at least one
	// overlapping volume.
	MatchedSources int

	// UnmatchedSources lists footprints with no overlapping volume.
	UnmatchedSources []string

	// TotalMatches is the number of footprint/volume pairs processed.
	TotalMatches int

	// PropertySetsCopied is the number of property sets cloned onto targets.
	PropertySetsCopied int

	// Styled is the number of elements that received a style.
	Styled int

	// StylesLoaded is the number of style rules in the configuration.
	StylesLoaded int

	// OutputFile is the path actually written.
	OutputFile string

	// Warnings lists per-record failures and data-quality notes.
	Warnings []Warning

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}
