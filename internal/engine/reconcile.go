package engine

import (
	"fmt"
	"sort"

	"github.com/bimshape/gis2bim/internal/geometry"
	"github.com/bimshape/gis2bim/internal/ifc"
	"github.com/bimshape/gis2bim/internal/style"
)

// Reconcile copies properties and styles from the 2D footprint file onto the
// overlapping volumes of the target file, then writes the updated target.
//
// The run is a linear state machine: load, extract, match, reconcile, save.
// Failures before extraction (either input, the style file, a target with no
// owner history) are fatal; everything after is per-record.
func (e *Engine) Reconcile(req *ReconcileRequest) (*ReconcileResult, error) {
	start := e.clock.Now()

	rules, err := style.LoadRules(req.StyleFile)
	if err != nil {
		return nil, err
	}

	footprint, err := ifc.Open(req.FootprintFile)
	if err != nil {
		return nil, err
	}
	target, err := ifc.Open(req.TargetFile)
	if err != nil {
		return nil, err
	}

	histories := target.ByType("IFCOWNERHISTORY")
	if len(histories) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoOwnerHistory, req.TargetFile)
	}
	ownerHistory := histories[0]

	result := &ReconcileResult{StylesLoaded: len(rules)}

	// Extracted.
	sources, sourceSkips := geometry.Extract(footprint)
	targets, targetSkips := geometry.Extract(target)
	result.SourceRecords = len(sources)
	result.TargetRecords = len(targets)
	addSkips(result, "extract footprint", sourceSkips)
	addSkips(result, "extract target", targetSkips)

	// Matched.
	matches := geometry.Match(sources, targets)

	// Reconciled.
	applier := style.NewApplier(target, rules)
	sourceIDs := make([]string, 0, len(matches))
	for id := range matches {
		sourceIDs = append(sourceIDs, id)
	}
	sort.Strings(sourceIDs)

	for _, sourceID := range sourceIDs {
		candidates := matches[sourceID]
		if len(candidates) == 0 {
			result.UnmatchedSources = append(result.UnmatchedSources, sourceID)
			result.Warnings = append(result.Warnings, Warning{
				Stage:  "match",
				ID:     sourceID,
				Reason: "no overlapping target found",
			})
			continue
		}
		result.MatchedSources++

		sourceElem := footprint.ByGUID(sourceID)
		if sourceElem == nil {
			continue
		}

		for _, candidate := range candidates {
			targetElem := target.ByID(targets[candidate.TargetID].EntityID)
			if targetElem == nil {
				continue
			}
			result.TotalMatches++

			copied, warnings := copyProperties(footprint, sourceElem, target, targetElem, ownerHistory)
			result.PropertySetsCopied += copied
			result.Warnings = append(result.Warnings, warnings...)

			attrs := target.ElementAttributes(targetElem)
			styleName, ok := style.Resolve(attrs, rules)
			if !ok {
				continue
			}
			applied, err := applier.Apply(targetElem, styleName)
			if err != nil {
				result.Warnings = append(result.Warnings, Warning{
					Stage:  "style",
					ID:     candidate.TargetID,
					Reason: err.Error(),
				})
				continue
			}
			if applied {
				result.Styled++
			}
		}
	}

	// Saved.
	outPath := ifc.OutputPath(req.OutputFile)
	if err := target.Write(outPath); err != nil {
		return nil, err
	}
	result.OutputFile = outPath
	result.Elapsed = e.clock.Now().Sub(start)
	return result, nil
}

func addSkips(result *ReconcileResult, stage string, skips []geometry.Skip) {
	for _, skip := range skips {
		id := skip.ID
		if id == "" {
			id = skip.Type
		}
		result.Warnings = append(result.Warnings, Warning{
			Stage:  stage,
			ID:     id,
			Reason: skip.Err.Error(),
		})
	}
}
