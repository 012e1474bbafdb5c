package geometry

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Candidate is one target matched against a source footprint, ranked by
// planar distance from the target centroid to the footprint's bbox center.
type Candidate struct {
	TargetID string
	Distance float64
}

// Match pairs every source footprint bounding box against every target
// centroid. A target matches when its centroid lies strictly inside the
// source bbox in the xy plane. Every source keeps an entry, candidates
// sorted ascending by distance; sources with no candidates keep an empty
// list so callers can report them.
func Match(sources, targets map[string]Record) map[string][]Candidate {
	matches := make(map[string][]Candidate, len(sources))

	targetIDs := sortedIDs(targets)
	for sourceID, source := range sources {
		center := source.BBox.Center()
		centerPt := orb.Point{center[0], center[1]}

		candidates := []Candidate{}
		for _, targetID := range targetIDs {
			c := targets[targetID].Centroid
			if !source.BBox.ContainsXY(c[0], c[1]) {
				continue
			}
			candidates = append(candidates, Candidate{
				TargetID: targetID,
				Distance: planar.Distance(orb.Point{c[0], c[1]}, centerPt),
			})
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Distance < candidates[j].Distance
		})
		matches[sourceID] = candidates
	}
	return matches
}

// sortedIDs returns the record ids in lexical order, for deterministic
// candidate ordering among equal distances.
func sortedIDs(records map[string]Record) []string {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
