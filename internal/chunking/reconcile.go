package chunking

import (
	"sort"
	"strings"
)

// ReconcileRelationships merges per-batch relationship suggestions into one
// deduplicated list. Suggestions are dropped when they are self-loops or
// reference node IDs outside knownIDs. Duplicates (same source, target, and
// kind) keep the highest confidence and the longer reason on ties.
// Output ordering is deterministic: confidence descending, then source,
// target, kind ascending.
func ReconcileRelationships(batches [][]Relationship, knownIDs map[string]bool) []Relationship {
	type key struct {
		source, target, kind string
	}
	merged := make(map[key]Relationship)

	for _, batch := range batches {
		for _, rel := range batch {
			rel.SourceID = strings.TrimSpace(rel.SourceID)
			rel.TargetID = strings.TrimSpace(rel.TargetID)
			rel.Kind = strings.ToLower(strings.TrimSpace(rel.Kind))

			if rel.SourceID == "" || rel.TargetID == "" || rel.Kind == "" {
				continue
			}
			if rel.SourceID == rel.TargetID {
				continue
			}
			if !knownIDs[rel.SourceID] || !knownIDs[rel.TargetID] {
				continue
			}

			// LLMs occasionally report confidence on a 0-100 scale.
			if rel.Confidence > 1 {
				rel.Confidence = rel.Confidence / 100
			}
			if rel.Confidence < 0 {
				rel.Confidence = 0
			}
			if rel.Confidence > 1 {
				rel.Confidence = 1
			}

			k := key{rel.SourceID, rel.TargetID, rel.Kind}
			prev, seen := merged[k]
			if !seen || rel.Confidence > prev.Confidence ||
				(rel.Confidence == prev.Confidence && len(rel.Reason) > len(prev.Reason)) {
				merged[k] = rel
			}
		}
	}

	out := make([]Relationship, 0, len(merged))
	for _, rel := range merged {
		out = append(out, rel)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		if out[i].SourceID != out[j].SourceID {
			return out[i].SourceID < out[j].SourceID
		}
		if out[i].TargetID != out[j].TargetID {
			return out[i].TargetID < out[j].TargetID
		}
		return out[i].Kind < out[j].Kind
	})

	return out
}
