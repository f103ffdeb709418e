// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"github.com/pdiddy/kg-reconciler/pkg/types"
)

// Confidence scoring constants. An entity's score is its source's base
// weight plus capped bonuses for equivalent-identifier and type richness,
// plus a fixed per-source bonus, clamped to [0,1].
const (
	equivBonusPerID  = 0.05
	equivBonusCap    = 0.2
	typeBonusPerType = 0.01
	typeBonusCap     = 0.1

	primarySourceBonus   = 0.1
	secondarySourceBonus = 0.05

	defaultSourceWeight = 0.5
)

// Score computes the confidence score for an entity. More equivalent
// identifiers or types never lower the score; the result is always in
// [0,1].
func Score(e *types.NormalizedEntity, baseWeight float64, primary bool) float64 {
	equivBonus := equivBonusPerID * float64(len(e.EquivalentIdentifiers))
	if equivBonus > equivBonusCap {
		equivBonus = equivBonusCap
	}

	typeBonus := typeBonusPerType * float64(len(e.Types))
	if typeBonus > typeBonusCap {
		typeBonus = typeBonusCap
	}

	sourceBonus := secondarySourceBonus
	if primary {
		sourceBonus = primarySourceBonus
	}

	return clamp01(baseWeight + equivBonus + typeBonus + sourceBonus)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// confidenceMerge scores every entity and resolves collisions by score.
// A strictly higher score replaces the incumbent but inherits the union of
// both entities' source databases; a tie or lower score keeps the
// incumbent and enriches it with the loser's types, new equivalent
// identifiers, and source name — not its score. Keeping the incumbent on
// exact ties is deliberate: the left-hand source is preferred, which makes
// the strategy non-commutative.
func confidenceMerge(sources []Source, opts Options) Result {
	primary := opts.PrimarySource
	if primary == "" {
		primary = sources[0].Name
	}

	out := make(map[string]*types.NormalizedEntity)
	var issues []Issue

	for _, src := range sources {
		weight, ok := opts.SourceWeights[src.Name]
		if !ok {
			weight = defaultSourceWeight
		}

		forEachValid(src, &issues, func(key string, e *types.NormalizedEntity) {
			score := Score(e, weight, src.Name == primary)
			e.ConfidenceScore = &score

			existing, seen := out[key]
			if !seen {
				out[key] = e
				return
			}

			if score > *existing.ConfidenceScore {
				for s := range existing.SourceDatabases {
					e.SourceDatabases[s] = struct{}{}
				}
				out[key] = e
				return
			}
			combineInto(existing, e)
		})
	}
	return Result{Entities: out, Issues: issues}
}
