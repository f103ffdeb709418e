// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"strings"

	"github.com/pdiddy/kg-reconciler/pkg/types"
)

// DefaultTypePriorities ranks biolink type prefixes from most specific to
// least. Higher wins; types not listed contribute priority 0. Treated as
// immutable configuration — callers wanting a different ranking pass their
// own table through Options.
var DefaultTypePriorities = map[string]int{
	"biolink:Gene":             10,
	"biolink:Protein":          9,
	"biolink:ChemicalEntity":   8,
	"biolink:AnatomicalEntity": 7,
	"biolink:Disease":          6,
	"biolink:OrganismTaxon":    5,
	"biolink:NamedThing":       1,
}

// TypePriority returns the highest ranked priority across the entity's
// types. Prefix matching lets subtype tags (e.g. "biolink:GeneProduct")
// inherit their parent's rank.
func TypePriority(e *types.NormalizedEntity, priorities map[string]int) int {
	best := 0
	for t := range e.Types {
		for prefix, p := range priorities {
			if strings.HasPrefix(t, prefix) && p > best {
				best = p
			}
		}
	}
	return best
}

// typeMerge groups colliding entities by identifier and keeps the entity
// whose types rank highest as the representative. Every group member's
// source databases are unioned into the representative; other fields are
// not merged. Ties keep whichever entity was encountered first — sources
// in the order given, entities in key order within a source.
func typeMerge(sources []Source, opts Options) Result {
	priorities := opts.TypePriorities
	if priorities == nil {
		priorities = DefaultTypePriorities
	}

	out := make(map[string]*types.NormalizedEntity)
	var issues []Issue

	for _, src := range sources {
		forEachValid(src, &issues, func(key string, e *types.NormalizedEntity) {
			existing, seen := out[key]
			if !seen {
				out[key] = e
				return
			}

			if TypePriority(e, priorities) > TypePriority(existing, priorities) {
				for s := range existing.SourceDatabases {
					e.SourceDatabases[s] = struct{}{}
				}
				out[key] = e
				return
			}
			for s := range e.SourceDatabases {
				existing.SourceDatabases[s] = struct{}{}
			}
		})
	}
	return Result{Entities: out, Issues: issues}
}
