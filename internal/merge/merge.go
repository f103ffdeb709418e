// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge reconciles normalized entity collections from independent
// knowledge sources into one deduplicated collection. Four interchangeable
// strategies are provided; all of them share one field-combination step so
// type sets and equivalent-identifier lists merge identically everywhere.
//
// Merging never mutates its inputs. Each run builds fresh working entities
// from the input records and returns a fresh output map.
package merge

import (
	"fmt"
	"sort"

	"github.com/pdiddy/kg-reconciler/pkg/types"
)

// Strategy selects how colliding entities are reconciled.
type Strategy string

const (
	// StrategyUnion keeps every identifier from every source, merging
	// colliding entities field by field. This is the default.
	StrategyUnion Strategy = "union"

	// StrategyIntersection keeps only identifiers present in every source.
	StrategyIntersection Strategy = "intersection"

	// StrategyConfidence scores every entity and lets the higher score win
	// collisions. Non-commutative: on a tie the earlier (left-hand) entity
	// is kept, so callers must document which source is passed first.
	StrategyConfidence Strategy = "confidence"

	// StrategyType keeps the entity whose semantic types rank highest in a
	// static priority table.
	StrategyType Strategy = "type"
)

// ParseStrategy validates a strategy name from a flag or config value.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyUnion, StrategyIntersection, StrategyConfidence, StrategyType:
		return Strategy(s), nil
	case "":
		return StrategyUnion, nil
	}
	return "", fmt.Errorf("unknown merge strategy %q: use union, intersection, confidence, or type", s)
}

// Source pairs a normalized collection with its source database name.
// Order matters: the first source is the left-hand side for every
// asymmetric policy (label retention, confidence ties, type-priority ties).
type Source struct {
	Name    string
	Records types.Collection
}

// Options carries the strategy knobs. Tables are treated as immutable.
type Options struct {
	// SourceWeights maps source names to base confidence weights for the
	// confidence strategy. Missing sources default to 0.5. The weights
	// need not sum to 1.
	SourceWeights map[string]float64

	// PrimarySource receives the larger fixed source bonus in the
	// confidence strategy. Empty means the first source.
	PrimarySource string

	// TypePriorities ranks semantic-type prefixes for the type strategy.
	// Nil uses DefaultTypePriorities.
	TypePriorities map[string]int
}

// Issue records an entity excluded from the merge because its record was
// structurally unusable. Exclusions are reported, never silently defaulted.
type Issue struct {
	// Source is the source database the record came from.
	Source string `json:"source"`

	// Key is the collection key of the offending record.
	Key string `json:"key"`

	// Message describes what was missing.
	Message string `json:"message"`
}

// Result holds the merged entities and the per-record exclusions.
type Result struct {
	Entities map[string]*types.NormalizedEntity
	Issues   []Issue
}

// Collection converts the merged entities back to the persisted form.
func (r Result) Collection() types.Collection {
	out := make(types.Collection, len(r.Entities))
	for id, e := range r.Entities {
		out[id] = e.Record()
	}
	return out
}

// Merge reconciles the sources under the selected strategy. At least two
// sources are required. The first source is the left-hand side; subsequent
// sources fold in one at a time in the order given.
func Merge(strategy Strategy, sources []Source, opts Options) (Result, error) {
	if len(sources) < 2 {
		return Result{}, fmt.Errorf("merge requires at least two sources, got %d", len(sources))
	}

	switch strategy {
	case StrategyUnion:
		return unionMerge(sources), nil
	case StrategyIntersection:
		return intersectionMerge(sources), nil
	case StrategyConfidence:
		return confidenceMerge(sources, opts), nil
	case StrategyType:
		return typeMerge(sources, opts), nil
	}
	return Result{}, fmt.Errorf("unknown merge strategy %q", strategy)
}

// checkRecord reports what makes a record unusable for merging. A usable
// record has an identifier, at least one semantic type, and a non-empty
// equivalent-identifier list.
func checkRecord(rec *types.EntityRecord) string {
	switch {
	case rec == nil:
		return "record is null (unmapped by the normalization service)"
	case rec.ID.Identifier == "":
		return "missing identifier"
	case len(rec.Types) == 0:
		return "missing type list"
	case len(rec.EquivalentIdentifiers) == 0:
		return "missing equivalent identifiers"
	}
	return ""
}

// combineInto folds src's sets into dst: source databases and types are
// unioned, and src's equivalent identifiers not already present are
// appended in src order. dst's label and confidence score are untouched.
func combineInto(dst, src *types.NormalizedEntity) {
	for s := range src.SourceDatabases {
		dst.SourceDatabases[s] = struct{}{}
	}
	for t := range src.Types {
		dst.Types[t] = struct{}{}
	}
	for _, eq := range src.EquivalentIdentifiers {
		if !dst.HasEquivalent(eq.Identifier) {
			dst.EquivalentIdentifiers = append(dst.EquivalentIdentifiers, eq)
		}
	}
}

// sortedKeys fixes the enumeration order of a collection so fold results
// and tie-breaks are deterministic across runs.
func sortedKeys(c types.Collection) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// forEachValid enumerates a source's usable entities in key order,
// collecting exclusion issues for the rest.
func forEachValid(src Source, issues *[]Issue, fn func(key string, e *types.NormalizedEntity)) {
	for _, key := range sortedKeys(src.Records) {
		rec := src.Records[key]
		if msg := checkRecord(rec); msg != "" {
			*issues = append(*issues, Issue{Source: src.Name, Key: key, Message: msg})
			continue
		}
		fn(key, types.NewEntity(rec, src.Name))
	}
}

// unionMerge keeps every identifier from every source. Colliding entities
// keep the first-seen label and score and union everything else.
func unionMerge(sources []Source) Result {
	out := make(map[string]*types.NormalizedEntity)
	var issues []Issue

	for _, src := range sources {
		forEachValid(src, &issues, func(key string, e *types.NormalizedEntity) {
			if existing, ok := out[key]; ok {
				combineInto(existing, e)
				return
			}
			out[key] = e
		})
	}
	return Result{Entities: out, Issues: issues}
}

// intersectionMerge keeps only identifiers present in every source. The
// first source's entity is the base; later sources fold into it, so every
// surviving entity carries all source names.
func intersectionMerge(sources []Source) Result {
	var issues []Issue

	out := make(map[string]*types.NormalizedEntity)
	forEachValid(sources[0], &issues, func(key string, e *types.NormalizedEntity) {
		out[key] = e
	})

	for _, src := range sources[1:] {
		folded := make(map[string]*types.NormalizedEntity)
		forEachValid(src, &issues, func(key string, e *types.NormalizedEntity) {
			existing, ok := out[key]
			if !ok {
				return
			}
			combineInto(existing, e)
			folded[key] = existing
		})
		out = folded
	}
	return Result{Entities: out, Issues: issues}
}
