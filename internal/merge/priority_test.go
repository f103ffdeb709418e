// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"testing"

	"github.com/pdiddy/kg-reconciler/pkg/types"
)

func TestTypePriority(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  int
	}{
		{"gene ranks highest", []string{"biolink:Gene"}, 10},
		{"highest of several wins", []string{"biolink:NamedThing", "biolink:Disease"}, 6},
		{"subtype inherits parent rank by prefix", []string{"biolink:GeneProduct"}, 10},
		{"unranked type scores zero", []string{"biolink:Pathway"}, 0},
		{"no types scores zero", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entity("X:1", nil, tt.types)
			if got := TypePriority(e, DefaultTypePriorities); got != tt.want {
				t.Errorf("TypePriority(%v) = %d, want %d", tt.types, got, tt.want)
			}
		})
	}
}

func TestTypeMergeKeepsHigherPriorityEntity(t *testing.T) {
	left := Source{Name: "SemMedDB", Records: types.Collection{
		"UMLS:C1": rec("UMLS:C1", "as disease", nil, "biolink:Disease"),
	}}
	right := Source{Name: "PrimeKG", Records: types.Collection{
		"UMLS:C1": rec("UMLS:C1", "as gene", nil, "biolink:Gene"),
	}}

	result, err := Merge(StrategyType, []Source{left, right}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged := result.Entities["UMLS:C1"]
	if merged.Label != "as gene" {
		t.Errorf("winner label = %q, want the gene-typed entity", merged.Label)
	}
	// Both sources are recorded on the representative.
	for _, src := range []string{"SemMedDB", "PrimeKG"} {
		if _, ok := merged.SourceDatabases[src]; !ok {
			t.Errorf("representative missing source %s", src)
		}
	}
	// Only source databases merge; the loser's types are not unioned in.
	if _, ok := merged.Types["biolink:Disease"]; ok {
		t.Error("loser's types must not be folded into the representative")
	}
}

func TestTypeMergeTieKeepsFirstEncountered(t *testing.T) {
	left := Source{Name: "A", Records: types.Collection{
		"UMLS:C1": rec("UMLS:C1", "first", nil, "biolink:Disease"),
	}}
	right := Source{Name: "B", Records: types.Collection{
		"UMLS:C1": rec("UMLS:C1", "second", nil, "biolink:Disease"),
	}}

	result, err := Merge(StrategyType, []Source{left, right}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Entities["UMLS:C1"].Label; got != "first" {
		t.Errorf("tie winner label = %q, want first", got)
	}
}

func TestTypeMergeCustomPriorities(t *testing.T) {
	left := Source{Name: "A", Records: types.Collection{
		"X:1": rec("X:1", "pathway", nil, "biolink:Pathway"),
	}}
	right := Source{Name: "B", Records: types.Collection{
		"X:1": rec("X:1", "gene", nil, "biolink:Gene"),
	}}

	// Invert the usual ranking.
	result, err := Merge(StrategyType, []Source{left, right}, Options{
		TypePriorities: map[string]int{"biolink:Pathway": 5, "biolink:Gene": 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Entities["X:1"].Label; got != "pathway" {
		t.Errorf("winner label = %q, want pathway under custom priorities", got)
	}
}
