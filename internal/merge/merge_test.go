// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"testing"

	"github.com/pdiddy/kg-reconciler/pkg/types"
)

// rec builds a minimal valid entity record for merge tests.
func rec(id, label string, equivalents []string, typeTags ...string) *types.EntityRecord {
	r := &types.EntityRecord{
		ID:    types.Identifier{Identifier: id, Label: label},
		Types: typeTags,
	}
	for _, eq := range append([]string{id}, equivalents...) {
		r.EquivalentIdentifiers = append(r.EquivalentIdentifiers, types.Identifier{Identifier: eq})
	}
	return r
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"union", StrategyUnion, false},
		{"intersection", StrategyIntersection, false},
		{"confidence", StrategyConfidence, false},
		{"type", StrategyType, false},
		{"", StrategyUnion, false},
		{"bogus", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseStrategy(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStrategy(%q): unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseStrategy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMergeRequiresTwoSources(t *testing.T) {
	_, err := Merge(StrategyUnion, []Source{
		{Name: "Only", Records: types.Collection{}},
	}, Options{})
	if err == nil {
		t.Fatal("expected error for a single source")
	}
}

func TestUnionMerge(t *testing.T) {
	left := Source{Name: "PrimeKG", Records: types.Collection{
		"NCBIGene:1": rec("NCBIGene:1", "GENE1", []string{"HGNC:5"}, "biolink:Gene"),
		"MONDO:7":    rec("MONDO:7", "some disease", nil, "biolink:Disease"),
	}}
	right := Source{Name: "SemMedDB", Records: types.Collection{
		"NCBIGene:1": rec("NCBIGene:1", "gene one", []string{"UMLS:C1"}, "biolink:Gene", "biolink:NamedThing"),
		"CHEBI:9":    rec("CHEBI:9", "a drug", nil, "biolink:ChemicalEntity"),
	}}

	result, err := Merge(StrategyUnion, []Source{left, right}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", result.Issues)
	}
	if len(result.Entities) != 3 {
		t.Fatalf("got %d entities, want 3", len(result.Entities))
	}

	merged := result.Entities["NCBIGene:1"]
	if merged == nil {
		t.Fatal("missing merged entity NCBIGene:1")
	}
	// First-seen label is kept.
	if merged.Label != "GENE1" {
		t.Errorf("label = %q, want first source's label", merged.Label)
	}
	// Types and sources union.
	if len(merged.Types) != 2 {
		t.Errorf("got %d types, want 2", len(merged.Types))
	}
	for _, src := range []string{"PrimeKG", "SemMedDB"} {
		if _, ok := merged.SourceDatabases[src]; !ok {
			t.Errorf("merged entity missing source %s", src)
		}
	}
	// Equivalents: self + HGNC:5 + UMLS:C1, no duplicates.
	if len(merged.EquivalentIdentifiers) != 3 {
		t.Errorf("got %d equivalents, want 3: %v", len(merged.EquivalentIdentifiers), merged.EquivalentIdentifiers)
	}
}

func TestUnionMergeIsIdempotentForIdenticalSources(t *testing.T) {
	records := types.Collection{
		"NCBIGene:1": rec("NCBIGene:1", "GENE1", []string{"HGNC:5"}, "biolink:Gene"),
	}
	result, err := Merge(StrategyUnion, []Source{
		{Name: "A", Records: records},
		{Name: "A", Records: records},
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged := result.Entities["NCBIGene:1"]
	if len(merged.EquivalentIdentifiers) != 2 {
		t.Errorf("equivalents grew on self-merge: %v", merged.EquivalentIdentifiers)
	}
	if len(merged.Types) != 1 || len(merged.SourceDatabases) != 1 {
		t.Errorf("sets grew on self-merge: types=%v sources=%v", merged.Types, merged.SourceDatabases)
	}
}

func TestIntersectionMerge(t *testing.T) {
	left := Source{Name: "PrimeKG", Records: types.Collection{
		"NCBIGene:1": rec("NCBIGene:1", "GENE1", nil, "biolink:Gene"),
		"MONDO:7":    rec("MONDO:7", "left only", nil, "biolink:Disease"),
	}}
	right := Source{Name: "SemMedDB", Records: types.Collection{
		"NCBIGene:1": rec("NCBIGene:1", "gene one", []string{"UMLS:C1"}, "biolink:Gene"),
		"CHEBI:9":    rec("CHEBI:9", "right only", nil, "biolink:ChemicalEntity"),
	}}

	result, err := Merge(StrategyIntersection, []Source{left, right}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Entities) != 1 {
		t.Fatalf("got %d entities, want 1", len(result.Entities))
	}

	merged := result.Entities["NCBIGene:1"]
	if merged == nil {
		t.Fatal("intersection lost the shared entity")
	}
	if len(merged.SourceDatabases) != 2 {
		t.Errorf("surviving entity should carry both sources, got %v", merged.SourceDatabases)
	}
	if !merged.HasEquivalent("UMLS:C1") {
		t.Error("surviving entity missing right-hand equivalent")
	}
}

func TestMergeReportsUnusableRecords(t *testing.T) {
	left := Source{Name: "PrimeKG", Records: types.Collection{
		"NCBIGene:1": rec("NCBIGene:1", "GENE1", nil, "biolink:Gene"),
		"UMLS:C0":    nil,
		"MONDO:7": {
			ID: types.Identifier{Identifier: "MONDO:7"},
			EquivalentIdentifiers: []types.Identifier{
				{Identifier: "MONDO:7"},
			},
			// No types.
		},
	}}
	right := Source{Name: "SemMedDB", Records: types.Collection{
		"NCBIGene:1": rec("NCBIGene:1", "gene one", nil, "biolink:Gene"),
	}}

	result, err := Merge(StrategyUnion, []Source{left, right}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Issues) != 2 {
		t.Fatalf("got %d issues, want 2: %v", len(result.Issues), result.Issues)
	}
	if len(result.Entities) != 1 {
		t.Errorf("got %d entities, want 1", len(result.Entities))
	}
	for _, issue := range result.Issues {
		if issue.Source != "PrimeKG" {
			t.Errorf("issue source = %q, want PrimeKG", issue.Source)
		}
	}
}

func TestResultCollectionIsDeterministic(t *testing.T) {
	left := Source{Name: "A", Records: types.Collection{
		"NCBIGene:1": rec("NCBIGene:1", "g", nil, "biolink:Gene", "biolink:NamedThing"),
	}}
	right := Source{Name: "B", Records: types.Collection{
		"NCBIGene:1": rec("NCBIGene:1", "g", nil, "biolink:Gene"),
	}}

	result, err := Merge(StrategyUnion, []Source{left, right}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := result.Collection()
	r := c["NCBIGene:1"]
	if r == nil {
		t.Fatal("missing record")
	}
	// Set-valued fields come out sorted.
	if r.Types[0] != "biolink:Gene" || r.Types[1] != "biolink:NamedThing" {
		t.Errorf("types not sorted: %v", r.Types)
	}
	if r.SourceDatabases[0] != "A" || r.SourceDatabases[1] != "B" {
		t.Errorf("sources not sorted: %v", r.SourceDatabases)
	}
	if r.ConfidenceScore != nil {
		t.Errorf("union strategy must not assign a score, got %v", *r.ConfidenceScore)
	}
}
