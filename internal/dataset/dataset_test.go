// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/kg-reconciler/internal/classify"
	"github.com/pdiddy/kg-reconciler/pkg/types"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestForEachRowPrimeKG(t *testing.T) {
	path := writeCSV(t, "nodes.csv",
		"node_index,node_id,node_type,node_name,node_source\n"+
			"0,9796,gene/protein,PHYHIP,NCBI\n"+
			"1,0005148,disease,type 2 diabetes,MONDO\n")

	var rows []Row
	err := ForEachRow("primekg", path, func(r Row) error {
		rows = append(rows, r)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Row{
		{ID: "9796", Type: "gene/protein", Name: "PHYHIP", Source: "NCBI"},
		{ID: "0005148", Type: "disease", Name: "type 2 diabetes", Source: "MONDO"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, w := range want {
		if rows[i] != w {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], w)
		}
	}
}

func TestForEachRowSemMedDBSkipsShortRows(t *testing.T) {
	// Positional layout; the second line is too short and must be skipped.
	path := writeCSV(t, "sem.csv",
		"1,2,3,C0004096,Asthma,dsyn,6,7,8,9,10,11,MSH\n"+
			"1,2,3,C0004096\n"+
			"1,2,3,C0011849,Diabetes,dsyn,6,7,8,9,10,11,MSH\n")

	var rows []Row
	err := ForEachRow("semmeddb", path, func(r Row) error {
		rows = append(rows, r)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0] != (Row{ID: "C0004096", Type: "dsyn", Name: "Asthma", Source: "MSH"}) {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
}

func TestForEachRowUnknownDataset(t *testing.T) {
	err := ForEachRow("nonsense", "whatever.csv", func(Row) error { return nil })
	if err == nil {
		t.Fatal("expected error for unknown dataset")
	}
}

func TestSourceDB(t *testing.T) {
	tests := []struct{ in, want string }{
		{"primekg", "PrimeKG"},
		{"semmeddb", "SemMedDB"},
		{"biokde", "BioKDE"},
		{"ikraph", "iKGraph"},
		{"custom", "custom"},
	}
	for _, tt := range tests {
		if got := SourceDB(tt.in); got != tt.want {
			t.Errorf("SourceDB(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuild(t *testing.T) {
	path := writeCSV(t, "nodes.csv",
		"node_index,node_id,node_type,node_name,node_source\n"+
			"0,9796,gene/protein,PHYHIP,NCBI\n"+
			"1,0005148,disease,type 2 diabetes,MONDO\n"+
			"2,???,mystery,unknown thing,NOWHERE\n")

	result, err := Build("primekg", path, classify.NewDefault(), types.ClassifyConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Records))
	}
	if result.Records[0].Type != "biolink:Gene" {
		t.Errorf("record 0 type = %q, want biolink:Gene", result.Records[0].Type)
	}
	if result.Records[0].Identifiers[0].I != "NCBIGene:9796" {
		t.Errorf("record 0 curie = %q, want NCBIGene:9796", result.Records[0].Identifiers[0].I)
	}
	if result.Records[0].Identifiers[0].L != "PHYHIP" {
		t.Errorf("record 0 label = %q, want PHYHIP", result.Records[0].Identifiers[0].L)
	}

	s := result.Summary
	if s.Dataset != "PrimeKG" {
		t.Errorf("summary dataset = %q, want PrimeKG", s.Dataset)
	}
	if s.Mapped != 2 {
		t.Errorf("mapped = %d, want 2", s.Mapped)
	}
	if s.Unmapped.Total() != 1 {
		t.Errorf("unmapped = %d, want 1", s.Unmapped.Total())
	}
	if s.TotalSeen() != 3 {
		t.Errorf("total seen = %d, want 3", s.TotalSeen())
	}
}

func TestBuildLimitPerType(t *testing.T) {
	path := writeCSV(t, "nodes.csv",
		"node_index,node_id,node_type,node_name,node_source\n"+
			"0,1,gene/protein,A,NCBI\n"+
			"1,2,gene/protein,B,NCBI\n"+
			"2,3,gene/protein,C,NCBI\n"+
			"3,0000001,disease,D,MONDO\n")

	result, err := Build("primekg", path, classify.NewDefault(), types.ClassifyConfig{LimitPerType: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 3 {
		t.Errorf("got %d records, want 3 (2 genes + 1 disease)", len(result.Records))
	}
}

func TestWriteJSONLAndCuries(t *testing.T) {
	records := []CompendiaRecord{
		{Type: "biolink:Gene", Identifiers: []CompendiaIdentifier{{I: "NCBIGene:9796", L: "PHYHIP"}}},
		{Type: "biolink:Disease", Identifiers: []CompendiaIdentifier{{I: "MONDO:0005148"}}},
	}

	path := filepath.Join(t.TempDir(), "compendia.jsonl")
	if err := WriteJSONL(path, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines []CompendiaRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec CompendiaRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		lines = append(lines, rec)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[1].Identifiers[0].I != "MONDO:0005148" {
		t.Errorf("line 1 curie = %q", lines[1].Identifiers[0].I)
	}

	curies := Curies(records)
	if len(curies) != 2 || curies[0] != "NCBIGene:9796" || curies[1] != "MONDO:0005148" {
		t.Errorf("Curies() = %v", curies)
	}
}
