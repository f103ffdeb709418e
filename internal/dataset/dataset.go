// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset reads the heterogeneous node CSV files of the supported
// knowledge sources and converts them to compendia records for
// normalization. Each dataset has its own column layout; readers produce a
// uniform Row so classification does not care where a row came from.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/kg-reconciler/internal/classify"
	"github.com/pdiddy/kg-reconciler/pkg/types"
)

// Row is one node row in dataset-independent form.
type Row struct {
	// ID is the raw node identifier.
	ID string

	// Type is the dataset's node type label.
	Type string

	// Name is the display name.
	Name string

	// Source is the provenance tag (a source column value where the
	// dataset has one, otherwise the dataset name).
	Source string
}

// reader parses one dataset's CSV layout, invoking fn per row. Readers
// return the first fn error unchanged so callers can abort iteration.
type reader func(r io.Reader, fn func(Row) error) error

var readers = map[string]reader{
	"primekg":  readPrimeKG,
	"semmeddb": readSemMedDB,
	"biokde":   readBioKDE,
	"ikraph":   readIKraph,
}

// SourceDB returns the canonical source database name for a dataset.
func SourceDB(name string) string {
	switch name {
	case "primekg":
		return "PrimeKG"
	case "semmeddb":
		return "SemMedDB"
	case "biokde":
		return "BioKDE"
	case "ikraph":
		return "iKGraph"
	}
	return name
}

// Names lists the supported dataset names.
func Names() []string {
	return []string{"biokde", "ikraph", "primekg", "semmeddb"}
}

// ForEachRow opens the CSV at path and streams rows through the dataset's
// reader. Unknown dataset names and unreadable files are fatal.
func ForEachRow(dataset, path string, fn func(Row) error) error {
	read, ok := readers[dataset]
	if !ok {
		return fmt.Errorf("unknown dataset %q: supported datasets are %v", dataset, Names())
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening nodes file %s: %w", path, err)
	}
	defer f.Close()
	return read(f, fn)
}

// readPrimeKG parses the PrimeKG nodes.csv header-based layout
// (node_id, node_type, node_name, node_source).
func readPrimeKG(r io.Reader, fn func(Row) error) error {
	return forEachNamed(r, func(rec map[string]string) error {
		return fn(Row{
			ID:     rec["node_id"],
			Type:   rec["node_type"],
			Name:   rec["node_name"],
			Source: rec["node_source"],
		})
	})
}

// readIKraph parses the iKGraph header-based layout.
func readIKraph(r io.Reader, fn func(Row) error) error {
	return forEachNamed(r, func(rec map[string]string) error {
		return fn(Row{
			ID:     rec["external_id"],
			Type:   rec["type"],
			Name:   rec["official_name"],
			Source: "iKGraph",
		})
	})
}

// readSemMedDB parses the positional SemMedDB layout. Rows carry at least
// 13 columns; the UMLS CUI is column 3, the name column 4, the semantic
// type column 5, and the source column 12. Short rows are skipped.
func readSemMedDB(r io.Reader, fn func(Row) error) error {
	return forEachPositional(r, 13, func(cols []string) error {
		return fn(Row{
			ID:     cols[3],
			Type:   cols[5],
			Name:   cols[4],
			Source: cols[12],
		})
	})
}

// readBioKDE parses the positional BioKDE layout: id, type, subtype,
// external_id, species, official_name, common_name, label, and an
// optional trailing source column.
func readBioKDE(r io.Reader, fn func(Row) error) error {
	return forEachPositional(r, 8, func(cols []string) error {
		source := "BioKDE"
		if len(cols) > 8 && cols[8] != "" {
			source = cols[8]
		}
		return fn(Row{
			ID:     cols[0],
			Type:   cols[1],
			Name:   cols[5],
			Source: source,
		})
	})
}

func forEachNamed(r io.Reader, fn func(map[string]string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading CSV header: %w", err)
	}

	for {
		cols, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading CSV row: %w", err)
		}
		rec := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(cols) {
				rec[h] = cols[i]
			}
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

func forEachPositional(r io.Reader, minCols int, fn func([]string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	for {
		cols, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading CSV row: %w", err)
		}
		if len(cols) < minCols {
			continue
		}
		if err := fn(cols); err != nil {
			return err
		}
	}
}

// CompendiaIdentifier is the short-key identifier form used in compendia
// JSONL ("i" for identifier, "l" for label), matching the normalization
// service's compendia input format.
type CompendiaIdentifier struct {
	I string `json:"i"`
	L string `json:"l,omitempty"`
}

// CompendiaRecord is one line of a compendia JSONL file.
type CompendiaRecord struct {
	Type        string                `json:"type"`
	Identifiers []CompendiaIdentifier `json:"identifiers"`
}

// BuildResult holds the compendia records and the mapping summary for one
// classification run.
type BuildResult struct {
	Records []CompendiaRecord
	Summary *classify.Summary
}

// Build reads a dataset's nodes CSV, classifies each row's identifier,
// and assembles compendia records for the mapped rows. Unmapped rows are
// tracked with bounded examples, never dropped silently. A per-type limit
// caps included rows for sampling runs.
func Build(name, path string, c *classify.Classifier, cfg types.ClassifyConfig) (BuildResult, error) {
	summary := &classify.Summary{
		Dataset:    SourceDB(name),
		SeenByType: make(map[string]int),
		Unmapped:   classify.NewUnmappedTracker(cfg.UnmappedExamples),
	}
	includedPerType := make(map[string]int)

	var records []CompendiaRecord
	err := ForEachRow(name, path, func(row Row) error {
		nodeType := row.Type
		if nodeType == "" {
			nodeType = "(untyped)"
		}

		if cfg.LimitPerType > 0 && includedPerType[nodeType] >= cfg.LimitPerType {
			return nil
		}
		summary.SeenByType[nodeType]++

		in := classify.Input{RawID: row.ID, SourceTag: row.Source, NodeType: row.Type}
		curie, ok := c.Classify(in)
		if !ok {
			summary.Unmapped.Add(in)
			return nil
		}

		records = append(records, CompendiaRecord{
			Type:        c.Category(row.Type),
			Identifiers: []CompendiaIdentifier{{I: curie, L: row.Name}},
		})
		summary.Mapped++
		includedPerType[nodeType]++
		return nil
	})
	if err != nil {
		return BuildResult{}, err
	}

	return BuildResult{Records: records, Summary: summary}, nil
}

// WriteJSONL writes compendia records one JSON object per line.
func WriteJSONL(path string, records []CompendiaRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating compendia file %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding compendia record: %w", err)
		}
	}
	return nil
}

// Curies extracts the primary CURIE from each compendia record, in order.
func Curies(records []CompendiaRecord) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		if len(rec.Identifiers) > 0 {
			out = append(out, rec.Identifiers[0].I)
		}
	}
	return out
}
