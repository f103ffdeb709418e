// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report computes distributional statistics and integrity checks
// over a combined entity collection. Everything here is a read-only pass:
// findings are returned as data, and an imperfect collection still gets a
// complete report rather than an error.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/kg-reconciler/pkg/types"
)

// Statistics summarizes the distribution of a combined collection.
type Statistics struct {
	// TotalEntities is the number of entries in the collection.
	TotalEntities int `json:"total_entities" yaml:"total_entities"`

	// EntitiesBySource counts entities per source database. An entity in
	// several sources counts once per source.
	EntitiesBySource map[string]int `json:"entities_by_source" yaml:"entities_by_source"`

	// EntitiesByType counts entities per full semantic type tag.
	EntitiesByType map[string]int `json:"entities_by_type" yaml:"entities_by_type"`

	// TypeDistribution counts entities per base type, the tag with its
	// namespace prefix stripped.
	TypeDistribution map[string]int `json:"type_distribution" yaml:"type_distribution"`

	// MultiSourceEntities is the number of entities contributed by more
	// than one source database.
	MultiSourceEntities int `json:"entities_with_multiple_sources" yaml:"entities_with_multiple_sources"`

	// AverageEquivalentIdentifiers is the mean equivalent-identifier list
	// length per entity.
	AverageEquivalentIdentifiers float64 `json:"average_equivalent_identifiers" yaml:"average_equivalent_identifiers"`
}

// SourceOverlap breaks entities down by the exact combination of sources
// that contributed them.
type SourceOverlap struct {
	// SingleSource counts entities claimed by exactly one source.
	SingleSource int `json:"single_source" yaml:"single_source"`

	// MultiSource counts entities claimed by two or more sources.
	MultiSource int `json:"multi_source" yaml:"multi_source"`

	// Combinations counts entities per sorted source combination, keyed
	// like "PrimeKG+SemMedDB".
	Combinations map[string]int `json:"combinations" yaml:"combinations"`
}

// ComputeStatistics runs the distributional pass. Null records are skipped
// here; the validators report them.
func ComputeStatistics(c types.Collection) Statistics {
	stats := Statistics{
		EntitiesBySource: make(map[string]int),
		EntitiesByType:   make(map[string]int),
		TypeDistribution: make(map[string]int),
	}

	totalEquiv := 0
	counted := 0
	for _, rec := range c {
		stats.TotalEntities++
		if rec == nil {
			continue
		}
		counted++

		for _, source := range rec.SourceDatabases {
			stats.EntitiesBySource[source]++
		}
		if len(rec.SourceDatabases) > 1 {
			stats.MultiSourceEntities++
		}

		for _, t := range rec.Types {
			stats.EntitiesByType[t]++
			stats.TypeDistribution[baseType(t)]++
		}

		totalEquiv += len(rec.EquivalentIdentifiers)
	}

	if counted > 0 {
		stats.AverageEquivalentIdentifiers = float64(totalEquiv) / float64(counted)
	}
	return stats
}

// ComputeSourceOverlap runs the source-combination pass.
func ComputeSourceOverlap(c types.Collection) SourceOverlap {
	overlap := SourceOverlap{Combinations: make(map[string]int)}
	for _, rec := range c {
		if rec == nil || len(rec.SourceDatabases) == 0 {
			continue
		}
		sources := append([]string(nil), rec.SourceDatabases...)
		sort.Strings(sources)
		overlap.Combinations[strings.Join(sources, "+")]++
		if len(sources) == 1 {
			overlap.SingleSource++
		} else {
			overlap.MultiSource++
		}
	}
	return overlap
}

// baseType strips the namespace prefix from a semantic type tag.
func baseType(t string) string {
	if _, local, ok := strings.Cut(t, ":"); ok {
		return local
	}
	return t
}

// QualityReport bundles statistics, overlap analysis, and every validator
// finding for a combined collection.
type QualityReport struct {
	TotalEntities    int           `json:"total_entities" yaml:"total_entities"`
	ValidationIssues []string      `json:"validation_issues" yaml:"validation_issues"`
	DuplicateIssues  []string      `json:"duplicate_issues" yaml:"duplicate_issues"`
	Statistics       Statistics    `json:"statistics" yaml:"statistics"`
	SourceOverlap    SourceOverlap `json:"source_overlap" yaml:"source_overlap"`
}

// Generate runs all three validators and both analysis passes. Validator
// findings are additive: every issue is collected, not just the first.
func Generate(c types.Collection) QualityReport {
	r := QualityReport{
		TotalEntities: len(c),
		Statistics:    ComputeStatistics(c),
		SourceOverlap: ComputeSourceOverlap(c),
	}
	r.ValidationIssues = append(r.ValidationIssues, ValidateStructure(c)...)
	r.ValidationIssues = append(r.ValidationIssues, ValidateConsistency(c)...)
	r.DuplicateIssues = ValidateDuplicates(c)
	return r
}

// SaveYAML writes the full report to path as YAML.
func (r QualityReport) SaveYAML(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// WriteSummary prints the report highlights: counts, the first few issues
// of each kind, and the top base types.
func (r QualityReport) WriteSummary(w io.Writer) {
	fmt.Fprintln(w, "=== QUALITY REPORT ===")
	fmt.Fprintf(w, "Total entities: %d\n", r.TotalEntities)
	fmt.Fprintf(w, "Validation issues: %d\n", len(r.ValidationIssues))
	fmt.Fprintf(w, "Duplicate identifier issues: %d\n", len(r.DuplicateIssues))

	writeIssueHead(w, "VALIDATION ISSUES", r.ValidationIssues, 10)
	writeIssueHead(w, "DUPLICATE IDENTIFIER ISSUES", r.DuplicateIssues, 5)

	fmt.Fprintln(w, "\n=== TYPE DISTRIBUTION ===")
	for _, tc := range topCounts(r.Statistics.TypeDistribution, 10) {
		fmt.Fprintf(w, "  %s: %d\n", tc.name, tc.count)
	}

	fmt.Fprintln(w, "\n=== SOURCE OVERLAP ===")
	fmt.Fprintf(w, "  Single source entities: %d\n", r.SourceOverlap.SingleSource)
	fmt.Fprintf(w, "  Multi-source entities: %d\n", r.SourceOverlap.MultiSource)
}

func writeIssueHead(w io.Writer, title string, issues []string, max int) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(w, "\n=== %s ===\n", title)
	for i, issue := range issues {
		if i >= max {
			fmt.Fprintf(w, "  ... and %d more\n", len(issues)-max)
			break
		}
		fmt.Fprintf(w, "  - %s\n", issue)
	}
}

type namedCount struct {
	name  string
	count int
}

// topCounts returns the n largest entries, ties broken by name for
// stable output.
func topCounts(m map[string]int, n int) []namedCount {
	out := make([]namedCount, 0, len(m))
	for name, count := range m {
		out = append(out, namedCount{name, count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
