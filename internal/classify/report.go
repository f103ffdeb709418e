// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"
	"io"
	"sort"
)

const defaultExampleCap = 5

// UnmappedTracker retains a bounded number of unmapped identifier examples
// per node type. Unmapped inputs are expected and never fatal; the tracker
// exists so mapping reports can show what was dropped and why.
type UnmappedTracker struct {
	cap      int
	total    int
	examples map[string][]string
}

// NewUnmappedTracker returns a tracker keeping at most cap examples per
// node type. A cap of zero or less uses the default (5).
func NewUnmappedTracker(cap int) *UnmappedTracker {
	if cap <= 0 {
		cap = defaultExampleCap
	}
	return &UnmappedTracker{cap: cap, examples: make(map[string][]string)}
}

// Add records an unmapped input under its node type, keeping the example
// only while the per-type cap has room.
func (t *UnmappedTracker) Add(in Input) {
	t.total++
	key := in.NodeType
	if key == "" {
		key = "(untyped)"
	}
	if len(t.examples[key]) >= t.cap {
		return
	}
	ex := in.RawID
	if in.SourceTag != "" {
		ex = fmt.Sprintf("%s [source: %s]", in.RawID, in.SourceTag)
	}
	t.examples[key] = append(t.examples[key], ex)
}

// Total returns the number of unmapped inputs seen, including those whose
// examples were dropped by the cap.
func (t *UnmappedTracker) Total() int { return t.total }

// Examples returns the retained examples for a node type.
func (t *UnmappedTracker) Examples(nodeType string) []string {
	return t.examples[nodeType]
}

// Summary holds the outcome of one classification run over a dataset.
type Summary struct {
	// Dataset is the source dataset name.
	Dataset string

	// SeenByType counts every input row by node type, mapped or not.
	SeenByType map[string]int

	// Mapped is the number of rows successfully classified.
	Mapped int

	// Unmapped tracks the rows that could not be classified.
	Unmapped *UnmappedTracker
}

// TotalSeen returns the number of input rows processed.
func (s *Summary) TotalSeen() int {
	total := 0
	for _, n := range s.SeenByType {
		total += n
	}
	return total
}

// SuccessRate returns the mapped fraction in percent.
func (s *Summary) SuccessRate() float64 {
	seen := s.TotalSeen()
	if seen == 0 {
		return 0
	}
	return float64(s.Mapped) / float64(seen) * 100
}

// WriteReport writes a human-readable mapping report: totals, per-type
// counts, and the retained unmapped examples.
func (s *Summary) WriteReport(w io.Writer) {
	fmt.Fprintf(w, "%s ID Mapping Report\n", s.Dataset)
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total nodes processed: %d\n", s.TotalSeen())
	fmt.Fprintf(w, "Successfully mapped: %d\n", s.Mapped)
	fmt.Fprintf(w, "Mapping success rate: %.1f%%\n", s.SuccessRate())
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Counts by node type:")
	nodeTypes := make([]string, 0, len(s.SeenByType))
	for nt := range s.SeenByType {
		nodeTypes = append(nodeTypes, nt)
	}
	sort.Strings(nodeTypes)
	for _, nt := range nodeTypes {
		fmt.Fprintf(w, "  %s: %d\n", nt, s.SeenByType[nt])
	}

	if s.Unmapped != nil && s.Unmapped.Total() > 0 {
		fmt.Fprintf(w, "\nUnmapped examples (first %d per type):\n", s.Unmapped.cap)
		for _, nt := range nodeTypes {
			examples := s.Unmapped.Examples(nt)
			if len(examples) == 0 {
				continue
			}
			fmt.Fprintf(w, "\n%s:\n", nt)
			for _, ex := range examples {
				fmt.Fprintf(w, "  - %s\n", ex)
			}
		}
	}
}
