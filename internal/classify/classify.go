// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify maps raw source-specific node identifiers to CURIEs.
// Classification is an ordered rule list: recognized CURIE prefixes first,
// then the source-to-namespace table, then dataset-specific structural
// rules. Inputs that match no rule are unmapped, never an error.
package classify

import (
	"strings"
)

// Input carries one raw identifier with its dataset context.
type Input struct {
	// RawID is the identifier as it appears in the source file.
	RawID string

	// SourceTag is the provenance column value (e.g. "NCBI", "DrugBank").
	SourceTag string

	// NodeType is the dataset's type label (e.g. "gene/protein"); optional.
	NodeType string
}

// Rule is one structural classification step: Match returns the CURIE and
// true when the rule applies.
type Rule struct {
	Name  string
	Match func(in Input) (string, bool)
}

// Tables holds the static classification configuration. Tables are loaded
// once at startup and passed in explicitly; the classifier never mutates
// them.
type Tables struct {
	// RecognizedPrefixes is the CURIE namespace allow-list, keyed by
	// upper-cased prefix.
	RecognizedPrefixes map[string]struct{}

	// SourcePrefixes maps a source tag to the namespace used to build a
	// CURIE from a bare identifier.
	SourcePrefixes map[string]string

	// NodeTypeCategories maps dataset node types to biolink categories
	// for compendia records.
	NodeTypeCategories map[string]string
}

// DefaultTables returns the built-in classification tables covering the
// PrimeKG, SemMedDB, BioKDE, and iKGraph vocabularies.
func DefaultTables() Tables {
	prefixes := []string{
		"NCBIGene", "DRUGBANK", "CHEMBL.COMPOUND", "PUBCHEM.COMPOUND",
		"GO", "UBERON", "REACTOME", "MONDO", "UMLS", "HP", "MESH",
		"OMIM", "DOID", "SNOMEDCT", "NCIT", "HGNC", "UNIPROT", "CTD",
	}
	recognized := make(map[string]struct{}, len(prefixes))
	for _, p := range prefixes {
		recognized[strings.ToUpper(p)] = struct{}{}
	}

	return Tables{
		RecognizedPrefixes: recognized,
		SourcePrefixes: map[string]string{
			"NCBI":          "NCBIGene",
			"DrugBank":      "DRUGBANK",
			"GO":            "GO",
			"UBERON":        "UBERON",
			"REACTOME":      "REACTOME",
			"MONDO":         "MONDO",
			"MONDO_grouped": "MONDO",
			"HPO":           "HP",
			"CTD":           "CTD",
		},
		NodeTypeCategories: map[string]string{
			"gene/protein":       "biolink:Gene",
			"drug":               "biolink:ChemicalEntity",
			"biological_process": "biolink:BiologicalProcess",
			"cellular_component": "biolink:CellularComponent",
			"molecular_function": "biolink:MolecularActivity",
			"anatomy":            "biolink:AnatomicalEntity",
			"disease":            "biolink:Disease",
			"effect/phenotype":   "biolink:PhenotypicFeature",
			"pathway":            "biolink:Pathway",
			"exposure":           "biolink:NamedThing",
		},
	}
}

// abaFragmentPrefix marks BioKDE brain-atlas URLs whose fragment is an
// Allen Brain Atlas structure ID.
const abaFragmentPrefix = "http://mouse.brain-map.org/atlas/index.html#"

// DefaultRules returns the structural rules evaluated after the prefix and
// source-table lookups, in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{
			// SemMedDB concept IDs: "C" followed by seven digits → UMLS.
			Name: "umls-cui",
			Match: func(in Input) (string, bool) {
				id := in.RawID
				if len(id) == 8 && id[0] == 'C' && allDigits(id[1:]) {
					return "UMLS:" + id, true
				}
				return "", false
			},
		},
		{
			// BioKDE anatomy nodes reference the Allen Brain Atlas by URL.
			Name: "aba-url",
			Match: func(in Input) (string, bool) {
				if strings.HasPrefix(in.RawID, abaFragmentPrefix) {
					return "ABA:" + in.RawID[len(abaFragmentPrefix):], true
				}
				return "", false
			},
		},
		{
			// iKGraph gene identifiers arrive already prefixed with NCBI.
			Name: "ikraph-ncbi-gene",
			Match: func(in Input) (string, bool) {
				if in.NodeType == "Gene" && strings.HasPrefix(in.RawID, "NCBI:") {
					return "NCBIGene:" + in.RawID[len("NCBI:"):], true
				}
				return "", false
			},
		},
		{
			// PrimeKG rows without a usable source column fall back to
			// node-type conventions for their bare numeric IDs.
			Name: "primekg-node-type",
			Match: func(in Input) (string, bool) {
				switch in.NodeType {
				case "gene/protein":
					return "NCBIGene:" + in.RawID, true
				case "disease":
					return "MONDO:" + in.RawID, true
				case "drug":
					return "CHEBI:" + in.RawID, true
				}
				return "", false
			},
		},
	}
}

// Classifier applies the fixed-priority classification rules.
type Classifier struct {
	tables Tables
	rules  []Rule
}

// New returns a Classifier over the given tables and structural rules.
func New(tables Tables, rules []Rule) *Classifier {
	return &Classifier{tables: tables, rules: rules}
}

// NewDefault returns a Classifier with the built-in tables and rules.
func NewDefault() *Classifier {
	return New(DefaultTables(), DefaultRules())
}

// Classify maps a raw identifier to a CURIE. The boolean result is false
// when no rule applies (unmapped). Classification is total: malformed,
// empty, or whitespace-only input is unmapped, never an error.
//
// Rules are evaluated in fixed priority order, first match wins:
//  1. RawID is already a CURIE with a recognized namespace — returned with
//     the namespace upper-cased, local part unchanged.
//  2. SourceTag appears in the source-to-namespace table.
//  3. A dataset-specific structural rule matches.
func (c *Classifier) Classify(in Input) (string, bool) {
	in.RawID = strings.TrimSpace(in.RawID)
	in.SourceTag = strings.TrimSpace(in.SourceTag)
	in.NodeType = strings.TrimSpace(in.NodeType)

	if in.RawID == "" {
		return "", false
	}

	if prefix, local, ok := strings.Cut(in.RawID, ":"); ok && local != "" {
		upper := strings.ToUpper(prefix)
		if _, recognized := c.tables.RecognizedPrefixes[upper]; recognized {
			return upper + ":" + local, true
		}
	}

	if ns, ok := c.tables.SourcePrefixes[in.SourceTag]; ok {
		return ns + ":" + in.RawID, true
	}

	for _, rule := range c.rules {
		if curie, ok := rule.Match(in); ok {
			return curie, true
		}
	}

	return "", false
}

// Category returns the biolink category for a dataset node type, falling
// back to biolink:NamedThing.
func (c *Classifier) Category(nodeType string) string {
	if cat, ok := c.tables.NodeTypeCategories[nodeType]; ok {
		return cat
	}
	return "biolink:NamedThing"
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
