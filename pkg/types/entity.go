// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Identifier is a CURIE with its human-readable label. It appears both as
// an entity's primary identifier and in equivalent-identifier lists.
type Identifier struct {
	// Identifier is a compact URI, e.g. "NCBIGene:2244".
	Identifier string `json:"identifier" yaml:"identifier"`

	// Label is the preferred name for the identifier; may be empty.
	Label string `json:"label" yaml:"label"`
}

// EntityRecord is the persisted form of a normalized entity. The field
// names and nesting match the JSON written by the normalization service
// and read back by every stage, keyed by canonical identifier:
//
//	{"<id>": {"id": {"identifier": ..., "label": ...},
//	          "equivalent_identifiers": [...], "type": [...],
//	          "source_databases": [...], "confidence_score": null}}
//
// Changing this shape breaks compatibility with stored datasets.
type EntityRecord struct {
	ID                    Identifier   `json:"id" yaml:"id"`
	EquivalentIdentifiers []Identifier `json:"equivalent_identifiers" yaml:"equivalent_identifiers"`
	Types                 []string     `json:"type" yaml:"type"`
	SourceDatabases       []string     `json:"source_databases,omitempty" yaml:"source_databases,omitempty"`
	ConfidenceScore       *float64     `json:"confidence_score" yaml:"confidence_score"`
}

// Collection is a set of persisted entity records keyed by canonical
// identifier. A null value means the normalization service could not map
// the input CURIE.
type Collection map[string]*EntityRecord

// NormalizedEntity is the working in-memory form of an entity during a
// merge run. Types and SourceDatabases are sets; EquivalentIdentifiers is
// an ordered list deduplicated by identifier.
type NormalizedEntity struct {
	Identifier            string
	Label                 string
	EquivalentIdentifiers []Identifier
	Types                 map[string]struct{}
	SourceDatabases       map[string]struct{}

	// ConfidenceScore is nil unless a scoring strategy assigned one.
	ConfidenceScore *float64
}

// NewEntity builds a working entity from a persisted record, tagging it
// with the originating source database. The record is not retained; the
// entity owns fresh copies of every field.
func NewEntity(rec *EntityRecord, sourceDB string) *NormalizedEntity {
	e := &NormalizedEntity{
		Identifier:            rec.ID.Identifier,
		Label:                 rec.ID.Label,
		EquivalentIdentifiers: append([]Identifier(nil), rec.EquivalentIdentifiers...),
		Types:                 make(map[string]struct{}, len(rec.Types)),
		SourceDatabases:       map[string]struct{}{sourceDB: {}},
	}
	for _, t := range rec.Types {
		e.Types[t] = struct{}{}
	}
	if len(rec.SourceDatabases) > 0 {
		for _, s := range rec.SourceDatabases {
			e.SourceDatabases[s] = struct{}{}
		}
	}
	return e
}

// HasEquivalent reports whether the entity already lists id among its
// equivalent identifiers.
func (e *NormalizedEntity) HasEquivalent(id string) bool {
	for _, eq := range e.EquivalentIdentifiers {
		if eq.Identifier == id {
			return true
		}
	}
	return false
}

// Record converts the entity back to its persisted form. Set-valued
// fields are emitted in sorted order so output files are deterministic.
func (e *NormalizedEntity) Record() *EntityRecord {
	rec := &EntityRecord{
		ID:                    Identifier{Identifier: e.Identifier, Label: e.Label},
		EquivalentIdentifiers: append([]Identifier(nil), e.EquivalentIdentifiers...),
		Types:                 setToSorted(e.Types),
		SourceDatabases:       setToSorted(e.SourceDatabases),
		ConfidenceScore:       e.ConfidenceScore,
	}
	return rec
}

func setToSorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LoadCollection reads a collection of entity records from a JSON file.
// A malformed or missing file is fatal to the run.
func LoadCollection(path string) (Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading collection %s: %w", path, err)
	}
	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing collection %s: %w", path, err)
	}
	return c, nil
}

// SaveCollection writes a collection as indented JSON.
func SaveCollection(path string, c Collection) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing collection %s: %w", path, err)
	}
	return nil
}
