// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/kg-reconciler/pkg/types"
)

// typeNamespacePrefix is the vocabulary namespace every semantic type tag
// must carry.
const typeNamespacePrefix = "biolink:"

// ValidateStructure checks that every record has its required fields:
// an identifier, a non-empty list of correctly namespaced types, source
// databases, and equivalent-identifier entries with identifiers.
func ValidateStructure(c types.Collection) []string {
	var issues []string
	for _, key := range sortedKeys(c) {
		rec := c[key]
		if rec == nil {
			issues = append(issues, fmt.Sprintf("entity %s is null", key))
			continue
		}
		if rec.ID.Identifier == "" {
			issues = append(issues, fmt.Sprintf("entity %s has malformed id field", key))
		}
		if len(rec.Types) == 0 {
			issues = append(issues, fmt.Sprintf("entity %s has empty type list", key))
		}
		for _, t := range rec.Types {
			if !strings.HasPrefix(t, typeNamespacePrefix) {
				issues = append(issues, fmt.Sprintf("entity %s has invalid type: %s", key, t))
			}
		}
		if len(rec.SourceDatabases) == 0 {
			issues = append(issues, fmt.Sprintf("entity %s missing required field: source_databases", key))
		}
		for i, eq := range rec.EquivalentIdentifiers {
			if eq.Identifier == "" {
				issues = append(issues, fmt.Sprintf("entity %s has malformed equivalent_identifier at index %d", key, i))
			}
		}
	}
	return issues
}

// ValidateConsistency checks that each collection key matches its record's
// identifier and that every entity lists itself among its equivalents.
func ValidateConsistency(c types.Collection) []string {
	var issues []string
	for _, key := range sortedKeys(c) {
		rec := c[key]
		if rec == nil {
			continue
		}
		if rec.ID.Identifier != "" && rec.ID.Identifier != key {
			issues = append(issues, fmt.Sprintf(
				"entity key %s does not match id.identifier %s", key, rec.ID.Identifier))
		}

		found := false
		for _, eq := range rec.EquivalentIdentifiers {
			if eq.Identifier == key {
				found = true
				break
			}
		}
		if !found {
			issues = append(issues, fmt.Sprintf(
				"entity %s not found in its own equivalent_identifiers", key))
		}
	}
	return issues
}

// ValidateDuplicates checks that no raw identifier — main or equivalent —
// is claimed by more than one entity key. Each violation lists every
// offending key.
func ValidateDuplicates(c types.Collection) []string {
	claims := make(map[string][]string)
	for _, key := range sortedKeys(c) {
		rec := c[key]
		if rec == nil {
			continue
		}
		seen := map[string]struct{}{}
		if rec.ID.Identifier != "" {
			claims[rec.ID.Identifier] = append(claims[rec.ID.Identifier], key)
			seen[rec.ID.Identifier] = struct{}{}
		}
		for _, eq := range rec.EquivalentIdentifiers {
			if eq.Identifier == "" {
				continue
			}
			// An entity claiming the same identifier twice is a
			// within-entity issue, not a cross-entity one.
			if _, dup := seen[eq.Identifier]; dup {
				continue
			}
			seen[eq.Identifier] = struct{}{}
			claims[eq.Identifier] = append(claims[eq.Identifier], key)
		}
	}

	var issues []string
	identifiers := make([]string, 0, len(claims))
	for id := range claims {
		identifiers = append(identifiers, id)
	}
	sort.Strings(identifiers)
	for _, id := range identifiers {
		keys := claims[id]
		if len(keys) > 1 {
			issues = append(issues, fmt.Sprintf(
				"identifier %s appears in multiple entities: %s", id, strings.Join(keys, ", ")))
		}
	}
	return issues
}

func sortedKeys(c types.Collection) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
