// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entityindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/kg-reconciler/pkg/types"
)

// Lookup resolves a CURIE to its entity record, matching either the
// canonical identifier or any equivalent identifier.
func (s *Store) Lookup(ctx context.Context, curie string) (*types.EntityRecord, error) {
	entityID := curie

	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM entities WHERE id = ?`, curie,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("looking up entity: %w", err)
	}

	if exists == 0 {
		err := s.db.QueryRowContext(ctx,
			`SELECT entity_id FROM equivalents WHERE identifier = ? LIMIT 1`, curie,
		).Scan(&entityID)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("identifier %s not found", curie)
		}
		if err != nil {
			return nil, fmt.Errorf("looking up equivalent: %w", err)
		}
	}

	return s.fetch(ctx, entityID)
}

// SearchResult is an entity matched by label search.
type SearchResult struct {
	*types.EntityRecord
	// Key is the canonical identifier the entity is stored under.
	Key string `json:"key"`
}

// Search runs a full-text query over entity labels. limit of zero uses
// the store default.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id FROM entities_fts
		 JOIN entities e ON e.rowid = entities_fts.rowid
		 WHERE entities_fts MATCH ?
		 ORDER BY entities_fts.rank
		 LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching labels: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(ids))
	for _, id := range ids {
		rec, err := s.fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{EntityRecord: rec, Key: id})
	}
	return results, nil
}

// fetch assembles a full entity record from the entities and equivalents
// tables.
func (s *Store) fetch(ctx context.Context, entityID string) (*types.EntityRecord, error) {
	var (
		label       string
		typesJSON   string
		sourcesJSON string
		confidence  sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT label, types, source_databases, confidence FROM entities WHERE id = ?`,
		entityID,
	).Scan(&label, &typesJSON, &sourcesJSON, &confidence)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("entity %s not found", entityID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching entity %s: %w", entityID, err)
	}

	rec := &types.EntityRecord{
		ID: types.Identifier{Identifier: entityID, Label: label},
	}
	json.Unmarshal([]byte(typesJSON), &rec.Types)
	json.Unmarshal([]byte(sourcesJSON), &rec.SourceDatabases)
	if confidence.Valid {
		v := confidence.Float64
		rec.ConfidenceScore = &v
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT identifier, label FROM equivalents WHERE entity_id = ? ORDER BY rowid`, entityID)
	if err != nil {
		return nil, fmt.Errorf("fetching equivalents for %s: %w", entityID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var eq types.Identifier
		if err := rows.Scan(&eq.Identifier, &eq.Label); err != nil {
			return nil, fmt.Errorf("scanning equivalent: %w", err)
		}
		rec.EquivalentIdentifiers = append(rec.EquivalentIdentifiers, eq)
	}
	return rec, rows.Err()
}
