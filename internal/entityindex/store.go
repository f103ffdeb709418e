// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entityindex persists a combined entity collection in SQLite for
// serving lookups: by canonical CURIE, by any equivalent identifier, or by
// label full-text search.
package entityindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/kg-reconciler/pkg/types"
)

const dbFile = "entities.db"

// Store manages the entity index SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the index database at indexDir/entities.db,
// creating the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entities (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			label TEXT,
			types TEXT NOT NULL,
			source_databases TEXT NOT NULL,
			confidence REAL
		)`,
		`CREATE TABLE IF NOT EXISTS equivalents (
			identifier TEXT NOT NULL,
			label TEXT,
			entity_id TEXT NOT NULL REFERENCES entities(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_equivalents_identifier ON equivalents(identifier)`,
		`CREATE INDEX IF NOT EXISTS idx_equivalents_entity_id ON equivalents(entity_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over labels, with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='entities_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE entities_fts USING fts5(label, content=entities, content_rowid=rowid)`,
			`CREATE TRIGGER entities_ai AFTER INSERT ON entities BEGIN
				INSERT INTO entities_fts(rowid, label) VALUES (new.rowid, new.label);
			END`,
			`CREATE TRIGGER entities_ad AFTER DELETE ON entities BEGIN
				INSERT INTO entities_fts(entities_fts, rowid, label) VALUES('delete', old.rowid, old.label);
			END`,
			`CREATE TRIGGER entities_au AFTER UPDATE ON entities BEGIN
				INSERT INTO entities_fts(entities_fts, rowid, label) VALUES('delete', old.rowid, old.label);
				INSERT INTO entities_fts(rowid, label) VALUES (new.rowid, new.label);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// LoadSummary holds counts from an index load run.
type LoadSummary struct {
	Loaded   int
	Replaced int
	Skipped  int
}

// Total returns the number of collection entries processed.
func (s LoadSummary) Total() int {
	return s.Loaded + s.Replaced + s.Skipped
}

// Load writes a combined collection into the index. Existing entities
// with the same identifier are replaced along with their equivalents;
// null records are skipped and counted.
func (s *Store) Load(ctx context.Context, c types.Collection, w io.Writer) (LoadSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	entityStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entities (id, label, types, source_databases, confidence)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			label=excluded.label, types=excluded.types,
			source_databases=excluded.source_databases, confidence=excluded.confidence`)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("preparing entity insert: %w", err)
	}
	defer entityStmt.Close()

	equivStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO equivalents (identifier, label, entity_id) VALUES (?, ?, ?)`)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("preparing equivalent insert: %w", err)
	}
	defer equivStmt.Close()

	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var summary LoadSummary
	for _, key := range keys {
		rec := c[key]
		if rec == nil {
			summary.Skipped++
			continue
		}

		var existing int
		if err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM entities WHERE id = ?`, key,
		).Scan(&existing); err != nil {
			return summary, fmt.Errorf("checking entity %s: %w", key, err)
		}
		if existing > 0 {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM equivalents WHERE entity_id = ?`, key); err != nil {
				return summary, fmt.Errorf("clearing equivalents for %s: %w", key, err)
			}
		}

		typesJSON, _ := json.Marshal(rec.Types)
		sourcesJSON, _ := json.Marshal(rec.SourceDatabases)

		var confidence any
		if rec.ConfidenceScore != nil {
			confidence = *rec.ConfidenceScore
		}

		if _, err := entityStmt.ExecContext(ctx,
			key, rec.ID.Label, string(typesJSON), string(sourcesJSON), confidence,
		); err != nil {
			return summary, fmt.Errorf("inserting entity %s: %w", key, err)
		}

		for _, eq := range rec.EquivalentIdentifiers {
			if _, err := equivStmt.ExecContext(ctx, eq.Identifier, eq.Label, key); err != nil {
				return summary, fmt.Errorf("inserting equivalent %s for %s: %w", eq.Identifier, key, err)
			}
		}

		if existing > 0 {
			summary.Replaced++
		} else {
			summary.Loaded++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing load: %w", err)
	}

	fmt.Fprintf(w, "loaded: %d, replaced: %d, skipped (null): %d\n",
		summary.Loaded, summary.Replaced, summary.Skipped)
	return summary, nil
}
