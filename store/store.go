// Package store persists batch results to SQLite so past summaries can be
// listed and re-downloaded.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"paperdigest/batch"
	"paperdigest/dbopen"
	"paperdigest/extract"
)

const ddl = `
CREATE TABLE IF NOT EXISTS batches (
    id               TEXT PRIMARY KEY,
    created_at       TEXT NOT NULL,
    length           TEXT NOT NULL,
    instructions     TEXT NOT NULL,
    combined_summary TEXT
);

CREATE TABLE IF NOT EXISTS batch_documents (
    batch_id   TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    filename   TEXT NOT NULL,
    summary    TEXT NOT NULL DEFAULT '',
    error      TEXT NOT NULL DEFAULT '',
    metadata   TEXT NOT NULL DEFAULT '{}',
    PRIMARY KEY (batch_id, position)
);

CREATE INDEX IF NOT EXISTS idx_batches_created ON batches(created_at);
`

// Store wraps an SQLite database holding batch history.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(ddl))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an already-open database and applies the schema.
// Used by tests with dbopen.OpenMemory.
func NewWithDB(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(ddl); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// Batch is one persisted batch with its documents in input order.
type Batch struct {
	ID              string                 `json:"id"`
	CreatedAt       string                 `json:"created_at"`
	Length          string                 `json:"length"`
	Instructions    string                 `json:"instructions,omitempty"`
	CombinedSummary *string                `json:"combined_summary"`
	Documents       []batch.DocumentResult `json:"summaries"`
}

// Save records one completed batch and returns its generated id.
func (s *Store) Save(ctx context.Context, opts batch.Options, res *batch.Result) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	err := dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO batches (id, created_at, length, instructions, combined_summary) VALUES (?, ?, ?, ?, ?)`,
			id, now, opts.Length, opts.Instructions, res.CombinedSummary,
		); err != nil {
			return err
		}
		for i, doc := range res.Summaries {
			meta := "{}"
			if doc.Metadata != nil {
				data, err := json.Marshal(doc.Metadata)
				if err != nil {
					return fmt.Errorf("marshal metadata: %w", err)
				}
				meta = string(data)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO batch_documents (batch_id, position, filename, summary, error, metadata) VALUES (?, ?, ?, ?, ?, ?)`,
				id, i, doc.Filename, doc.Summary, doc.Error, meta,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("save batch: %w", err)
	}
	return id, nil
}

// Get returns one batch with its documents. Returns nil, nil if not found.
func (s *Store) Get(ctx context.Context, id string) (*Batch, error) {
	b := &Batch{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, length, instructions, combined_summary FROM batches WHERE id = ?`, id,
	).Scan(&b.CreatedAt, &b.Length, &b.Instructions, &b.CombinedSummary)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT filename, summary, error, metadata FROM batch_documents WHERE batch_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var doc batch.DocumentResult
		var meta string
		if err := rows.Scan(&doc.Filename, &doc.Summary, &doc.Error, &meta); err != nil {
			return nil, err
		}
		if meta != "" && meta != "{}" {
			var m extract.Metadata
			if err := json.Unmarshal([]byte(meta), &m); err == nil {
				doc.Metadata = m
			}
		}
		b.Documents = append(b.Documents, doc)
	}
	return b, rows.Err()
}

// List returns the most recent batches, newest first, without documents.
func (s *Store) List(ctx context.Context, limit int) ([]*Batch, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, length, instructions, combined_summary FROM batches ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*Batch
	for rows.Next() {
		b := &Batch{}
		if err := rows.Scan(&b.ID, &b.CreatedAt, &b.Length, &b.Instructions, &b.CombinedSummary); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// Delete removes a batch and its documents.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM batches WHERE id = ?`, id)
	return err
}
