package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/crimson-sun/triage/internal/model"

	_ "modernc.org/sqlite"
)

const defaultBatchSize = 500

// Option configures a Store.
type Option func(*Store)

// WithBatchSize sets how many examples are written per transaction.
// Default: 500.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// Store persists prepared examples and the label encoding in SQLite. It
// implements output.Output; writes are batched into transactions and the
// last batch is committed by Close.
type Store struct {
	db        *sql.DB
	batchSize int

	mu      sync.Mutex
	tx      *sql.Tx
	insert  *sql.Stmt
	pending int
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite output: open %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{db: db, batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite output: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS labels (
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS examples (
  split TEXT NOT NULL,
  row_index INTEGER NOT NULL,
  label_id INTEGER NOT NULL REFERENCES labels(id),
  input_ids TEXT NOT NULL,
  attention_mask TEXT NOT NULL,
  PRIMARY KEY (split, row_index)
);
`)
	return err
}

// Reset deletes all examples and replaces the label table with labels, in id
// order.
func (s *Store) Reset(ctx context.Context, labels []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commitLocked(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite output: reset: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM examples;"); err != nil {
		return fmt.Errorf("sqlite output: reset: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM labels;"); err != nil {
		return fmt.Errorf("sqlite output: reset: %w", err)
	}
	for id, name := range labels {
		if _, err := tx.ExecContext(ctx, "INSERT INTO labels(id, name) VALUES(?, ?);", id, name); err != nil {
			return fmt.Errorf("sqlite output: label %q: %w", name, err)
		}
	}
	return tx.Commit()
}

// Write stages ex in the current transaction, committing every batch.
func (s *Store) Write(ctx context.Context, ex model.Example) error {
	ids, err := json.Marshal(ex.InputIDs)
	if err != nil {
		return fmt.Errorf("sqlite output: marshal: %w", err)
	}
	mask, err := json.Marshal(ex.AttentionMask)
	if err != nil {
		return fmt.Errorf("sqlite output: marshal: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("sqlite output: begin: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
INSERT OR REPLACE INTO examples(split, row_index, label_id, input_ids, attention_mask)
VALUES(?, ?, ?, ?, ?);
`)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite output: prepare: %w", err)
		}
		s.tx, s.insert = tx, stmt
	}

	if _, err := s.insert.ExecContext(ctx, ex.Split, ex.Row, ex.LabelID, string(ids), string(mask)); err != nil {
		return fmt.Errorf("sqlite output: insert %s/%d: %w", ex.Split, ex.Row, err)
	}
	s.pending++
	if s.pending >= s.batchSize {
		return s.commitLocked()
	}
	return nil
}

// Flush commits any staged examples. Readers flush first: the single
// connection is held by an open transaction.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked()
}

func (s *Store) commitLocked() error {
	if s.tx == nil {
		return nil
	}
	s.insert.Close()
	err := s.tx.Commit()
	s.tx, s.insert, s.pending = nil, nil, 0
	if err != nil {
		return fmt.Errorf("sqlite output: commit: %w", err)
	}
	return nil
}

// Close commits staged examples and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.commitLocked()
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	s.db = nil
	return err
}

// Labels returns the stored label names in id order.
func (s *Store) Labels(ctx context.Context) ([]string, error) {
	if err := s.Flush(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM labels ORDER BY id;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Counts returns committed example counts per split and label id.
func (s *Store) Counts(ctx context.Context) (map[string]map[int]int, error) {
	if err := s.Flush(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT split, label_id, COUNT(*) FROM examples GROUP BY split, label_id;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]map[int]int)
	for rows.Next() {
		var (
			split string
			id, n int
		)
		if err := rows.Scan(&split, &id, &n); err != nil {
			return nil, err
		}
		if out[split] == nil {
			out[split] = make(map[int]int)
		}
		out[split][id] = n
	}
	return out, rows.Err()
}

// Examples returns the committed examples of one split in row order.
func (s *Store) Examples(ctx context.Context, split string) ([]model.Example, error) {
	if err := s.Flush(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT row_index, label_id, input_ids, attention_mask
FROM examples WHERE split=? ORDER BY row_index;
`, split)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Example
	for rows.Next() {
		ex := model.Example{Split: split}
		var ids, mask string
		if err := rows.Scan(&ex.Row, &ex.LabelID, &ids, &mask); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(ids), &ex.InputIDs); err != nil {
			return nil, fmt.Errorf("sqlite output: %s/%d input_ids: %w", split, ex.Row, err)
		}
		if err := json.Unmarshal([]byte(mask), &ex.AttentionMask); err != nil {
			return nil, fmt.Errorf("sqlite output: %s/%d attention_mask: %w", split, ex.Row, err)
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}
