package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/docnorm/pkg/docnorm/document"
	"github.com/cognicore/docnorm/pkg/docnorm/sentence"
	"github.com/cognicore/docnorm/pkg/docnorm/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	input_file TEXT,
	language TEXT NOT NULL,
	created_at TEXT NOT NULL,
	sentence_count INTEGER NOT NULL,
	token_count INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS documents_language ON documents(language);
CREATE INDEX IF NOT EXISTS documents_input_file ON documents(input_file);

CREATE TABLE IF NOT EXISTS sentences (
	doc_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	words TEXT NOT NULL,
	lemmas TEXT NOT NULL,
	pos TEXT NOT NULL,
	offsets TEXT,
	meta TEXT,
	PRIMARY KEY(doc_id, idx),
	FOREIGN KEY(doc_id) REFERENCES documents(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// PutDocument inserts or replaces a document and all of its sentences
func (s *sqliteStore) PutDocument(ctx context.Context, d *document.Document) error {
	if d == nil {
		return fmt.Errorf("put document: nil document")
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("put document: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO documents (id, input_file, language, created_at, sentence_count, token_count)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	input_file=excluded.input_file,
	language=excluded.language,
	created_at=excluded.created_at,
	sentence_count=excluded.sentence_count,
	token_count=excluded.token_count;
`
	if _, err := tx.ExecContext(ctx, stmt,
		d.ID,
		d.InputFile,
		d.Language,
		d.CreatedAt.UTC().Format(time.RFC3339Nano),
		d.Len(),
		d.Tokens(),
	); err != nil {
		return err
	}

	if err := replaceSentences(ctx, tx, d.ID, d.Sentences); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceSentences(ctx context.Context, tx *sql.Tx, docID string, sents []document.Sentence) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM sentences WHERE doc_id = ?`, docID); err != nil {
		return err
	}
	if len(sents) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO sentences (doc_id, idx, words, lemmas, pos, offsets, meta)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, sent := range sents {
		words, err := encodeJSON(nonNil(sent.Words))
		if err != nil {
			return err
		}
		lemmas, err := encodeJSON(nonNil(sent.Lemmas))
		if err != nil {
			return err
		}
		pos, err := encodeJSON(nonNil(sent.POS))
		if err != nil {
			return err
		}

		// NULL marks a sentence without offsets.
		var offsets sql.NullString
		if sent.Offsets.Present {
			spans := sent.Offsets.Spans
			if spans == nil {
				spans = []sentence.Span{}
			}
			enc, err := encodeJSON(spans)
			if err != nil {
				return err
			}
			offsets = sql.NullString{String: enc, Valid: true}
		}

		var meta sql.NullString
		if len(sent.Meta) > 0 {
			enc, err := encodeJSON(sent.Meta)
			if err != nil {
				return err
			}
			meta = sql.NullString{String: enc, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, docID, i, words, lemmas, pos, offsets, meta); err != nil {
			return err
		}
	}
	return nil
}

// GetDocument loads a document by ID
func (s *sqliteStore) GetDocument(ctx context.Context, id string) (*document.Document, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, input_file, language, created_at
FROM documents WHERE id = ?`, id)

	var d document.Document
	var inputFile sql.NullString
	var createdAt string
	if err := row.Scan(&d.ID, &inputFile, &d.Language, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", id, store.ErrNotFound)
		}
		return nil, err
	}
	d.InputFile = inputFile.String

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("document %s: bad created_at %q: %w", id, createdAt, err)
	}
	d.CreatedAt = ts

	sents, err := s.loadSentences(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	d.Sentences = sents
	return &d, nil
}

func (s *sqliteStore) loadSentences(ctx context.Context, docID string) ([]document.Sentence, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT words, lemmas, pos, offsets, meta
FROM sentences WHERE doc_id = ? ORDER BY idx`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sents := []document.Sentence{}
	for rows.Next() {
		var words, lemmas, pos string
		var offsets, meta sql.NullString
		if err := rows.Scan(&words, &lemmas, &pos, &offsets, &meta); err != nil {
			return nil, err
		}

		var sent document.Sentence
		if err := json.Unmarshal([]byte(words), &sent.Words); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(lemmas), &sent.Lemmas); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(pos), &sent.POS); err != nil {
			return nil, err
		}
		if offsets.Valid {
			if err := json.Unmarshal([]byte(offsets.String), &sent.Offsets.Spans); err != nil {
				return nil, err
			}
			sent.Offsets.Present = true
		}
		if meta.Valid {
			if err := json.Unmarshal([]byte(meta.String), &sent.Meta); err != nil {
				return nil, err
			}
		}
		sent.Length = len(sent.Words)
		sents = append(sents, sent)
	}
	return sents, rows.Err()
}

// ListDocuments returns document summaries ordered by ID (creation order)
func (s *sqliteStore) ListDocuments(ctx context.Context, opts store.ListOptions) ([]store.Summary, error) {
	query := `
SELECT id, input_file, language, created_at, sentence_count, token_count
FROM documents
WHERE (? = '' OR language = ?) AND (? = '' OR input_file = ?)
ORDER BY id`
	args := []interface{}{opts.Language, opts.Language, opts.InputFile, opts.InputFile}
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.Summary{}
	for rows.Next() {
		var sum store.Summary
		var inputFile sql.NullString
		var createdAt string
		if err := rows.Scan(&sum.ID, &inputFile, &sum.Language, &createdAt, &sum.Sentences, &sum.Tokens); err != nil {
			return nil, err
		}
		sum.InputFile = inputFile.String
		if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("document %s: bad created_at %q: %w", sum.ID, createdAt, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// DeleteDocument removes a document and its sentences
func (s *sqliteStore) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// foreign_keys is per connection, so the cascade is not relied on.
	if _, err := tx.ExecContext(ctx, `DELETE FROM sentences WHERE doc_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("document %s: %w", id, store.ErrNotFound)
	}
	return tx.Commit()
}

func encodeJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
