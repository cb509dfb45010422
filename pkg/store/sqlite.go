package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/tree"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	tree       TEXT NOT NULL,
	nodes      INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_updated_at ON documents (updated_at DESC);
`

// SQLiteStore keeps documents in a single SQLite database.
// Timestamps are stored as Unix nanoseconds.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open sqlite %s", path)
	}
	// modernc's driver serializes writes per connection; one connection
	// avoids SQLITE_BUSY between our own goroutines.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create schema")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Document, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	var (
		doc              = Document{ID: id}
		treeJSON         string
		created, updated int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, tree, created_at, updated_at FROM documents WHERE id = ?`, id,
	).Scan(&doc.Name, &treeJSON, &created, &updated)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.DocumentNotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "get document %s", id)
	}

	root, err := decodeTree([]byte(treeJSON))
	if err != nil {
		return nil, err
	}
	doc.Tree = root
	doc.CreatedAt = time.Unix(0, created).UTC()
	doc.UpdatedAt = time.Unix(0, updated).UTC()
	return &doc, nil
}

func (s *SQLiteStore) Put(ctx context.Context, doc *Document) error {
	if err := validateDocument(doc); err != nil {
		return err
	}
	treeJSON, err := encodeTree(doc.Tree)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, name, tree, nodes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			tree = excluded.tree,
			nodes = excluded.nodes,
			updated_at = excluded.updated_at`,
		doc.ID, doc.Name, string(treeJSON), tree.Count(doc.Tree),
		doc.CreatedAt.UnixNano(), doc.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "put document %s", doc.ID)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete document %s", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.DocumentNotFound(id)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, nodes, updated_at FROM documents ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list documents")
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sum     Summary
			updated int64
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Nodes, &updated); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "scan document")
		}
		sum.UpdatedAt = time.Unix(0, updated).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list documents")
	}
	return out, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
