// Package store persists named tree documents.
//
// A [Document] is a tree plus an id, a display name and timestamps. The
// [Store] interface has one implementation per backend:
//   - [FileStore]: one JSON file per document, used by the CLI
//   - [SQLiteStore]: a single SQLite database file
//   - [RedisStore]: shared storage for multi-instance API deployments
//   - [MongoStore]: MongoDB collection
//
// [Open] picks a backend from a URL:
//
//	s, err := store.Open(ctx, "sqlite:///var/lib/arbor/docs.db")
//	s, err := store.Open(ctx, "redis://localhost:6379/0")
//	s, err := store.Open(ctx, "mongodb://localhost:27017/arbor")
//	s, err := store.Open(ctx, "")  // ~/.local/share/arbor/documents
package store

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/tree"
)

// Document is a stored tree.
type Document struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Tree      *tree.Node `json:"tree"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Summary is a document without its tree, as returned by List.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nodes     int       `json:"nodes"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the interface for document storage backends.
type Store interface {
	// Get returns the document with id, or a DOCUMENT_NOT_FOUND error.
	Get(ctx context.Context, id string) (*Document, error)

	// Put creates or replaces a document. UpdatedAt is set by the caller.
	Put(ctx context.Context, doc *Document) error

	// Delete removes a document. Deleting a missing document is an error.
	Delete(ctx context.Context, id string) error

	// List returns summaries of all documents, most recently updated first.
	List(ctx context.Context) ([]Summary, error)

	// Close releases backend resources.
	Close() error
}

// NewDocument creates a document with a fresh id. A nil root becomes the
// default single-node tree.
func NewDocument(name string, root *tree.Node) (*Document, error) {
	if err := errors.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	if root == nil {
		root = tree.New(0, tree.DefaultText)
	}
	now := time.Now().UTC()
	return &Document{
		ID:        uuid.NewString(),
		Name:      name,
		Tree:      root,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Touch marks the document as modified now.
func (d *Document) Touch() {
	d.UpdatedAt = time.Now().UTC()
}

// Summary returns the listing entry for d.
func (d *Document) Summary() Summary {
	return Summary{ID: d.ID, Name: d.Name, Nodes: tree.Count(d.Tree), UpdatedAt: d.UpdatedAt}
}

// ValidateID checks that id is a UUID as produced by [NewDocument]. Backends
// call it before touching storage so ids can never name arbitrary files or
// keys.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.DocumentNotFound(id)
	}
	return nil
}

func validateDocument(doc *Document) error {
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidInput, "document is nil")
	}
	if err := ValidateID(doc.ID); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid document id %q", doc.ID)
	}
	if err := errors.ValidateDocumentName(doc.Name); err != nil {
		return err
	}
	if doc.Tree == nil {
		return errors.New(errors.ErrCodeInvalidInput, "document %s has no tree", doc.ID)
	}
	return nil
}

func marshal(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "encode document %s", doc.ID)
	}
	return data, nil
}

func unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode document")
	}
	return &doc, nil
}

func encodeTree(root *tree.Node) ([]byte, error) {
	data, err := json.Marshal(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "encode tree")
	}
	return data, nil
}

func decodeTree(data []byte) (*tree.Node, error) {
	var root tree.Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode tree")
	}
	return &root, nil
}

func sortSummaries(s []Summary) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].UpdatedAt.Equal(s[j].UpdatedAt) {
			return s[i].UpdatedAt.After(s[j].UpdatedAt)
		}
		return s[i].ID < s[j].ID
	})
}
