package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/arbor/pkg/errors"
)

// FileStore is a file-based document store for CLI usage.
// Documents are stored as JSON files in a data directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based store.
// If baseDir is empty, it defaults to $XDG_DATA_HOME/arbor/documents or
// ~/.local/share/arbor/documents.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create document dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func defaultDataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "arbor", "documents"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "arbor", "documents"), nil
}

// Dir returns the directory documents are stored in.
func (s *FileStore) Dir() string { return s.baseDir }

func (s *FileStore) documentPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Document, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.documentPath(id), id)
}

func (s *FileStore) read(path, id string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.DocumentNotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read document %s", id)
	}
	return unmarshal(data)
}

func (s *FileStore) Put(ctx context.Context, doc *Document) error {
	if err := validateDocument(doc); err != nil {
		return err
	}
	data, err := marshal(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write to a temp file and rename so readers never see a partial document.
	path := s.documentPath(doc.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write document %s", doc.ID)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeStore, err, "write document %s", doc.ID)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.documentPath(id))
	if os.IsNotExist(err) {
		return errors.DocumentNotFound(id)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete document %s", id)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list documents")
	}

	out := []Summary{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		doc, err := s.read(filepath.Join(s.baseDir, name), id)
		if err != nil {
			// Skip unreadable files rather than failing the whole listing.
			continue
		}
		out = append(out, doc.Summary())
	}
	sortSummaries(out)
	return out, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
