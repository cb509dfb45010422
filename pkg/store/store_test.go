package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/observability"
	"github.com/matzehuels/arbor/pkg/tree"
)

func sampleTree() *tree.Node {
	root := tree.New(0, "root")
	a := root.AddChild(tree.New(1, "a"))
	a.AddChild(tree.New(3, "c"))
	b := root.AddChild(tree.New(2, "b"))
	b.Highlight = tree.Custom("#ff0000")
	return root
}

// testStore runs the behavior every backend must share.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("put and get", func(t *testing.T) {
		doc, err := NewDocument("family", sampleTree())
		require.NoError(t, err)
		require.NoError(t, s.Put(ctx, doc))

		got, err := s.Get(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, doc.Name, got.Name)
		assert.Equal(t, 4, tree.Count(got.Tree))
		assert.WithinDuration(t, doc.UpdatedAt, got.UpdatedAt, time.Millisecond)

		b, ok := tree.Find(got.Tree, 2)
		require.True(t, ok)
		require.NotNil(t, b.Highlight)
		assert.Equal(t, "#ff0000", b.Highlight.Color)
	})

	t.Run("put replaces", func(t *testing.T) {
		doc, err := NewDocument("draft", nil)
		require.NoError(t, err)
		require.NoError(t, s.Put(ctx, doc))

		doc.Name = "final"
		doc.Tree.AddChild(tree.New(1, "child"))
		doc.Touch()
		require.NoError(t, s.Put(ctx, doc))

		got, err := s.Get(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, "final", got.Name)
		assert.Equal(t, 2, tree.Count(got.Tree))
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := s.Get(ctx, "8a3c8f0e-1d4b-4f1e-9a55-6b8f7e0c1d2a")
		assert.True(t, errors.Is(err, errors.ErrCodeDocumentNotFound), "got %v", err)

		err = s.Delete(ctx, "8a3c8f0e-1d4b-4f1e-9a55-6b8f7e0c1d2a")
		assert.True(t, errors.Is(err, errors.ErrCodeDocumentNotFound), "got %v", err)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := s.Get(ctx, "../../etc/passwd")
		assert.True(t, errors.Is(err, errors.ErrCodeDocumentNotFound), "got %v", err)
	})

	t.Run("delete", func(t *testing.T) {
		doc, err := NewDocument("doomed", nil)
		require.NoError(t, err)
		require.NoError(t, s.Put(ctx, doc))
		require.NoError(t, s.Delete(ctx, doc.ID))

		_, err = s.Get(ctx, doc.ID)
		assert.True(t, errors.Is(err, errors.ErrCodeDocumentNotFound))
	})

	t.Run("list newest first", func(t *testing.T) {
		before, err := s.List(ctx)
		require.NoError(t, err)

		older, _ := NewDocument("older", nil)
		older.UpdatedAt = time.Now().UTC().Add(time.Hour)
		newer, _ := NewDocument("newer", sampleTree())
		newer.UpdatedAt = time.Now().UTC().Add(2 * time.Hour)
		require.NoError(t, s.Put(ctx, older))
		require.NoError(t, s.Put(ctx, newer))

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, len(before)+2)
		assert.Equal(t, newer.ID, list[0].ID)
		assert.Equal(t, 4, list[0].Nodes)
		assert.Equal(t, older.ID, list[1].ID)
	})

	t.Run("invalid document", func(t *testing.T) {
		doc, _ := NewDocument("ok", nil)
		doc.Tree = nil
		assert.True(t, errors.Is(s.Put(ctx, doc), errors.ErrCodeInvalidInput))
		assert.Error(t, s.Put(ctx, nil))
	})
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()
	testStore(t, s)
}

func TestFileStoreSkipsCorruptFiles(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	doc, _ := NewDocument("good", nil)
	require.NoError(t, s.Put(ctx, doc))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "junk.json"), []byte("{"), 0o600))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, doc.ID, list[0].ID)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	defer s.Close()
	testStore(t, s)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("ARBOR_TEST_REDIS_URL")
	if url == "" {
		t.Skip("ARBOR_TEST_REDIS_URL not set")
	}
	s, err := NewRedisStoreFromURL(context.Background(), url)
	require.NoError(t, err)
	s.prefix = "arbor-test:" + time.Now().Format("150405.000000") + ":"
	defer s.Close()
	testStore(t, s)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("ARBOR_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ARBOR_TEST_MONGO_URI not set")
	}
	s, err := NewMongoStore(context.Background(), uri, "arbor_test_"+time.Now().Format("150405"))
	require.NoError(t, err)
	defer func() {
		_ = s.coll.Database().Drop(context.Background())
		_ = s.Close()
	}()
	testStore(t, s)
}

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument("tree", nil)
	require.NoError(t, err)
	assert.NoError(t, ValidateID(doc.ID))
	assert.Equal(t, tree.DefaultText, doc.Tree.Text)
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)

	_, err = NewDocument("", nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = NewDocument("a/b", nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		location string
		backend  string
	}{
		{filepath.Join(dir, "docs"), "file"},
		{"file://" + filepath.Join(dir, "other"), "file"},
		{filepath.Join(dir, "a.db"), "sqlite"},
		{"sqlite://" + filepath.Join(dir, "b.sqlite"), "sqlite"},
	}
	for _, tt := range tests {
		s, err := Open(ctx, tt.location)
		require.NoError(t, err, tt.location)
		o, ok := s.(*observed)
		require.True(t, ok)
		assert.Equal(t, tt.backend, o.backend, tt.location)
		require.NoError(t, s.Close())
	}

	_, err := Open(ctx, "ftp://example.com")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

type recordingHooks struct {
	observability.NoopStoreHooks
	ops []string
}

func (h *recordingHooks) OnStoreOperation(_ context.Context, backend, op string, _ time.Duration, _ error) {
	h.ops = append(h.ops, backend+":"+op)
}

func TestObserve(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetStoreHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	s := Observe("file", fs)

	doc, _ := NewDocument("x", nil)
	require.NoError(t, s.Put(ctx, doc))
	_, _ = s.Get(ctx, doc.ID)
	_, _ = s.List(ctx)
	_ = s.Delete(ctx, doc.ID)

	assert.Equal(t, []string{"file:put", "file:get", "file:list", "file:delete"}, hooks.ops)
}
