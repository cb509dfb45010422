package cache

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/arbor/pkg/layout"
	"github.com/matzehuels/arbor/pkg/tree"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

var errTransient = errors.New("connection reset")

func sampleTree() *tree.Node {
	root := tree.New(0, "root")
	root.AddChild(tree.New(1, "a"))
	root.AddChild(tree.New(2, "b"))
	return root
}

func TestTreeHash(t *testing.T) {
	a := sampleTree()
	b := sampleTree()
	b.X, b.Y = 400, 100
	b.Children[0].X = 325

	if TreeHash(a) != TreeHash(b) {
		t.Error("positions must not change the tree hash")
	}

	b.Children[1].Text = "c"
	if TreeHash(a) == TreeHash(b) {
		t.Error("labels must change the tree hash")
	}

	c := sampleTree()
	c.Children[0].Highlight = tree.Global(1)
	if TreeHash(a) == TreeHash(c) {
		t.Error("highlights must change the tree hash")
	}

	if TreeHash(nil) != Hash(nil) {
		t.Error("nil tree should hash like empty input")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	cfg := layout.DefaultConfig()

	lk1 := k.LayoutKey("hash123", cfg)
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey should be prefixed: %s", lk1)
	}
	if lk1 != k.LayoutKey("hash123", cfg) {
		t.Error("LayoutKey should be deterministic")
	}

	wide := cfg
	wide.HorizontalSpacing = 200
	if lk1 == k.LayoutKey("hash123", wide) {
		t.Error("Different configs should produce different keys")
	}
	if lk1 == k.LayoutKey("hash456", cfg) {
		t.Error("Different trees should produce different keys")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", StyleHash: "s"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", StyleHash: "s"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ak1, "artifact:") {
		t.Errorf("ArtifactKey should be prefixed: %s", ak1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "doc:123:")
	cfg := layout.DefaultConfig()

	got := scoped.LayoutKey("h", cfg)
	if got != "doc:123:"+inner.LayoutKey("h", cfg) {
		t.Errorf("ScopedKeyer LayoutKey unexpected: %s", got)
	}

	opts := ArtifactKeyOpts{Format: "svg"}
	if got := scoped.ArtifactKey("h", opts); got != "doc:123:"+inner.ArtifactKey("h", opts) {
		t.Errorf("ScopedKeyer ArtifactKey unexpected: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.LayoutKey("h", layout.DefaultConfig())
	if !strings.HasPrefix(key, "prefix:layout:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get(k) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "old", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry not removed from disk")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl entry should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("v"), 0)

	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry = hit %v, err %v, want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, errTransient) {
		t.Error("wrapped error should unwrap to the cause")
	}
	if IsRetryable(errTransient) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err %v, calls %d", err, calls)
	}

	permanent := errors.New("permanent")
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return permanent
	})
	if err != permanent || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errTransient)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retryable: err %v, calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errTransient)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestClassify(t *testing.T) {
	if IsRetryable(classify(errTransient)) {
		t.Error("plain errors are not retryable")
	}
	if !IsRetryable(classify(&net.OpError{Op: "dial", Net: "tcp", Err: os.ErrDeadlineExceeded})) {
		t.Error("network timeouts should be retryable")
	}
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
}
