package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/errors"
)

func TestConfigInit(t *testing.T) {
	env := isolate(t)
	path := filepath.Join(env.config, "arbor", "config.toml")

	if err := runCLI(t, "config", "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout != config.Default().Layout {
		t.Errorf("layout = %+v, want defaults", cfg.Layout)
	}

	err = runCLI(t, "config", "init")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("second init: got %v, want INVALID_CONFIG", err)
	}
	if err := runCLI(t, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestConfigFlagOverridesPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")

	if err := runCLI(t, "--config", path, "config", "init"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config not written to --config path: %v", err)
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := map[string]string{
		":8080":          "localhost:8080",
		"127.0.0.1:9000": "127.0.0.1:9000",
		"":               "",
	}
	for in, want := range tests {
		if got := displayAddr(in); got != want {
			t.Errorf("displayAddr(%q) = %q, want %q", in, got, want)
		}
	}
}
