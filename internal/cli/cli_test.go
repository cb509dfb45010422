package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arbor/pkg/observability"
)

type testEnv struct {
	cache, config, data string
}

// isolate points every XDG directory at a fresh temp dir.
func isolate(t *testing.T) testEnv {
	t.Helper()
	root := t.TempDir()
	env := testEnv{
		cache:  filepath.Join(root, "cache"),
		config: filepath.Join(root, "config"),
		data:   filepath.Join(root, "data"),
	}
	t.Setenv("XDG_CACHE_HOME", env.cache)
	t.Setenv("XDG_CONFIG_HOME", env.config)
	t.Setenv("XDG_DATA_HOME", env.data)
	return env
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"layout", "render", "watch", "edit", "tui", "docs", "serve", "cache", "config", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing persistent --config flag")
	}
}

func TestSetLogLevelInstallsHooks(t *testing.T) {
	defer observability.Reset()

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.SetLogLevel(LogDebug)

	observability.Pipeline().OnLayoutWarning(context.Background(), 2, "overlap")
	if !strings.Contains(buf.String(), "depth=2") {
		t.Errorf("expected layout warning through the logger, got %q", buf.String())
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,png,dot", []string{"svg", "png", "dot"}},
		{"spaces and empty entries", " svg , ,json", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
