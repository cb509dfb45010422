package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/arbor/pkg/errors"
)

const sampleYAML = `text: root
children:
  - text: a
  - text: b
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderCommand(t *testing.T) {
	isolate(t)
	input := writeSample(t)

	if err := runCLI(t, "render", input, "-f", "svg,json", "--tree-color", "#ff0000"); err != nil {
		t.Fatalf("render: %v", err)
	}

	dir := filepath.Dir(input)
	svg, err := os.ReadFile(filepath.Join(dir, "tree.svg"))
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !strings.HasPrefix(string(svg), "<?xml") {
		t.Errorf("svg output starts with %q", string(svg[:min(len(svg), 20)]))
	}

	data, err := os.ReadFile(filepath.Join(dir, "tree.json"))
	if err != nil {
		t.Fatalf("json not written: %v", err)
	}
	var out struct {
		Width float64 `json:"width"`
		Nodes []struct {
			Text string `json:"text"`
			Fill string `json:"fill"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Width != 350 {
		t.Errorf("width = %v, want 350", out.Width)
	}
	if len(out.Nodes) != 3 || out.Nodes[0].Fill != "#ff0000" {
		t.Errorf("nodes = %+v, want 3 nodes filled #ff0000", out.Nodes)
	}
}

func TestRenderCommandSingleOutput(t *testing.T) {
	isolate(t)
	input := writeSample(t)
	output := filepath.Join(filepath.Dir(input), "picture.png")

	if err := runCLI(t, "render", input, "-f", "png", "-o", output, "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "\x89PNG") {
		t.Error("output is not a PNG")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	isolate(t)
	input := writeSample(t)

	err := runCLI(t, "render", input, "-f", "gif")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format: got %v, want INVALID_FORMAT", err)
	}

	err = runCLI(t, "render", filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing input: got %v, want INVALID_INPUT", err)
	}

	err = runCLI(t, "render", input, "--radius", "0")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("zero radius: got %v, want INVALID_CONFIG", err)
	}
}

func TestLayoutCommand(t *testing.T) {
	isolate(t)
	input := writeSample(t)
	output := filepath.Join(filepath.Dir(input), "out.json")

	if err := runCLI(t, "layout", input, "-o", output, "--h-spacing", "100"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	var res struct {
		Width float64 `json:"width"`
		Rows  [][]int `json:"rows"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatal(err)
	}
	if res.Width != 300 {
		t.Errorf("width = %v, want 300", res.Width)
	}
	if len(res.Rows) != 2 || len(res.Rows[1]) != 2 {
		t.Errorf("rows = %v, want [[0] [1 2]]", res.Rows)
	}
}

func TestLayoutCommandUsesConfigFile(t *testing.T) {
	env := isolate(t)
	input := writeSample(t)

	cfgPath := filepath.Join(env.config, appName, "config.toml")
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, []byte("[layout]\nhorizontal_spacing = 50\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runCLI(t, "layout", input); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(derivePath(input, "layout.json"))
	if err != nil {
		t.Fatal(err)
	}
	var res struct {
		Width float64 `json:"width"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatal(err)
	}
	if res.Width != 250 {
		t.Errorf("width = %v, want 250", res.Width)
	}
}
