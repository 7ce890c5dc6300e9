package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/feyndraw/pkg/config"
	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/geom"
	"github.com/matzehuels/feyndraw/pkg/stroke"
	"github.com/matzehuels/feyndraw/pkg/tikz"
)

// vertexDiagram is an electron line emitting a photon: three vertices, two
// external fermion legs and one photon leg.
func vertexDiagram(t *testing.T) *diagram.Diagram {
	t.Helper()
	d := diagram.New()
	fermion := diagram.DefaultStyle()
	fermion.Arrow = stroke.ArrowForward
	photon := diagram.DefaultStyle()
	photon.Stroke = stroke.Wavy

	steps := []error{}
	_, err := d.CreateEdge(geom.Pt(0, 0), geom.Pt(100, 0), nil, fermion)
	steps = append(steps, err)
	_, err = d.CreateEdge(geom.Pt(100, 0), geom.Pt(200, 0), nil, fermion)
	steps = append(steps, err)
	_, err = d.CreateEdge(geom.Pt(100, 0), geom.Pt(100, -80), nil, photon)
	steps = append(steps, err)
	_, err = d.CreatePoint(geom.Pt(100, 0), 3)
	steps = append(steps, err)
	_, err = d.CreateLabel(geom.Pt(100, -95), `\gamma`)
	steps = append(steps, err)
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	return d
}

// testCLI runs the root command with args and returns captured stdout.
func testCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	prev := stdout
	stdout = &out
	t.Cleanup(func() { stdout = prev })

	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defers to config", "", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and blanks", " svg, ,dot ", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, format string
		n                     int
		want                  string
	}{
		{"", "dir/qed.tex", "svg", 1, "dir/qed.svg"},
		{"out.svg", "qed.tex", "svg", 1, "out.svg"},
		{"figure", "qed.tex", "png", 1, "figure"},
		{"out.svg", "qed.tex", "png", 2, "out.png"},
		{"build/fig", "qed.tex", "pdf", 3, "build/fig.pdf"},
		{"", "-", "json", 2, "diagram.json"},
		{"", "qed.tex", "dot", 2, "qed.dot"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := outputPath(tt.output, tt.input, tt.format, tt.n); got != tt.want {
				t.Errorf("outputPath(%q, %q, %q, %d) = %q, want %q", tt.output, tt.input, tt.format, tt.n, got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	s := summarize(vertexDiagram(t))
	want := summary{
		Points: 1, Edges: 3, Labels: 1,
		Vertices: 4, Propagators: 3, External: 3, Loops: 0,
	}
	if s != want {
		t.Errorf("summarize() = %+v, want %+v", s, want)
	}
}

func TestFormatCommand(t *testing.T) {
	dir := t.TempDir()
	canonical := tikz.Serialize(vertexDiagram(t))
	messy := strings.ReplaceAll(canonical, "\n", "\n\n")
	path := writeFile(t, dir, "qed.tex", messy)

	out, err := testCLI(t, "format", path)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if out != canonical {
		t.Errorf("format stdout:\n%s\nwant:\n%s", out, canonical)
	}

	_, err = testCLI(t, "format", "--check", path)
	if !errors.Is(err, errNotFormatted) {
		t.Errorf("--check on messy file: err = %v, want errNotFormatted", err)
	}

	if _, err := testCLI(t, "format", "-w", path); err != nil {
		t.Fatalf("format -w: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != canonical {
		t.Errorf("file after -w:\n%s", data)
	}

	if _, err := testCLI(t, "format", "--check", path); err != nil {
		t.Errorf("--check on canonical file: %v", err)
	}

	if _, err := testCLI(t, "format", "-w", "--check", path); err == nil {
		t.Error("-w with --check should fail")
	}
}

func TestFormatCommandParseError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.tex", "\\begin{tikzpicture}\n\\circle\n\\end{tikzpicture}\n")
	_, err := testCLI(t, "format", path)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v, want a line-2 parse error", err)
	}
}

func TestCheckCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "qed.tex", tikz.Serialize(vertexDiagram(t)))
	out, err := testCLI(t, "check", path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{"parses cleanly", "edges", "propagators", "external legs", "loops"} {
		if !strings.Contains(out, want) {
			t.Errorf("check output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "qed.tex", tikz.Serialize(vertexDiagram(t)))
	base := filepath.Join(dir, "out", "fig")
	if err := os.MkdirAll(filepath.Dir(base), 0755); err != nil {
		t.Fatal(err)
	}

	out, err := testCLI(t, "render", path, "-f", "svg,json", "-o", base, "--padding", "5", "--no-cache")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) || !bytes.Contains(svg, []byte(`class="wavy"`)) {
		t.Errorf("unexpected svg:\n%s", svg)
	}
	if _, err := os.Stat(base + ".json"); err != nil {
		t.Errorf("json output missing: %v", err)
	}
	if !strings.Contains(out, base+".svg") || !strings.Contains(out, "fresh") {
		t.Errorf("render output:\n%s", out)
	}
}

func TestRenderCommandTopology(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "qed.tex", tikz.Serialize(vertexDiagram(t)))
	dot := filepath.Join(dir, "qed.dot")

	if _, err := testCLI(t, "render", path, "--view", "topology", "-f", "dot", "-o", dot); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(dot)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("graph G {")) {
		t.Errorf("dot output:\n%s", data)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "qed.tex", tikz.Serialize(vertexDiagram(t)))
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"render", path, "-f", "gif"}},
		{"scene dot", []string{"render", path, "-f", "dot"}},
		{"topology json", []string{"render", path, "-t", "topology", "-f", "json"}},
		{"bad view", []string{"render", path, "-t", "tower"}},
		{"bad background", []string{"render", path, "--background", "red"}},
		{"missing file", []string{"render", path + ".missing"}},
		{"stdin multi", []string{"render", "-", "-f", "svg,json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := testCLI(t, tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}

func TestRenderUsesFileCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "qed.tex", tikz.Serialize(vertexDiagram(t)))

	cfg := config.Default()
	cfg.Cache.Dir = filepath.Join(dir, "cache")
	cfgPath := filepath.Join(dir, "config.toml")
	if err := config.Write(cfg, cfgPath); err != nil {
		t.Fatal(err)
	}

	args := []string{"--config", cfgPath, "render", path, "-o", filepath.Join(dir, "a.svg")}
	if out, err := testCLI(t, args...); err != nil || !strings.Contains(out, "fresh") {
		t.Fatalf("first render: err=%v out=%s", err, out)
	}
	if out, err := testCLI(t, args...); err != nil || !strings.Contains(out, "cached") {
		t.Fatalf("second render: err=%v out=%s", err, out)
	}

	out, err := testCLI(t, "--config", cfgPath, "cache", "path")
	if err != nil || strings.TrimSpace(out) != cfg.Cache.Dir {
		t.Errorf("cache path = %q, %v; want %q", out, err, cfg.Cache.Dir)
	}

	if _, err := testCLI(t, "--config", cfgPath, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if out, _ := testCLI(t, args...); !strings.Contains(out, "fresh") {
		t.Errorf("render after clear should miss:\n%s", out)
	}
}

func TestCacheClearDisabled(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Cache.Backend = config.BackendNone
	cfgPath := filepath.Join(dir, "config.toml")
	if err := config.Write(cfg, cfgPath); err != nil {
		t.Fatal(err)
	}
	out, err := testCLI(t, "--config", cfgPath, "cache", "clear")
	if err != nil || !strings.Contains(out, "disabled") {
		t.Errorf("cache clear = %q, %v", out, err)
	}
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.toml", "[render]\nshade = true\n")
	path := writeFile(t, dir, "qed.tex", tikz.Serialize(vertexDiagram(t)))
	if _, err := testCLI(t, "--config", cfgPath, "render", path); err == nil {
		t.Error("unknown config key should fail")
	}
}

func TestCompletion(t *testing.T) {
	out, err := testCLI(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "feyndraw") {
		t.Error("bash completion does not mention the command")
	}
	if _, err := testCLI(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg", "png", "pdf", "json", "dot"}},
		{"p", []string{"png", "pdf"}},
		{"svg,", []string{"svg,png", "svg,pdf", "svg,json", "svg,dot"}},
		{"svg,png,p", []string{"svg,png,pdf"}},
		{"gif", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, dir := completeFormats(nil, nil, tt.in)
			if !slices.Equal(got, tt.want) {
				t.Errorf("completeFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if dir&cobra.ShellCompDirectiveNoSpace == 0 {
				t.Error("format completion should not append a space")
			}
		})
	}
}

func TestCompleteViewsAndFiles(t *testing.T) {
	views, _ := completeViews(nil, nil, "")
	if !slices.Equal(views, []string{"scene", "topology"}) {
		t.Errorf("views = %v", views)
	}
	exts, dir := completeTeX(nil, nil, "")
	if !slices.Equal(exts, []string{"tex"}) || dir != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("completeTeX = %v, %v", exts, dir)
	}
}

func TestSpinnerNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(context.Background(), &buf, "Rendering")
	s.Start()
	s.Stop()
	s.Stop()
	if buf.Len() != 0 {
		t.Errorf("spinner wrote to a non-terminal: %q", buf.String())
	}
	if s.Cancelled() {
		t.Error("stopped spinner should not report cancellation")
	}
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, io.Discard, "Rendering")
	s.Start()
	cancel()
	if !s.Cancelled() {
		t.Error("spinner should report cancellation")
	}
	s.Stop()
}
