package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/feyndraw/pkg/config"
	"github.com/matzehuels/feyndraw/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single format) or base path
	formats    []string // svg, png, pdf, json, dot
	view       string   // scene or topology
	padding    float64  // margin around the drawing, px
	scale      float64  // PNG pixel density
	background string   // hex fill, empty for transparent
	fontSize   float64  // label size, px
	noCache    bool     // bypass the artifact cache entirely
	refresh    bool     // re-render and overwrite cached entries
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file.tex]",
		Short: "Render a diagram to SVG, PNG, PDF, JSON or DOT",
		Long: `Render parses a document and writes one file per requested format.

The scene view draws the diagram as edited (svg, png, pdf, json). The
topology view hands the vertex/propagator graph to Graphviz (svg, png,
pdf, dot). Use "-" to read from stdin; a single format then goes to stdout
unless -o is given.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTeX,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			popts := pipeline.FromConfig(cfg)
			applyRenderFlags(cmd, &popts, opts)
			return c.runRender(cmd.Context(), args[0], cfg, popts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.view, "view", "t", pipeline.DefaultView, "view: scene or topology")
	cmd.Flags().Float64Var(&opts.padding, "padding", 0, "margin around the drawing in px")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG pixel density")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color as #rrggbb")
	cmd.Flags().Float64Var(&opts.fontSize, "font-size", 0, "label font size in px")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("view", completeViews)

	return cmd
}

// applyRenderFlags overlays explicitly set flags on config-derived options.
func applyRenderFlags(cmd *cobra.Command, p *pipeline.Options, opts renderOpts) {
	p.View = opts.view
	if len(opts.formats) > 0 {
		p.Formats = opts.formats
	}
	flags := cmd.Flags()
	if flags.Changed("padding") {
		p.Padding = &opts.padding
	}
	if flags.Changed("scale") {
		p.Scale = opts.scale
	}
	if flags.Changed("background") {
		p.Background = opts.background
	}
	if flags.Changed("font-size") {
		p.FontSize = opts.fontSize
	}
	p.Refresh = opts.refresh
}

func (c *CLI) runRender(ctx context.Context, input string, cfg config.Config, popts pipeline.Options, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	if err := popts.ValidateForRender(); err != nil {
		return err
	}
	toStdout := input == "-" && opts.output == ""
	if toStdout && len(popts.Formats) > 1 {
		return fmt.Errorf("-o is required when rendering several formats from stdin")
	}

	src, err := readSource(input)
	if err != nil {
		return err
	}
	popts.Source = src

	runner := c.newRunner(ctx, cfg, opts.noCache)
	defer runner.Close()

	logger.Infof("Rendering %s (%s view)", input, popts.View)
	prog := newProgress(logger)
	spin := newSpinnerWithContext(ctx, os.Stderr, "Rendering "+strings.Join(popts.Formats, ", "))
	spin.Start()
	res, err := runner.Execute(ctx, popts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d element(s)", res.Stats.Elements))

	if toStdout {
		_, err := stdout.Write(res.Artifacts[popts.Formats[0]])
		return err
	}

	printSuccess("Rendered %s", input)
	for _, format := range popts.Formats {
		path := outputPath(opts.output, input, format, len(popts.Formats))
		if err := os.WriteFile(path, res.Artifacts[format], 0644); err != nil {
			return err
		}
		logger.Debugf("Wrote %s: %d bytes", path, len(res.Artifacts[format]))
		printFile(path)
	}
	printStats(res.Stats.Elements, popts.Formats, res.CacheInfo.RenderHit)
	return nil
}

// outputPath names the file for one format. A lone format honors -o
// verbatim; several formats share -o (or the input name) as a base path.
func outputPath(output, input, format string, n int) string {
	if n == 1 && output != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "diagram"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if isFormat(strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func isFormat(s string) bool {
	for _, f := range config.Formats {
		if f == s {
			return true
		}
	}
	return false
}
