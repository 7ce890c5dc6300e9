// Package pipeline runs the parse → canonicalize → render flow shared by the
// CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Parse: text in the TikZ subset becomes a validated diagram
//  2. Render: the diagram becomes artifacts in the requested formats
//
// Both stages are cached through a [cache.Cache]. Parsed diagrams are keyed
// by the hash of the source text; artifacts by the hash of the diagram's
// JSON form plus every render option.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  src,
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/feyndraw/pkg/cache"
	"github.com/matzehuels/feyndraw/pkg/config"
	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/errors"
	"github.com/matzehuels/feyndraw/pkg/render"
	"github.com/matzehuels/feyndraw/pkg/stroke"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// View constants select what is drawn.
const (
	// ViewScene draws the diagram as it looks in the editor.
	ViewScene = "scene"
	// ViewTopology draws the vertex/propagator graph through Graphviz.
	ViewTopology = "topology"
)

// DefaultView is the default visualization.
const DefaultView = ViewScene

var viewFormats = map[string]map[string]bool{
	ViewScene:    {FormatSVG: true, FormatPNG: true, FormatPDF: true, FormatJSON: true},
	ViewTopology: {FormatSVG: true, FormatPNG: true, FormatPDF: true, FormatDOT: true},
}

// TTLs for cached entries.
const (
	TTLDiagram  = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Source string `json:"source,omitempty"`

	View       string   `json:"view,omitempty"`
	Formats    []string `json:"formats,omitempty"`
	Padding    *float64 `json:"padding,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Background string   `json:"background,omitempty"`
	FontSize   float64  `json:"font_size,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"`

	// Generator overrides the default stroke shapes.
	Generator *stroke.Generator `json:"-"`
	// TTL overrides TTLArtifact when positive.
	TTL time.Duration `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Diagram *diagram.Diagram
	// Canonical is the serialized form of Diagram.
	Canonical string
	// DiagramHash is the content hash used in artifact keys.
	DiagramHash string
	Artifacts   map[string][]byte
	Stats       Stats
	CacheInfo   CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Elements   int
	ParseTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool
	RenderHit bool
}

// ValidateView checks that a view is valid.
func ValidateView(view string) error {
	if _, ok := viewFormats[view]; !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid view: %q (must be one of: scene, topology)", view)
	}
	return nil
}

// ValidateFormat checks that a format is available for the view.
func ValidateFormat(view, format string) error {
	if err := ValidateView(view); err != nil {
		return err
	}
	if !viewFormats[view][format] {
		return errors.New(errors.ErrCodeUnsupported, "format %q is not available for the %s view", format, view)
	}
	return nil
}

// Supports reports whether view can be rendered as format.
func Supports(view, format string) bool {
	return ValidateFormat(view, format) == nil
}

// SetRenderDefaults fills unset render options.
func (o *Options) SetRenderDefaults() {
	if o.View == "" {
		o.View = DefaultView
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Padding == nil {
		p := render.DefaultPadding
		o.Padding = &p
	}
	if o.Scale == 0 {
		o.Scale = render.DefaultScale
	}
	if o.FontSize == 0 {
		o.FontSize = render.DefaultFontSize
	}
}

// ValidateForRender applies defaults and checks every render option.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	for _, f := range o.Formats {
		if err := ValidateFormat(o.View, f); err != nil {
			return err
		}
	}
	if err := errors.ValidateFinite("padding", *o.Padding, o.Scale, o.FontSize); err != nil {
		return err
	}
	if *o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "padding must not be negative")
	}
	if err := errors.ValidatePositive("scale", o.Scale); err != nil {
		return err
	}
	if o.Background != "" {
		if _, err := diagram.ParseHexColor(o.Background); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "background")
		}
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:     format,
		View:       o.View,
		Scale:      o.Scale,
		Background: o.Background,
		FontSize:   o.FontSize,
	}
	if o.Padding != nil {
		k.Padding = *o.Padding
	}
	if o.Generator != nil {
		k.Generator = fmt.Sprintf("%+v", *o.Generator)
	}
	return k
}

// FromConfig returns render options seeded from a config file.
func FromConfig(cfg config.Config) Options {
	padding := cfg.Render.Padding
	g := cfg.Generator()
	return Options{
		Formats:    append([]string(nil), cfg.Render.Formats...),
		Padding:    &padding,
		Scale:      cfg.Render.PNGScale,
		Background: cfg.Render.Background,
		FontSize:   cfg.Render.FontSize,
		Generator:  &g,
		TTL:        cfg.Cache.TTL.Duration,
	}
}

func (o *Options) renderOptions() []render.Option {
	opts := []render.Option{
		render.WithPadding(*o.Padding),
		render.WithScale(o.Scale),
		render.WithFontSize(o.FontSize),
	}
	if o.Background != "" {
		opts = append(opts, render.WithBackground(o.Background))
	}
	if o.Generator != nil {
		opts = append(opts, render.WithGenerator(*o.Generator))
	}
	return opts
}
