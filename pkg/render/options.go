package render

import "github.com/matzehuels/feyndraw/pkg/stroke"

const (
	// DefaultPadding is the margin around the diagram bounds, in editor px.
	DefaultPadding = 20.0
	// DefaultScale is the PNG pixel density.
	DefaultScale = 2.0
	// DefaultFontSize is the label font size in the SVG output.
	DefaultFontSize = 14.0
)

// Option configures all renderers in this package.
type Option func(*options)

type options struct {
	gen        stroke.Generator
	padding    float64
	background string
	scale      float64
	fontSize   float64
}

// WithGenerator replaces the default stroke generator.
func WithGenerator(g stroke.Generator) Option { return func(o *options) { o.gen = g } }

// WithPadding sets the margin around the diagram bounds.
func WithPadding(p float64) Option { return func(o *options) { o.padding = p } }

// WithBackground fills the canvas with a #rrggbb color. The default is transparent.
func WithBackground(hex string) Option { return func(o *options) { o.background = hex } }

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) Option { return func(o *options) { o.scale = s } }

// WithFontSize sets the label font size.
func WithFontSize(s float64) Option { return func(o *options) { o.fontSize = s } }

func newOptions(opts ...Option) options {
	o := options{
		gen:      stroke.NewGenerator(),
		padding:  DefaultPadding,
		scale:    DefaultScale,
		fontSize: DefaultFontSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.padding < 0 {
		o.padding = 0
	}
	if o.scale <= 0 {
		o.scale = DefaultScale
	}
	if o.fontSize <= 0 {
		o.fontSize = DefaultFontSize
	}
	return o
}
