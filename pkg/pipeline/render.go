package pipeline

import (
	"fmt"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/errors"
	"github.com/matzehuels/feyndraw/pkg/render"
	"github.com/matzehuels/feyndraw/pkg/render/topology"
)

// Render generates output artifacts in the requested formats, without caching.
func Render(d *diagram.Diagram, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if opts.View == ViewTopology {
		return renderTopology(d, opts)
	}
	return renderScene(d, opts)
}

func renderScene(d *diagram.Diagram, opts Options) (map[string][]byte, error) {
	ropts := opts.renderOptions()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.RenderSVG(d, ropts...)
		case FormatPNG:
			data, err = render.RenderPNG(d, ropts...)
		case FormatPDF:
			data, err = render.RenderPDF(d, ropts...)
		case FormatJSON:
			data, err = render.RenderJSON(d, ropts...)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported scene format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderTopology(d *diagram.Diagram, opts Options) (map[string][]byte, error) {
	dot := topology.ToDOT(d)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = topology.RenderSVG(dot)
		case FormatPNG:
			data, err = topology.RenderPNG(dot, opts.Scale)
		case FormatPDF:
			data, err = topology.RenderPDF(dot)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported topology format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
