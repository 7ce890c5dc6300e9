// Package render draws a diagram to SVG, PNG, PDF or a flattened JSON scene.
//
// # Overview
//
// Every renderer starts from the same [Scene]: edges are flattened into
// polylines by a [stroke.Generator], arrow styles become marker polygons and
// cross ticks, and labels are placed at their resolved position. The scene
// is then written out by a format-specific sink:
//
//   - [RenderSVG] writes the scene as a standalone SVG document
//   - [RenderPNG] rasterizes it with fogleman/gg
//   - [RenderPDF] converts the SVG with rsvg-convert
//   - [RenderJSON] emits the scene for external tools
//
// Label text is drawn verbatim; math markup is not typeset.
//
//	d, _ := tikz.Parse(src)
//	svg := render.RenderSVG(d, render.WithPadding(10))
//	png, err := render.RenderPNG(d, render.WithScale(2))
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). The [topology] subpackage uses them for Graphviz output.
//
// [topology]: github.com/matzehuels/feyndraw/pkg/render/topology
package render
