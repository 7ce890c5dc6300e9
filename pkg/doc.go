// Package pkg provides the core libraries for feyndraw.
//
// # Overview
//
// Feyndraw keeps a Feynman diagram as a restricted TikZ document that is
// both human-editable and machine-readable. The pkg directory is organized
// into these areas:
//
//  1. [geom], [stroke] - Plane geometry, Bézier evaluation, wavy/spring
//     polylines and arrow/cross markers
//  2. [diagram] - The element store: points, edges, ellipses and labels,
//     with label-to-edge bindings
//  3. [tikz], [io] - The text form (serialize/parse) and the JSON form that
//     keeps ids and bindings
//  4. [render] - Scene rasterization to SVG, PNG, PDF and JSON;
//     [render/topology] draws the vertex/propagator graph through Graphviz
//  5. [pipeline], [cache] - Parse → render orchestration with file or Redis
//     caching
//  6. [config], [errors], [observability], [buildinfo] - Ambient support
//
// # Architecture
//
// The typical data flow:
//
//	TikZ text
//	    ↓
//	[tikz] package (parse)
//	    ↓
//	[diagram] package (elements + bindings)
//	    ↓
//	[render] package (scene → SVG/PNG/PDF/JSON)
//	    ↓
//	artifact bytes
//
// # Quick Start
//
//	d := diagram.New()
//	e, _ := d.CreateEdge(geom.Pt(0, 0), geom.Pt(100, 0), nil, diagram.DefaultStyle())
//	l, _ := d.CreateLabel(geom.Pt(50, -20), `e^-`)
//	_ = d.Bind(l.ID, e.ID, diagram.AnchorMid)
//
//	text := tikz.Serialize(d)   // editable document
//	svg := render.RenderSVG(d)  // preview
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/feyndraw/pkg/geom
// [stroke]: https://pkg.go.dev/github.com/matzehuels/feyndraw/pkg/stroke
// [diagram]: https://pkg.go.dev/github.com/matzehuels/feyndraw/pkg/diagram
// [tikz]: https://pkg.go.dev/github.com/matzehuels/feyndraw/pkg/tikz
// [io]: https://pkg.go.dev/github.com/matzehuels/feyndraw/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/feyndraw/pkg/render
// [render/topology]: https://pkg.go.dev/github.com/matzehuels/feyndraw/pkg/render/topology
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/feyndraw/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/feyndraw/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/feyndraw/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/feyndraw/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/feyndraw/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/feyndraw/pkg/buildinfo
package pkg
