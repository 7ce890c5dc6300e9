package tikz

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/feyndraw/pkg/diagram"
	"github.com/matzehuels/feyndraw/pkg/errors"
	"github.com/matzehuels/feyndraw/pkg/geom"
	"github.com/matzehuels/feyndraw/pkg/stroke"
)

// statement is one recognized element line, not yet inserted.
type statement interface {
	insert(d *diagram.Diagram) error
}

type pointStmt struct {
	pos    geom.Point
	radius float64
}

func (s pointStmt) insert(d *diagram.Diagram) error {
	_, err := d.CreatePoint(s.pos, s.radius)
	return err
}

type edgeStmt struct {
	start, end geom.Point
	control    *geom.Point
	style      diagram.Style
}

func (s edgeStmt) insert(d *diagram.Diagram) error {
	_, err := d.CreateEdge(s.start, s.end, s.control, s.style)
	return err
}

type ellipseStmt struct {
	center geom.Point
	rx, ry float64
	color  diagram.Color
	width  float64
}

func (s ellipseStmt) insert(d *diagram.Diagram) error {
	_, err := d.CreateEllipse(s.center, s.rx, s.ry, s.color, s.width)
	return err
}

type labelStmt struct {
	pos  geom.Point
	text string
}

func (s labelStmt) insert(d *diagram.Diagram) error {
	_, err := d.CreateLabel(s.pos, s.text)
	return err
}

// Parse reads a document in the accepted subset and returns a new, validated
// diagram. Elements get ids 1..n in document order and the allocator is left
// at n+1.
//
// On failure Parse returns a nil diagram and a *errors.ParseError naming the
// first offending line.
func Parse(text string) (*diagram.Diagram, error) {
	type located struct {
		line int
		stmt statement
	}

	var stmts []located
	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == '%' {
			continue
		}
		stmt, err := parseLine(line)
		if err != nil {
			return nil, &errors.ParseError{Line: lineNo, Message: "unrecognized statement", Cause: err}
		}
		if stmt != nil {
			stmts = append(stmts, located{lineNo, stmt})
		}
	}

	d := diagram.New()
	for _, s := range stmts {
		if err := s.stmt.insert(d); err != nil {
			return nil, &errors.ParseError{Line: s.line, Message: "invalid element", Cause: err}
		}
	}
	if err := d.Validate(); err != nil {
		return nil, &errors.ParseError{Message: "invalid diagram", Cause: err}
	}
	return d, nil
}

// Read parses a document from r. Read does not close r.
func Read(r io.Reader) (*diagram.Diagram, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Parse(string(data))
}

// ReadFile parses the document in the file at path.
func ReadFile(path string) (*diagram.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// parseLine returns the statement on a non-blank, non-comment line, or nil
// for the tikzpicture wrapper.
func parseLine(line string) (statement, error) {
	toks, err := lex(line)
	if err != nil {
		return nil, err
	}
	p := &lineParser{toks: toks}

	cmd, err := p.expect(tokCommand)
	if err != nil {
		return nil, err
	}
	switch cmd.text {
	case `\begin`, `\end`:
		return nil, p.environment()
	case `\fill`:
		return p.fill()
	case `\draw`:
		return p.draw()
	case `\node`:
		return p.node()
	}
	return nil, fmt.Errorf("column %d: unsupported command %s", cmd.col, cmd.text)
}

type lineParser struct {
	toks []token
	pos  int
}

func (p *lineParser) peek() token { return p.toks[p.pos] }

func (p *lineParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *lineParser) expect(k tokenKind) (token, error) {
	t := p.next()
	if t.kind != k {
		return t, fmt.Errorf("column %d: expected %s, found %s", t.col, k, t)
	}
	return t, nil
}

func (p *lineParser) word(w string) error {
	t := p.next()
	if t.kind != tokWord || t.text != w {
		return fmt.Errorf("column %d: expected %q, found %s", t.col, w, t)
	}
	return nil
}

func (p *lineParser) number() (float64, error) {
	t, err := p.expect(tokNumber)
	if err != nil {
		return 0, err
	}
	v, err := parseFinite(t.text)
	if err != nil {
		return 0, fmt.Errorf("column %d: %w", t.col, err)
	}
	return v, nil
}

// length parses a number in text units and scales it to editor pixels.
func (p *lineParser) length() (float64, error) {
	col := p.peek().col
	v, err := p.number()
	if err != nil {
		return 0, err
	}
	px := v * Scale
	if !geom.Pt(px, 0).IsFinite() {
		return 0, fmt.Errorf("column %d: length out of range", col)
	}
	return px, nil
}

// coord parses "(x, y)" in text units and returns it in editor space.
func (p *lineParser) coord() (geom.Point, error) {
	open, err := p.expect(tokLParen)
	if err != nil {
		return geom.Point{}, err
	}
	x, err := p.number()
	if err != nil {
		return geom.Point{}, err
	}
	if _, err := p.expect(tokComma); err != nil {
		return geom.Point{}, err
	}
	y, err := p.number()
	if err != nil {
		return geom.Point{}, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return geom.Point{}, err
	}
	pt := ToEditorSpace(geom.Pt(x, y))
	if !pt.IsFinite() {
		return geom.Point{}, fmt.Errorf("column %d: coordinate out of range", open.col)
	}
	return pt, nil
}

// finish consumes ";" plus an optional trailing comment and returns the
// comment text.
func (p *lineParser) finish() (string, error) {
	if _, err := p.expect(tokSemi); err != nil {
		return "", err
	}
	var comment string
	if p.peek().kind == tokComment {
		comment = p.next().text
	}
	if _, err := p.expect(tokEOF); err != nil {
		return "", err
	}
	return comment, nil
}

// environment parses the rest of \begin{tikzpicture} or \end{tikzpicture}.
func (p *lineParser) environment() error {
	g, err := p.expect(tokGroup)
	if err != nil {
		return err
	}
	if strings.TrimSpace(g.text) != "tikzpicture" {
		return fmt.Errorf("column %d: unsupported environment %q", g.col, g.text)
	}
	if p.peek().kind == tokComment {
		p.next()
	}
	_, err = p.expect(tokEOF)
	return err
}

// fill parses: (x, y) circle (r);
func (p *lineParser) fill() (statement, error) {
	pos, err := p.coord()
	if err != nil {
		return nil, err
	}
	if err := p.word("circle"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	col := p.peek().col
	r, err := p.length()
	if err != nil {
		return nil, err
	}
	if r <= 0 {
		return nil, fmt.Errorf("column %d: circle radius must be positive", col)
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	if _, err := p.finish(); err != nil {
		return nil, err
	}
	return pointStmt{pos: pos, radius: r}, nil
}

// draw parses the three \draw shapes: straight edge, curve edge, ellipse.
func (p *lineParser) draw() (statement, error) {
	opts, err := p.expect(tokOptions)
	if err != nil {
		return nil, err
	}
	attrs, err := parseDrawAttrs(opts.text)
	if err != nil {
		return nil, fmt.Errorf("column %d: %w", opts.col, err)
	}
	start, err := p.coord()
	if err != nil {
		return nil, err
	}

	t := p.next()
	switch {
	case t.kind == tokDashes:
		end, err := p.coord()
		if err != nil {
			return nil, err
		}
		return p.edge(attrs, start, end, nil)

	case t.kind == tokDots:
		if err := p.word("controls"); err != nil {
			return nil, err
		}
		ctl, err := p.coord()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokDots); err != nil {
			return nil, err
		}
		end, err := p.coord()
		if err != nil {
			return nil, err
		}
		return p.edge(attrs, start, end, &ctl)

	case t.kind == tokWord && t.text == "ellipse":
		if _, err := p.expect(tokLParen); err != nil {
			return nil, err
		}
		rx, err := p.length()
		if err != nil {
			return nil, err
		}
		if err := p.word("and"); err != nil {
			return nil, err
		}
		ry, err := p.length()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		if _, err := p.finish(); err != nil {
			return nil, err
		}
		return ellipseStmt{center: start, rx: rx, ry: ry, color: attrs.color, width: attrs.width}, nil
	}
	return nil, fmt.Errorf("column %d: expected '--', '..' or ellipse, found %s", t.col, t)
}

func (p *lineParser) edge(a drawAttrs, start, end geom.Point, ctl *geom.Point) (statement, error) {
	comment, err := p.finish()
	if err != nil {
		return nil, err
	}
	arrow := a.arrow
	if override, ok := arrowFromComment(comment); ok {
		arrow = override
	}
	return edgeStmt{
		start:   start,
		end:     end,
		control: ctl,
		style:   diagram.Style{Stroke: a.stroke, Color: a.color, Width: a.width, Arrow: arrow},
	}, nil
}

// node parses: at (x, y) {text};
func (p *lineParser) node() (statement, error) {
	if err := p.word("at"); err != nil {
		return nil, err
	}
	pos, err := p.coord()
	if err != nil {
		return nil, err
	}
	g, err := p.expect(tokGroup)
	if err != nil {
		return nil, err
	}
	if _, err := p.finish(); err != nil {
		return nil, err
	}
	return labelStmt{pos: pos, text: stripMath(g.text)}, nil
}

// arrowFromComment recognizes "edge-arrow: <style>". Unknown style names
// are ignored so the attribute-derived arrow stands.
func arrowFromComment(comment string) (stroke.Arrow, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(comment), arrowCommentKey)
	if !ok {
		return stroke.ArrowNone, false
	}
	name, _, _ := strings.Cut(strings.TrimSpace(rest), " ")
	a, err := stroke.ParseArrow(name)
	if err != nil {
		return stroke.ArrowNone, false
	}
	return a, true
}
