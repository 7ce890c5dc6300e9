// Package tikz converts diagrams to and from a fixed, line-oriented subset of
// TikZ.
//
// # Overview
//
// [Serialize] renders a validated [diagram.Diagram] as a complete
// tikzpicture document. [Parse] reads such a document back. The subset is
// deliberately narrow: one statement per line, each matching exactly one of
// five shapes.
//
//	\fill (x, y) circle (r);
//	\draw[attrs] (x1, y1) -- (x2, y2);
//	\draw[attrs] (x1, y1) .. controls (cx, cy) .. (x2, y2);
//	\draw[attrs] (cx, cy) ellipse (rx and ry);
//	\node at (x, y) {$text$};
//
// Blank lines, comment lines and the \begin{tikzpicture} / \end{tikzpicture}
// wrapper are also accepted. Any other line fails the whole parse.
//
// # Coordinates
//
// Text units are editor pixels divided by [Scale] with the y axis flipped.
// Numbers are written with two decimals, so a round trip through text is
// exact up to that precision and Serialize(Parse(Serialize(d))) equals
// Serialize(d).
//
// # Arrow styles
//
// Forward, backward and both-ended arrows use native Stealth tips. Mid-edge
// styles cannot be told apart from their end-of-edge counterparts by TikZ
// syntax alone, so the serializer appends a trailing comment:
//
//	\draw[..., postaction={...}] (0.00, 0.00) -- (5.00, 0.00); % edge-arrow: mid-cross
//
// The comment overrides whatever the attributes imply. If the comment is
// removed, the edge falls back to the arrow its attributes express.
//
// # Failure
//
// Parse is all-or-nothing: on failure it returns a *errors.ParseError
// carrying the 1-based line number and no diagram.
package tikz
