package tikz

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF     tokenKind = iota
	tokCommand           // \fill, \draw, \node, \begin, \end
	tokWord              // circle, ellipse, controls, and, at
	tokNumber            // 1.25, -0.00, 3e2
	tokOptions           // [ ... ], text holds the inside
	tokGroup             // { ... }, text holds the inside
	tokLParen
	tokRParen
	tokComma
	tokDashes // --
	tokDots   // ..
	tokSemi
	tokComment // % ... to end of line, text holds the part after %
)

var tokenNames = map[tokenKind]string{
	tokEOF:     "end of line",
	tokCommand: "command",
	tokWord:    "word",
	tokNumber:  "number",
	tokOptions: "option list",
	tokGroup:   "group",
	tokLParen:  "'('",
	tokRParen:  "')'",
	tokComma:   "','",
	tokDashes:  "'--'",
	tokDots:    "'..'",
	tokSemi:    "';'",
	tokComment: "comment",
}

func (k tokenKind) String() string { return tokenNames[k] }

type token struct {
	kind tokenKind
	text string
	col  int // 1-based
}

func (t token) String() string {
	if t.kind == tokEOF {
		return t.kind.String()
	}
	return fmt.Sprintf("%s %q", t.kind, t.text)
}

// lex splits one line into tokens. The final token is always tokEOF.
func lex(line string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(line) {
		c := line[i]
		start := i
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
			continue
		case c == '%':
			toks = append(toks, token{tokComment, line[i+1:], start + 1})
			i = len(line)
			continue
		case c == '\\':
			i++
			for i < len(line) && isLetter(line[i]) {
				i++
			}
			if i == start+1 {
				return nil, fmt.Errorf("column %d: bare backslash", start+1)
			}
			toks = append(toks, token{tokCommand, line[start:i], start + 1})
		case c == '[':
			end, err := closing(line, i, ']')
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokOptions, line[i+1 : end], start + 1})
			i = end + 1
		case c == '{':
			end, err := closing(line, i, '}')
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokGroup, line[i+1 : end], start + 1})
			i = end + 1
		case c == '(':
			toks = append(toks, token{tokLParen, "(", start + 1})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")", start + 1})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ",", start + 1})
			i++
		case c == ';':
			toks = append(toks, token{tokSemi, ";", start + 1})
			i++
		case strings.HasPrefix(line[i:], "--"):
			toks = append(toks, token{tokDashes, "--", start + 1})
			i += 2
		case strings.HasPrefix(line[i:], ".."):
			toks = append(toks, token{tokDots, "..", start + 1})
			i += 2
		case isDigit(c) || c == '.' || c == '+' || c == '-':
			i = scanNumber(line, i)
			if i == start {
				return nil, fmt.Errorf("column %d: unexpected %q", start+1, c)
			}
			toks = append(toks, token{tokNumber, line[start:i], start + 1})
		case isLetter(c):
			for i < len(line) && isLetter(line[i]) {
				i++
			}
			toks = append(toks, token{tokWord, line[start:i], start + 1})
		default:
			return nil, fmt.Errorf("column %d: unexpected %q", start+1, c)
		}
	}
	return append(toks, token{tokEOF, "", len(line) + 1}), nil
}

// closing returns the index of the first right delimiter after line[open]
// that is not nested inside braces.
func closing(line string, open int, right byte) (int, error) {
	depth := 0
	for i := open + 1; i < len(line); i++ {
		switch c := line[i]; {
		case c == right && depth == 0:
			return i, nil
		case c == '{':
			depth++
		case c == '}':
			depth--
		}
	}
	return 0, fmt.Errorf("column %d: unclosed %q", open+1, line[open])
}

// scanNumber returns the end of a decimal number starting at i, or i if
// there is none. Accepted: [+-] digits [. digits] [eE [+-] digits].
func scanNumber(s string, i int) int {
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return start
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
