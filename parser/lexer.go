package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ardanlabs/babbisch/decl"
	"github.com/ardanlabs/babbisch/errors"
)

var blockCommentRe = regexp.MustCompile(`/\*[\s\S]*?\*/`)
var lineCommentRe = regexp.MustCompile(`//[^\n]*`)
var multiSpaceRe = regexp.MustCompile(`[ \t\f\v]+`)
var lineMarkerRe = regexp.MustCompile(`^#\s*(?:line\s+)?(\d+)(?:\s+"((?:[^"\\]|\\.)*)")?`)

var tokenRe = regexp.MustCompile(`^(?:` +
	`([A-Za-z_$][\w$]*)` +
	`|(0[xX][0-9a-fA-F]+[uUlL]*|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?[uUlLfF]*)` +
	`|("(?:[^"\\\n]|\\.)*")` +
	`|('(?:[^'\\\n]|\\.)+')` +
	`|(\.\.\.|<<=|>>=|<<|>>|<=|>=|==|!=|&&|\|\||->|\+\+|--|[-+*/%&|^]=|[-+*/%&|^~!<>=?:;,.(){}\[\]#])` +
	`)`)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokChar
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	file string
	line int
}

func (t token) coord() *decl.Coord {
	return &decl.Coord{File: t.file, Line: t.line}
}

func (t token) is(text string) bool {
	return t.kind != tokEOF && t.kind != tokString && t.kind != tokChar && t.text == text
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return strconv.Quote(t.text)
}

// tokenize splits preprocessed or raw header text into tokens. Directive
// lines are dropped; line markers left by the preprocessor move the
// coordinates of the following tokens.
func tokenize(filename, content string) ([]token, error) {
	content = removeComments(content)
	content = normalizeWhitespace(content)

	var toks []token
	file, line := filename, 1

	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines); i++ {
		text := strings.TrimSpace(lines[i])

		if strings.HasPrefix(text, "#") {
			directive := text
			for strings.HasSuffix(lines[i], "\\") && i+1 < len(lines) {
				i++
				line++
				directive += " " + strings.TrimSpace(lines[i])
			}
			if m := lineMarkerRe.FindStringSubmatch(directive); m != nil {
				n, _ := strconv.Atoi(m[1])
				if m[2] != "" {
					file = m[2]
				}
				line = n
				continue
			}
			line++
			continue
		}

		for text != "" {
			m := tokenRe.FindStringSubmatchIndex(text)
			if m == nil {
				return nil, errors.Wrapf(errors.ErrSyntax, "%s:%d: unexpected character %q", file, line, text[:1])
			}

			tok := token{file: file, line: line, text: text[:m[1]]}
			switch {
			case m[2] >= 0:
				tok.kind = tokIdent
			case m[4] >= 0:
				tok.kind = tokNumber
			case m[6] >= 0:
				tok.kind = tokString
			case m[8] >= 0:
				tok.kind = tokChar
			default:
				tok.kind = tokPunct
			}
			toks = append(toks, tok)

			text = strings.TrimLeft(text[m[1]:], " ")
		}
		line++
	}

	toks = append(toks, token{kind: tokEOF, file: file, line: line})
	return toks, nil
}

// removeComments blanks comments out while keeping their newlines, so
// coordinates still match the source.
func removeComments(s string) string {
	s = blockCommentRe.ReplaceAllStringFunc(s, func(c string) string {
		return strings.Repeat("\n", strings.Count(c, "\n")) + " "
	})
	s = lineCommentRe.ReplaceAllString(s, "")

	return s
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = multiSpaceRe.ReplaceAllString(s, " ")

	return s
}
