// Package parser is the built-in C front end. It reads C header text,
// raw or preprocessed, and produces the declaration tree.
//
// Only what a binding needs is kept: struct, union and enum definitions,
// typedefs and function declarations. Variables and function bodies are
// skipped. Preprocessor directives are dropped, so macros are not
// expanded; run the text through the preprocessor first when the header
// depends on them.
package parser

import (
	"math"
	"os"

	"go.uber.org/zap"

	"github.com/ardanlabs/babbisch/decl"
	"github.com/ardanlabs/babbisch/errors"
	"github.com/ardanlabs/babbisch/logger"
)

// ParseFile reads and parses one header.
func ParseFile(path string) (*decl.Namespace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return Parse(path, string(data))
}

// Parse parses header text. filename is used for coordinates until a line
// marker names another file.
func Parse(filename, content string) (*decl.Namespace, error) {
	toks, err := tokenize(filename, content)
	if err != nil {
		return nil, err
	}

	p := parser{
		toks:      toks,
		ns:        &decl.Namespace{},
		log:       logger.Named("parser"),
		tags:      make(map[string]*decl.Class),
		enums:     make(map[string]*decl.Enum),
		typedefs:  make(map[string]*decl.Typedef),
		functions: make(map[string]*decl.Function),
		constants: make(map[string]int64),
		listed:    make(map[*decl.Class]bool),
	}

	if err := p.translationUnit(); err != nil {
		return nil, err
	}

	// Classes that were only ever referenced go last.
	for _, c := range p.pending {
		if !p.listed[c] {
			p.ns.Classes = append(p.ns.Classes, c)
		}
	}

	p.log.Debugw("header parsed",
		logger.FieldFile, filename,
		"classes", len(p.ns.Classes),
		"enums", len(p.ns.Enums),
		"typedefs", len(p.ns.Typedefs),
		"functions", len(p.ns.Functions),
	)

	return p.ns, nil
}

type parser struct {
	toks []token
	pos  int
	ns   *decl.Namespace
	log  *zap.SugaredLogger

	tags      map[string]*decl.Class
	enums     map[string]*decl.Enum
	typedefs  map[string]*decl.Typedef
	functions map[string]*decl.Function
	constants map[string]int64

	listed  map[*decl.Class]bool
	pending []*decl.Class
	linkage int
}

// =============================================================================
// Token helpers
// =============================================================================

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(text string) bool {
	if p.peek().is(text) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(text string) (token, error) {
	t := p.peek()
	if !t.is(text) {
		return t, p.errorf(t, "expected %q, found %s", text, t)
	}
	return p.next(), nil
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return errorfAt(t, format, args...)
}

func errorfAt(t token, format string, args ...any) error {
	return errors.Wrapf(errors.ErrSyntax, "%s:%d: "+format, append([]any{t.file, t.line}, args...)...)
}

// skipBalanced skips from an opening bracket to just past its partner.
func (p *parser) skipBalanced(open, close string) error {
	start, err := p.expect(open)
	if err != nil {
		return err
	}
	for depth := 1; depth > 0; {
		t := p.next()
		switch {
		case t.kind == tokEOF:
			return p.errorf(start, "unbalanced %q", open)
		case t.is(open):
			depth++
		case t.is(close):
			depth--
		}
	}
	return nil
}

// skipAttributes drops GNU and MSVC annotations that carry no type
// information.
func (p *parser) skipAttributes() error {
	for {
		t := p.peek()
		if t.kind != tokIdent || !attributeWords[t.text] {
			return nil
		}
		p.next()
		for p.peek().kind == tokIdent && qualifierWords[p.peek().text] != 0 {
			p.next()
		}
		if p.peek().is("(") {
			if err := p.skipBalanced("(", ")"); err != nil {
				return err
			}
		}
	}
}

// =============================================================================
// Declarations
// =============================================================================

func (p *parser) translationUnit() error {
	for p.peek().kind != tokEOF {
		t := p.peek()

		switch {
		case t.is(";"):
			p.next()

		case t.is("}") && p.linkage > 0:
			p.linkage--
			p.next()

		case t.is("extern") && p.peekAt(1).kind == tokString:
			p.next()
			p.next()
			if p.accept("{") {
				p.linkage++
			}

		case t.is("_Static_assert") || t.is("static_assert"):
			p.next()
			if err := p.skipBalanced("(", ")"); err != nil {
				return err
			}

		default:
			if err := p.declaration(); err != nil {
				return err
			}
		}
	}

	if p.linkage > 0 {
		return p.errorf(p.peek(), "unterminated linkage block")
	}
	return nil
}

func (p *parser) declaration() error {
	s, err := p.specifiers()
	if err != nil {
		return err
	}
	base := s.build()

	if p.accept(";") {
		return nil
	}

	for {
		name, typ, err := p.declarator(base)
		if err != nil {
			return err
		}
		if err := p.skipAttributes(); err != nil {
			return err
		}
		if name == nil {
			return p.errorf(p.peek(), "expected declarator, found %s", p.peek())
		}

		p.declare(s, *name, typ)

		switch {
		case p.peek().is("="):
			if err := p.skipInitializer(); err != nil {
				return err
			}

		case p.peek().is("{"):
			// Function definition; the body is of no interest.
			return p.skipBalanced("{", "}")
		}

		if p.accept(",") {
			continue
		}
		_, err = p.expect(";")
		return err
	}
}

func (p *parser) declare(s *specs, name token, typ decl.Type) {
	if s.typedef {
		if _, ok := p.typedefs[name.text]; ok {
			return
		}
		td := &decl.Typedef{Name: name.text, Coord: name.coord(), Type: typ}
		p.typedefs[name.text] = td
		p.ns.Typedefs = append(p.ns.Typedefs, td)
		return
	}

	proto, ok := typ.(*decl.FunctionProto)
	if !ok {
		p.log.Debugw("skipping variable", logger.FieldName, name.text, logger.FieldFile, name.coord().String())
		return
	}

	if prev, ok := p.functions[name.text]; ok {
		prev.Static = prev.Static || s.static
		prev.Inline = prev.Inline || s.inline
		return
	}

	fn := &decl.Function{
		Name:     name.text,
		Coord:    name.coord(),
		Return:   proto.Return,
		Params:   proto.Params,
		Variadic: proto.Variadic,
		Extern:   s.extern,
		Static:   s.static,
		Inline:   s.inline,
	}
	p.functions[name.text] = fn
	p.ns.Functions = append(p.ns.Functions, fn)
}

func (p *parser) skipInitializer() error {
	p.next()
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return p.errorf(t, "unterminated initializer")
		case t.is(",") || t.is(";"):
			return nil
		case t.is("{"):
			if err := p.skipBalanced("{", "}"); err != nil {
				return err
			}
		case t.is("("):
			if err := p.skipBalanced("(", ")"); err != nil {
				return err
			}
		default:
			p.next()
		}
	}
}

// =============================================================================
// Declarators
// =============================================================================

// declarator parses a possibly abstract declarator and applies it to base.
// The returned name is nil for abstract declarators.
func (p *parser) declarator(base decl.Type) (*token, decl.Type, error) {
	for p.peek().is("*") {
		p.next()
		base = &decl.Pointer{Base: base}

		var q quals
		for {
			if err := p.skipAttributes(); err != nil {
				return nil, nil, err
			}
			t := p.peek()
			if t.kind != tokIdent || qualifierWords[t.text] == 0 {
				break
			}
			q.add(qualifierWords[t.text])
			p.next()
		}
		base = q.wrap(base)
	}

	if err := p.skipAttributes(); err != nil {
		return nil, nil, err
	}

	var name *token
	inner := -1

	switch t := p.peek(); {
	case t.kind == tokIdent:
		p.next()
		name = &t

	case t.is("(") && p.nestedDeclarator():
		p.next()
		inner = p.pos
		p.pos--
		if err := p.skipBalanced("(", ")"); err != nil {
			return nil, nil, err
		}
	}

	base, err := p.suffixes(base)
	if err != nil {
		return nil, nil, err
	}

	if inner >= 0 {
		end := p.pos
		p.pos = inner
		name, base, err = p.declarator(base)
		if err != nil {
			return nil, nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, nil, err
		}
		p.pos = end
	}

	return name, base, nil
}

// nestedDeclarator reports whether the '(' at the cursor groups a
// declarator rather than opening a parameter list.
func (p *parser) nestedDeclarator() bool {
	t := p.peekAt(1)
	switch {
	case t.is("*") || t.is("(") || t.is("["):
		return true
	case t.kind == tokIdent:
		return !p.startsType(t) && !attributeWords[t.text]
	}
	return false
}

// suffixes applies array and function suffixes. The suffix nearest the
// name binds loosest, so they are applied right to left.
func (p *parser) suffixes(base decl.Type) (decl.Type, error) {
	var wraps []func(decl.Type) decl.Type

	for {
		switch {
		case p.peek().is("["):
			p.next()
			for p.peek().kind == tokIdent && (qualifierWords[p.peek().text] != 0 || p.peek().text == "static") {
				p.next()
			}
			var size *int
			if at := p.peek(); !at.is("]") {
				n, err := p.constExpr()
				if err != nil {
					return nil, err
				}
				if n < 0 {
					return nil, errorfAt(at, "array size %d is negative", n)
				}
				if n > math.MaxInt {
					return nil, errorfAt(at, "array size %d is too large", n)
				}
				v := int(n)
				size = &v
			}
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
			wraps = append(wraps, func(t decl.Type) decl.Type {
				return &decl.Array{Elem: t, Size: size}
			})

		case p.peek().is("("):
			params, variadic, err := p.params()
			if err != nil {
				return nil, err
			}
			wraps = append(wraps, func(t decl.Type) decl.Type {
				return &decl.FunctionProto{Return: t, Params: params, Variadic: variadic}
			})

		default:
			for i := len(wraps) - 1; i >= 0; i-- {
				base = wraps[i](base)
			}
			return base, nil
		}
	}
}

func (p *parser) params() ([]decl.Param, bool, error) {
	if _, err := p.expect("("); err != nil {
		return nil, false, err
	}
	if p.accept(")") {
		return nil, false, nil
	}
	if p.peek().is("void") && p.peekAt(1).is(")") {
		p.next()
		p.next()
		return nil, false, nil
	}

	var params []decl.Param
	for {
		if p.accept("...") {
			_, err := p.expect(")")
			return params, true, err
		}

		s, err := p.specifiers()
		if err != nil {
			return nil, false, err
		}
		name, typ, err := p.declarator(s.build())
		if err != nil {
			return nil, false, err
		}
		if err := p.skipAttributes(); err != nil {
			return nil, false, err
		}

		// Parameters of array and function type are adjusted to pointers.
		switch t := typ.(type) {
		case *decl.Array:
			typ = &decl.Pointer{Base: t.Elem}
		case *decl.FunctionProto:
			typ = &decl.Pointer{Base: t}
		}

		prm := decl.Param{Type: typ}
		if name != nil {
			prm.Name = name.text
		}
		params = append(params, prm)

		if p.accept(",") {
			continue
		}
		if _, err := p.expect(")"); err != nil {
			return nil, false, err
		}
		return params, false, nil
	}
}
