package parser

import (
	"github.com/ardanlabs/babbisch/decl"
	"github.com/ardanlabs/babbisch/logger"
)

var qualifierWords = map[string]decl.Qualifier{
	"const":        decl.Const,
	"__const":      decl.Const,
	"__const__":    decl.Const,
	"volatile":     decl.Volatile,
	"__volatile":   decl.Volatile,
	"__volatile__": decl.Volatile,
	"restrict":     decl.Restrict,
	"__restrict":   decl.Restrict,
	"__restrict__": decl.Restrict,
}

var attributeWords = map[string]bool{
	"__attribute__": true,
	"__attribute":   true,
	"__declspec":    true,
	"__asm__":       true,
	"__asm":         true,
	"asm":           true,
	"_Alignas":      true,
	"alignas":       true,
	"__cdecl":       true,
	"__stdcall":     true,
	"__fastcall":    true,
	"_Nonnull":      true,
	"_Nullable":     true,
}

// ignoredWords carry no type information.
var ignoredWords = map[string]bool{
	"auto":          true,
	"register":      true,
	"_Noreturn":     true,
	"_Thread_local": true,
	"__thread":      true,
	"__extension__": true,
	"_Atomic":       true,
}

var typeWords = map[string]bool{
	"void":        true,
	"char":        true,
	"short":       true,
	"int":         true,
	"long":        true,
	"float":       true,
	"double":      true,
	"signed":      true,
	"__signed":    true,
	"__signed__":  true,
	"unsigned":    true,
	"_Bool":       true,
	"_Complex":    true,
	"__complex__": true,
	"__int128":    true,
}

// quals collects qualifiers seen in any order.
type quals struct {
	isConst, isVolatile, isRestrict bool
}

func (q *quals) add(qual decl.Qualifier) {
	switch qual {
	case decl.Const:
		q.isConst = true
	case decl.Volatile:
		q.isVolatile = true
	case decl.Restrict:
		q.isRestrict = true
	}
}

// wrap applies the qualifiers with restrict innermost and const outermost,
// so one qualified type always has one shape.
func (q quals) wrap(t decl.Type) decl.Type {
	if q.isRestrict {
		t = &decl.Qualified{Qual: decl.Restrict, Base: t}
	}
	if q.isVolatile {
		t = &decl.Qualified{Qual: decl.Volatile, Base: t}
	}
	if q.isConst {
		t = &decl.Qualified{Qual: decl.Const, Base: t}
	}
	return t
}

// specs is a parsed declaration-specifier list.
type specs struct {
	typ  decl.Type
	q    quals
	base string
	long int

	short, signed, unsigned, complex bool

	typedef, extern, static, inline bool
}

func (s *specs) hasType() bool {
	return s.typ != nil || s.base != "" || s.long > 0 || s.short || s.signed || s.unsigned || s.complex
}

// build returns the specified type with its qualifiers applied.
func (s *specs) build() decl.Type {
	t := s.typ
	if t == nil {
		t = &decl.Fundamental{Name: s.fundamental()}
	}
	return s.q.wrap(t)
}

// fundamental spells a builtin type the way GCC does.
func (s *specs) fundamental() string {
	var name string

	switch s.base {
	case "void", "_Bool":
		name = s.base

	case "char":
		switch {
		case s.unsigned:
			name = "unsigned char"
		case s.signed:
			name = "signed char"
		default:
			name = "char"
		}

	case "float":
		name = "float"

	case "double":
		name = "double"
		if s.long > 0 {
			name = "long double"
		}

	case "__int128":
		name = "__int128"
		if s.unsigned {
			name = "unsigned __int128"
		}

	default:
		switch {
		case s.long >= 2:
			name = "long long"
		case s.long == 1:
			name = "long"
		case s.short:
			name = "short"
		default:
			name = "int"
		}
		if s.unsigned {
			name = "unsigned " + name
		}
	}

	if s.complex {
		name = "complex " + name
	}
	return name
}

// startsType reports whether t can begin a declaration-specifier list.
func (p *parser) startsType(t token) bool {
	if t.kind != tokIdent {
		return false
	}
	switch t.text {
	case "struct", "union", "enum", "typedef", "extern", "static", "inline", "__inline", "__inline__",
		"typeof", "__typeof__", "__typeof", "__builtin_va_list":
		return true
	}
	if typeWords[t.text] || qualifierWords[t.text] != 0 || ignoredWords[t.text] {
		return true
	}
	_, ok := p.typedefs[t.text]
	return ok
}

func (p *parser) specifiers() (*specs, error) {
	s := specs{}

	for {
		if err := p.skipAttributes(); err != nil {
			return nil, err
		}

		t := p.peek()
		if t.kind != tokIdent {
			break
		}

		if q := qualifierWords[t.text]; q != 0 {
			s.q.add(q)
			p.next()
			continue
		}
		if ignoredWords[t.text] {
			p.next()
			continue
		}

		switch t.text {
		case "typedef":
			s.typedef = true
			p.next()
			continue
		case "extern":
			s.extern = true
			p.next()
			continue
		case "static":
			s.static = true
			p.next()
			continue
		case "inline", "__inline", "__inline__":
			s.inline = true
			p.next()
			continue
		}

		if typeWords[t.text] {
			p.next()
			switch t.text {
			case "long":
				s.long++
			case "short":
				s.short = true
			case "signed", "__signed", "__signed__":
				s.signed = true
			case "unsigned":
				s.unsigned = true
			case "_Complex", "__complex__":
				s.complex = true
			default:
				s.base = t.text
			}
			continue
		}

		if s.hasType() {
			break
		}

		switch t.text {
		case "struct", "union":
			typ, err := p.classSpecifier()
			if err != nil {
				return nil, err
			}
			s.typ = typ

		case "enum":
			typ, err := p.enumSpecifier()
			if err != nil {
				return nil, err
			}
			s.typ = typ

		case "typeof", "__typeof__", "__typeof":
			p.next()
			if err := p.skipBalanced("(", ")"); err != nil {
				return nil, err
			}
			s.typ = &decl.Unsupported{Description: "typeof expression"}

		default:
			// Any other identifier in type position names a typedef. It may
			// come from a header that was not parsed, e.g. size_t.
			p.next()
			s.typ = &decl.TypedefRef{Name: t.text, Typedef: p.typedefs[t.text]}
		}
	}

	return &s, nil
}

// =============================================================================
// struct, union and enum
// =============================================================================

func (p *parser) classSpecifier() (decl.Type, error) {
	kw := p.next()
	kind := decl.Struct
	if kw.text == "union" {
		kind = decl.Union
	}

	if err := p.skipAttributes(); err != nil {
		return nil, err
	}

	var name string
	if p.peek().kind == tokIdent {
		name = p.next().text
	}
	if err := p.skipAttributes(); err != nil {
		return nil, err
	}

	if !p.peek().is("{") {
		if name == "" {
			return nil, p.errorf(kw, "expected %s name or body", kw.text)
		}
		c, ok := p.tags[name]
		if !ok {
			c = &decl.Class{Name: name, Kind: kind, Coord: kw.coord(), Incomplete: true}
			p.tags[name] = c
			p.pending = append(p.pending, c)
		}
		return &decl.Record{Class: c}, nil
	}

	c, ok := p.tags[name]
	if !ok || !c.Incomplete || name == "" {
		c = &decl.Class{Name: name, Kind: kind}
		if name != "" {
			p.tags[name] = c
		}
	}
	c.Kind = kind
	c.Coord = kw.coord()
	c.Incomplete = false

	if !p.listed[c] {
		p.listed[c] = true
		p.ns.Classes = append(p.ns.Classes, c)
	}

	p.next()
	for !p.accept("}") {
		if p.peek().kind == tokEOF {
			return nil, p.errorf(kw, "unterminated %s body", kw.text)
		}
		if err := p.member(c); err != nil {
			return nil, err
		}
	}

	if err := p.skipAttributes(); err != nil {
		return nil, err
	}

	p.log.Debugw("class defined", logger.FieldName, c.String(), "fields", len(c.Fields))
	return &decl.Record{Class: c}, nil
}

func (p *parser) member(c *decl.Class) error {
	if p.accept(";") {
		return nil
	}
	if p.peek().is("_Static_assert") || p.peek().is("static_assert") {
		p.next()
		if err := p.skipBalanced("(", ")"); err != nil {
			return err
		}
		_, err := p.expect(";")
		return err
	}

	s, err := p.specifiers()
	if err != nil {
		return err
	}
	base := s.build()

	// A nested anonymous struct or union without declarator is a member
	// whose fields are accessed directly.
	if p.accept(";") {
		if r, ok := s.typ.(*decl.Record); ok && r.Class.Name == "" {
			c.Fields = append(c.Fields, decl.Field{Type: base})
		}
		return nil
	}

	for {
		f := decl.Field{Type: base}

		if !p.peek().is(":") {
			name, typ, err := p.declarator(base)
			if err != nil {
				return err
			}
			if name != nil {
				f.Name = name.text
			}
			f.Type = typ
		}

		if p.accept(":") {
			n, err := p.constExpr()
			if err != nil {
				return err
			}
			bits := int(n)
			f.Bits = &bits
		}
		if err := p.skipAttributes(); err != nil {
			return err
		}

		c.Fields = append(c.Fields, f)

		if p.accept(",") {
			continue
		}
		_, err := p.expect(";")
		return err
	}
}

func (p *parser) enumSpecifier() (decl.Type, error) {
	kw := p.next()

	if err := p.skipAttributes(); err != nil {
		return nil, err
	}

	var name string
	if p.peek().kind == tokIdent {
		name = p.next().text
	}

	// Fixed underlying type.
	if p.accept(":") {
		if _, err := p.specifiers(); err != nil {
			return nil, err
		}
	}

	if !p.peek().is("{") {
		if name == "" {
			return nil, p.errorf(kw, "expected enum name or body")
		}
		e, ok := p.enums[name]
		if !ok {
			e = &decl.Enum{Name: name, Coord: kw.coord()}
			p.enums[name] = e
		}
		return &decl.EnumRef{Enum: e}, nil
	}
	p.next()

	e, ok := p.enums[name]
	if !ok || e.Values != nil || name == "" {
		e = &decl.Enum{Name: name}
		if name != "" {
			p.enums[name] = e
		}
	}
	e.Coord = kw.coord()
	e.Values = []decl.EnumValue{}
	p.ns.Enums = append(p.ns.Enums, e)

	var value int64
	for !p.accept("}") {
		t := p.next()
		if t.kind != tokIdent {
			return nil, p.errorf(t, "expected enumerator, found %s", t)
		}
		if err := p.skipAttributes(); err != nil {
			return nil, err
		}
		if p.accept("=") {
			v, err := p.constExpr()
			if err != nil {
				return nil, err
			}
			value = v
		}

		e.Values = append(e.Values, decl.EnumValue{Name: t.text, Value: value})
		p.constants[t.text] = value
		value++

		if !p.accept(",") && !p.peek().is("}") {
			return nil, p.errorf(p.peek(), "expected ',' or '}' in enum %s, found %s", name, p.peek())
		}
	}

	if err := p.skipAttributes(); err != nil {
		return nil, err
	}
	return &decl.EnumRef{Enum: e}, nil
}
