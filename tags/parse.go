package tags

import (
	"strconv"
	"strings"

	"github.com/ardanlabs/babbisch/errors"
)

// Expr is a parsed tag. Leaves (primitive spellings, typedef names,
// function names) have an empty Op and carry Name. Compound operators
// (STRUCT, UNION, ENUM) carry Name too. The other operators carry Args;
// ARRAY additionally carries Size.
type Expr struct {
	Op   string
	Name string
	Args []*Expr
	Size *int
}

// IsLeaf reports whether the expression is a plain name.
func (e *Expr) IsLeaf() bool {
	return e.Op == ""
}

// IsAbsent reports whether the expression is the absent marker.
func (e *Expr) IsAbsent() bool {
	return e.Op == "" && e.Name == Absent
}

// Elem returns the single operand of POINTER, ARRAY and qualifier tags.
func (e *Expr) Elem() *Expr {
	if len(e.Args) == 0 {
		return nil
	}
	return e.Args[0]
}

// String renders the expression back into its canonical tag.
func (e *Expr) String() string {
	switch e.Op {
	case "":
		return e.Name
	case OpStruct, OpUnion, OpEnum:
		return wrap(e.Op, e.Name)
	case OpArray:
		return Array(e.Elem().String(), e.Size)
	case OpFunctionType:
		ret := e.Args[0].String()
		params := make([]string, 0, len(e.Args)-1)
		for _, a := range e.Args[1:] {
			params = append(params, a.String())
		}
		return FunctionType(ret, params)
	default:
		return wrap(e.Op, e.Elem().String())
	}
}

// Unqualified strips CONST, VOLATILE and RESTRICT wrappers.
func (e *Expr) Unqualified() *Expr {
	for e != nil && (e.Op == OpConst || e.Op == OpVolatile || e.Op == OpRestrict) {
		e = e.Elem()
	}
	return e
}

var operators = map[string]bool{
	OpPointer:      true,
	OpArray:        true,
	OpConst:        true,
	OpVolatile:     true,
	OpRestrict:     true,
	OpStruct:       true,
	OpUnion:        true,
	OpEnum:         true,
	OpFunctionType: true,
}

// Parse turns a tag string back into an expression tree.
func Parse(tag string) (*Expr, error) {
	p := tagParser{src: tag}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, p.fail("trailing input")
	}
	return e, nil
}

type tagParser struct {
	src string
	pos int
}

func (p *tagParser) fail(msg string) error {
	return errors.Wrapf(errors.ErrMalformedTag, "%s at offset %d in %q", msg, p.pos, p.src)
}

// word reads up to the next structural character.
func (p *tagParser) word() string {
	start := p.pos
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '(', ')', ',':
			return strings.TrimSpace(p.src[start:p.pos])
		}
		p.pos++
	}
	return strings.TrimSpace(p.src[start:p.pos])
}

func (p *tagParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *tagParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return p.fail("expected '" + string(c) + "'")
	}
	p.pos++
	return nil
}

func (p *tagParser) expr() (*Expr, error) {
	p.skipSpace()
	w := p.word()
	if w == "" {
		return nil, p.fail("empty name")
	}
	if p.pos >= len(p.src) || p.src[p.pos] != '(' || !operators[w] {
		return &Expr{Name: w}, nil
	}
	p.pos++

	e := Expr{Op: w}
	switch w {
	case OpStruct, OpUnion, OpEnum:
		e.Name = p.word()
		if e.Name == "" {
			return nil, p.fail("empty compound name")
		}

	case OpArray:
		elem, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		e.Args = []*Expr{elem}
		size := p.word()
		if size != Absent {
			n, err := strconv.Atoi(size)
			if err != nil || n < 0 {
				return nil, p.fail("bad array size " + strconv.Quote(size))
			}
			e.Size = &n
		}

	case OpFunctionType:
		for {
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			e.Args = append(e.Args, arg)
			p.skipSpace()
			if p.pos < len(p.src) && p.src[p.pos] == ',' {
				p.pos++
				continue
			}
			break
		}

	default:
		elem, err := p.expr()
		if err != nil {
			return nil, err
		}
		e.Args = []*Expr{elem}
	}

	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return &e, nil
}
