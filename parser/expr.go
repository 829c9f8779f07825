package parser

import (
	"math"
	"math/bits"
	"strconv"
	"strings"
)

var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6,
	"!=": 6,
	"<":  7,
	">":  7,
	"<=": 7,
	">=": 7,
	"<<": 8,
	">>": 8,
	"+":  9,
	"-":  9,
	"*":  10,
	"/":  10,
	"%":  10,
}

// constExpr evaluates an integer constant expression as used in enum
// values, array sizes and bit-field widths.
func (p *parser) constExpr() (int64, error) {
	cond, err := p.binary(1)
	if err != nil {
		return 0, err
	}
	if !p.accept("?") {
		return cond, nil
	}

	a, err := p.constExpr()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(":"); err != nil {
		return 0, err
	}
	b, err := p.constExpr()
	if err != nil {
		return 0, err
	}
	if cond != 0 {
		return a, nil
	}
	return b, nil
}

func (p *parser) binary(minPrec int) (int64, error) {
	lhs, err := p.unary()
	if err != nil {
		return 0, err
	}

	for {
		op := p.peek()
		prec, ok := binaryPrec[op.text]
		if op.kind != tokPunct || !ok || prec < minPrec {
			return lhs, nil
		}
		p.next()

		rhs, err := p.binary(prec + 1)
		if err != nil {
			return 0, err
		}

		switch op.text {
		case "||":
			lhs = boolInt(lhs != 0 || rhs != 0)
		case "&&":
			lhs = boolInt(lhs != 0 && rhs != 0)
		case "|":
			lhs |= rhs
		case "^":
			lhs ^= rhs
		case "&":
			lhs &= rhs
		case "==":
			lhs = boolInt(lhs == rhs)
		case "!=":
			lhs = boolInt(lhs != rhs)
		case "<":
			lhs = boolInt(lhs < rhs)
		case ">":
			lhs = boolInt(lhs > rhs)
		case "<=":
			lhs = boolInt(lhs <= rhs)
		case ">=":
			lhs = boolInt(lhs >= rhs)
		case "<<", ">>":
			if rhs < 0 || rhs >= 64 {
				return 0, p.errorf(op, "shift count %d out of range", rhs)
			}
			if op.text == ">>" {
				lhs >>= uint64(rhs)
				break
			}
			r := lhs << uint64(rhs)
			if r>>uint64(rhs) != lhs {
				return 0, p.errorf(op, "overflow in constant expression")
			}
			lhs = r
		case "+", "-", "*":
			r, ok := checked(op.text, lhs, rhs)
			if !ok {
				return 0, p.errorf(op, "overflow in constant expression")
			}
			lhs = r
		case "/", "%":
			if rhs == 0 {
				return 0, p.errorf(op, "division by zero in constant expression")
			}
			if op.text == "/" {
				lhs /= rhs
			} else {
				lhs %= rhs
			}
		}
	}
}

func (p *parser) unary() (int64, error) {
	t := p.peek()

	if t.kind == tokPunct {
		switch t.text {
		case "-", "+", "~", "!":
			p.next()
			v, err := p.unary()
			if err != nil {
				return 0, err
			}
			switch t.text {
			case "-":
				if v == math.MinInt64 {
					return 0, p.errorf(t, "overflow in constant expression")
				}
				return -v, nil
			case "~":
				return ^v, nil
			case "!":
				return boolInt(v == 0), nil
			}
			return v, nil

		case "(":
			p.next()
			if p.startsType(p.peek()) {
				// Casts keep the value.
				s, err := p.specifiers()
				if err != nil {
					return 0, err
				}
				if _, _, err := p.declarator(s.build()); err != nil {
					return 0, err
				}
				if _, err := p.expect(")"); err != nil {
					return 0, err
				}
				return p.unary()
			}
			v, err := p.constExpr()
			if err != nil {
				return 0, err
			}
			_, err = p.expect(")")
			return v, err
		}
	}

	p.next()
	switch t.kind {
	case tokNumber:
		return parseInt(t)
	case tokChar:
		return parseChar(t)
	case tokIdent:
		if v, ok := p.constants[t.text]; ok {
			return v, nil
		}
		return 0, p.errorf(t, "unknown identifier %q in constant expression", t.text)
	}
	return 0, p.errorf(t, "unexpected %s in constant expression", t)
}

func parseInt(t token) (int64, error) {
	s := strings.TrimRight(t.text, "uUlL")
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return v, nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, errorfAt(t, "invalid integer constant %q", t.text)
	}
	return int64(v), nil
}

func parseChar(t token) (int64, error) {
	body := t.text[1 : len(t.text)-1]

	if len(body) > 1 && body[0] == '\\' && body[1] >= '0' && body[1] <= '7' {
		v, err := strconv.ParseInt(body[1:], 8, 64)
		if err != nil {
			return 0, errorfAt(t, "invalid character constant %s", t.text)
		}
		return v, nil
	}

	r, _, tail, err := strconv.UnquoteChar(body, '\'')
	if err != nil || tail != "" {
		return 0, errorfAt(t, "invalid character constant %s", t.text)
	}
	return int64(r), nil
}

// checked applies an additive or multiplicative operator and reports
// whether the result fits in an int64.
func checked(op string, a, b int64) (int64, bool) {
	switch op {
	case "+":
		r := a + b
		return r, (r > a) == (b > 0)
	case "-":
		r := a - b
		return r, (r < a) == (b > 0)
	}

	neg := (a < 0) != (b < 0)
	hi, lo := bits.Mul64(abs(a), abs(b))
	if hi != 0 {
		return 0, false
	}
	if neg {
		if lo > 1<<63 {
			return 0, false
		}
		return int64(-lo), true
	}
	if lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

func abs(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
