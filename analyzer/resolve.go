package analyzer

import (
	"github.com/ardanlabs/babbisch/decl"
	"github.com/ardanlabs/babbisch/errors"
	"github.com/ardanlabs/babbisch/logger"
	"github.com/ardanlabs/babbisch/model"
	"github.com/ardanlabs/babbisch/tags"
)

// resolve returns the canonical tag of t. Function types reachable from t
// are registered in the table; primitives, pointers, arrays and qualifiers
// are pure tag derivations and are not.
func (a *Analyzer) resolve(t decl.Type) (string, error) {
	switch t := t.(type) {
	case *decl.Fundamental:
		return a.primitive(t.Name), nil

	case *decl.Pointer:
		base, err := a.resolve(t.Base)
		if err != nil {
			return "", err
		}
		return tags.Pointer(base), nil

	case *decl.Array:
		elem, err := a.resolve(t.Elem)
		if err != nil {
			return "", err
		}
		if t.Size != nil && *t.Size < 0 {
			return "", errors.WithDetail(errors.Wrapf(errors.ErrInvalidInput, "array size %d", *t.Size), t.String())
		}
		return tags.Array(elem, t.Size), nil

	case *decl.Qualified:
		base, err := a.resolve(t.Base)
		if err != nil {
			return "", err
		}
		switch t.Qual {
		case decl.Const:
			return tags.Const(base), nil
		case decl.Volatile:
			return tags.Volatile(base), nil
		case decl.Restrict:
			return tags.Restrict(base), nil
		}
		return "", unsupported(t)

	case *decl.Record:
		if t.Class == nil {
			return "", unsupported(t)
		}
		return a.recordTag(t.Class)

	case *decl.TypedefRef:
		if t.Name == "" {
			return "", errors.WithDetail(errors.Wrap(errors.ErrUnnamedType, "typedef reference"), t.String())
		}
		return t.Name, nil

	case *decl.EnumRef:
		if t.Enum == nil {
			return "", unsupported(t)
		}
		name, err := a.enumName(t.Enum)
		if err != nil {
			return "", err
		}
		return tags.Enum(name), nil

	case *decl.FunctionProto:
		return a.functionType(t)

	case *decl.Unsupported:
		return "", unsupported(t)

	case nil:
		return "", errors.Wrap(errors.ErrUnsupported, "missing type")
	}

	return "", unsupported(t)
}

func unsupported(t decl.Type) error {
	return errors.WithDetail(
		errors.Wrapf(errors.ErrUnsupported, "cannot resolve %s node", t.Kind()),
		t.String(),
	)
}

func (a *Analyzer) primitive(spelling string) string {
	if p, ok := a.builtins.Lookup(spelling); ok {
		return p.Tag()
	}
	a.log.Debugw("unknown fundamental type kept verbatim", logger.FieldName, spelling)
	return spelling
}

// recordTag returns STRUCT(name) or UNION(name) for a class reference. The
// class's members are not touched: they are derived once, when the class
// declaration itself is analyzed.
func (a *Analyzer) recordTag(c *decl.Class) (string, error) {
	name, err := a.className(c)
	if err != nil {
		return "", err
	}

	kind, ok := a.classKinds[name]
	if !ok {
		kind = c.Kind
		guessed := kind == decl.Unknown
		if guessed {
			kind = decl.Struct
		}
		a.classKinds[name] = kind

		msg := "incomplete " + kind.String() + " referenced"
		if guessed {
			msg = "incomplete type referenced, assuming struct"
		}
		a.diagnose(Diagnostic{
			Kind:    IncompleteType,
			Tag:     name,
			Coord:   c.Coord,
			Guessed: guessed,
			Message: msg,
		})
	}

	if kind == decl.Union {
		return tags.Union(name), nil
	}
	return tags.Struct(name), nil
}

func (a *Analyzer) className(c *decl.Class) (string, error) {
	if name, ok := a.classNames[c]; ok {
		return name, nil
	}
	if c.Name != "" {
		return c.Name, nil
	}
	return "", errors.WithDetail(errors.Wrap(errors.ErrUnnamedType, "class reference"), c.String())
}

func (a *Analyzer) enumName(e *decl.Enum) (string, error) {
	if name, ok := a.enumNames[e]; ok {
		return name, nil
	}
	if e.Name != "" {
		return e.Name, nil
	}
	return "", errors.WithDetail(errors.Wrap(errors.ErrUnnamedType, "enum reference"), "enum at "+e.Coord.String())
}

// functionType registers a fresh FunctionType. Identical shapes produce
// identical tags, so a second registration replaces the first in place.
func (a *Analyzer) functionType(p *decl.FunctionProto) (string, error) {
	var ret string
	if p.Return != nil {
		tag, err := a.resolve(p.Return)
		if err != nil {
			return "", err
		}
		ret = tag
	}

	params := make([]string, 0, len(p.Params))
	for _, prm := range p.Params {
		tag, err := a.resolve(prm.Type)
		if err != nil {
			return "", err
		}
		params = append(params, tag)
	}

	ft := model.NewFunctionType(nil, ret, params, p.Variadic)
	a.insert(ft, nil)
	return ft.Tag(), nil
}
