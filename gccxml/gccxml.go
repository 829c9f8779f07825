// Package gccxml reads a GCC-XML document, as written by gccxml or by
// castxml --castxml-gccxml, and turns it into the declaration tree.
package gccxml

import (
	"encoding/xml"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ardanlabs/babbisch/decl"
	"github.com/ardanlabs/babbisch/errors"
	"github.com/ardanlabs/babbisch/logger"
)

// Load reads a GCC-XML file.
func Load(path string) (*decl.Namespace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	ns, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return ns, nil
}

// Decode reads a GCC-XML document.
func Decode(r io.Reader) (*decl.Namespace, error) {
	root := &xmlTree{}
	if err := xml.NewDecoder(r).Decode(root); err != nil {
		return nil, errors.Wrap(errors.WithSecondaryError(errors.ErrInvalidInput, err), "failed to decode GCC-XML")
	}

	switch root.XMLName.Local {
	case "GCC_XML", "CastXML":
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unexpected root element <%s>", root.XMLName.Local)
	}

	b := newBuilder(root)
	if err := b.build(); err != nil {
		return nil, err
	}

	b.log.Debugw("GCC-XML loaded",
		"structs", len(root.Structs),
		"unions", len(root.Unions),
		"typedefs", len(root.Typedefs),
		"functions", len(root.Functions),
		"variables", len(root.Variables),
		"files", len(root.Files),
	)
	return b.ns, nil
}

// builder converts the id-linked element soup into the declaration tree.
type builder struct {
	root *xmlTree
	ns   *decl.Namespace
	log  *zap.SugaredLogger

	files  map[string]string
	types  map[string]any
	fields map[string]*xmlField
	global string

	classes  map[string]*decl.Class
	enums    map[string]*decl.Enum
	typedefs map[string]*decl.Typedef
}

func newBuilder(root *xmlTree) *builder {
	b := builder{
		root:     root,
		ns:       &decl.Namespace{},
		log:      logger.Named("gccxml"),
		files:    make(map[string]string),
		types:    make(map[string]any),
		fields:   make(map[string]*xmlField),
		classes:  make(map[string]*decl.Class),
		enums:    make(map[string]*decl.Enum),
		typedefs: make(map[string]*decl.Typedef),
	}

	for _, f := range root.Files {
		b.files[f.Id] = f.Name
	}
	for _, f := range root.Fields {
		b.fields[f.Id] = f
	}
	for _, n := range root.Namespaces {
		if n.Name == "::" {
			b.global = n.Id
		}
	}

	register := func(id string, v any) {
		b.types[id] = v
	}
	for _, x := range root.Arrays {
		register(x.Id, x)
	}
	for _, x := range root.CvQualifiedTypes {
		register(x.Id, x)
	}
	for _, x := range root.ElaboratedTypes {
		register(x.Id, x)
	}
	for _, x := range root.Enumerations {
		register(x.Id, x)
	}
	for _, x := range root.FunctionTypes {
		register(x.Id, x)
	}
	for _, x := range root.FundamentalTypes {
		register(x.Id, x)
	}
	for _, x := range root.PointerTypes {
		register(x.Id, x)
	}
	for _, x := range root.Typedefs {
		register(x.Id, x)
	}
	for _, list := range [][]*xmlUnsupportedType{root.MethodTypes, root.OffsetTypes, root.ReferenceTypes, root.Unimplementeds} {
		for _, x := range list {
			register(x.Id, x)
		}
	}

	return &b
}

// records returns every Struct, Union and Class element in document
// order, tagged with its kind.
func (b *builder) records() []*record {
	var out []*record
	for _, x := range b.root.Structs {
		out = append(out, &record{xmlRecord: x, kind: decl.Struct})
	}
	for _, x := range b.root.Classes {
		out = append(out, &record{xmlRecord: x, kind: decl.Struct})
	}
	for _, x := range b.root.Unions {
		out = append(out, &record{xmlRecord: x, kind: decl.Union})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return idLess(out[i].Id, out[j].Id)
	})
	return out
}

type record struct {
	*xmlRecord
	kind decl.ClassKind
}

func (b *builder) build() error {
	recs := b.records()

	// Declarations first, so every reference below finds its target
	// whatever the document order.
	typedefNames := make(map[string]bool)
	for _, td := range b.root.Typedefs {
		typedefNames[td.Name] = true
	}

	var synthesized []*decl.Typedef
	for _, r := range recs {
		c := &decl.Class{
			Name:       r.Name,
			Kind:       r.kind,
			Coord:      b.coord(r.location),
			Incomplete: toBool(r.Incomplete),
		}

		// GCC-XML names a typedef'd anonymous struct after the typedef and
		// leaves it non-artificial; a tagged struct is artificial.
		if c.Name != "" && !c.Incomplete && !toBool(r.Artificial) {
			name := c.Name
			c.Name = ""
			if !typedefNames[name] {
				synthesized = append(synthesized, &decl.Typedef{
					Name:  name,
					Coord: c.Coord,
					Type:  &decl.Record{Class: c},
				})
			}
		}

		b.classes[r.Id] = c
		b.ns.Classes = append(b.ns.Classes, c)
		b.types[r.Id] = c
	}

	enums := append([]*xmlEnumeration(nil), b.root.Enumerations...)
	sort.SliceStable(enums, func(i, j int) bool { return idLess(enums[i].Id, enums[j].Id) })
	for _, x := range enums {
		e := &decl.Enum{Name: x.Name, Coord: b.coord(x.location)}
		for _, v := range x.EnumValues {
			n, err := strconv.ParseInt(v.Init, 0, 64)
			if err != nil {
				return errors.Wrapf(errors.ErrInvalidInput, "enum %s: value %s has init %q", x.Name, v.Name, v.Init)
			}
			e.Values = append(e.Values, decl.EnumValue{Name: v.Name, Value: n})
		}
		b.enums[x.Id] = e
		b.ns.Enums = append(b.ns.Enums, e)
	}

	tds := append([]*xmlTypedef(nil), b.root.Typedefs...)
	sort.SliceStable(tds, func(i, j int) bool { return idLess(tds[i].Id, tds[j].Id) })
	b.ns.Typedefs = append(b.ns.Typedefs, synthesized...)
	for _, x := range tds {
		td := &decl.Typedef{Name: x.Name, Coord: b.coord(x.location)}
		b.typedefs[x.Id] = td
		b.ns.Typedefs = append(b.ns.Typedefs, td)
	}

	// Then the types that hang off them.
	for _, r := range recs {
		if err := b.fillClass(r); err != nil {
			return err
		}
	}
	for _, x := range tds {
		t, err := b.resolve(x.Type)
		if err != nil {
			return errors.Wrapf(err, "typedef %s", x.Name)
		}
		b.typedefs[x.Id].Type = t
	}

	fns := append([]*xmlFunction(nil), b.root.Functions...)
	sort.SliceStable(fns, func(i, j int) bool { return idLess(fns[i].Id, fns[j].Id) })
	for _, x := range fns {
		if b.global != "" && x.Context != b.global {
			continue
		}
		if b.builtin(x) {
			continue
		}
		fn, err := b.function(x)
		if err != nil {
			return errors.Wrapf(err, "function %s", x.Name)
		}
		b.ns.Functions = append(b.ns.Functions, fn)
	}

	return nil
}

func (b *builder) fillClass(r *record) error {
	c := b.classes[r.Id]
	for _, id := range strings.Fields(r.Members) {
		f, ok := b.fields[id]
		if !ok {
			// Nested types and C++ members.
			continue
		}
		t, err := b.resolve(f.Type)
		if err != nil {
			return errors.Wrapf(err, "field %s of %s", f.Name, c)
		}
		field := decl.Field{Name: f.Name, Type: t}
		if f.Bits != "" {
			n, err := strconv.Atoi(f.Bits)
			if err != nil {
				return errors.Wrapf(errors.ErrInvalidInput, "field %s: bits %q", f.Name, f.Bits)
			}
			field.Bits = &n
		}
		c.Fields = append(c.Fields, field)
	}
	return nil
}

func (b *builder) function(x *xmlFunction) (*decl.Function, error) {
	fn := &decl.Function{
		Name:     x.Name,
		Coord:    b.coord(x.location),
		Variadic: x.Ellipsis != nil,
		Extern:   toBool(x.Extern),
		Static:   toBool(x.Static),
		Inline:   toBool(x.Inline),
	}

	if x.Returns != "" {
		t, err := b.resolve(x.Returns)
		if err != nil {
			return nil, errors.Wrap(err, "return type")
		}
		fn.Return = t
	}

	for _, a := range x.Arguments {
		t, err := b.resolve(a.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %s", a.Name)
		}
		fn.Params = append(fn.Params, decl.Param{Name: a.Name, Type: t})
	}

	return fn, nil
}

// builtin reports whether a function was declared by the compiler rather
// than by a header.
func (b *builder) builtin(x *xmlFunction) bool {
	if strings.HasPrefix(x.Name, "__builtin_") {
		return true
	}
	file, _ := x.fileLine()
	return b.files[file] == "<builtin>"
}

// resolve turns a type id into a type node.
func (b *builder) resolve(id string) (decl.Type, error) {
	v, ok := b.types[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown type id %q", id)
	}

	switch x := v.(type) {
	case *xmlFundamentalType:
		return &decl.Fundamental{Name: x.Name}, nil

	case *xmlPointerType:
		base, err := b.resolve(x.Type)
		if err != nil {
			return nil, err
		}
		return &decl.Pointer{Base: base}, nil

	case *xmlArrayType:
		elem, err := b.resolve(x.Type)
		if err != nil {
			return nil, err
		}
		return &decl.Array{Elem: elem, Size: arraySize(x.Max)}, nil

	case *xmlCvQualifiedType:
		t, err := b.resolve(x.Type)
		if err != nil {
			return nil, err
		}
		if toBool(x.Restrict) {
			t = &decl.Qualified{Qual: decl.Restrict, Base: t}
		}
		if toBool(x.Volatile) {
			t = &decl.Qualified{Qual: decl.Volatile, Base: t}
		}
		if toBool(x.Const) {
			t = &decl.Qualified{Qual: decl.Const, Base: t}
		}
		return t, nil

	case *xmlElaboratedType:
		return b.resolve(x.Type)

	case *decl.Class:
		return &decl.Record{Class: x}, nil

	case *xmlEnumeration:
		return &decl.EnumRef{Enum: b.enums[x.Id]}, nil

	case *xmlTypedef:
		return &decl.TypedefRef{Name: x.Name, Typedef: b.typedefs[x.Id]}, nil

	case *xmlFunctionType:
		proto := &decl.FunctionProto{Variadic: x.Ellipsis != nil}
		if x.Returns != "" {
			ret, err := b.resolve(x.Returns)
			if err != nil {
				return nil, err
			}
			proto.Return = ret
		}
		for _, a := range x.Arguments {
			t, err := b.resolve(a.Type)
			if err != nil {
				return nil, err
			}
			proto.Params = append(proto.Params, decl.Param{Name: a.Name, Type: t})
		}
		return proto, nil

	case *xmlUnsupportedType:
		return &decl.Unsupported{Description: x.XMLName.Local}, nil
	}

	return nil, errors.AssertionFailedf("unhandled element %T for id %q", v, id)
}

func (b *builder) coord(l location) *decl.Coord {
	file, line := l.fileLine()
	if file == "" {
		return nil
	}
	if name, ok := b.files[file]; ok {
		file = name
	}
	return &decl.Coord{File: file, Line: line}
}

// arraySize converts the inclusive upper bound of an array into its
// length. Incomplete arrays have no bound, or a bound of -1 written as
// unsigned.
func arraySize(bound string) *int {
	bound = strings.TrimRight(bound, "uU")
	if bound == "" {
		return nil
	}
	n, err := strconv.ParseInt(bound, 0, 64)
	if err != nil || n < 0 {
		return nil
	}
	size := int(n) + 1
	return &size
}

// idLess orders GCC-XML ids ("_12") numerically, which is document order.
func idLess(a, b string) bool {
	na, errA := strconv.Atoi(strings.TrimPrefix(a, "_"))
	nb, errB := strconv.Atoi(strings.TrimPrefix(b, "_"))
	if errA != nil || errB != nil {
		return a < b
	}
	return na < nb
}
