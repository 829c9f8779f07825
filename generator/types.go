package generator

import (
	"strconv"

	"github.com/ardanlabs/babbisch/analyzer"
	"github.com/ardanlabs/babbisch/errors"
	"github.com/ardanlabs/babbisch/model"
	"github.com/ardanlabs/babbisch/objtable"
	"github.com/ardanlabs/babbisch/tags"
)

// kind decides how a value crosses the libffi boundary.
type kind int

const (
	kindVoid   kind = iota
	kindNarrow      // integers returned through ffi.Arg
	kindValue       // 64-bit integers and floats
	kindBool
	kindString
	kindPointer
	kindStruct
	kindArray
)

type goType struct {
	kind  kind
	name  string
	ffi   string
	count int
}

var primitives = map[string]goType{
	"void":               {kind: kindVoid, ffi: "&ffi.TypeVoid"},
	"signed char":        {kind: kindNarrow, name: "int8", ffi: "&ffi.TypeSint8"},
	"unsigned char":      {kind: kindNarrow, name: "uint8", ffi: "&ffi.TypeUint8"},
	"signed byte":        {kind: kindNarrow, name: "int8", ffi: "&ffi.TypeSint8"},
	"unsigned byte":      {kind: kindNarrow, name: "uint8", ffi: "&ffi.TypeUint8"},
	"signed short":       {kind: kindNarrow, name: "int16", ffi: "&ffi.TypeSint16"},
	"unsigned short":     {kind: kindNarrow, name: "uint16", ffi: "&ffi.TypeUint16"},
	"signed int":         {kind: kindNarrow, name: "int32", ffi: "&ffi.TypeSint32"},
	"unsigned int":       {kind: kindNarrow, name: "uint32", ffi: "&ffi.TypeUint32"},
	"signed long":        {kind: kindValue, name: "int64", ffi: "&ffi.TypeSint64"},
	"unsigned long":      {kind: kindValue, name: "uint64", ffi: "&ffi.TypeUint64"},
	"long long":          {kind: kindValue, name: "int64", ffi: "&ffi.TypeSint64"},
	"unsigned long long": {kind: kindValue, name: "uint64", ffi: "&ffi.TypeUint64"},
	"float":              {kind: kindValue, name: "float32", ffi: "&ffi.TypeFloat"},
	"double":             {kind: kindValue, name: "float64", ffi: "&ffi.TypeDouble"},
	"_Bool":              {kind: kindBool, name: "bool", ffi: "&ffi.TypeUint8"},
}

// systemTypedefs covers names a header pulls from <stdint.h>, <stddef.h>
// and <stdbool.h>. They win over the table so bindings keep the Go
// sized types even when the typedef chain was analyzed too.
var systemTypedefs = map[string]goType{
	"int8_t":    {kind: kindNarrow, name: "int8", ffi: "&ffi.TypeSint8"},
	"uint8_t":   {kind: kindNarrow, name: "uint8", ffi: "&ffi.TypeUint8"},
	"int16_t":   {kind: kindNarrow, name: "int16", ffi: "&ffi.TypeSint16"},
	"uint16_t":  {kind: kindNarrow, name: "uint16", ffi: "&ffi.TypeUint16"},
	"int32_t":   {kind: kindNarrow, name: "int32", ffi: "&ffi.TypeSint32"},
	"uint32_t":  {kind: kindNarrow, name: "uint32", ffi: "&ffi.TypeUint32"},
	"int64_t":   {kind: kindValue, name: "int64", ffi: "&ffi.TypeSint64"},
	"uint64_t":  {kind: kindValue, name: "uint64", ffi: "&ffi.TypeUint64"},
	"size_t":    {kind: kindValue, name: "uint64", ffi: "&ffi.TypeUint64"},
	"ssize_t":   {kind: kindValue, name: "int64", ffi: "&ffi.TypeSint64"},
	"intptr_t":  {kind: kindValue, name: "int64", ffi: "&ffi.TypeSint64"},
	"uintptr_t": {kind: kindPointer, name: "uintptr", ffi: "&ffi.TypePointer"},
	"bool":      {kind: kindBool, name: "bool", ffi: "&ffi.TypeUint8"},
}

// maxTypedefDepth bounds typedef chains followed while mapping.
const maxTypedefDepth = 32

// mapper translates tags from the object table into Go types.
type mapper struct {
	objects *objtable.Table

	// names maps compound tags to the Go type declared for them.
	names map[string]string

	// handles holds typedefs of pointers to incomplete structs. They
	// become uintptr-based handle types.
	handles map[string]bool

	// structs holds the struct tags with a Go definition.
	structs map[string]bool
}

func newMapper(objects *objtable.Table) *mapper {
	m := mapper{
		objects: objects,
		names:   make(map[string]string),
		handles: make(map[string]bool),
		structs: make(map[string]bool),
	}
	m.nameCompounds()
	m.findHandles()
	m.findStructs()
	return &m
}

// nameCompounds picks the Go name of every struct and enum. A named
// compound keeps its own name; an anonymous one takes the name of the
// first typedef that aliases it.
func (m *mapper) nameCompounds() {
	m.objects.Each(func(tag string, obj model.Object) {
		switch o := obj.(type) {
		case *model.Struct:
			if !analyzer.IsSynthesized(o.Name) {
				m.names[tag] = toGoName(o.Name)
			}
		case *model.Enum:
			if !analyzer.IsSynthesized(o.Name) {
				m.names[tag] = toGoName(o.Name)
			}
		}
	})

	m.objects.Each(func(tag string, obj model.Object) {
		td, ok := obj.(*model.Typedef)
		if !ok {
			return
		}
		target, err := tags.Parse(td.Target)
		if err != nil {
			return
		}
		target = target.Unqualified()
		if target.Op != tags.OpStruct && target.Op != tags.OpEnum {
			return
		}
		compound := target.String()
		if _, exists := m.names[compound]; exists {
			return
		}
		if _, ok := m.objects.Get(compound); ok {
			m.names[compound] = toGoName(tag)
		}
	})
}

func (m *mapper) findHandles() {
	m.objects.Each(func(tag string, obj model.Object) {
		td, ok := obj.(*model.Typedef)
		if !ok {
			return
		}
		target, err := tags.Parse(td.Target)
		if err != nil {
			return
		}
		target = target.Unqualified()
		if target.Op != tags.OpPointer {
			return
		}
		pointee := target.Elem().Unqualified()
		if pointee.Op != tags.OpStruct {
			return
		}
		if _, defined := m.objects.Get(pointee.String()); !defined {
			m.handles[tag] = true
		}
	})
}

// findStructs marks every struct whose members all map onto Go types.
// Structs embedding an unsupported struct by value drop out on a later
// round, so the loop runs until nothing changes.
func (m *mapper) findStructs() {
	var candidates []*model.Struct
	m.objects.Each(func(tag string, obj model.Object) {
		if s, ok := obj.(*model.Struct); ok {
			if _, named := m.names[tag]; named {
				candidates = append(candidates, s)
				m.structs[tag] = true
			}
		}
	})

	for changed := true; changed; {
		changed = false
		for _, s := range candidates {
			if !m.structs[s.Tag()] {
				continue
			}
			if _, err := m.fields(s); err != nil {
				delete(m.structs, s.Tag())
				changed = true
			}
		}
	}
}

type field struct {
	name string
	typ  goType
}

// fields maps the members of s. Bit-fields have no libffi layout, so a
// struct holding one has no Go definition.
func (m *mapper) fields(s *model.Struct) ([]field, error) {
	out := make([]field, 0, len(s.Members))
	for i, member := range s.Members {
		if member.Bits != nil {
			return nil, errors.Wrapf(errors.ErrUnsupported, "bit-field %q", member.Name)
		}
		typ, err := m.mapTag(member.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "member %q", member.Name)
		}
		if typ.kind == kindVoid {
			return nil, errors.Wrapf(errors.ErrUnsupported, "void member %q", member.Name)
		}
		name := toGoName(member.Name)
		if name == "" {
			name = "Anon" + strconv.Itoa(i)
		}
		if typ.kind == kindString {
			typ = goType{kind: kindPointer, name: "*byte", ffi: "&ffi.TypePointer"}
		}
		out = append(out, field{name: name, typ: typ})
	}
	return out, nil
}

func (m *mapper) mapTag(tag string) (goType, error) {
	e, err := tags.Parse(tag)
	if err != nil {
		return goType{}, err
	}
	return m.mapExpr(e, 0)
}

func (m *mapper) mapExpr(e *tags.Expr, depth int) (goType, error) {
	if depth > maxTypedefDepth {
		return goType{}, errors.Wrapf(errors.ErrUnsupported, "typedef chain too deep at %s", e)
	}
	e = e.Unqualified()

	switch e.Op {
	case "":
		return m.mapName(e.Name, depth)

	case tags.OpPointer:
		pointee := e.Elem().Unqualified()
		if pointee.IsLeaf() && pointee.Name == "signed char" {
			return goType{kind: kindString, name: "string", ffi: "&ffi.TypePointer"}, nil
		}
		if pointee.Op == tags.OpStruct && m.structs[pointee.String()] {
			return goType{kind: kindPointer, name: "*" + m.names[pointee.String()], ffi: "&ffi.TypePointer"}, nil
		}
		return goType{kind: kindPointer, name: "uintptr", ffi: "&ffi.TypePointer"}, nil

	case tags.OpStruct:
		tag := e.String()
		if !m.structs[tag] {
			return goType{}, errors.Wrapf(errors.ErrUnsupported, "struct %s by value", tag)
		}
		name := m.names[tag]
		return goType{kind: kindStruct, name: name, ffi: "&FFIType" + name}, nil

	case tags.OpEnum:
		if name, ok := m.names[e.String()]; ok {
			return goType{kind: kindNarrow, name: name, ffi: "&ffi.TypeSint32"}, nil
		}
		return goType{kind: kindNarrow, name: "int32", ffi: "&ffi.TypeSint32"}, nil

	case tags.OpArray:
		if e.Size == nil {
			return goType{}, errors.Wrapf(errors.ErrUnsupported, "array without size %s", e)
		}
		elem, err := m.mapExpr(e.Elem(), depth)
		if err != nil {
			return goType{}, err
		}
		if elem.kind == kindArray || elem.kind == kindVoid {
			return goType{}, errors.Wrapf(errors.ErrUnsupported, "array %s", e)
		}
		if elem.kind == kindString {
			elem = goType{kind: kindPointer, name: "*byte", ffi: "&ffi.TypePointer"}
		}
		return goType{
			kind:  kindArray,
			name:  "[" + strconv.Itoa(*e.Size) + "]" + elem.name,
			ffi:   elem.ffi,
			count: *e.Size,
		}, nil
	}

	return goType{}, errors.Wrapf(errors.ErrUnsupported, "%s by value", e)
}

func (m *mapper) mapName(name string, depth int) (goType, error) {
	if t, ok := primitives[name]; ok {
		return t, nil
	}
	if t, ok := systemTypedefs[name]; ok {
		return t, nil
	}
	if m.handles[name] {
		return goType{kind: kindPointer, name: toGoName(name), ffi: "&ffi.TypePointer"}, nil
	}

	obj, ok := m.objects.Get(name)
	if !ok {
		return goType{}, errors.Wrapf(errors.ErrUnsupported, "unknown type %q", name)
	}
	td, ok := obj.(*model.Typedef)
	if !ok {
		return goType{}, errors.Wrapf(errors.ErrUnsupported, "%s %q as a type", obj.Class(), name)
	}
	target, err := tags.Parse(td.Target)
	if err != nil {
		return goType{}, err
	}
	return m.mapExpr(target, depth+1)
}
