// Package decl is the read-only declaration tree handed to the analyzer by
// a front end. The set of type nodes is closed: every node implements Type
// through an unexported method, so only this package can add kinds.
package decl

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord is the origin of a declaration.
type Coord struct {
	File string
	Line int
}

func (c *Coord) String() string {
	if c == nil {
		return "<synthetic>"
	}
	return c.File + ":" + strconv.Itoa(c.Line)
}

// Kind enumerates the supported type nodes.
type Kind int

const (
	KindFundamental Kind = iota + 1
	KindPointer
	KindArray
	KindQualified
	KindRecord
	KindTypedef
	KindEnum
	KindFunction
	KindUnsupported
)

var kindNames = map[Kind]string{
	KindFundamental: "fundamental",
	KindPointer:     "pointer",
	KindArray:       "array",
	KindQualified:   "qualified",
	KindRecord:      "record",
	KindTypedef:     "typedef",
	KindEnum:        "enum",
	KindFunction:    "function",
	KindUnsupported: "unsupported",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Type is a node of the declaration tree that denotes a type.
type Type interface {
	Kind() Kind
	String() string
	isType()
}

// Fundamental is a builtin type spelled as the front end saw it.
type Fundamental struct {
	Name string
}

// Pointer points to Base.
type Pointer struct {
	Base Type
}

// Array holds elements of Elem. Size is nil for incomplete arrays.
type Array struct {
	Elem Type
	Size *int
}

// Qualifier is a cv-qualifier or restrict.
type Qualifier int

const (
	Const Qualifier = iota + 1
	Volatile
	Restrict
)

func (q Qualifier) String() string {
	switch q {
	case Const:
		return "const"
	case Volatile:
		return "volatile"
	case Restrict:
		return "restrict"
	}
	return "qualifier(" + strconv.Itoa(int(q)) + ")"
}

// Qualified applies one qualifier to Base.
type Qualified struct {
	Qual Qualifier
	Base Type
}

// Record refers to a struct or union.
type Record struct {
	Class *Class
}

// TypedefRef refers to a typedef by name. Typedef is nil when the typedef
// was declared outside the tree (e.g. size_t from an unparsed header).
type TypedefRef struct {
	Name    string
	Typedef *Typedef
}

// EnumRef refers to an enumeration.
type EnumRef struct {
	Enum *Enum
}

// FunctionProto is a function type. Return is nil when the declaration
// has no return type at all.
type FunctionProto struct {
	Return   Type
	Params   []Param
	Variadic bool
}

// Unsupported stands for a construct the front end could not express with
// the other nodes. Resolving it is an error.
type Unsupported struct {
	Description string
}

func (*Fundamental) Kind() Kind   { return KindFundamental }
func (*Pointer) Kind() Kind       { return KindPointer }
func (*Array) Kind() Kind         { return KindArray }
func (*Qualified) Kind() Kind     { return KindQualified }
func (*Record) Kind() Kind        { return KindRecord }
func (*TypedefRef) Kind() Kind    { return KindTypedef }
func (*EnumRef) Kind() Kind       { return KindEnum }
func (*FunctionProto) Kind() Kind { return KindFunction }
func (*Unsupported) Kind() Kind   { return KindUnsupported }

func (*Fundamental) isType()   {}
func (*Pointer) isType()       {}
func (*Array) isType()         {}
func (*Qualified) isType()     {}
func (*Record) isType()        {}
func (*TypedefRef) isType()    {}
func (*EnumRef) isType()       {}
func (*FunctionProto) isType() {}
func (*Unsupported) isType()   {}

func str(t Type) string {
	if t == nil {
		return "<none>"
	}
	return t.String()
}

func (t *Fundamental) String() string { return t.Name }
func (t *Pointer) String() string     { return str(t.Base) + " *" }

func (t *Array) String() string {
	if t.Size == nil {
		return str(t.Elem) + " []"
	}
	return fmt.Sprintf("%s [%d]", str(t.Elem), *t.Size)
}

func (t *Qualified) String() string { return t.Qual.String() + " " + str(t.Base) }

func (t *Record) String() string {
	if t.Class == nil {
		return "<nil record>"
	}
	return t.Class.String()
}

func (t *TypedefRef) String() string { return t.Name }

func (t *EnumRef) String() string {
	if t.Enum == nil {
		return "<nil enum>"
	}
	return "enum " + t.Enum.Name
}

func (t *FunctionProto) String() string {
	params := make([]string, 0, len(t.Params)+1)
	for _, p := range t.Params {
		params = append(params, str(p.Type))
	}
	if t.Variadic {
		params = append(params, "...")
	}
	return str(t.Return) + " (" + strings.Join(params, ", ") + ")"
}

func (t *Unsupported) String() string { return "unsupported " + t.Description }
