// Package model holds the entities produced by one analysis run and their
// structural-state projection used for serialization.
//
// Every entity has a coordinate (nil for synthetic entities) and a tag
// computed once at construction. Compound member lists are the only
// state that grows after construction.
//
// The analyzer never inserts Pointer or Array entities: pointers and
// arrays live inside tags. The two types exist so the state schema covers
// every tag form, and so consumers decoding a table can materialize them.
package model

import (
	"github.com/ardanlabs/babbisch/tags"
)

// Coord is the origin of a declaration.
type Coord struct {
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
}

// Object is implemented by every entity kind.
type Object interface {
	Tag() string
	Coord() *Coord
	Class() string
	State() any
}

// BaseState holds the fields shared by every serialized entity.
type BaseState struct {
	Coord *Coord `json:"coord" yaml:"coord"`
	Tag   string `json:"tag" yaml:"tag"`
	Class string `json:"class" yaml:"class"`
}

type object struct {
	coord *Coord
	tag   string
}

func (o *object) Tag() string   { return o.tag }
func (o *object) Coord() *Coord { return o.coord }

func (o *object) base(class string) BaseState {
	return BaseState{Coord: o.coord, Tag: o.tag, Class: class}
}

// =============================================================================
// PrimitiveType
// =============================================================================

type PrimitiveType struct {
	object
}

func newPrimitive(name string) *PrimitiveType {
	return &PrimitiveType{object{tag: name}}
}

func (p *PrimitiveType) Name() string  { return p.tag }
func (p *PrimitiveType) Class() string { return "PrimitiveType" }
func (p *PrimitiveType) State() any    { return p.base(p.Class()) }

// =============================================================================
// Typedef
// =============================================================================

type Typedef struct {
	object
	Target string
}

type TypedefState struct {
	BaseState `yaml:",inline"`
	Target    string `json:"target" yaml:"target"`
}

// NewTypedef aliases name to the target tag. The tag is the declared name.
func NewTypedef(coord *Coord, name, target string) *Typedef {
	return &Typedef{object: object{coord: coord, tag: name}, Target: target}
}

func (t *Typedef) Class() string { return "Typedef" }

func (t *Typedef) State() any {
	return TypedefState{BaseState: t.base(t.Class()), Target: t.Target}
}

// =============================================================================
// Pointer and Array
// =============================================================================

type Pointer struct {
	object
	Type string
}

type PointerState struct {
	BaseState `yaml:",inline"`
	Type      string `json:"type" yaml:"type"`
}

// NewPointer builds a pointer to pointee.
func NewPointer(coord *Coord, pointee string) *Pointer {
	return &Pointer{object: object{coord: coord, tag: tags.Pointer(pointee)}, Type: pointee}
}

func (p *Pointer) Class() string { return "Pointer" }

func (p *Pointer) State() any {
	return PointerState{BaseState: p.base(p.Class()), Type: p.Type}
}

type Array struct {
	object
	Type string
	Size *int
}

type ArrayState struct {
	BaseState `yaml:",inline"`
	Type      string `json:"type" yaml:"type"`
	Size      *int   `json:"size" yaml:"size"`
}

// NewArray builds an array of elem; a nil size marks an incomplete array.
func NewArray(coord *Coord, elem string, size *int) *Array {
	return &Array{object: object{coord: coord, tag: tags.Array(elem, size)}, Type: elem, Size: size}
}

func (a *Array) Class() string { return "Array" }

func (a *Array) State() any {
	return ArrayState{BaseState: a.base(a.Class()), Type: a.Type, Size: a.Size}
}
