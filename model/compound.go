package model

import (
	"github.com/ardanlabs/babbisch/tags"
)

// StructMember is one data member of a struct. Bits is nil unless the
// member is a bit-field.
type StructMember struct {
	Name string
	Type string
	Bits *int
}

// UnionMember is one data member of a union.
type UnionMember struct {
	Name string
	Type string
}

// EnumMember is one enumerator.
type EnumMember struct {
	Name  string
	Value int64
}

// CompoundState is the serialized form of Struct, Union and Enum. Members
// are positional tuples: [name, type, bits] for structs, [name, type] for
// unions and [name, value] for enums.
type CompoundState struct {
	BaseState `yaml:",inline"`
	Name      string  `json:"name" yaml:"name"`
	Members   [][]any `json:"members" yaml:"members"`
}

// Struct members keep declaration order; order is layout.
type Struct struct {
	object
	Name    string
	Members []StructMember
}

func NewStruct(coord *Coord, name string) *Struct {
	return &Struct{object: object{coord: coord, tag: tags.Struct(name)}, Name: name}
}

func (s *Struct) AddMember(name, typ string, bits *int) {
	s.Members = append(s.Members, StructMember{Name: name, Type: typ, Bits: bits})
}

func (s *Struct) Class() string { return "Struct" }

func (s *Struct) State() any {
	members := make([][]any, 0, len(s.Members))
	for _, m := range s.Members {
		var bits any
		if m.Bits != nil {
			bits = *m.Bits
		}
		members = append(members, []any{m.Name, m.Type, bits})
	}
	return CompoundState{BaseState: s.base(s.Class()), Name: s.Name, Members: members}
}

type Union struct {
	object
	Name    string
	Members []UnionMember
}

func NewUnion(coord *Coord, name string) *Union {
	return &Union{object: object{coord: coord, tag: tags.Union(name)}, Name: name}
}

func (u *Union) AddMember(name, typ string) {
	u.Members = append(u.Members, UnionMember{Name: name, Type: typ})
}

func (u *Union) Class() string { return "Union" }

func (u *Union) State() any {
	members := make([][]any, 0, len(u.Members))
	for _, m := range u.Members {
		members = append(members, []any{m.Name, m.Type})
	}
	return CompoundState{BaseState: u.base(u.Class()), Name: u.Name, Members: members}
}

type Enum struct {
	object
	Name    string
	Members []EnumMember
}

func NewEnum(coord *Coord, name string) *Enum {
	return &Enum{object: object{coord: coord, tag: tags.Enum(name)}, Name: name}
}

func (e *Enum) AddMember(name string, value int64) {
	e.Members = append(e.Members, EnumMember{Name: name, Value: value})
}

func (e *Enum) Class() string { return "Enum" }

func (e *Enum) State() any {
	members := make([][]any, 0, len(e.Members))
	for _, m := range e.Members {
		members = append(members, []any{m.Name, m.Value})
	}
	return CompoundState{BaseState: e.base(e.Class()), Name: e.Name, Members: members}
}
