package model

import (
	"github.com/ardanlabs/babbisch/tags"
)

// Param is a named function parameter.
type Param struct {
	Name string
	Type string
}

// Function is a named function. Functions are identified by name, not by
// signature. An empty RetType means the declaration has no return type.
type Function struct {
	object
	Name      string
	RetType   string
	Arguments []Param
	Varargs   bool
	Storage   []string
}

type FunctionState struct {
	BaseState `yaml:",inline"`
	Name      string     `json:"name" yaml:"name"`
	RetType   string     `json:"rettype" yaml:"rettype"`
	Arguments [][]string `json:"arguments" yaml:"arguments"`
	Varargs   bool       `json:"varargs" yaml:"varargs"`
	Storage   []string   `json:"storage" yaml:"storage"`
}

func NewFunction(coord *Coord, name, rettype string, args []Param, varargs bool, storage []string) *Function {
	if storage == nil {
		storage = []string{}
	}
	return &Function{
		object:    object{coord: coord, tag: tags.Format(name)},
		Name:      name,
		RetType:   rettype,
		Arguments: args,
		Varargs:   varargs,
		Storage:   storage,
	}
}

func (f *Function) Class() string { return "Function" }

func (f *Function) State() any {
	args := make([][]string, 0, len(f.Arguments))
	for _, a := range f.Arguments {
		args = append(args, []string{a.Name, a.Type})
	}
	return FunctionState{
		BaseState: f.base(f.Class()),
		Name:      f.Name,
		RetType:   tags.Format(f.RetType),
		Arguments: args,
		Varargs:   f.Varargs,
		Storage:   f.Storage,
	}
}

// FunctionType is the type of a function, e.g. the pointee of a function
// pointer. It has no name; two structurally identical function types get
// byte-identical tags.
type FunctionType struct {
	object
	RetType  string
	ArgTypes []string
	Varargs  bool
}

type FunctionTypeState struct {
	BaseState `yaml:",inline"`
	RetType   string   `json:"rettype" yaml:"rettype"`
	ArgTypes  []string `json:"argtypes" yaml:"argtypes"`
	Varargs   bool     `json:"varargs" yaml:"varargs"`
}

func NewFunctionType(coord *Coord, rettype string, argtypes []string, varargs bool) *FunctionType {
	if argtypes == nil {
		argtypes = []string{}
	}
	return &FunctionType{
		object:   object{coord: coord, tag: tags.FunctionType(rettype, argtypes)},
		RetType:  rettype,
		ArgTypes: argtypes,
		Varargs:  varargs,
	}
}

func (f *FunctionType) Class() string { return "FunctionType" }

func (f *FunctionType) State() any {
	return FunctionTypeState{
		BaseState: f.base(f.Class()),
		RetType:   tags.Format(f.RetType),
		ArgTypes:  f.ArgTypes,
		Varargs:   f.Varargs,
	}
}
