package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	size := 4
	tests := []struct {
		node Type
		kind Kind
		str  string
	}{
		{&Fundamental{Name: "int"}, KindFundamental, "int"},
		{&Pointer{Base: &Fundamental{Name: "char"}}, KindPointer, "char *"},
		{&Array{Elem: &Fundamental{Name: "float"}, Size: &size}, KindArray, "float [4]"},
		{&Array{Elem: &Fundamental{Name: "float"}}, KindArray, "float []"},
		{&Qualified{Qual: Const, Base: &Fundamental{Name: "char"}}, KindQualified, "const char"},
		{&TypedefRef{Name: "size_t"}, KindTypedef, "size_t"},
		{&EnumRef{Enum: &Enum{Name: "color"}}, KindEnum, "enum color"},
		{&FunctionProto{Return: &Fundamental{Name: "int"}, Params: []Param{{Type: &Fundamental{Name: "char"}}}, Variadic: true}, KindFunction, "int (char, ...)"},
		{&FunctionProto{}, KindFunction, "<none> ()"},
		{&Unsupported{Description: "reference type"}, KindUnsupported, "unsupported reference type"},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.node.Kind())
			assert.Equal(t, tt.str, tt.node.String())
		})
	}
}

func TestRecordString(t *testing.T) {
	r := &Record{Class: &Class{Kind: Union, Coord: &Coord{File: "a.h", Line: 7}}}
	assert.Equal(t, "union <anonymous> at a.h:7", r.String())
	assert.Equal(t, KindRecord, r.Kind())

	c := &Class{Name: "node", Kind: Struct}
	assert.Equal(t, "struct node at <synthetic>", c.String())
}

func TestStorage(t *testing.T) {
	assert.Nil(t, (&Function{}).Storage())
	assert.Equal(t, []string{"extern"}, (&Function{Extern: true}).Storage())
	assert.Equal(t, []string{"static", "inline"}, (&Function{Static: true, Inline: true}).Storage())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "pointer", KindPointer.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
	assert.Equal(t, "restrict", Restrict.String())
	assert.Equal(t, "unknown", Unknown.String())
}
