package objtable

import (
	"testing"

	"github.com/ardanlabs/babbisch/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertOrder(t *testing.T) {
	tbl := New()
	tbl.Insert("STRUCT(a)", model.NewStruct(nil, "a"))
	tbl.Insert("a", model.NewTypedef(nil, "a", "STRUCT(a)"))
	tbl.Insert("ENUM(e)", model.NewEnum(nil, "e"))

	assert.Equal(t, []string{"STRUCT(a)", "a", "ENUM(e)"}, tbl.Tags())
	assert.Equal(t, 3, tbl.Len())
}

func TestOverwriteKeepsPosition(t *testing.T) {
	tbl := New()
	first := model.NewTypedef(nil, "handle", "POINTER(void)")
	tbl.Insert("handle", first)
	tbl.Insert("STRUCT(b)", model.NewStruct(nil, "b"))

	second := model.NewTypedef(nil, "handle", "POINTER(STRUCT(b))")
	prev, replaced := tbl.Insert("handle", second)

	require.True(t, replaced)
	assert.Same(t, first, prev)
	assert.Equal(t, []string{"handle", "STRUCT(b)"}, tbl.Tags())

	got, ok := tbl.Get("handle")
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestGetMissing(t *testing.T) {
	_, ok := New().Get("nope")
	assert.False(t, ok)
}

func TestEntriesAndCounts(t *testing.T) {
	tbl := New()
	tbl.Insert("STRUCT(a)", model.NewStruct(nil, "a"))
	tbl.Insert("STRUCT(b)", model.NewStruct(nil, "b"))
	tbl.Insert("f", model.NewFunction(nil, "f", "void", nil, false, nil))

	entries := tbl.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "f", entries[2].Tag)
	assert.Equal(t, "Function", entries[2].Object.Class())

	assert.Equal(t, map[string]int{"Struct": 2, "Function": 1}, tbl.CountByClass())
}

func TestFirstInsertReportsNoReplacement(t *testing.T) {
	prev, replaced := New().Insert("x", model.NewTypedef(nil, "x", "signed int"))
	assert.False(t, replaced)
	assert.Nil(t, prev)
}
