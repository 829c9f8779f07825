// Package tags defines the canonical textual encoding of C type shapes.
//
// Every function here is pure. Pointer, array, qualifier and function-type
// tags embed the tags of their operands; compound tags embed only the
// compound's name, so self-referential structures never produce an
// infinite tag.
package tags

import (
	"strconv"
	"strings"
)

// Absent stands for "no value" (no array size, no return type). The
// leading '!' keeps it from colliding with any C identifier or tag.
const Absent = "!None"

// Operators used by the grammar.
const (
	OpPointer      = "POINTER"
	OpArray        = "ARRAY"
	OpConst        = "CONST"
	OpVolatile     = "VOLATILE"
	OpRestrict     = "RESTRICT"
	OpStruct       = "STRUCT"
	OpUnion        = "UNION"
	OpEnum         = "ENUM"
	OpFunctionType = "FUNCTIONTYPE"
)

// Format renders an optional tag. Tags are never empty, so the empty
// string is the in-memory representation of absence.
func Format(tag string) string {
	if tag == "" {
		return Absent
	}
	return tag
}

// FormatSize renders an optional array size.
func FormatSize(size *int) string {
	if size == nil {
		return Absent
	}
	return strconv.Itoa(*size)
}

func wrap(op string, args ...string) string {
	return op + "(" + strings.Join(args, ", ") + ")"
}

func Pointer(pointee string) string {
	return wrap(OpPointer, Format(pointee))
}

func Array(elem string, size *int) string {
	return wrap(OpArray, Format(elem), FormatSize(size))
}

func Const(t string) string {
	return wrap(OpConst, t)
}

func Volatile(t string) string {
	return wrap(OpVolatile, t)
}

func Restrict(t string) string {
	return wrap(OpRestrict, t)
}

func Struct(name string) string {
	return wrap(OpStruct, Format(name))
}

func Union(name string) string {
	return wrap(OpUnion, Format(name))
}

func Enum(name string) string {
	return wrap(OpEnum, Format(name))
}

// FunctionType renders the tag of a function type: the return tag followed
// by every parameter tag. A missing return type renders as Absent.
func FunctionType(ret string, params []string) string {
	args := make([]string, 0, len(params)+1)
	args = append(args, Format(ret))
	args = append(args, params...)
	return wrap(OpFunctionType, args...)
}
