package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardanlabs/babbisch/analyzer"
	"github.com/ardanlabs/babbisch/model"
	"github.com/ardanlabs/babbisch/objtable"
	"github.com/ardanlabs/babbisch/parser"
	"github.com/ardanlabs/babbisch/tags"
)

func generateCalc(t *testing.T) map[string]string {
	t.Helper()

	ns, err := parser.ParseFile("../testdata/calc.h")
	require.NoError(t, err)

	tbl, err := analyzer.New(ns).Analyze()
	require.NoError(t, err)

	files, err := New("calc", "calc", tbl).Generate()
	require.NoError(t, err)
	require.Len(t, files, 3)
	return files
}

func TestGenerateLoader(t *testing.T) {
	loader := generateCalc(t)["loader.go"]

	assert.Contains(t, loader, "package calc\n")
	assert.Contains(t, loader, `filename = "libcalc.so"`)
	assert.Contains(t, loader, `filename = "libcalc.dylib"`)
	assert.Contains(t, loader, `filename = "calc.dll"`)
	assert.Contains(t, loader, "if err := loadFuncs(); err != nil {")
}

func TestGenerateCalcTypes(t *testing.T) {
	types := generateCalc(t)["types.go"]

	assert.Contains(t, types, "import \"github.com/jupiterrider/ffi\"\n")
	assert.Contains(t, types, "type CalcT uintptr\n")

	assert.Contains(t, types, "type CalcConfig struct {\n")
	assert.Regexp(t, `Value\s+float64`, types)
	assert.Regexp(t, `Precision\s+int32`, types)
	assert.Regexp(t, `UseCache\s+uint8`, types)
	assert.Contains(t, types, "var FFITypeCalcConfig = ffi.NewType(\n\t&ffi.TypeDouble,\n\t&ffi.TypeSint32,\n\t&ffi.TypeUint8,\n)\n")

	assert.Contains(t, types, "// STRUCT(calc_stats) is not bound: ")
	assert.NotContains(t, types, "type CalcStats struct")

	assert.Contains(t, types, "type CalcStatus int32\n")
	assert.Regexp(t, `CalcOk\s+CalcStatus = 0`, types)
	assert.Regexp(t, `CalcErrDivZero\s+CalcStatus = 1`, types)
	assert.Regexp(t, `CalcErrOverflow\s+CalcStatus = 16`, types)
}

func TestGenerateCalcFunctions(t *testing.T) {
	funcs := generateCalc(t)["functions.go"]

	tests := []string{
		`lib.Prep("calc_default_config", &FFITypeCalcConfig)`,
		`lib.Prep("calc_create", &ffi.TypePointer, &FFITypeCalcConfig)`,
		`lib.Prep("calc_add", &ffi.TypeDouble, &ffi.TypePointer, &ffi.TypeDouble, &ffi.TypeDouble)`,
		`lib.Prep("calc_format", &ffi.TypeSint32, &ffi.TypePointer, &ffi.TypePointer, &ffi.TypeUint64)`,
		`return fmt.Errorf("calc_add: %w", err)`,

		"func CalcDefaultConfig() CalcConfig {",
		"calcDefaultConfigFunc.Call(unsafe.Pointer(&result))",
		"func CalcCreate(config CalcConfig) CalcT {",
		"calcCreateFunc.Call(unsafe.Pointer(&result), unsafe.Pointer(&config))",
		"func CalcFree(calc CalcT) {",
		"calcFreeFunc.Call(nil, unsafe.Pointer(&calc))",
		"func CalcAdd(calc CalcT, a float64, b float64) float64 {",
		"func CalcDiv(calc CalcT, a float64, b float64, out uintptr) CalcStatus {",
		"return CalcStatus(result)",
		"func CalcGetVersion() string {",
		"return unix.BytePtrToString(resultPtr)",
		"func CalcFormat(calc CalcT, buf string, bufSize uint64) int32 {",
		"bufPtr, _ := unix.BytePtrFromString(buf)",
		"calcFormatFunc.Call(unsafe.Pointer(&result), unsafe.Pointer(&calc), unsafe.Pointer(&bufPtr), unsafe.Pointer(&bufSize))",
		"func CalcSetLogger(calc CalcT, fn uintptr, user uintptr) {",
		"func CalcGetStats(calc CalcT, out uintptr) int32 {",
		"// calc_printf is not bound: variadic function",
	}
	for _, want := range tests {
		assert.Contains(t, funcs, want)
	}

	assert.NotContains(t, funcs, "func CalcPrintf")
}

func buildTable() *objtable.Table {
	two := 2
	tbl := objtable.New()

	vec := model.NewStruct(nil, "vec")
	vec.AddMember("xy", tags.Array("float", &two), nil)
	vec.AddMember("tag", tags.Pointer(tags.Const("signed char")), nil)
	tbl.Insert(vec.Tag(), vec)

	shape := model.NewStruct(nil, "shape")
	shape.AddMember("origin", tags.Struct("vec"), nil)
	shape.AddMember("next", tags.Pointer(tags.Struct("shape")), nil)
	shape.AddMember("", "signed int", nil)
	tbl.Insert(shape.Tag(), shape)

	u := model.NewUnion(nil, "u")
	u.AddMember("i", "signed int")
	tbl.Insert(u.Tag(), u)

	anon := model.NewEnum(nil, "!Unnamed1")
	anon.AddMember("A", 1)
	tbl.Insert(anon.Tag(), anon)

	ready := model.NewFunction(nil, "is_ready", "_Bool", []model.Param{{Name: "type", Type: "_Bool"}}, false, nil)
	tbl.Insert(ready.Tag(), ready)

	move := model.NewFunction(nil, "move", "void", []model.Param{
		{Name: "", Type: tags.Pointer(tags.Struct("shape"))},
		{Name: "range", Type: tags.Struct("vec")},
	}, false, nil)
	tbl.Insert(move.Tag(), move)

	broken := model.NewFunction(nil, "broken", "long double", nil, false, nil)
	tbl.Insert(broken.Tag(), broken)

	return tbl
}

func TestGenerateStructsAndEnums(t *testing.T) {
	files, err := New("geo", "geo", buildTable()).Generate()
	require.NoError(t, err)
	types := files["types.go"]

	assert.Regexp(t, `Xy\s+\[2\]float32`, types)
	assert.Regexp(t, `Tag\s+\*byte`, types)
	assert.Contains(t, types, "var FFITypeVec = ffi.NewType(\n\t&ffi.TypeFloat,\n\t&ffi.TypeFloat,\n\t&ffi.TypePointer,\n)\n")

	assert.Regexp(t, `Origin\s+Vec`, types)
	assert.Regexp(t, `Next\s+\*Shape`, types)
	assert.Regexp(t, `Anon2\s+int32`, types)
	assert.Contains(t, types, "var FFITypeShape = ffi.NewType(\n\t&FFITypeVec,\n\t&ffi.TypePointer,\n\t&ffi.TypeSint32,\n)\n")

	assert.Contains(t, types, "// UNION(u) is not bound: ")
	assert.Contains(t, types, "\tA = 1\n")
}

func TestGenerateFunctionEdgeCases(t *testing.T) {
	files, err := New("geo", "geo", buildTable()).Generate()
	require.NoError(t, err)
	funcs := files["functions.go"]

	assert.Contains(t, funcs, "func IsReady(type_ bool) bool {")
	assert.Contains(t, funcs, "return result.Bool()")
	assert.Contains(t, funcs, `lib.Prep("is_ready", &ffi.TypeUint8, &ffi.TypeUint8)`)

	assert.Contains(t, funcs, "func Move(arg0 *Shape, range_ Vec) {")
	assert.Contains(t, funcs, `lib.Prep("move", &ffi.TypeVoid, &ffi.TypePointer, &FFITypeVec)`)

	assert.Contains(t, funcs, "// broken is not bound: return type")
	assert.NotContains(t, funcs, "func Broken")
}

func TestStructEmbeddingUnsupportedStruct(t *testing.T) {
	tbl := objtable.New()

	inner := model.NewStruct(nil, "inner")
	bits := 3
	inner.AddMember("flags", "unsigned int", &bits)
	tbl.Insert(inner.Tag(), inner)

	outer := model.NewStruct(nil, "outer")
	outer.AddMember("in", tags.Struct("inner"), nil)
	tbl.Insert(outer.Tag(), outer)

	m := newMapper(tbl)
	assert.False(t, m.structs["STRUCT(inner)"])
	assert.False(t, m.structs["STRUCT(outer)"])

	files, err := New("p", "p", tbl).Generate()
	require.NoError(t, err)
	assert.NotContains(t, files["types.go"], "import")
	assert.Contains(t, files["types.go"], "// STRUCT(outer) is not bound: ")
}

func TestMapperNames(t *testing.T) {
	tbl := objtable.New()

	anon := model.NewStruct(nil, "!Unnamed1")
	anon.AddMember("x", "signed int", nil)
	tbl.Insert(anon.Tag(), anon)
	tbl.Insert("point_t", model.NewTypedef(nil, "point_t", anon.Tag()))
	tbl.Insert("point_alias", model.NewTypedef(nil, "point_alias", "point_t"))
	tbl.Insert("handle_t", model.NewTypedef(nil, "handle_t", tags.Pointer(tags.Struct("opaque"))))

	m := newMapper(tbl)
	assert.Equal(t, "PointT", m.names["STRUCT(!Unnamed1)"])
	assert.True(t, m.handles["handle_t"])
	assert.True(t, m.structs["STRUCT(!Unnamed1)"])

	typ, err := m.mapTag("point_alias")
	require.NoError(t, err)
	assert.Equal(t, "PointT", typ.name)
	assert.Equal(t, kindStruct, typ.kind)

	typ, err = m.mapTag(tags.Const("handle_t"))
	require.NoError(t, err)
	assert.Equal(t, "HandleT", typ.name)

	typ, err = m.mapTag(tags.Pointer("void"))
	require.NoError(t, err)
	assert.Equal(t, "uintptr", typ.name)

	_, err = m.mapTag("missing_t")
	assert.Error(t, err)

	_, err = m.mapTag(tags.Union("u"))
	assert.Error(t, err)
}

func TestToGoName(t *testing.T) {
	tests := map[string]string{
		"calc_get_version": "CalcGetVersion",
		"CALC_OK":          "CalcOk",
		"user_id":          "UserID",
		"calcConfig":       "CalcConfig",
		"_private":         "Private",
		"3d_point":         "X3dPoint",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, toGoName(in), in)
	}

	assert.Equal(t, "calcAdd", toLowerCamel("calc_add"))
	assert.Equal(t, "type_", paramName("type", 0))
	assert.Equal(t, "arg3", paramName("", 3))
	assert.Equal(t, "result_", paramName("result", 0))
}
