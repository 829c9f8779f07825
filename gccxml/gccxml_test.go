package gccxml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardanlabs/babbisch/analyzer"
	"github.com/ardanlabs/babbisch/decl"
	"github.com/ardanlabs/babbisch/errors"
	"github.com/ardanlabs/babbisch/model"
)

func TestLoadCalc(t *testing.T) {
	ns, err := Load("../testdata/calc.xml")
	require.NoError(t, err)

	require.Len(t, ns.Classes, 3)
	config, stats, handle := ns.Classes[0], ns.Classes[1], ns.Classes[2]

	// Typedef'd anonymous struct: GCC-XML gives it the typedef's name.
	assert.Equal(t, "", config.Name)
	assert.Equal(t, &decl.Coord{File: "calc.h", Line: 1}, config.Coord)
	require.Len(t, config.Fields, 2)
	assert.Equal(t, decl.Field{Name: "value", Type: &decl.Fundamental{Name: "double"}}, config.Fields[0])

	assert.Equal(t, "calc_stats", stats.Name)
	require.Len(t, stats.Fields, 4)
	assert.Equal(t, 8, *stats.Fields[1].Bits)
	sixteen := 16
	assert.Equal(t, &decl.Array{Elem: &decl.Fundamental{Name: "double"}, Size: &sixteen}, stats.Fields[2].Type)
	assert.Equal(t, &decl.Pointer{Base: &decl.Record{Class: stats}}, stats.Fields[3].Type)

	assert.Equal(t, "calc_s", handle.Name)
	assert.True(t, handle.Incomplete)

	require.Len(t, ns.Enums, 1)
	assert.Equal(t, []decl.EnumValue{{Name: "CALC_OK"}, {Name: "CALC_ERR", Value: 1}, {Name: "CALC_FATAL", Value: 16}}, ns.Enums[0].Values)

	names := make([]string, 0, len(ns.Typedefs))
	for _, td := range ns.Typedefs {
		names = append(names, td.Name)
	}
	assert.Equal(t, []string{"calc_config", "calc_t", "calc_status", "calc_log_fn"}, names)

	// The compiler builtin is dropped.
	require.Len(t, ns.Functions, 4)
	printf := ns.Functions[2]
	assert.Equal(t, "calc_printf", printf.Name)
	assert.True(t, printf.Variadic)
	assert.True(t, printf.Extern)
	assert.Equal(t, &decl.Pointer{Base: &decl.Qualified{Qual: decl.Const, Base: &decl.Fundamental{Name: "char"}}}, printf.Params[1].Type)

	create := ns.Functions[0]
	assert.Equal(t, &decl.TypedefRef{Name: "calc_t", Typedef: ns.Typedefs[1]}, create.Return)
}

func TestAnalyzeCalc(t *testing.T) {
	ns, err := Load("../testdata/calc.xml")
	require.NoError(t, err)

	tbl, err := analyzer.New(ns).Analyze()
	require.NoError(t, err)

	logFn := "FUNCTIONTYPE(void, signed int, POINTER(CONST(signed char)))"
	assert.Equal(t, []string{
		"STRUCT(!Unnamed1)",
		"STRUCT(calc_stats)",
		"calc_stats",
		"ENUM(!Unnamed2)",
		"calc_config",
		"calc_t",
		"calc_status",
		logFn,
		"calc_log_fn",
		"calc_create",
		"calc_add",
		"calc_printf",
		"calc_get_version",
	}, tbl.Tags())

	obj, _ := tbl.Get("calc_config")
	assert.Equal(t, "STRUCT(!Unnamed1)", obj.(*model.Typedef).Target)

	obj, _ = tbl.Get("STRUCT(calc_stats)")
	assert.Equal(t, "unsigned long long", obj.(*model.Struct).Members[0].Type)

	obj, _ = tbl.Get("calc_log_fn")
	assert.Equal(t, "POINTER("+logFn+")", obj.(*model.Typedef).Target)
}

func TestSynthesizedTypedef(t *testing.T) {
	doc := `<CastXML format="1.1.0">
  <Namespace id="_1" name="::"/>
  <Struct id="_2" name="Point" context="_1" file="f1" line="3" members="_3"/>
  <Field id="_3" name="x" type="_4" context="_2" file="f1" line="2"/>
  <FundamentalType id="_4" name="int"/>
  <File id="f1" name="point.h"/>
</CastXML>`

	ns, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	require.Len(t, ns.Classes, 1)
	assert.Equal(t, "", ns.Classes[0].Name)
	require.Len(t, ns.Typedefs, 1)
	assert.Equal(t, "Point", ns.Typedefs[0].Name)
	assert.Equal(t, &decl.Record{Class: ns.Classes[0]}, ns.Typedefs[0].Type)

	tbl, err := analyzer.New(ns).Analyze()
	require.NoError(t, err)
	assert.Equal(t, []string{"STRUCT(!Unnamed1)", "Point"}, tbl.Tags())
}

func TestUnsupportedTypes(t *testing.T) {
	doc := `<GCC_XML>
  <Namespace id="_1" name="::"/>
  <Function id="_2" name="inc" returns="_3" context="_1">
    <Argument name="x" type="_4"/>
  </Function>
  <FundamentalType id="_3" name="void"/>
  <ReferenceType id="_4" type="_5"/>
  <FundamentalType id="_5" name="int"/>
</GCC_XML>`

	ns, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, ns.Functions, 1)
	assert.Equal(t, &decl.Unsupported{Description: "ReferenceType"}, ns.Functions[0].Params[0].Type)
	assert.Nil(t, ns.Functions[0].Coord)

	_, err = analyzer.New(ns).Analyze()
	require.Error(t, err)
	assert.True(t, errors.IsUnsupported(err))
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string]string{
		"not xml":      "int main(void);",
		"wrong root":   `<html></html>`,
		"dangling ref": `<GCC_XML><Typedef id="_1" name="t" type="_9"/></GCC_XML>`,
		"bad enum":     `<GCC_XML><Enumeration id="_1" name="e"><EnumValue name="A" init="x"/></Enumeration></GCC_XML>`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidInput))
		})
	}
}

func TestArraySize(t *testing.T) {
	assert.Nil(t, arraySize(""))
	assert.Nil(t, arraySize("0xffffffffffffffff"))
	assert.Nil(t, arraySize("-1"))
	assert.Equal(t, 1, *arraySize("0"))
	assert.Equal(t, 16, *arraySize("15u"))
}

func TestIDOrder(t *testing.T) {
	assert.True(t, idLess("_2", "_10"))
	assert.False(t, idLess("_10", "_2"))
	assert.True(t, idLess("a", "b"))
}
