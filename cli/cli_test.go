package cli

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ardanlabs/babbisch/config"
	"github.com/ardanlabs/babbisch/errors"
)

const calcHeader = "../testdata/calc.h"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}

func TestAnalyzeIsDefault(t *testing.T) {
	out, err := execute(t, calcHeader)
	require.NoError(t, err)

	var doc [][]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc, 19)
	assert.Equal(t, "STRUCT(!Unnamed1)", doc[0][0])
	assert.Equal(t, "calc_get_stats", doc[18][0])

	again, err := execute(t, "analyze", calcHeader)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestAnalyzeYAMLToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.yaml")

	out, err := execute(t, "analyze", "-f", "yaml", "-o", path, calcHeader)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc [][]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Len(t, doc, 19)

	state := doc[1][1].(map[string]any)
	assert.Equal(t, "Struct", state["class"])
	assert.Equal(t, "calc_stats", state["name"])
}

func TestGCCXMLFrontendByExtension(t *testing.T) {
	out, err := execute(t, "../testdata/calc.xml")
	require.NoError(t, err)
	assert.Contains(t, out, `"calc_printf"`)
	assert.NotContains(t, out, "__builtin_expect")
}

func TestFailedRunWritesNothing(t *testing.T) {
	header := filepath.Join(t.TempDir(), "bad.h")
	require.NoError(t, os.WriteFile(header, []byte("int f(typeof(1) x);\n"), 0o644))

	out, err := execute(t, header)
	require.Error(t, err)
	assert.True(t, errors.IsUnsupported(err))
	assert.Contains(t, errors.FlattenHints(err), "try --frontend castxml")
	assert.Empty(t, out)
}

func TestInvalidInvocations(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing file", args: []string{"nope.h"}},
		{name: "bad format", args: []string{"-f", "xml", calcHeader}},
		{name: "bad frontend", args: []string{"--frontend", "clang", calcHeader}},
		{name: "no input", args: []string{}},
		{name: "bad cflags", args: []string{"--preprocess", "--cflags", `"unterminated`, calcHeader}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			assert.Error(t, err)
			assert.Empty(t, out)
		})
	}
}

func TestLegacyUnsignedFlag(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "u.xml")
	doc := `<CastXML format="1.1.0">
  <Namespace id="_1" name="::"/>
  <Function id="_2" name="f" returns="_3" context="_1" file="f1" line="1"/>
  <FundamentalType id="_3" name="unsigned"/>
  <File id="f1" name="u.h"/>
</CastXML>`
	require.NoError(t, os.WriteFile(dump, []byte(doc), 0o644))

	out, err := execute(t, dump)
	require.NoError(t, err)
	assert.Contains(t, out, `"rettype": "unsigned int"`)

	out, err = execute(t, "--unsigned-as-int", dump)
	require.NoError(t, err)
	assert.Contains(t, out, `"rettype": "signed int"`)
}

func TestGenerateCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bindings")

	out, err := execute(t, "generate", "-d", dir, calcHeader)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated: "+filepath.Join(dir, "functions.go"))

	for _, name := range []string{"loader.go", "types.go", "functions.go"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Contains(t, string(data), "package calc\n")
	}

	loader, err := os.ReadFile(filepath.Join(dir, "loader.go"))
	require.NoError(t, err)
	assert.Contains(t, string(loader), `"libcalc.so"`)
}

func TestGenerateCommandNames(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "generate", "-d", dir, "-p", "calculator", "--lib", "calc2", calcHeader)
	require.NoError(t, err)

	loader, err := os.ReadFile(filepath.Join(dir, "loader.go"))
	require.NoError(t, err)
	assert.Contains(t, string(loader), "package calculator\n")
	assert.Contains(t, string(loader), `"libcalc2.so"`)
}

func TestStatsCommand(t *testing.T) {
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	out, err := execute(t, "stats", calcHeader)
	require.NoError(t, err)

	assert.Contains(t, out, "Class")
	assert.Contains(t, out, "Function")
	assert.Contains(t, out, "FunctionType")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "19")
	assert.Contains(t, out, "calc_s: incomplete struct referenced")
	assert.Contains(t, out, "incomplete-type")
}

func TestConfigFileFlag(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("format = \"yaml\"\n"), 0o644))

	out, err := execute(t, "--config", cfgPath, calcHeader)
	require.NoError(t, err)
	assert.Contains(t, out, "- - STRUCT(!Unnamed1)")

	out, err = execute(t, "--config", cfgPath, "-f", "json", calcHeader)
	require.NoError(t, err)
	assert.Contains(t, out, `"STRUCT(!Unnamed1)"`)
}

func TestDetectFrontend(t *testing.T) {
	assert.Equal(t, config.FrontendGCCXML, detectFrontend("dump.XML"))
	assert.Equal(t, config.FrontendC, detectFrontend("calc.h"))
	assert.Equal(t, config.FrontendC, detectFrontend("calc"))
}

func TestCompilerArgs(t *testing.T) {
	a := &app{cfg: &config.Config{
		Includes: []string{"include", "/opt/x"},
		CFlags:   `-DNAME="a b" -std=c11`,
	}}

	args, err := a.compilerArgs()
	require.NoError(t, err)
	assert.Equal(t, []string{"-Iinclude", "-I/opt/x", "-DNAME=a b", "-std=c11"}, args)
}

func TestCommandSpec(t *testing.T) {
	cmd, err := command(t.Context(), "gcc -E", "-P", "x.h")
	require.NoError(t, err)
	assert.Equal(t, []string{"gcc", "-E", "-P", "x.h"}, cmd.Args)

	_, err = command(t.Context(), "")
	assert.Error(t, err)
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "calc", packageName("calc"))
	assert.Equal(t, "mylib", packageName("My-Lib"))
	assert.Equal(t, "bindings3d", packageName("3d"))
	assert.Equal(t, "bindings", packageName("--"))
}

func TestPreprocessFrontend(t *testing.T) {
	if _, err := exec.LookPath("cpp"); err != nil {
		t.Skip("cpp not available")
	}

	dir := t.TempDir()
	header := filepath.Join(dir, "pp.h")
	src := "#define COUNT 4\nstruct buf { char data[COUNT]; };\n"
	require.NoError(t, os.WriteFile(header, []byte(src), 0o644))

	out, err := execute(t, "--preprocess", header)
	require.NoError(t, err)
	assert.Contains(t, out, `"ARRAY(signed char, 4)"`)
	assert.Contains(t, out, `"line": 2`)
}
