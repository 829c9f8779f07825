// Package generator turns an analyzed object table into Go bindings
// that call the library through github.com/jupiterrider/ffi.
package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/ardanlabs/babbisch/errors"
	"github.com/ardanlabs/babbisch/logger"
	"github.com/ardanlabs/babbisch/model"
	"github.com/ardanlabs/babbisch/objtable"
)

type Generator struct {
	packageName string
	libName     string
	objects     *objtable.Table
	types       *mapper
	log         *zap.SugaredLogger
}

func New(packageName, libName string, objects *objtable.Table) *Generator {
	return &Generator{
		packageName: packageName,
		libName:     libName,
		objects:     objects,
		types:       newMapper(objects),
		log:         logger.Named("generator"),
	}
}

// Generate returns the generated sources keyed by file name.
func (g *Generator) Generate() (map[string]string, error) {
	files := make(map[string]string)

	loaderCode, err := g.generateLoader()
	if err != nil {
		return nil, errors.Wrap(err, "generating loader")
	}
	files["loader.go"] = loaderCode

	typesCode, err := g.generateTypes()
	if err != nil {
		return nil, errors.Wrap(err, "generating types")
	}
	files["types.go"] = typesCode

	funcsCode, err := g.generateFunctions()
	if err != nil {
		return nil, errors.Wrap(err, "generating functions")
	}
	files["functions.go"] = funcsCode

	for name, code := range files {
		formatted, err := format.Source([]byte(code))
		if err != nil {
			return nil, errors.Wrapf(err, "formatting %s", name)
		}
		files[name] = string(formatted)
	}

	return files, nil
}

var loaderTemplate = template.Must(template.New("loader").Parse(`package {{.Package}}

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/jupiterrider/ffi"
)

var lib ffi.Lib

func Load(path string) error {
	var err error
	lib, err = ffi.Load(getLibraryPath(path))
	if err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}

	if err := loadFuncs(); err != nil {
		return err
	}

	return nil
}

func getLibraryPath(basePath string) string {
	var filename string
	switch runtime.GOOS {
	case "linux", "freebsd":
		filename = "lib{{.LibName}}.so"
	case "darwin":
		filename = "lib{{.LibName}}.dylib"
	case "windows":
		filename = "{{.LibName}}.dll"
	default:
		filename = "lib{{.LibName}}.so"
	}
	return filepath.Join(basePath, filename)
}
`))

func (g *Generator) generateLoader() (string, error) {
	var buf bytes.Buffer
	err := loaderTemplate.Execute(&buf, map[string]string{
		"Package": g.packageName,
		"LibName": g.libName,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (g *Generator) generateTypes() (string, error) {
	var body bytes.Buffer
	usesFFI := false

	g.objects.Each(func(tag string, obj model.Object) {
		if g.types.handles[tag] {
			fmt.Fprintf(&body, "type %s uintptr\n\n", toGoName(tag))
		}
	})

	for _, entry := range g.objects.Entries() {
		switch o := entry.Object.(type) {
		case *model.Struct:
			name, named := g.types.names[entry.Tag]
			if !named {
				continue
			}
			if !g.types.structs[entry.Tag] {
				_, err := g.types.fields(o)
				g.skip(&body, entry.Tag, err)
				continue
			}
			fields, err := g.types.fields(o)
			if err != nil {
				return "", err
			}
			g.writeStruct(&body, name, fields)
			usesFFI = true

		case *model.Union:
			g.skip(&body, entry.Tag, errors.Wrap(errors.ErrUnsupported, "unions have no libffi layout"))

		case *model.Enum:
			g.writeEnum(&body, g.types.names[entry.Tag], o)
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package %s\n\n", g.packageName)
	if usesFFI {
		fmt.Fprintf(&buf, "import \"github.com/jupiterrider/ffi\"\n\n")
	}
	buf.Write(body.Bytes())

	return buf.String(), nil
}

func (g *Generator) writeStruct(buf *bytes.Buffer, name string, fields []field) {
	fmt.Fprintf(buf, "type %s struct {\n", name)
	for _, f := range fields {
		fmt.Fprintf(buf, "\t%s %s\n", f.name, f.typ.name)
	}
	fmt.Fprintf(buf, "}\n\n")

	fmt.Fprintf(buf, "var FFIType%s = ffi.NewType(\n", name)
	for _, f := range fields {
		n := 1
		if f.typ.kind == kindArray {
			n = f.typ.count
		}
		for range n {
			fmt.Fprintf(buf, "\t%s,\n", f.typ.ffi)
		}
	}
	fmt.Fprintf(buf, ")\n\n")
}

// writeEnum emits a named int32 type with its constants. Enums nobody
// names get untyped constants.
func (g *Generator) writeEnum(buf *bytes.Buffer, name string, e *model.Enum) {
	if name != "" {
		fmt.Fprintf(buf, "type %s int32\n\n", name)
	}
	if len(e.Members) == 0 {
		return
	}

	fmt.Fprintf(buf, "const (\n")
	for _, m := range e.Members {
		if name != "" {
			fmt.Fprintf(buf, "\t%s %s = %d\n", toGoName(m.Name), name, m.Value)
		} else {
			fmt.Fprintf(buf, "\t%s = %d\n", toGoName(m.Name), m.Value)
		}
	}
	fmt.Fprintf(buf, ")\n\n")
}

func (g *Generator) skip(buf *bytes.Buffer, tag string, reason error) {
	g.log.Warnw("declaration not bound",
		logger.FieldTag, tag,
		logger.FieldError, reason,
	)
	fmt.Fprintf(buf, "// %s is not bound: %s\n\n", tag, reason)
}

// binding is one function the generated package can call.
type binding struct {
	cName  string
	ret    goType
	params []param
}

type param struct {
	name string
	typ  goType
}

func (g *Generator) bind(fn *model.Function) (binding, error) {
	if fn.Varargs {
		return binding{}, errors.Wrap(errors.ErrUnsupported, "variadic function")
	}
	if fn.RetType == "" {
		return binding{}, errors.Wrap(errors.ErrUnsupported, "no return type")
	}

	ret, err := g.types.mapTag(fn.RetType)
	if err != nil {
		return binding{}, errors.Wrap(err, "return type")
	}
	if ret.kind == kindArray {
		return binding{}, errors.Wrap(errors.ErrUnsupported, "array return type")
	}

	b := binding{cName: fn.Name, ret: ret}
	for i, arg := range fn.Arguments {
		typ, err := g.types.mapTag(arg.Type)
		if err != nil {
			return binding{}, errors.Wrapf(err, "parameter %d", i)
		}
		if typ.kind == kindVoid || typ.kind == kindArray {
			return binding{}, errors.Wrapf(errors.ErrUnsupported, "parameter %d of type %s", i, arg.Type)
		}
		b.params = append(b.params, param{name: paramName(arg.Name, i), typ: typ})
	}
	return b, nil
}

func (g *Generator) generateFunctions() (string, error) {
	var bindings []binding
	var skipped bytes.Buffer

	for _, entry := range g.objects.Entries() {
		fn, ok := entry.Object.(*model.Function)
		if !ok {
			continue
		}
		b, err := g.bind(fn)
		if err != nil {
			g.skip(&skipped, fn.Name, err)
			continue
		}
		bindings = append(bindings, b)
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "package %s\n\n", g.packageName)
	fmt.Fprintf(&buf, "import (\n")
	fmt.Fprintf(&buf, "\t\"fmt\"\n")
	fmt.Fprintf(&buf, "\t\"unsafe\"\n\n")
	fmt.Fprintf(&buf, "\t\"github.com/jupiterrider/ffi\"\n")
	fmt.Fprintf(&buf, "\t\"golang.org/x/sys/unix\"\n")
	fmt.Fprintf(&buf, ")\n\n")

	fmt.Fprintf(&buf, "var (\n")
	fmt.Fprintf(&buf, "\t_ = unix.BytePtrFromString\n")
	fmt.Fprintf(&buf, "\t_ unsafe.Pointer\n")
	fmt.Fprintf(&buf, ")\n\n")

	buf.Write(skipped.Bytes())

	if len(bindings) > 0 {
		fmt.Fprintf(&buf, "var (\n")
		for _, b := range bindings {
			fmt.Fprintf(&buf, "\t%sFunc ffi.Fun\n", toLowerCamel(b.cName))
		}
		fmt.Fprintf(&buf, ")\n\n")
	}

	fmt.Fprintf(&buf, "func loadFuncs() error {\n")
	if len(bindings) > 0 {
		fmt.Fprintf(&buf, "\tvar err error\n\n")
	}

	for _, b := range bindings {
		args := []string{b.ret.ffi}
		for _, p := range b.params {
			args = append(args, p.typ.ffi)
		}
		fmt.Fprintf(&buf, "\tif %sFunc, err = lib.Prep(%q, %s); err != nil {\n",
			toLowerCamel(b.cName), b.cName, strings.Join(args, ", "))
		fmt.Fprintf(&buf, "\t\treturn fmt.Errorf(\"%s: %%w\", err)\n", b.cName)
		fmt.Fprintf(&buf, "\t}\n\n")
	}

	fmt.Fprintf(&buf, "\treturn nil\n")
	fmt.Fprintf(&buf, "}\n\n")

	for _, b := range bindings {
		fmt.Fprintf(&buf, "%s\n", generateFunctionWrapper(b))
	}

	return buf.String(), nil
}

func generateFunctionWrapper(b binding) string {
	var buf bytes.Buffer

	goFuncName := toGoName(b.cName)
	funcVarName := toLowerCamel(b.cName) + "Func"

	var params []string
	for _, p := range b.params {
		params = append(params, p.name+" "+p.typ.name)
	}
	paramsStr := strings.Join(params, ", ")

	hasReturn := b.ret.kind != kindVoid
	if hasReturn {
		fmt.Fprintf(&buf, "func %s(%s) %s {\n", goFuncName, paramsStr, b.ret.name)
	} else {
		fmt.Fprintf(&buf, "func %s(%s) {\n", goFuncName, paramsStr)
	}

	for _, p := range b.params {
		if p.typ.kind == kindString {
			fmt.Fprintf(&buf, "\t%sPtr, _ := unix.BytePtrFromString(%s)\n", p.name, p.name)
		}
	}

	switch b.ret.kind {
	case kindVoid:
	case kindNarrow, kindBool:
		fmt.Fprintf(&buf, "\tvar result ffi.Arg\n")
	case kindString:
		fmt.Fprintf(&buf, "\tvar resultPtr *byte\n")
	default:
		fmt.Fprintf(&buf, "\tvar result %s\n", b.ret.name)
	}

	var callArgs []string
	switch b.ret.kind {
	case kindVoid:
		callArgs = append(callArgs, "nil")
	case kindString:
		callArgs = append(callArgs, "unsafe.Pointer(&resultPtr)")
	default:
		callArgs = append(callArgs, "unsafe.Pointer(&result)")
	}

	for _, p := range b.params {
		if p.typ.kind == kindString {
			callArgs = append(callArgs, fmt.Sprintf("unsafe.Pointer(&%sPtr)", p.name))
		} else {
			callArgs = append(callArgs, fmt.Sprintf("unsafe.Pointer(&%s)", p.name))
		}
	}

	fmt.Fprintf(&buf, "\t%s.Call(%s)\n", funcVarName, strings.Join(callArgs, ", "))

	switch b.ret.kind {
	case kindVoid:
	case kindBool:
		fmt.Fprintf(&buf, "\treturn result.Bool()\n")
	case kindNarrow:
		fmt.Fprintf(&buf, "\treturn %s(result)\n", b.ret.name)
	case kindString:
		fmt.Fprintf(&buf, "\tif resultPtr == nil {\n")
		fmt.Fprintf(&buf, "\t\treturn \"\"\n")
		fmt.Fprintf(&buf, "\t}\n")
		fmt.Fprintf(&buf, "\treturn unix.BytePtrToString(resultPtr)\n")
	default:
		fmt.Fprintf(&buf, "\treturn result\n")
	}

	fmt.Fprintf(&buf, "}\n")

	return buf.String()
}
