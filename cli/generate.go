package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/ardanlabs/babbisch/errors"
	"github.com/ardanlabs/babbisch/generator"
)

func newGenerateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <header>",
		Short: "Generate Go bindings over github.com/jupiterrider/ffi",
		Long: `Generate Go bindings for the functions of a C header. The bindings
load the shared library at run time through libffi, so no cgo is needed.

Examples:
  babbisch generate calc.h                      # package calc, libcalc.so
  babbisch generate -p calculator -d out calc.h`,
		Args: cobra.ExactArgs(1),
		RunE: a.runGenerate,
	}

	cmd.Flags().StringP("package", "p", "", "Go package name (default: derived from the header name)")
	cmd.Flags().String("lib", "", "library name, e.g. 'mylib' for libmylib.so (default: header name)")
	cmd.Flags().StringP("output-dir", "d", ".", "output directory for generated Go files")

	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	path := args[0]

	tbl, _, err := a.analyze(cmd.Context(), path)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	pkg := a.cfg.Generate.Package
	if pkg == "" {
		pkg = packageName(base)
	}
	lib := a.cfg.Generate.Lib
	if lib == "" {
		lib = base
	}

	files, err := generator.New(pkg, lib, tbl).Generate()
	if err != nil {
		return err
	}

	dir := a.cfg.Generate.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		target := filepath.Join(dir, name)
		if err := os.WriteFile(target, []byte(files[name]), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", name)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated: %s\n", target)
	}

	return nil
}

// packageName derives a Go package name from a file name: lower case,
// letters and digits only.
func packageName(base string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "bindings" + name
	}
	return name
}
