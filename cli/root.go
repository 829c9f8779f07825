// Package cli implements the babbisch command line.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ardanlabs/babbisch/analyzer"
	"github.com/ardanlabs/babbisch/config"
	"github.com/ardanlabs/babbisch/errors"
	"github.com/ardanlabs/babbisch/logger"
	"github.com/ardanlabs/babbisch/objtable"
)

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"format":          "format",
	"output":          "output",
	"frontend":        "frontend",
	"include":         "includes",
	"cflags":          "cflags",
	"preprocess":      "preprocess",
	"cpp":             "cpp",
	"castxml":         "castxml",
	"unsigned-as-int": "compat.unsigned_as_int",
	"log-json":        "log.json",
	"log-level":       "log.level",
	"package":         "generate.package",
	"lib":             "generate.lib",
	"output-dir":      "generate.output_dir",
}

// app carries the state shared by the commands of one invocation.
type app struct {
	configFile string
	cfg        *config.Config
}

// NewRootCommand builds the command tree. Without a subcommand the root
// command analyzes its argument.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "babbisch [analyze] <header>",
		Short: "Describe the types and functions of a C header",
		Long: `babbisch reads a C header (or a GCC-XML / CastXML dump of one) and
writes every type and function it declares as an ordered list of
[tag, state] pairs. Tags are canonical type descriptions such as
POINTER(CONST(signed char)), so the output can drive binding generators.

Examples:
  babbisch calc.h                       # JSON on stdout
  babbisch analyze -f yaml -o calc.yaml calc.h
  babbisch --frontend castxml -I include calc.h
  babbisch generate -d bindings calc.h  # Go bindings over libffi
  babbisch stats calc.h                 # entity counts and diagnostics`,
		Args:              cobra.ExactArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runAnalyze,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: nearest "+config.ProjectFile+")")
	flags.StringP("format", "f", "json", "output format: json or yaml")
	flags.StringP("output", "o", "", "write to this file instead of stdout")
	flags.String("frontend", config.FrontendAuto, "input front end: auto, c, gccxml or castxml")
	flags.StringArrayP("include", "I", nil, "add an include directory (repeatable)")
	flags.String("cflags", "", "extra compiler flags, shell-quoted")
	flags.Bool("preprocess", false, "run the C preprocessor before the C front end")
	flags.String("cpp", "cpp", "preprocessor command")
	flags.String("castxml", "castxml", "castxml binary")
	flags.Bool("unsigned-as-int", false, `resolve bare "unsigned" to "signed int"`)
	flags.Bool("log-json", false, "log as JSON")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		newAnalyzeCommand(a),
		newGenerateCommand(a),
		newStatsCommand(a),
	)

	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context) int {
	defer logger.Sync()

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Logger.Errorw("babbisch failed", logger.FieldError, err)
		root.PrintErrln("Error:", err)
		if hints := errors.FlattenHints(err); hints != "" {
			root.PrintErrln("Hint:", hints)
		}
		return 1
	}
	return 0
}

// setup loads configuration with flags bound over it and initializes
// logging before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(a.configFile)
	if err != nil {
		return err
	}

	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "binding --%s", flag)
		}
	}

	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return err
	}

	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	a.cfg = cfg
	return nil
}

// analyze runs one front end and one analysis over path.
func (a *app) analyze(ctx context.Context, path string) (*objtable.Table, []analyzer.Diagnostic, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, errors.WithHint(errors.Wrap(errors.ErrInvalidInput, err.Error()), "check the input path")
	}

	ns, err := a.load(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	an := analyzer.New(ns, analyzer.WithLegacyUnsigned(a.cfg.Compat.UnsignedAsInt))
	tbl, err := an.Analyze()
	if err != nil {
		err = errors.Wrapf(err, "analyzing %s", path)
		switch {
		case errors.IsUnsupported(err) && a.frontend(path) == config.FrontendC:
			err = errors.WithHint(err, "the C parser does not model this construct; try --frontend castxml")
		case errors.IsUnnamedType(err):
			err = errors.WithHint(err, "the input references an anonymous type it never declares")
		}
		return nil, nil, err
	}
	return tbl, an.Diagnostics(), nil
}
