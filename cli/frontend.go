package cli

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/ardanlabs/babbisch/config"
	"github.com/ardanlabs/babbisch/decl"
	"github.com/ardanlabs/babbisch/errors"
	"github.com/ardanlabs/babbisch/gccxml"
	"github.com/ardanlabs/babbisch/logger"
	"github.com/ardanlabs/babbisch/parser"
)

// load turns the input file into a declaration tree with the configured
// front end.
func (a *app) load(ctx context.Context, path string) (*decl.Namespace, error) {
	frontend := a.frontend(path)

	log := logger.Named("frontend")
	log.Debugw("loading input",
		logger.FieldFile, path,
		logger.FieldFrontend, frontend,
	)

	switch frontend {
	case config.FrontendGCCXML:
		return gccxml.Load(path)
	case config.FrontendCastXML:
		return a.castXML(ctx, path)
	}

	if !a.cfg.Preprocess {
		return parser.ParseFile(path)
	}
	return a.preprocess(ctx, path)
}

// frontend returns the configured front end, or the one the input path
// suggests when it is left on auto.
func (a *app) frontend(path string) string {
	if a.cfg.Frontend == config.FrontendAuto {
		return detectFrontend(path)
	}
	return a.cfg.Frontend
}

func detectFrontend(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return config.FrontendGCCXML
	}
	return config.FrontendC
}

// compilerArgs returns the include and cflags arguments shared by the
// preprocessor and castxml.
func (a *app) compilerArgs() ([]string, error) {
	var args []string
	for _, dir := range a.cfg.Includes {
		args = append(args, "-I"+dir)
	}

	extra, err := shellquote.Split(a.cfg.CFlags)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "cflags %q: %v", a.cfg.CFlags, err)
	}
	return append(args, extra...), nil
}

// preprocess runs the C preprocessor and parses its output. Line markers
// keep coordinates pointing at the original files.
func (a *app) preprocess(ctx context.Context, path string) (*decl.Namespace, error) {
	args, err := a.compilerArgs()
	if err != nil {
		return nil, err
	}

	cmd, err := command(ctx, a.cfg.CPP, append(args, path)...)
	if err != nil {
		return nil, err
	}

	out, err := run(cmd)
	if err != nil {
		return nil, err
	}
	return parser.Parse(path, string(out))
}

// castXML dumps the header in GCC-XML form and reads the dump.
func (a *app) castXML(ctx context.Context, path string) (*decl.Namespace, error) {
	args, err := a.compilerArgs()
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "babbisch-*.xml")
	if err != nil {
		return nil, errors.Wrap(err, "creating castxml output file")
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	args = append([]string{"--castxml-gccxml", "-o", tmp.Name()}, args...)
	cmd, err := command(ctx, a.cfg.CastXML, append(args, path)...)
	if err != nil {
		return nil, err
	}

	if _, err := run(cmd); err != nil {
		return nil, err
	}
	return gccxml.Load(tmp.Name())
}

// command builds an exec.Cmd from a shell-quoted program spec such as
// "gcc -E" followed by args.
func command(ctx context.Context, spec string, args ...string) (*exec.Cmd, error) {
	words, err := shellquote.Split(spec)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "command %q: %v", spec, err)
	}
	if len(words) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty command")
	}
	return exec.CommandContext(ctx, words[0], append(words[1:], args...)...), nil
}

func run(cmd *exec.Cmd) ([]byte, error) {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		err = errors.Wrapf(err, "running %s", strings.Join(cmd.Args, " "))
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = errors.WithDetail(err, msg)
		}
		return nil, err
	}
	return out, nil
}
