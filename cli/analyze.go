package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ardanlabs/babbisch/errors"
	"github.com/ardanlabs/babbisch/logger"
	"github.com/ardanlabs/babbisch/output"
)

func newAnalyzeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <header>",
		Short: "Write the object table of a header as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runAnalyze,
	}
}

// runAnalyze encodes the whole table before writing anything, so a
// failed run leaves no partial output.
func (a *app) runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(a.cfg.Format)
	if err != nil {
		return err
	}

	tbl, _, err := a.analyze(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	data, err := output.Marshal(tbl, format)
	if err != nil {
		return err
	}

	if a.cfg.Output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(a.cfg.Output, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", a.cfg.Output)
	}
	logger.Logger.Infow("table written",
		logger.FieldOutput, a.cfg.Output,
		logger.FieldFormat, string(format),
		logger.FieldObjects, tbl.Len(),
	)
	return nil
}
