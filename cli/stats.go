package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <header>",
		Short: "Show entity counts per class and analysis diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runStats,
	}
}

func (a *app) runStats(cmd *cobra.Command, args []string) error {
	tbl, diagnostics, err := a.analyze(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	counts := tbl.CountByClass()
	classes := make([]string, 0, len(counts))
	for class := range counts {
		classes = append(classes, class)
	}
	slices.Sort(classes)

	data := pterm.TableData{{"Class", "Count"}}
	for _, class := range classes {
		data = append(data, []string{class, strconv.Itoa(counts[class])})
	}
	data = append(data, []string{"Total", strconv.Itoa(tbl.Len())})

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, table)

	if len(diagnostics) == 0 {
		fmt.Fprint(out, pterm.Success.Sprintln("No diagnostics"))
		return nil
	}
	for _, d := range diagnostics {
		fmt.Fprint(out, pterm.Warning.Sprintf("%s %s: %s (%s)\n", d.Coord, d.Tag, d.Message, d.Kind))
	}
	return nil
}
