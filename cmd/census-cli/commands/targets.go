package commands

import (
	"fmt"
	"os"

	"censusops/lib/census"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(targetsCmd)
}

var targetsCmd = &cobra.Command{
	Use:   "targets <file.csv>",
	Short: "Parses a CSV of target urls and reports what each one resolves to.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "expected exactly one csv file argument")
			os.Exit(1)
		}

		targets, err := census.ReadTargets(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Dataset", "Year", "Group", "Type", "Geography", "Error"})
		for _, target := range targets {
			if target.Err != nil {
				t.AppendRow(table.Row{"", "", "", "", "", target.Err.Error()})
				continue
			}
			ep := target.Endpoint
			t.AppendRow(table.Row{
				ep.Dataset,
				ep.Year,
				ep.Group(),
				string(ep.TableType()),
				ep.Geography(),
				"",
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
