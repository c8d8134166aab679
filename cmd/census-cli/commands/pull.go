package commands

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"censusops/lib/census"
	"censusops/lib/configuration"
	"censusops/lib/tidystore"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var pullCsv *bool
var pullDb *string

func init() {
	pullCsv = pullCmd.Flags().Bool("csv", false, "Write the tidy rows to stdout as CSV instead of a table.")
	pullDb = pullCmd.Flags().String("db", "", "Also push the tidy rows into the given sqlite database.")
	rootCmd.AddCommand(pullCmd)
}

var pullCmd = &cobra.Command{
	Use:   "pull <url>",
	Short: "Pulls the given data API url and prints the tidy rows.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "expected exactly one url argument")
			os.Exit(1)
		}

		ep, err := census.ParseUrl(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if ep.ApiKey == "" {
			ep = ep.WithApiKey(configuration.ResolveApiKey(*apiKey))
		}

		rows, err := census.NewClient().FetchTidy(cmd.Context(), ep)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if *pullDb != "" {
			store, err := tidystore.Open(*pullDb)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			err = store.Push(cmd.Context(), rows)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}

		if *pullCsv {
			err = writeCsv(rows)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
		renderTable(rows)
	},
}

func writeCsv(rows []census.TidyRow) error {
	w := csv.NewWriter(os.Stdout)
	err := w.Write([]string{
		"row_id", "dataset", "year", "concept",
		"geo_id", "ucgid", "geo_name",
		"variable_id", "variable_name", "value", "value_type",
		"full_url", "date_pulled",
	})
	if err != nil {
		return err
	}
	for _, row := range rows {
		err = w.Write([]string{
			strconv.Itoa(row.RowId),
			row.Dataset,
			strconv.Itoa(row.Year),
			row.Concept,
			row.GeoId,
			row.Ucgid,
			row.GeoName,
			row.VariableId,
			row.VariableName,
			strconv.FormatFloat(row.Value, 'f', -1, 64),
			row.ValueType,
			row.FullUrl,
			row.DatePulled.Format("2006-01-02"),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func renderTable(rows []census.TidyRow) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{
		"Row", "Concept", "Geography", "Variable", "Name", "Value", "Type",
	})
	for _, row := range rows {
		t.AppendRow(table.Row{
			row.RowId,
			row.Concept,
			row.GeoName,
			row.VariableId,
			row.VariableName,
			strconv.FormatFloat(row.Value, 'f', -1, 64),
			row.ValueType,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
