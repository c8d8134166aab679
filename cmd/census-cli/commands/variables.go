package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"censusops/lib/census"

	"github.com/antzucaro/matchr"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var variablesAll *bool
var variablesHtml *bool
var variablesSearch *string

func init() {
	variablesAll = variablesCmd.Flags().Bool("all", false, "List the dataset's full catalog instead of just the requested variables.")
	variablesHtml = variablesCmd.Flags().Bool("html", false, "Scrape the catalog from the variables.html page instead of the json endpoint.")
	variablesSearch = variablesCmd.Flags().String("search", "", "Rank the catalog by label similarity to the given query.")
	rootCmd.AddCommand(variablesCmd)
}

var variablesCmd = &cobra.Command{
	Use:   "variables <url>",
	Short: "Prints the variable metadata behind a data API url.",
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

		client := census.NewClient()

		var catalog []census.Variable
		switch {
		case *variablesHtml:
			catalog, err = client.FetchVariablesHtml(cmd.Context(), ep)
		case *variablesAll || *variablesSearch != "":
			catalog, err = client.FetchAllVariables(cmd.Context(), ep)
		default:
			catalog, err = client.FetchRequestedVariables(cmd.Context(), ep)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if *variablesSearch != "" {
			catalog = rankByLabel(catalog, *variablesSearch)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Name", "Label", "Concept", "Group"})
		for _, v := range catalog {
			t.AppendRow(table.Row{v.Name, v.Label, v.Concept, v.Group})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

func rankByLabel(catalog []census.Variable, query string) []census.Variable {
	query = strings.ToLower(query)

	ranked := make([]census.Variable, len(catalog))
	copy(ranked, catalog)

	similarity := make(map[string]float64, len(ranked))
	for _, v := range ranked {
		similarity[v.Name] = matchr.JaroWinkler(query, strings.ToLower(v.Label), false)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return similarity[ranked[i].Name] > similarity[ranked[j].Name]
	})

	if len(ranked) > 25 {
		ranked = ranked[:25]
	}
	return ranked
}
