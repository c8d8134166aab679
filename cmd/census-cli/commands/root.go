package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var apiKey *string

var rootCmd = &cobra.Command{
	Use:   "census-cli",
	Short: "census-cli pulls Census Bureau API tables and tidies them into long format.",
}

func init() {
	apiKey = rootCmd.PersistentFlags().String("key", "", "The Census API key to attach to requests.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
