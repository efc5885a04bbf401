// Command chartctl renders, reports on, and generates natal charts from the
// command line, using the same packages as the astromap server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chartctl",
		Short:         "Natal chart tooling - render, report, validate and generate charts",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(renderCmd())
	root.AddCommand(reportCmd())
	root.AddCommand(citiesCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(generateCmd())

	return root
}
