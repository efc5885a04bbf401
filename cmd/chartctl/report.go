package main

import (
	"github.com/spf13/cobra"

	"github.com/prof-ramos/astromap/internal/domain"
)

func reportCmd() *cobra.Command {
	var output string
	var raw bool

	cmd := &cobra.Command{
		Use:   "report <birth.json> <chart.json>",
		Short: "Print the text report for a birth record and its chart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rec domain.BirthRecord
			if err := readJSON(args[0], &rec); err != nil {
				return err
			}
			if rec.Timezone == "" {
				rec.Timezone = domain.DefaultTimezone
			}

			data, err := readChart(args[1], raw)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, domain.BuildReport(rec, data))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Chart file is a raw Astrologer API response")

	return cmd
}
