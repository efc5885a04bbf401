package main

import (
	"github.com/spf13/cobra"

	"github.com/prof-ramos/astromap/internal/render"
)

func renderCmd() *cobra.Command {
	var output string
	var raw bool

	cmd := &cobra.Command{
		Use:   "render <chart.json>",
		Short: "Render chart data as an SVG natal chart",
		Long:  `Reads ParsedChartData JSON (or, with --raw, an Astrologer API response) and writes the SVG chart.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readChart(args[0], raw)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, render.SVG(data))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Input is a raw Astrologer API response")

	return cmd
}
