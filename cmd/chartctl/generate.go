package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/prof-ramos/astromap/internal/adapter/astrologer"
	"github.com/prof-ramos/astromap/internal/config"
	"github.com/prof-ramos/astromap/internal/domain"
	"github.com/prof-ramos/astromap/internal/observability"
	"github.com/prof-ramos/astromap/internal/pipeline"
	"github.com/prof-ramos/astromap/internal/store"
)

func generateCmd() *cobra.Command {
	var in domain.BirthInput
	var lat, lng float64
	var output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a chart through the Astrologer API and write its SVG",
		Long:  `Runs the full generation pipeline once, using the same environment configuration as the server (RAPIDAPI_KEY, ASTROLOGER_*).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("lat") {
				in.Latitude = &lat
			}
			if cmd.Flags().Changed("lng") {
				in.Longitude = &lng
			}

			// stdout may carry the SVG, so logs go to stderr.
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			// Metrics are collected but never exported from the CLI.
			metrics := observability.NewMetricsForTesting()
			client := astrologer.NewClient(cfg.AstrologerAPIKey, cfg.AstrologerHost, cfg.AstrologerBaseURL,
				cfg.AstrologerTimeout, logger, metrics)
			p := pipeline.New(client, store.New(), nil, logger, metrics)

			chart, err := p.Generate(cmd.Context(), in)
			if err != nil {
				return err
			}

			if output != "" && output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "chart %s: sol %s, lua %s, ascendente %s\n",
					chart.ID, chart.SunSign, chart.MoonSign, chart.RisingSign)
			}
			return writeOutput(cmd, output, chart.SVG)
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&in.BirthDate, "date", "", "Birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.BirthTime, "time", "", "Birth time (HH:MM)")
	cmd.Flags().StringVar(&in.BirthCity, "city", "", "Birth city")
	cmd.Flags().StringVar(&in.Timezone, "timezone", "", "IANA timezone (default America/Sao_Paulo)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude, overridden for known cities")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude, overridden for known cities")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output SVG file (default stdout)")

	return cmd
}
