package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prof-ramos/astromap/internal/domain"
)

// errInvalid is returned after the field errors have been printed.
var errInvalid = errors.New("birth data is invalid")

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <birth.json>...",
		Short: "Check birth data files against the generate-chart input rules",
		Long: `Validates each file as a generate-chart request body and shows the coordinates
the server would use for it. Exits non-zero if any file is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0

			for _, path := range args {
				var in domain.BirthInput
				if err := readJSON(path, &in); err != nil {
					fmt.Fprintf(out, "FAIL %s\n  %v\n", path, err)
					failed++
					continue
				}

				var verr *domain.ValidationError
				if err := domain.ValidateBirthInput(in); errors.As(err, &verr) {
					fmt.Fprintf(out, "FAIL %s\n", path)
					for _, f := range verr.Fields {
						fmt.Fprintf(out, "  %s: %s\n", f.Field, f.Message)
					}
					failed++
					continue
				}

				enriched := domain.EnrichWithCity(in)
				req := domain.NewChartRequest(domain.BirthRecord{
					BirthDate: enriched.BirthDate,
					BirthTime: enriched.BirthTime,
					Timezone:  enriched.Timezone,
					Latitude:  enriched.Latitude,
					Longitude: enriched.Longitude,
				})
				fmt.Fprintf(out, "PASS %s (%.4f, %.4f %s)\n", path, req.Latitude, req.Longitude, req.Timezone)
			}

			fmt.Fprintf(out, "%d/%d files valid\n", len(args)-failed, len(args))
			if failed > 0 {
				return errInvalid
			}
			return nil
		},
	}
}
