package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/prof-ramos/astromap/internal/domain"
)

func citiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List the cities resolved to coordinates without geocoding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CITY\tLAT\tLNG")
			for _, name := range domain.KnownCities() {
				c, _ := domain.LookupCity(name)
				fmt.Fprintf(tw, "%s\t%.4f\t%.4f\n", name, c.Lat, c.Lng)
			}
			return tw.Flush()
		},
	}
}
