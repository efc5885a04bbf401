package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/prof-ramos/astromap/internal/domain"
)

// readChart loads chart data from path. With raw set the file is treated as
// an upstream API payload and adapted; otherwise it must be ParsedChartData JSON.
func readChart(path string, raw bool) (domain.ParsedChartData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.ParsedChartData{}, fmt.Errorf("read chart: %w", err)
	}
	if raw {
		return domain.ParseUpstreamResponse(b)
	}
	var data domain.ParsedChartData
	if err := json.Unmarshal(b, &data); err != nil {
		return domain.ParsedChartData{}, fmt.Errorf("decode chart %s: %w", path, err)
	}
	return data, nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// writeOutput writes data to path, or to the command's stdout when path is empty or "-".
func writeOutput(cmd *cobra.Command, path string, data string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(cmd.OutOrStdout(), data)
		return err
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
