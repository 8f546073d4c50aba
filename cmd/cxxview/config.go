package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective quirk table",
	Long: `Print the effective quirk table as YAML.

The output contains the built-in defaults extended by the file given with
--config and may serve as a starting point for a custom table.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := quirks.WriteYAML(output); err != nil {
		return fmt.Errorf("failed to write quirks: %w", err)
	}
	return nil
}
