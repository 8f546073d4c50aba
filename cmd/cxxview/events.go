package main

import (
	"github.com/spf13/cobra"
)

var eventsStrict bool

var eventsCmd = &cobra.Command{
	Use:   "events <name>",
	Short: "Show the visitor events of a name",
	Long: `Show the events a visitor receives while walking a name.

This is the same as 'type --format events'.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().BoolVarP(&eventsStrict, "strict", "s", false, "parse the name as a type only")
}

func runEvents(cmd *cobra.Command, args []string) error {
	return writeName(output, args[0], "events", eventsStrict)
}
