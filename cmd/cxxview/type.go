package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/cxxtype-go/cxxtype"
)

var (
	typeFormat string
	typeStrict bool
)

var typeCmd = &cobra.Command{
	Use:   "type <name>...",
	Short: "Prettify type and function names",
	Long: `Prettify type and function names.

Formats:
  text    compact name, e.g. std::vector<int>
  json    tree of the parsed structure
  events  visitor events, one per line

Names which can not be parsed are printed as given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runType,
}

func init() {
	typeCmd.Flags().StringVarP(&typeFormat, "format", "f", "text", "output format (text, json, events)")
	typeCmd.Flags().BoolVarP(&typeStrict, "strict", "s", false, "parse names as types only")
}

func runType(cmd *cobra.Command, args []string) error {
	for _, name := range args {
		if err := writeName(output, name, typeFormat, typeStrict); err != nil {
			return err
		}
	}
	return nil
}

// writeName prettifies name and writes it to w in the given format.
func writeName(w io.Writer, name, format string, typeOnly bool) error {
	switch format {
	case "text":
		p := cxxtype.NewPrinter(quirks)
		if err := prettifier.Walk(name, typeOnly, p); err != nil {
			return fmt.Errorf("failed to prettify: %w", err)
		}
		fmt.Fprintln(w, p.String())

	case "json":
		b := cxxtype.NewTreeBuilder()
		if err := prettifier.Walk(name, typeOnly, b); err != nil {
			return fmt.Errorf("failed to parse: %w", err)
		}
		if err := b.WriteJSON(w); err != nil {
			return fmt.Errorf("failed to write tree: %w", err)
		}

	case "events":
		var rec cxxtype.Recorder
		if err := prettifier.Walk(name, typeOnly, &rec); err != nil {
			return fmt.Errorf("failed to parse: %w", err)
		}
		if _, err := rec.WriteTo(w); err != nil {
			return fmt.Errorf("failed to write events: %w", err)
		}

	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}
