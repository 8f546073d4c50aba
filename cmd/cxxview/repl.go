package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const historyFile = ".cxxview_history"

var replFormat string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Prettify names interactively",
	Long: `Prettify names interactively.

Commands:
  :format <text|json|events>  change the output format
  :type                       parse names as types only
  :any                        parse names as types or functions
  :quit                       leave`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	replCmd.Flags().StringVarP(&replFormat, "format", "f", "text", "initial output format (text, json, events)")
}

func runRepl(cmd *cobra.Command, args []string) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	format := replFormat
	typeOnly := false
	for {
		line, err := ln.Prompt("cxx> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(output)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(line, ":") {
			fields := strings.Fields(line)
			switch fields[0] {
			case ":quit":
				return nil
			case ":format":
				if len(fields) != 2 {
					fmt.Fprintf(output, "current format: %s\n", format)
					continue
				}
				format = fields[1]
			case ":type":
				typeOnly = true
			case ":any":
				typeOnly = false
			default:
				fmt.Fprintln(output, "unknown command. Type :quit to exit.")
			}
			continue
		}

		if err := writeName(output, line, format, typeOnly); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
