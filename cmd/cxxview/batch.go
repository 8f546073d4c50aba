package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"
)

var (
	batchMatch  string
	batchLimit  int
	batchStrict bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Prettify one name per line",
	Long: `Prettify one name per line, read from file or stdin.

With --match only names whose prettified form fuzzy matches the query are
printed, best matches first. Names which violate the expected format are
reported on stderr and skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchMatch, "match", "m", "", "only show names fuzzy matching the query")
	batchCmd.Flags().IntVarP(&batchLimit, "limit", "n", 0, "maximum number of names to show (0 = no limit)")
	batchCmd.Flags().BoolVarP(&batchStrict, "strict", "s", false, "parse names as types only")
}

func runBatch(cmd *cobra.Command, args []string) error {
	var r io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	names, err := prettifyLines(r)
	if err != nil {
		return err
	}

	if batchMatch != "" {
		ranks := fuzzy.RankFindFold(batchMatch, names)
		sort.Sort(ranks)
		names = names[:0]
		for _, rank := range ranks {
			names = append(names, rank.Target)
		}
	}

	if batchLimit > 0 && len(names) > batchLimit {
		names = names[:batchLimit]
	}
	for _, name := range names {
		fmt.Fprintln(output, name)
	}
	return nil
}

func prettifyLines(r io.Reader) ([]string, error) {
	var names []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}

		var sb strings.Builder
		if err := writeName(&sb, name, "text", batchStrict); err != nil {
			fmt.Fprintf(os.Stderr, "line %d: %v\n", line, err)
			continue
		}
		names = append(names, strings.TrimSuffix(sb.String(), "\n"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return names, nil
}
