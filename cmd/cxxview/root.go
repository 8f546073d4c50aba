package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skdltmxn/cxxtype-go/cxxtype"
)

var (
	outputFile string
	output     io.Writer

	quirks     *cxxtype.Quirks
	prettifier *cxxtype.Prettifier
)

var traceKeys = []string{"cxxtype.parser", "cxxtype.elide", "cxxtype.quirks"}

var rootCmd = &cobra.Command{
	Use:   "cxxview",
	Short: "C++ type name viewer",
	Long: `cxxview turns the C++ type and function names produced by compilers
into the compact form a developer would write by hand.

It understands the output of typeid, __PRETTY_FUNCTION__, __FUNCSIG__ and
stacktrace libraries of gcc, clang and msvc.

Settings may also be given as CXXVIEW_* environment variables, which are
read from a .env file in the working directory as well.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSettings(); err != nil {
			return err
		}

		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = os.Stdout
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().StringP("config", "c", "", "quirk table extending the defaults (yaml, toml or json)")
	rootCmd.PersistentFlags().Bool("no-elide", false, "keep template arguments equal to their defaults")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "trace parsing and elision")

	viper.SetEnvPrefix("CXXVIEW")
	viper.AutomaticEnv()
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("no_elide", rootCmd.PersistentFlags().Lookup("no-elide"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(configCmd)
}

// loadSettings reads .env and builds the prettifier from flags and
// environment.
func loadSettings() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if viper.GetBool("verbose") {
		for _, key := range traceKeys {
			tracing.Select(key).SetTraceLevel(tracing.LevelDebug)
		}
	}

	q, err := cxxtype.LoadQuirks(viper.GetString("config"))
	if err != nil {
		return fmt.Errorf("failed to load quirks: %w", err)
	}
	quirks = q

	opts := []cxxtype.Option{cxxtype.WithQuirks(q)}
	if viper.GetBool("no_elide") {
		opts = append(opts, cxxtype.WithoutElision())
	}
	prettifier = cxxtype.New(opts...)
	return nil
}
