package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hurou927/vocabpack/internal/config"
	"github.com/hurou927/vocabpack/internal/diag"
	"github.com/hurou927/vocabpack/internal/logging"
)

var (
	cfgPath string
	verbose bool
	log     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vocabpack",
	Short: "Compile vocabulary catalogs into a table-schema package",
	Long: `vocabpack compiles three vocabulary catalogs (tables, fields, predicates)
into a versioned package of JSON table-schema documents plus an index,
validates the referential integrity of built packages, and checks them for
consistency against canonical vocabularies.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logging.New(os.Stderr, verbose)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "show debug logs")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err once. A failed validation has already been reported
// through its diagnostics.
func reportError(w io.Writer, err error) {
	if errors.Is(err, errFailed) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

// loadConfig reads the required --config file.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	return config.Load(cfgPath)
}

// printDiagnostics writes diagnostics to w, prefixed with root when more than
// one package is reported.
func printDiagnostics(w io.Writer, root string, diags diag.List) error {
	if root != "" {
		if _, err := fmt.Fprintf(w, "== %s\n", root); err != nil {
			return err
		}
	}
	return diags.Write(w)
}

// errFailed signals a non-zero exit after diagnostics were already printed.
var errFailed = errors.New("validation failed")
