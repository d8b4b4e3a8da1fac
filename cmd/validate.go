package cmd

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hurou927/vocabpack/internal/diag"
	"github.com/hurou927/vocabpack/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate ROOT...",
	Short: "Check referential integrity of compiled packages",
	Long: `Loads every package found below the given roots (a directory holding
index.json, or any directory containing such packages) and reports missing or
extra documents, duplicate index keys, unresolvable keys and index/document
drift. Exits non-zero when any error is reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := validate.Roots(afero.NewOsFs(), args)
		if err != nil {
			return err
		}

		failed := false
		for _, rep := range reports {
			root := ""
			if len(reports) > 1 {
				root = rep.Root
			}
			if err := printDiagnostics(os.Stdout, root, rep.Diagnostics); err != nil {
				return err
			}
			log.Debug("validated package", zap.String("root", rep.Root),
				zap.Int("errors", rep.Diagnostics.Count(diag.Error)),
				zap.Int("warnings", rep.Diagnostics.Count(diag.Warning)))
			failed = failed || rep.Failed()
		}

		if failed {
			return errFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
