package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/hurou927/vocabpack/internal/config"
	"github.com/hurou927/vocabpack/internal/consistency"
	"github.com/hurou927/vocabpack/internal/loader"
)

var (
	checkCfgPath string
	offline      bool
)

var checkCmd = &cobra.Command{
	Use:   "check ROOT...",
	Short: "Report advisory consistency findings",
	Long: `Compares field texts with the canonical term_versions tables and checks
that fields sharing a primary key's name agree with it. Findings are
warnings; the exit status is non-zero only when a package cannot be read.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		afs := afero.NewOsFs()

		sources := config.DefaultCanonical()
		if checkCfgPath != "" {
			var err error
			if sources, err = config.LoadCanonical(checkCfgPath); err != nil {
				return err
			}
		}

		var fetcher consistency.Fetcher
		if !offline {
			fetcher = consistency.NewHTTPFetcher(log)
		}
		checker := consistency.New(fetcher, checkSources(sources), log)

		roots, err := loader.Discover(afs, args)
		if err != nil {
			return err
		}
		for _, root := range roots {
			p, err := loader.Load(afs, root)
			if err != nil {
				return fmt.Errorf("loading package %s: %w", root, err)
			}
			label := ""
			if len(roots) > 1 {
				label = root
			}
			if err := printDiagnostics(os.Stdout, label, checker.Check(ctx, p.Compiled())); err != nil {
				return err
			}
		}
		return nil
	},
}

func checkSources(in []config.Source) []consistency.Source {
	out := make([]consistency.Source, len(in))
	for i, s := range in {
		out[i] = consistency.Source{Name: s.Name, Namespace: s.Namespace, URL: s.URL}
	}
	return out
}

func init() {
	checkCmd.Flags().StringVar(&checkCfgPath, "config", "", "path to YAML config file; only its canonical section is read")
	checkCmd.Flags().BoolVar(&offline, "offline", false, "skip canonical comparison")
	rootCmd.AddCommand(checkCmd)
}
