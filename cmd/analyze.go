package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/hurou927/vocabpack/internal/graph"
	"github.com/hurou927/vocabpack/internal/loader"
)

var analyzeFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze ROOT",
	Short: "Analyze the foreign-key graph of a package",
	Long:  `Loads a compiled package, builds its foreign-key graph, and outputs it in the specified format.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loader.Load(afero.NewOsFs(), args[0])
		if err != nil {
			return fmt.Errorf("loading package: %w", err)
		}
		if err := p.Diagnostics.Write(os.Stderr); err != nil {
			return err
		}

		g := graph.Build(p.Compiled())

		switch analyzeFormat {
		case "mermaid":
			return graph.WriteMermaid(os.Stdout, g)
		case "text":
			return graph.WriteText(os.Stdout, g)
		case "csv":
			return graph.WriteCSV(os.Stdout, g)
		default:
			return fmt.Errorf("unknown format: %s (supported: mermaid, text, csv)", analyzeFormat)
		}
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "output format: text, mermaid or csv")
	rootCmd.AddCommand(analyzeCmd)
}
