package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hurou927/vocabpack/internal/catalog"
	"github.com/hurou927/vocabpack/internal/compile"
	"github.com/hurou927/vocabpack/internal/config"
	"github.com/hurou927/vocabpack/internal/db"
	"github.com/hurou927/vocabpack/internal/output"
	"github.com/hurou927/vocabpack/internal/validate"
)

var outputDir string

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the vocabulary catalogs into a package",
	Long: `Reads the table, field and predicate catalogs (files or PostgreSQL relations),
compiles one table-schema document per table plus index.json, writes them to
the output directory and validates the result.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		outDir := outputDir
		if outDir == "" {
			outDir = cfg.Output
		}

		cat, err := readCatalog(ctx, cfg)
		if err != nil {
			return err
		}

		pkg, diags := compile.New(metadata(&cfg.Package), log).Compile(cat)

		afs := afero.NewOsFs()
		if err := output.NewWriter(afs, outDir).WritePackage(pkg); err != nil {
			return fmt.Errorf("writing package: %w", err)
		}
		log.Info("compiled package", zap.String("output", outDir), zap.Int("tables", len(pkg.Tables)))

		rep, err := validate.Root(afs, outDir)
		if err != nil {
			return fmt.Errorf("validating package: %w", err)
		}
		diags = append(diags, rep.Diagnostics...)
		return diags.Write(os.Stdout)
	},
}

func readCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	src := cfg.Catalogs
	if src.Source == config.SourceFile {
		return catalog.ReadFiles(afero.NewOsFs(), catalog.Paths{
			Tables:     src.Tables,
			Fields:     src.Fields,
			Predicates: src.Predicates,
		})
	}

	pool, err := db.NewPool(ctx, &cfg.Connection, log)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	return catalog.ReadPostgres(ctx, pool, catalog.Relations{
		Schema:      src.Schema,
		Tables:      src.Tables,
		Fields:      src.Fields,
		Predicates:  src.Predicates,
		OrderColumn: src.OrderColumn,
	})
}

func metadata(p *config.Package) compile.Metadata {
	return compile.Metadata{
		IdentifierBase: p.IdentifierBase,
		URLBase:        p.URLBase,
		Name:           p.Name,
		Version:        p.Version,
		Title:          p.Title,
		Description:    p.Description,
		Issued:         p.Issued,
		IsLatest:       p.IsLatest,
	}
}

func init() {
	compileCmd.Flags().StringVar(&cfgPath, "config", "", "path to YAML config file (required)")
	compileCmd.Flags().StringVar(&outputDir, "output", "", "output directory (overrides config)")
	rootCmd.AddCommand(compileCmd)
}
