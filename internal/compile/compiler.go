package compile

import (
	"go.uber.org/zap"

	"github.com/hurou927/vocabpack/internal/catalog"
	"github.com/hurou927/vocabpack/internal/diag"
	"github.com/hurou927/vocabpack/internal/logging"
	"github.com/hurou927/vocabpack/internal/schema"
)

// Metadata is the package-level metadata written to the index.
type Metadata struct {
	IdentifierBase string
	URLBase        string
	Name           string
	Version        string
	Title          string
	Description    string
	Issued         string
	IsLatest       bool
}

// TableIdentifier returns the identifier of a table document.
func (m Metadata) TableIdentifier(name string) string {
	return m.IdentifierBase + "/table-schemas/" + name
}

// TableURL returns the URL of a table document.
func (m Metadata) TableURL(name string) string {
	return m.URLBase + "/table-schemas/" + name + ".json"
}

// IndexURL returns the URL of the package index.
func (m Metadata) IndexURL() string {
	return m.URLBase + "/index.json"
}

// Compiler turns a catalog into a compiled package.
type Compiler struct {
	meta Metadata
	log  *zap.Logger
}

// New creates a Compiler.
func New(meta Metadata, log *zap.Logger) *Compiler {
	return &Compiler{meta: meta, log: logging.OrNop(log)}
}

// Compile builds one document per recommended table, in table catalog order,
// plus the index. Output depends only on the catalog and the metadata.
func (c *Compiler) Compile(cat *catalog.Catalog) (*schema.Package, diag.List) {
	var diags diag.Builder
	resolver := NewResolver(cat.Predicates)

	pkg := &schema.Package{
		Index: schema.PackageIndex{
			Identifier:   c.meta.IdentifierBase,
			URL:          c.meta.IndexURL(),
			Name:         c.meta.Name,
			Version:      c.meta.Version,
			Title:        c.meta.Title,
			Description:  c.meta.Description,
			Issued:       c.meta.Issued,
			IsLatest:     c.meta.IsLatest,
			TableSchemas: []schema.TableSummary{},
		},
	}

	seen := make(map[string]bool)
	for _, def := range cat.Tables {
		if !catalog.IsRecommended(def.Status) {
			continue
		}
		if seen[def.Name] {
			diags.Warnf(diag.CodeDuplicateTable, def.Name, "table %q is defined more than once; keeping the first definition", def.Name)
			continue
		}
		seen[def.Name] = true

		tbl := c.compileTable(def, cat.Fields, resolver, &diags)
		pkg.Tables = append(pkg.Tables, tbl)
		pkg.Index.TableSchemas = append(pkg.Index.TableSchemas, tbl.Summary())

		c.log.Debug("compiled table",
			zap.String("table", tbl.Name),
			zap.Int("fields", len(tbl.Fields)),
			zap.Int("foreignKeys", len(tbl.ForeignKeys)))
	}

	return pkg, diags.List()
}

func (c *Compiler) compileTable(def catalog.TableDefinition, fieldDefs []catalog.FieldDefinition, resolver *Resolver, diags *diag.Builder) schema.TableSchema {
	fields, pkNames, fkNames := CompileFields(fieldDefs, def.Name)
	if fields == nil {
		fields = []schema.Field{}
	}

	tbl := schema.TableSchema{
		Identifier:    c.meta.TableIdentifier(def.Name),
		URL:           c.meta.TableURL(def.Name),
		Name:          def.Name,
		Title:         def.Title,
		Description:   def.Description,
		Comments:      def.Comments,
		Examples:      def.Examples,
		Namespace:     def.Namespace,
		IRI:           iriOrPlaceholder(def.SourceIRI, def.Namespace, def.Name),
		VersionIRI:    def.SourceVersionIRI,
		SourceComment: def.SourceComment,
		Fields:        fields,
	}

	if len(pkNames) > 0 {
		pk := schema.FieldRefOf(pkNames)
		tbl.PrimaryKey = &pk
	}

	for _, name := range fkNames {
		p, ok := resolver.Resolve(def.Name, name)
		if !ok {
			diags.Warnf(diag.CodeUnmappedRelationship, def.Name+"."+name,
				"foreign-key field has no predicate mapping; relationship omitted")
			continue
		}
		tbl.ForeignKeys = append(tbl.ForeignKeys, schema.ForeignKey{
			Fields:    schema.Single(name),
			Predicate: p.Predicate,
			Reference: schema.Reference{
				Resource: schema.ResourceFor(def.Name, p.RelatedTable),
				Fields:   schema.Single(p.RelatedField),
			},
		})
	}
	return tbl
}
