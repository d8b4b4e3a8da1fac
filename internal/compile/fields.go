package compile

import (
	"github.com/hurou927/vocabpack/internal/catalog"
	"github.com/hurou927/vocabpack/internal/schema"
)

// CompileFields projects the recommended field rows of table into compiled
// fields, in catalog order. It also returns the primary-key and foreign-key
// field names in the same order. An unknown table yields no fields.
func CompileFields(defs []catalog.FieldDefinition, table string) (fields []schema.Field, pkNames, fkNames []string) {
	for _, d := range defs {
		if d.Table != table || !catalog.IsRecommended(d.Status) {
			continue
		}
		fields = append(fields, compileField(d))
		switch d.KeyRole {
		case catalog.KeyPrimary:
			pkNames = append(pkNames, d.Name)
		case catalog.KeyForeign:
			fkNames = append(fkNames, d.Name)
		}
	}
	return fields, pkNames, fkNames
}

func compileField(d catalog.FieldDefinition) schema.Field {
	f := schema.Field{
		Name:        d.Name,
		Title:       d.Title,
		Description: d.Description,
		Comments:    d.Comments,
		Examples:    d.Examples,
		Namespace:   d.Namespace,
		IRI:         iriOrPlaceholder(d.SourceIRI, d.Namespace, d.Name),
		VersionIRI:  d.SourceVersionIRI,
		Type:        d.Type,
		Format:      d.Format,
	}
	c := &schema.Constraints{
		Required: schema.Coerce(d.Required),
		Unique:   schema.Coerce(d.Unique),
		Minimum:  schema.Coerce(d.Minimum),
		Maximum:  schema.Coerce(d.Maximum),
	}
	if !c.Empty() {
		f.Constraints = c
	}
	return f
}

func iriOrPlaceholder(iri, namespace, name string) string {
	if iri != "" {
		return iri
	}
	return schema.PlaceholderIRI(namespace, name)
}
