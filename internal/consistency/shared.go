package consistency

import (
	"github.com/hurou927/vocabpack/internal/diag"
	"github.com/hurou927/vocabpack/internal/schema"
)

type keyDefinition struct {
	table string
	field schema.Field
}

// checkSharedFields compares fields that share a name with another table's
// primary-key field against that definition. The first table declaring the
// key in package order is the reference.
func checkSharedFields(pkg *schema.Package, diags *diag.Builder) {
	keys := make(map[string]keyDefinition)
	for _, tbl := range pkg.Tables {
		for _, name := range tbl.PKFieldNames() {
			if _, ok := keys[name]; ok {
				continue
			}
			for _, f := range tbl.Fields {
				if f.Name == name {
					keys[name] = keyDefinition{table: tbl.Name, field: f}
					break
				}
			}
		}
	}

	for _, tbl := range pkg.Tables {
		pk := make(map[string]bool)
		for _, n := range tbl.PKFieldNames() {
			pk[n] = true
		}
		for _, f := range tbl.Fields {
			def, ok := keys[f.Name]
			if !ok || pk[f.Name] || def.table == tbl.Name {
				continue
			}
			compareText(diags, diag.CodeSharedFieldMismatch, tbl.Name+"."+f.Name, "the primary key in "+def.table, []textPair{
				{"description", def.field.Description, f.Description},
				{"comments", def.field.Comments, f.Comments},
				{"examples", def.field.Examples, f.Examples},
			})
		}
	}
}
