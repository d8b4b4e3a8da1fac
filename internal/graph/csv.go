package graph

import (
	"encoding/csv"
	"io"
	"sort"

	"github.com/hurou927/vocabpack/internal/schema"
)

// CSVColumns is the header of the foreign-key summary.
var CSVColumns = []string{"subject_table", "subject_field", "predicate", "related_table", "related_field"}

// WriteCSV writes one row per foreign-key field pair, tables in package order
// and rows ordered by the subject field's position in its table.
func WriteCSV(w io.Writer, g *Graph) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return err
	}

	for _, name := range g.Order {
		tbl := g.Tables[name]
		pos := make(map[string]int, len(tbl.Fields))
		for i, f := range tbl.Fields {
			pos[f.Name] = i
		}
		position := func(field string) int {
			if p, ok := pos[field]; ok {
				return p
			}
			return len(tbl.Fields)
		}

		var rows [][]string
		for _, fk := range tbl.ForeignKeys {
			related := schema.ResolveResource(name, fk.Reference.Resource)
			subject, target := fk.Fields.Names(), fk.Reference.Fields.Names()
			for i := 0; i < len(subject) && i < len(target); i++ {
				rows = append(rows, []string{name, subject[i], fk.Predicate, related, target[i]})
			}
		}
		sort.SliceStable(rows, func(i, j int) bool { return position(rows[i][1]) < position(rows[j][1]) })

		if err := cw.WriteAll(rows); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
