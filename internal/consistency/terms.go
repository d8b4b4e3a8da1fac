package consistency

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hurou927/vocabpack/internal/catalog"
)

// Term is a recommended canonical term definition.
type Term struct {
	LocalName  string
	Definition string
	Comments   string
	Examples   string
}

// Terms maps local names to their recommended definition.
type Terms map[string]Term

// ParseTermVersions reads a term_versions.csv table. Columns are looked up by
// name; only rows with status "recommended" are kept. When a local name has
// several recommended rows, the last one wins.
func ParseTermVersions(data []byte) (Terms, error) {
	records, err := catalog.ReadDelimited(bytes.NewReader(data), ',')
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("term table is empty")
	}

	col := make(map[string]int)
	for i, h := range records[0] {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"term_localName", "status"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("term table has no %s column", required)
		}
	}
	cell := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	terms := make(Terms)
	for _, rec := range records[1:] {
		name := cell(rec, "term_localName")
		if name == "" || !catalog.IsRecommended(cell(rec, "status")) {
			continue
		}
		terms[name] = Term{
			LocalName:  name,
			Definition: cell(rec, "definition"),
			Comments:   cell(rec, "comments"),
			Examples:   cell(rec, "examples"),
		}
	}
	return terms, nil
}
