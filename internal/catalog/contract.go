package catalog

import (
	"fmt"
	"strings"
)

// Kind names one of the three catalogs.
type Kind string

const (
	KindTables     Kind = "table"
	KindFields     Kind = "field"
	KindPredicates Kind = "predicate"
)

// Column sets are part of the input contract: names and order must match exactly.
var (
	TableColumns = []string{
		"name", "title", "description", "comments", "examples", "namespace",
		"source_iri", "source_version_iri", "source_comment", "status", "new", "ignore",
	}
	FieldColumns = []string{
		"table", "name", "key_role", "title", "description", "comments", "examples",
		"type", "format", "unique", "required", "minimum", "maximum", "namespace",
		"source_iri", "source_version_iri", "source_comment", "status", "new", "ignore",
	}
	PredicateColumns = []string{
		"subject_table", "subject_field", "predicate", "related_table", "related_field", "status",
	}
)

// Columns returns the contract for a catalog kind.
func Columns(k Kind) []string {
	switch k {
	case KindTables:
		return TableColumns
	case KindFields:
		return FieldColumns
	case KindPredicates:
		return PredicateColumns
	default:
		return nil
	}
}

// ContractError reports a catalog that does not honor its column contract.
// It is fatal for the whole compile run.
type ContractError struct {
	Catalog Kind
	Want    []string
	Got     []string
	Row     int // 1-based data row, 0 for header problems
	Reason  string
}

func (e *ContractError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s catalog row %d: %s", e.Catalog, e.Row, e.Reason)
	}
	return fmt.Sprintf("%s catalog header %s: want [%s], got [%s]",
		e.Catalog, e.Reason, strings.Join(e.Want, ", "), strings.Join(e.Got, ", "))
}

// CheckHeader verifies that header matches the contract for k.
func CheckHeader(k Kind, header []string) error {
	want := Columns(k)
	got := make([]string, len(header))
	for i, h := range header {
		got[i] = strings.TrimSpace(h)
	}
	if len(got) != len(want) {
		return &ContractError{Catalog: k, Want: want, Got: got, Reason: fmt.Sprintf("has %d columns instead of %d", len(got), len(want))}
	}
	for i := range want {
		if got[i] != want[i] {
			return &ContractError{Catalog: k, Want: want, Got: got, Reason: fmt.Sprintf("column %d is %q instead of %q", i+1, got[i], want[i])}
		}
	}
	return nil
}

// normalizeRow trims cells and pads short rows to width.
func normalizeRow(k Kind, rowNum int, row []string, width int) ([]string, error) {
	if len(row) > width {
		return nil, &ContractError{Catalog: k, Row: rowNum, Reason: fmt.Sprintf("has %d cells, header has %d", len(row), width)}
	}
	out := make([]string, width)
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out, nil
}

// Build decodes header+rows records of all three catalogs into a Catalog.
func Build(tables, fields, predicates [][]string) (*Catalog, error) {
	cat := &Catalog{}
	var err error
	if cat.Tables, err = decodeTables(tables); err != nil {
		return nil, err
	}
	if cat.Fields, err = decodeFields(fields); err != nil {
		return nil, err
	}
	if cat.Predicates, err = decodePredicates(predicates); err != nil {
		return nil, err
	}
	return cat, nil
}

func decodeRecords(k Kind, records [][]string) ([][]string, error) {
	if len(records) == 0 {
		return nil, &ContractError{Catalog: k, Want: Columns(k), Reason: "is missing"}
	}
	if err := CheckHeader(k, records[0]); err != nil {
		return nil, err
	}
	width := len(Columns(k))
	rows := make([][]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row, err := normalizeRow(k, i+1, rec, width)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func decodeTables(records [][]string) ([]TableDefinition, error) {
	rows, err := decodeRecords(KindTables, records)
	if err != nil {
		return nil, err
	}
	out := make([]TableDefinition, len(rows))
	for i, r := range rows {
		out[i] = TableDefinition{
			Name: r[0], Title: r[1], Description: r[2], Comments: r[3], Examples: r[4],
			Namespace: r[5], SourceIRI: r[6], SourceVersionIRI: r[7], SourceComment: r[8],
			Status: r[9], New: r[10], Ignore: r[11],
		}
	}
	return out, nil
}

func decodeFields(records [][]string) ([]FieldDefinition, error) {
	rows, err := decodeRecords(KindFields, records)
	if err != nil {
		return nil, err
	}
	out := make([]FieldDefinition, len(rows))
	for i, r := range rows {
		out[i] = FieldDefinition{
			Table: r[0], Name: r[1], KeyRole: ParseKeyRole(r[2]), Title: r[3], Description: r[4],
			Comments: r[5], Examples: r[6], Type: r[7], Format: r[8],
			Unique: r[9], Required: r[10], Minimum: r[11], Maximum: r[12],
			Namespace: r[13], SourceIRI: r[14], SourceVersionIRI: r[15], SourceComment: r[16],
			Status: r[17], New: r[18], Ignore: r[19],
		}
	}
	return out, nil
}

func decodePredicates(records [][]string) ([]PredicateDefinition, error) {
	rows, err := decodeRecords(KindPredicates, records)
	if err != nil {
		return nil, err
	}
	out := make([]PredicateDefinition, len(rows))
	for i, r := range rows {
		out[i] = PredicateDefinition{
			SubjectTable: r[0], SubjectField: r[1], Predicate: r[2],
			RelatedTable: r[3], RelatedField: r[4], Status: r[5],
		}
	}
	return out, nil
}
