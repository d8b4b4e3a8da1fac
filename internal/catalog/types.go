package catalog

import "strings"

// StatusRecommended is the only status that makes a row part of the package.
const StatusRecommended = "recommended"

// IsRecommended reports whether a status cell selects its row.
func IsRecommended(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), StatusRecommended)
}

// KeyRole tags a field as plain, primary-key or foreign-key contributing.
type KeyRole string

const (
	KeyNone    KeyRole = ""
	KeyPrimary KeyRole = "primary"
	KeyForeign KeyRole = "foreign"
)

// ParseKeyRole reads a key_role cell. Unknown values are treated as none.
func ParseKeyRole(cell string) KeyRole {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "primary":
		return KeyPrimary
	case "foreign":
		return KeyForeign
	default:
		return KeyNone
	}
}

// TableDefinition is a row of the table catalog.
type TableDefinition struct {
	Name             string
	Title            string
	Description      string
	Comments         string
	Examples         string
	Namespace        string
	SourceIRI        string
	SourceVersionIRI string
	SourceComment    string
	Status           string
	New              string
	Ignore           string
}

// FieldDefinition is a row of the field catalog.
type FieldDefinition struct {
	Table            string
	Name             string
	KeyRole          KeyRole
	Title            string
	Description      string
	Comments         string
	Examples         string
	Type             string
	Format           string
	Unique           string
	Required         string
	Minimum          string
	Maximum          string
	Namespace        string
	SourceIRI        string
	SourceVersionIRI string
	SourceComment    string
	Status           string
	New              string
	Ignore           string
}

// PredicateDefinition is a row of the predicate catalog.
type PredicateDefinition struct {
	SubjectTable string
	SubjectField string
	Predicate    string
	RelatedTable string
	RelatedField string
	Status       string
}

// Catalog holds the three vocabulary catalogs in source order.
type Catalog struct {
	Tables     []TableDefinition
	Fields     []FieldDefinition
	Predicates []PredicateDefinition
}
