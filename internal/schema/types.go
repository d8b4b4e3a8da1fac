package schema

// Package is a compiled package: the index plus one schema document per table,
// in index order.
type Package struct {
	Index  PackageIndex
	Tables []TableSchema
}

// Table returns the table document with the given name, or nil.
func (p *Package) Table(name string) *TableSchema {
	for i := range p.Tables {
		if p.Tables[i].Name == name {
			return &p.Tables[i]
		}
	}
	return nil
}

// PackageIndex is the package-level document (index.json).
type PackageIndex struct {
	Identifier   string         `json:"identifier"`
	URL          string         `json:"url"`
	Name         string         `json:"name"`
	Version      string         `json:"version"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Issued       string         `json:"issued,omitempty"`
	IsLatest     bool           `json:"isLatest"`
	TableSchemas []TableSummary `json:"tableSchemas"`
}

// TableSummary is an index entry. Description, comments, examples and IRIs
// mirror the table document and must stay equal to it.
type TableSummary struct {
	Identifier  string `json:"identifier"`
	URL         string `json:"url"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Comments    string `json:"comments"`
	Examples    string `json:"examples"`
	Namespace   string `json:"namespace"`
	IRI         string `json:"iri"`
	VersionIRI  string `json:"versionIri,omitempty"`
}

// TableSchema is a per-table schema document (table-schemas/<name>.json).
type TableSchema struct {
	Identifier    string       `json:"identifier"`
	URL           string       `json:"url"`
	Name          string       `json:"name"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Comments      string       `json:"comments"`
	Examples      string       `json:"examples"`
	Namespace     string       `json:"namespace"`
	IRI           string       `json:"iri"`
	VersionIRI    string       `json:"versionIri,omitempty"`
	SourceComment string       `json:"sourceComment,omitempty"`
	Fields        []Field      `json:"fields"`
	PrimaryKey    *FieldRef    `json:"primaryKey,omitempty"`
	ForeignKeys   []ForeignKey `json:"foreignKeys,omitempty"`
}

// FieldNames returns all field names in declaration order.
func (t *TableSchema) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// HasField reports whether the table declares a field called name.
func (t *TableSchema) HasField(name string) bool {
	for _, f := range t.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// PKFieldNames returns the primary key field names, or nil if no PK.
func (t *TableSchema) PKFieldNames() []string {
	if t.PrimaryKey == nil {
		return nil
	}
	return t.PrimaryKey.Names()
}

// Summary builds the index entry mirroring this document.
func (t *TableSchema) Summary() TableSummary {
	return TableSummary{
		Identifier:  t.Identifier,
		URL:         t.URL,
		Name:        t.Name,
		Title:       t.Title,
		Description: t.Description,
		Comments:    t.Comments,
		Examples:    t.Examples,
		Namespace:   t.Namespace,
		IRI:         t.IRI,
		VersionIRI:  t.VersionIRI,
	}
}

// Field is a compiled field descriptor.
type Field struct {
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Comments    string       `json:"comments"`
	Examples    string       `json:"examples"`
	Namespace   string       `json:"namespace"`
	IRI         string       `json:"iri"`
	VersionIRI  string       `json:"versionIri,omitempty"`
	Type        string       `json:"type,omitempty"`
	Format      string       `json:"format,omitempty"`
	Constraints *Constraints `json:"constraints,omitempty"`
}

// Constraints holds the coerced constraint cells of a field. Only present
// values are encoded.
type Constraints struct {
	Required *Scalar `json:"required,omitempty"`
	Unique   *Scalar `json:"unique,omitempty"`
	Minimum  *Scalar `json:"minimum,omitempty"`
	Maximum  *Scalar `json:"maximum,omitempty"`
}

// Empty reports whether no constraint is set.
func (c *Constraints) Empty() bool {
	return c == nil || (c.Required == nil && c.Unique == nil && c.Minimum == nil && c.Maximum == nil)
}

// IsRequired reports whether the required constraint is boolean true.
func (c *Constraints) IsRequired() bool {
	if c == nil || c.Required == nil {
		return false
	}
	b, ok := c.Required.Bool()
	return ok && b
}

// ForeignKey is a relationship edge from Fields to Reference.Fields of
// Reference.Resource. An empty resource means the owning table.
type ForeignKey struct {
	Fields    FieldRef  `json:"fields"`
	Predicate string    `json:"predicate"`
	Reference Reference `json:"reference"`
}

// Reference is the target side of a foreign key.
type Reference struct {
	Resource string   `json:"resource"`
	Fields   FieldRef `json:"fields"`
}
