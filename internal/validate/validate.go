package validate

import (
	"strconv"

	"github.com/spf13/afero"

	"github.com/hurou927/vocabpack/internal/diag"
	"github.com/hurou927/vocabpack/internal/loader"
	"github.com/hurou927/vocabpack/internal/output"
	"github.com/hurou927/vocabpack/internal/schema"
)

// Report is the outcome of validating one package root.
type Report struct {
	Root        string
	Diagnostics diag.List
}

// Failed reports whether any error diagnostic was produced.
func (r Report) Failed() bool {
	return r.Diagnostics.HasErrors()
}

// Root loads and validates a single package root.
func Root(afs afero.Fs, root string) (Report, error) {
	p, err := loader.Load(afs, root)
	if err != nil {
		return Report{}, err
	}
	return Report{Root: root, Diagnostics: Package(p)}, nil
}

// Roots discovers package roots below roots and validates each in turn.
func Roots(afs afero.Fs, roots []string) ([]Report, error) {
	found, err := loader.Discover(afs, roots)
	if err != nil {
		return nil, err
	}
	reports := make([]Report, 0, len(found))
	for _, r := range found {
		rep, err := Root(afs, r)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

type check func(v *validator)

// checks run in this order; every check sees the whole package.
var checks = []check{
	(*validator).completeness,
	(*validator).uniqueness,
	(*validator).primaryKeys,
	(*validator).foreignKeys,
	(*validator).parity,
}

type validator struct {
	pkg   *loader.Package
	order []string
	diags diag.Builder
}

// Package runs every check over a loaded package. Well-formedness findings
// from loading come first.
func Package(p *loader.Package) diag.List {
	v := &validator{pkg: p, order: tableOrder(p)}
	v.diags.Add(p.Diagnostics...)
	for _, c := range checks {
		c(v)
	}
	return v.diags.List()
}

// tableOrder lists document stems in index order, then unlisted ones sorted.
func tableOrder(p *loader.Package) []string {
	seen := make(map[string]bool)
	var order []string
	if p.Index != nil {
		for _, e := range p.Index.TableSchemas {
			if e.Name != "" && !seen[e.Name] && p.HasDocument(e.Name) {
				seen[e.Name] = true
				order = append(order, e.Name)
			}
		}
	}
	for _, n := range p.DocumentNames() {
		if !seen[n] {
			order = append(order, n)
		}
	}
	return order
}

func (v *validator) path(table string) string {
	return v.pkg.Path(output.TablePath(table))
}

func (v *validator) indexPath() string {
	return v.pkg.Path(output.IndexFile)
}

func (v *validator) entries() []schema.TableSummary {
	if v.pkg.Index == nil {
		return nil
	}
	return v.pkg.Index.TableSchemas
}

func (v *validator) completeness() {
	listed := make(map[string]bool)
	for _, e := range v.entries() {
		if e.Name == "" {
			continue
		}
		listed[e.Name] = true
		if !v.pkg.HasDocument(e.Name) {
			v.diags.Errorf(diag.CodeMissingDocument, v.path(e.Name), "table %q is listed in the index but has no document", e.Name)
		}
	}
	if v.pkg.Index == nil {
		return
	}
	for _, n := range v.pkg.DocumentNames() {
		if !listed[n] {
			v.diags.Warnf(diag.CodeExtraDocument, v.path(n), "document is not listed in the index")
		}
	}
}

func (v *validator) uniqueness() {
	keys := []struct {
		name string
		get  func(schema.TableSummary) string
	}{
		{"identifier", func(e schema.TableSummary) string { return e.Identifier }},
		{"name", func(e schema.TableSummary) string { return e.Name }},
		{"title", func(e schema.TableSummary) string { return e.Title }},
	}

	for i, e := range v.entries() {
		for _, missing := range missingKeys(e) {
			v.diags.Errorf(diag.CodeMissingKey, v.indexPath(), "tableSchemas[%d] has no %s", i, missing)
		}
	}

	for _, k := range keys {
		first := make(map[string]int)
		for i, e := range v.entries() {
			val := k.get(e)
			if val == "" {
				continue
			}
			if j, dup := first[val]; dup {
				v.diags.Errorf(diag.CodeDuplicateKey, v.indexPath(), "tableSchemas[%d] repeats %s %q of tableSchemas[%d]", i, k.name, val, j)
				continue
			}
			first[val] = i
		}
	}
}

func missingKeys(e schema.TableSummary) []string {
	var out []string
	if e.Identifier == "" {
		out = append(out, "identifier")
	}
	if e.Name == "" {
		out = append(out, "name")
	}
	if e.Title == "" {
		out = append(out, "title")
	}
	if e.URL == "" {
		out = append(out, "url")
	}
	return out
}

func (v *validator) primaryKeys() {
	for _, n := range v.order {
		tbl := v.pkg.Table(n)
		if tbl == nil {
			continue
		}
		for _, f := range tbl.PKFieldNames() {
			if !tbl.HasField(f) {
				v.diags.Errorf(diag.CodeMissingField, v.path(n), "primary key field %q is not a field of %s", f, tbl.Name)
			}
		}
	}
}

func (v *validator) foreignKeys() {
	for _, n := range v.order {
		tbl := v.pkg.Table(n)
		if tbl == nil {
			continue
		}
		for i, fk := range tbl.ForeignKeys {
			v.foreignKey(n, tbl, i, fk)
		}
	}
}

func (v *validator) foreignKey(stem string, tbl *schema.TableSchema, i int, fk schema.ForeignKey) {
	path := v.path(stem)
	for _, f := range fk.Fields.Names() {
		if !tbl.HasField(f) {
			v.diags.Errorf(diag.CodeMissingField, path, "foreignKeys[%d] source field %q is not a field of %s", i, f, tbl.Name)
			return
		}
	}
	if fk.Fields.Len() != fk.Reference.Fields.Len() {
		v.diags.Errorf(diag.CodeUnresolvableForeignKey, path, "foreignKeys[%d] maps %d fields to %d", i, fk.Fields.Len(), fk.Reference.Fields.Len())
	}

	// Documents are looked up by file stem, so a blank resource means the stem.
	target := schema.ResolveResource(stem, fk.Reference.Resource)
	if !v.pkg.HasDocument(target) {
		v.diags.Errorf(diag.CodeUnresolvableForeignKey, path, "foreignKeys[%d] references missing table %q", i, target)
		return
	}
	ref := v.pkg.Table(target)
	if ref == nil {
		// Target is malformed and already reported.
		return
	}
	for _, f := range fk.Reference.Fields.Names() {
		if !ref.HasField(f) {
			v.diags.Errorf(diag.CodeUnresolvableForeignKey, path, "foreignKeys[%d] target field %q is not a field of %s", i, f, target)
		}
	}
}

func (v *validator) parity() {
	for _, e := range v.entries() {
		tbl := v.pkg.Table(e.Name)
		if e.Name == "" || tbl == nil {
			continue
		}
		doc := tbl.Summary()
		pairs := []struct {
			key        string
			index, doc string
		}{
			{"description", e.Description, doc.Description},
			{"comments", e.Comments, doc.Comments},
			{"examples", e.Examples, doc.Examples},
			{"iri", e.IRI, doc.IRI},
			{"versionIri", e.VersionIRI, doc.VersionIRI},
		}
		for _, p := range pairs {
			if p.index != p.doc {
				v.diags.Errorf(diag.CodeIndexDocumentMismatch, v.path(e.Name),
					"%s differs from the index: index %s, document %s", p.key, quote(p.index), quote(p.doc))
			}
		}
	}
}

func quote(s string) string {
	const limit = 60
	if r := []rune(s); len(r) > limit {
		s = string(r[:limit]) + "..."
	}
	return strconv.Quote(s)
}
