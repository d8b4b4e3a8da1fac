package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/afero"

	"github.com/hurou927/vocabpack/internal/diag"
	"github.com/hurou927/vocabpack/internal/output"
	"github.com/hurou927/vocabpack/internal/schema"
)

// Package is a package root as found on disk. Documents that failed to
// parse are recorded as present with a nil value.
type Package struct {
	Root string
	// Index is nil when index.json is absent or malformed.
	Index *schema.PackageIndex
	// Tables maps document file stems to decoded documents.
	Tables map[string]*schema.TableSchema
	// Diagnostics holds well-formedness findings.
	Diagnostics diag.List
}

// HasDocument reports whether table-schemas/<name>.json exists, parsed or not.
func (p *Package) HasDocument(name string) bool {
	_, ok := p.Tables[name]
	return ok
}

// Table returns the decoded document for name, or nil.
func (p *Package) Table(name string) *schema.TableSchema {
	return p.Tables[name]
}

// DocumentNames returns the stems of all table documents, sorted.
func (p *Package) DocumentNames() []string {
	names := make([]string, 0, len(p.Tables))
	for n := range p.Tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Path returns the diagnostic path of a file relative to the root.
func (p *Package) Path(rel string) string {
	return filepath.Join(p.Root, rel)
}

// Compiled assembles the decoded documents into a schema.Package: tables in
// index order first, then documents the index does not list, sorted.
func (p *Package) Compiled() *schema.Package {
	pkg := &schema.Package{}
	if p.Index != nil {
		pkg.Index = *p.Index
	}
	used := make(map[string]bool)
	for _, e := range pkg.Index.TableSchemas {
		if used[e.Name] {
			continue
		}
		if t := p.Tables[e.Name]; t != nil {
			pkg.Tables = append(pkg.Tables, *t)
			used[e.Name] = true
		}
	}
	for _, n := range p.DocumentNames() {
		if t := p.Tables[n]; t != nil && !used[n] {
			pkg.Tables = append(pkg.Tables, *t)
		}
	}
	return pkg
}

// Load reads the package below root. Missing or malformed documents become
// diagnostics; only filesystem failures other than absence are returned as errors.
func Load(afs afero.Fs, root string) (*Package, error) {
	indexShape, tableShape, err := shapes()
	if err != nil {
		return nil, err
	}

	p := &Package{Root: root, Tables: make(map[string]*schema.TableSchema)}
	var diags diag.Builder

	indexPath := filepath.Join(root, output.IndexFile)
	data, err := afero.ReadFile(afs, indexPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		diags.Errorf(diag.CodeMissingDocument, indexPath, "package index is missing")
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", indexPath, err)
	default:
		var idx schema.PackageIndex
		if decodeDocument(data, indexPath, indexShape, &idx, &diags) {
			p.Index = &idx
		}
	}

	dir := filepath.Join(root, output.TablesDir)
	entries, err := afero.ReadDir(afs, dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		diags.Errorf(diag.CodeMissingDocument, dir, "table schema directory is missing")
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		path := filepath.Join(dir, e.Name())
		data, err := afero.ReadFile(afs, path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var tbl schema.TableSchema
		if decodeDocument(data, path, tableShape, &tbl, &diags) {
			p.Tables[stem] = &tbl
		} else {
			p.Tables[stem] = nil
		}
	}

	p.Diagnostics = diags.List()
	return p, nil
}

// decodeDocument parses data, reports shape violations and decodes into v.
// It returns false when the document cannot be used at all.
func decodeDocument(data []byte, path string, shape *jsonschema.Schema, v any, diags *diag.Builder) bool {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		diags.Errorf(diag.CodeMalformedDocument, path, "invalid JSON: %v", err)
		return false
	}

	violations, err := checkShape(shape, raw)
	if err != nil {
		diags.Errorf(diag.CodeMalformedDocument, path, "shape check failed: %v", err)
		return false
	}
	for _, viol := range violations {
		diags.Errorf(diag.CodeMalformedDocument, path, "%s: %s", viol.Pointer, viol.Message)
	}

	if err := json.Unmarshal(data, v); err != nil {
		if len(violations) == 0 {
			diags.Errorf(diag.CodeMalformedDocument, path, "cannot decode: %v", err)
		}
		return false
	}
	return true
}
