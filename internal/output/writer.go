package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/hurou927/vocabpack/internal/schema"
)

// Layout of a package root.
const (
	IndexFile = "index.json"
	TablesDir = "table-schemas"
)

// TablePath returns the document path of a table relative to the package root.
func TablePath(name string) string {
	return filepath.Join(TablesDir, name+".json")
}

// Writer writes a compiled package below a root directory.
type Writer struct {
	fs  afero.Fs
	dir string
}

// NewWriter creates a package writer rooted at dir.
func NewWriter(fs afero.Fs, dir string) *Writer {
	return &Writer{fs: fs, dir: dir}
}

// WritePackage writes every table document, then the index. Table documents
// left by an earlier run that are not part of pkg are removed.
func (pw *Writer) WritePackage(pkg *schema.Package) error {
	if err := pw.fs.MkdirAll(filepath.Join(pw.dir, TablesDir), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", TablesDir, err)
	}
	if err := pw.removeStale(pkg); err != nil {
		return err
	}
	for i := range pkg.Tables {
		if err := pw.WriteTable(&pkg.Tables[i]); err != nil {
			return err
		}
	}
	return pw.WriteIndex(&pkg.Index)
}

func (pw *Writer) removeStale(pkg *schema.Package) error {
	keep := make(map[string]bool, len(pkg.Tables))
	for i := range pkg.Tables {
		keep[filepath.Join(pw.dir, TablePath(pkg.Tables[i].Name))] = true
	}
	existing, err := afero.Glob(pw.fs, filepath.Join(pw.dir, TablesDir, "*.json"))
	if err != nil {
		return fmt.Errorf("listing %s: %w", TablesDir, err)
	}
	for _, path := range existing {
		if keep[path] {
			continue
		}
		if err := pw.fs.Remove(path); err != nil {
			return fmt.Errorf("removing stale document: %w", err)
		}
	}
	return nil
}

// WriteTable writes a single table document.
func (pw *Writer) WriteTable(tbl *schema.TableSchema) error {
	if err := pw.write(TablePath(tbl.Name), tbl); err != nil {
		return fmt.Errorf("writing table %s: %w", tbl.Name, err)
	}
	return nil
}

// WriteIndex writes the package index.
func (pw *Writer) WriteIndex(idx *schema.PackageIndex) error {
	if err := pw.write(IndexFile, idx); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}

func (pw *Writer) write(rel string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return err
	}
	return afero.WriteFile(pw.fs, filepath.Join(pw.dir, rel), data, 0o644)
}

// Encode renders v the way package documents are stored: two-space indent,
// no HTML escaping, trailing newline. Key order follows struct order.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
