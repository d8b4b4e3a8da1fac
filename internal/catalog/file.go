package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Paths locates the three catalog files.
type Paths struct {
	Tables     string
	Fields     string
	Predicates string
}

// ReadFiles loads all three catalogs from fs. The delimiter is chosen by file
// extension: ".csv" is comma separated, anything else is tab separated.
func ReadFiles(fs afero.Fs, p Paths) (*Catalog, error) {
	tables, err := readFile(fs, p.Tables)
	if err != nil {
		return nil, fmt.Errorf("reading table catalog: %w", err)
	}
	fields, err := readFile(fs, p.Fields)
	if err != nil {
		return nil, fmt.Errorf("reading field catalog: %w", err)
	}
	predicates, err := readFile(fs, p.Predicates)
	if err != nil {
		return nil, fmt.Errorf("reading predicate catalog: %w", err)
	}
	return Build(tables, fields, predicates)
}

func readFile(fs afero.Fs, path string) ([][]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadDelimited(f, delimiterFor(path))
}

func delimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ','
	}
	return '\t'
}

// ReadDelimited parses delimited text into records. A UTF-8 byte order mark
// at the start of the input is dropped.
func ReadDelimited(r io.Reader, delimiter rune) ([][]string, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	if delimiter == '\t' {
		cr.LazyQuotes = true
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing delimited text: %w", err)
	}
	return records, nil
}
