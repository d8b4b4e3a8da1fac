package diag

import (
	"fmt"
	"io"
	"strings"
)

// Severity classifies a diagnostic. Only Error affects the run outcome.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Code identifies the kind of finding.
type Code string

const (
	// CodeDuplicateTable marks a repeated table name in the table catalog.
	CodeDuplicateTable Code = "duplicate-table"
	// CodeUnmappedRelationship marks a foreign-key field without a predicate row.
	CodeUnmappedRelationship Code = "unmapped-relationship"

	// CodeMalformedDocument marks a document that does not parse or has the wrong shape.
	CodeMalformedDocument Code = "malformed-document"
	// CodeMissingDocument marks an index entry or directory without its file.
	CodeMissingDocument Code = "missing-document"
	// CodeExtraDocument marks a table document the index does not reference.
	CodeExtraDocument Code = "extra-document"
	// CodeDuplicateKey marks a repeated identifier, name or title in the index.
	CodeDuplicateKey Code = "duplicate-key"
	// CodeMissingKey marks an index entry lacking identifier, name, title or url.
	CodeMissingKey Code = "missing-key"
	// CodeMissingField marks a key that names a field the table does not have.
	CodeMissingField Code = "missing-field"
	// CodeUnresolvableForeignKey marks a foreign key whose target cannot be found.
	CodeUnresolvableForeignKey Code = "unresolvable-foreign-key"
	// CodeIndexDocumentMismatch marks index metadata that drifted from its document.
	CodeIndexDocumentMismatch Code = "index-document-mismatch"

	// CodeCanonicalFetch marks a canonical source that could not be read.
	CodeCanonicalFetch Code = "canonical-fetch"
	// CodeCanonicalMismatch marks field text that differs from its canonical term.
	CodeCanonicalMismatch Code = "canonical-mismatch"
	// CodeCanonicalAmbiguous marks a local name defined by several canonical sources.
	CodeCanonicalAmbiguous Code = "canonical-ambiguous"
	// CodeSharedFieldMismatch marks a shared field that differs from its primary-key definition.
	CodeSharedFieldMismatch Code = "shared-field-mismatch"
)

// Diagnostic is a single finding. Path locates it: a file, a table or table.field.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Path     string
	Message  string
}

func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	b.WriteString(" [")
	b.WriteString(string(d.Code))
	b.WriteString("]")
	if d.Path != "" {
		b.WriteString(" ")
		b.WriteString(d.Path)
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// Errorf builds an error diagnostic.
func Errorf(code Code, path, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: Error, Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning diagnostic.
func Warnf(code Code, path, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: Warning, Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}

// List is an ordered sequence of diagnostics.
type List []Diagnostic

// HasErrors reports whether any diagnostic has Error severity.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with the given severity.
func (l List) Count(s Severity) int {
	n := 0
	for _, d := range l {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// WithCode returns the diagnostics carrying code, in order.
func (l List) WithCode(code Code) List {
	var out List
	for _, d := range l {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Write prints one diagnostic per line.
func (l List) Write(w io.Writer) error {
	for _, d := range l {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}

// Builder accumulates diagnostics. The zero value is ready to use.
type Builder struct {
	list List
}

// Add appends diagnostics.
func (b *Builder) Add(d ...Diagnostic) {
	b.list = append(b.list, d...)
}

// Errorf appends an error diagnostic.
func (b *Builder) Errorf(code Code, path, format string, args ...any) {
	b.Add(Errorf(code, path, format, args...))
}

// Warnf appends a warning diagnostic.
func (b *Builder) Warnf(code Code, path, format string, args ...any) {
	b.Add(Warnf(code, path, format, args...))
}

// List returns a copy of the accumulated diagnostics.
func (b *Builder) List() List {
	out := make(List, len(b.list))
	copy(out, b.list)
	return out
}
