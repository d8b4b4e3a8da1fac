package loader

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

const (
	indexSchemaURL = "file:///index.schema.json"
	tableSchemaURL = "file:///table.schema.json"
)

var (
	shapesOnce  sync.Once
	indexShape  *jsonschema.Schema
	tableShape  *jsonschema.Schema
	errShapeDef error
)

func shapes() (*jsonschema.Schema, *jsonschema.Schema, error) {
	shapesOnce.Do(func() {
		indexShape, errShapeDef = compileShape(indexSchemaURL, "schemas/index.schema.json")
		if errShapeDef != nil {
			return
		}
		tableShape, errShapeDef = compileShape(tableSchemaURL, "schemas/table.schema.json")
	})
	return indexShape, tableShape, errShapeDef
}

func compileShape(url, file string) (*jsonschema.Schema, error) {
	data, err := schemaFiles.ReadFile(file)
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("adding schema %s: %w", file, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", file, err)
	}
	return s, nil
}

// Violation is a single shape problem located by JSON pointer.
type Violation struct {
	Pointer string
	Message string
}

// checkShape validates a decoded document and returns its leaf violations
// sorted by pointer.
func checkShape(s *jsonschema.Schema, doc any) ([]Violation, error) {
	err := s.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}

	var out []Violation
	collectViolations(verr, &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Pointer < out[j].Pointer })
	return out, nil
}

func collectViolations(e *jsonschema.ValidationError, out *[]Violation) {
	if len(e.Causes) == 0 {
		ptr := e.InstanceLocation
		if ptr == "" {
			ptr = "/"
		}
		*out = append(*out, Violation{Pointer: ptr, Message: e.Message})
		return
	}
	for _, c := range e.Causes {
		collectViolations(c, out)
	}
}
