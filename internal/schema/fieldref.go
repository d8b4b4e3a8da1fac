package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldRef names one field or an ordered list of fields. It encodes as a bare
// string when Single and as an array when Multiple, and decodes from either.
type FieldRef struct {
	names    []string
	multiple bool
}

// Single returns a reference to exactly one field.
func Single(name string) FieldRef {
	return FieldRef{names: []string{name}}
}

// Multiple returns a reference to an ordered list of fields.
func Multiple(names ...string) FieldRef {
	cp := make([]string, len(names))
	copy(cp, names)
	return FieldRef{names: cp, multiple: true}
}

// FieldRefOf returns Single for one name and Multiple otherwise.
func FieldRefOf(names []string) FieldRef {
	if len(names) == 1 {
		return Single(names[0])
	}
	return Multiple(names...)
}

// IsMultiple reports whether the reference was declared as a list.
func (r FieldRef) IsMultiple() bool {
	return r.multiple
}

// Names returns the referenced names in order.
func (r FieldRef) Names() []string {
	cp := make([]string, len(r.names))
	copy(cp, r.names)
	return cp
}

// Len returns the number of referenced fields.
func (r FieldRef) Len() int {
	return len(r.names)
}

func (r FieldRef) String() string {
	if !r.multiple && len(r.names) == 1 {
		return r.names[0]
	}
	return fmt.Sprintf("%v", r.names)
}

// MarshalJSON implements json.Marshaler.
func (r FieldRef) MarshalJSON() ([]byte, error) {
	if !r.multiple && len(r.names) == 1 {
		return json.Marshal(r.names[0])
	}
	names := r.names
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *FieldRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return fmt.Errorf("field list: %w", err)
		}
		*r = Multiple(names...)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("field reference must be a string or a list of strings: %w", err)
	}
	*r = Single(name)
	return nil
}
