package compile

import "github.com/hurou927/vocabpack/internal/catalog"

type predicateKey struct {
	table string
	field string
}

// Resolver maps (table, field) to candidate predicate rows. Recommended rows
// come first; catalog order is kept within each group. It is read-only once
// built.
type Resolver struct {
	candidates map[predicateKey][]catalog.PredicateDefinition
}

// NewResolver indexes the predicate catalog.
func NewResolver(defs []catalog.PredicateDefinition) *Resolver {
	r := &Resolver{candidates: make(map[predicateKey][]catalog.PredicateDefinition)}
	// Two passes give a stable partition: recommended rows, then the rest.
	for _, recommended := range []bool{true, false} {
		for _, d := range defs {
			if catalog.IsRecommended(d.Status) != recommended {
				continue
			}
			k := predicateKey{table: d.SubjectTable, field: d.SubjectField}
			r.candidates[k] = append(r.candidates[k], d)
		}
	}
	return r
}

// Candidates returns the ordered candidates for a foreign-key field.
func (r *Resolver) Candidates(table, field string) []catalog.PredicateDefinition {
	c := r.candidates[predicateKey{table: table, field: field}]
	out := make([]catalog.PredicateDefinition, len(c))
	copy(out, c)
	return out
}

// Resolve returns the first candidate, if any.
func (r *Resolver) Resolve(table, field string) (catalog.PredicateDefinition, bool) {
	c := r.candidates[predicateKey{table: table, field: field}]
	if len(c) == 0 {
		return catalog.PredicateDefinition{}, false
	}
	return c[0], true
}
