package graph

import (
	"github.com/hurou927/vocabpack/internal/schema"
)

// Edge is a directed relationship from child to parent (FK direction).
type Edge struct {
	FK          schema.ForeignKey
	ChildTable  string
	ParentTable string
}

// Graph is a directed graph built from the foreign keys of a compiled package.
// All slices follow package table order, then foreign-key order.
type Graph struct {
	// Order lists table names as declared in the package.
	Order []string

	// Tables maps name -> table document
	Tables map[string]*schema.TableSchema

	// Edges are non-self-referential FK edges (child → parent)
	Edges []Edge

	// SelfRefs holds self-referential FKs, keyed by table name
	SelfRefs map[string][]schema.ForeignKey

	// Dangling holds FKs whose target table is not in the package
	Dangling []Edge

	// Children maps parent → child names
	Children map[string][]string

	// Parents maps child → parent names
	Parents map[string][]string

	// Adjacency for undirected connectivity, in insertion order
	Adjacency map[string][]string
}

// Build constructs the relationship graph of pkg. Targets are resolved with
// schema.ResolveResource, so an empty resource is a self-reference.
func Build(pkg *schema.Package) *Graph {
	g := &Graph{
		Tables:    make(map[string]*schema.TableSchema),
		SelfRefs:  make(map[string][]schema.ForeignKey),
		Children:  make(map[string][]string),
		Parents:   make(map[string][]string),
		Adjacency: make(map[string][]string),
	}

	for i := range pkg.Tables {
		tbl := &pkg.Tables[i]
		if _, dup := g.Tables[tbl.Name]; dup {
			continue
		}
		g.Tables[tbl.Name] = tbl
		g.Order = append(g.Order, tbl.Name)
	}

	for _, name := range g.Order {
		for _, fk := range g.Tables[name].ForeignKeys {
			parent := schema.ResolveResource(name, fk.Reference.Resource)
			edge := Edge{FK: fk, ChildTable: name, ParentTable: parent}

			if _, ok := g.Tables[parent]; !ok {
				g.Dangling = append(g.Dangling, edge)
				continue
			}
			if parent == name {
				g.SelfRefs[name] = append(g.SelfRefs[name], fk)
				continue
			}

			g.Edges = append(g.Edges, edge)
			g.Children[parent] = appendUnique(g.Children[parent], name)
			g.Parents[name] = appendUnique(g.Parents[name], parent)
			g.Adjacency[name] = appendUnique(g.Adjacency[name], parent)
			g.Adjacency[parent] = appendUnique(g.Adjacency[parent], name)
		}
	}

	return g
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

// Roots returns tables that have no outgoing FK edges (no parents).
func (g *Graph) Roots() []string {
	var roots []string
	for _, name := range g.Order {
		if len(g.Parents[name]) == 0 {
			roots = append(roots, name)
		}
	}
	return roots
}
