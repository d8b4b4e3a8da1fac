package graph

import (
	"fmt"
	"io"
	"strings"
)

// WriteMermaid writes the graph in Mermaid format to w.
// Each connected component is a subgraph.
func WriteMermaid(w io.Writer, g *Graph) error {
	components := FindComponents(g)

	if _, err := fmt.Fprintln(w, "graph TD"); err != nil {
		return err
	}

	for i, comp := range components {
		fmt.Fprintf(w, "    subgraph component_%d\n", i+1)

		inComp := make(map[string]bool, len(comp.Tables))
		for _, t := range comp.Tables {
			inComp[t] = true
		}

		written := make(map[string]bool)
		for _, edge := range g.Edges {
			if !inComp[edge.ChildTable] {
				continue
			}
			line := fmt.Sprintf("        %s -->|%s| %s", mermaidID(edge.ChildTable), edgeLabel(edge), mermaidID(edge.ParentTable))
			if written[line] {
				continue
			}
			written[line] = true
			fmt.Fprintln(w, line)
		}

		for _, t := range comp.Tables {
			for _, fk := range g.SelfRefs[t] {
				fmt.Fprintf(w, "        %s -->|%s| %s\n", mermaidID(t), edgeLabel(Edge{FK: fk}), mermaidID(t))
			}
		}

		// Isolated tables still need a node.
		for _, t := range comp.Tables {
			if len(g.Adjacency[t]) == 0 && len(g.SelfRefs[t]) == 0 {
				fmt.Fprintf(w, "        %s\n", mermaidID(t))
			}
		}

		fmt.Fprintln(w, "    end")
		if i < len(components)-1 {
			fmt.Fprintln(w)
		}
	}

	return nil
}

// WriteText writes a text summary of the graph to w.
func WriteText(w io.Writer, g *Graph) error {
	components := FindComponents(g)

	fmt.Fprintf(w, "Tables: %d\n", len(g.Order))
	fmt.Fprintf(w, "Foreign Keys: %d\n", len(g.Edges)+countSelfRefs(g)+len(g.Dangling))
	fmt.Fprintf(w, "Connected Components: %d\n\n", len(components))

	topo := TopoSortAll(g)
	if topo.HasCycle {
		fmt.Fprintf(w, "WARNING: Circular relationships: %v\n\n", topo.CycleTables)
	}

	var noPK []string
	for _, name := range g.Order {
		if g.Tables[name].PrimaryKey == nil {
			noPK = append(noPK, name)
		}
	}
	if len(noPK) > 0 {
		fmt.Fprintf(w, "WARNING: Tables without primary key: %v\n\n", noPK)
	}

	if len(g.Dangling) > 0 {
		fmt.Fprintln(w, "WARNING: Foreign keys to tables outside the package:")
		for _, e := range g.Dangling {
			fmt.Fprintf(w, "  %s.%s -> %s\n", e.ChildTable, e.FK.Fields, e.ParentTable)
		}
		fmt.Fprintln(w)
	}

	var selfRef []string
	for _, name := range g.Order {
		if len(g.SelfRefs[name]) > 0 {
			selfRef = append(selfRef, name)
		}
	}
	if len(selfRef) > 0 {
		fmt.Fprintf(w, "Self-referencing tables: %v\n\n", selfRef)
	}

	fmt.Fprintf(w, "Root tables (no parents): %v\n\n", g.Roots())

	for i, comp := range components {
		fmt.Fprintf(w, "=== Component %d (%d tables, %d foreign keys) ===\n", i+1, len(comp.Tables), comp.ForeignKeys)

		sorted := TopoSort(g, comp.Tables)
		if sorted.HasCycle {
			fmt.Fprintf(w, "  Topological order (partial, has cycle):\n")
		} else {
			fmt.Fprintf(w, "  Topological order:\n")
		}
		for j, t := range sorted.Order {
			tbl := g.Tables[t]
			pkInfo := "no PK"
			if tbl.PrimaryKey != nil {
				pkInfo = "PK: " + strings.Join(tbl.PrimaryKey.Names(), ", ")
			}
			fmt.Fprintf(w, "    %d. %s (%d fields, %s, %d parents)\n",
				j+1, t, len(tbl.Fields), pkInfo, len(g.Parents[t]))
		}
		if sorted.HasCycle {
			fmt.Fprintf(w, "  Cycle tables: %v\n", sorted.CycleTables)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return nil
}

func edgeLabel(e Edge) string {
	label := e.FK.Fields.String()
	if e.FK.Predicate != "" {
		label = e.FK.Predicate + ": " + label
	}
	return strings.NewReplacer("|", "/", `"`, "'").Replace(label)
}

// mermaidID converts a table name to a Mermaid-safe node ID.
func mermaidID(name string) string {
	return strings.NewReplacer(".", "_", "-", "_", " ", "_").Replace(name)
}

func countSelfRefs(g *Graph) int {
	count := 0
	for _, fks := range g.SelfRefs {
		count += len(fks)
	}
	return count
}
