package graph

// Component is a connected set of tables.
type Component struct {
	Tables []string
	// ForeignKeys counts the edges and self-references declared by its tables.
	ForeignKeys int
}

// FindComponents detects connected components using undirected BFS. Components
// are ordered by their first table in package order.
func FindComponents(g *Graph) []Component {
	visited := make(map[string]bool)
	var components []Component

	for _, name := range g.Order {
		if visited[name] {
			continue
		}
		tables := bfs(g, name, visited)
		components = append(components, Component{Tables: tables, ForeignKeys: g.countForeignKeys(tables)})
	}

	return components
}

func (g *Graph) countForeignKeys(tables []string) int {
	in := make(map[string]bool, len(tables))
	for _, t := range tables {
		in[t] = true
	}
	n := 0
	for _, e := range g.Edges {
		if in[e.ChildTable] {
			n++
		}
	}
	for _, t := range tables {
		n += len(g.SelfRefs[t])
	}
	return n
}

func bfs(g *Graph, start string, visited map[string]bool) []string {
	queue := []string{start}
	visited[start] = true
	var result []string

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.Adjacency[node] {
			if !visited[neighbor] {
				visited[neighbor] = true
				queue = append(queue, neighbor)
			}
		}
	}

	return result
}
