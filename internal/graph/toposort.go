package graph

// TopoResult holds the result of topological sorting.
type TopoResult struct {
	// Order lists parents before children.
	Order []string
	// HasCycle is true if the tables contain a cycle.
	HasCycle bool
	// CycleTables lists tables that could not be ordered.
	CycleTables []string
}

// TopoSort runs Kahn's algorithm over a subset of the graph's tables. Ties are
// broken by the order of tables.
func TopoSort(g *Graph, tables []string) TopoResult {
	inSet := make(map[string]bool, len(tables))
	for _, t := range tables {
		inSet[t] = true
	}

	inDegree := make(map[string]int, len(tables))
	for _, t := range tables {
		for _, p := range g.Parents[t] {
			if inSet[p] {
				inDegree[t]++
			}
		}
	}

	var queue []string
	for _, t := range tables {
		if inDegree[t] == 0 {
			queue = append(queue, t)
		}
	}

	var order []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, child := range g.Children[node] {
			if !inSet[child] {
				continue
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	result := TopoResult{Order: order}
	if len(order) < len(tables) {
		result.HasCycle = true
		for _, t := range tables {
			if inDegree[t] > 0 {
				result.CycleTables = append(result.CycleTables, t)
			}
		}
	}
	return result
}

// TopoSortAll sorts every table in the graph.
func TopoSortAll(g *Graph) TopoResult {
	return TopoSort(g, g.Order)
}
