package relgraph

import "math"

// Position is a grid cell assignment for one node.
type Position struct {
	Row int
	Col int
}

// GridLayout assigns grid positions to the graph's nodes in node order,
// using ceil(sqrt(n)) columns. The assignment is a pure function of node
// count and order, so the same input always yields the same layout.
func (g *Graph) GridLayout() map[string]Position {
	n := len(g.Nodes)
	positions := make(map[string]Position, n)
	if n == 0 {
		return positions
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	for i, node := range g.Nodes {
		positions[node.ID] = Position{Row: i / cols, Col: i % cols}
	}
	return positions
}

// GridColumns returns the column count GridLayout uses for n nodes.
func GridColumns(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}
