// Package relgraph derives an entity-relationship graph over whole tables
// from the catalog's flat information-schema collections.
package relgraph

import (
	"github.com/catalens/catalens/internal/catalog"
)

// EdgeClass distinguishes how two tables are related.
type EdgeClass string

const (
	// EdgeBase marks a structural view/snapshot/replica derivation.
	EdgeBase EdgeClass = "base"
	// EdgeColumnRef marks a looser relationship implied by a column that is
	// defined in another table.
	EdgeColumnRef EdgeClass = "column_ref"
)

// Node is one table of the ER graph. ID is the table path.
type Node struct {
	ID          string
	Kind        catalog.Kind
	ColumnCount int
	RowCount    int64
}

// Edge is a directed relationship between two table nodes.
type Edge struct {
	Source string
	Target string
	Class  EdgeClass
}

// Graph holds the derived ER nodes and edges plus lookup maps.
type Graph struct {
	Nodes []Node
	Edges []Edge

	// adjacency: source path -> outgoing edges
	outgoing map[string][]Edge
	// adjacency: target path -> incoming edges
	incoming map[string][]Edge
}

// pairKey identifies an unordered table pair.
type pairKey struct {
	a, b string
}

func newPairKey(x, y string) pairKey {
	if x < y {
		return pairKey{x, y}
	}
	return pairKey{y, x}
}

// Build derives the ER graph from the full table and column collections of a
// catalog snapshot. Nodes are emitted in input order. At most one edge exists
// per unordered table pair: a base derivation always wins over a column
// reference, and repeat references between the same pair are suppressed
// regardless of direction. A base referencing an unknown path, or a table
// itself, produces no edge.
func Build(tables []catalog.SchemaTable, columns []catalog.SchemaColumn) *Graph {
	g := &Graph{
		Nodes:    make([]Node, 0, len(tables)),
		outgoing: make(map[string][]Edge),
		incoming: make(map[string][]Edge),
	}

	known := make(map[string]bool, len(tables))
	for _, t := range tables {
		g.Nodes = append(g.Nodes, Node{
			ID:          t.Path,
			Kind:        t.Kind,
			ColumnCount: t.ColumnCount,
			RowCount:    t.RowCount,
		})
		known[t.Path] = true
	}

	seen := make(map[pairKey]bool)

	for _, t := range tables {
		if t.Base == "" || t.Base == t.Path || !known[t.Base] {
			continue
		}
		g.addEdge(Edge{Source: t.Base, Target: t.Path, Class: EdgeBase})
		seen[newPairKey(t.Base, t.Path)] = true
	}

	for _, c := range columns {
		if c.DefinedIn == "" || c.DefinedIn == c.TablePath || !known[c.DefinedIn] {
			continue
		}
		key := newPairKey(c.DefinedIn, c.TablePath)
		if seen[key] {
			continue
		}
		g.addEdge(Edge{Source: c.DefinedIn, Target: c.TablePath, Class: EdgeColumnRef})
		seen[key] = true
	}

	return g
}

func (g *Graph) addEdge(e Edge) {
	g.Edges = append(g.Edges, e)
	g.outgoing[e.Source] = append(g.outgoing[e.Source], e)
	g.incoming[e.Target] = append(g.incoming[e.Target], e)
}

// Outgoing returns the edges leaving the given table.
func (g *Graph) Outgoing(path string) []Edge {
	return g.outgoing[path]
}

// Incoming returns the edges arriving at the given table.
func (g *Graph) Incoming(path string) []Edge {
	return g.incoming[path]
}

// Isolated returns the nodes with no edges in either direction, in node order.
func (g *Graph) Isolated() []Node {
	var result []Node
	for _, n := range g.Nodes {
		if len(g.outgoing[n.ID]) == 0 && len(g.incoming[n.ID]) == 0 {
			result = append(result, n)
		}
	}
	return result
}
