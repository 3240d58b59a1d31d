// Package lineage derives a layered column dependency graph for a single
// table from its pre-resolved lineage records.
package lineage

import (
	"github.com/catalens/catalens/internal/catalog"
)

// NodeKind classifies a column node.
type NodeKind string

const (
	// KindComputed marks a column derived from an expression.
	KindComputed NodeKind = "computed"
	// KindStored marks a column declared and stored on the viewed table.
	KindStored NodeKind = "stored"
	// KindExternal marks a column defined in a base table and visible on the
	// viewed table through inheritance.
	KindExternal NodeKind = "external"
)

// Node is one column of the lineage graph.
type Node struct {
	ID          string
	Name        string
	OwningTable string
	DataType    string
	Kind        NodeKind
	Expression  string
}

// Group collects the nodes belonging to one owning table, in column order.
// Groups determine horizontal layering: base-table groups precede the viewed
// table's group.
type Group struct {
	Table   string
	NodeIDs []string
}

// Graph is the derived lineage graph for one table.
type Graph struct {
	Table  string
	Nodes  []Node
	Edges  []catalog.LineageEdge
	Groups []Group
}

// Empty reports whether the graph is the valid "no lineage" terminal state.
func (g *Graph) Empty() bool {
	return len(g.Nodes) == 0 && len(g.Edges) == 0
}

// Classify maps one lineage record to exactly one node kind.
func Classify(n catalog.LineageNode) NodeKind {
	switch {
	case n.IsComputed:
		return KindComputed
	case n.IsExternal:
		return KindExternal
	default:
		return KindStored
	}
}

// Build derives the layered graph from a table's pre-resolved lineage. A
// table with no computed columns and no inherited columns yields the empty
// graph: a valid terminal state that callers must render as "no lineage",
// never as a failure.
func Build(lin *catalog.TableLineage) *Graph {
	g := &Graph{Table: lin.Table}

	interesting := false
	for _, n := range lin.Nodes {
		if n.IsComputed || n.IsExternal {
			interesting = true
			break
		}
	}
	if !interesting {
		return g
	}

	groupIdx := make(map[string]int)
	for _, rec := range lin.Nodes {
		node := Node{
			ID:          rec.ID,
			Name:        rec.Name,
			OwningTable: owningTable(rec, lin.Table),
			DataType:    rec.DataType,
			Kind:        Classify(rec),
			Expression:  rec.ComputedWith,
		}
		g.Nodes = append(g.Nodes, node)

		i, ok := groupIdx[node.OwningTable]
		if !ok {
			i = len(g.Groups)
			groupIdx[node.OwningTable] = i
			g.Groups = append(g.Groups, Group{Table: node.OwningTable})
		}
		g.Groups[i].NodeIDs = append(g.Groups[i].NodeIDs, node.ID)
	}

	// base-table groups layer left of the viewed table's group
	ordered := make([]Group, 0, len(g.Groups))
	for _, grp := range g.Groups {
		if grp.Table != lin.Table {
			ordered = append(ordered, grp)
		}
	}
	for _, grp := range g.Groups {
		if grp.Table == lin.Table {
			ordered = append(ordered, grp)
		}
	}
	g.Groups = ordered

	g.Edges = append(g.Edges, lin.Edges...)
	return g
}

// owningTable returns the table a lineage record is grouped under. Records
// carry their table explicitly; DefinedIn only classifies a column as
// inherited, it never moves the record into the base table's group.
func owningTable(n catalog.LineageNode, viewed string) string {
	if n.Table != "" {
		return n.Table
	}
	return viewed
}

// Position locates one node in the layered layout: Layer is the horizontal
// group index (base groups first), Index the vertical slot within the group.
type Position struct {
	Layer int
	Index int
}

// LayeredLayout assigns positions group by group, stacking nodes vertically
// in column order. The layout is a pure function of group order.
func (g *Graph) LayeredLayout() map[string]Position {
	positions := make(map[string]Position, len(g.Nodes))
	for layer, grp := range g.Groups {
		for idx, id := range grp.NodeIDs {
			positions[id] = Position{Layer: layer, Index: idx}
		}
	}
	return positions
}

// Dependencies returns the IDs of the nodes the given node is derived from.
func (g *Graph) Dependencies(id string) []string {
	var deps []string
	for _, e := range g.Edges {
		if e.Target == id {
			deps = append(deps, e.Source)
		}
	}
	return deps
}

// Dependents returns the IDs of the nodes derived from the given node.
func (g *Graph) Dependents(id string) []string {
	var deps []string
	for _, e := range g.Edges {
		if e.Source == id {
			deps = append(deps, e.Target)
		}
	}
	return deps
}
