package lineage

import (
	"testing"

	"github.com/catalens/catalens/internal/catalog"
)

func viewLineage() *catalog.TableLineage {
	return &catalog.TableLineage{
		Table: "media.thumbnails",
		Nodes: []catalog.LineageNode{
			{
				ID: "media.images.raw", Name: "raw", Table: "media.images",
				DefinedIn: "media.images", IsExternal: true,
			},
			{
				ID: "media.thumbnails.raw", Name: "raw", Table: "media.thumbnails",
				DefinedIn: "media.images", IsExternal: true,
			},
			{
				ID: "media.thumbnails.thumb", Name: "thumb", Table: "media.thumbnails",
				IsComputed: true, ComputedWith: "resize(raw, 128)", DefinedIn: "media.thumbnails",
			},
			{
				ID: "media.thumbnails.label", Name: "label", Table: "media.thumbnails",
				DefinedIn: "media.thumbnails",
			},
		},
		Edges: []catalog.LineageEdge{
			{Source: "media.images.raw", Target: "media.thumbnails.raw"},
			{Source: "media.thumbnails.raw", Target: "media.thumbnails.thumb"},
		},
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		node catalog.LineageNode
		want NodeKind
	}{
		{catalog.LineageNode{IsComputed: true, ComputedWith: "a + b"}, KindComputed},
		{catalog.LineageNode{IsExternal: true}, KindExternal},
		{catalog.LineageNode{}, KindStored},
		// computed wins even when the column is also flagged external
		{catalog.LineageNode{IsComputed: true, IsExternal: true}, KindComputed},
	}
	for i, c := range cases {
		if got := Classify(c.node); got != c.want {
			t.Errorf("case %d: expected %s, got %s", i, c.want, got)
		}
	}
}

func TestBuild_GroupsAndLayers(t *testing.T) {
	g := Build(viewLineage())

	if len(g.Nodes) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(g.Nodes))
	}
	if len(g.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(g.Groups))
	}
	if g.Groups[0].Table != "media.images" {
		t.Errorf("base group must come first, got %s", g.Groups[0].Table)
	}
	if g.Groups[1].Table != "media.thumbnails" {
		t.Errorf("viewed table group must come last, got %s", g.Groups[1].Table)
	}
	if len(g.Groups[1].NodeIDs) != 3 {
		t.Errorf("expected 3 nodes in viewed group, got %d", len(g.Groups[1].NodeIDs))
	}
}

func TestBuild_EdgesPreserved(t *testing.T) {
	g := Build(viewLineage())
	if len(g.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(g.Edges))
	}

	deps := g.Dependencies("media.thumbnails.thumb")
	if len(deps) != 1 || deps[0] != "media.thumbnails.raw" {
		t.Errorf("expected thumb to depend on raw, got %v", deps)
	}
	dependents := g.Dependents("media.images.raw")
	if len(dependents) != 1 || dependents[0] != "media.thumbnails.raw" {
		t.Errorf("expected base raw to feed view raw, got %v", dependents)
	}
}

func TestBuild_PlainTableIsEmptyGraph(t *testing.T) {
	lin := &catalog.TableLineage{
		Table: "docs.pages",
		Nodes: []catalog.LineageNode{
			{ID: "docs.pages.id", Name: "id", Table: "docs.pages", DefinedIn: "docs.pages"},
			{ID: "docs.pages.body", Name: "body", Table: "docs.pages", DefinedIn: "docs.pages"},
		},
	}
	g := Build(lin)
	if !g.Empty() {
		t.Fatalf("table with no computed and no inherited columns must yield the empty graph, got %d nodes", len(g.Nodes))
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	g := Build(&catalog.TableLineage{Table: "x"})
	if !g.Empty() {
		t.Error("empty input must yield the empty graph")
	}
}

func TestLayeredLayout(t *testing.T) {
	g := Build(viewLineage())
	pos := g.LayeredLayout()

	if p := pos["media.images.raw"]; p.Layer != 0 || p.Index != 0 {
		t.Errorf("base column: expected layer 0 index 0, got %+v", p)
	}
	if p := pos["media.thumbnails.raw"]; p.Layer != 1 || p.Index != 0 {
		t.Errorf("view raw: expected layer 1 index 0, got %+v", p)
	}
	if p := pos["media.thumbnails.thumb"]; p.Layer != 1 || p.Index != 1 {
		t.Errorf("view thumb: expected layer 1 index 1, got %+v", p)
	}
	if p := pos["media.thumbnails.label"]; p.Layer != 1 || p.Index != 2 {
		t.Errorf("view label: expected layer 1 index 2, got %+v", p)
	}
}

func TestBuild_InheritedColumnStaysInViewedGroup(t *testing.T) {
	g := Build(viewLineage())

	// thumbnails.raw is inherited from media.images, but it belongs to the
	// viewed table's group; only the base counterpart groups under the base
	for _, n := range g.Nodes {
		if n.ID == "media.thumbnails.raw" {
			if n.Kind != KindExternal {
				t.Errorf("inherited column must classify external, got %s", n.Kind)
			}
			if n.OwningTable != "media.thumbnails" {
				t.Errorf("inherited column must group under its own table, got %s", n.OwningTable)
			}
		}
	}
	for _, grp := range g.Groups {
		if grp.Table == "media.images" && len(grp.NodeIDs) != 1 {
			t.Errorf("base group should hold only the base column, got %v", grp.NodeIDs)
		}
	}
}

func TestBuild_OwningTableFallsBackToViewed(t *testing.T) {
	lin := &catalog.TableLineage{
		Table: "t",
		Nodes: []catalog.LineageNode{
			{ID: "t.c", Name: "c", IsComputed: true, ComputedWith: "1"},
		},
	}
	g := Build(lin)
	if len(g.Groups) != 1 || g.Groups[0].Table != "t" {
		t.Fatalf("expected single group owned by viewed table, got %+v", g.Groups)
	}
}
