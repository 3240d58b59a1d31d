package explorer

import (
	"strings"
	"testing"
)

func loadedTree() TreeModel {
	m := NewTreeModel()
	m.SetRoots(testRoots())
	return m
}

func rowPaths(m TreeModel) []string {
	paths := make([]string, len(m.rows))
	for i, r := range m.rows {
		paths[i] = r.node.Path
	}
	return paths
}

func TestSetRootsExpandsTopLevel(t *testing.T) {
	m := loadedTree()
	want := []string{
		"sales", "sales.orders", "sales.orders_summary", "sales.archive",
		"inventory", "inventory.products",
	}
	got := rowPaths(m)
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestExpandCollapseDirectory(t *testing.T) {
	m := loadedTree()

	// cursor to sales.archive and expand it
	m.cursor = 3
	m, opened := m.update(keyMsg("enter"))
	if opened != nil {
		t.Fatal("expanding a directory should not open anything")
	}
	if !contains(rowPaths(m), "sales.archive.orders_2023") {
		t.Error("expanding archive should reveal its snapshot")
	}

	m, _ = m.update(keyMsg("enter"))
	if contains(rowPaths(m), "sales.archive.orders_2023") {
		t.Error("collapsing archive should hide its snapshot")
	}
}

func TestEnterOnTableReturnsNode(t *testing.T) {
	m := loadedTree()
	m.cursor = 1 // sales.orders
	_, opened := m.update(keyMsg("enter"))
	if opened == nil {
		t.Fatal("enter on a table should return the node")
	}
	if opened.Path != "sales.orders" {
		t.Errorf("expected sales.orders, got %s", opened.Path)
	}
}

func TestLeftOnLeafJumpsToParent(t *testing.T) {
	m := loadedTree()
	m.cursor = 2 // sales.orders_summary
	m, _ = m.update(keyMsg("left"))
	if cur := m.Current(); cur == nil || cur.Path != "sales" {
		t.Errorf("left on a leaf should land on the parent directory")
	}
}

func TestTreeFilterShowsMatchesWithAncestors(t *testing.T) {
	m := loadedTree()
	m.filter = "products"
	m.rebuild()

	got := rowPaths(m)
	if !contains(got, "inventory.products") {
		t.Error("filter should keep the matching table")
	}
	if !contains(got, "inventory") {
		t.Error("filter should keep the match's ancestor directory")
	}
	if contains(got, "sales.orders") {
		t.Error("filter should drop non-matching subtrees")
	}
}

func TestTreeFilterMatchesCollapsedSubtree(t *testing.T) {
	m := loadedTree()
	// archive is collapsed, but its child should still be findable
	m.filter = "2023"
	m.rebuild()
	if !contains(rowPaths(m), "sales.archive.orders_2023") {
		t.Error("filter should reach into collapsed directories")
	}
}

func TestRevealDirectory(t *testing.T) {
	m := loadedTree()
	m.revealDirectory("sales.archive")
	if cur := m.Current(); cur == nil || cur.Path != "sales.archive" {
		t.Fatalf("cursor should land on the revealed directory")
	}
	if !m.expanded["sales"] {
		t.Error("ancestors of the revealed directory should be expanded")
	}
}

func TestTreeCursorClamps(t *testing.T) {
	m := loadedTree()
	m.moveCursor(-10)
	if m.cursor != 0 {
		t.Errorf("cursor should clamp at 0, got %d", m.cursor)
	}
	m.moveCursor(100)
	if m.cursor != len(m.rows)-1 {
		t.Errorf("cursor should clamp at the last row, got %d", m.cursor)
	}
}

func TestTreeViewRenders(t *testing.T) {
	m := loadedTree()
	v := m.view()
	if !strings.Contains(v, "sales") {
		t.Error("view should list the sales directory")
	}
	if !strings.Contains(v, "orders_summary") {
		t.Error("view should list tables of expanded directories")
	}
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
