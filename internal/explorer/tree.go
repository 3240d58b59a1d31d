package explorer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/catalens/catalens/internal/catalog"
)

// treeRow is one visible line of the directory tree.
type treeRow struct {
	node  *catalog.DirTreeNode
	depth int
}

// TreeModel is the directory tree browser. Directories expand in place;
// activating a table-like row asks the parent model to open it.
type TreeModel struct {
	roots    []*catalog.DirTreeNode
	expanded map[string]bool
	rows     []treeRow
	cursor   int

	filter    string
	filtering bool

	width  int
	height int
}

func NewTreeModel() TreeModel {
	return TreeModel{
		expanded: make(map[string]bool),
		width:    100,
		height:   24,
	}
}

// SetRoots installs a freshly loaded tree, expanding the top level.
func (m *TreeModel) SetRoots(roots []*catalog.DirTreeNode) {
	m.roots = roots
	for _, r := range roots {
		if r.Kind == catalog.KindDirectory {
			m.expanded[r.Path] = true
		}
	}
	m.rebuild()
	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
}

// Current returns the node under the cursor, or nil.
func (m *TreeModel) Current() *catalog.DirTreeNode {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

func (m TreeModel) update(msg tea.KeyMsg) (TreeModel, *catalog.DirTreeNode) {
	if m.filtering {
		return m.updateFilter(msg), nil
	}

	switch msg.String() {
	case "up", "k":
		m.moveCursor(-1)

	case "down", "j":
		m.moveCursor(1)

	case "home":
		m.cursor = 0

	case "end":
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
		}

	case "left", "h":
		m.collapseCurrent()

	case "right", "l":
		m.expandCurrent()

	case "/":
		m.filtering = true
		m.filter = ""
		m.rebuild()

	case "enter", " ":
		node := m.Current()
		if node == nil {
			return m, nil
		}
		if node.Kind == catalog.KindDirectory {
			m.expanded[node.Path] = !m.expanded[node.Path]
			m.rebuild()
			return m, nil
		}
		return m, node
	}
	return m, nil
}

func (m TreeModel) updateFilter(msg tea.KeyMsg) TreeModel {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter = ""
		m.rebuild()

	case "enter":
		m.filtering = false

	case "backspace":
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
			m.rebuild()
		}

	default:
		if len(msg.String()) == 1 {
			m.filter += msg.String()
			m.rebuild()
		}
	}
	return m
}

func (m TreeModel) view() string {
	var b strings.Builder

	if m.filtering {
		b.WriteString(highlightStyle.Render("  Filter: ") + m.filter + "█\n\n")
	} else if m.filter != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  Filter: %s (/ to change, esc in filter to clear)", m.filter)) + "\n\n")
	}

	if len(m.rows) == 0 {
		if m.filter != "" {
			b.WriteString(dimStyle.Render("  Nothing matches the filter\n"))
		} else {
			b.WriteString(dimStyle.Render("  The catalog is empty\n"))
		}
		return b.String()
	}

	listHeight := m.height - 10
	if listHeight < 5 {
		listHeight = 5
	}
	start := 0
	if m.cursor >= listHeight {
		start = m.cursor - listHeight + 1
	}
	end := start + listHeight
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := start; i < end; i++ {
		row := m.rows[i]
		cursor := "  "
		nameStyle := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = highlightStyle.Render("> ")
			nameStyle = nameStyle.Bold(true)
		}

		indent := strings.Repeat("  ", row.depth)
		marker := "  "
		if row.node.Kind == catalog.KindDirectory {
			if m.expanded[row.node.Path] {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}

		line := fmt.Sprintf("%s%s%s%-6s %s",
			cursor, indent, marker, kindBadge(row.node.Kind),
			nameStyle.Render(truncate(row.node.Name, 40)))
		b.WriteString(line + "\n")
	}

	if len(m.rows) > listHeight {
		b.WriteString(dimStyle.Render(fmt.Sprintf("\n  Showing %d-%d of %d", start+1, end, len(m.rows))) + "\n")
	}

	return b.String()
}

func (m *TreeModel) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
}

func (m *TreeModel) expandCurrent() {
	node := m.Current()
	if node == nil || node.Kind != catalog.KindDirectory {
		return
	}
	if !m.expanded[node.Path] {
		m.expanded[node.Path] = true
		m.rebuild()
	}
}

func (m *TreeModel) collapseCurrent() {
	node := m.Current()
	if node == nil {
		return
	}
	if node.Kind == catalog.KindDirectory && m.expanded[node.Path] {
		m.expanded[node.Path] = false
		m.rebuild()
		return
	}
	// on a leaf, jump to the parent directory
	parent := catalog.ParentPath(node.Path)
	for i, row := range m.rows {
		if row.node.Path == parent {
			m.cursor = i
			return
		}
	}
}

// revealDirectory expands every ancestor of the given directory and moves
// the cursor onto it. Unknown paths leave the tree untouched.
func (m *TreeModel) revealDirectory(path string) {
	for p := path; p != ""; p = catalog.ParentPath(p) {
		m.expanded[p] = true
	}
	m.filter = ""
	m.filtering = false
	m.rebuild()
	for i, row := range m.rows {
		if row.node.Path == path {
			m.cursor = i
			return
		}
	}
}

// rebuild recomputes the visible rows from expansion state and filter. A
// filter shows every matching node with its ancestors forced open.
func (m *TreeModel) rebuild() {
	m.rows = m.rows[:0]
	lower := strings.ToLower(m.filter)
	for _, root := range m.roots {
		m.appendRows(root, 0, lower)
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
}

func (m *TreeModel) appendRows(node *catalog.DirTreeNode, depth int, filter string) {
	if filter != "" {
		if !subtreeMatches(node, filter) {
			return
		}
		m.rows = append(m.rows, treeRow{node: node, depth: depth})
		for _, child := range node.Children {
			m.appendRows(child, depth+1, filter)
		}
		return
	}

	m.rows = append(m.rows, treeRow{node: node, depth: depth})
	if node.Kind == catalog.KindDirectory && m.expanded[node.Path] {
		for _, child := range node.Children {
			m.appendRows(child, depth+1, filter)
		}
	}
}

func subtreeMatches(node *catalog.DirTreeNode, filter string) bool {
	if strings.Contains(strings.ToLower(node.Name), filter) {
		return true
	}
	for _, child := range node.Children {
		if subtreeMatches(child, filter) {
			return true
		}
	}
	return false
}
