package explorer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/catalens/catalens/internal/catalog"
	"github.com/catalens/catalens/internal/relgraph"
)

// OverviewModel shows whole-catalog counters and the table relationship
// graph laid out on a square-ish grid.
type OverviewModel struct {
	cat catalog.Catalog

	info    *catalog.InformationSchema
	graph   *relgraph.Graph
	loading bool
	err     error

	cursor int

	width  int
	height int
}

func NewOverviewModel(cat catalog.Catalog) OverviewModel {
	return OverviewModel{
		cat:    cat,
		width:  100,
		height: 24,
	}
}

// Open kicks off the information schema fetch unless it is already loaded.
func (m *OverviewModel) Open() tea.Cmd {
	if m.info != nil || m.loading {
		return nil
	}
	m.loading = true
	m.err = nil
	return fetchSchema(m.cat)
}

// Refresh discards the cached schema and reloads.
func (m *OverviewModel) Refresh() tea.Cmd {
	m.info = nil
	m.graph = nil
	m.loading = true
	m.err = nil
	return fetchSchema(m.cat)
}

// Current returns the table path under the cursor, or "".
func (m *OverviewModel) Current() string {
	if m.graph == nil || m.cursor < 0 || m.cursor >= len(m.graph.Nodes) {
		return ""
	}
	return m.graph.Nodes[m.cursor].ID
}

func (m OverviewModel) update(msg tea.Msg) (OverviewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.graph == nil {
			if msg.String() == "r" {
				return m, m.Refresh()
			}
			return m, nil
		}
		cols := relgraph.GridColumns(len(m.graph.Nodes))
		switch msg.String() {
		case "left", "h":
			m.moveCursor(-1)
		case "right", "l":
			m.moveCursor(1)
		case "up", "k":
			m.moveCursor(-cols)
		case "down", "j":
			m.moveCursor(cols)
		case "r":
			return m, m.Refresh()
		}

	case schemaLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.info = msg.info
		m.graph = relgraph.Build(msg.info.Tables, msg.info.Columns)
		if m.cursor >= len(m.graph.Nodes) {
			m.cursor = max(0, len(m.graph.Nodes)-1)
		}
	}
	return m, nil
}

func (m *OverviewModel) moveCursor(delta int) {
	n := len(m.graph.Nodes)
	if n == 0 {
		return
	}
	cur := m.cursor + delta
	if cur < 0 || cur >= n {
		return
	}
	m.cursor = cur
}

func (m OverviewModel) view() string {
	var b strings.Builder

	switch {
	case m.loading:
		b.WriteString(dimStyle.Render("  Loading catalog schema...") + "\n")
		return b.String()
	case m.err != nil:
		b.WriteString(errStyle.Render(fmt.Sprintf("  %v", m.err)) + "\n")
		b.WriteString(dimStyle.Render("  r retry • esc back") + "\n")
		return b.String()
	case m.info == nil:
		return b.String()
	}

	s := m.info.Summary
	b.WriteString(summaryStyle.Render(fmt.Sprintf(
		"  %d directories · %d tables · %s rows · %d columns (%d computed) · %d indexes",
		s.TotalDirectories, s.TotalTables, formatNumber(s.TotalRows),
		s.TotalColumns, s.TotalComputedColumns, s.TotalIndices)) + "\n\n")

	if len(m.graph.Nodes) == 0 {
		b.WriteString(dimStyle.Render("  The catalog has no tables") + "\n")
		return b.String()
	}

	m.viewGrid(&b)
	m.viewEdges(&b)

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  arrows move • enter open table • r reload • esc back") + "\n")
	return b.String()
}

func (m OverviewModel) viewGrid(b *strings.Builder) {
	nodes := m.graph.Nodes
	cols := relgraph.GridColumns(len(nodes))

	var tiles []string
	for i, node := range nodes {
		var body strings.Builder
		body.WriteString(fmt.Sprintf("%s %s\n", kindBadge(node.Kind), truncate(catalog.BaseName(node.ID), 18)))
		body.WriteString(dimStyle.Render(fmt.Sprintf("%d cols · %s rows",
			node.ColumnCount, formatNumber(node.RowCount))))

		style := boxStyle
		if i == m.cursor {
			style = style.BorderForeground(lipgloss.Color("205"))
		}
		tiles = append(tiles, style.Width(24).Render(body.String()))

		if (i+1)%cols == 0 || i == len(nodes)-1 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tiles...) + "\n")
			tiles = tiles[:0]
		}
	}
}

func (m OverviewModel) viewEdges(b *strings.Builder) {
	path := m.Current()
	if path == "" {
		return
	}

	out := m.graph.Outgoing(path)
	in := m.graph.Incoming(path)
	if len(out) == 0 && len(in) == 0 {
		b.WriteString(dimStyle.Render("\n  No relationships") + "\n")
		return
	}

	b.WriteString("\n")
	for _, e := range out {
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			edgeLabel(e.Class), dimStyle.Render("->"), e.Target))
	}
	for _, e := range in {
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			edgeLabel(e.Class), dimStyle.Render("<-"), e.Source))
	}
}

func edgeLabel(c relgraph.EdgeClass) string {
	if c == relgraph.EdgeBase {
		return viewStyle.Render("derives")
	}
	return computedStyle.Render("references")
}
