package explorer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/catalens/catalens/internal/catalog"
	"github.com/catalens/catalens/internal/export"
	"github.com/catalens/catalens/internal/lineage"
	"github.com/catalens/catalens/internal/pager"
)

type detailTab int

const (
	tabSchema detailTab = iota
	tabData
	tabLineage
	tabCount
)

var tabLabels = [tabCount]string{"Schema", "Data", "Lineage"}

// DetailModel shows one table across three tabs: column schema, paged rows,
// and the column lineage graph.
type DetailModel struct {
	cat  catalog.Catalog
	path string
	tab  detailTab

	record    *catalog.TableRecord
	recordErr error
	loading   bool
	schemaCur int

	pages     *pager.Pager
	columnCur int

	filterInput  textinput.Model
	filtering    bool
	filterColumn string

	statusMsg string

	lineageGraph *lineage.Graph
	lineageErr   error
	lineageDone  bool

	width  int
	height int
}

func NewDetailModel(cat catalog.Catalog) DetailModel {
	fi := textinput.New()
	fi.Placeholder = "value1,value2"
	fi.CharLimit = 256

	return DetailModel{
		cat:         cat,
		filterInput: fi,
		width:       100,
		height:      24,
	}
}

// Open points the detail view at a table and kicks off the metadata fetch.
func (m *DetailModel) Open(path string) tea.Cmd {
	m.path = path
	m.tab = tabSchema
	m.record = nil
	m.recordErr = nil
	m.loading = true
	m.schemaCur = 0
	m.pages = pager.New(path)
	m.columnCur = 0
	m.filtering = false
	m.statusMsg = ""
	m.lineageGraph = nil
	m.lineageErr = nil
	m.lineageDone = false
	return fetchTable(m.cat, path)
}

func (m DetailModel) update(msg tea.Msg) (DetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilterInput(msg)
		}
		return m.updateKeys(msg)

	case tableLoadedMsg:
		if msg.path != m.path {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.recordErr = msg.err
			return m, nil
		}
		m.record = msg.record
		return m, nil

	case dataLoadedMsg:
		if msg.path != m.path {
			return m, nil
		}
		if msg.err != nil {
			m.pages.Fail(msg.seq, msg.err)
			return m, nil
		}
		m.pages.Complete(msg.seq, msg.data)
		return m, nil

	case lineageLoadedMsg:
		if msg.path != m.path {
			return m, nil
		}
		m.lineageDone = true
		if msg.err != nil {
			m.lineageErr = msg.err
			return m, nil
		}
		m.lineageGraph = lineage.Build(msg.lineage)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.statusMsg = errStyle.Render(fmt.Sprintf("Export failed: %v", msg.err))
		} else {
			m.statusMsg = successStyle.Render(fmt.Sprintf("Exported %d rows to %s", msg.rows, msg.path))
		}
		return m, nil
	}

	return m, nil
}

func (m DetailModel) updateKeys(msg tea.KeyMsg) (DetailModel, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return m.switchTab((m.tab + 1) % tabCount)
	case "shift+tab":
		return m.switchTab((m.tab + tabCount - 1) % tabCount)
	case "1":
		return m.switchTab(tabSchema)
	case "2":
		return m.switchTab(tabData)
	case "3":
		return m.switchTab(tabLineage)
	}

	switch m.tab {
	case tabSchema:
		m.updateSchemaKeys(msg)
		return m, nil
	case tabData:
		return m.updateDataKeys(msg)
	}
	return m, nil
}

func (m DetailModel) switchTab(tab detailTab) (DetailModel, tea.Cmd) {
	if tab == m.tab {
		return m, nil
	}
	m.tab = tab
	m.statusMsg = ""
	switch tab {
	case tabData:
		if m.pages.State() == pager.StateIdle {
			return m, m.loadPage()
		}
	case tabLineage:
		if !m.lineageDone && m.lineageErr == nil {
			return m, fetchLineage(m.cat, m.path)
		}
	}
	return m, nil
}

func (m *DetailModel) updateSchemaKeys(msg tea.KeyMsg) {
	if m.record == nil {
		return
	}
	switch msg.String() {
	case "up", "k":
		if m.schemaCur > 0 {
			m.schemaCur--
		}
	case "down", "j":
		if m.schemaCur < len(m.record.Columns)-1 {
			m.schemaCur++
		}
	}
}

func (m DetailModel) updateDataKeys(msg tea.KeyMsg) (DetailModel, tea.Cmd) {
	data := m.pages.Data()

	switch msg.String() {
	case "n", "right":
		if m.pages.NextPage() {
			return m, m.loadPage()
		}

	case "p", "left":
		if m.pages.PrevPage() {
			return m, m.loadPage()
		}

	case "r":
		return m, m.loadPage()

	case "g":
		if m.pages.Mode() == pager.ModeTable {
			m.pages.SetMode(pager.ModeGallery)
		} else {
			m.pages.SetMode(pager.ModeTable)
		}
		return m, m.loadPage()

	case "[":
		if m.columnCur > 0 {
			m.columnCur--
		}

	case "]":
		if data != nil && m.columnCur < len(data.Columns)-1 {
			m.columnCur++
		}

	case "s":
		if col := m.currentColumn(); col != "" {
			m.pages.CycleSort(col)
			return m, m.loadPage()
		}

	case "f":
		if col := m.currentColumn(); col != "" {
			m.filtering = true
			m.filterColumn = col
			m.filterInput.SetValue("")
			m.filterInput.Focus()
			return m, textinput.Blink
		}

	case "c":
		m.pages.ClearFilters()

	case "up", "k":
		m.moveRowCursor(-1)

	case "down", "j":
		m.moveRowCursor(1)

	case " ":
		rows := m.pages.FilteredRows()
		if m.rowCursorValid(rows) {
			m.pages.ToggleSelect(rows[m.rowCursor()].Index)
		}

	case "e":
		return m, m.exportRows(export.FormatCSV)

	case "E":
		return m, m.exportRows(export.FormatJSON)
	}

	return m, nil
}

// rowCursor rides on schemaCur to avoid a second cursor field per tab; each
// tab switch leaves it untouched, and loads clamp it on render.
func (m DetailModel) rowCursor() int { return m.schemaCur }

func (m *DetailModel) moveRowCursor(delta int) {
	rows := m.pages.FilteredRows()
	if len(rows) == 0 {
		return
	}
	cur := m.schemaCur + delta
	if cur < 0 {
		cur = 0
	}
	if cur >= len(rows) {
		cur = len(rows) - 1
	}
	m.schemaCur = cur
}

func (m DetailModel) rowCursorValid(rows []pager.IndexedRow) bool {
	return m.rowCursor() >= 0 && m.rowCursor() < len(rows)
}

func (m *DetailModel) currentColumn() string {
	data := m.pages.Data()
	if data == nil || m.columnCur < 0 || m.columnCur >= len(data.Columns) {
		return ""
	}
	return data.Columns[m.columnCur].Name
}

func (m *DetailModel) loadPage() tea.Cmd {
	seq := m.pages.BeginLoad()
	return fetchData(m.cat, m.path, m.pages.Query(), seq)
}

func (m DetailModel) updateFilterInput(msg tea.KeyMsg) (DetailModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		return m, nil

	case "enter":
		m.filtering = false
		raw := strings.Split(m.filterInput.Value(), ",")
		var values []string
		for _, v := range raw {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		m.pages.SetFilter(m.filterColumn, values)
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

// exportRows writes the selected rows, or every filtered row when nothing is
// selected, to a timestamped file in the working directory.
func (m *DetailModel) exportRows(format export.Format) tea.Cmd {
	data := m.pages.Data()
	if data == nil {
		return nil
	}
	rows := m.pages.SelectedRows()
	if len(rows) == 0 {
		rows = m.pages.FilteredRows()
	}
	columns := data.Columns
	name := fmt.Sprintf("%s-page%d-%s.%s",
		strings.ReplaceAll(m.path, ".", "_"), m.pages.Page()+1,
		time.Now().Format("20060102-150405"), format)

	return func() tea.Msg {
		if err := export.WriteFile(name, format, columns, rows); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: name, rows: len(rows)}
	}
}

func (m DetailModel) view() string {
	var b strings.Builder

	// tab bar
	var tabs []string
	for i := detailTab(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %s ", tabLabels[i])
		if i == m.tab {
			tabs = append(tabs, summaryStyle.Render(label))
		} else {
			tabs = append(tabs, dimStyle.Render(label))
		}
	}
	b.WriteString("  " + strings.Join(tabs, "│") + "\n\n")

	switch {
	case m.loading:
		b.WriteString(dimStyle.Render("  Loading table metadata...") + "\n")
	case m.recordErr != nil:
		b.WriteString(errStyle.Render(fmt.Sprintf("  %v", m.recordErr)) + "\n")
	default:
		switch m.tab {
		case tabSchema:
			m.viewSchema(&b)
		case tabData:
			m.viewData(&b)
		case tabLineage:
			m.viewLineage(&b)
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n  " + m.statusMsg + "\n")
	}
	return b.String()
}

func (m DetailModel) viewSchema(b *strings.Builder) {
	r := m.record
	if r == nil {
		return
	}

	line := fmt.Sprintf("  %s %s", kindBadge(r.Kind), summaryStyle.Render(r.Path))
	if r.Base != "" {
		line += dimStyle.Render("  base: " + r.Base)
	}
	b.WriteString(line + "\n")
	if r.Comment != "" {
		b.WriteString(dimStyle.Render("  "+r.Comment) + "\n")
	}
	b.WriteString("\n")

	header := fmt.Sprintf("  %-28s %-20s %-9s %-4s %s", "Column", "Type", "Computed", "PK", "Defined in")
	b.WriteString(dimStyle.Render(header) + "\n")
	b.WriteString(dimStyle.Render("  "+strings.Repeat("─", min(m.width-4, 78))) + "\n")

	for i, col := range r.Columns {
		cursor := "  "
		nameStyle := lipgloss.NewStyle()
		if i == m.schemaCur {
			cursor = highlightStyle.Render("> ")
			nameStyle = nameStyle.Bold(true)
		}

		computed := ""
		if col.IsComputed {
			computed = computedStyle.Render("computed")
		}
		pk := ""
		if col.IsPrimaryKey {
			pk = successStyle.Render("pk")
		}
		definedIn := ""
		if col.DefinedIn != "" && col.DefinedIn != r.Path {
			definedIn = dimStyle.Render(col.DefinedIn)
		}

		b.WriteString(fmt.Sprintf("%s%-28s %-20s %-9s %-4s %s\n",
			cursor, nameStyle.Render(truncate(col.Name, 28)),
			truncate(col.DataType, 20), computed, pk, definedIn))
	}

	if m.schemaCur < len(r.Columns) {
		col := r.Columns[m.schemaCur]
		if col.IsComputed && col.ComputedWith != "" {
			b.WriteString("\n" + dimStyle.Render("  expr: ") + truncate(col.ComputedWith, m.width-10) + "\n")
		}
	}

	if len(r.Indices) > 0 {
		b.WriteString("\n" + summaryStyle.Render("  Indexes") + "\n")
		for _, idx := range r.Indices {
			b.WriteString(fmt.Sprintf("  %-28s %-20s %s\n",
				truncate(idx.Name, 28), truncate(idx.Column, 20), dimStyle.Render(idx.IndexType)))
		}
	}

	b.WriteString("\n" + dimStyle.Render("  tab switch view • 2 data • 3 lineage • esc back") + "\n")
}

func (m DetailModel) viewData(b *strings.Builder) {
	if m.filtering {
		b.WriteString(highlightStyle.Render(fmt.Sprintf("  Filter %s: ", m.filterColumn)) + m.filterInput.View() + "\n")
		b.WriteString(dimStyle.Render("  comma-separated allowed values • enter apply • esc cancel") + "\n\n")
	}

	switch m.pages.State() {
	case pager.StateIdle, pager.StateLoading:
		b.WriteString(dimStyle.Render("  Loading rows...") + "\n")
		return
	case pager.StateError:
		b.WriteString(errStyle.Render(fmt.Sprintf("  %v", m.pages.Err())) + "\n")
		b.WriteString(dimStyle.Render("  r retry • esc back") + "\n")
		return
	}

	data := m.pages.Data()
	rows := m.pages.FilteredRows()

	if m.pages.Mode() == pager.ModeGallery {
		m.viewGallery(b, data, rows)
	} else {
		m.viewRowTable(b, data, rows)
	}

	// paging footer
	total := m.pages.TotalCount()
	last := m.pages.LastPage()
	footer := fmt.Sprintf("  Page %d/%d · %s rows total", m.pages.Page()+1, last+1, formatNumber(total))
	if m.pages.HasFilters() {
		footer += fmt.Sprintf(" · %d shown after filter", len(rows))
	}
	if n := m.pages.SelectionCount(); n > 0 {
		footer += fmt.Sprintf(" · %d selected", n)
	}
	if col, dir := m.pages.SortColumn(); dir != pager.SortNone {
		arrow := "↑"
		if dir == pager.SortDesc {
			arrow = "↓"
		}
		footer += fmt.Sprintf(" · sort %s %s", col, arrow)
	}
	b.WriteString(summaryStyle.Render(footer) + "\n")
	b.WriteString(dimStyle.Render("  n/p page • [/] column • s sort • f filter • c clear • space select • g gallery • e/E export") + "\n")
}

func (m DetailModel) viewRowTable(b *strings.Builder, data *catalog.TableData, rows []pager.IndexedRow) {
	cols := visibleColumns(data.Columns, m.columnCur, m.width)

	var header strings.Builder
	header.WriteString("      ")
	for _, col := range cols {
		label := truncate(col.Name, 18)
		if m.columnCur < len(data.Columns) && data.Columns[m.columnCur].Name == col.Name {
			label = highlightStyle.Render(label)
		}
		header.WriteString(fmt.Sprintf("%-20s", label))
	}
	b.WriteString(dimStyle.Render(header.String()) + "\n")
	b.WriteString(dimStyle.Render("  "+strings.Repeat("─", min(m.width-4, 20*len(cols)+4))) + "\n")

	if len(rows) == 0 {
		if m.pages.HasFilters() {
			b.WriteString(dimStyle.Render("  No rows match the filter") + "\n")
		} else {
			b.WriteString(dimStyle.Render("  The table is empty") + "\n")
		}
		return
	}

	for i, row := range rows {
		cursor := "  "
		if i == m.rowCursor() {
			cursor = highlightStyle.Render("> ")
		}
		mark := " "
		if m.pages.Selected(row.Index) {
			mark = selectedStyle.Render("•")
		}
		b.WriteString(cursor + mark + " ")
		for _, col := range cols {
			b.WriteString(fmt.Sprintf("%-20s", truncate(pager.FormatValue(row.Row[col.Name]), 18)))
		}
		b.WriteString("\n")
	}
}

func (m DetailModel) viewGallery(b *strings.Builder, data *catalog.TableData, rows []pager.IndexedRow) {
	mediaCol := ""
	for _, col := range data.Columns {
		if col.IsMedia {
			mediaCol = col.Name
			break
		}
	}

	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("  Nothing to show") + "\n")
		return
	}

	perRow := max(1, (m.width-4)/26)
	var tiles []string
	for i, row := range rows {
		var body strings.Builder
		if mediaCol != "" {
			body.WriteString(truncate(pager.FormatValue(row.Row[mediaCol]), 22) + "\n")
		}
		body.WriteString(dimStyle.Render(fmt.Sprintf("row %d", row.Index+1)))

		style := boxStyle
		if i == m.rowCursor() {
			style = style.BorderForeground(lipgloss.Color("205"))
		}
		if m.pages.Selected(row.Index) {
			style = style.BorderForeground(lipgloss.Color("82"))
		}
		tiles = append(tiles, style.Width(24).Render(body.String()))

		if len(tiles) == perRow || i == len(rows)-1 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tiles...) + "\n")
			tiles = tiles[:0]
		}
	}
}

func (m DetailModel) viewLineage(b *strings.Builder) {
	switch {
	case m.lineageErr != nil:
		b.WriteString(errStyle.Render(fmt.Sprintf("  %v", m.lineageErr)) + "\n")
		return
	case !m.lineageDone:
		b.WriteString(dimStyle.Render("  Loading lineage...") + "\n")
		return
	case m.lineageGraph == nil || m.lineageGraph.Empty():
		b.WriteString(dimStyle.Render("  No column lineage: every column is plainly stored") + "\n")
		return
	}

	g := m.lineageGraph
	nodesByID := make(map[string]lineage.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		nodesByID[n.ID] = n
	}

	var boxes []string
	for _, group := range g.Groups {
		var body strings.Builder
		body.WriteString(summaryStyle.Render(truncate(group.Table, 26)) + "\n")
		for _, id := range group.NodeIDs {
			n := nodesByID[id]
			label := truncate(n.Name, 22)
			switch n.Kind {
			case lineage.KindComputed:
				label = computedStyle.Render(label + " ƒ")
			case lineage.KindExternal:
				label = dimStyle.Render(label)
			}
			body.WriteString(label + "\n")
		}
		boxes = append(boxes, boxStyle.Render(strings.TrimRight(body.String(), "\n")))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...) + "\n\n")

	if len(g.Edges) > 0 {
		b.WriteString(summaryStyle.Render("  Derivations") + "\n")
		edges := make([]catalog.LineageEdge, len(g.Edges))
		copy(edges, g.Edges)
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].Target != edges[j].Target {
				return edges[i].Target < edges[j].Target
			}
			return edges[i].Source < edges[j].Source
		})
		for _, e := range edges {
			src, dst := nodesByID[e.Source], nodesByID[e.Target]
			b.WriteString(fmt.Sprintf("  %s.%s -> %s.%s\n",
				dimStyle.Render(src.OwningTable), src.Name,
				dimStyle.Render(dst.OwningTable), computedStyle.Render(dst.Name)))
		}
	}
}

// visibleColumns picks the window of data columns that fits the width,
// keeping the focused column in view.
func visibleColumns(cols []catalog.DataColumn, focused, width int) []catalog.DataColumn {
	fit := max(1, (width-8)/20)
	if len(cols) <= fit {
		return cols
	}
	start := 0
	if focused >= fit {
		start = focused - fit + 1
	}
	end := start + fit
	if end > len(cols) {
		end = len(cols)
	}
	return cols[start:end]
}
