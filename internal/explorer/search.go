package explorer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/catalens/catalens/internal/catalog"
	"github.com/catalens/catalens/internal/search"
)

// SearchModel is the search overlay: one text input over a flattened result
// list spanning directories, tables, and columns.
type SearchModel struct {
	cat   catalog.Catalog
	input textinput.Model
	seq   search.Sequencer
	index *search.Index

	cursor  int
	loading bool
	err     error

	width  int
	height int
}

func NewSearchModel(cat catalog.Catalog) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "table, directory, or column name"
	ti.CharLimit = 128
	ti.Focus()

	return SearchModel{
		cat:    cat,
		input:  ti,
		index:  search.NewIndex(nil),
		width:  100,
		height: 24,
	}
}

// Open resets the overlay for a fresh search session.
func (m *SearchModel) Open() tea.Cmd {
	m.input.SetValue("")
	m.index = search.NewIndex(nil)
	m.cursor = 0
	m.loading = false
	m.err = nil
	m.input.Focus()
	return textinput.Blink
}

// Current returns the highlighted result, if any.
func (m *SearchModel) Current() (search.Item, bool) {
	return m.index.At(m.cursor)
}

func (m SearchModel) update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			m.cursor = m.index.Clamp(m.cursor + 1)
			return m, nil
		}

		var cmd tea.Cmd
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			return m, tea.Batch(cmd, m.scheduleQuery())
		}
		return m, cmd

	case searchDebounceMsg:
		// stale ticks fire for queries that were superseded while waiting
		if !m.seq.Accept(msg.seq) {
			return m, nil
		}
		query := m.input.Value()
		if query == "" {
			m.index = search.NewIndex(nil)
			m.cursor = 0
			m.loading = false
			return m, nil
		}
		m.loading = true
		return m, fetchSearch(m.cat, query, msg.seq)

	case searchResultsMsg:
		if !m.seq.Accept(msg.seq) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.index = search.NewIndex(msg.results)
		// a freshly resolved query is a new result identity
		m.cursor = 0
		return m, nil
	}

	return m, nil
}

// scheduleQuery arms the debounce timer for the current input. Every edit
// issues a new sequence number, so earlier pending ticks become no-ops.
func (m *SearchModel) scheduleQuery() tea.Cmd {
	seq := m.seq.Next()
	return tea.Tick(search.DebounceInterval, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}

func (m SearchModel) view() string {
	var b strings.Builder

	b.WriteString(highlightStyle.Render("  Search: ") + m.input.View() + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errStyle.Render(fmt.Sprintf("  Search failed: %v", m.err)) + "\n")

	case m.loading:
		b.WriteString(dimStyle.Render("  Searching...") + "\n")

	case m.index.Len() == 0 && m.input.Value() != "":
		b.WriteString(dimStyle.Render("  No matches") + "\n")

	default:
		m.viewResults(&b)
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  up/down navigate • enter open • esc close") + "\n")
	return b.String()
}

func (m SearchModel) viewResults(b *strings.Builder) {
	items := m.index.Items()
	listHeight := m.height - 8
	if listHeight < 5 {
		listHeight = 5
	}
	start := 0
	if m.cursor >= listHeight {
		start = m.cursor - listHeight + 1
	}
	end := start + listHeight
	if end > len(items) {
		end = len(items)
	}

	for i := start; i < end; i++ {
		it := items[i]
		cursor := "  "
		nameStyle := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = highlightStyle.Render("> ")
			nameStyle = nameStyle.Bold(true)
		}

		var detail string
		switch it.Kind {
		case search.ItemDirectory:
			detail = dimStyle.Render(it.Directory.Path)
		case search.ItemTable:
			detail = dimStyle.Render(it.Table.Path)
		case search.ItemColumn:
			detail = dimStyle.Render(fmt.Sprintf("%s · %s", it.Column.Table, it.Column.DataType))
			if it.Column.IsComputed {
				detail += " " + computedStyle.Render("computed")
			}
		}

		line := fmt.Sprintf("%s%-6s %s  %s",
			cursor, kindBadge(it.TargetKind()), nameStyle.Render(truncate(it.Name(), 36)), detail)
		b.WriteString(line + "\n")
	}

	if len(items) > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("\n  %d results", len(items))) + "\n")
	}
}
