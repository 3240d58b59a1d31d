// Package explorer is the interactive terminal UI over a catalog: a
// directory tree, per-table detail tabs, whole-catalog overview, and a
// debounced search overlay.
package explorer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/catalens/catalens/internal/catalog"
)

type view int

const (
	viewTree view = iota
	viewDetail
	viewOverview
)

// Model is the top-level bubbletea model. It owns view switching and routes
// messages to the active sub-model; the search overlay sits above whichever
// view is active.
type Model struct {
	cat catalog.Catalog

	view     view
	tree     TreeModel
	detail   DetailModel
	overview OverviewModel
	search   SearchModel

	searching bool
	loading   bool
	spinner   spinner.Model
	err       error

	done      bool
	cancelled bool
	width     int
	height    int
}

func NewModel(cat catalog.Catalog) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		cat:      cat,
		tree:     NewTreeModel(),
		detail:   NewDetailModel(cat),
		overview: NewOverviewModel(cat),
		search:   NewSearchModel(cat),
		loading:  true,
		spinner:  s,
		width:    100,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchTree(m.cat))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tree.width, m.tree.height = msg.Width, msg.Height
		m.detail.width, m.detail.height = msg.Width, msg.Height
		m.overview.width, m.overview.height = msg.Width, msg.Height
		m.search.width, m.search.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case treeLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.tree.SetRoots(msg.roots)
		return m, nil

	case searchDebounceMsg, searchResultsMsg:
		var cmd tea.Cmd
		m.search, cmd = m.search.update(msg)
		return m, cmd

	case schemaLoadedMsg:
		var cmd tea.Cmd
		m.overview, cmd = m.overview.update(msg)
		return m, cmd

	case tableLoadedMsg, dataLoadedMsg, lineageLoadedMsg, exportDoneMsg:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.update(msg)
		return m, cmd

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	}

	if m.searching {
		return m.updateSearchKeys(msg)
	}

	switch msg.String() {
	case "ctrl+f":
		m.searching = true
		return m, m.search.Open()
	}

	switch m.view {
	case viewTree:
		return m.updateTreeKeys(msg)
	case viewDetail:
		return m.updateDetailKeys(msg)
	case viewOverview:
		return m.updateOverviewKeys(msg)
	}
	return m, nil
}

func (m Model) updateSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		return m, nil

	case "enter":
		item, ok := m.search.Current()
		if !ok {
			return m, nil
		}
		m.searching = false
		if item.TargetKind() == catalog.KindDirectory {
			m.view = viewTree
			m.tree.revealDirectory(item.TargetPath())
			return m, nil
		}
		m.view = viewDetail
		return m, m.detail.Open(item.TargetPath())
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.update(msg)
	return m, cmd
}

func (m Model) updateTreeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.tree.filtering {
		switch msg.String() {
		case "q", "esc":
			m.done = true
			return m, tea.Quit
		case "/":
			// handled by the tree itself
		case "o":
			m.view = viewOverview
			return m, m.overview.Open()
		}
	}

	var opened *catalog.DirTreeNode
	m.tree, opened = m.tree.update(msg)
	if opened != nil {
		m.view = viewDetail
		return m, m.detail.Open(opened.Path)
	}
	return m, nil
}

func (m Model) updateDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.detail.filtering && msg.String() == "esc" {
		m.view = viewTree
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.update(msg)
	return m, cmd
}

func (m Model) updateOverviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "o":
		m.view = viewTree
		return m, nil
	case "enter":
		if path := m.overview.Current(); path != "" {
			m.view = viewDetail
			return m, m.detail.Open(path)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.overview, cmd = m.overview.update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("catalens") + "\n\n")

	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("  %s Loading catalog...\n", m.spinner.View()))

	case m.err != nil:
		b.WriteString(errStyle.Render(fmt.Sprintf("  Cannot reach the catalog: %v", m.err)) + "\n")
		b.WriteString(dimStyle.Render("  Check the connection settings and restart • ctrl+c quit") + "\n")

	case m.searching:
		b.WriteString(m.search.view())

	default:
		switch m.view {
		case viewTree:
			b.WriteString(m.tree.view())
			b.WriteString("\n")
			b.WriteString(dimStyle.Render("  enter open • / filter • o overview • ctrl+f search • q quit") + "\n")
		case viewDetail:
			b.WriteString(m.detail.view())
		case viewOverview:
			b.WriteString(m.overview.view())
		}
	}

	return b.String()
}

// Done reports whether the model has finished.
func (m Model) Done() bool {
	return m.done
}

// Cancelled reports whether the user aborted with ctrl+c.
func (m Model) Cancelled() bool {
	return m.cancelled
}

// Run starts the full-screen explorer over the given catalog and blocks
// until the user quits.
func Run(cat catalog.Catalog) error {
	p := tea.NewProgram(NewModel(cat), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running explorer: %w", err)
	}
	return nil
}
