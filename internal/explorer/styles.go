package explorer

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/catalens/catalens/internal/catalog"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).BorderStyle(lipgloss.DoubleBorder()).BorderBottom(true).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	summaryStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	dirStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	tableStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	viewStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	snapshotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("109"))
	computedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))

	boxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// kindBadge renders a short colored tag for a catalog entry kind.
func kindBadge(k catalog.Kind) string {
	switch k {
	case catalog.KindDirectory:
		return dirStyle.Render("dir")
	case catalog.KindView:
		return viewStyle.Render("view")
	case catalog.KindSnapshot:
		return snapshotStyle.Render("snap")
	case catalog.KindReplica:
		return snapshotStyle.Render("repl")
	default:
		return tableStyle.Render("tbl")
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "…"
}

func formatNumber(n int64) string {
	if n >= 1_000_000_000 {
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	}
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return fmt.Sprintf("%d", n)
}
