package explorer

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/catalens/catalens/internal/catalog"
)

const fetchTimeout = 30 * time.Second

type treeLoadedMsg struct {
	roots []*catalog.DirTreeNode
	err   error
}

type tableLoadedMsg struct {
	path   string
	record *catalog.TableRecord
	err    error
}

type dataLoadedMsg struct {
	path string
	seq  uint64
	data *catalog.TableData
	err  error
}

type lineageLoadedMsg struct {
	path    string
	lineage *catalog.TableLineage
	err     error
}

type schemaLoadedMsg struct {
	info *catalog.InformationSchema
	err  error
}

type searchDebounceMsg struct {
	seq uint64
}

type searchResultsMsg struct {
	seq     uint64
	results *catalog.SearchResults
	err     error
}

type exportDoneMsg struct {
	path string
	rows int
	err  error
}

func fetchTree(cat catalog.Catalog) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		roots, err := cat.ListDirectoryTree(ctx)
		return treeLoadedMsg{roots: roots, err: err}
	}
}

func fetchTable(cat catalog.Catalog, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		record, err := cat.GetTableMetadata(ctx, path)
		return tableLoadedMsg{path: path, record: record, err: err}
	}
}

func fetchData(cat catalog.Catalog, path string, q catalog.DataQuery, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		data, err := cat.GetTableData(ctx, path, q)
		return dataLoadedMsg{path: path, seq: seq, data: data, err: err}
	}
}

func fetchLineage(cat catalog.Catalog, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		lineage, err := cat.GetColumnLineage(ctx, path)
		return lineageLoadedMsg{path: path, lineage: lineage, err: err}
	}
}

func fetchSchema(cat catalog.Catalog) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		info, err := cat.GetInformationSchema(ctx)
		return schemaLoadedMsg{info: info, err: err}
	}
}

func fetchSearch(cat catalog.Catalog, query string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		results, err := cat.Search(ctx, query, catalog.MaxSearchLimit)
		return searchResultsMsg{seq: seq, results: results, err: err}
	}
}
