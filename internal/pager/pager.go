// Package pager reconciles server-side paging and sorting with client-side
// filtering and row selection for one table's row set.
package pager

import (
	"sort"

	"github.com/catalens/catalens/internal/catalog"
)

// State is the fetch lifecycle of the current page.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

// ViewMode selects the rendering mode and with it the effective page size.
type ViewMode int

const (
	// ModeTable is the dense tabular mode.
	ModeTable ViewMode = iota
	// ModeGallery is the larger-tile mode for media-heavy tables.
	ModeGallery
)

const (
	PageSizeTable   = 50
	PageSizeGallery = 12
)

// SortDir is the tri-state sort indicator of a column.
type SortDir int

const (
	SortNone SortDir = iota
	SortAsc
	SortDesc
)

// IndexedRow pairs a row with its in-page index, which survives filtering.
type IndexedRow struct {
	Index int
	Row   map[string]any
}

// Pager manages paging, sorting, filtering, and selection state for one
// table path. Sorting and paging are delegated to the server via Query;
// filtering applies only to the already-fetched page. Selection is keyed by
// in-page index, so it is cleared whenever page, sort, filter, or view mode
// changes.
type Pager struct {
	path string
	mode ViewMode
	page int

	sortColumn string
	sortDir    SortDir

	// column name -> allow-set of literal values; empty/absent set means no
	// constraint on that column
	filters map[string]map[string]bool

	selection map[int]bool

	state State
	data  *catalog.TableData
	err   error

	issued uint64
}

// New creates an idle Pager for one table path in dense tabular mode.
func New(path string) *Pager {
	return &Pager{
		path:      path,
		filters:   make(map[string]map[string]bool),
		selection: make(map[int]bool),
	}
}

// Path returns the table path this pager serves.
func (p *Pager) Path() string { return p.path }

// State returns the current fetch state.
func (p *Pager) State() State { return p.state }

// Err returns the terminal fetch error, if State is StateError.
func (p *Pager) Err() error { return p.err }

// Data returns the current page, or nil before the first successful fetch.
func (p *Pager) Data() *catalog.TableData { return p.data }

// Mode returns the current view mode.
func (p *Pager) Mode() ViewMode { return p.mode }

// Page returns the current zero-based page index.
func (p *Pager) Page() int { return p.page }

// PageSize returns the effective page size for the current view mode.
func (p *Pager) PageSize() int {
	if p.mode == ModeGallery {
		return PageSizeGallery
	}
	return PageSizeTable
}

// Query returns the server request parameters for the current page and sort.
func (p *Pager) Query() catalog.DataQuery {
	q := catalog.DataQuery{
		Offset: p.page * p.PageSize(),
		Limit:  p.PageSize(),
	}
	if p.sortDir != SortNone {
		q.OrderBy = p.sortColumn
		q.OrderDesc = p.sortDir == SortDesc
	}
	return q
}

// BeginLoad transitions to Loading and returns the request's sequence
// number. Only the newest sequence is accepted by Complete and Fail, so a
// superseded in-flight request can never overwrite a later one's result.
func (p *Pager) BeginLoad() uint64 {
	p.issued++
	p.state = StateLoading
	return p.issued
}

// Complete installs a fetched page if seq belongs to the newest request.
// It returns false for stale results, which are dropped.
func (p *Pager) Complete(seq uint64, data *catalog.TableData) bool {
	if seq != p.issued {
		return false
	}
	p.data = data
	p.err = nil
	p.state = StateReady
	return true
}

// Fail records a terminal fetch failure if seq belongs to the newest
// request. The error state persists until the parameters change and a fresh
// load is begun; no automatic retries happen.
func (p *Pager) Fail(seq uint64, err error) bool {
	if seq != p.issued {
		return false
	}
	p.err = err
	p.state = StateError
	return true
}

// TotalCount returns the unfiltered server-side row total. Client-side
// filters never change this value.
func (p *Pager) TotalCount() int64 {
	if p.data == nil {
		return 0
	}
	return p.data.TotalCount
}

// LastPage returns the zero-based index of the last page for the current
// total and page size.
func (p *Pager) LastPage() int {
	total := p.TotalCount()
	if total <= 0 {
		return 0
	}
	size := int64(p.PageSize())
	return int((total + size - 1) / size - 1)
}

// NextPage advances one page. On the last page it is a no-op; otherwise the
// selection is cleared and the caller must reload.
func (p *Pager) NextPage() bool {
	if p.page >= p.LastPage() {
		return false
	}
	p.page++
	p.clearSelection()
	return true
}

// PrevPage goes back one page. On the first page it is a no-op.
func (p *Pager) PrevPage() bool {
	if p.page == 0 {
		return false
	}
	p.page--
	p.clearSelection()
	return true
}

// SetMode switches the view mode. Because the effective page size changes,
// paging resets to page 0 and the selection is cleared.
func (p *Pager) SetMode(mode ViewMode) {
	if mode == p.mode {
		return
	}
	p.mode = mode
	p.page = 0
	p.clearSelection()
}

// SortColumn returns the active sort column and direction.
func (p *Pager) SortColumn() (string, SortDir) {
	return p.sortColumn, p.sortDir
}

// CycleSort advances the sort state for a column header click: repeated
// clicks on the same column cycle unsorted -> ascending -> descending ->
// unsorted; clicking a different column starts it at ascending and clears
// the previous column's indicator. Any sort change resets to page 0 and
// clears the selection.
func (p *Pager) CycleSort(column string) {
	if column == p.sortColumn {
		switch p.sortDir {
		case SortNone:
			p.sortDir = SortAsc
		case SortAsc:
			p.sortDir = SortDesc
		default:
			p.sortColumn = ""
			p.sortDir = SortNone
		}
	} else {
		p.sortColumn = column
		p.sortDir = SortAsc
	}
	p.page = 0
	p.clearSelection()
}

// SetFilter replaces the allow-set for one column. An empty values list
// removes the constraint. Changing filters clears the selection.
func (p *Pager) SetFilter(column string, values []string) {
	if len(values) == 0 {
		delete(p.filters, column)
	} else {
		set := make(map[string]bool, len(values))
		for _, v := range values {
			set[v] = true
		}
		p.filters[column] = set
	}
	p.clearSelection()
}

// ToggleFilterValue adds or removes one literal value from a column's
// allow-set, clearing the selection.
func (p *Pager) ToggleFilterValue(column, value string) {
	set := p.filters[column]
	if set == nil {
		set = make(map[string]bool)
		p.filters[column] = set
	}
	if set[value] {
		delete(set, value)
		if len(set) == 0 {
			delete(p.filters, column)
		}
	} else {
		set[value] = true
	}
	p.clearSelection()
}

// ClearFilters removes all filter constraints and clears the selection.
func (p *Pager) ClearFilters() {
	if len(p.filters) == 0 {
		return
	}
	p.filters = make(map[string]map[string]bool)
	p.clearSelection()
}

// HasFilters reports whether any column has a non-empty allow-set.
func (p *Pager) HasFilters() bool {
	return len(p.filters) > 0
}

// RowPasses reports whether a row satisfies every column's allow-set.
// Columns without a constraint impose none.
func (p *Pager) RowPasses(row map[string]any) bool {
	for column, allow := range p.filters {
		if len(allow) == 0 {
			continue
		}
		if !allow[FormatValue(row[column])] {
			return false
		}
	}
	return true
}

// FilteredRows returns the current page's rows that pass the filters,
// each keeping its original in-page index. Filters reduce the visible count
// within the page; they never request additional rows to compensate.
func (p *Pager) FilteredRows() []IndexedRow {
	if p.data == nil {
		return nil
	}
	var rows []IndexedRow
	for i, row := range p.data.Rows {
		if p.RowPasses(row) {
			rows = append(rows, IndexedRow{Index: i, Row: row})
		}
	}
	return rows
}

// ToggleSelect flips the selection of the row at the given in-page index.
func (p *Pager) ToggleSelect(index int) {
	if p.data == nil || index < 0 || index >= len(p.data.Rows) {
		return
	}
	if p.selection[index] {
		delete(p.selection, index)
	} else {
		p.selection[index] = true
	}
}

// Selected reports whether the row at the given in-page index is selected.
func (p *Pager) Selected(index int) bool {
	return p.selection[index]
}

// SelectionCount returns the number of selected rows.
func (p *Pager) SelectionCount() int {
	return len(p.selection)
}

// SelectedRows returns the rows that are both currently filtered-visible and
// currently selected, in in-page index order. This is the exact row set the
// export serializes.
func (p *Pager) SelectedRows() []IndexedRow {
	var rows []IndexedRow
	for _, ir := range p.FilteredRows() {
		if p.selection[ir.Index] {
			rows = append(rows, ir)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Index < rows[j].Index })
	return rows
}

func (p *Pager) clearSelection() {
	if len(p.selection) > 0 {
		p.selection = make(map[int]bool)
	}
}
