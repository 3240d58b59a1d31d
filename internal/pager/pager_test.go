package pager

import (
	"fmt"
	"testing"

	"github.com/catalens/catalens/internal/catalog"
)

func testPage(total int64, rows ...map[string]any) *catalog.TableData {
	return &catalog.TableData{
		Columns: []catalog.DataColumn{
			{Name: "id", DataType: "int"},
			{Name: "status", DataType: "string"},
		},
		Rows:       rows,
		TotalCount: total,
	}
}

func readyPager(t *testing.T, total int64, rows ...map[string]any) *Pager {
	t.Helper()
	p := New("media.images")
	seq := p.BeginLoad()
	if !p.Complete(seq, testPage(total, rows...)) {
		t.Fatal("initial load must be accepted")
	}
	return p
}

func TestStateMachine(t *testing.T) {
	p := New("media.images")
	if p.State() != StateIdle {
		t.Fatalf("expected Idle, got %d", p.State())
	}

	seq := p.BeginLoad()
	if p.State() != StateLoading {
		t.Fatalf("expected Loading, got %d", p.State())
	}

	if !p.Complete(seq, testPage(3)) {
		t.Fatal("expected result to be accepted")
	}
	if p.State() != StateReady {
		t.Fatalf("expected Ready, got %d", p.State())
	}
}

func TestFail_TerminalUntilReload(t *testing.T) {
	p := New("media.images")
	seq := p.BeginLoad()
	if !p.Fail(seq, fmt.Errorf("connection refused")) {
		t.Fatal("expected failure to be recorded")
	}
	if p.State() != StateError {
		t.Fatalf("expected Error, got %d", p.State())
	}
	if p.Err() == nil {
		t.Fatal("expected error to be retained")
	}

	// a fresh attempt clears the error
	seq = p.BeginLoad()
	if p.State() != StateLoading {
		t.Fatalf("expected Loading after retry, got %d", p.State())
	}
	if !p.Complete(seq, testPage(1, map[string]any{"id": 1})) {
		t.Fatal("retry result must be accepted")
	}
	if p.Err() != nil {
		t.Error("error must be cleared on success")
	}
}

func TestStaleResultDropped(t *testing.T) {
	p := New("media.images")
	seqA := p.BeginLoad()
	seqB := p.BeginLoad()

	fresh := testPage(2, map[string]any{"id": 2})
	if !p.Complete(seqB, fresh) {
		t.Fatal("newest result must be accepted")
	}
	if p.Complete(seqA, testPage(1, map[string]any{"id": 1})) {
		t.Fatal("stale result must be dropped")
	}
	if p.Data() != fresh {
		t.Error("data must still be the newest page")
	}

	// stale failure must not clobber a newer success either
	if p.Fail(seqA, fmt.Errorf("late failure")) {
		t.Fatal("stale failure must be dropped")
	}
	if p.State() != StateReady {
		t.Errorf("expected Ready, got %d", p.State())
	}
}

func TestPageSizePerMode(t *testing.T) {
	p := New("t")
	if p.PageSize() != PageSizeTable {
		t.Errorf("table mode: expected %d, got %d", PageSizeTable, p.PageSize())
	}
	p.SetMode(ModeGallery)
	if p.PageSize() != PageSizeGallery {
		t.Errorf("gallery mode: expected %d, got %d", PageSizeGallery, p.PageSize())
	}
}

func TestSetMode_ResetsPage(t *testing.T) {
	p := readyPager(t, 500)
	p.NextPage()
	p.NextPage()
	if p.Page() != 2 {
		t.Fatalf("expected page 2, got %d", p.Page())
	}

	p.SetMode(ModeGallery)
	if p.Page() != 0 {
		t.Errorf("mode switch must reset to page 0, got %d", p.Page())
	}

	p.SetMode(ModeGallery) // no-op
	if p.Page() != 0 {
		t.Errorf("same-mode switch must be a no-op")
	}
}

func TestPaginationMath(t *testing.T) {
	cases := []struct {
		total    int64
		lastPage int
	}{
		{0, 0},
		{1, 0},
		{50, 0},
		{51, 1},
		{100, 1},
		{101, 2},
	}
	for _, c := range cases {
		p := readyPager(t, c.total)
		if got := p.LastPage(); got != c.lastPage {
			t.Errorf("total %d: expected last page %d, got %d", c.total, c.lastPage, got)
		}
	}
}

func TestNextPage_NoOpOnLastPage(t *testing.T) {
	p := readyPager(t, 60) // pages 0 and 1
	if !p.NextPage() {
		t.Fatal("expected next to advance from page 0")
	}
	if p.NextPage() {
		t.Error("next on the last page must be a no-op")
	}
	if p.Page() != 1 {
		t.Errorf("expected to stay on page 1, got %d", p.Page())
	}

	if !p.PrevPage() {
		t.Fatal("expected prev to go back")
	}
	if p.PrevPage() {
		t.Error("prev on page 0 must be a no-op")
	}
}

func TestQuery(t *testing.T) {
	p := readyPager(t, 500)
	p.NextPage()
	p.CycleSort("id")

	q := p.Query()
	if q.Offset != 0 {
		t.Errorf("sort change resets to page 0, so offset must be 0, got %d", q.Offset)
	}
	if q.Limit != PageSizeTable {
		t.Errorf("expected limit %d, got %d", PageSizeTable, q.Limit)
	}
	if q.OrderBy != "id" || q.OrderDesc {
		t.Errorf("expected ascending sort on id, got %q desc=%v", q.OrderBy, q.OrderDesc)
	}
}

func TestCycleSort_TriState(t *testing.T) {
	p := New("t")

	p.CycleSort("id")
	if col, dir := p.SortColumn(); col != "id" || dir != SortAsc {
		t.Fatalf("first click: expected id asc, got %s %d", col, dir)
	}
	p.CycleSort("id")
	if _, dir := p.SortColumn(); dir != SortDesc {
		t.Fatalf("second click: expected desc, got %d", dir)
	}
	p.CycleSort("id")
	if col, dir := p.SortColumn(); col != "" || dir != SortNone {
		t.Fatalf("third click: expected unsorted, got %s %d", col, dir)
	}
}

func TestCycleSort_DifferentColumnResetsToAscending(t *testing.T) {
	p := New("t")
	p.CycleSort("id")
	p.CycleSort("id") // id desc
	p.CycleSort("status")
	if col, dir := p.SortColumn(); col != "status" || dir != SortAsc {
		t.Fatalf("expected status asc, got %s %d", col, dir)
	}
}

func TestFiltering(t *testing.T) {
	p := readyPager(t, 100,
		map[string]any{"id": float64(1), "status": "ok"},
		map[string]any{"id": float64(2), "status": "failed"},
		map[string]any{"id": float64(3), "status": "ok"},
	)

	p.SetFilter("status", []string{"ok"})
	rows := p.FilteredRows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 visible rows, got %d", len(rows))
	}
	if rows[0].Index != 0 || rows[1].Index != 2 {
		t.Errorf("in-page indexes must survive filtering, got %d and %d", rows[0].Index, rows[1].Index)
	}

	// total always reflects the unfiltered server count
	if p.TotalCount() != 100 {
		t.Errorf("total must stay 100, got %d", p.TotalCount())
	}

	p.SetFilter("status", nil)
	if p.HasFilters() {
		t.Error("empty allow-set must remove the constraint")
	}
	if len(p.FilteredRows()) != 3 {
		t.Error("all rows visible after clearing the filter")
	}
}

func TestFiltering_MultiColumnConjunction(t *testing.T) {
	p := readyPager(t, 4,
		map[string]any{"id": float64(1), "status": "ok"},
		map[string]any{"id": float64(2), "status": "ok"},
		map[string]any{"id": float64(1), "status": "failed"},
	)
	p.SetFilter("status", []string{"ok"})
	p.SetFilter("id", []string{"1"})

	rows := p.FilteredRows()
	if len(rows) != 1 || rows[0].Index != 0 {
		t.Fatalf("expected only row 0 to pass both filters, got %v", rows)
	}
}

func TestToggleFilterValue(t *testing.T) {
	p := readyPager(t, 2,
		map[string]any{"status": "ok"},
		map[string]any{"status": "failed"},
	)
	p.ToggleFilterValue("status", "ok")
	if len(p.FilteredRows()) != 1 {
		t.Fatal("expected 1 visible row")
	}
	p.ToggleFilterValue("status", "failed")
	if len(p.FilteredRows()) != 2 {
		t.Fatal("expected both values allowed")
	}
	p.ToggleFilterValue("status", "ok")
	p.ToggleFilterValue("status", "failed")
	if p.HasFilters() {
		t.Error("removing every value must drop the constraint")
	}
}

func TestSelectionInvalidation(t *testing.T) {
	rows := []map[string]any{
		{"id": float64(1)}, {"id": float64(2)}, {"id": float64(3)},
	}

	t.Run("sort change", func(t *testing.T) {
		p := readyPager(t, 200, rows...)
		p.ToggleSelect(2)
		if p.SelectionCount() != 1 {
			t.Fatal("expected 1 selected")
		}
		p.CycleSort("id")
		if p.SelectionCount() != 0 {
			t.Errorf("sort change must clear the selection, got %d", p.SelectionCount())
		}
	})

	t.Run("page change", func(t *testing.T) {
		p := readyPager(t, 200, rows...)
		p.ToggleSelect(1)
		p.NextPage()
		if p.SelectionCount() != 0 {
			t.Error("page change must clear the selection")
		}
	})

	t.Run("filter change", func(t *testing.T) {
		p := readyPager(t, 200, rows...)
		p.ToggleSelect(0)
		p.SetFilter("id", []string{"1"})
		if p.SelectionCount() != 0 {
			t.Error("filter change must clear the selection")
		}
	})

	t.Run("mode change", func(t *testing.T) {
		p := readyPager(t, 200, rows...)
		p.ToggleSelect(0)
		p.SetMode(ModeGallery)
		if p.SelectionCount() != 0 {
			t.Error("mode change must clear the selection")
		}
	})
}

func TestToggleSelect_Bounds(t *testing.T) {
	p := readyPager(t, 2, map[string]any{"id": float64(1)})
	p.ToggleSelect(-1)
	p.ToggleSelect(5)
	if p.SelectionCount() != 0 {
		t.Error("out-of-range toggles must be ignored")
	}
	p.ToggleSelect(0)
	if !p.Selected(0) {
		t.Error("expected row 0 selected")
	}
	p.ToggleSelect(0)
	if p.Selected(0) {
		t.Error("expected row 0 deselected")
	}
}

func TestSelectedRows_FilteredAndSelectedOnly(t *testing.T) {
	p := readyPager(t, 3,
		map[string]any{"id": float64(1), "status": "ok"},
		map[string]any{"id": float64(2), "status": "failed"},
		map[string]any{"id": float64(3), "status": "ok"},
	)
	p.ToggleSelect(0)
	p.ToggleSelect(1)

	// selecting happened before filtering in this scenario, so apply the
	// filter through RowPasses without resetting selection state
	got := p.SelectedRows()
	if len(got) != 2 {
		t.Fatalf("expected 2 selected rows, got %d", len(got))
	}

	// a selected row hidden by the filter is excluded from export
	p2 := readyPager(t, 3,
		map[string]any{"id": float64(1), "status": "ok"},
		map[string]any{"id": float64(2), "status": "failed"},
	)
	p2.SetFilter("status", []string{"ok"})
	p2.ToggleSelect(0)
	p2.ToggleSelect(1)
	sel := p2.SelectedRows()
	if len(sel) != 1 || sel[0].Index != 0 {
		t.Fatalf("expected only visible row 0, got %v", sel)
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "true"},
		{float64(42), "42"},
		{float64(1.5), "1.5"},
		{int64(7), "7"},
		{3, "3"},
	}
	for _, c := range cases {
		if got := FormatValue(c.in); got != c.want {
			t.Errorf("FormatValue(%v): expected %q, got %q", c.in, c.want, got)
		}
	}
}
