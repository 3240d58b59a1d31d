// Package search merges the catalog's three search result collections into
// one ordered, keyboard-navigable index.
package search

import (
	"github.com/catalens/catalens/internal/catalog"
)

// ItemKind tags one entry of the flattened result list.
type ItemKind int

const (
	ItemDirectory ItemKind = iota
	ItemTable
	ItemColumn
)

// Item is one flattened search result. Exactly one of Directory, Table,
// Column is set, matching Kind.
type Item struct {
	Kind      ItemKind
	Directory *catalog.DirectoryResult
	Table     *catalog.TableResult
	Column    *catalog.ColumnResult
}

// Name returns the display name of the item.
func (it Item) Name() string {
	switch it.Kind {
	case ItemDirectory:
		return it.Directory.Name
	case ItemTable:
		return it.Table.Name
	default:
		return it.Column.Name
	}
}

// TargetPath resolves the item to its navigation target. A column resolves
// to its owning table's path: column entries are a search convenience over
// the table they belong to, not independently navigable entities.
func (it Item) TargetPath() string {
	switch it.Kind {
	case ItemDirectory:
		return it.Directory.Path
	case ItemTable:
		return it.Table.Path
	default:
		return it.Column.Table
	}
}

// TargetKind returns the catalog kind of the navigation target.
func (it Item) TargetKind() catalog.Kind {
	switch it.Kind {
	case ItemDirectory:
		return catalog.KindDirectory
	case ItemTable:
		return it.Table.Kind
	default:
		return catalog.KindTable
	}
}

// Index is the flattened view over one query's result set. It is rebuilt
// whenever a new result set arrives; offsets are always derived from the
// current group sizes, never cached across result sets.
type Index struct {
	results *catalog.SearchResults
}

// NewIndex wraps a result set. A nil result set behaves as empty.
func NewIndex(results *catalog.SearchResults) *Index {
	return &Index{results: results}
}

// Len returns the flattened result count.
func (x *Index) Len() int {
	if x.results == nil {
		return 0
	}
	return len(x.results.Directories) + len(x.results.Tables) + len(x.results.Columns)
}

// TableOffset returns the flattened index of the first table result.
func (x *Index) TableOffset() int {
	if x.results == nil {
		return 0
	}
	return len(x.results.Directories)
}

// ColumnOffset returns the flattened index of the first column result.
func (x *Index) ColumnOffset() int {
	if x.results == nil {
		return 0
	}
	return len(x.results.Directories) + len(x.results.Tables)
}

// At returns the item at flattened index i. The bool result is false when i
// is out of range.
func (x *Index) At(i int) (Item, bool) {
	if x.results == nil || i < 0 || i >= x.Len() {
		return Item{}, false
	}

	d := len(x.results.Directories)
	t := len(x.results.Tables)
	switch {
	case i < d:
		return Item{Kind: ItemDirectory, Directory: &x.results.Directories[i]}, true
	case i < d+t:
		return Item{Kind: ItemTable, Table: &x.results.Tables[i-d]}, true
	default:
		return Item{Kind: ItemColumn, Column: &x.results.Columns[i-d-t]}, true
	}
}

// Items returns the full flattened list in group order: directories, tables,
// columns, each preserving within-group order as received.
func (x *Index) Items() []Item {
	items := make([]Item, 0, x.Len())
	for i := 0; i < x.Len(); i++ {
		it, _ := x.At(i)
		items = append(items, it)
	}
	return items
}

// Clamp constrains a selection index to [0, Len-1]. An empty index clamps
// everything to 0.
func (x *Index) Clamp(i int) int {
	if i < 0 {
		return 0
	}
	if n := x.Len(); i >= n {
		if n == 0 {
			return 0
		}
		return n - 1
	}
	return i
}
