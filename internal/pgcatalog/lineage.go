package pgcatalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/catalens/catalens/internal/catalog"
)

func (s *Store) GetColumnLineage(ctx context.Context, path string) (*catalog.TableLineage, error) {
	record, err := s.GetTableMetadata(ctx, path)
	if err != nil {
		return nil, err
	}

	lineage := &catalog.TableLineage{
		Table: path,
		Nodes: []catalog.LineageNode{},
		Edges: []catalog.LineageEdge{},
	}

	names := make([]string, 0, len(record.Columns))
	for _, col := range record.Columns {
		names = append(names, col.Name)
	}

	for _, col := range record.Columns {
		lineage.Nodes = append(lineage.Nodes, lineageNode(path, col))
		if col.IsComputed {
			for _, dep := range ScanDependencies(col.ComputedWith, names) {
				if dep == col.Name {
					continue
				}
				lineage.Edges = append(lineage.Edges, catalog.LineageEdge{
					Source: path + "." + dep,
					Target: path + "." + col.Name,
				})
			}
		}
	}

	if record.Base != "" {
		if err := s.addBaseLineage(ctx, record, lineage); err != nil {
			return nil, fmt.Errorf("resolving base lineage of %q: %w", path, err)
		}
	}

	return lineage, nil
}

// lineageNode maps one column of the viewed table to a lineage node. A column
// defined in another table is inherited, so it is flagged external.
func lineageNode(path string, col catalog.ColumnDescriptor) catalog.LineageNode {
	return catalog.LineageNode{
		ID:           path + "." + col.Name,
		Name:         col.Name,
		Table:        path,
		DataType:     col.DataType,
		IsComputed:   col.IsComputed,
		ComputedWith: col.ComputedWith,
		DefinedIn:    col.DefinedIn,
		IsExternal:   col.DefinedIn != "" && col.DefinedIn != path,
	}
}

// addBaseLineage appends the base table's columns as external nodes and links
// each inherited column of the viewed table back to its base counterpart.
func (s *Store) addBaseLineage(ctx context.Context, record *catalog.TableRecord, lineage *catalog.TableLineage) error {
	baseSchema, baseRel := splitPath(record.Base)
	baseCols, err := s.tableColumns(ctx, baseSchema, baseRel)
	if err != nil {
		// tolerated: the base may live outside the visible catalog
		s.logger.Warn("base table columns unavailable, lineage shows the view only",
			"table", record.Path, "base", record.Base, "error", err)
		return nil
	}

	baseNames := make(map[string]string, len(baseCols))
	for _, col := range baseCols {
		id := record.Base + "." + col.Name
		baseNames[col.Name] = id
		lineage.Nodes = append(lineage.Nodes, catalog.LineageNode{
			ID:         id,
			Name:       col.Name,
			Table:      record.Base,
			DataType:   col.DataType,
			DefinedIn:  record.Base,
			IsExternal: true,
		})
	}

	for _, col := range record.Columns {
		if col.DefinedIn != record.Base {
			continue
		}
		if baseID, ok := baseNames[col.Name]; ok {
			lineage.Edges = append(lineage.Edges, catalog.LineageEdge{
				Source: baseID,
				Target: record.Path + "." + col.Name,
			})
		}
	}
	return nil
}

// ScanDependencies finds which of the candidate column names appear as whole
// words in a generation expression. Matches are returned sorted, longest
// names checked first so that a column named "total" is not claimed by a
// reference to "subtotal".
func ScanDependencies(expr string, candidates []string) []string {
	if expr == "" || len(candidates) == 0 {
		return nil
	}

	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	var found []string
	for _, name := range sorted {
		if name != "" && containsWord(expr, name) {
			found = append(found, name)
		}
	}
	sort.Strings(found)
	return found
}

// containsWord reports whether name occurs in expr bounded by non-identifier
// characters on both sides.
func containsWord(expr, name string) bool {
	for start := 0; ; {
		i := strings.Index(expr[start:], name)
		if i < 0 {
			return false
		}
		i += start
		before := i == 0 || !identRune(rune(expr[i-1]))
		afterIdx := i + len(name)
		after := afterIdx >= len(expr) || !identRune(rune(expr[afterIdx]))
		if before && after {
			return true
		}
		start = i + 1
	}
}

func identRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
