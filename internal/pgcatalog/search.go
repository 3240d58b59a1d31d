package pgcatalog

import (
	"context"
	"fmt"

	"github.com/catalens/catalens/internal/catalog"
)

func (s *Store) Search(ctx context.Context, query string, limit int) (*catalog.SearchResults, error) {
	results := &catalog.SearchResults{
		Query:       query,
		Directories: []catalog.DirectoryResult{},
		Tables:      []catalog.TableResult{},
		Columns:     []catalog.ColumnResult{},
	}
	if query == "" {
		return results, nil
	}
	if limit <= 0 || limit > catalog.MaxSearchLimit {
		limit = catalog.MaxSearchLimit
	}
	pattern := "%" + query + "%"

	dirRows, err := s.pool.Query(ctx, `
		SELECT nspname FROM pg_namespace
		WHERE nspname ILIKE $1 AND ($3 = '' OR nspname = $3)
		ORDER BY nspname
		LIMIT $2`, pattern, limit, s.cfg.Schema)
	if err != nil {
		return nil, fmt.Errorf("searching directories: %w", err)
	}
	for dirRows.Next() {
		var name string
		if err := dirRows.Scan(&name); err != nil {
			dirRows.Close()
			return nil, err
		}
		if hiddenSchema(name) {
			continue
		}
		results.Directories = append(results.Directories, catalog.DirectoryResult{
			Path: name,
			Name: name,
		})
	}
	dirRows.Close()
	if err := dirRows.Err(); err != nil {
		return nil, err
	}

	tableRows, err := s.pool.Query(ctx, `
		SELECT n.nspname, c.relname, c.relkind::text
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relkind IN ('r', 'v', 'm') AND c.relname ILIKE $1
		  AND ($3 = '' OR n.nspname = $3)
		ORDER BY n.nspname, c.relname
		LIMIT $2`, pattern, limit, s.cfg.Schema)
	if err != nil {
		return nil, fmt.Errorf("searching tables: %w", err)
	}
	for tableRows.Next() {
		var ns, rel, kind string
		if err := tableRows.Scan(&ns, &rel, &kind); err != nil {
			tableRows.Close()
			return nil, err
		}
		if hiddenSchema(ns) {
			continue
		}
		results.Tables = append(results.Tables, catalog.TableResult{
			Path: ns + "." + rel,
			Name: rel,
			Kind: relKind(kind),
		})
	}
	tableRows.Close()
	if err := tableRows.Err(); err != nil {
		return nil, err
	}

	colRows, err := s.pool.Query(ctx, `
		SELECT n.nspname, c.relname, a.attname,
		       format_type(a.atttypid, a.atttypmod),
		       a.attgenerated != ''
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relkind IN ('r', 'v', 'm')
		  AND a.attnum > 0 AND NOT a.attisdropped
		  AND a.attname ILIKE $1
		  AND ($3 = '' OR n.nspname = $3)
		ORDER BY n.nspname, c.relname, a.attnum
		LIMIT $2`, pattern, limit, s.cfg.Schema)
	if err != nil {
		return nil, fmt.Errorf("searching columns: %w", err)
	}
	defer colRows.Close()
	for colRows.Next() {
		var ns, rel, col, dataType string
		var isComputed bool
		if err := colRows.Scan(&ns, &rel, &col, &dataType, &isComputed); err != nil {
			return nil, err
		}
		if hiddenSchema(ns) {
			continue
		}
		results.Columns = append(results.Columns, catalog.ColumnResult{
			Name:       col,
			Table:      ns + "." + rel,
			DataType:   dataType,
			IsComputed: isComputed,
		})
	}
	if err := colRows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
