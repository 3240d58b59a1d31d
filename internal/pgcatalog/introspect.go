package pgcatalog

import (
	"context"
	"fmt"

	"github.com/catalens/catalens/internal/catalog"
)

// listSchemas returns all user-visible schema names, sorted. A configured
// schema restricts the catalog to that one namespace.
func (s *Store) listSchemas(ctx context.Context) ([]string, error) {
	if s.cfg.Schema != "" {
		return []string{s.cfg.Schema}, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT nspname FROM pg_namespace ORDER BY nspname`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schemas []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if !hiddenSchema(name) {
			schemas = append(schemas, name)
		}
	}
	return schemas, rows.Err()
}

// listRelations returns all tables, views, and materialized views, optionally
// restricted to one schema.
func (s *Store) listRelations(ctx context.Context, schema string) ([]catalog.CatalogEntry, error) {
	if schema == "" {
		schema = s.cfg.Schema
	}
	query := `
		SELECT n.nspname, c.relname, c.relkind::text
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relkind IN ('r', 'v', 'm')
		  AND ($1 = '' OR n.nspname = $1)
		ORDER BY n.nspname, c.relname`

	rows, err := s.pool.Query(ctx, query, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []catalog.CatalogEntry
	for rows.Next() {
		var ns, rel, kind string
		if err := rows.Scan(&ns, &rel, &kind); err != nil {
			return nil, err
		}
		if hiddenSchema(ns) {
			continue
		}
		entries = append(entries, catalog.CatalogEntry{
			Name: rel,
			Path: ns + "." + rel,
			Kind: relKind(kind),
		})
	}
	return entries, rows.Err()
}

func (s *Store) ListDirectoryTree(ctx context.Context) ([]*catalog.DirTreeNode, error) {
	schemas, err := s.listSchemas(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing schemas: %w", err)
	}
	tables, err := s.listRelations(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing relations: %w", err)
	}
	return catalog.BuildDirTree(schemas, tables), nil
}

func (s *Store) ListDirectoryContents(ctx context.Context, path string) (*catalog.DirectoryContents, error) {
	contents := &catalog.DirectoryContents{Path: path}

	if path == "" {
		schemas, err := s.listSchemas(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing schemas: %w", err)
		}
		for _, name := range schemas {
			contents.Dirs = append(contents.Dirs, catalog.CatalogEntry{
				Name: name,
				Path: name,
				Kind: catalog.KindDirectory,
			})
		}
		return contents, nil
	}

	schema, rel := splitPath(path)
	if rel != "" {
		return nil, fmt.Errorf("%q is not a directory", path)
	}
	tables, err := s.listRelations(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("listing contents of %q: %w", path, err)
	}
	contents.Tables = tables
	return contents, nil
}

func (s *Store) GetTableMetadata(ctx context.Context, path string) (*catalog.TableRecord, error) {
	schema, rel := splitPath(path)
	if rel == "" {
		return nil, fmt.Errorf("table path is required")
	}

	var relkind string
	err := s.pool.QueryRow(ctx, `
		SELECT c.relkind::text
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2 AND c.relkind IN ('r', 'v', 'm')`,
		schema, rel).Scan(&relkind)
	if err != nil {
		return nil, fmt.Errorf("looking up %q: %w", path, err)
	}

	record := &catalog.TableRecord{
		Path: path,
		Name: rel,
		Kind: relKind(relkind),
	}

	cols, err := s.tableColumns(ctx, schema, rel)
	if err != nil {
		return nil, fmt.Errorf("reading columns of %q: %w", path, err)
	}
	record.Columns = cols

	if record.Kind == catalog.KindView || record.Kind == catalog.KindSnapshot {
		base, err := s.viewBase(ctx, schema, rel)
		if err != nil {
			return nil, fmt.Errorf("resolving base of %q: %w", path, err)
		}
		record.Base = base
		if base != "" {
			s.markInherited(ctx, schema, rel, base, record.Columns)
		}
	}

	indices, err := s.tableIndices(ctx, schema, rel)
	if err != nil {
		return nil, fmt.Errorf("reading indices of %q: %w", path, err)
	}
	record.Indices = indices

	return record, nil
}

// tableColumns reads all columns including generated-column expressions,
// which surface as computed columns.
func (s *Store) tableColumns(ctx context.Context, schema, rel string) ([]catalog.ColumnDescriptor, error) {
	query := `
		SELECT
			a.attname,
			format_type(a.atttypid, a.atttypmod),
			a.attgenerated != '',
			COALESCE(pg_get_expr(d.adbin, d.adrelid), ''),
			COALESCE((
				SELECT true FROM pg_index i
				WHERE i.indrelid = a.attrelid AND i.indisprimary
				  AND a.attnum = ANY(i.indkey)
			), false)
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
		WHERE n.nspname = $1 AND c.relname = $2
		  AND a.attnum > 0 AND NOT a.attisdropped
		ORDER BY a.attnum`

	rows, err := s.pool.Query(ctx, query, schema, rel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []catalog.ColumnDescriptor
	for rows.Next() {
		var (
			name, dataType, expr string
			isGenerated, isPK    bool
		)
		if err := rows.Scan(&name, &dataType, &isGenerated, &expr, &isPK); err != nil {
			return nil, err
		}
		col := catalog.ColumnDescriptor{
			Name:         name,
			DataType:     dataType,
			IsStored:     true,
			IsPrimaryKey: isPK,
			DefinedIn:    schema + "." + rel,
		}
		if isGenerated {
			col.IsComputed = true
			col.ComputedWith = expr
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

// viewBase resolves the first base relation a view or materialized view
// draws from. A view over catalog-invisible relations has no base.
func (s *Store) viewBase(ctx context.Context, schema, rel string) (string, error) {
	query := `
		SELECT DISTINCT sn.nspname, sc.relname
		FROM pg_rewrite rw
		JOIN pg_class c ON c.oid = rw.ev_class
		JOIN pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_depend dep ON dep.objid = rw.oid AND dep.classid = 'pg_rewrite'::regclass
		JOIN pg_class sc ON sc.oid = dep.refobjid AND dep.refclassid = 'pg_class'::regclass
		JOIN pg_namespace sn ON sn.oid = sc.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2
		  AND sc.relname != c.relname
		  AND sc.relkind IN ('r', 'v', 'm')
		ORDER BY sn.nspname, sc.relname
		LIMIT 1`

	var baseSchema, baseRel string
	err := s.pool.QueryRow(ctx, query, schema, rel).Scan(&baseSchema, &baseRel)
	if err != nil {
		// no dependency rows means no resolvable base; tolerate it
		if isNoRows(err) {
			return "", nil
		}
		return "", err
	}
	if hiddenSchema(baseSchema) {
		return "", nil
	}
	return baseSchema + "." + baseRel, nil
}

// markInherited flags view columns that pass a base column straight through
// as defined in the base relation.
func (s *Store) markInherited(ctx context.Context, schema, rel, base string, cols []catalog.ColumnDescriptor) {
	baseSchema, baseRel := splitPath(base)
	query := `
		SELECT column_name
		FROM information_schema.view_column_usage
		WHERE view_schema = $1 AND view_name = $2
		  AND table_schema = $3 AND table_name = $4`

	rows, err := s.pool.Query(ctx, query, schema, rel, baseSchema, baseRel)
	if err != nil {
		// column provenance degrades to "all local" when the lookup fails
		s.logger.Warn("column provenance lookup failed",
			"view", schema+"."+rel, "base", base, "error", err)
		return
	}
	defer rows.Close()

	inherited := make(map[string]bool)
	for rows.Next() {
		var name string
		if rows.Scan(&name) == nil {
			inherited[name] = true
		}
	}

	for i := range cols {
		if inherited[cols[i].Name] && !cols[i].IsComputed {
			cols[i].DefinedIn = base
		}
	}
}

func (s *Store) tableIndices(ctx context.Context, schema, rel string) ([]catalog.IndexDescriptor, error) {
	query := `
		SELECT
			ic.relname,
			COALESCE(string_agg(a.attname, ', ' ORDER BY a.attnum), ''),
			am.amname
		FROM pg_index i
		JOIN pg_class ic ON ic.oid = i.indexrelid
		JOIN pg_class tc ON tc.oid = i.indrelid
		JOIN pg_namespace n ON n.oid = tc.relnamespace
		JOIN pg_am am ON am.oid = ic.relam
		LEFT JOIN pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = ANY(i.indkey)
		WHERE n.nspname = $1 AND tc.relname = $2
		GROUP BY ic.relname, am.amname
		ORDER BY ic.relname`

	rows, err := s.pool.Query(ctx, query, schema, rel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indices []catalog.IndexDescriptor
	for rows.Next() {
		var idx catalog.IndexDescriptor
		if err := rows.Scan(&idx.Name, &idx.Column, &idx.IndexType); err != nil {
			return nil, err
		}
		indices = append(indices, idx)
	}
	return indices, rows.Err()
}

func (s *Store) GetInformationSchema(ctx context.Context) (*catalog.InformationSchema, error) {
	schemas, err := s.listSchemas(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing schemas: %w", err)
	}
	entries, err := s.listRelations(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing relations: %w", err)
	}

	rowCounts, err := s.rowEstimates(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading row estimates: %w", err)
	}

	info := &catalog.InformationSchema{}
	info.Summary.TotalDirectories = len(schemas)

	for _, entry := range entries {
		record, err := s.GetTableMetadata(ctx, entry.Path)
		if err != nil {
			// skip relations that vanish mid-scan
			continue
		}

		rc := rowCounts[entry.Path]
		info.Tables = append(info.Tables, catalog.SchemaTable{
			Path:        entry.Path,
			Name:        entry.Name,
			Kind:        entry.Kind,
			RowCount:    rc,
			ColumnCount: len(record.Columns),
			IndexCount:  len(record.Indices),
			Base:        record.Base,
		})
		info.Summary.TotalTables++
		info.Summary.TotalRows += rc

		for _, col := range record.Columns {
			sc := catalog.SchemaColumn{
				TablePath:    entry.Path,
				TableName:    entry.Name,
				ColumnName:   col.Name,
				DataType:     col.DataType,
				IsStored:     col.IsStored,
				IsPrimaryKey: col.IsPrimaryKey,
				IsComputed:   col.IsComputed,
				VersionAdded: col.VersionAdded,
			}
			if col.DefinedIn != entry.Path {
				sc.DefinedIn = col.DefinedIn
			}
			info.Columns = append(info.Columns, sc)
			info.Summary.TotalColumns++

			if col.IsComputed {
				info.ComputedColumns = append(info.ComputedColumns, catalog.ComputedColumn{
					SchemaColumn: sc,
					Expression:   col.ComputedWith,
				})
				info.Summary.TotalComputedColumns++
			}
		}

		for _, idx := range record.Indices {
			info.Indices = append(info.Indices, catalog.SchemaIndex{
				TablePath: entry.Path,
				TableName: entry.Name,
				IndexName: idx.Name,
				Column:    idx.Column,
				IndexType: idx.IndexType,
			})
			info.Summary.TotalIndices++
		}
	}

	return info, nil
}

// rowEstimates returns reltuples-based row counts keyed by path.
func (s *Store) rowEstimates(ctx context.Context) (map[string]int64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT n.nspname, c.relname, c.reltuples::bigint
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relkind IN ('r', 'v', 'm')`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var ns, rel string
		var estimate int64
		if err := rows.Scan(&ns, &rel, &estimate); err != nil {
			return nil, err
		}
		// reltuples is -1 for never-analyzed tables
		if estimate < 0 {
			estimate = 0
		}
		counts[ns+"."+rel] = estimate
	}
	return counts, rows.Err()
}
