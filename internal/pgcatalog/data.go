package pgcatalog

import (
	"context"
	"fmt"

	"github.com/catalens/catalens/internal/catalog"
)

func (s *Store) GetTableData(ctx context.Context, path string, query catalog.DataQuery) (*catalog.TableData, error) {
	schema, rel := splitPath(path)
	if rel == "" {
		return nil, fmt.Errorf("table path is required")
	}

	cols, err := s.tableColumns(ctx, schema, rel)
	if err != nil {
		return nil, fmt.Errorf("reading columns of %q: %w", path, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q not found", path)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > catalog.MaxDataLimit {
		limit = catalog.MaxDataLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	target := quoteIdent(schema) + "." + quoteIdent(rel)

	var total int64
	if err := s.pool.QueryRow(ctx,
		"SELECT count(*) FROM "+target).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting rows of %q: %w", path, err)
	}

	sql := "SELECT * FROM " + target
	if query.OrderBy != "" {
		if !columnExists(cols, query.OrderBy) {
			return nil, fmt.Errorf("unknown sort column %q", query.OrderBy)
		}
		sql += " ORDER BY " + quoteIdent(query.OrderBy)
		if query.OrderDesc {
			sql += " DESC"
		}
	}
	sql += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("reading rows of %q: %w", path, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	data := &catalog.TableData{
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
		Rows:       []map[string]any{},
	}
	for i, f := range fields {
		dataType := "text"
		if i < len(cols) && cols[i].Name == f.Name {
			dataType = cols[i].DataType
		}
		data.Columns = append(data.Columns, catalog.DataColumn{
			Name:     f.Name,
			DataType: dataType,
			IsMedia:  isMediaType(dataType),
		})
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scanning row of %q: %w", path, err)
		}
		row := make(map[string]any, len(fields))
		for i, f := range fields {
			row[f.Name] = values[i]
		}
		data.Rows = append(data.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows of %q: %w", path, err)
	}

	return data, nil
}

func columnExists(cols []catalog.ColumnDescriptor, name string) bool {
	for _, c := range cols {
		if c.Name == name {
			return true
		}
	}
	return false
}
