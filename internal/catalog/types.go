package catalog

// Kind classifies a catalog entry.
type Kind string

const (
	KindDirectory Kind = "directory"
	KindTable     Kind = "table"
	KindView      Kind = "view"
	KindSnapshot  Kind = "snapshot"
	KindReplica   Kind = "replica"
)

// IsTableLike reports whether the kind names a table, view, snapshot, or replica.
func (k Kind) IsTableLike() bool {
	return k == KindTable || k == KindView || k == KindSnapshot || k == KindReplica
}

// CatalogEntry is one node of the directory tree: a directory or a table-like
// entry. Paths are dot-delimited and unique across the catalog; a table's
// parent directory path is its path minus the last segment.
type CatalogEntry struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Kind    Kind   `json:"type"`
	Version *int64 `json:"version,omitempty"`
}

// DirTreeNode is a CatalogEntry with nested children, as returned by the
// directory tree endpoint.
type DirTreeNode struct {
	Name     string         `json:"name"`
	Path     string         `json:"path"`
	Kind     Kind           `json:"type"`
	Version  *int64         `json:"version,omitempty"`
	Children []*DirTreeNode `json:"children,omitempty"`
}

// DirectoryContents lists the immediate children of one directory.
type DirectoryContents struct {
	Path   string         `json:"path"`
	Dirs   []CatalogEntry `json:"dirs"`
	Tables []CatalogEntry `json:"tables"`
}

// ColumnDescriptor describes one column of a table.
//
// IsComputed implies ComputedWith is non-empty. DefinedIn set and different
// from the owning table's path marks the column as inherited from a base
// table rather than locally declared.
type ColumnDescriptor struct {
	Name         string `json:"name"`
	DataType     string `json:"type"`
	IsComputed   bool   `json:"is_computed"`
	ComputedWith string `json:"computed_with,omitempty"`
	IsStored     bool   `json:"is_stored"`
	IsPrimaryKey bool   `json:"is_primary_key"`
	DefinedIn    string `json:"defined_in,omitempty"`
	VersionAdded int64  `json:"version_added"`
}

// IndexDescriptor describes one index on a table.
type IndexDescriptor struct {
	Name      string `json:"name"`
	Column    string `json:"column"`
	IndexType string `json:"type_"`
}

// TableRecord is the full metadata of one table-like entry. Base is set only
// for views, snapshots, and replicas; it may reference a path the catalog
// does not expose (dangling bases are tolerated by consumers).
type TableRecord struct {
	Path          string             `json:"path"`
	Name          string             `json:"name"`
	Kind          Kind               `json:"type"`
	Version       int64              `json:"version"`
	SchemaVersion int64              `json:"schema_version"`
	Comment       string             `json:"comment,omitempty"`
	Base          string             `json:"base,omitempty"`
	Columns       []ColumnDescriptor `json:"columns"`
	Indices       []IndexDescriptor  `json:"indices"`
}

// DataColumn describes one column of a data page. IsMedia marks columns whose
// values are URLs to image/video/audio/document content.
type DataColumn struct {
	Name     string `json:"name"`
	DataType string `json:"type"`
	IsMedia  bool   `json:"is_media"`
}

// TableData is one server-side page of a table's rows.
type TableData struct {
	Columns    []DataColumn     `json:"columns"`
	Rows       []map[string]any `json:"rows"`
	TotalCount int64            `json:"total_count"`
	Offset     int              `json:"offset"`
	Limit      int              `json:"limit"`
}

// DataQuery names the server-side paging and sorting parameters of a data
// page request. The server never re-sorts within a page; OrderBy selects the
// sort column and OrderDesc its direction.
type DataQuery struct {
	Offset    int
	Limit     int
	OrderBy   string
	OrderDesc bool
}

// LineageNode is one column node of a single table's lineage graph.
type LineageNode struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Table        string `json:"table"`
	DataType     string `json:"type"`
	IsComputed   bool   `json:"is_computed"`
	ComputedWith string `json:"computed_with,omitempty"`
	DefinedIn    string `json:"defined_in"`
	IsExternal   bool   `json:"is_external"`
}

// LineageEdge records that the target column's value is derived from the
// source column.
type LineageEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// TableLineage is the pre-resolved column dependency graph for one table.
type TableLineage struct {
	Table string        `json:"table"`
	Nodes []LineageNode `json:"nodes"`
	Edges []LineageEdge `json:"edges"`
}

// SchemaTable is the flat per-table record of the information schema.
type SchemaTable struct {
	Path          string `json:"path"`
	Name          string `json:"name"`
	Kind          Kind   `json:"type"`
	Version       int64  `json:"version"`
	SchemaVersion int64  `json:"schema_version"`
	RowCount      int64  `json:"row_count"`
	ColumnCount   int    `json:"column_count"`
	IndexCount    int    `json:"index_count"`
	Base          string `json:"base,omitempty"`
}

// SchemaColumn is the flat per-column record of the information schema; it
// carries its owning table alongside the column metadata.
type SchemaColumn struct {
	TablePath    string `json:"table_path"`
	TableName    string `json:"table_name"`
	ColumnName   string `json:"column_name"`
	DataType     string `json:"data_type"`
	IsStored     bool   `json:"is_stored"`
	IsPrimaryKey bool   `json:"is_primary_key"`
	IsComputed   bool   `json:"is_computed"`
	DefinedIn    string `json:"defined_in,omitempty"`
	VersionAdded int64  `json:"version_added"`
}

// ComputedColumn is a SchemaColumn plus its defining expression.
type ComputedColumn struct {
	SchemaColumn
	Expression string `json:"expression"`
}

// SchemaIndex is the flat per-index record of the information schema.
type SchemaIndex struct {
	TablePath string `json:"table_path"`
	TableName string `json:"table_name"`
	IndexName string `json:"index_name"`
	Column    string `json:"column"`
	IndexType string `json:"index_type"`
}

// SchemaSummary carries whole-catalog counters.
type SchemaSummary struct {
	TotalDirectories     int   `json:"total_directories"`
	TotalTables          int   `json:"total_tables"`
	TotalRows            int64 `json:"total_rows"`
	TotalColumns         int   `json:"total_columns"`
	TotalIndices         int   `json:"total_indices"`
	TotalComputedColumns int   `json:"total_computed_columns"`
}

// InformationSchema is the full-catalog flat view consumed by the ER graph
// builder and the schema command.
type InformationSchema struct {
	Tables          []SchemaTable    `json:"tables"`
	Columns         []SchemaColumn   `json:"columns"`
	Indices         []SchemaIndex    `json:"indices"`
	ComputedColumns []ComputedColumn `json:"computed_columns"`
	Summary         SchemaSummary    `json:"summary"`
}

// DirectoryResult is one directory hit of a search.
type DirectoryResult struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// TableResult is one table hit of a search.
type TableResult struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Kind Kind   `json:"type"`
}

// ColumnResult is one column hit of a search. Columns are a search
// convenience over the table they belong to: activating one navigates to
// Table, not to a column-specific target.
type ColumnResult struct {
	Name       string `json:"name"`
	Table      string `json:"table"`
	DataType   string `json:"type"`
	IsComputed bool   `json:"is_computed"`
}

// SearchResults holds the three pre-ranked result collections for one query.
type SearchResults struct {
	Query       string            `json:"query"`
	Directories []DirectoryResult `json:"directories"`
	Tables      []TableResult     `json:"tables"`
	Columns     []ColumnResult    `json:"columns"`
}

// ParentPath returns the directory path containing the given path, or ""
// for a top-level path.
func ParentPath(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return ""
}

// BaseName returns the last segment of a dot-delimited path.
func BaseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i+1:]
		}
	}
	return path
}
