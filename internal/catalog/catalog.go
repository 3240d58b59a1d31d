package catalog

import "context"

// Catalog is the read-only boundary to the metadata service. Implementations
// never mutate catalog state; every call can fail with a transport error or a
// *ServiceError carrying the service's structured error payload, and callers
// treat both uniformly as a fetch failure.
type Catalog interface {
	// ListDirectoryTree returns the complete nested directory tree.
	ListDirectoryTree(ctx context.Context) ([]*DirTreeNode, error)
	// ListDirectoryContents returns the immediate children of one directory;
	// the empty path names the root.
	ListDirectoryContents(ctx context.Context, path string) (*DirectoryContents, error)
	// GetTableMetadata returns the full metadata record of one table.
	GetTableMetadata(ctx context.Context, path string) (*TableRecord, error)
	// GetTableData returns one page of a table's rows.
	GetTableData(ctx context.Context, path string, q DataQuery) (*TableData, error)
	// GetColumnLineage returns the pre-resolved column dependency graph for
	// one table. An empty graph is a valid result, not an error.
	GetColumnLineage(ctx context.Context, path string) (*TableLineage, error)
	// Search returns up to limit pre-ranked hits per category.
	Search(ctx context.Context, query string, limit int) (*SearchResults, error)
	// GetInformationSchema returns the full-catalog flat collections.
	GetInformationSchema(ctx context.Context) (*InformationSchema, error)
	// HealthCheck verifies the catalog is reachable.
	HealthCheck(ctx context.Context) error
}
