// Package pgcatalog implements the catalog boundary directly against a
// PostgreSQL database: schemas appear as directories, relations as tables,
// views and materialized views as derived table kinds, and generated columns
// as computed columns. All access is read-only.
package pgcatalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/catalens/catalens/internal/catalog"
	"github.com/catalens/catalens/internal/config"
)

// Store is a catalog.Catalog backed by a live PostgreSQL connection.
type Store struct {
	cfg    *config.PostgresConfig
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ catalog.Catalog = (*Store)(nil)

// New creates a Store for the given connection settings.
func New(cfg *config.PostgresConfig, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{cfg: cfg, logger: logger}
}

// Connect opens the connection pool and verifies the database is reachable.
func (s *Store) Connect(ctx context.Context) error {
	connStr := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s default_query_exec_mode=simple_protocol",
		s.cfg.Host, s.cfg.Port, s.cfg.Database, s.cfg.Username, s.cfg.Password,
	)
	if s.cfg.SSL {
		connStr += " sslmode=require"
	} else {
		connStr += " sslmode=disable"
	}

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return fmt.Errorf("parsing connection string: %w", err)
	}
	poolCfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("connecting to PostgreSQL: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("pinging PostgreSQL: %w", err)
	}

	s.pool = pool
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	return nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if s.pool == nil {
		return fmt.Errorf("not connected; call Connect first")
	}
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	return nil
}

// relkind maps a pg_class relkind to a catalog entry kind: plain tables stay
// tables, views stay views, and materialized views surface as snapshots
// (frozen derived data).
func relKind(relkind string) catalog.Kind {
	switch relkind {
	case "v":
		return catalog.KindView
	case "m":
		return catalog.KindSnapshot
	default:
		return catalog.KindTable
	}
}

// splitPath splits a "schema.relation" catalog path. A bare schema name has
// an empty relation part.
func splitPath(path string) (schema, rel string) {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

// quoteIdent double-quotes an identifier for safe embedding in SQL.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// hiddenSchema filters out PostgreSQL's own namespaces.
func hiddenSchema(name string) bool {
	return name == "information_schema" ||
		strings.HasPrefix(name, "pg_")
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isMediaType flags column types whose values are URLs or blobs of media
// content, for gallery rendering.
func isMediaType(dataType string) bool {
	t := strings.ToLower(dataType)
	for _, m := range []string{"image", "video", "audio", "document"} {
		if strings.Contains(t, m) {
			return true
		}
	}
	return false
}
