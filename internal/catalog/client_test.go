package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, body := range routes {
		b := body
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(b))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetTableMetadata(t *testing.T) {
	srv := testServer(t, map[string]string{
		"/api/tables/media.images": `{
			"path": "media.images", "name": "images", "type": "table",
			"version": 12, "schema_version": 3,
			"columns": [
				{"name": "raw", "type": "image", "is_computed": false, "is_stored": true, "version_added": 0},
				{"name": "thumb", "type": "image", "is_computed": true, "computed_with": "resize(raw, 128)", "is_stored": true, "version_added": 2}
			],
			"indices": [{"name": "idx_raw", "column": "raw", "type_": "btree"}]
		}`,
	})

	c := NewClient(srv.URL)
	rec, err := c.GetTableMetadata(context.Background(), "media.images")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Path != "media.images" || rec.Kind != KindTable {
		t.Errorf("unexpected record: %+v", rec)
	}
	if len(rec.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(rec.Columns))
	}
	if !rec.Columns[1].IsComputed || rec.Columns[1].ComputedWith == "" {
		t.Errorf("computed column not decoded: %+v", rec.Columns[1])
	}
	if len(rec.Indices) != 1 || rec.Indices[0].IndexType != "btree" {
		t.Errorf("indices not decoded: %+v", rec.Indices)
	}
}

func TestClient_GetTableMetadata_EmptyPath(t *testing.T) {
	c := NewClient("http://unused")
	if _, err := c.GetTableMetadata(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestClient_GetTableData_Params(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"columns": [], "rows": [], "total_count": 0, "offset": 100, "limit": 50}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetTableData(context.Background(), "t", DataQuery{
		Offset: 100, Limit: 50, OrderBy: "id", OrderDesc: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"offset=100", "limit=50", "order_by=id", "order_desc=true"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestClient_GetTableData_CapsLimit(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"columns": [], "rows": [], "total_count": 0}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.GetTableData(context.Background(), "t", DataQuery{Limit: 10000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotQuery, "limit=500") {
		t.Errorf("limit must be capped at 500, got %q", gotQuery)
	}
}

func TestClient_Search(t *testing.T) {
	srv := testServer(t, map[string]string{
		"/api/search": `{
			"query": "img",
			"directories": [{"path": "media", "name": "media"}],
			"tables": [{"path": "media.images", "name": "images", "type": "table"}],
			"columns": [{"name": "img_url", "table": "docs.pages", "type": "string", "is_computed": false}]
		}`,
	})

	c := NewClient(srv.URL)
	res, err := c.Search(context.Background(), "img", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Directories) != 1 || len(res.Tables) != 1 || len(res.Columns) != 1 {
		t.Errorf("unexpected result sizes: %+v", res)
	}
}

func TestClient_Search_EmptyQuery(t *testing.T) {
	c := NewClient("http://unused")
	res, err := c.Search(context.Background(), "", 50)
	if err != nil {
		t.Fatalf("empty query must not hit the network: %v", err)
	}
	if len(res.Directories)+len(res.Tables)+len(res.Columns) != 0 {
		t.Error("empty query must return empty results")
	}
}

func TestClient_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "table not found: missing.table"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetTableMetadata(context.Background(), "missing.table")
	if err == nil {
		t.Fatal("expected error")
	}

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %T: %v", err, err)
	}
	if svcErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", svcErr.StatusCode)
	}
	if svcErr.Message != "table not found: missing.table" {
		t.Errorf("payload message must be preserved, got %q", svcErr.Message)
	}
}

func TestClient_TransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1") // nothing listens here
	_, err := c.ListDirectoryTree(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		t.Error("transport failures must not be ServiceErrors")
	}
}

func TestClient_HealthCheck(t *testing.T) {
	srv := testServer(t, map[string]string{
		"/api/health": `{"status": "ok"}`,
	})
	c := NewClient(srv.URL)
	if err := c.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEscapePath(t *testing.T) {
	if got := escapePath("a.b c.d"); got != "a.b%20c.d" {
		t.Errorf("expected segments escaped with dots intact, got %q", got)
	}
}
