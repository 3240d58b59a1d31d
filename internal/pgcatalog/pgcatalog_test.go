package pgcatalog

import (
	"reflect"
	"testing"

	"github.com/catalens/catalens/internal/catalog"
)

func TestRelKind(t *testing.T) {
	cases := []struct {
		relkind string
		want    catalog.Kind
	}{
		{"r", catalog.KindTable},
		{"v", catalog.KindView},
		{"m", catalog.KindSnapshot},
		{"p", catalog.KindTable},
	}
	for _, c := range cases {
		if got := relKind(c.relkind); got != c.want {
			t.Errorf("relKind(%q) = %q, want %q", c.relkind, got, c.want)
		}
	}
}

func TestSplitPath(t *testing.T) {
	cases := []struct {
		path, schema, rel string
	}{
		{"public.users", "public", "users"},
		{"public", "public", ""},
		{"public.orders.extra", "public", "orders.extra"},
		{"", "", ""},
	}
	for _, c := range cases {
		schema, rel := splitPath(c.path)
		if schema != c.schema || rel != c.rel {
			t.Errorf("splitPath(%q) = (%q, %q), want (%q, %q)",
				c.path, schema, rel, c.schema, c.rel)
		}
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent("users"); got != `"users"` {
		t.Errorf("quoteIdent = %s", got)
	}
	if got := quoteIdent(`we"ird`); got != `"we""ird"` {
		t.Errorf("quoteIdent with embedded quote = %s", got)
	}
}

func TestHiddenSchema(t *testing.T) {
	hidden := []string{"pg_catalog", "pg_toast", "information_schema"}
	for _, name := range hidden {
		if !hiddenSchema(name) {
			t.Errorf("expected %q hidden", name)
		}
	}
	if hiddenSchema("public") {
		t.Error("public should not be hidden")
	}
	if hiddenSchema("analytics") {
		t.Error("analytics should not be hidden")
	}
}

func TestIsMediaType(t *testing.T) {
	if !isMediaType("Image") || !isMediaType("video_url") {
		t.Error("media types not detected")
	}
	if isMediaType("text") || isMediaType("bigint") {
		t.Error("scalar types flagged as media")
	}
}

func TestScanDependencies(t *testing.T) {
	candidates := []string{"price", "quantity", "total", "subtotal"}

	got := ScanDependencies("price * quantity", candidates)
	want := []string{"price", "quantity"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ScanDependencies = %v, want %v", got, want)
	}
}

func TestScanDependenciesWordBoundaries(t *testing.T) {
	candidates := []string{"total", "subtotal"}

	// "subtotal" must not also count as a "total" reference
	got := ScanDependencies("subtotal * 1.2", candidates)
	want := []string{"subtotal"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ScanDependencies = %v, want %v", got, want)
	}

	got = ScanDependencies("(total + subtotal)", candidates)
	want = []string{"subtotal", "total"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ScanDependencies = %v, want %v", got, want)
	}
}

func TestScanDependenciesEmpty(t *testing.T) {
	if got := ScanDependencies("", []string{"a"}); got != nil {
		t.Errorf("expected nil for empty expression, got %v", got)
	}
	if got := ScanDependencies("a + b", nil); got != nil {
		t.Errorf("expected nil for no candidates, got %v", got)
	}
}

func TestLineageNode(t *testing.T) {
	path := "sales.order_view"

	inherited := lineageNode(path, catalog.ColumnDescriptor{
		Name: "amount", DataType: "numeric", DefinedIn: "sales.orders",
	})
	if !inherited.IsExternal {
		t.Error("column defined in the base table must be external")
	}
	if inherited.Table != path {
		t.Errorf("node table should stay the viewed table, got %q", inherited.Table)
	}

	local := lineageNode(path, catalog.ColumnDescriptor{
		Name: "note", DataType: "text", DefinedIn: path,
	})
	if local.IsExternal {
		t.Error("column defined in the viewed table must not be external")
	}

	unknown := lineageNode(path, catalog.ColumnDescriptor{Name: "id", DataType: "bigint"})
	if unknown.IsExternal {
		t.Error("column without provenance must not be external")
	}
}

func TestColumnExists(t *testing.T) {
	cols := []catalog.ColumnDescriptor{{Name: "id"}, {Name: "status"}}
	if !columnExists(cols, "status") {
		t.Error("status should exist")
	}
	if columnExists(cols, "missing") {
		t.Error("missing should not exist")
	}
}
