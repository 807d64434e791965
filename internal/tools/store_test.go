package tools

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

func TestStore_ReadFile(t *testing.T) {
	store := NewSeededStore()

	content, err := store.ReadFile("/docs/readme.md")
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if content != "Welcome!\n" {
		t.Fatalf("unexpected content: %q", content)
	}

	_, err = store.ReadFile("/configs/missing.yaml")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if err.Error() != "File not found: /configs/missing.yaml" {
		t.Fatalf("unexpected error text: %q", err.Error())
	}
}

func TestStore_SearchFiles(t *testing.T) {
	store := NewSeededStore()

	cases := []struct {
		query   string
		matches []string
	}{
		{"yaml", []string{"/configs/app.yaml"}},
		{"CONFIGS", []string{"/configs/app.yaml"}},
		{"missing.yaml", []string{}},
		{"/", []string{"/configs/app.yaml", "/docs/readme.md"}},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			got := store.SearchFiles(tc.query)
			if !reflect.DeepEqual(got, tc.matches) {
				t.Fatalf("SearchFiles(%q) = %v, expected %v", tc.query, got, tc.matches)
			}
		})
	}
}

func TestStore_DeleteFile(t *testing.T) {
	store := NewSeededStore()

	if err := store.DeleteFile("/configs/app.yaml"); err != nil {
		t.Fatalf("DeleteFile error: %v", err)
	}
	if _, err := store.ReadFile("/configs/app.yaml"); err == nil {
		t.Fatal("expected file to be gone")
	}
	if err := store.DeleteFile("/configs/app.yaml"); err == nil {
		t.Fatal("expected error deleting missing file")
	}
}

func TestStore_Records(t *testing.T) {
	store := NewSeededStore()

	record, err := store.GetRecord("user:123")
	if err != nil {
		t.Fatalf("GetRecord error: %v", err)
	}
	if record["plan"] != "pro" {
		t.Fatalf("unexpected plan: %q", record["plan"])
	}

	updated, err := store.UpdateRecord("user:123", "plan", "free")
	if err != nil {
		t.Fatalf("UpdateRecord error: %v", err)
	}
	if updated["plan"] != "free" || updated["status"] != "active" {
		t.Fatalf("unexpected record after patch: %v", updated)
	}

	if _, err := store.GetRecord("user:999"); err == nil {
		t.Fatal("expected not-found error")
	}
	if _, err := store.UpdateRecord("user:999", "plan", "free"); err == nil {
		t.Fatal("expected not-found error on update")
	}
}

func TestStore_GetRecordReturnsCopy(t *testing.T) {
	store := NewSeededStore()

	record, err := store.GetRecord("order:999")
	if err != nil {
		t.Fatalf("GetRecord error: %v", err)
	}
	record["state"] = "lost"

	again, err := store.GetRecord("order:999")
	if err != nil {
		t.Fatalf("GetRecord error: %v", err)
	}
	if again["state"] != "shipped" {
		t.Fatalf("store mutated through returned copy: %v", again)
	}
}

func TestSplitPatch(t *testing.T) {
	field, value, err := SplitPatch("plan=free")
	if err != nil {
		t.Fatalf("SplitPatch error: %v", err)
	}
	if field != "plan" || value != "free" {
		t.Fatalf("unexpected split: %q=%q", field, value)
	}

	if _, _, err := SplitPatch("plan"); err == nil {
		t.Fatal("expected error without equals sign")
	}
	if _, _, err := SplitPatch("=free"); err == nil {
		t.Fatal("expected error without field")
	}
}

func TestRegistry_ProviderTools(t *testing.T) {
	registry := NewRegistry()
	if err := RegisterProviderTools(registry, NewSeededStore()); err != nil {
		t.Fatalf("RegisterProviderTools error: %v", err)
	}

	expected := []string{"delete_file", "get_record", "read_file", "search_files", "update_record"}
	if !reflect.DeepEqual(registry.Names(), expected) {
		t.Fatalf("unexpected registry names: %v", registry.Names())
	}

	result, err := registry.Execute(context.Background(), "read_file", `{"path":"/docs/readme.md"}`)
	if err != nil {
		t.Fatalf("Execute read_file error: %v", err)
	}
	if !strings.Contains(result, "Welcome!") {
		t.Fatalf("unexpected read_file result: %q", result)
	}

	if _, err := registry.Execute(context.Background(), "read_file", `{"path":"/configs/missing.yaml"}`); err == nil {
		t.Fatal("expected read_file error for missing path")
	}

	if _, err := registry.Execute(context.Background(), "format_disk", `{}`); err == nil {
		t.Fatal("expected unknown tool error")
	}
}
