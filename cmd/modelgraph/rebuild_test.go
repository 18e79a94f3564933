package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matsen/modelgraph/internal/datasource"
)

func TestRebuildDatabase_ReportsStoredRows(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := datasource.WriteJSONL(datasource.NewStatic(), dir); err != nil {
		t.Fatalf("WriteJSONL() error = %v", err)
	}
	dbPath := filepath.Join(t.TempDir(), "cache", "model.db")

	result, code, err := rebuildDatabase(dir, dbPath)
	if err != nil {
		t.Fatalf("rebuildDatabase() error = %v", err)
	}
	if code != ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, ExitSuccess)
	}
	if result.Entities != 28 || result.Relationships != 27 {
		t.Errorf("counts = (%d, %d), want (28, 27)", result.Entities, result.Relationships)
	}

	// A second rebuild replaces rather than appends.
	if err := os.WriteFile(datasource.EntitiesPath(dir), []byte(`{"name":"Only"}`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(datasource.RelationshipsPath(dir)); err != nil {
		t.Fatal(err)
	}
	result, _, err = rebuildDatabase(dir, dbPath)
	if err != nil {
		t.Fatalf("second rebuildDatabase() error = %v", err)
	}
	if result.Entities != 1 || result.Relationships != 0 {
		t.Errorf("counts after second rebuild = (%d, %d), want (1, 0)", result.Entities, result.Relationships)
	}
}

func TestRebuildDatabase_BadRowIsDataError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(datasource.EntitiesPath(dir), []byte("{not json\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, code, err := rebuildDatabase(dir, filepath.Join(t.TempDir(), "model.db"))
	if err == nil {
		t.Fatal("expected error for malformed JSONL")
	}
	if code != ExitDataError {
		t.Errorf("exit code = %d, want %d", code, ExitDataError)
	}
}
