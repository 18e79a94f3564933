package datasource

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matsen/modelgraph/internal/entity"
)

// File names inside a JSONL source directory.
const (
	EntitiesFile      = "entities.jsonl"
	RelationshipsFile = "relationships.jsonl"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// JSONL reads entities and relationships from JSONL files in a directory.
// Files are re-read on every call so edits show up on the next refresh.
type JSONL struct {
	dir string
}

// NewJSONL returns a source reading from dir.
func NewJSONL(dir string) *JSONL {
	return &JSONL{dir: dir}
}

// EntitiesPath returns the path to entities.jsonl in dir.
func EntitiesPath(dir string) string {
	return filepath.Join(dir, EntitiesFile)
}

// RelationshipsPath returns the path to relationships.jsonl in dir.
func RelationshipsPath(dir string) string {
	return filepath.Join(dir, RelationshipsFile)
}

// Entities reads all entities from entities.jsonl.
// A missing file is an error: a diagram needs at least one entity.
func (j *JSONL) Entities() ([]entity.Entity, error) {
	path := EntitiesPath(j.dir)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening entities file: %w", err)
	}
	return ReadAllEntities(path)
}

// Relationships reads all relationships from relationships.jsonl.
// A missing file yields no relationships.
func (j *JSONL) Relationships() ([]entity.Relationship, error) {
	return ReadAllRelationships(RelationshipsPath(j.dir))
}

// ReadAllEntities reads all entities from a JSONL file.
// Returns an error if any entity fails structural validation (fail-fast).
func ReadAllEntities(path string) ([]entity.Entity, error) {
	return readJSONL(path, "entities", func(e *entity.Entity) error {
		return e.Validate()
	})
}

// ReadAllRelationships reads all relationships from a JSONL file.
// Returns an error if any relationship fails structural validation (fail-fast).
func ReadAllRelationships(path string) ([]entity.Relationship, error) {
	return readJSONL(path, "relationships", func(r *entity.Relationship) error {
		return r.Validate()
	})
}

// readJSONL decodes one T per non-empty line, validating each as it goes.
func readJSONL[T any](path, what string, validate func(*T) error) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Empty file returns empty slice
		}
		return nil, fmt.Errorf("opening %s file: %w", what, err)
	}
	defer f.Close()

	var items []T
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", what, lineNum, err)
		}
		if err := validate(&item); err != nil {
			return nil, fmt.Errorf("invalid %s at line %d: %w", what, lineNum, err)
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s file: %w", what, err)
	}

	return items, nil
}

// WriteJSONL writes the contents of src into dir as entities.jsonl and
// relationships.jsonl, replacing existing files. Returns the counts written.
func WriteJSONL(src Source, dir string) (int, int, error) {
	entities, err := src.Entities()
	if err != nil {
		return 0, 0, fmt.Errorf("reading entities: %w", err)
	}
	rels, err := src.Relationships()
	if err != nil {
		return 0, 0, fmt.Errorf("reading relationships: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, 0, fmt.Errorf("creating directory: %w", err)
	}
	if err := writeAll(EntitiesPath(dir), entities); err != nil {
		return 0, 0, fmt.Errorf("writing entities: %w", err)
	}
	if err := writeAll(RelationshipsPath(dir), rels); err != nil {
		return 0, 0, fmt.Errorf("writing relationships: %w", err)
	}
	return len(entities), len(rels), nil
}

func writeAll[T any](path string, items []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	for i, item := range items {
		if err := writeJSONLine(w, item); err != nil {
			f.Close()
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeJSONLine marshals v to JSON and writes it as a JSONL line.
func writeJSONLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}
	return nil
}
