// Package datasource provides the entity and relationship tables the graph is built from.
package datasource

import (
	"fmt"

	"github.com/matsen/modelgraph/internal/entity"
)

// Source is the seam between the diagram data and the rest of the system.
// Implementations must return entities and relationships in a stable order.
type Source interface {
	Entities() ([]entity.Entity, error)
	Relationships() ([]entity.Relationship, error)
}

// Source kinds accepted by Open.
const (
	KindStatic = "static"
	KindJSONL  = "jsonl"
	KindSQLite = "sqlite"
)

// ValidKinds lists the supported source kinds.
var ValidKinds = []string{KindStatic, KindJSONL, KindSQLite}

// Open returns the Source for kind. For jsonl the path is a directory holding
// entities.jsonl and relationships.jsonl; for sqlite it is the database file.
// The returned close function must be called when the source is no longer needed.
func Open(kind, path string) (Source, func() error, error) {
	noop := func() error { return nil }

	switch kind {
	case "", KindStatic:
		return NewStatic(), noop, nil
	case KindJSONL:
		if path == "" {
			return nil, noop, fmt.Errorf("jsonl source requires a directory path")
		}
		return NewJSONL(path), noop, nil
	case KindSQLite:
		if path == "" {
			return nil, noop, fmt.Errorf("sqlite source requires a database path")
		}
		db, err := OpenDB(path)
		if err != nil {
			return nil, noop, err
		}
		return db, db.Close, nil
	default:
		return nil, noop, fmt.Errorf("invalid source kind %q (valid: %v)", kind, ValidKinds)
	}
}
