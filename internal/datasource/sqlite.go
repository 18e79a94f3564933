package datasource

import (
	"database/sql"
	"fmt"

	"github.com/matsen/modelgraph/internal/entity"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database holding a query copy of the diagram tables.
// JSONL stays the source of truth; the database is rebuilt from it.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
// The position columns preserve source table order.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS entities (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			color TEXT NOT NULL DEFAULT '',
			size INTEGER NOT NULL DEFAULT 0,
			shape TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS relationships (
			position INTEGER PRIMARY KEY,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			direction TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_relationships_source ON relationships(source);
		CREATE INDEX IF NOT EXISTS idx_relationships_target ON relationships(target);
	`
	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL directory.
// Returns the number of entities and relationships loaded.
func (d *DB) RebuildFromJSONL(dir string) (int, int, error) {
	return d.RebuildFrom(NewJSONL(dir))
}

// RebuildFrom clears the database and reloads it from src in a single transaction.
func (d *DB) RebuildFrom(src Source) (int, int, error) {
	entities, err := src.Entities()
	if err != nil {
		return 0, 0, fmt.Errorf("reading entities: %w", err)
	}
	rels, err := src.Relationships()
	if err != nil {
		return 0, 0, fmt.Errorf("reading relationships: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec("DELETE FROM entities"); err != nil {
		return 0, 0, fmt.Errorf("clearing entities table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM relationships"); err != nil {
		return 0, 0, fmt.Errorf("clearing relationships table: %w", err)
	}

	entStmt, err := tx.Prepare(`
		INSERT INTO entities (position, name, color, size, shape, title)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing entities insert: %w", err)
	}
	defer entStmt.Close()

	for i, e := range entities {
		if _, err := entStmt.Exec(i, e.Name, e.Color, e.Size, e.Shape, e.Title); err != nil {
			return 0, 0, fmt.Errorf("inserting entity %q: %w", e.Name, err)
		}
	}

	relStmt, err := tx.Prepare(`
		INSERT INTO relationships (position, source, target, label, direction)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing relationships insert: %w", err)
	}
	defer relStmt.Close()

	for i, r := range rels {
		if _, err := relStmt.Exec(i, r.Source, r.Target, r.Label, r.Direction); err != nil {
			return 0, 0, fmt.Errorf("inserting relationship %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(entities), len(rels), nil
}

// Entities returns all entities in table order.
func (d *DB) Entities() ([]entity.Entity, error) {
	rows, err := d.db.Query(`
		SELECT name, color, size, shape, title
		FROM entities
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var out []entity.Entity
	for rows.Next() {
		var e entity.Entity
		if err := rows.Scan(&e.Name, &e.Color, &e.Size, &e.Shape, &e.Title); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Relationships returns all relationships in table order.
func (d *DB) Relationships() ([]entity.Relationship, error) {
	rows, err := d.db.Query(`
		SELECT source, target, label, direction
		FROM relationships
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying relationships: %w", err)
	}
	defer rows.Close()

	return scanRelationships(rows)
}

// Counts returns the number of entities and relationships stored.
func (d *DB) Counts() (int, int, error) {
	var entities, rels int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM entities").Scan(&entities); err != nil {
		return 0, 0, fmt.Errorf("counting entities: %w", err)
	}
	if err := d.db.QueryRow("SELECT COUNT(*) FROM relationships").Scan(&rels); err != nil {
		return 0, 0, fmt.Errorf("counting relationships: %w", err)
	}
	return entities, rels, nil
}

func scanRelationships(rows *sql.Rows) ([]entity.Relationship, error) {
	var out []entity.Relationship
	for rows.Next() {
		var r entity.Relationship
		if err := rows.Scan(&r.Source, &r.Target, &r.Label, &r.Direction); err != nil {
			return nil, fmt.Errorf("scanning relationship: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
