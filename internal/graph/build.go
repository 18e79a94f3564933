package graph

import (
	"errors"
	"fmt"

	"github.com/matsen/modelgraph/internal/datasource"
	"github.com/matsen/modelgraph/internal/entity"
)

// ErrNoEntities is returned when Build is given an empty entity table.
var ErrNoEntities = errors.New("at least one entity is required")

// ReferentialIntegrityError reports a relationship endpoint that names no entity.
type ReferentialIntegrityError struct {
	Key      string // The missing entity name
	Endpoint string // "source" or "target"
	Index    int    // Position of the relationship in its table
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("relationship %d references unknown %s entity %q", e.Index, e.Endpoint, e.Key)
}

// DuplicateEntityError reports an entity name that appears more than once.
type DuplicateEntityError struct {
	Name  string
	Index int
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("entity %d: duplicate name %q", e.Index, e.Name)
}

// Build constructs a directed graph from an entity table and a relationship list.
// Every relationship endpoint must name an entity; otherwise Build returns a
// *ReferentialIntegrityError and no graph. Node and edge order follow the input order.
func Build(entities []entity.Entity, rels []entity.Relationship) (*Graph, error) {
	if len(entities) == 0 {
		return nil, ErrNoEntities
	}

	g := &Graph{
		nodes: make([]Node, 0, len(entities)),
		edges: make([]Edge, 0, len(rels)),
		index: make(map[string]int, len(entities)),
	}

	for i, e := range entities {
		if _, dup := g.index[e.Name]; dup {
			return nil, &DuplicateEntityError{Name: e.Name, Index: i}
		}
		g.index[e.Name] = len(g.nodes)
		g.nodes = append(g.nodes, Node{
			ID:    e.Name,
			Label: e.Name,
			Color: e.Color,
			Size:  e.Size,
			Shape: e.Shape,
			Title: e.Title,
		})
	}

	for i, r := range rels {
		if _, ok := g.index[r.Source]; !ok {
			return nil, &ReferentialIntegrityError{Key: r.Source, Endpoint: "source", Index: i}
		}
		if _, ok := g.index[r.Target]; !ok {
			return nil, &ReferentialIntegrityError{Key: r.Target, Endpoint: "target", Index: i}
		}
		g.edges = append(g.edges, Edge{
			From:   r.Source,
			To:     r.Target,
			Label:  r.Label,
			Title:  r.Label,
			Arrows: r.Arrows(),
		})
	}

	return g, nil
}

// BuildFrom reads both tables from src and builds the graph.
func BuildFrom(src datasource.Source) (*Graph, error) {
	entities, err := src.Entities()
	if err != nil {
		return nil, fmt.Errorf("loading entities: %w", err)
	}
	rels, err := src.Relationships()
	if err != nil {
		return nil, fmt.Errorf("loading relationships: %w", err)
	}
	return Build(entities, rels)
}
