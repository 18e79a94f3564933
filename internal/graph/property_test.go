package graph

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matsen/modelgraph/internal/entity"
)

// numbered returns n entities named e0..e(n-1).
func numbered(n int) []entity.Entity {
	out := make([]entity.Entity, n)
	for i := range out {
		out[i] = entity.Entity{Name: fmt.Sprintf("e%d", i), Size: i}
	}
	return out
}

// pairs turns consecutive picks into relationships between existing entities.
func pairs(entities []entity.Entity, picks []int) []entity.Relationship {
	n := len(entities)
	rels := make([]entity.Relationship, 0, len(picks)/2)
	for i := 0; i+1 < len(picks); i += 2 {
		rels = append(rels, entity.Relationship{
			Source: entities[picks[i]%n].Name,
			Target: entities[picks[i+1]%n].Name,
		})
	}
	return rels
}

// TestBuildProperties checks the builder's invariants over generated tables.
func TestBuildProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	// Property 1: well-formed tables always build, one node per entity and one edge per relationship
	properties.Property("counts match inputs", prop.ForAll(
		func(n int, picks []int) bool {
			entities := numbered(n)
			rels := pairs(entities, picks)
			g, err := Build(entities, rels)
			if err != nil {
				return false
			}
			return g.NodeCount() == len(entities) && g.EdgeCount() == len(rels)
		},
		gen.IntRange(1, 40),
		gen.SliceOf(gen.IntRange(0, 1<<16)),
	))

	// Property 2: an edge to an unknown entity fails and names it
	properties.Property("missing endpoint is reported", prop.ForAll(
		func(n int, picks []int, ghost string) bool {
			entities := numbered(n)
			rels := pairs(entities, picks)
			missing := "ghost-" + ghost
			rels = append(rels, entity.Relationship{Source: entities[0].Name, Target: missing})

			g, err := Build(entities, rels)
			var rie *ReferentialIntegrityError
			return g == nil && errors.As(err, &rie) && rie.Key == missing
		},
		gen.IntRange(1, 40),
		gen.SliceOf(gen.IntRange(0, 1<<16)),
		gen.AlphaString(),
	))

	// Property 3: building twice yields identical node and edge sequences
	properties.Property("build is deterministic", prop.ForAll(
		func(n int, picks []int) bool {
			entities := numbered(n)
			rels := pairs(entities, picks)
			g1, err1 := Build(entities, rels)
			g2, err2 := Build(entities, rels)
			if err1 != nil || err2 != nil {
				return false
			}
			return reflect.DeepEqual(g1.Nodes(), g2.Nodes()) && reflect.DeepEqual(g1.Edges(), g2.Edges())
		},
		gen.IntRange(1, 40),
		gen.SliceOf(gen.IntRange(0, 1<<16)),
	))

	// Property 4: node order is entity order
	properties.Property("node order follows entity order", prop.ForAll(
		func(n int) bool {
			entities := numbered(n)
			g, err := Build(entities, nil)
			if err != nil {
				return false
			}
			for i, node := range g.Nodes() {
				if node.ID != entities[i].Name {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 40),
	))

	properties.TestingRun(t)
}
