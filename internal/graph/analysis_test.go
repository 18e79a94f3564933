package graph

import (
	"errors"
	"reflect"
	"testing"

	"github.com/matsen/modelgraph/internal/datasource"
	"github.com/matsen/modelgraph/internal/entity"
)

func mustBuild(t *testing.T, names []string, rels ...entity.Relationship) *Graph {
	t.Helper()
	g, err := Build(ents(names...), rels)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

func TestRoots(t *testing.T) {
	g := mustBuild(t, []string{"A", "B", "C", "D"}, rel("A", "B"), rel("C", "B"))

	want := []string{"A", "C", "D"}
	if got := g.Roots(); !reflect.DeepEqual(got, want) {
		t.Errorf("Roots() = %v, want %v", got, want)
	}
}

func TestCycles(t *testing.T) {
	tests := []struct {
		name string
		rels []entity.Relationship
		want [][]string
	}{
		{"tree", []entity.Relationship{rel("A", "B"), rel("A", "C")}, [][]string{}},
		{"two cycle", []entity.Relationship{rel("A", "B"), rel("B", "A")}, [][]string{{"A", "B"}}},
		{"self loop", []entity.Relationship{rel("C", "C")}, [][]string{{"C"}}},
		{"triangle", []entity.Relationship{rel("A", "B"), rel("B", "C"), rel("C", "A")}, [][]string{{"A", "B", "C"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustBuild(t, []string{"A", "B", "C"}, tt.rels...)
			got := g.Cycles()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Cycles() = %v, want %v", got, tt.want)
			}
			if g.Acyclic() != (len(tt.want) == 0) {
				t.Errorf("Acyclic() = %v, want %v", g.Acyclic(), len(tt.want) == 0)
			}
		})
	}
}

func TestLevels_LongestPath(t *testing.T) {
	// A -> B -> C and A -> C: C sits below B, not next to it.
	g := mustBuild(t, []string{"A", "B", "C"}, rel("A", "B"), rel("B", "C"), rel("A", "C"))

	levels, err := g.Levels()
	if err != nil {
		t.Fatalf("Levels() error = %v", err)
	}
	want := map[string]int{"A": 0, "B": 1, "C": 2}
	if !reflect.DeepEqual(levels, want) {
		t.Errorf("Levels() = %v, want %v", levels, want)
	}
}

func TestLevels_Cyclic(t *testing.T) {
	g := mustBuild(t, []string{"A", "B"}, rel("A", "B"), rel("B", "A"))

	if _, err := g.Levels(); !errors.Is(err, ErrCyclic) {
		t.Errorf("Levels() error = %v, want ErrCyclic", err)
	}
}

func TestStats_Static(t *testing.T) {
	g, err := BuildFrom(datasource.NewStatic())
	if err != nil {
		t.Fatalf("BuildFrom() error = %v", err)
	}

	s := g.Stats()
	if !s.Acyclic {
		t.Error("built-in table should be acyclic")
	}
	if !reflect.DeepEqual(s.Roots, []string{datasource.RootEntity}) {
		t.Errorf("Roots = %v, want [%s]", s.Roots, datasource.RootEntity)
	}
	if s.Depth != 2 {
		t.Errorf("Depth = %d, want 2", s.Depth)
	}
}
