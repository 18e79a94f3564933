package graph

import (
	"errors"
	"sort"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"
)

// ErrCyclic is returned by Levels when the graph has a directed cycle.
var ErrCyclic = errors.New("graph contains a directed cycle")

// Stats summarizes the shape of a graph.
type Stats struct {
	Nodes   int        `json:"nodes"`
	Edges   int        `json:"edges"`
	Roots   []string   `json:"roots"`
	Acyclic bool       `json:"acyclic"`
	Cycles  [][]string `json:"cycles,omitempty"`
	Depth   int        `json:"depth"`
}

// directed returns a gonum multigraph view of g. Node IDs are node positions.
// A multigraph is used because relationships may repeat endpoint pairs.
func (g *Graph) directed() *multi.DirectedGraph {
	d := multi.NewDirectedGraph()
	for i := range g.nodes {
		d.AddNode(multi.Node(int64(i)))
	}
	for _, e := range g.edges {
		from := multi.Node(int64(g.index[e.From]))
		to := multi.Node(int64(g.index[e.To]))
		d.SetLine(d.NewLine(from, to))
	}
	return d
}

// Roots returns the IDs of nodes with no incoming edges, in node order.
func (g *Graph) Roots() []string {
	d := g.directed()
	var roots []string
	for i, n := range g.nodes {
		if d.To(int64(i)).Len() == 0 {
			roots = append(roots, n.ID)
		}
	}
	return roots
}

// Cycles returns the node IDs of each strongly connected component that forms
// a directed cycle, self loops included. Each cycle is sorted by node order and
// cycles are ordered by their first node.
func (g *Graph) Cycles() [][]string {
	var groups [][]int

	if _, err := topo.Sort(g.directed()); err != nil {
		var unorderable topo.Unorderable
		if errors.As(err, &unorderable) {
			for _, component := range unorderable {
				groups = append(groups, positions(component))
			}
		}
	}

	inGroup := make(map[int]bool)
	for _, grp := range groups {
		for _, p := range grp {
			inGroup[p] = true
		}
	}
	for _, e := range g.edges {
		if e.From != e.To {
			continue
		}
		p := g.index[e.From]
		if !inGroup[p] {
			inGroup[p] = true
			groups = append(groups, []int{p})
		}
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })

	cycles := make([][]string, 0, len(groups))
	for _, grp := range groups {
		ids := make([]string, len(grp))
		for i, p := range grp {
			ids[i] = g.nodes[p].ID
		}
		cycles = append(cycles, ids)
	}
	return cycles
}

// Acyclic reports whether g has no directed cycle.
func (g *Graph) Acyclic() bool {
	return len(g.Cycles()) == 0
}

// Levels returns the longest-path depth of every node from the roots.
// Roots are at level 0. Returns ErrCyclic when no such layering exists.
func (g *Graph) Levels() (map[string]int, error) {
	if !g.Acyclic() {
		return nil, ErrCyclic
	}

	d := g.directed()
	order, err := topo.Sort(d)
	if err != nil {
		return nil, ErrCyclic
	}

	depth := make([]int, len(g.nodes))
	for _, n := range order {
		u := n.ID()
		successors := d.From(u)
		for successors.Next() {
			v := successors.Node().ID()
			if depth[u]+1 > depth[v] {
				depth[v] = depth[u] + 1
			}
		}
	}

	levels := make(map[string]int, len(g.nodes))
	for i, n := range g.nodes {
		levels[n.ID] = depth[i]
	}
	return levels, nil
}

// Stats computes a summary of g.
func (g *Graph) Stats() Stats {
	s := Stats{
		Nodes:  len(g.nodes),
		Edges:  len(g.edges),
		Roots:  g.Roots(),
		Cycles: g.Cycles(),
	}
	s.Acyclic = len(s.Cycles) == 0
	if levels, err := g.Levels(); err == nil {
		for _, l := range levels {
			if l > s.Depth {
				s.Depth = l
			}
		}
	}
	return s
}

// positions converts gonum nodes back to sorted node positions.
func positions(nodes []gonum.Node) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = int(n.ID())
	}
	sort.Ints(out)
	return out
}
