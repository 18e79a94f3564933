// Package graph builds the directed diagram graph from entity and relationship tables.
package graph

// Node is a graph vertex. Attributes are copied verbatim from the entity table.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
	Size  int    `json:"size,omitempty"`
	Shape string `json:"shape,omitempty"`
	Title string `json:"title,omitempty"`
}

// Edge is a directed graph edge between two node IDs.
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Label  string `json:"label,omitempty"`
	Title  string `json:"title,omitempty"`
	Arrows string `json:"arrows,omitempty"`
}

// Graph is an immutable directed graph whose node and edge order
// matches the insertion order of the tables it was built from.
type Graph struct {
	nodes []Node
	edges []Edge
	index map[string]int
}

// Nodes returns the nodes in insertion order. The slice is a copy.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns the edges in insertion order. The slice is a copy.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Node looks up a node by ID.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
