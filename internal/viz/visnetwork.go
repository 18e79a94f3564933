package viz

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/matsen/modelgraph/internal/graph"
)

// visData holds the serialized DataSets and options for the template.
type visData struct {
	Nodes   string
	Edges   string
	Options string
}

// toVisJSON converts a graph and its layout to vis-network JSON.
// Levels are attached only when hierarchical layout is on and the graph is acyclic.
func toVisJSON(g *graph.Graph, layout LayoutConfig, logger *slog.Logger) (visData, error) {
	var levels map[string]int
	if layout.Layout.Hierarchical.Enabled {
		var err error
		levels, err = g.Levels()
		if err != nil {
			logger.Warn("hierarchical layout requested for a cyclic graph; levels omitted", "error", err)
			levels = nil
		}
	}

	nodes := make([]visNode, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		vn := visNode{
			ID:    n.ID,
			Label: n.Label,
			Title: n.Title,
			Color: n.Color,
			Size:  n.Size,
			Shape: n.Shape,
		}
		if lvl, ok := levels[n.ID]; ok {
			vn.Level = &lvl
		}
		nodes = append(nodes, vn)
	}

	edges := make([]visEdge, 0, g.EdgeCount())
	for i, e := range g.Edges() {
		arrows := e.Arrows
		if arrows == "" {
			arrows = DefaultArrows
		}
		edges = append(edges, visEdge{
			ID:     edgeID(i),
			From:   e.From,
			To:     e.To,
			Label:  e.Label,
			Title:  e.Title,
			Arrows: arrows,
		})
	}

	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return visData{}, fmt.Errorf("marshaling nodes to JSON: %w", err)
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return visData{}, fmt.Errorf("marshaling edges to JSON: %w", err)
	}
	optionsJSON, err := json.Marshal(layout)
	if err != nil {
		return visData{}, fmt.Errorf("marshaling options to JSON: %w", err)
	}

	return visData{
		Nodes:   string(nodesJSON),
		Edges:   string(edgesJSON),
		Options: string(optionsJSON),
	}, nil
}

// edgeID generates an edge ID from its position. Relationships may repeat
// endpoint pairs, so the endpoints alone are not unique.
func edgeID(index int) string {
	return fmt.Sprintf("e%d", index)
}
