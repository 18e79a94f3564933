// Package viz renders diagram graphs as self-contained vis-network HTML documents.
package viz

// DefaultArrows is the arrow position used for edges without a direction hint.
const DefaultArrows = "to"

// visNode is a node in the vis-network DataSet format.
type visNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title,omitempty"` // Tooltip
	Color string `json:"color,omitempty"`
	Size  int    `json:"size,omitempty"`
	Shape string `json:"shape,omitempty"`
	Level *int   `json:"level,omitempty"` // Only set for hierarchical layouts
}

// visEdge is an edge in the vis-network DataSet format.
type visEdge struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Label  string `json:"label,omitempty"`
	Title  string `json:"title,omitempty"`
	Arrows string `json:"arrows"`
}

// Document is a rendered, displayable HTML document.
type Document struct {
	HTML   string
	Height int
	Width  string
}
