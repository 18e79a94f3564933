package viz

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// LayoutConfig is the vis-network options object. It is handed to the browser
// verbatim, so field names follow the vis-network option names.
type LayoutConfig struct {
	Physics PhysicsOptions `json:"physics" yaml:"physics"`
	Edges   EdgeOptions    `json:"edges" yaml:"edges"`
	Nodes   NodeOptions    `json:"nodes" yaml:"nodes"`
	Layout  LayoutOptions  `json:"layout" yaml:"layout"`
}

// PhysicsOptions configures the force simulation.
type PhysicsOptions struct {
	Enabled       bool          `json:"enabled" yaml:"enabled"`
	Stabilization Stabilization `json:"stabilization" yaml:"stabilization"`
	BarnesHut     BarnesHut     `json:"barnesHut" yaml:"barnesHut"`
	MinVelocity   float64       `json:"minVelocity" yaml:"minVelocity" validate:"gte=0"`
	MaxVelocity   float64       `json:"maxVelocity" yaml:"maxVelocity" validate:"gte=0"`
}

// Stabilization bounds the layout iterations run before first paint.
type Stabilization struct {
	Enabled          bool `json:"enabled" yaml:"enabled"`
	Iterations       int  `json:"iterations" yaml:"iterations" validate:"gte=0"`
	UpdateInterval   int  `json:"updateInterval" yaml:"updateInterval" validate:"gte=0"`
	OnlyDynamicEdges bool `json:"onlyDynamicEdges" yaml:"onlyDynamicEdges"`
	Fit              bool `json:"fit" yaml:"fit"`
}

// BarnesHut holds the attractive and repulsive force constants.
type BarnesHut struct {
	GravitationalConstant float64 `json:"gravitationalConstant" yaml:"gravitationalConstant"`
	CentralGravity        float64 `json:"centralGravity" yaml:"centralGravity"`
	SpringLength          float64 `json:"springLength" yaml:"springLength" validate:"gte=0"`
	SpringConstant        float64 `json:"springConstant" yaml:"springConstant" validate:"gte=0"`
	Damping               float64 `json:"damping" yaml:"damping" validate:"gte=0"`
	AvoidOverlap          float64 `json:"avoidOverlap" yaml:"avoidOverlap" validate:"gte=0"`
}

// EdgeOptions styles every edge.
type EdgeOptions struct {
	Smooth Smooth    `json:"smooth" yaml:"smooth"`
	Length float64   `json:"length" yaml:"length" validate:"gte=0"`
	Font   Font      `json:"font" yaml:"font"`
	Color  EdgeColor `json:"color" yaml:"color"`
	Width  float64   `json:"width" yaml:"width" validate:"gte=0"`
}

// Smooth is the edge curvature style.
type Smooth struct {
	Type           string  `json:"type" yaml:"type" validate:"oneof=dynamic continuous discrete diagonalCross straightCross horizontal vertical curvedCW curvedCCW cubicBezier"`
	Roundness      float64 `json:"roundness" yaml:"roundness" validate:"gte=0,lte=1"`
	ForceDirection string  `json:"forceDirection" yaml:"forceDirection" validate:"omitempty,oneof=horizontal vertical none"`
}

// Font is shared by node and edge labels.
type Font struct {
	Size        int    `json:"size" yaml:"size" validate:"gte=0"`
	StrokeWidth int    `json:"strokeWidth" yaml:"strokeWidth" validate:"gte=0"`
	StrokeColor string `json:"strokeColor" yaml:"strokeColor"`
}

// EdgeColor is the edge line color.
type EdgeColor struct {
	Inherit bool    `json:"inherit" yaml:"inherit"`
	Color   string  `json:"color" yaml:"color"`
	Opacity float64 `json:"opacity" yaml:"opacity" validate:"gte=0,lte=1"`
}

// NodeOptions styles every node.
type NodeOptions struct {
	Font    Font    `json:"font" yaml:"font"`
	Margin  int     `json:"margin" yaml:"margin" validate:"gte=0"`
	Scaling Scaling `json:"scaling" yaml:"scaling"`
	Fixed   Fixed   `json:"fixed" yaml:"fixed"`
}

// Scaling bounds node sizes.
type Scaling struct {
	Min int `json:"min" yaml:"min" validate:"gte=0"`
	Max int `json:"max" yaml:"max" validate:"gtefield=Min"`
}

// Fixed pins nodes on an axis.
type Fixed struct {
	X bool `json:"x" yaml:"x"`
	Y bool `json:"y" yaml:"y"`
}

// LayoutOptions controls initial placement. RandomSeed makes the layout reproducible.
type LayoutOptions struct {
	ImprovedLayout bool         `json:"improvedLayout" yaml:"improvedLayout"`
	RandomSeed     int          `json:"randomSeed" yaml:"randomSeed"`
	Hierarchical   Hierarchical `json:"hierarchical" yaml:"hierarchical"`
}

// Hierarchical switches vis-network to a layered layout.
type Hierarchical struct {
	Enabled         bool `json:"enabled" yaml:"enabled"`
	NodeSpacing     int  `json:"nodeSpacing" yaml:"nodeSpacing" validate:"gte=0"`
	LevelSeparation int  `json:"levelSeparation" yaml:"levelSeparation" validate:"gte=0"`
	TreeSpacing     int  `json:"treeSpacing" yaml:"treeSpacing" validate:"gte=0"`
}

// DefaultLayoutConfig returns the layout used for the System Management diagram.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Physics: PhysicsOptions{
			Enabled: true,
			Stabilization: Stabilization{
				Enabled:          true,
				Iterations:       2000,
				UpdateInterval:   25,
				OnlyDynamicEdges: false,
				Fit:              true,
			},
			BarnesHut: BarnesHut{
				GravitationalConstant: -60000,
				CentralGravity:        0.1,
				SpringLength:          1000,
				SpringConstant:        0.08,
				Damping:               0.12,
				AvoidOverlap:          20,
			},
			MinVelocity: 0.75,
			MaxVelocity: 30,
		},
		Edges: EdgeOptions{
			Smooth: Smooth{
				Type:           "curvedCW",
				Roundness:      0.2,
				ForceDirection: "horizontal",
			},
			Length: 300,
			Font:   Font{Size: 11, StrokeWidth: 2, StrokeColor: "#ffffff"},
			Color:  EdgeColor{Inherit: false, Color: "#2E7D32", Opacity: 0.8},
			Width:  1.5,
		},
		Nodes: NodeOptions{
			Font:    Font{Size: 12, StrokeWidth: 2, StrokeColor: "#ffffff"},
			Margin:  12,
			Scaling: Scaling{Min: 10, Max: 30},
			Fixed:   Fixed{X: false, Y: false},
		},
		Layout: LayoutOptions{
			ImprovedLayout: true,
			RandomSeed:     42,
			Hierarchical: Hierarchical{
				Enabled:         false,
				NodeSpacing:     300,
				LevelSeparation: 300,
				TreeSpacing:     300,
			},
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks numeric ranges and enumerated option values.
func (c *LayoutConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid layout config: %w", err)
	}
	return nil
}

// Options configures document generation.
type Options struct {
	Layout LayoutConfig
	Height int    // Viewport height in pixels
	Width  string // CSS length, e.g. "100%" or "1200px"
	Title  string
}

// Defaults for Options.
const (
	DefaultHeight = 900
	DefaultWidth  = "100%"
	DefaultTitle  = "Interactive Interdependency Graph"
)

// DefaultOptions returns default document options.
func DefaultOptions() Options {
	return Options{
		Layout: DefaultLayoutConfig(),
		Height: DefaultHeight,
		Width:  DefaultWidth,
		Title:  DefaultTitle,
	}
}

var cssLength = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(px|%|vw|vh|em|rem)$`)

// Validate checks the viewport and layout settings.
func (o *Options) Validate() error {
	if o.Height <= 0 {
		return fmt.Errorf("invalid height %d: must be positive", o.Height)
	}
	if !cssLength.MatchString(o.Width) {
		return fmt.Errorf("invalid width %q: must be a CSS length such as 100%% or 1200px", o.Width)
	}
	return o.Layout.Validate()
}
