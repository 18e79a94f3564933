package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/modelgraph/internal/graph"
	"github.com/matsen/modelgraph/internal/viz"
)

var renderOutput string

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write the document to this file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the diagram to a standalone HTML document",
	Long: `Build the graph from the configured source and render it once.

Without -o the HTML document is written to stdout.

Examples:
  modelgraph render > model.html
  modelgraph render -o model.html --human`,
	RunE: runRender,
}

// RenderResult is the response for render -o.
type RenderResult struct {
	Status string `json:"status"`
	Path   string `json:"path"`
	Nodes  int    `json:"nodes"`
	Edges  int    `json:"edges"`
	Bytes  int    `json:"bytes"`
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)

	src, closeSource := mustOpenSource(cfg)
	defer closeSource()

	g, err := graph.BuildFrom(src)
	if err != nil {
		exitWithError(buildExitCode(err), "building graph: %v", err)
	}

	doc, err := viz.NewRenderer(cfg.TempDir, logger).Render(g, cfg.ViewOptions())
	if err != nil {
		exitWithError(ExitError, "rendering graph: %v", err)
	}

	if renderOutput == "" {
		_, err := os.Stdout.WriteString(doc.HTML)
		return err
	}

	if err := os.WriteFile(renderOutput, []byte(doc.HTML), 0644); err != nil {
		exitWithError(ExitError, "writing %s: %v", renderOutput, err)
	}

	result := RenderResult{
		Status: "rendered",
		Path:   renderOutput,
		Nodes:  g.NodeCount(),
		Edges:  g.EdgeCount(),
		Bytes:  len(doc.HTML),
	}
	emit(result, func() {
		fmt.Printf("Rendered %d nodes and %d edges to %s\n", result.Nodes, result.Edges, result.Path)
	})
	return nil
}

// buildExitCode maps graph construction failures to exit codes.
func buildExitCode(err error) int {
	var refErr *graph.ReferentialIntegrityError
	var dupErr *graph.DuplicateEntityError
	switch {
	case errors.As(err, &refErr), errors.As(err, &dupErr), errors.Is(err, graph.ErrNoEntities):
		return ExitDataError
	default:
		return ExitError
	}
}
