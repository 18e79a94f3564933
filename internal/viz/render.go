package viz

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/matsen/modelgraph/internal/graph"
)

// ArtifactPattern names temporary artifacts; CreateTemp replaces the * with a unique suffix.
const ArtifactPattern = "modelgraph-*.html"

// ArtifactIOError reports a failure creating, writing, or reading the temporary artifact.
type ArtifactIOError struct {
	Op   string // "create", "write", "close", or "read"
	Path string
	Err  error
}

func (e *ArtifactIOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s temporary artifact: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s temporary artifact %s: %v", e.Op, e.Path, e.Err)
}

func (e *ArtifactIOError) Unwrap() error { return e.Err }

// Renderer turns graphs into documents. It is safe for concurrent use:
// every Render call stages its output in its own uniquely named artifact.
type Renderer struct {
	tempDir string
	logger  *slog.Logger

	// Seams for tests.
	serialize func(w io.Writer, g *graph.Graph, opts Options, logger *slog.Logger) error
	readBack  func(path string) ([]byte, error)
}

// NewRenderer returns a Renderer staging artifacts in tempDir
// (the system temp directory when empty). A nil logger discards output.
func NewRenderer(tempDir string, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{
		tempDir:   tempDir,
		logger:    logger,
		serialize: writeDocument,
		readBack:  os.ReadFile,
	}
}

// Render serializes g into a temporary artifact, reads it back, and adds the
// fullscreen control. The artifact is removed before Render returns, whether
// or not rendering succeeded.
func (r *Renderer) Render(g *graph.Graph, opts Options) (*Document, error) {
	if g == nil {
		return nil, errors.New("graph cannot be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(r.tempDir, ArtifactPattern)
	if err != nil {
		return nil, &ArtifactIOError{Op: "create", Err: err}
	}
	path := f.Name()
	defer r.remove(path)

	w := bufio.NewWriter(f)
	if err := r.serialize(w, g, opts, r.logger); err != nil {
		f.Close()
		return nil, &ArtifactIOError{Op: "write", Path: path, Err: err}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return nil, &ArtifactIOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return nil, &ArtifactIOError{Op: "close", Path: path, Err: err}
	}

	data, err := r.readBack(path)
	if err != nil {
		return nil, &ArtifactIOError{Op: "read", Path: path, Err: err}
	}

	html, err := InjectFullscreen(string(data))
	if err != nil {
		return nil, err
	}

	r.logger.Debug("rendered document", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "bytes", len(html))

	return &Document{
		HTML:   html,
		Height: opts.Height,
		Width:  opts.Width,
	}, nil
}

// remove deletes the artifact. Failures are logged, never returned.
func (r *Renderer) remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		r.logger.Warn("failed to remove temporary artifact", "path", path, "error", err)
	}
}
