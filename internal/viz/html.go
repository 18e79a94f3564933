package viz

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"github.com/matsen/modelgraph/internal/graph"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// visNetworkScript loads vis-network from the CDN.
const visNetworkScript = `<script src="https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"></script>`

// templateData holds data for the HTML template.
type templateData struct {
	Title     string
	ScriptTag template.HTML
	Width     template.CSS
	Height    int
	Nodes     template.JS
	Edges     template.JS
	Options   template.JS
}

// writeDocument executes the document template for g into w.
// The output has no fullscreen control; Render adds it afterwards.
func writeDocument(w io.Writer, g *graph.Graph, opts Options, logger *slog.Logger) error {
	data, err := toVisJSON(g, opts.Layout, logger)
	if err != nil {
		return err
	}

	td := templateData{
		Title:     opts.Title,
		ScriptTag: template.HTML(visNetworkScript),
		Width:     template.CSS(opts.Width),
		Height:    opts.Height,
		Nodes:     template.JS(data.Nodes),
		Edges:     template.JS(data.Edges),
		Options:   template.JS(data.Options),
	}

	if err := compiledTemplate.Execute(w, td); err != nil {
		return fmt.Errorf("executing document template: %w", err)
	}
	return nil
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  {{.ScriptTag}}
  <style>
    body {
      margin: 0;
      padding: 0;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
    }
    #mynetwork {
      width: {{.Width}};
      height: {{.Height}}px;
      background-color: #ffffff;
      border: 1px solid lightgray;
      position: relative;
    }
  </style>
</head>
<body>
  <div id="mynetwork"></div>
  <script type="text/javascript">
    var nodes = new vis.DataSet({{.Nodes}});
    var edges = new vis.DataSet({{.Edges}});
    var options = {{.Options}};
    var network = new vis.Network(
      document.getElementById("mynetwork"),
      {nodes: nodes, edges: edges},
      options
    );
  </script>
</body>
</html>`
