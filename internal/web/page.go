package web

import (
	"html/template"
	"io"
)

// PageTitle heads the authenticated page.
const PageTitle = "⚙️ Data Model : System Management"

// Messages shown to the user.
const (
	msgPasswordIncorrect = "Password incorrect"
	msgRenderFailed      = "An error occurred while generating the graph: "
)

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

type pageData struct {
	Title         string
	Authenticated bool
	Rejected      bool
	Error         string
	Version       uint64
	Height        int
	Width         string
}

func writePage(w io.Writer, data pageData) error {
	return pageTemplate.Execute(w, data)
}

const pageHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
    body {
      margin: 0 auto;
      padding: 1rem 2rem;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
    }
    .error { color: #b71c1c; }
    iframe { border: none; }
  </style>
</head>
<body>
{{- if .Authenticated}}
  <h1>{{.Title}}</h1>
  <form method="post" action="/refresh">
    <button type="submit">Refresh Graph</button>
  </form>
  {{- if .Error}}
  <p class="error">{{.Error}}</p>
  {{- else}}
  <iframe src="/graph?v={{.Version}}" width="{{.Width}}" height="{{.Height}}"></iframe>
  {{- end}}
{{- else}}
  <form method="post" action="/login">
    <label for="password">Password</label>
    <input type="password" id="password" name="password" autofocus>
    <button type="submit">Enter</button>
  </form>
  {{- if .Rejected}}
  <p class="error">` + msgPasswordIncorrect + `</p>
  {{- end}}
{{- end}}
</body>
</html>`
