package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	gabi "github.com/app-sre/gabi-console/pkg"
	"github.com/app-sre/gabi-console/pkg/console"
	"github.com/app-sre/gabi-console/pkg/view"
)

const consolePage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>GABI Console</title>
<style>
body { font-family: sans-serif; margin: 2em; }
textarea { width: 100%; font-family: monospace; }
.alert { padding: 0.75em; margin: 1em 0; border-radius: 4px; }
.alert-error { background: #fdecea; color: #611a15; }
.alert-success { background: #edf7ed; color: #1e4620; }
.alert-info { background: #e8f4fd; color: #0d3c61; }
.alert strong { margin-right: 0.5em; }
.note { display: block; opacity: 0.7; font-style: italic; }
.table-scroll { overflow-x: auto; }
.gabi-table { border-collapse: collapse; }
.gabi-table th, .gabi-table td { border: 1px solid #ccc; padding: 0.25em 0.5em; text-align: left; }
.null { opacity: 0.6; font-style: italic; }
.result-footer span { margin-right: 1em; }
</style>
</head>
<body>
<form method="post" action="/console">
<textarea id="queryInput" name="queryInput" rows="8"></textarea>
<button type="submit">Execute</button>
</form>
<div id="queryOutput"></div>
</body>
</html>`

// Console serves the query console page. A POST runs one submission cycle
// with the submitted form and draws its outcome into the page.
func Console(cfg *gabi.Config, submitter console.Submitter) http.HandlerFunc {
	formatter := view.NewHTML()

	return func(w http.ResponseWriter, r *http.Request) {
		var (
			query string
			tree  *view.Node
		)

		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err != nil {
				cfg.Logger.Errorf("Unable to parse console form: %s", err)
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}

			panel := &console.Panel{}
			c := console.New(submitter, console.FormInputs(r.PostForm), panel, console.WithLogger(cfg.Logger))
			c.Submit(r.Context())

			query = r.PostForm.Get(c.InputName)
			tree = panel.Node()
		}

		var b bytes.Buffer
		if err := page(&b, formatter, query, tree); err != nil {
			cfg.Logger.Errorf("Unable to render console page: %s", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = b.WriteTo(w)
	}
}

func page(b *bytes.Buffer, formatter *view.HTML, query string, tree *view.Node) error {
	doc, err := html.Parse(strings.NewReader(consolePage))
	if err != nil {
		return err
	}

	if input := findByID(doc, console.DefaultInputName); input != nil && query != "" {
		input.AppendChild(&html.Node{Type: html.TextNode, Data: query})
	}

	if output := findByID(doc, console.DefaultOutputName); output != nil && tree != nil {
		output.AppendChild(formatter.Node(tree))
	}

	return html.Render(b, doc)
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom != atom.Html {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}

	return nil
}
