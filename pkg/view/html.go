package view

import (
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var _ Formatter = (*HTML)(nil)

// HTML builds an HTML fragment for a tree. Text goes through the HTML
// renderer, so server-supplied values are always escaped.
type HTML struct{}

func NewHTML() *HTML {
	return &HTML{}
}

func (hf *HTML) Name() string {
	return "html"
}

func (hf *HTML) Format(n *Node, w io.Writer) error {
	if n == nil {
		return nil
	}
	return html.Render(w, hf.build(n))
}

// Node converts a tree into an HTML node, for embedding into a page.
func (hf *HTML) Node(n *Node) *html.Node {
	return hf.build(n)
}

func (hf *HTML) build(n *Node) *html.Node {
	var e *html.Node

	switch n.Kind {
	case KindInfo:
		e = element(atom.Div, "alert alert-info")
	case KindAlert:
		e = element(atom.Div, "alert alert-error")
		e.Attr = append(e.Attr, html.Attribute{Key: "role", Val: "alert"})
	case KindSuccess:
		e = element(atom.Div, "alert alert-success")
	case KindResult:
		e = element(atom.Div, "result-wrapper")
	case KindSpinner:
		e = element(atom.Span, "spinner")
	case KindTitle:
		e = element(atom.Strong, "")
	case KindText:
		e = element(atom.Span, "")
	case KindNote:
		e = element(atom.Span, "note")
	case KindTable:
		scroll := element(atom.Div, "table-scroll")
		table := element(atom.Table, "gabi-table")
		scroll.AppendChild(table)
		hf.children(table, n)
		return scroll
	case KindHeader:
		head := element(atom.Thead, "")
		row := element(atom.Tr, "")
		head.AppendChild(row)
		hf.children(row, n)
		return head
	case KindBody:
		e = element(atom.Tbody, "")
	case KindRow:
		e = element(atom.Tr, "")
	case KindHeaderCell:
		e = element(atom.Th, "")
	case KindCell:
		e = element(atom.Td, "")
	case KindPlaceholder:
		td := element(atom.Td, "")
		span := element(atom.Span, "null")
		span.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
		td.AppendChild(span)
		return td
	case KindFooter:
		e = element(atom.Div, "result-footer")
	default:
		e = element(atom.Div, "")
	}

	if n.Text != "" {
		e.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
	}
	hf.children(e, n)

	return e
}

func (hf *HTML) children(parent *html.Node, n *Node) {
	for _, c := range n.Children {
		parent.AppendChild(hf.build(c))
	}
}

func element(a atom.Atom, class string) *html.Node {
	e := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		e.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return e
}
