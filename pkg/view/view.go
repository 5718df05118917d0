// Package view holds the renderer-agnostic tree produced for the console
// output panel, and the formatters that turn it into HTML or terminal text.
package view

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

type Kind string

const (
	KindInfo        Kind = "info"
	KindAlert       Kind = "alert"
	KindSuccess     Kind = "success"
	KindResult      Kind = "result"
	KindSpinner     Kind = "spinner"
	KindTitle       Kind = "title"
	KindText        Kind = "text"
	KindNote        Kind = "note"
	KindTable       Kind = "table"
	KindHeader      Kind = "header"
	KindBody        Kind = "body"
	KindRow         Kind = "row"
	KindHeaderCell  Kind = "header-cell"
	KindCell        Kind = "cell"
	KindPlaceholder Kind = "placeholder"
	KindFooter      Kind = "footer"
)

// Node is a single element of the tree. Text is always plain text, never
// markup; formatters are responsible for escaping it for their target.
type Node struct {
	Kind     Kind
	Text     string
	Children []*Node
}

// Element returns a container node.
func Element(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// Leaf returns a text node. The text is sanitized before it is stored.
func Leaf(kind Kind, text string) *Node {
	return &Node{Kind: kind, Text: Sanitize(text)}
}

// Sanitize strips terminal escape sequences, control characters other than
// newlines and tabs, and invalid UTF-8 from s.
func Sanitize(s string) string {
	s = strings.ToValidUTF8(s, "�")
	s = ansi.Strip(s)

	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Find returns every node of the given kind below and including n, in
// depth-first order.
func (n *Node) Find(kind Kind) []*Node {
	var found []*Node

	n.walk(func(c *Node) {
		if c.Kind == kind {
			found = append(found, c)
		}
	})

	return found
}

// Content joins the text of every leaf below n with single spaces.
func (n *Node) Content() string {
	var parts []string

	n.walk(func(c *Node) {
		if c.Text != "" {
			parts = append(parts, c.Text)
		}
	})

	return strings.Join(parts, " ")
}

func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}
