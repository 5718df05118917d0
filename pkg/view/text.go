package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var _ Formatter = (*Text)(nil)

var (
	infoStyle    = lipgloss.NewStyle().Faint(true)
	alertStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	noteStyle    = lipgloss.NewStyle().Faint(true).Italic(true)
	nullStyle    = lipgloss.NewStyle().Faint(true).Italic(true)
)

// Text renders a tree for a terminal.
type Text struct{}

func NewText() *Text {
	return &Text{}
}

func (tf *Text) Name() string {
	return "text"
}

func (tf *Text) Format(n *Node, w io.Writer) error {
	if n == nil {
		return nil
	}

	var out string
	switch n.Kind {
	case KindResult:
		out = tf.result(n)
	case KindAlert:
		out = tf.lines(n, alertStyle, "✗ ")
	case KindSuccess:
		out = tf.lines(n, successStyle, "✓ ")
	default:
		out = tf.lines(n, infoStyle, "")
	}

	_, err := io.WriteString(w, out+"\n")
	return err
}

// lines prints each direct child on its own line; titles are joined to the
// text that follows them.
func (tf *Text) lines(n *Node, style lipgloss.Style, prefix string) string {
	var (
		b     strings.Builder
		title string
	)

	for _, c := range n.Children {
		switch c.Kind {
		case KindSpinner:
			prefix = c.Text + " "
		case KindTitle:
			title = c.Text + ": "
		case KindNote:
			b.WriteString("\n" + noteStyle.Render(c.Text))
		default:
			b.WriteString(style.Render(prefix + title + c.Content()))
			prefix, title = "", ""
		}
	}

	return b.String()
}

func (tf *Text) result(n *Node) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}

	for _, h := range n.Find(KindHeader) {
		header := make(table.Row, 0, len(h.Children))
		for _, c := range h.Children {
			header = append(header, c.Text)
		}
		t.AppendHeader(header)
	}

	for _, r := range n.Find(KindRow) {
		row := make(table.Row, 0, len(r.Children))
		for _, c := range r.Children {
			if c.Kind == KindPlaceholder {
				row = append(row, nullStyle.Render(nullMarker(c.Text)))
				continue
			}
			row = append(row, c.Text)
		}
		t.AppendRow(row)
	}

	var footer []string
	for _, f := range n.Find(KindFooter) {
		for _, c := range f.Children {
			footer = append(footer, c.Content())
		}
	}

	return fmt.Sprintf("%s\n%s", t.Render(), infoStyle.Render(strings.Join(footer, "  ")))
}

// nullMarker brackets a placeholder so it stays apart from a string cell
// holding the same text when styling is unavailable.
func nullMarker(s string) string {
	return "<" + s + ">"
}
