package view

import (
	"fmt"
	"io"
)

type Formatter interface {
	Format(n *Node, w io.Writer) error
	Name() string
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string) (Formatter, error) {
	switch name {
	case "", "text":
		return NewText(), nil
	case "html":
		return NewHTML(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
}
