package console

import (
	"io"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/app-sre/gabi-console/pkg/view"
)

// Fields is a fixed set of named inputs.
type Fields map[string]string

func (f Fields) Lookup(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

// FormInputs exposes submitted form values as inputs.
type FormInputs url.Values

func (f FormInputs) Lookup(name string) (string, bool) {
	v, ok := f[name]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Panel keeps the last tree drawn into it.
type Panel struct {
	mu   sync.Mutex
	node *view.Node
}

func (p *Panel) Replace(n *view.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.node = n
}

func (p *Panel) Node() *view.Node {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.node
}

// Writer formats every tree it receives onto a stream.
type Writer struct {
	w         io.Writer
	formatter view.Formatter
	logger    *zap.SugaredLogger
}

func NewWriter(w io.Writer, formatter view.Formatter, logger *zap.SugaredLogger) *Writer {
	return &Writer{w: w, formatter: formatter, logger: logger}
}

func (o *Writer) Replace(n *view.Node) {
	if err := o.formatter.Format(n, o.w); err != nil {
		o.logger.Errorf("Unable to write %s output: %s", o.formatter.Name(), err)
	}
}
