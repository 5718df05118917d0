// Package console wires the query client, the classifier and the renderer
// into the submission cycle of the query console.
package console

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/app-sre/gabi-console/pkg/display"
	"github.com/app-sre/gabi-console/pkg/models"
	"github.com/app-sre/gabi-console/pkg/render"
	"github.com/app-sre/gabi-console/pkg/view"
)

const (
	DefaultInputName  = "queryInput"
	DefaultOutputName = "queryOutput"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateErrorDisplayed
	StateEmptyDisplayed
	StateTableDisplayed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateErrorDisplayed:
		return "error"
	case StateEmptyDisplayed:
		return "empty"
	case StateTableDisplayed:
		return "table"
	default:
		return "unknown"
	}
}

// Submitter executes a query and always answers with a response.
type Submitter interface {
	Submit(ctx context.Context, query string) *models.QueryResponse
}

// Inputs exposes named input fields.
type Inputs interface {
	Lookup(name string) (string, bool)
}

// Output is the container the console draws into. Every call replaces the
// whole content.
type Output interface {
	Replace(n *view.Node)
}

type Console struct {
	InputName string

	client Submitter
	inputs Inputs
	output Output
	logger *zap.SugaredLogger

	mu    sync.Mutex
	token uint64
	state State
}

type Option func(*Console)

func WithInputName(name string) Option {
	return func(c *Console) {
		c.InputName = name
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Console) {
		c.logger = logger
	}
}

func New(client Submitter, inputs Inputs, output Output, options ...Option) *Console {
	c := &Console{
		InputName: DefaultInputName,
		client:    client,
		inputs:    inputs,
		output:    output,
		logger:    zap.NewNop().Sugar(),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Submit runs one submission cycle: it reads the query, shows the loading
// panel, waits for the reply and draws the outcome. The outcome is drawn
// only if no other submission started in the meantime. It reports whether
// the outcome was drawn.
func (c *Console) Submit(ctx context.Context) bool {
	if c.inputs == nil {
		c.logger.Errorf("Unable to read query: no inputs are available")
		return false
	}

	query, ok := c.inputs.Lookup(c.InputName)
	if !ok {
		c.logger.Errorf("Unable to read query: input %q not found", c.InputName)
		return false
	}

	token := c.begin()

	state := display.Classify(c.client.Submit(ctx, query))

	return c.apply(token, state)
}

// State returns the state of the most recent submission.
func (c *Console) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Console) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token++
	c.state = StateLoading
	c.output.Replace(render.Render(display.Loading()))

	return c.token
}

func (c *Console) apply(token uint64, s display.State) bool {
	tree := render.Render(s)

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.token {
		c.logger.Debugf("Discarding reply to submission %d, latest is %d", token, c.token)
		return false
	}

	c.output.Replace(tree)

	switch s.Kind {
	case display.KindError:
		c.state = StateErrorDisplayed
	case display.KindEmptySuccess:
		c.state = StateEmptyDisplayed
	case display.KindTable:
		c.state = StateTableDisplayed
	}

	return true
}
