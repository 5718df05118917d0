// Package client submits queries to a query endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/app-sre/gabi-console/pkg/models"
	"github.com/app-sre/gabi-console/pkg/version"
)

const (
	connectTimeout = 5 * time.Second

	RequestIDHeader = "X-Request-Id"
)

var errTrailingData = errors.New("unable to unmarshal query response: trailing data")

type Client struct {
	Endpoint string

	client  *http.Client
	timeout time.Duration
	logger  *zap.SugaredLogger
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithTimeout bounds every submission. A zero timeout waits for as long
// as the caller's context allows.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(endpoint string, options ...Option) *Client {
	c := &Client{Endpoint: endpoint}

	c.client = &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: connectTimeout,
			}).DialContext,
		},
	}
	c.logger = zap.NewNop().Sugar()

	for _, option := range options {
		option(c)
	}

	return c
}

// Submit sends the query and waits for the reply. It never fails on its
// own: anything that prevents a usable reply is reported as an
// unsuccessful response with a non-empty error.
func (c *Client) Submit(ctx context.Context, query string) *models.QueryResponse {
	id := uuid.NewString()

	resp, err := c.submit(ctx, id, query)
	if err != nil {
		c.logger.Debugf("Query %s failed before a reply was received: %s", id, err)
		return models.Failed(err.Error())
	}
	c.logger.Debugf("Query %s completed (success: %t)", id, resp.Success)

	return resp
}

func (c *Client) submit(ctx context.Context, id, query string) (*models.QueryResponse, error) {
	content, err := json.Marshal(&models.QueryRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("unable to marshal query: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("unable to create query request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", fmt.Sprintf("GABI-Console/%s", version.Version()))
	req.Header.Set(RequestIDHeader, id)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to send query: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read query response body: %w", err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	var response models.QueryResponse

	d := json.NewDecoder(bytes.NewReader(body))
	d.UseNumber()

	if err := d.Decode(&response); err != nil {
		if !ok {
			return nil, fmt.Errorf("query endpoint returned %s", resp.Status)
		}
		return nil, fmt.Errorf("unable to unmarshal query response: %w", err)
	}

	// The body must hold exactly one envelope.
	if err := d.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if !ok {
			return nil, fmt.Errorf("query endpoint returned %s", resp.Status)
		}
		return nil, errTrailingData
	}

	if !ok && response.Success {
		return nil, fmt.Errorf("query endpoint returned %s", resp.Status)
	}
	if !response.Success && response.Error == "" {
		response.Error = fmt.Sprintf("query failed without error details (%s)", resp.Status)
	}

	return &response, nil
}
