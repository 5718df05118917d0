package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/app-sre/gabi-console/internal/test"
	"github.com/app-sre/gabi-console/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryServer(t *testing.T, replies map[string]string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request models.QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		reply, ok := replies[request.Query]
		if !ok {
			reply = `{"success":false,"error":"unknown query"}`
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestExec(t *testing.T) {
	srv := queryServer(t, map[string]string{
		"select 1;":         `{"success":true,"data":{"Columns":["?column?"],"Rows":[["1"]]}}`,
		"delete from test;": `{"success":true,"Message":"3 rows affected"}`,
		"select broken;":    `{"success":false,"error":"syntax error"}`,
	})

	cases := []struct {
		description string
		args        []string
		want        []string
		error       error
	}{
		{
			"query returning rows as text",
			[]string{"select 1;"},
			[]string{"Processing query...", "?column?", "│ 1 ", "Status: success", "Total: 1"},
			nil,
		},
		{
			"query returning rows as HTML",
			[]string{"--format", "html", "select 1;"},
			[]string{`<div class="alert alert-info">`, `<th>?column?</th>`, `<td>1</td>`},
			nil,
		},
		{
			"query split across arguments",
			[]string{"select", "1;"},
			[]string{"Total: 1"},
			nil,
		},
		{
			"statement without rows",
			[]string{"delete from test;"},
			[]string{"✓ 3 rows affected", "(No data to display)"},
			nil,
		},
		{
			"query returning error",
			[]string{"select broken;"},
			[]string{"✗ Execution error: syntax error"},
			errQueryFailed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.description, func(t *testing.T) {
			var out bytes.Buffer

			root := NewRootCommand(test.DummyLogger(io.Discard).Sugar())
			root.SetOut(&out)
			root.SetArgs(append([]string{"exec", "--endpoint", srv.URL}, tc.args...))

			err := root.ExecuteContext(context.TODO())

			if tc.error != nil {
				assert.ErrorIs(t, err, tc.error)
			} else {
				assert.NoError(t, err)
			}
			for _, s := range tc.want {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func TestExecInvalidConfiguration(t *testing.T) {
	cases := []struct {
		description string
		args        []string
		error       string
	}{
		{
			"unknown output format",
			[]string{"exec", "--format", "xml", "select 1;"},
			`unable to convert configuration value: format ("xml")`,
		},
		{
			"missing query",
			[]string{"exec"},
			`requires at least 1 arg(s), only received 0`,
		},
		{
			"missing configuration file",
			[]string{"exec", "--config", "/does/not/exist.yaml", "select 1;"},
			`unable to read configuration file /does/not/exist.yaml`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.description, func(t *testing.T) {
			root := NewRootCommand(test.DummyLogger(io.Discard).Sugar())
			root.SetOut(io.Discard)
			root.SetArgs(tc.args)

			err := root.ExecuteContext(context.TODO())

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.error)
		})
	}
}

func TestRun(t *testing.T) {
	err := Run(context.TODO(), test.DummyLogger(io.Discard).Sugar(), []string{"--version"})

	assert.NoError(t, err)
}
