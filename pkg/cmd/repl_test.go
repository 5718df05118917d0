package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/app-sre/gabi-console/internal/test"
	"github.com/app-sre/gabi-console/pkg/models"
	"github.com/app-sre/gabi-console/pkg/view"
	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type input struct {
	line string
	err  error
}

type fakeReader struct {
	inputs  []input
	prompts []string
}

func (f *fakeReader) Readline() (string, error) {
	if len(f.inputs) == 0 {
		return "", io.EOF
	}

	in := f.inputs[0]
	f.inputs = f.inputs[1:]

	return in.line, in.err
}

func (f *fakeReader) SetPrompt(p string) {
	f.prompts = append(f.prompts, p)
}

type recordingSubmitter struct {
	mu      sync.Mutex
	queries []string
}

func (s *recordingSubmitter) Submit(_ context.Context, query string) *models.QueryResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries = append(s.queries, query)

	return &models.QueryResponse{
		Success: true,
		Data:    &models.QueryResult{Columns: []string{"query"}, Rows: [][]any{{query}}},
	}
}

func TestREPL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		inputs      []input
		queries     []string
		out         []string
		errOut      string
		err         error
	}{
		{
			"single line statement",
			[]input{{line: "select 1;"}},
			[]string{"select 1;"},
			[]string{"Processing query...", "│ select 1; │", "Total: 1"},
			``,
			nil,
		},
		{
			"statement spanning several lines",
			[]input{{line: "select"}, {line: "  1"}, {line: "from test;"}},
			[]string{"select\n1\nfrom test;"},
			[]string{"Total: 1"},
			``,
			nil,
		},
		{
			"blank lines are ignored",
			[]input{{line: ""}, {line: "   "}, {line: "select 1;"}},
			[]string{"select 1;"},
			nil,
			``,
			nil,
		},
		{
			"interrupt discards a partial statement",
			[]input{{line: "select"}, {err: readline.ErrInterrupt}, {line: "select 2;"}},
			[]string{"select 2;"},
			nil,
			``,
			nil,
		},
		{
			"quit stops reading",
			[]input{{line: "select 1;"}, {line: ".quit"}, {line: "select 2;"}},
			[]string{"select 1;"},
			nil,
			``,
			nil,
		},
		{
			"exit stops reading",
			[]input{{line: ".EXIT"}, {line: "select 2;"}},
			nil,
			nil,
			``,
			nil,
		},
		{
			"help lists commands",
			[]input{{line: ".help"}},
			nil,
			[]string{".format [name]", ".quit / .exit"},
			``,
			nil,
		},
		{
			"format shows and switches the output format",
			[]input{{line: ".format"}, {line: ".format html"}, {line: ".format"}, {line: "select 1;"}},
			[]string{"select 1;"},
			[]string{"Output format: text", "Output format: html", `<td>select 1;</td>`},
			``,
			nil,
		},
		{
			"format rejects unknown names",
			[]input{{line: ".format xml"}},
			nil,
			nil,
			`Error: unknown output format: xml`,
			nil,
		},
		{
			"unknown command",
			[]input{{line: ".tables"}},
			nil,
			nil,
			`Unknown command: .tables`,
			nil,
		},
		{
			"read error",
			[]input{{err: errors.New("test")}},
			nil,
			nil,
			``,
			errors.New("unable to read input: test"),
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			var out, errOut bytes.Buffer

			submitter := &recordingSubmitter{}
			logger := test.DummyLogger(io.Discard).Sugar()

			r := newREPL(submitter, view.NewText(), &out, &errOut, logger)
			err := r.run(context.TODO(), &fakeReader{inputs: tc.inputs})

			if tc.err != nil {
				require.Error(t, err)
				assert.EqualError(t, err, tc.err.Error())
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.queries, submitter.queries)
			for _, s := range tc.out {
				assert.Contains(t, out.String(), s)
			}
			assert.Contains(t, errOut.String(), tc.errOut)
		})
	}
}

func TestREPLPrompts(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{inputs: []input{{line: "select"}, {line: "1;"}, {line: "select"}, {err: readline.ErrInterrupt}}}

	r := newREPL(&recordingSubmitter{}, view.NewText(), io.Discard, io.Discard, test.DummyLogger(io.Discard).Sugar())
	require.NoError(t, r.run(context.TODO(), reader))

	assert.Equal(t, []string{continuationPrompt, prompt, continuationPrompt, prompt}, reader.prompts)
}

func TestREPLCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.TODO())
	cancel()

	submitter := &recordingSubmitter{}

	r := newREPL(submitter, view.NewText(), io.Discard, io.Discard, test.DummyLogger(io.Discard).Sugar())
	require.NoError(t, r.run(ctx, &fakeReader{inputs: []input{{line: "select 1;"}}}))

	assert.Empty(t, submitter.queries)
}
