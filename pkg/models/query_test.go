package models

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryResponseEncoding(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		given       *QueryResponse
		want        string
	}{
		{
			"successful response with rows",
			&QueryResponse{
				Success: true,
				Data: &QueryResult{
					Columns: []string{"id", "name"},
					Rows:    [][]any{{1, "a"}, {2, nil}},
				},
			},
			`{"success":true,"data":{"Columns":["id","name"],"Rows":[[1,"a"],[2,null]]}}`,
		},
		{
			"successful response with message only",
			&QueryResponse{Success: true, Message: "3 rows affected"},
			`{"success":true,"Message":"3 rows affected"}`,
		},
		{
			"failed response",
			Failed("syntax error near SELECT"),
			`{"success":false,"error":"syntax error near SELECT"}`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			actual, err := json.Marshal(tc.given)

			require.NoError(t, err)
			assert.Equal(t, tc.want, string(actual))
		})
	}
}

func TestQueryResponseDecoding(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		given       string
		want        *QueryResponse
	}{
		{
			"rows keep nulls and exact numbers",
			`{"success":true,"data":{"Columns":["id","name"],"Rows":[[1,"a"],[2,null]]}}`,
			&QueryResponse{
				Success: true,
				Data: &QueryResult{
					Columns: []string{"id", "name"},
					Rows:    [][]any{{json.Number("1"), "a"}, {json.Number("2"), nil}},
				},
			},
		},
		{
			"lowercase message key is accepted",
			`{"success":true,"message":"Query OK"}`,
			&QueryResponse{Success: true, Message: "Query OK"},
		},
		{
			"data without rows",
			`{"success":true,"data":{"Columns":["id"]}}`,
			&QueryResponse{Success: true, Data: &QueryResult{Columns: []string{"id"}}},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			var actual QueryResponse

			d := json.NewDecoder(bytes.NewBufferString(tc.given))
			d.UseNumber()

			require.NoError(t, d.Decode(&actual))
			assert.Equal(t, tc.want, &actual)
		})
	}
}
