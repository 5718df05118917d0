package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/app-sre/gabi-console/internal/test"
	gabi "github.com/app-sre/gabi-console/pkg"
	"github.com/stretchr/testify/assert"
)

func TestRecovery(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		given       http.HandlerFunc
		accept      string
		code        int
		error       bool
		body        string
		want        string
	}{
		{
			"no panic",
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				// No-op.
			}),
			"",
			200,
			false,
			``,
			``,
		},
		{
			"panic with recovery",
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic("test")
			}),
			"",
			500,
			false,
			"An internal error has occurred\n",
			`Recovered from an error: test`,
		},
		{
			"panic with recovery for JSON client",
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic("test")
			}),
			"application/json",
			500,
			false,
			`{"success":false,"error":"An internal error has occurred"}` + "\n",
			`Recovered from an error: test`,
		},
		{
			"panic without recovery with special error type",
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(http.ErrAbortHandler)
			}),
			"",
			0,
			true,
			``,
			``,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			defer func() { _ = recover() }()

			var body, output bytes.Buffer

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", &bytes.Buffer{})
			if tc.accept != "" {
				r.Header.Set("Accept", tc.accept)
			}

			logger := test.DummyLogger(&output).Sugar()

			expected := &gabi.Config{Logger: logger}
			Recovery(expected)(tc.given).ServeHTTP(w, r)

			actual := w.Result()
			defer func() { _ = actual.Body.Close() }()

			_, _ = io.Copy(&body, actual.Body)

			assert.Equal(t, tc.code, actual.StatusCode)
			assert.Equal(t, tc.body, body.String())
			assert.Contains(t, output.String(), tc.want)

			if tc.error {
				t.Fatal("did not panic")
			}
		})
	}
}
