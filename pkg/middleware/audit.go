package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	gabi "github.com/app-sre/gabi-console/pkg"
	"github.com/app-sre/gabi-console/pkg/audit"
	"github.com/app-sre/gabi-console/pkg/models"
)

// Audit records every submitted query before it runs. The parsed query is
// passed on through the request context; bodies that do not parse are
// left for the handler to reject.
func Audit(cfg *gabi.Config) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			now := time.Now()

			var (
				b       bytes.Buffer
				request models.QueryRequest
			)

			user, _ := ctx.Value(ContextKeyUser).(string)
			if user == "" {
				user = r.Header.Get(forwardedUserHeader)
			}
			if user == "" {
				user = anonymousUser
			}

			if _, err := io.Copy(&b, r.Body); err != nil {
				cfg.Logger.Errorf("Unable to copy request body: %s", err)
				http.Error(w, "An internal error has occurred", http.StatusInternalServerError)
				return
			}
			_ = r.Body.Close()

			r.Body = io.NopCloser(bytes.NewReader(b.Bytes()))

			if err := json.Unmarshal(b.Bytes(), &request); err != nil {
				cfg.Logger.Debugf("Unable to unmarshal request body: %s", err)
				h.ServeHTTP(w, r)
				return
			}

			query := &audit.QueryData{
				Query:     request.Query,
				User:      user,
				RequestID: r.Header.Get(requestIDHeader),
				Timestamp: now.Unix(),
			}
			if err := cfg.LoggerAudit.Write(query); err != nil {
				cfg.Logger.Errorf("Unable to write audit: %s", err)
				http.Error(w, "An internal error has occurred", http.StatusInternalServerError)
				return
			}

			ctx = context.WithValue(ctx, ContextKeyQuery, request.Query)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
