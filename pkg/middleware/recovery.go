package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	gabi "github.com/app-sre/gabi-console/pkg"
	"github.com/app-sre/gabi-console/pkg/models"
)

const internalErrorMessage = "An internal error has occurred"

// Recovery turns a panicking handler into a 500 reply. Clients asking for
// JSON get a failed query envelope instead of plain text.
func Recovery(cfg *gabi.Config) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if ok && errors.Is(err, http.ErrAbortHandler) {
						panic(err)
					}

					cfg.Logger.Errorf("Recovered from an error: %s", rec)

					if !strings.Contains(r.Header.Get("Accept"), "application/json") {
						http.Error(w, internalErrorMessage, http.StatusInternalServerError)
						return
					}

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(models.Failed(internalErrorMessage))
				}
			}()
			h.ServeHTTP(w, r)
		})
	}
}
