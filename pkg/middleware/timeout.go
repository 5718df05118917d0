package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/app-sre/gabi-console/pkg/models"
)

const timeoutMessage = "Request timed out"

// timeoutBody is the envelope sent when a query outlives its deadline, so
// that clients can report it like any other failed query.
var timeoutBody = func() string {
	b, _ := json.Marshal(models.Failed(timeoutMessage))
	return string(b)
}()

func Timeout(timeout time.Duration) Middleware {
	return func(h http.Handler) http.Handler {
		return http.TimeoutHandler(h, timeout, timeoutBody)
	}
}
