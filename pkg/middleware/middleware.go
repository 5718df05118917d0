package middleware

import (
	"net/http"
)

type ctxKey string

const (
	ContextKeyUser  ctxKey = "user"
	ContextKeyQuery ctxKey = "query"
)

const (
	forwardedUserHeader = "X-Forwarded-User"
	requestIDHeader     = "X-Request-Id"

	anonymousUser = "anonymous"
)

type Middleware func(http.Handler) http.Handler
