package restserver

import (
	"context"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"go.uber.org/zap"

	"github.com/chrissnell/climatequery/internal/log"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDContextKey contextKey = "request-id"

// RequestIDFromContext returns the id assigned by requestIDMiddleware, if any
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// requestIDMiddleware keeps an inbound X-Request-ID or assigns a new one, and
// echoes it on the response
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware writes one access log entry per request
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		log.LogHTTPRequest(log.HTTPLogEntry{
			Method:     r.Method,
			Path:       r.URL.Path,
			Status:     m.Code,
			Duration:   m.Duration,
			Size:       m.Written,
			RemoteAddr: r.RemoteAddr,
			UserAgent:  r.UserAgent(),
			RequestID:  RequestIDFromContext(r.Context()),
		})
	})
}

// recoveryMiddleware turns a handler panic into a 500. The panic is logged
// through zap at error level; printStack adds the stack trace to the entry.
func recoveryMiddleware(next http.Handler, printStack bool) http.Handler {
	panicLogger, err := zap.NewStdLogAt(log.GetZapLogger(), zap.ErrorLevel)
	if err != nil {
		log.Errorf("unable to create recovery logger at error level: %v", err)
		panicLogger = zap.NewStdLog(log.GetZapLogger())
	}

	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(panicLogger),
		handlers.PrintRecoveryStack(printStack),
	)(next)
}
