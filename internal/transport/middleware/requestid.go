package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hr-records/pkg/logger"
	"github.com/google/uuid"
)

const (
	TraceHeader   = "X-Trace-ID"
	maxTraceIDLen = 128
)

// RequestID seeds the request logger from base and tags it with the caller's
// trace id. Absent or malformed ids are replaced by a fresh uuid so nothing
// the client sends reaches the logs or the response header unchecked.
func RequestID(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(TraceHeader)
			if !validTraceID(traceID) {
				traceID = uuid.NewString()
			}
			w.Header().Set(TraceHeader, traceID)

			ctx := logger.WithTraceID(logger.NewContext(r.Context(), base), traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validTraceID accepts up to maxTraceIDLen visible ASCII characters.
func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}
