package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/hr-records/pkg/logger"
	"github.com/go-chi/chi/middleware"
)

const (
	maxLoggedBody = 64 << 10
	redacted      = "[FILTERED]"
)

// redactedKeys are matched case-insensitively against JSON keys and header
// names, exactly rather than by substring.
var redactedKeys = map[string]struct{}{
	"senha":         {},
	"password":      {},
	"token":         {},
	"authorization": {},
	"cookie":        {},
	"set-cookie":    {},
	"jwt_secret":    {},
}

func isRedacted(name string) bool {
	_, ok := redactedKeys[strings.ToLower(name)]
	return ok
}

// LoggingMiddleware writes one debug line with the redacted request and one
// completion line whose level follows the status class.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			log := logger.FromOr(r.Context(), base).With("request_id", middleware.GetReqID(r.Context()))

			if log.Enabled(r.Context(), slog.LevelDebug) {
				body := peekBody(r)
				log.DebugContext(r.Context(), "request received",
					"method", r.Method,
					"path", r.URL.Path,
					"query", r.URL.RawQuery,
					"remote_addr", r.RemoteAddr,
					"headers", RedactHeaders(r.Header),
					"body", RedactJSON(body))
			}

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", rec.written,
			}
			if status >= 400 {
				attrs = append(attrs, "response", RedactJSON(rec.errBody.Bytes()))
			}
			log.Log(r.Context(), level, "request completed", attrs...)
		})
	}
}

// peekBody reads up to maxLoggedBody bytes and puts them back in front of
// the remaining body.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
	rest := r.Body
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), rest), rest}
	return head
}

// statusRecorder keeps the status, the byte count and, for error answers,
// the body so it can be logged.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int
	errBody bytes.Buffer
}

func (rw *statusRecorder) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	if rw.status >= 400 && rw.errBody.Len() < maxLoggedBody {
		rw.errBody.Write(b)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

func RedactHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isRedacted(name) {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// RedactJSON masks credential fields at any depth. Bodies that are not JSON
// are not logged at all.
func RedactJSON(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return "[non-json body omitted]"
	}
	out, err := json.Marshal(redactValue(doc))
	if err != nil {
		return "[unloggable body]"
	}
	return string(out)
}

func redactValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for key, value := range t {
			if isRedacted(key) {
				t[key] = redacted
				continue
			}
			t[key] = redactValue(value)
		}
		return t
	case []interface{}:
		for i := range t {
			t[i] = redactValue(t[i])
		}
		return t
	default:
		return v
	}
}
