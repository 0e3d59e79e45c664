// Package openapi validates incoming requests against the API document
// before they reach a handler.
package openapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/hr-records/internal/transport"
	"github.com/frahmantamala/hr-records/pkg/logger"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

const maxBodyBytes = 1 << 20

type Validator struct {
	router routers.Router
	logger *slog.Logger
}

// NewValidator loads and checks the document. Paths the document does not
// describe are passed through untouched.
func NewValidator(spec []byte, lg *slog.Logger) (*Validator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Validator{router: router, logger: lg}, nil
}

func (v *Validator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := v.router.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		var body []byte
		if r.Body != nil {
			body, err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
			if err != nil {
				transport.WriteErrorBody(w, http.StatusBadRequest, "invalid request body")
				return
			}
			_ = r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(context.WithoutCancel(r.Context()), input); err != nil {
			message := summarize(err)
			logger.FromOr(r.Context(), v.logger).Warn("request rejected by schema",
				"method", r.Method,
				"path", r.URL.Path,
				"error", message)
			transport.WriteErrorBody(w, http.StatusBadRequest, message)
			return
		}

		if body != nil {
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		next.ServeHTTP(w, r)
	})
}

// summarize keeps the first line of a validation error; schema errors append
// the whole schema and value after it.
func summarize(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		var schemaErr *openapi3.SchemaError
		if errors.As(reqErr.Err, &schemaErr) {
			return "invalid request: " + schemaErr.Reason
		}
		if reqErr.Err != nil {
			return "invalid request: " + firstLine(reqErr.Err.Error())
		}
		return "invalid request: " + firstLine(reqErr.Reason)
	}
	return "invalid request: " + firstLine(err.Error())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
