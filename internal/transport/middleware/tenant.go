package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/transport"
	"github.com/go-chi/chi"
)

// RequireCompanyParam rejects authenticated requests whose token belongs to a
// company other than the one named by the route parameter. Requests without
// an authenticated company pass through untouched.
func RequireCompanyParam(param string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			companyID := internal.CompanyIDFromContext(r.Context())
			if companyID == "" {
				next.ServeHTTP(w, r)
				return
			}

			if target := chi.URLParam(r, param); target != companyID {
				logger.Warn("access denied: company mismatch",
					"token_company", companyID,
					"token_email", internal.CompanyEmailFromContext(r.Context()),
					"route_company", target,
					"path", r.URL.Path)
				transport.WriteErrorBody(w, internal.ErrCompanyMismatch.StatusCode, internal.ErrCompanyMismatch.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
