package rest

import (
	"log/slog"

	"github.com/frahmantamala/hr-records/internal/auth"
	"github.com/frahmantamala/hr-records/internal/company"
	"github.com/frahmantamala/hr-records/internal/employee"
	"github.com/frahmantamala/hr-records/internal/transport/middleware"
	"github.com/frahmantamala/hr-records/internal/transport/openapi"
	"github.com/frahmantamala/hr-records/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Dependencies struct {
	AuthHandler     *auth.Handler
	CompanyHandler  *company.Handler
	EmployeeHandler *employee.Handler
	Health          *HealthHandler
	Validator       *openapi.Validator
	LoginLimiter    *middleware.LimiterStore
	Spec            []byte
	AllowedOrigins  []string
	AllowLocalhost  bool
	RequireAuth     bool
	Logger          *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies) {
	logger := deps.Logger

	// Apply global middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORS(deps.AllowedOrigins, deps.AllowLocalhost))

	if deps.Spec != nil {
		router.Get(swagger.SpecPath, swagger.SpecHandler(deps.Spec))
		router.Handle("/swagger/*", swagger.Handler())
	}

	if deps.Health != nil {
		router.Get("/health", deps.Health.Health)
		router.Get("/ping", deps.Health.Ping)
	}

	// protected wraps routes with the token check when auth is on; validated
	// runs the schema check after it.
	protected := func(r chi.Router) chi.Router {
		if deps.RequireAuth && deps.AuthHandler != nil {
			return r.With(deps.AuthHandler.AuthMiddleware)
		}
		return r
	}
	validated := func(r chi.Router) chi.Router {
		if deps.Validator != nil {
			return r.With(deps.Validator.Middleware)
		}
		return r
	}

	router.Route("/company", func(cr chi.Router) {
		if deps.AuthHandler != nil {
			validated(cr).Post("/register", deps.AuthHandler.Register)
			if deps.LoginLimiter != nil {
				validated(cr.With(middleware.RateLimit(deps.LoginLimiter))).Post("/login", deps.AuthHandler.Login)
			} else {
				validated(cr).Post("/login", deps.AuthHandler.Login)
			}
		}

		if deps.CompanyHandler != nil {
			cr.Get("/", deps.CompanyHandler.ListCompanies)
			protected(cr).
				With(middleware.RequireCompanyParam("id", logger)).
				Get("/{id}", deps.CompanyHandler.GetCompany)
		}
	})

	router.Route("/employee", func(er chi.Router) {
		pr := validated(protected(er))

		if deps.CompanyHandler != nil {
			pr.With(middleware.RequireCompanyParam("companyId", logger)).
				Post("/register/{companyId}", deps.CompanyHandler.AddEmployee)
		}

		if deps.EmployeeHandler != nil {
			pr.With(middleware.RequireCompanyParam("companyId", logger)).
				Get("/company/{companyId}", deps.EmployeeHandler.ListByCompany)
			pr.Post("/worked-day/{employeeId}", deps.EmployeeHandler.RecordWorkedDay)
			pr.Post("/event/{employeeId}", deps.EmployeeHandler.RecordEvent)
			pr.Put("/update/{id}", deps.EmployeeHandler.UpdateEmployee)
			pr.Get("/{id}", deps.EmployeeHandler.GetEmployee)
			pr.Delete("/{id}", deps.EmployeeHandler.DeleteEmployee)
		}
	})
}
