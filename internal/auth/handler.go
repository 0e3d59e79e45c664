package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/transport"
	"github.com/frahmantamala/hr-records/pkg/logger"
)

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) error
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	if baseHandler == nil {
		baseHandler = transport.NewBaseHandler(nil)
	}
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, "Register", err)
		return
	}

	if err := h.Service.Register(r.Context(), dto); err != nil {
		h.HandleServiceError(w, r, "Register", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RegisterResponse{Message: "company registered successfully"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, "Login", err)
		return
	}

	resp, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, "Login", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// AuthMiddleware requires a valid bearer token and binds the token's company
// to the request context and logger.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, r, "AuthMiddleware", internal.ErrMissingToken)
			return
		}

		claims, err := h.Service.ValidateToken(token)
		if err != nil {
			h.HandleServiceError(w, r, "AuthMiddleware", err)
			return
		}

		ctx := internal.ContextWithCompany(r.Context(), claims.CompanyID, claims.Email)
		ctx = logger.With(ctx, "company_id", claims.CompanyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
