package company

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-records/internal/employee"
	"github.com/frahmantamala/hr-records/internal/transport"
	"github.com/google/uuid"
)

type ServiceAPI interface {
	ListCompanies(ctx context.Context) ([]*Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*Directory, error)
	AddEmployee(ctx context.Context, companyID uuid.UUID, dto employee.RegisterEmployeeDTO) (*employee.Employee, error)
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

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Service.ListCompanies(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, "ListCompanies", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, companies)
}

func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := h.UUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "GetCompany", err)
		return
	}

	directory, err := h.Service.GetCompany(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, "GetCompany", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, directory)
}

func (h *Handler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.UUIDParam(r, "companyId")
	if err != nil {
		h.HandleServiceError(w, r, "AddEmployee", err)
		return
	}

	var dto employee.RegisterEmployeeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, "AddEmployee", err)
		return
	}

	created, err := h.Service.AddEmployee(r.Context(), companyID, dto)
	if err != nil {
		h.HandleServiceError(w, r, "AddEmployee", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AddEmployeeResponse{
		Message:     "employee registered successfully",
		Funcionario: created,
	})
}
