package employee

import (
	"context"
	"fmt"
	"net/http"

	"github.com/frahmantamala/hr-records/internal/transport"
	"github.com/google/uuid"
)

type ServiceAPI interface {
	RecordWorkedDay(ctx context.Context, employeeID uuid.UUID, dto WorkedDayDTO) (*WorkedDay, error)
	RecordEvent(ctx context.Context, employeeID uuid.UUID, dto EventDTO) (*Event, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) (string, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*Record, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*Employee, error)
	UpdateEmployee(ctx context.Context, id uuid.UUID, dto UpdateEmployeeDTO) (*Employee, error)
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

func (h *Handler) RecordWorkedDay(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.UUIDParam(r, "employeeId")
	if err != nil {
		h.HandleServiceError(w, r, "RecordWorkedDay", err)
		return
	}

	var dto WorkedDayDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, "RecordWorkedDay", err)
		return
	}

	day, err := h.Service.RecordWorkedDay(r.Context(), employeeID, dto)
	if err != nil {
		h.HandleServiceError(w, r, "RecordWorkedDay", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, WorkedDayResponse{
		Message:       "worked day recorded successfully",
		DiaTrabalhado: day,
	})
}

func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.UUIDParam(r, "employeeId")
	if err != nil {
		h.HandleServiceError(w, r, "RecordEvent", err)
		return
	}

	var dto EventDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, "RecordEvent", err)
		return
	}

	event, err := h.Service.RecordEvent(r.Context(), employeeID, dto)
	if err != nil {
		h.HandleServiceError(w, r, "RecordEvent", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, EventResponse{
		Message: "employee event recorded successfully",
		Evento:  event,
	})
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.UUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "DeleteEmployee", err)
		return
	}

	name, err := h.Service.DeleteEmployee(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, "DeleteEmployee", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, DeleteEmployeeResponse{
		Message: fmt.Sprintf("employee %s deleted successfully", name),
	})
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.UUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "GetEmployee", err)
		return
	}

	record, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, "GetEmployee", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) ListByCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.UUIDParam(r, "companyId")
	if err != nil {
		h.HandleServiceError(w, r, "ListByCompany", err)
		return
	}

	employees, err := h.Service.ListByCompany(r.Context(), companyID)
	if err != nil {
		h.HandleServiceError(w, r, "ListByCompany", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, employees)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.UUIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "UpdateEmployee", err)
		return
	}

	var dto UpdateEmployeeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, "UpdateEmployee", err)
		return
	}

	updated, err := h.Service.UpdateEmployee(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, "UpdateEmployee", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, UpdateEmployeeResponse{
		Message:     "employee updated successfully",
		Funcionario: updated,
	})
}
