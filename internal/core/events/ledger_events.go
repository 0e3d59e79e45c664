package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCompanyRegistered     = "company.registered"
	EventTypeEmployeeRegistered    = "employee.registered"
	EventTypeEmployeeUpdated       = "employee.updated"
	EventTypeEmployeeDeleted       = "employee.deleted"
	EventTypeWorkedDayRecorded     = "worked_day.recorded"
	EventTypeEmployeeEventRecorded = "employee_event.recorded"
)

func newEvent(eventType string, aggregate uuid.UUID, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Aggregate: aggregate.String(),
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

func NewCompanyRegistered(companyID uuid.UUID, displayName string) BaseEvent {
	return newEvent(EventTypeCompanyRegistered, companyID, map[string]interface{}{
		"empresa_id":    companyID.String(),
		"nome_fantasia": displayName,
	})
}

func NewEmployeeRegistered(companyID, employeeID uuid.UUID) BaseEvent {
	return newEvent(EventTypeEmployeeRegistered, employeeID, map[string]interface{}{
		"empresa_id":     companyID.String(),
		"funcionario_id": employeeID.String(),
	})
}

func NewEmployeeUpdated(employeeID uuid.UUID, fields []string) BaseEvent {
	return newEvent(EventTypeEmployeeUpdated, employeeID, map[string]interface{}{
		"funcionario_id": employeeID.String(),
		"fields":         fields,
	})
}

func NewEmployeeDeleted(companyID, employeeID uuid.UUID, displayName string) BaseEvent {
	return newEvent(EventTypeEmployeeDeleted, employeeID, map[string]interface{}{
		"empresa_id":     companyID.String(),
		"funcionario_id": employeeID.String(),
		"nome":           displayName,
	})
}

func NewWorkedDayRecorded(employeeID, workedDayID uuid.UUID, date time.Time, minutes int) BaseEvent {
	return newEvent(EventTypeWorkedDayRecorded, employeeID, map[string]interface{}{
		"funcionario_id":      employeeID.String(),
		"dia_trabalhado_id":   workedDayID.String(),
		"data":                date.Format(time.DateOnly),
		"minutos_trabalhados": minutes,
	})
}

func NewEmployeeEventRecorded(employeeID, eventID uuid.UUID, key string) BaseEvent {
	return newEvent(EventTypeEmployeeEventRecorded, employeeID, map[string]interface{}{
		"funcionario_id": employeeID.String(),
		"evento_id":      eventID.String(),
		"chave_evento":   key,
	})
}
