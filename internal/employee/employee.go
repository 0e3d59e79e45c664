package employee

import (
	"strings"
	"time"

	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
	"github.com/google/uuid"
)

type Employee struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"empresaId"`
	Name      string    `json:"nomeFuncionario"`
	Surname   string    `json:"sobrenomeFuncionario"`
	Role      string    `json:"posicaoFuncionario"`
	Shift     string    `json:"turnoFuncionario"`
	StartTime string    `json:"horaInicio"`
	EndTime   string    `json:"horaFinal"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DisplayName is "Name Surname", or just the name when there is no surname.
func (e *Employee) DisplayName() string {
	return strings.TrimSpace(e.Name + " " + e.Surname)
}

type WorkedDay struct {
	ID            uuid.UUID `json:"id"`
	EmployeeID    uuid.UUID `json:"funcionarioId"`
	Date          time.Time `json:"data"`
	MinutesWorked int       `json:"minutosTrabalhados"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Event struct {
	ID         uuid.UUID `json:"id"`
	EmployeeID uuid.UUID `json:"funcionarioId"`
	Key        string    `json:"chaveEvento"`
	StartDate  time.Time `json:"dataInicial"`
	EndDate    time.Time `json:"dataFinal"`
	DayStart   string    `json:"inicioDia"`
	DayEnd     string    `json:"fimDia"`
	Selected   bool      `json:"selecionado"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Record is an employee together with its ledger.
type Record struct {
	Employee   *Employee    `json:"funcionario"`
	Events     []*Event     `json:"eventos"`
	WorkedDays []*WorkedDay `json:"diasTrabalhados"`
}

func NewEmployee(companyID uuid.UUID, dto RegisterEmployeeDTO) *Employee {
	now := time.Now().UTC()
	return &Employee{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      strings.TrimSpace(dto.Name),
		Surname:   strings.TrimSpace(dto.Surname),
		Role:      strings.TrimSpace(dto.Role),
		Shift:     strings.TrimSpace(dto.Shift),
		StartTime: dto.StartTime,
		EndTime:   dto.EndTime,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WorkDate truncates t to its calendar date, expressed at UTC midnight so the
// same day always stores the same value.
func WorkDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:        e.ID,
		CompanyID: e.CompanyID,
		Name:      e.Name,
		Surname:   e.Surname,
		Role:      e.Role,
		Shift:     e.Shift,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:        e.ID,
		CompanyID: e.CompanyID,
		Name:      e.Name,
		Surname:   e.Surname,
		Role:      e.Role,
		Shift:     e.Shift,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*employeeDatamodel.Employee) []*Employee {
	out := make([]*Employee, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out
}

func WorkedDayFromDataModel(d *employeeDatamodel.WorkedDay) *WorkedDay {
	return &WorkedDay{
		ID:            d.ID,
		EmployeeID:    d.EmployeeID,
		Date:          d.Date,
		MinutesWorked: d.MinutesWorked,
		CreatedAt:     d.CreatedAt,
	}
}

func EventFromDataModel(e *employeeDatamodel.Event) *Event {
	return &Event{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Key:        e.Key,
		StartDate:  e.StartDate,
		EndDate:    e.EndDate,
		DayStart:   e.DayStart,
		DayEnd:     e.DayEnd,
		Selected:   e.Selected,
		CreatedAt:  e.CreatedAt,
	}
}
