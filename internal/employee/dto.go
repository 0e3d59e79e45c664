package employee

import (
	"strings"
	"time"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/common/validation"
)

// RegisterEmployeeDTO is the body of POST /employee/register/{companyId}.
type RegisterEmployeeDTO struct {
	Name      string `json:"nomeFuncionario"`
	Surname   string `json:"sobrenomeFuncionario"`
	Role      string `json:"posicaoFuncionario"`
	Shift     string `json:"turnoFuncionario"`
	StartTime string `json:"horaInicio"`
	EndTime   string `json:"horaFinal"`
}

func (d RegisterEmployeeDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("nomeFuncionario", d.Name).Required().MaxLength(120)
	v.Field("sobrenomeFuncionario", d.Surname).MaxLength(120)
	v.Field("posicaoFuncionario", d.Role).Required().MaxLength(120)
	v.Field("turnoFuncionario", d.Shift).Required().MaxLength(60)
	v.Field("horaInicio", d.StartTime).Required().ClockTime()
	v.Field("horaFinal", d.EndTime).Required().ClockTime()
	return v.Validate()
}

// UpdateEmployeeDTO changes only the fields that are present.
type UpdateEmployeeDTO struct {
	Name      *string `json:"nomeFuncionario,omitempty"`
	Surname   *string `json:"sobrenomeFuncionario,omitempty"`
	Role      *string `json:"posicaoFuncionario,omitempty"`
	Shift     *string `json:"turnoFuncionario,omitempty"`
	StartTime *string `json:"horaInicio,omitempty"`
	EndTime   *string `json:"horaFinal,omitempty"`
}

func (d UpdateEmployeeDTO) Validate() *internal.AppError {
	if len(d.Changes()) == 0 {
		return internal.NewValidationError("at least one field must be provided", internal.ErrCodeValidationFailed)
	}
	// fields required at registration stay required once present;
	// only the surname may be cleared
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("nomeFuncionario", d.Name).Required().MaxLength(120)
	}
	v.Field("sobrenomeFuncionario", d.Surname).Optional().MaxLength(120)
	if d.Role != nil {
		v.Field("posicaoFuncionario", d.Role).Required().MaxLength(120)
	}
	if d.Shift != nil {
		v.Field("turnoFuncionario", d.Shift).Required().MaxLength(60)
	}
	if d.StartTime != nil {
		v.Field("horaInicio", d.StartTime).Required().ClockTime()
	}
	if d.EndTime != nil {
		v.Field("horaFinal", d.EndTime).Required().ClockTime()
	}
	return v.Validate()
}

// Changes maps present fields to their column names.
func (d UpdateEmployeeDTO) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	set := func(column string, value *string) {
		if value != nil {
			changes[column] = strings.TrimSpace(*value)
		}
	}
	set("nome", d.Name)
	set("sobrenome", d.Surname)
	set("posicao", d.Role)
	set("turno", d.Shift)
	set("hora_inicio", d.StartTime)
	set("hora_final", d.EndTime)
	return changes
}

// WorkedDayDTO is the body of POST /employee/worked-day/{employeeId}.
type WorkedDayDTO struct {
	StartTime time.Time `json:"horaInicio"`
	EndTime   time.Time `json:"horaFinal"`
}

func (d WorkedDayDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("horaInicio", d.StartTime).Required()
	v.Field("horaFinal", d.EndTime).Required().NotBefore("horaInicio", d.StartTime)
	return v.Validate()
}

// EventDTO is the body of POST /employee/event/{employeeId}.
type EventDTO struct {
	Key       string    `json:"chaveEvento"`
	StartDate time.Time `json:"dataInicial"`
	EndDate   time.Time `json:"dataFinal"`
	DayStart  string    `json:"inicioDia"`
	DayEnd    string    `json:"fimDia"`
	Selected  bool      `json:"selecionado"`
}

func (d EventDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("chaveEvento", d.Key).Required().MaxLength(120)
	v.Field("dataInicial", d.StartDate).Required()
	v.Field("dataFinal", d.EndDate).Required().NotBefore("dataInicial", d.StartDate)
	v.Field("inicioDia", d.DayStart).Optional().ClockTime()
	v.Field("fimDia", d.DayEnd).Optional().ClockTime()
	return v.Validate()
}

type DeleteEmployeeResponse struct {
	Message string `json:"message"`
}

type UpdateEmployeeResponse struct {
	Message     string    `json:"message"`
	Funcionario *Employee `json:"funcionario"`
}

type WorkedDayResponse struct {
	Message       string     `json:"message"`
	DiaTrabalhado *WorkedDay `json:"diaTrabalhado"`
}

type EventResponse struct {
	Message string `json:"message"`
	Evento  *Event `json:"evento"`
}
