package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"column:empresa_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:nome;not null"`
	Surname   string    `gorm:"column:sobrenome"`
	Role      string    `gorm:"column:posicao"`
	Shift     string    `gorm:"column:turno"`
	StartTime string    `gorm:"column:hora_inicio;size:5"`
	EndTime   string    `gorm:"column:hora_final;size:5"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "funcionario"
}

// WorkedDay is unique per (employee, calendar date); the index is what
// rejects a second record on the same day.
type WorkedDay struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID `gorm:"column:funcionario_id;type:uuid;not null;uniqueIndex:idx_dia_trabalhado_funcionario_data,priority:1"`
	Date          time.Time `gorm:"column:data;type:date;not null;uniqueIndex:idx_dia_trabalhado_funcionario_data,priority:2"`
	MinutesWorked int       `gorm:"column:minutos_trabalhados;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (WorkedDay) TableName() string {
	return "dia_trabalhado"
}

type Event struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"column:funcionario_id;type:uuid;not null;index"`
	Key        string    `gorm:"column:chave_evento;not null"`
	StartDate  time.Time `gorm:"column:data_inicial;not null"`
	EndDate    time.Time `gorm:"column:data_final;not null"`
	DayStart   string    `gorm:"column:inicio_dia;size:5"`
	DayEnd     string    `gorm:"column:fim_dia;size:5"`
	Selected   bool      `gorm:"column:selecionado;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Event) TableName() string {
	return "evento_funcionario"
}
