package company

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	DisplayName   string    `gorm:"column:nome_fantasia;not null"`
	Email         string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash  string    `gorm:"column:senha;not null"`
	EmployeeCount int       `gorm:"column:qtd_funcionarios;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Company) TableName() string {
	return "empresa"
}
