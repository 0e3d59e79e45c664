package company

import (
	"time"

	companyDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/company"
	"github.com/frahmantamala/hr-records/internal/employee"
	"github.com/google/uuid"
)

// Company is the public view of an empresa row. The password hash never
// leaves the repository layer.
type Company struct {
	ID            uuid.UUID `json:"id"`
	DisplayName   string    `json:"nomeFantasia"`
	Email         string    `json:"email"`
	EmployeeCount int       `json:"qtdFuncionarios"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Directory is a company together with its employees.
type Directory struct {
	Company   *Company             `json:"empresa"`
	Employees []*employee.Employee `json:"funcionarios"`
}

func FromDataModel(c *companyDatamodel.Company) *Company {
	return &Company{
		ID:            c.ID,
		DisplayName:   c.DisplayName,
		Email:         c.Email,
		EmployeeCount: c.EmployeeCount,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*companyDatamodel.Company) []*Company {
	out := make([]*Company, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out
}
