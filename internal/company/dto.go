package company

import "github.com/frahmantamala/hr-records/internal/employee"

type AddEmployeeResponse struct {
	Message     string             `json:"message"`
	Funcionario *employee.Employee `json:"funcionario"`
}
