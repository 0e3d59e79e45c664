package auth

import (
	"strings"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/common/validation"
)

// RegisterDTO is the body of POST /company/register.
type RegisterDTO struct {
	DisplayName   string `json:"nomeFantasia"`
	Email         string `json:"email"`
	Password      string `json:"senha"`
	EmployeeCount int    `json:"qtdFuncionarios"`
}

func (d RegisterDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("nomeFantasia", d.DisplayName).Required().MaxLength(160)
	v.Field("email", strings.TrimSpace(d.Email)).Required().Email().MaxLength(254)
	v.Field("senha", d.Password).Required().MaxLength(72)
	v.Field("qtdFuncionarios", d.EmployeeCount).MinInt(0, internal.ErrCodeValidationFailed)
	return v.Validate()
}

// NormalizedEmail is the form used for storage and lookups.
func NormalizedEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LoginDTO is the body of POST /company/login.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("senha", d.Password).Required()
	return v.Validate()
}

type RegisterResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Token       string `json:"token"`
	CompanyID   string `json:"empresaId"`
	ExpiresIn   int    `json:"expiresIn"`
	DisplayName string `json:"nomeFantasia"`
}
