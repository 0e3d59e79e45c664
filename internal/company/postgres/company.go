package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/company"
	companyDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/company"
	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) company.RepositoryAPI {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) List(ctx context.Context) ([]*companyDatamodel.Company, error) {
	rows := make([]*companyDatamodel.Company, 0)
	if err := r.db.WithContext(ctx).Order("nome_fantasia ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return rows, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*companyDatamodel.Company, error) {
	var row companyDatamodel.Company
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &row, nil
}

func (r *CompanyRepository) ListEmployees(ctx context.Context, companyID uuid.UUID) ([]*employeeDatamodel.Employee, error) {
	rows := make([]*employeeDatamodel.Employee, 0)
	err := r.db.WithContext(ctx).
		Where("empresa_id = ?", companyID).
		Order("nome ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list company employees: %w", err)
	}
	return rows, nil
}

func (r *CompanyRepository) AddEmployee(ctx context.Context, row *employeeDatamodel.Employee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&companyDatamodel.Company{}).Where("id = ?", row.CompanyID).Count(&count).Error; err != nil {
			return fmt.Errorf("lookup company: %w", err)
		}
		if count == 0 {
			return internal.ErrCompanyNotFound
		}

		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("create employee: %w", err)
		}
		return nil
	})
}
