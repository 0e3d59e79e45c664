package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/auth"
	"github.com/frahmantamala/hr-records/internal/core/datamodel"
	companyDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/company"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*companyDatamodel.Company, error) {
	var row companyDatamodel.Company
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("get company by email: %w", err)
	}
	return &row, nil
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&companyDatamodel.Company{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check company email: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) Create(ctx context.Context, row *companyDatamodel.Company) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if datamodel.IsUniqueViolation(err) {
			return internal.ErrEmailAlreadyRegistered.WithCause(err)
		}
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}
