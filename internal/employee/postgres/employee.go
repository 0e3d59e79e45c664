package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/datamodel"
	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-records/internal/employee"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*employeeDatamodel.Employee, error) {
	var row employeeDatamodel.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return &row, nil
}

func (r *EmployeeRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*employeeDatamodel.Employee, error) {
	rows := make([]*employeeDatamodel.Employee, 0)
	err := r.db.WithContext(ctx).
		Where("empresa_id = ?", companyID).
		Order("nome ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return rows, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&employeeDatamodel.Employee{}).
		Where("id = ?", id).
		Updates(changes)
	if result.Error != nil {
		return fmt.Errorf("update employee: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return internal.ErrEmployeeNotFound
	}
	return nil
}

// CreateWorkedDay relies on the (funcionario_id, data) unique index; a second
// insert for the same day surfaces as ErrWorkedDayAlreadyRecorded.
func (r *EmployeeRepository) CreateWorkedDay(ctx context.Context, day *employeeDatamodel.WorkedDay) error {
	if err := r.db.WithContext(ctx).Create(day).Error; err != nil {
		if datamodel.IsUniqueViolation(err) {
			return internal.ErrWorkedDayAlreadyRecorded.WithCause(err)
		}
		return fmt.Errorf("create worked day: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) ListWorkedDays(ctx context.Context, employeeID uuid.UUID) ([]*employeeDatamodel.WorkedDay, error) {
	rows := make([]*employeeDatamodel.WorkedDay, 0)
	err := r.db.WithContext(ctx).
		Where("funcionario_id = ?", employeeID).
		Order("data ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list worked days: %w", err)
	}
	return rows, nil
}

func (r *EmployeeRepository) CreateEvent(ctx context.Context, event *employeeDatamodel.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create employee event: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) ListEvents(ctx context.Context, employeeID uuid.UUID) ([]*employeeDatamodel.Event, error) {
	rows := make([]*employeeDatamodel.Event, 0)
	err := r.db.WithContext(ctx).
		Where("funcionario_id = ?", employeeID).
		Order("data_inicial ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list employee events: %w", err)
	}
	return rows, nil
}

func (r *EmployeeRepository) DeleteCascade(ctx context.Context, id uuid.UUID) (*employeeDatamodel.Employee, error) {
	var deleted employeeDatamodel.Employee

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&deleted).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrEmployeeNotFound
			}
			return fmt.Errorf("lookup employee: %w", err)
		}

		if err := tx.Where("funcionario_id = ?", id).Delete(&employeeDatamodel.Event{}).Error; err != nil {
			return fmt.Errorf("delete employee events: %w", err)
		}

		if err := tx.Where("funcionario_id = ?", id).Delete(&employeeDatamodel.WorkedDay{}).Error; err != nil {
			return fmt.Errorf("delete worked days: %w", err)
		}

		if err := tx.Where("id = ?", id).Delete(&employeeDatamodel.Employee{}).Error; err != nil {
			return fmt.Errorf("delete employee: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &deleted, nil
}
