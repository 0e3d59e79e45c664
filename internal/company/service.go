package company

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/hr-records/internal"
	companyDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/company"
	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-records/internal/core/events"
	"github.com/frahmantamala/hr-records/internal/employee"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]*companyDatamodel.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*companyDatamodel.Company, error)
	ListEmployees(ctx context.Context, companyID uuid.UUID) ([]*employeeDatamodel.Employee, error)
	// AddEmployee looks the company up and inserts the employee in the same
	// transaction. A missing company yields ErrCompanyNotFound.
	AddEmployee(ctx context.Context, row *employeeDatamodel.Employee) error
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) ListCompanies(ctx context.Context) ([]*Company, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list companies", "error", err)
		return nil, err
	}

	s.logger.Info("retrieved companies", "count", len(rows))
	return FromDataModelSlice(rows), nil
}

func (s *Service) GetCompany(ctx context.Context, id uuid.UUID) (*Directory, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, internal.ErrCompanyNotFound) {
			s.logger.Error("failed to get company", "company_id", id, "error", err)
		}
		return nil, err
	}

	employees, err := s.repo.ListEmployees(ctx, id)
	if err != nil {
		s.logger.Error("failed to list company employees", "company_id", id, "error", err)
		return nil, err
	}

	return &Directory{
		Company:   FromDataModel(row),
		Employees: employee.FromDataModelSlice(employees),
	}, nil
}

func (s *Service) AddEmployee(ctx context.Context, companyID uuid.UUID, dto employee.RegisterEmployeeDTO) (*employee.Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	created := employee.NewEmployee(companyID, dto)
	if err := s.repo.AddEmployee(ctx, employee.ToDataModel(created)); err != nil {
		if errors.Is(err, internal.ErrCompanyNotFound) {
			s.logger.Warn("employee registration for unknown company", "company_id", companyID)
		} else {
			s.logger.Error("failed to register employee", "company_id", companyID, "error", err)
		}
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.NewEmployeeRegistered(companyID, created.ID)); err != nil {
		s.logger.Warn("failed to publish event", "event_type", events.EventTypeEmployeeRegistered, "error", err)
	}
	s.logger.Info("employee registered", "company_id", companyID, "employee_id", created.ID)

	return created, nil
}
