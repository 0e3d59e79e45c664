package employee

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/frahmantamala/hr-records/internal"
	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-records/internal/core/events"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id uuid.UUID) (*employeeDatamodel.Employee, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*employeeDatamodel.Employee, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}) error
	CreateWorkedDay(ctx context.Context, day *employeeDatamodel.WorkedDay) error
	ListWorkedDays(ctx context.Context, employeeID uuid.UUID) ([]*employeeDatamodel.WorkedDay, error)
	CreateEvent(ctx context.Context, event *employeeDatamodel.Event) error
	ListEvents(ctx context.Context, employeeID uuid.UUID) ([]*employeeDatamodel.Event, error)
	// DeleteCascade removes the employee with its events and worked days in
	// one transaction and returns the removed employee row.
	DeleteCascade(ctx context.Context, id uuid.UUID) (*employeeDatamodel.Employee, error)
}

// Service is the employee ledger.
type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	formula   MinutesFormula
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, formula MinutesFormula, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if formula == "" {
		formula = MinutesFormulaLegacy
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		formula:   formula,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock replaces the clock used to stamp worked days.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) RecordWorkedDay(ctx context.Context, employeeID uuid.UUID, dto WorkedDayDTO) (*WorkedDay, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	day := &employeeDatamodel.WorkedDay{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		Date:          WorkDate(s.now()),
		MinutesWorked: s.formula.Compute(dto.StartTime, dto.EndTime),
	}

	if err := s.repo.CreateWorkedDay(ctx, day); err != nil {
		if errors.Is(err, internal.ErrWorkedDayAlreadyRecorded) {
			s.logger.Warn("worked day already recorded", "employee_id", employeeID, "date", day.Date.Format(time.DateOnly))
		} else {
			s.logger.Error("failed to record worked day", "employee_id", employeeID, "error", err)
		}
		return nil, err
	}

	s.publish(ctx, events.NewWorkedDayRecorded(employeeID, day.ID, day.Date, day.MinutesWorked))
	s.logger.Info("worked day recorded",
		"employee_id", employeeID,
		"date", day.Date.Format(time.DateOnly),
		"minutes_worked", day.MinutesWorked,
		"formula", s.formula)

	return WorkedDayFromDataModel(day), nil
}

func (s *Service) RecordEvent(ctx context.Context, employeeID uuid.UUID, dto EventDTO) (*Event, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	row := &employeeDatamodel.Event{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Key:        dto.Key,
		StartDate:  dto.StartDate,
		EndDate:    dto.EndDate,
		DayStart:   dto.DayStart,
		DayEnd:     dto.DayEnd,
		Selected:   dto.Selected,
	}

	if err := s.repo.CreateEvent(ctx, row); err != nil {
		s.logger.Error("failed to record employee event", "employee_id", employeeID, "error", err)
		return nil, err
	}

	s.publish(ctx, events.NewEmployeeEventRecorded(employeeID, row.ID, row.Key))
	s.logger.Info("employee event recorded", "employee_id", employeeID, "event_key", row.Key)

	return EventFromDataModel(row), nil
}

// DeleteEmployee removes the employee and its whole ledger, returning the
// display name of the removed employee.
func (s *Service) DeleteEmployee(ctx context.Context, id uuid.UUID) (string, error) {
	row, err := s.repo.DeleteCascade(ctx, id)
	if err != nil {
		if !errors.Is(err, internal.ErrEmployeeNotFound) {
			s.logger.Error("failed to delete employee", "employee_id", id, "error", err)
		}
		return "", err
	}

	deleted := FromDataModel(row)
	s.publish(ctx, events.NewEmployeeDeleted(deleted.CompanyID, deleted.ID, deleted.DisplayName()))
	s.logger.Info("employee deleted", "employee_id", id, "company_id", deleted.CompanyID)

	return deleted.DisplayName(), nil
}

func (s *Service) GetEmployee(ctx context.Context, id uuid.UUID) (*Record, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	eventRows, err := s.repo.ListEvents(ctx, id)
	if err != nil {
		s.logger.Error("failed to list employee events", "employee_id", id, "error", err)
		return nil, err
	}

	dayRows, err := s.repo.ListWorkedDays(ctx, id)
	if err != nil {
		s.logger.Error("failed to list worked days", "employee_id", id, "error", err)
		return nil, err
	}

	record := &Record{
		Employee:   FromDataModel(row),
		Events:     make([]*Event, 0, len(eventRows)),
		WorkedDays: make([]*WorkedDay, 0, len(dayRows)),
	}
	for _, e := range eventRows {
		record.Events = append(record.Events, EventFromDataModel(e))
	}
	for _, d := range dayRows {
		record.WorkedDays = append(record.WorkedDays, WorkedDayFromDataModel(d))
	}
	sort.Slice(record.WorkedDays, func(i, j int) bool {
		return record.WorkedDays[i].Date.Before(record.WorkedDays[j].Date)
	})

	return record, nil
}

func (s *Service) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*Employee, error) {
	rows, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("failed to list employees", "company_id", companyID, "error", err)
		return nil, err
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id uuid.UUID, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	changes := dto.Changes()
	if err := s.repo.Update(ctx, id, changes); err != nil {
		if !errors.Is(err, internal.ErrEmployeeNotFound) {
			s.logger.Error("failed to update employee", "employee_id", id, "error", err)
		}
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(changes))
	for column := range changes {
		fields = append(fields, column)
	}
	sort.Strings(fields)
	s.publish(ctx, events.NewEmployeeUpdated(id, fields))

	return FromDataModel(row), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
