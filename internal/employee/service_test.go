package employee_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/frahmantamala/hr-records/internal"
	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-records/internal/core/events"
	"github.com/frahmantamala/hr-records/internal/employee"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockRepository keeps the ledger in maps and enforces one worked day per
// employee and date, like the unique index does.
type MockRepository struct {
	employees  map[uuid.UUID]*employeeDatamodel.Employee
	workedDays []*employeeDatamodel.WorkedDay
	events     []*employeeDatamodel.Event
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{employees: make(map[uuid.UUID]*employeeDatamodel.Employee)}
}

func (m *MockRepository) AddEmployee(e *employeeDatamodel.Employee) {
	m.employees[e.ID] = e
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*employeeDatamodel.Employee, error) {
	if m.failError != nil {
		return nil, m.failError
	}
	e, ok := m.employees[id]
	if !ok {
		return nil, internal.ErrEmployeeNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *MockRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*employeeDatamodel.Employee, error) {
	if m.failError != nil {
		return nil, m.failError
	}
	out := make([]*employeeDatamodel.Employee, 0)
	for _, e := range m.employees {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockRepository) Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}) error {
	e, ok := m.employees[id]
	if !ok {
		return internal.ErrEmployeeNotFound
	}
	for column, value := range changes {
		v := value.(string)
		switch column {
		case "nome":
			e.Name = v
		case "sobrenome":
			e.Surname = v
		case "posicao":
			e.Role = v
		case "turno":
			e.Shift = v
		case "hora_inicio":
			e.StartTime = v
		case "hora_final":
			e.EndTime = v
		}
	}
	return nil
}

func (m *MockRepository) CreateWorkedDay(ctx context.Context, day *employeeDatamodel.WorkedDay) error {
	for _, d := range m.workedDays {
		if d.EmployeeID == day.EmployeeID && d.Date.Equal(day.Date) {
			return internal.ErrWorkedDayAlreadyRecorded
		}
	}
	m.workedDays = append(m.workedDays, day)
	return nil
}

func (m *MockRepository) ListWorkedDays(ctx context.Context, employeeID uuid.UUID) ([]*employeeDatamodel.WorkedDay, error) {
	out := make([]*employeeDatamodel.WorkedDay, 0)
	for _, d := range m.workedDays {
		if d.EmployeeID == employeeID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MockRepository) CreateEvent(ctx context.Context, event *employeeDatamodel.Event) error {
	m.events = append(m.events, event)
	return nil
}

func (m *MockRepository) ListEvents(ctx context.Context, employeeID uuid.UUID) ([]*employeeDatamodel.Event, error) {
	out := make([]*employeeDatamodel.Event, 0)
	for _, e := range m.events {
		if e.EmployeeID == employeeID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockRepository) DeleteCascade(ctx context.Context, id uuid.UUID) (*employeeDatamodel.Employee, error) {
	if m.failError != nil {
		return nil, m.failError
	}
	e, ok := m.employees[id]
	if !ok {
		return nil, internal.ErrEmployeeNotFound
	}
	delete(m.employees, id)

	days := m.workedDays[:0]
	for _, d := range m.workedDays {
		if d.EmployeeID != id {
			days = append(days, d)
		}
	}
	m.workedDays = days

	evs := m.events[:0]
	for _, ev := range m.events {
		if ev.EmployeeID != id {
			evs = append(evs, ev)
		}
	}
	m.events = evs
	return e, nil
}

// RecordingPublisher captures published events in order.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *RecordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

var _ = Describe("Employee Ledger Service", func() {
	var (
		mockRepo  *MockRepository
		publisher *RecordingPublisher
		service   *employee.Service
		slogger   *slog.Logger
		ctx       context.Context
		companyID uuid.UUID
		ana       *employeeDatamodel.Employee
		today     time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = NewMockRepository()
		publisher = &RecordingPublisher{}
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		today = time.Date(2024, 6, 12, 18, 30, 0, 0, time.UTC)
		service = employee.NewService(mockRepo, publisher, employee.MinutesFormulaLegacy, slogger).
			WithClock(func() time.Time { return today })

		companyID = uuid.New()
		ana = &employeeDatamodel.Employee{
			ID:        uuid.New(),
			CompanyID: companyID,
			Name:      "Ana",
			Surname:   "Souza",
			Role:      "Caixa",
			Shift:     "Manhã",
			StartTime: "08:00",
			EndTime:   "17:00",
		}
		mockRepo.AddEmployee(ana)
	})

	shift := func(startH, startM, endH, endM int) employee.WorkedDayDTO {
		return employee.WorkedDayDTO{
			StartTime: time.Date(2024, 6, 12, startH, startM, 0, 0, time.UTC),
			EndTime:   time.Date(2024, 6, 12, endH, endM, 0, 0, time.UTC),
		}
	}

	Describe("RecordWorkedDay", func() {
		It("stores the legacy minute value stamped with the server date", func() {
			day, err := service.RecordWorkedDay(ctx, ana.ID, shift(8, 0, 17, 30))
			Expect(err).NotTo(HaveOccurred())
			Expect(day.MinutesWorked).To(Equal(39))
			Expect(day.Date).To(Equal(time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)))
			Expect(mockRepo.workedDays).To(HaveLen(1))
			Expect(publisher.Types()).To(Equal([]string{events.EventTypeWorkedDayRecorded}))
		})

		It("ignores the submitted date when stamping", func() {
			dto := employee.WorkedDayDTO{
				StartTime: time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC),
			}
			day, err := service.RecordWorkedDay(ctx, ana.ID, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(day.Date.Year()).To(Equal(2024))
		})

		It("uses true elapsed minutes when configured", func() {
			service = employee.NewService(mockRepo, publisher, employee.MinutesFormulaElapsed, slogger).
				WithClock(func() time.Time { return today })

			day, err := service.RecordWorkedDay(ctx, ana.ID, shift(8, 0, 17, 30))
			Expect(err).NotTo(HaveOccurred())
			Expect(day.MinutesWorked).To(Equal(570))
		})

		It("succeeds once then conflicts on the same calendar day", func() {
			_, err := service.RecordWorkedDay(ctx, ana.ID, shift(8, 0, 12, 0))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.RecordWorkedDay(ctx, ana.ID, shift(13, 0, 17, 0))
			Expect(err).To(MatchError(internal.ErrWorkedDayAlreadyRecorded))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(401))
			Expect(mockRepo.workedDays).To(HaveLen(1))
		})

		It("accepts the same day-of-month in another month", func() {
			_, err := service.RecordWorkedDay(ctx, ana.ID, shift(8, 0, 12, 0))
			Expect(err).NotTo(HaveOccurred())

			today = today.AddDate(0, 1, 0)
			_, err = service.RecordWorkedDay(ctx, ana.ID, shift(8, 0, 12, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.workedDays).To(HaveLen(2))
		})

		It("returns NotFound for an unknown employee and writes nothing", func() {
			_, err := service.RecordWorkedDay(ctx, uuid.New(), shift(8, 0, 12, 0))
			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
			Expect(mockRepo.workedDays).To(BeEmpty())
			Expect(publisher.Types()).To(BeEmpty())
		})

		It("rejects an end before the start", func() {
			_, err := service.RecordWorkedDay(ctx, ana.ID, shift(17, 0, 8, 0))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(appErr.GetDetailedMessage()).To(Equal("horaFinal must not be before horaInicio"))
		})

		It("requires both timestamps", func() {
			_, err := service.RecordWorkedDay(ctx, ana.ID, employee.WorkedDayDTO{})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("RecordEvent", func() {
		var dto employee.EventDTO

		BeforeEach(func() {
			dto = employee.EventDTO{
				Key:       "ferias",
				StartDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
				DayStart:  "08:00",
				DayEnd:    "17:00",
				Selected:  true,
			}
		})

		It("always creates a new event", func() {
			first, err := service.RecordEvent(ctx, ana.ID, dto)
			Expect(err).NotTo(HaveOccurred())
			second, err := service.RecordEvent(ctx, ana.ID, dto)
			Expect(err).NotTo(HaveOccurred())

			Expect(first.ID).NotTo(Equal(second.ID))
			Expect(mockRepo.events).To(HaveLen(2))
			Expect(second.Key).To(Equal("ferias"))
			Expect(second.Selected).To(BeTrue())
		})

		It("returns NotFound for an unknown employee and creates no row", func() {
			_, err := service.RecordEvent(ctx, uuid.New(), dto)
			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
			Expect(mockRepo.events).To(BeEmpty())
		})

		It("requires an event key", func() {
			dto.Key = ""
			_, err := service.RecordEvent(ctx, ana.ID, dto)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("chaveEvento is required"))
		})

		It("rejects malformed day bounds", func() {
			dto.DayStart = "8h"
			_, err := service.RecordEvent(ctx, ana.ID, dto)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("inicioDia"))
		})

		It("rejects an end date before the start date", func() {
			dto.EndDate = dto.StartDate.Add(-24 * time.Hour)
			_, err := service.RecordEvent(ctx, ana.ID, dto)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("dataFinal"))
		})
	})

	Describe("DeleteEmployee", func() {
		It("removes the employee with its ledger and returns the display name", func() {
			_, err := service.RecordWorkedDay(ctx, ana.ID, shift(8, 0, 12, 0))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.RecordEvent(ctx, ana.ID, employee.EventDTO{
				Key:       "folga",
				StartDate: today,
				EndDate:   today,
			})
			Expect(err).NotTo(HaveOccurred())

			name, err := service.DeleteEmployee(ctx, ana.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("Ana Souza"))
			Expect(mockRepo.workedDays).To(BeEmpty())
			Expect(mockRepo.events).To(BeEmpty())

			_, err = service.GetEmployee(ctx, ana.ID)
			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
			Expect(publisher.Types()).To(ContainElement(events.EventTypeEmployeeDeleted))
		})

		It("returns NotFound for an unknown employee", func() {
			_, err := service.DeleteEmployee(ctx, uuid.New())
			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
		})

		It("propagates storage failures", func() {
			mockRepo.failError = errors.New("connection reset")
			_, err := service.DeleteEmployee(ctx, ana.ID)
			Expect(err).To(MatchError("connection reset"))
		})
	})

	Describe("GetEmployee", func() {
		It("returns the employee with events and worked days in date order", func() {
			for _, d := range []time.Time{today, today.AddDate(0, 0, -2), today.AddDate(0, 0, -1)} {
				today = d
				_, err := service.RecordWorkedDay(ctx, ana.ID, shift(8, 0, 9, 0))
				Expect(err).NotTo(HaveOccurred())
			}

			record, err := service.GetEmployee(ctx, ana.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Employee.DisplayName()).To(Equal("Ana Souza"))
			Expect(record.Events).To(BeEmpty())
			Expect(record.WorkedDays).To(HaveLen(3))
			Expect(record.WorkedDays[0].Date.Before(record.WorkedDays[1].Date)).To(BeTrue())
			Expect(record.WorkedDays[1].Date.Before(record.WorkedDays[2].Date)).To(BeTrue())
		})
	})

	Describe("ListByCompany", func() {
		It("returns only that company's employees", func() {
			mockRepo.AddEmployee(&employeeDatamodel.Employee{ID: uuid.New(), CompanyID: uuid.New(), Name: "Bruno"})

			list, err := service.ListByCompany(ctx, companyID)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Name).To(Equal("Ana"))
		})

		It("returns an empty list for a company without employees", func() {
			list, err := service.ListByCompany(ctx, uuid.New())
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})
	})

	Describe("UpdateEmployee", func() {
		It("changes only the provided fields", func() {
			shiftName := "Noite"
			updated, err := service.UpdateEmployee(ctx, ana.ID, employee.UpdateEmployeeDTO{Shift: &shiftName})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Shift).To(Equal("Noite"))
			Expect(updated.Name).To(Equal("Ana"))
			Expect(publisher.Types()).To(Equal([]string{events.EventTypeEmployeeUpdated}))
		})

		It("rejects an empty update", func() {
			_, err := service.UpdateEmployee(ctx, ana.ID, employee.UpdateEmployeeDTO{})
			Expect(err).To(MatchError(ContainSubstring("at least one field")))
		})

		It("refuses to blank a field required at registration", func() {
			blank := " "
			for _, dto := range []employee.UpdateEmployeeDTO{
				{Role: &blank},
				{Shift: &blank},
				{StartTime: &blank},
				{EndTime: &blank},
			} {
				_, err := service.UpdateEmployee(ctx, ana.ID, dto)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("is required"))
			}

			stored, err := service.GetEmployee(ctx, ana.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Employee.Role).To(Equal("Caixa"))
			Expect(stored.Employee.Shift).To(Equal("Manhã"))
			Expect(stored.Employee.StartTime).To(Equal("08:00"))
			Expect(stored.Employee.EndTime).To(Equal("17:00"))
			Expect(publisher.Types()).To(BeEmpty())
		})

		It("lets the surname be cleared", func() {
			empty := ""
			updated, err := service.UpdateEmployee(ctx, ana.ID, employee.UpdateEmployeeDTO{Surname: &empty})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Surname).To(BeEmpty())
		})

		It("returns NotFound for an unknown employee", func() {
			name := "Carla"
			_, err := service.UpdateEmployee(ctx, uuid.New(), employee.UpdateEmployeeDTO{Name: &name})
			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
		})
	})
})
