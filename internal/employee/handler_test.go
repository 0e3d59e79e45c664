package employee_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-records/internal/employee"
	employeePostgres "github.com/frahmantamala/hr-records/internal/employee/postgres"
	"github.com/frahmantamala/hr-records/internal/testutil"
	"github.com/frahmantamala/hr-records/internal/transport"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var _ = Describe("Employee Handler Integration", func() {
	var (
		db        *gorm.DB
		router    chi.Router
		companyID uuid.UUID
		ana       *employeeDatamodel.Employee
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = testutil.NewTestDB()
		Expect(err).NotTo(HaveOccurred())

		repo := employeePostgres.NewEmployeeRepository(db)
		service := employee.NewService(repo, nil, employee.MinutesFormulaLegacy, slogger)
		handler := employee.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Post("/employee/worked-day/{employeeId}", handler.RecordWorkedDay)
		router.Post("/employee/event/{employeeId}", handler.RecordEvent)
		router.Delete("/employee/{id}", handler.DeleteEmployee)
		router.Get("/employee/{id}", handler.GetEmployee)
		router.Put("/employee/update/{id}", handler.UpdateEmployee)
		router.Get("/employee/company/{companyId}", handler.ListByCompany)

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
		Expect(db.Create(ana).Error).NotTo(HaveOccurred())
	})

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			if raw, ok := body.(string); ok {
				buf.WriteString(raw)
			} else {
				Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
			}
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	shiftBody := map[string]string{
		"horaInicio": "2024-06-12T08:00:00Z",
		"horaFinal":  "2024-06-12T17:30:00Z",
	}

	Describe("POST /employee/worked-day/{employeeId}", func() {
		It("records the day and rejects a second one", func() {
			w := do(http.MethodPost, "/employee/worked-day/"+ana.ID.String(), shiftBody)
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp employee.WorkedDayResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Message).To(Equal("worked day recorded successfully"))
			Expect(resp.DiaTrabalhado.MinutesWorked).To(Equal(39))
			Expect(resp.DiaTrabalhado.EmployeeID).To(Equal(ana.ID))

			w = do(http.MethodPost, "/employee/worked-day/"+ana.ID.String(), shiftBody)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))

			var errResp errorBody
			Expect(json.NewDecoder(w.Body).Decode(&errResp)).To(Succeed())
			Expect(errResp.Code).To(Equal(http.StatusUnauthorized))
			Expect(errResp.Message).To(Equal("worked day already recorded for today"))

			var count int64
			Expect(db.Model(&employeeDatamodel.WorkedDay{}).Where("funcionario_id = ?", ana.ID).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})

		It("returns 404 for an unknown employee", func() {
			w := do(http.MethodPost, "/employee/worked-day/"+uuid.NewString(), shiftBody)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 for a malformed id", func() {
			w := do(http.MethodPost, "/employee/worked-day/not-a-uuid", shiftBody)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 for a malformed body", func() {
			w := do(http.MethodPost, "/employee/worked-day/"+ana.ID.String(), "{")
			Expect(w.Code).To(Equal(http.StatusBadRequest))

			var errResp errorBody
			Expect(json.NewDecoder(w.Body).Decode(&errResp)).To(Succeed())
			Expect(errResp.Message).To(Equal("invalid request body"))
		})
	})

	Describe("POST /employee/event/{employeeId}", func() {
		It("creates an event every time", func() {
			body := map[string]interface{}{
				"chaveEvento": "ferias",
				"dataInicial": "2024-07-01T00:00:00Z",
				"dataFinal":   "2024-07-15T00:00:00Z",
				"inicioDia":   "08:00",
				"fimDia":      "17:00",
				"selecionado": true,
			}
			for i := 0; i < 2; i++ {
				w := do(http.MethodPost, "/employee/event/"+ana.ID.String(), body)
				Expect(w.Code).To(Equal(http.StatusOK))

				var resp employee.EventResponse
				Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
				Expect(resp.Evento.Key).To(Equal("ferias"))
			}

			var count int64
			Expect(db.Model(&employeeDatamodel.Event{}).Where("funcionario_id = ?", ana.ID).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(2)))
		})

		It("returns 404 when the employee does not exist", func() {
			w := do(http.MethodPost, "/employee/event/"+uuid.NewString(), map[string]interface{}{
				"chaveEvento": "folga",
				"dataInicial": "2024-07-01T00:00:00Z",
				"dataFinal":   "2024-07-01T00:00:00Z",
			})
			Expect(w.Code).To(Equal(http.StatusNotFound))

			var count int64
			Expect(db.Model(&employeeDatamodel.Event{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})
	})

	Describe("DELETE /employee/{id}", func() {
		It("removes the employee and its ledger", func() {
			Expect(db.Create(&employeeDatamodel.WorkedDay{
				ID:            uuid.New(),
				EmployeeID:    ana.ID,
				Date:          employee.WorkDate(time.Now()),
				MinutesWorked: 60,
			}).Error).To(Succeed())

			w := do(http.MethodDelete, "/employee/"+ana.ID.String(), nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp employee.DeleteEmployeeResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Message).To(Equal("employee Ana Souza deleted successfully"))

			var days int64
			Expect(db.Model(&employeeDatamodel.WorkedDay{}).Count(&days).Error).To(Succeed())
			Expect(days).To(BeZero())

			w = do(http.MethodGet, "/employee/"+ana.ID.String(), nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 404 for an unknown employee", func() {
			w := do(http.MethodDelete, "/employee/"+uuid.NewString(), nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GET /employee/{id}", func() {
		It("returns the employee record", func() {
			w := do(http.MethodGet, "/employee/"+ana.ID.String(), nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

			var record employee.Record
			Expect(json.NewDecoder(w.Body).Decode(&record)).To(Succeed())
			Expect(record.Employee.Name).To(Equal("Ana"))
			Expect(record.Events).To(BeEmpty())
			Expect(record.WorkedDays).To(BeEmpty())
		})
	})

	Describe("PUT /employee/update/{id}", func() {
		It("updates only the given fields", func() {
			w := do(http.MethodPut, "/employee/update/"+ana.ID.String(), map[string]string{"turnoFuncionario": "Noite"})
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp employee.UpdateEmployeeResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Funcionario.Shift).To(Equal("Noite"))
			Expect(resp.Funcionario.Role).To(Equal("Caixa"))
		})

		It("rejects a malformed clock time", func() {
			w := do(http.MethodPut, "/employee/update/"+ana.ID.String(), map[string]string{"horaInicio": "25:00"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /employee/company/{companyId}", func() {
		It("lists only that company's employees as an array", func() {
			Expect(db.Create(&employeeDatamodel.Employee{ID: uuid.New(), CompanyID: uuid.New(), Name: "Bruno"}).Error).To(Succeed())

			w := do(http.MethodGet, "/employee/company/"+companyID.String(), nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var list []employee.Employee
			Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal(ana.ID))
		})
	})
})
