package company_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/hr-records/internal/company"
	companyPostgres "github.com/frahmantamala/hr-records/internal/company/postgres"
	companyDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/company"
	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-records/internal/testutil"
	"github.com/frahmantamala/hr-records/internal/transport"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Company Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
		acme   *companyDatamodel.Company
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = testutil.NewTestDB()
		Expect(err).NotTo(HaveOccurred())

		repo := companyPostgres.NewCompanyRepository(db)
		service := company.NewService(repo, nil, slogger)
		handler := company.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/company", handler.ListCompanies)
		router.Get("/company/{id}", handler.GetCompany)
		router.Post("/employee/register/{companyId}", handler.AddEmployee)

		acme = &companyDatamodel.Company{
			ID:            uuid.New(),
			DisplayName:   "Padaria Central",
			Email:         "contato@padaria.com",
			PasswordHash:  "$2a$10$hash",
			EmployeeCount: 12,
		}
		Expect(db.Create(acme).Error).To(Succeed())
	})

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	employeeBody := map[string]string{
		"nomeFuncionario":      "Ana",
		"sobrenomeFuncionario": "Souza",
		"posicaoFuncionario":   "Caixa",
		"turnoFuncionario":     "Manhã",
		"horaInicio":           "08:00",
		"horaFinal":            "17:00",
	}

	It("lists companies without password hashes", func() {
		w := do(http.MethodGet, "/company", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).NotTo(ContainSubstring("senha"))
		Expect(w.Body.String()).NotTo(ContainSubstring("$2a$10$hash"))

		var list []company.Company
		Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
		Expect(list).To(HaveLen(1))
		Expect(list[0].Email).To(Equal("contato@padaria.com"))
	})

	It("registers an employee and returns it with the company", func() {
		w := do(http.MethodPost, "/employee/register/"+acme.ID.String(), employeeBody)
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp company.AddEmployeeResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Message).To(Equal("employee registered successfully"))
		Expect(resp.Funcionario.CompanyID).To(Equal(acme.ID))

		w = do(http.MethodGet, "/company/"+acme.ID.String(), nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var directory company.Directory
		Expect(json.NewDecoder(w.Body).Decode(&directory)).To(Succeed())
		Expect(directory.Company.DisplayName).To(Equal("Padaria Central"))
		Expect(directory.Employees).To(HaveLen(1))
		Expect(directory.Employees[0].ID).To(Equal(resp.Funcionario.ID))
	})

	It("answers 404 and stores nothing for an unknown company", func() {
		w := do(http.MethodPost, "/employee/register/"+uuid.NewString(), employeeBody)
		Expect(w.Code).To(Equal(http.StatusNotFound))

		var errResp map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&errResp)).To(Succeed())
		Expect(errResp["message"]).To(Equal("company not found"))

		var count int64
		Expect(db.Model(&employeeDatamodel.Employee{}).Count(&count).Error).To(Succeed())
		Expect(count).To(BeZero())
	})

	It("answers 404 for a missing company", func() {
		w := do(http.MethodGet, "/company/"+uuid.NewString(), nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("answers 400 for a malformed company id", func() {
		w := do(http.MethodGet, "/company/123", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
