package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/talentoplus/backend/internal/auth"
	"github.com/talentoplus/backend/internal/config"
	"github.com/talentoplus/backend/internal/domain"
	"github.com/talentoplus/backend/internal/gemini"
	"github.com/talentoplus/backend/internal/repository/memory"
	"github.com/talentoplus/backend/internal/service"
)

type testServer struct {
	handler *Handler
	store   *memory.Store
	issuer  *auth.Issuer
	ai      *httptest.Server
}

func newTestServer(t *testing.T, aiHandler http.HandlerFunc) *testServer {
	t.Helper()

	ai := httptest.NewServer(aiHandler)
	t.Cleanup(ai.Close)

	cfg := &config.Config{}
	cfg.JWT.Secret = "handler-test-secret"
	cfg.JWT.Issuer = "TalentoPlus"
	cfg.JWT.Audience = "TalentoPlusClients"
	cfg.JWT.Expiration = 3
	cfg.Server.MaxUploadSize = 1 << 20
	cfg.CORS.AllowedOrigins = []string{"http://localhost:5173"}
	cfg.Gemini.APIKey = "key"
	cfg.Gemini.Model = "gemini-2.5-flash"
	cfg.Gemini.BaseURL = ai.URL
	cfg.Gemini.Timeout = 5

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	issuer := auth.NewIssuer(cfg)

	services := &Services{
		Auth:      service.NewAuthService(store, memory.NewCodes(), &memory.Mailbox{}, issuer, 15*time.Minute, logger),
		Employees: service.NewEmployeeService(store),
		Importer:  service.NewImporter(store, logger),
		Dashboard: service.NewDashboard(store),
		Assistant: service.NewAssistant(store, gemini.NewClient(cfg), logger),
	}

	h, err := NewHandler(cfg, issuer, services)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	h.RegisterRoutes()

	return &testServer{handler: h, store: store, issuer: issuer, ai: ai}
}

func (s *testServer) token(t *testing.T, username string, employeeID int64, roles ...domain.Role) string {
	t.Helper()
	token, _, err := s.issuer.Issue(username, employeeID, roles)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (s *testServer) adminToken(t *testing.T) string {
	return s.token(t, "admin", 0, domain.RoleAdmin)
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.Mux.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) seedEmployee(t *testing.T, document string) *domain.Employee {
	t.Helper()
	employee := &domain.Employee{
		Document:  document,
		FirstName: "Ana",
		LastName:  "Gomez",
		Email:     "ana@example.com",
		Status:    domain.StatusActive,
		Salary:    decimal.NewFromInt(1000),
	}
	if err := s.store.CreateEmployee(context.Background(), employee); err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return employee
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) Response {
	t.Helper()
	resp := Response{Data: data}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func okAI(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hay 1 empleado."}]}}]}`))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, okAI)

	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, okAI)

	for _, path := range []string{"/employees", "/employees/me", "/dashboard/kpis"} {
		rec := s.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}

	rec := s.do(t, http.MethodGet, "/employees", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed token, got %d", rec.Code)
	}
}

func TestEmployeeRoleIsForbiddenFromAdminRoutes(t *testing.T) {
	s := newTestServer(t, okAI)
	employee := s.seedEmployee(t, "123")
	token := s.token(t, "123", employee.ID, domain.RoleEmployee)

	for _, path := range []string{"/employees", "/dashboard/kpis", "/employees/1"} {
		rec := s.do(t, http.MethodGet, path, token, nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", path, rec.Code)
		}
	}

	rec := s.do(t, http.MethodGet, "/employees/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for own record, got %d", rec.Code)
	}
	var me domain.Employee
	decode(t, rec, &me)
	if me.Document != "123" {
		t.Fatalf("unexpected record %+v", me)
	}
}

func TestMeWithoutLinkedEmployee(t *testing.T) {
	s := newTestServer(t, okAI)

	rec := s.do(t, http.MethodGet, "/employees/me", s.adminToken(t), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decode(t, rec, nil)
	if resp.Message != domain.ErrNoLinkedEmployee.Error() {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestMyResume(t *testing.T) {
	s := newTestServer(t, okAI)
	employee := s.seedEmployee(t, "123")

	rec := s.do(t, http.MethodGet, "/employees/me/cv", s.token(t, "123", employee.ID, domain.RoleEmployee), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "HojaVida_123.pdf") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a PDF")
	}
}

func TestEmployeeCRUD(t *testing.T) {
	s := newTestServer(t, okAI)
	token := s.adminToken(t)

	input := map[string]any{
		"documento":       "123",
		"nombres":         "Ana",
		"apellidos":       "Gomez",
		"email":           "ana@example.com",
		"salario":         1000,
		"fechaNacimiento": "1990-01-01",
	}

	rec := s.do(t, http.MethodPost, "/employees", token, input)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created domain.Employee
	decode(t, rec, &created)
	if created.ID == 0 || created.Status != domain.StatusActive {
		t.Fatalf("unexpected employee %+v", created)
	}

	rec = s.do(t, http.MethodPost, "/employees", token, input)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", rec.Code)
	}

	input["salario"] = 1500
	rec = s.do(t, http.MethodPut, "/employees/1", token, input)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated domain.Employee
	decode(t, rec, &updated)
	if !updated.Salary.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("salary not updated: %s", updated.Salary)
	}

	rec = s.do(t, http.MethodGet, "/employees", token, nil)
	var all []domain.Employee
	decode(t, rec, &all)
	if len(all) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(all))
	}

	rec = s.do(t, http.MethodDelete, "/employees/1", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodDelete, "/employees/1", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing employee, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodGet, "/employees/1", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateEmployeeWithoutDocument(t *testing.T) {
	s := newTestServer(t, okAI)
	employee := s.seedEmployee(t, "123")

	input := map[string]any{
		"nombres":   "Ana Maria",
		"apellidos": "Gomez",
		"email":     "ana@example.com",
		"estado":    "Vacaciones",
	}
	rec := s.do(t, http.MethodPut, fmt.Sprintf("/employees/%d", employee.ID), s.adminToken(t), input)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated domain.Employee
	decode(t, rec, &updated)
	if updated.Document != "123" || updated.FirstName != "Ana Maria" || updated.Status != domain.StatusVacation {
		t.Fatalf("unexpected employee %+v", updated)
	}
}

func TestCreateEmployeeValidation(t *testing.T) {
	s := newTestServer(t, okAI)

	rec := s.do(t, http.MethodPost, "/employees", s.adminToken(t), map[string]any{"documento": "123"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decode(t, rec, nil)
	if !strings.Contains(resp.Message, "nombres") {
		t.Fatalf("expected message about nombres, got %q", resp.Message)
	}

	rec = s.do(t, http.MethodGet, "/employees/abc", s.adminToken(t), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", rec.Code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, okAI)
	employee := s.seedEmployee(t, "123")

	rec := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{"documento": "999", "email": "x@example.com", "password": "Secret123!"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown document, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/auth/register", "", map[string]string{"documento": "123", "email": "ana@example.com", "password": "Secret123!"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"documento": "123", "password": "Secret123!"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var login service.LoginResult
	decode(t, rec, &login)

	claims, err := s.issuer.Parse(login.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.EmployeeID != employee.ID || !claims.HasAnyRole(domain.RoleEmployee) {
		t.Fatalf("unexpected claims %+v", claims)
	}

	rec = s.do(t, http.MethodGet, "/employees/me", login.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with issued token, got %d", rec.Code)
	}
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	s := newTestServer(t, okAI)
	s.seedEmployee(t, "123")
	s.do(t, http.MethodPost, "/auth/register", "", map[string]string{"documento": "123", "email": "ana@example.com", "password": "Secret123!"})

	wrong := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"documento": "123", "password": "Nope123!"})
	unknown := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"documento": "404", "password": "Nope123!"})

	if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for both, got %d and %d", wrong.Code, unknown.Code)
	}
	if wrong.Body.String() != unknown.Body.String() {
		t.Fatalf("responses differ: %s vs %s", wrong.Body.String(), unknown.Body.String())
	}
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestImportEmployees(t *testing.T) {
	s := newTestServer(t, okAI)
	csv := "Documento,Nombres,Apellidos,FechaNacimiento,Direccion,Telefono,Email,Cargo,Salario,FechaIngreso,Estado,NivelEducativo,PerfilProfesional,Departamento\n" +
		"123,Ana,Gomez,1990-01-01,Calle 1,300,ana@example.com,Dev,1000,2020-05-01,Activo,Profesional,Perfil,Engineering\n"

	body, contentType := multipartBody(t, "file", "empleados.csv", csv)
	req := httptest.NewRequest(http.MethodPost, "/employees/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.adminToken(t))
	rec := httptest.NewRecorder()
	s.handler.Mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result service.ImportResult
	resp := decode(t, rec, &result)
	if resp.Message != "Carga exitosa" || result.Processed != 1 {
		t.Fatalf("unexpected response %+v %+v", resp, result)
	}

	body, contentType = multipartBody(t, "", "", "")
	req = httptest.NewRequest(http.MethodPost, "/employees/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.adminToken(t))
	rec = httptest.NewRecorder()
	s.handler.Mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without file, got %d", rec.Code)
	}
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t, okAI)
	s.seedEmployee(t, "123")

	rec := s.do(t, http.MethodGet, "/dashboard/kpis", s.adminToken(t), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var kpis domain.KPIs
	decode(t, rec, &kpis)
	if kpis.TotalEmployees != 1 || len(kpis.EmployeesPerDepartment) != 0 {
		t.Fatalf("unexpected kpis %+v", kpis)
	}

	rec = s.do(t, http.MethodPost, "/dashboard/ia-query", s.adminToken(t), map[string]string{"question": "¿Cuántos?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var answer service.Answer
	decode(t, rec, &answer)
	if answer.Text != "Hay 1 empleado." || answer.Degraded {
		t.Fatalf("unexpected answer %+v", answer)
	}

	rec = s.do(t, http.MethodPost, "/dashboard/ia-query", s.adminToken(t), map[string]string{"question": " "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank question, got %d", rec.Code)
	}
}

func TestAssistantDegradesWhenAIFails(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	rec := s.do(t, http.MethodPost, "/dashboard/ia-query", s.adminToken(t), map[string]string{"question": "hola"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var answer service.Answer
	decode(t, rec, &answer)
	if !answer.Degraded || answer.Text != service.AnswerInternalError {
		t.Fatalf("unexpected answer %+v", answer)
	}
}

func TestDepartmentsArePublic(t *testing.T) {
	s := newTestServer(t, okAI)
	if err := s.store.CreateDepartment(context.Background(), &domain.Department{Name: "Ventas"}); err != nil {
		t.Fatalf("create department: %v", err)
	}

	rec := s.do(t, http.MethodGet, "/departments", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var departments []domain.Department
	decode(t, rec, &departments)
	if len(departments) != 1 || departments[0].Name != "Ventas" {
		t.Fatalf("unexpected departments %+v", departments)
	}
}
