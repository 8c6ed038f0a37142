package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/talentoplus/backend/internal/auth"
	"github.com/talentoplus/backend/internal/config"
	"github.com/talentoplus/backend/internal/domain"
	"github.com/talentoplus/backend/internal/repository/memory"
)

type testEnv struct {
	store   *memory.Store
	codes   *memory.Codes
	mailbox *memory.Mailbox
	issuer  *auth.Issuer
	logger  *slog.Logger

	auth      *AuthService
	importer  *Importer
	employees *EmployeeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "service-test-secret"
	cfg.JWT.Issuer = "TalentoPlus"
	cfg.JWT.Audience = "TalentoPlusClients"
	cfg.JWT.Expiration = 3

	env := &testEnv{
		store:   memory.NewStore(),
		codes:   memory.NewCodes(),
		mailbox: &memory.Mailbox{},
		issuer:  auth.NewIssuer(cfg),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	env.auth = NewAuthService(env.store, env.codes, env.mailbox, env.issuer, 15*time.Minute, env.logger)
	env.importer = NewImporter(env.store, env.logger)
	env.employees = NewEmployeeService(env.store)
	return env
}

const importHeader = "Documento,Nombres,Apellidos,FechaNacimiento,Direccion,Telefono,Email,Cargo,Salario,FechaIngreso,Estado,NivelEducativo,PerfilProfesional,Departamento\n"

func csvRow(fields ...string) string {
	return strings.Join(fields, ",") + "\n"
}

func (env *testEnv) importCSV(t *testing.T, body string) (*ImportResult, error) {
	t.Helper()
	data := importHeader + body
	return env.importer.Import(context.Background(), "empleados.csv", strings.NewReader(data), int64(len(data)))
}

func (env *testEnv) seedEmployee(t *testing.T, document, firstName string) *domain.Employee {
	t.Helper()
	employee := &domain.Employee{
		Document:  document,
		FirstName: firstName,
		LastName:  "Gomez",
		Email:     strings.ToLower(firstName) + "@example.com",
		Status:    domain.StatusActive,
		Salary:    decimal.NewFromInt(1000),
	}
	if err := env.store.CreateEmployee(context.Background(), employee); err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return employee
}
