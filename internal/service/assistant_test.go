package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/talentoplus/backend/internal/domain"
	"github.com/talentoplus/backend/internal/gemini"
)

type fakeCompleter struct {
	prompt string
	text   string
	err    error
}

func (f *fakeCompleter) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.text, f.err
}

func TestAskBuildsPromptFromDirectory(t *testing.T) {
	env := newTestEnv(t)
	employee := env.seedEmployee(t, "123", "Ana")
	employee.Salary = decimal.RequireFromString("1234.99")
	if err := env.store.UpdateEmployee(context.Background(), employee); err != nil {
		t.Fatalf("update: %v", err)
	}

	completer := &fakeCompleter{text: "Hay 1 empleado."}
	assistant := NewAssistant(env.store, completer, env.logger)

	answer, err := assistant.Ask(context.Background(), "¿Cuántos empleados hay?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer.Text != "Hay 1 empleado." || answer.Degraded {
		t.Fatalf("unexpected answer %+v", answer)
	}

	for _, want := range []string{`"Nombres":"Ana"`, `"Departamento":"Sin Asignar"`, `"Salario":1234`, `Usuario pregunta: "¿Cuántos empleados hay?"`} {
		if !strings.Contains(completer.prompt, want) {
			t.Fatalf("prompt missing %s:\n%s", want, completer.prompt)
		}
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	env := newTestEnv(t)
	assistant := NewAssistant(env.store, &fakeCompleter{}, env.logger)

	if _, err := assistant.Ask(context.Background(), "   "); !errors.Is(err, domain.ErrEmptyQuestion) {
		t.Fatalf("expected ErrEmptyQuestion, got %v", err)
	}
}

func TestAskDegradesOnFailure(t *testing.T) {
	env := newTestEnv(t)
	assistant := NewAssistant(env.store, &fakeCompleter{err: errors.New("status 500")}, env.logger)

	answer, err := assistant.Ask(context.Background(), "hola")
	if err != nil {
		t.Fatalf("AI failures must not be returned as errors: %v", err)
	}
	if !answer.Degraded || answer.Text != AnswerInternalError {
		t.Fatalf("unexpected answer %+v", answer)
	}
}

func TestAskEmptyModelText(t *testing.T) {
	env := newTestEnv(t)

	for _, completer := range []*fakeCompleter{{text: ""}, {err: gemini.ErrEmptyResponse}} {
		answer, err := NewAssistant(env.store, completer, env.logger).Ask(context.Background(), "hola")
		if err != nil {
			t.Fatalf("ask: %v", err)
		}
		if answer.Text != AnswerEmpty || answer.Degraded {
			t.Fatalf("unexpected answer %+v", answer)
		}
	}
}

func TestAskDirectoryFailureIsHard(t *testing.T) {
	env := newTestEnv(t)
	env.store.SetFault("GetAllEmployees", 0, errors.New("db down"))

	if _, err := NewAssistant(env.store, &fakeCompleter{}, env.logger).Ask(context.Background(), "hola"); err == nil {
		t.Fatalf("expected storage error")
	}
}

func TestDashboardKPIs(t *testing.T) {
	env := newTestEnv(t)
	body := anaRow("1000", "Engineering") +
		csvRow("456", "Luis", "Perez", "", "", "", "", "", "2000", "", "Vacaciones", "", "", "Engineering") +
		csvRow("789", "Eva", "Ruiz", "", "", "", "", "", "3000", "", "Vacaciones", "", "", "")
	if _, err := env.importCSV(t, body); err != nil {
		t.Fatalf("import: %v", err)
	}

	kpis, err := NewDashboard(env.store).KPIs(context.Background())
	if err != nil {
		t.Fatalf("kpis: %v", err)
	}
	if kpis.TotalEmployees != 3 || kpis.OnVacation != 2 {
		t.Fatalf("unexpected totals %+v", kpis)
	}
	// 没有部门的员工只计入总数
	if len(kpis.EmployeesPerDepartment) != 1 || kpis.EmployeesPerDepartment["Engineering"] != 2 {
		t.Fatalf("unexpected per-department counts %v", kpis.EmployeesPerDepartment)
	}
}
