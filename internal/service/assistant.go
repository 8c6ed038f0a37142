package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/talentoplus/backend/internal/domain"
	"github.com/talentoplus/backend/internal/gemini"
)

const (
	AnswerInternalError = "Error interno al procesar la IA."
	AnswerEmpty         = "Sin respuesta."
)

const promptTemplate = `Eres un analista de recursos humanos experto. Tienes los siguientes datos de empleados en formato JSON:
%s

Usuario pregunta: "%s"

Instrucciones:
1. Responde basándote ÚNICAMENTE en los datos JSON proporcionados.
2. Sé breve y directo.
3. Si la respuesta es un número, da el número. Si es una lista, da los nombres.
4. Si te preguntan algo que no está en los datos, di que no tienes esa información.
`

type Answer struct {
	Text     string `json:"respuesta"`
	Degraded bool   `json:"degradada"`
}

// 发送给模型的员工摘要，字段名保持和原有的接口一致
type employeeDigest struct {
	Nombres        string
	Cargo          string
	Departamento   string
	Estado         string
	Salario        int64
	NivelEducativo string
}

type Assistant struct {
	employees EmployeeStore
	completer Completer
	logger    *slog.Logger
}

func NewAssistant(store EmployeeStore, completer Completer, logger *slog.Logger) *Assistant {
	return &Assistant{
		employees: store,
		completer: completer,
		logger:    logger,
	}
}

// Ask 把全部员工数据和问题一起发给模型。模型调用失败时不返回错误，而是返回降级的回答
func (a *Assistant) Ask(ctx context.Context, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrEmptyQuestion
	}

	employees, err := a.employees.GetAllEmployees(ctx)
	if err != nil {
		return nil, err
	}

	prompt, err := BuildPrompt(employees, question)
	if err != nil {
		return nil, err
	}

	text, err := a.completer.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, gemini.ErrEmptyResponse) {
			return &Answer{Text: AnswerEmpty}, nil
		}
		a.logger.Error("AI 接口调用失败", "error", err)
		return &Answer{Text: AnswerInternalError, Degraded: true}, nil
	}

	if text == "" {
		text = AnswerEmpty
	}
	return &Answer{Text: text}, nil
}

func BuildPrompt(employees []*domain.Employee, question string) (string, error) {
	digests := make([]employeeDigest, len(employees))
	for i, e := range employees {
		digests[i] = employeeDigest{
			Nombres:        e.FirstName,
			Cargo:          e.Title,
			Departamento:   e.DepartmentName(Unassigned),
			Estado:         e.Status,
			Salario:        e.Salary.IntPart(),
			NivelEducativo: e.EducationLevel,
		}
	}

	data, err := json.Marshal(digests)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(promptTemplate, data, question), nil
}
