package service

import (
	"context"
	"time"

	"github.com/talentoplus/backend/internal/domain"
)

type EmployeeStore interface {
	GetEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error)
	GetEmployeeByDocument(ctx context.Context, document string) (*domain.Employee, error)
	GetAllEmployees(ctx context.Context) ([]*domain.Employee, error)
	CreateEmployee(ctx context.Context, employee *domain.Employee) error
	UpdateEmployee(ctx context.Context, employee *domain.Employee) error
	DeleteEmployee(ctx context.Context, id int64) (bool, error)
	CountEmployees(ctx context.Context) (int, error)
	CountEmployeesByStatus(ctx context.Context, status string) (int, error)
	CountEmployeesByDepartment(ctx context.Context) (map[string]int, error)
}

type DepartmentStore interface {
	GetAllDepartments(ctx context.Context) ([]*domain.Department, error)
	GetDepartmentByName(ctx context.Context, name string) (*domain.Department, error)
	CreateDepartment(ctx context.Context, department *domain.Department) error
}

type AccountStore interface {
	GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error)
	CreateAccount(ctx context.Context, account *domain.Account) error
	UpdateAccountPassword(ctx context.Context, username string, passwordHash string) error
}

// Store 是所有存储接口的组合，repository.Repository 和 memory.Store 都实现了它
type Store interface {
	EmployeeStore
	DepartmentStore
	AccountStore
}

type CodeStore interface {
	SaveCode(ctx context.Context, key string, code string, ttl time.Duration) error
	GetCode(ctx context.Context, key string) (string, error)
	DeleteCode(ctx context.Context, key string) error
}

type Mailer interface {
	Send(ctx context.Context, message domain.MailMessage) error
}

type Completer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const Unassigned = "Sin Asignar"
