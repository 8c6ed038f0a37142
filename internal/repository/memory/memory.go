// Package memory 提供内存版本的存储实现，用于测试和本地调试
package memory

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/talentoplus/backend/internal/cache"
	"github.com/talentoplus/backend/internal/domain"
)

type fault struct {
	after int
	calls int
	err   error
}

// Store 的行为和 repository.Repository 保持一致：找不到记录返回 sql.ErrNoRows，
// 违反唯一约束或外键约束时返回对应的业务错误
type Store struct {
	mu sync.Mutex

	nextID      int64
	employees   map[int64]*domain.Employee
	departments map[int64]*domain.Department
	accounts    map[string]*domain.Account
	faults      map[string]*fault
}

func NewStore() *Store {
	return &Store{
		employees:   make(map[int64]*domain.Employee),
		departments: make(map[int64]*domain.Department),
		accounts:    make(map[string]*domain.Account),
		faults:      make(map[string]*fault),
	}
}

// SetFault 让名为 op 的方法在成功调用 after 次之后返回 err
func (s *Store) SetFault(op string, after int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = &fault{after: after, err: err}
}

func (s *Store) check(op string) error {
	f, ok := s.faults[op]
	if !ok {
		return nil
	}
	f.calls++
	if f.calls > f.after {
		return f.err
	}
	return nil
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) withDepartment(e *domain.Employee) *domain.Employee {
	c := *e
	c.Department = nil
	if e.DepartmentID != nil {
		id := *e.DepartmentID
		c.DepartmentID = &id
		if d, ok := s.departments[id]; ok {
			dc := *d
			c.Department = &dc
		}
	}
	return &c
}

func (s *Store) GetEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check("GetEmployeeByID"); err != nil {
		return nil, err
	}

	e, ok := s.employees[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s.withDepartment(e), nil
}

func (s *Store) GetEmployeeByDocument(ctx context.Context, document string) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check("GetEmployeeByDocument"); err != nil {
		return nil, err
	}

	for _, e := range s.employees {
		if e.Document == document {
			return s.withDepartment(e), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *Store) GetAllEmployees(ctx context.Context) ([]*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check("GetAllEmployees"); err != nil {
		return nil, err
	}

	employees := make([]*domain.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		employees = append(employees, s.withDepartment(e))
	}
	slices.SortFunc(employees, func(a, b *domain.Employee) int {
		return int(a.ID - b.ID)
	})
	return employees, nil
}

func (s *Store) validateEmployee(e *domain.Employee, selfID int64) error {
	for _, other := range s.employees {
		if other.Document == e.Document && other.ID != selfID {
			return domain.ErrDuplicateDocument
		}
	}
	if e.DepartmentID != nil {
		if _, ok := s.departments[*e.DepartmentID]; !ok {
			return domain.ErrDepartmentNotFound
		}
	}
	return nil
}

func (s *Store) CreateEmployee(ctx context.Context, employee *domain.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check("CreateEmployee"); err != nil {
		return err
	}
	if err := s.validateEmployee(employee, 0); err != nil {
		return err
	}

	employee.ID = s.id()
	employee.CreatedAt = time.Now()
	c := *employee
	c.Department = nil
	s.employees[employee.ID] = &c
	return nil
}

func (s *Store) UpdateEmployee(ctx context.Context, employee *domain.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check("UpdateEmployee"); err != nil {
		return err
	}

	existing, ok := s.employees[employee.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if err := s.validateEmployee(employee, employee.ID); err != nil {
		return err
	}

	c := *employee
	c.Document = existing.Document
	c.CreatedAt = existing.CreatedAt
	c.Department = nil
	s.employees[employee.ID] = &c

	employee.Document = existing.Document
	employee.CreatedAt = existing.CreatedAt
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check("DeleteEmployee"); err != nil {
		return false, err
	}

	if _, ok := s.employees[id]; !ok {
		return false, nil
	}
	delete(s.employees, id)
	return true, nil
}

func (s *Store) CountEmployees(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.employees), nil
}

func (s *Store) CountEmployeesByStatus(ctx context.Context, status string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, e := range s.employees {
		if e.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *Store) CountEmployeesByDepartment(ctx context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, e := range s.employees {
		if d := s.withDepartment(e).Department; d != nil {
			counts[d.Name]++
		}
	}
	return counts, nil
}

func (s *Store) GetAllDepartments(ctx context.Context) ([]*domain.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	departments := make([]*domain.Department, 0, len(s.departments))
	for _, d := range s.departments {
		c := *d
		departments = append(departments, &c)
	}
	slices.SortFunc(departments, func(a, b *domain.Department) int {
		return strings.Compare(a.Name, b.Name)
	})
	return departments, nil
}

func (s *Store) GetDepartmentByName(ctx context.Context, name string) (*domain.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check("GetDepartmentByName"); err != nil {
		return nil, err
	}

	for _, d := range s.departments {
		if strings.EqualFold(d.Name, name) {
			c := *d
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *Store) CreateDepartment(ctx context.Context, department *domain.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check("CreateDepartment"); err != nil {
		return err
	}

	for _, d := range s.departments {
		if strings.EqualFold(d.Name, department.Name) {
			return errors.New("departments_name_key")
		}
	}

	department.ID = s.id()
	department.CreatedAt = time.Now()
	c := *department
	s.departments[department.ID] = &c
	return nil
}

func (s *Store) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *a
	c.Roles = slices.Clone(a.Roles)
	return &c, nil
}

func (s *Store) CreateAccount(ctx context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check("CreateAccount"); err != nil {
		return err
	}
	if _, ok := s.accounts[account.Username]; ok {
		return domain.ErrDuplicateUsername
	}

	account.ID = s.id()
	account.CreatedAt = time.Now()
	c := *account
	c.Roles = slices.Clone(account.Roles)
	s.accounts[account.Username] = &c
	return nil
}

func (s *Store) UpdateAccountPassword(ctx context.Context, username string, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[username]
	if !ok {
		return sql.ErrNoRows
	}
	a.PasswordHash = passwordHash
	return nil
}

// Codes 是内存版本的验证码存储
type Codes struct {
	mu    sync.Mutex
	codes map[string]string
}

func NewCodes() *Codes {
	return &Codes{codes: make(map[string]string)}
}

func (c *Codes) SaveCode(ctx context.Context, key string, code string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codes[key] = code
	return nil
}

func (c *Codes) GetCode(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	code, ok := c.codes[key]
	if !ok {
		return "", cache.ErrCodeNotFound
	}
	return code, nil
}

func (c *Codes) DeleteCode(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.codes, key)
	return nil
}

// Mailbox 记录所有发出的邮件，Err 不为空时发送失败
type Mailbox struct {
	mu       sync.Mutex
	Err      error
	Messages []domain.MailMessage
}

func (m *Mailbox) Send(ctx context.Context, message domain.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, message)
	return nil
}

func (m *Mailbox) Last() (domain.MailMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Messages) == 0 {
		return domain.MailMessage{}, false
	}
	return m.Messages[len(m.Messages)-1], true
}
