package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/talentoplus/backend/internal/domain"
	"github.com/talentoplus/backend/internal/resume"
	"github.com/talentoplus/backend/internal/spreadsheet"
)

// EmployeeFields 是员工可以修改的字段，日期接受 2006-01-02 或 RFC 3339
type EmployeeFields struct {
	FirstName      string          `json:"nombres" validate:"required,max=100"`
	LastName       string          `json:"apellidos" validate:"required,max=100"`
	BirthDate      string          `json:"fechaNacimiento"`
	Address        string          `json:"direccion" validate:"max=200"`
	Phone          string          `json:"telefono" validate:"max=30"`
	Email          string          `json:"email" validate:"required,email"`
	Title          string          `json:"cargo" validate:"max=100"`
	Salary         decimal.Decimal `json:"salario"`
	HireDate       string          `json:"fechaIngreso"`
	Status         *string         `json:"estado" validate:"omitempty,max=30"` // 不传时为 Activo
	EducationLevel string          `json:"nivelEducativo" validate:"max=100"`
	Profile        string          `json:"perfilProfesional"`
	DepartmentID   *int64          `json:"departamentoId"`
}

// EmployeeInput 用于创建员工，证件号创建后不能修改
type EmployeeInput struct {
	Document string `json:"documento" validate:"required,max=30"`
	EmployeeFields
}

func (in *EmployeeFields) apply(e *domain.Employee) {
	e.FirstName = strings.TrimSpace(in.FirstName)
	e.LastName = strings.TrimSpace(in.LastName)
	e.BirthDate = spreadsheet.ParseDate(in.BirthDate)
	e.Address = in.Address
	e.Phone = in.Phone
	e.Email = in.Email
	e.Title = in.Title
	e.Salary = in.Salary.Round(2)
	e.HireDate = spreadsheet.ParseDate(in.HireDate)
	e.Status = domain.StatusActive
	if in.Status != nil {
		e.Status = *in.Status
	}
	e.EducationLevel = in.EducationLevel
	e.Profile = in.Profile
	e.DepartmentID = in.DepartmentID
	e.Department = nil
}

type EmployeeService struct {
	employees   EmployeeStore
	departments DepartmentStore
}

func NewEmployeeService(store Store) *EmployeeService {
	return &EmployeeService{
		employees:   store,
		departments: store,
	}
}

func (s *EmployeeService) List(ctx context.Context) ([]*domain.Employee, error) {
	return s.employees.GetAllEmployees(ctx)
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	employee, err := s.employees.GetEmployeeByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return employee, nil
}

func (s *EmployeeService) Create(ctx context.Context, in *EmployeeInput) (*domain.Employee, error) {
	document := strings.TrimSpace(in.Document)

	// 先检查一次，数据库的唯一约束兜底并发的情况
	_, err := s.employees.GetEmployeeByDocument(ctx, document)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateDocument
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	employee := &domain.Employee{Document: document}
	in.apply(employee)

	if err := s.employees.CreateEmployee(ctx, employee); err != nil {
		return nil, err
	}

	return s.Get(ctx, employee.ID)
}

// Update 覆盖所有可修改的字段，证件号不能修改
func (s *EmployeeService) Update(ctx context.Context, id int64, in *EmployeeFields) (*domain.Employee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	in.apply(employee)

	if err := s.employees.UpdateEmployee(ctx, employee); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *EmployeeService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.employees.DeleteEmployee(ctx, id)
}

func (s *EmployeeService) Departments(ctx context.Context) ([]*domain.Department, error) {
	return s.departments.GetAllDepartments(ctx)
}

// Resume 生成员工简历 PDF，返回文件内容和文件名
func (s *EmployeeService) Resume(ctx context.Context, id int64) ([]byte, string, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := resume.Render(&buf, employee); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), resume.Filename(employee), nil
}
