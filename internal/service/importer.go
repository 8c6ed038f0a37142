package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/talentoplus/backend/internal/domain"
	"github.com/talentoplus/backend/internal/spreadsheet"
)

const ImportSuccessMessage = "Carga exitosa"

type ImportResult struct {
	Message   string `json:"mensaje"`
	Processed int    `json:"empleadosProcesados"`
	Created   int    `json:"creados"`
	Updated   int    `json:"actualizados"`
}

type Importer struct {
	employees   EmployeeStore
	departments DepartmentStore
	logger      *slog.Logger
}

func NewImporter(store Store, logger *slog.Logger) *Importer {
	return &Importer{
		employees:   store,
		departments: store,
		logger:      logger,
	}
}

// Import 逐行把表格中的员工写入数据库，已存在的证件号会被覆盖。
// 中途失败时已经写入的行不会回滚。
func (im *Importer) Import(ctx context.Context, filename string, r io.Reader, size int64) (*ImportResult, error) {
	if r == nil || size <= 0 {
		return nil, domain.ErrInvalidFile
	}

	rows, err := spreadsheet.ReadRows(filename, r)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFileType) {
			return nil, err
		}
		return nil, &domain.ImportAbortedError{Err: err}
	}

	result := &ImportResult{Message: ImportSuccessMessage}
	// 同一次导入中按名称缓存部门，避免重复查询
	departments := make(map[string]*domain.Department)

	for _, row := range rows {
		employee := employeeFromRow(row)
		if employee.Document == "" {
			continue
		}

		departmentName := row[13]
		if departmentName != "" {
			department, err := im.resolveDepartment(ctx, departments, departmentName)
			if err != nil {
				return result, &domain.ImportAbortedError{Processed: result.Processed, Err: err}
			}
			employee.DepartmentID = &department.ID
			employee.Department = department
		}

		created, err := im.upsert(ctx, employee)
		if err != nil {
			return result, &domain.ImportAbortedError{Processed: result.Processed, Err: err}
		}

		if created {
			result.Created++
		} else {
			result.Updated++
		}
		result.Processed++
	}

	im.logger.Info("员工导入完成", "file", filename, "processed", result.Processed, "created", result.Created, "updated", result.Updated)
	return result, nil
}

func (im *Importer) resolveDepartment(ctx context.Context, cache map[string]*domain.Department, name string) (*domain.Department, error) {
	key := normalizeName(name)
	if department, ok := cache[key]; ok {
		return department, nil
	}

	department, err := im.departments.GetDepartmentByName(ctx, name)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		department = &domain.Department{Name: name}
		if err := im.departments.CreateDepartment(ctx, department); err != nil {
			return nil, err
		}
	}

	cache[key] = department
	return department, nil
}

func (im *Importer) upsert(ctx context.Context, employee *domain.Employee) (bool, error) {
	existing, err := im.employees.GetEmployeeByDocument(ctx, employee.Document)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return false, err
		}
		if err := im.employees.CreateEmployee(ctx, employee); err != nil {
			return false, err
		}
		return true, nil
	}

	employee.ID = existing.ID
	if err := im.employees.UpdateEmployee(ctx, employee); err != nil {
		return false, err
	}
	return false, nil
}

// 列顺序: 证件号, 名, 姓, 出生日期, 地址, 电话, 邮箱, 职位, 薪资, 入职日期, 状态, 学历, 简介, 部门
func employeeFromRow(row []string) *domain.Employee {
	return &domain.Employee{
		Document:       row[0],
		FirstName:      row[1],
		LastName:       row[2],
		BirthDate:      spreadsheet.ParseDate(row[3]),
		Address:        row[4],
		Phone:          row[5],
		Email:          row[6],
		Title:          row[7],
		Salary:         spreadsheet.ParseSalary(row[8]),
		HireDate:       spreadsheet.ParseDate(row[9]),
		Status:         row[10],
		EducationLevel: row[11],
		Profile:        row[12],
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
