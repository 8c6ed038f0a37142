package repository

import (
	"context"
	"database/sql"

	"github.com/talentoplus/backend/internal/domain"
)

const employeeColumns = `
	e.id, e.document, e.first_name, e.last_name, e.birth_date, e.address, e.phone, e.email,
	e.title, e.salary, e.hire_date, e.status, e.education_level, e.profile, e.department_id,
	d.name, e.created_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	employee := &domain.Employee{}

	var departmentID sql.NullInt64
	var departmentName sql.NullString

	dst := []any{
		&employee.ID,
		&employee.Document,
		&employee.FirstName,
		&employee.LastName,
		&employee.BirthDate,
		&employee.Address,
		&employee.Phone,
		&employee.Email,
		&employee.Title,
		&employee.Salary,
		&employee.HireDate,
		&employee.Status,
		&employee.EducationLevel,
		&employee.Profile,
		&departmentID,
		&departmentName,
		&employee.CreatedAt,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if departmentID.Valid {
		id := departmentID.Int64
		employee.DepartmentID = &id
		employee.Department = &domain.Department{ID: id, Name: departmentName.String}
	}

	return employee, nil
}

func (r *Repository) GetEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error) {
	query := `
		SELECT` + employeeColumns + `
		FROM employees e LEFT JOIN departments d ON e.department_id = d.id
		WHERE e.id = $1
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return scanEmployee(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetEmployeeByDocument(ctx context.Context, document string) (*domain.Employee, error) {
	query := `
		SELECT` + employeeColumns + `
		FROM employees e LEFT JOIN departments d ON e.department_id = d.id
		WHERE e.document = $1
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return scanEmployee(r.dbpool.QueryRowContext(ctx, query, document))
}

func (r *Repository) GetAllEmployees(ctx context.Context) ([]*domain.Employee, error) {
	query := `
		SELECT` + employeeColumns + `
		FROM employees e LEFT JOIN departments d ON e.department_id = d.id
		ORDER BY e.id
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) CreateEmployee(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (
			document, first_name, last_name, birth_date, address, phone, email, title,
			salary, hire_date, status, education_level, profile, department_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := []any{
		employee.Document,
		employee.FirstName,
		employee.LastName,
		employee.BirthDate,
		employee.Address,
		employee.Phone,
		employee.Email,
		employee.Title,
		employee.Salary,
		employee.HireDate,
		employee.Status,
		employee.EducationLevel,
		employee.Profile,
		employee.DepartmentID,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.ID, &employee.CreatedAt); err != nil {
		return translateConstraintError(err)
	}

	return nil
}

// UpdateEmployee 覆盖除证件号以外的所有字段
func (r *Repository) UpdateEmployee(ctx context.Context, employee *domain.Employee) error {
	query := `
		UPDATE employees
		SET
			first_name = $1,
			last_name = $2,
			birth_date = $3,
			address = $4,
			phone = $5,
			email = $6,
			title = $7,
			salary = $8,
			hire_date = $9,
			status = $10,
			education_level = $11,
			profile = $12,
			department_id = $13
		WHERE id = $14
		RETURNING document, created_at
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := []any{
		employee.FirstName,
		employee.LastName,
		employee.BirthDate,
		employee.Address,
		employee.Phone,
		employee.Email,
		employee.Title,
		employee.Salary,
		employee.HireDate,
		employee.Status,
		employee.EducationLevel,
		employee.Profile,
		employee.DepartmentID,
		employee.ID,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.Document, &employee.CreatedAt); err != nil {
		return translateConstraintError(err)
	}

	return nil
}

// DeleteEmployee 删除员工，返回是否真的删除了记录
func (r *Repository) DeleteEmployee(ctx context.Context, id int64) (bool, error) {
	query := `
		DELETE FROM employees WHERE id = $1
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *Repository) CountEmployees(ctx context.Context) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var count int
	if err := r.dbpool.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *Repository) CountEmployeesByStatus(ctx context.Context, status string) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var count int
	if err := r.dbpool.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees WHERE status = $1`, status).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// CountEmployeesByDepartment 按部门统计人数，没有部门的员工不计入
func (r *Repository) CountEmployeesByDepartment(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT d.name, COUNT(*)
		FROM employees e INNER JOIN departments d ON e.department_id = d.id
		GROUP BY d.name
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		counts[name] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
