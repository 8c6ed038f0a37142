package repository

import (
	"context"

	"github.com/talentoplus/backend/internal/domain"
)

func (r *Repository) GetAllDepartments(ctx context.Context) ([]*domain.Department, error) {
	query := `
		SELECT id, name, created_at FROM departments ORDER BY name
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := make([]*domain.Department, 0)
	for rows.Next() {
		department := &domain.Department{}
		if err := rows.Scan(&department.ID, &department.Name, &department.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, department)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return departments, nil
}

// GetDepartmentByName 按名称查找部门，忽略大小写
func (r *Repository) GetDepartmentByName(ctx context.Context, name string) (*domain.Department, error) {
	query := `
		SELECT id, name, created_at FROM departments WHERE LOWER(name) = LOWER($1)
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	department := &domain.Department{}
	dst := []any{&department.ID, &department.Name, &department.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, name).Scan(dst...); err != nil {
		return nil, err
	}

	return department, nil
}

func (r *Repository) CreateDepartment(ctx context.Context, department *domain.Department) error {
	query := `
		INSERT INTO departments (name) VALUES ($1)
		RETURNING id, created_at
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, department.Name).Scan(&department.ID, &department.CreatedAt); err != nil {
		return err
	}

	return nil
}
