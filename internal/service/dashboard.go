package service

import (
	"context"

	"github.com/talentoplus/backend/internal/domain"
)

type Dashboard struct {
	employees EmployeeStore
}

func NewDashboard(store EmployeeStore) *Dashboard {
	return &Dashboard{employees: store}
}

func (d *Dashboard) KPIs(ctx context.Context) (*domain.KPIs, error) {
	total, err := d.employees.CountEmployees(ctx)
	if err != nil {
		return nil, err
	}

	onVacation, err := d.employees.CountEmployeesByStatus(ctx, domain.StatusVacation)
	if err != nil {
		return nil, err
	}

	perDepartment, err := d.employees.CountEmployeesByDepartment(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.KPIs{
		TotalEmployees:         total,
		OnVacation:             onVacation,
		EmployeesPerDepartment: perDepartment,
	}, nil
}
