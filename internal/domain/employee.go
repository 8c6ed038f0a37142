package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "Activo"
	StatusVacation = "Vacaciones"
)

type Employee struct {
	ID             int64           `json:"id"`
	Document       string          `json:"documento"`
	FirstName      string          `json:"nombres"`
	LastName       string          `json:"apellidos"`
	BirthDate      time.Time       `json:"fechaNacimiento"`
	Address        string          `json:"direccion"`
	Phone          string          `json:"telefono"`
	Email          string          `json:"email"`
	Title          string          `json:"cargo"`
	Salary         decimal.Decimal `json:"salario"`
	HireDate       time.Time       `json:"fechaIngreso"`
	Status         string          `json:"estado"`
	EducationLevel string          `json:"nivelEducativo"`
	Profile        string          `json:"perfilProfesional"`
	DepartmentID   *int64          `json:"departamentoId"`
	Department     *Department     `json:"departamento,omitempty"` // 只在查询时填充
	CreatedAt      time.Time       `json:"createdAt"`
}

func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// DepartmentName 返回部门名称，没有部门时返回 fallback
func (e *Employee) DepartmentName(fallback string) string {
	if e.Department == nil || e.Department.Name == "" {
		return fallback
	}
	return e.Department.Name
}

type Department struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nombre"`
	CreatedAt time.Time `json:"createdAt"`
}

type KPIs struct {
	TotalEmployees         int            `json:"totalEmpleados"`
	OnVacation             int            `json:"enVacaciones"`
	EmployeesPerDepartment map[string]int `json:"empleadosPorDepartamento"`
}
