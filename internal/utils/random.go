package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/talentoplus/backend/internal/domain"
)

var commonFirstNames = []string{
	"Ana", "Carlos", "María", "Juan", "Laura", "Andrés", "Camila", "Santiago", "Valentina", "Diego",
	"Daniela", "Felipe", "Sofía", "Mateo", "Isabella", "Sebastián", "Natalia", "Julián", "Paula", "Alejandro",
}
var commonLastNames = []string{
	"Gómez", "Rodríguez", "Martínez", "López", "García", "Hernández", "Pérez", "Sánchez", "Ramírez", "Torres",
	"Díaz", "Vargas", "Castro", "Rojas", "Moreno", "Jiménez", "Muñoz", "Ortiz", "Restrepo", "Cárdenas",
}
var streets = []string{"Calle", "Carrera", "Avenida", "Diagonal", "Transversal"}
var titles = []string{
	"Analista", "Desarrollador", "Coordinador", "Asistente", "Gerente", "Especialista", "Ingeniero", "Auxiliar",
}
var educationLevels = []string{"Bachiller", "Técnico", "Tecnólogo", "Profesional", "Especialización", "Maestría"}
var departments = []string{"Tecnología", "Recursos Humanos", "Ventas", "Marketing", "Contabilidad", "Operaciones", "Logística"}
var statuses = []string{domain.StatusActive, domain.StatusActive, domain.StatusActive, domain.StatusVacation, "Inactivo"}

func pick(values []string) string {
	return values[mrand.Intn(len(values))]
}

func GenerateRandomFullName() (string, string) {
	firstName := pick(commonFirstNames)
	if mrand.Intn(3) == 0 {
		firstName += " " + pick(commonFirstNames)
	}
	return firstName, pick(commonLastNames) + " " + pick(commonLastNames)
}

func GenerateRandomDepartmentName() string {
	return pick(departments)
}

var digits = "0123456789"

func GenerateRandomDocument() string {
	length := mrand.Intn(3) + 8
	doc := make([]byte, length)
	doc[0] = digits[mrand.Intn(9)+1]
	for i := 1; i < length; i++ {
		doc[i] = digits[mrand.Intn(len(digits))]
	}
	return string(doc)
}

func randomDate(from time.Time, days int) time.Time {
	return from.AddDate(0, 0, mrand.Intn(days))
}

// GenerateRandomEmployee 生成一个随机员工，部门只填充名称，由调用者负责解析
func GenerateRandomEmployee(emailDomainName string) *domain.Employee {
	firstName, lastName := GenerateRandomFullName()
	local := strings.ToLower(strings.Fields(firstName)[0] + "." + strings.Fields(lastName)[0])

	salary := decimal.NewFromInt(int64(mrand.Intn(90)+15) * 100000)

	return &domain.Employee{
		Document:       GenerateRandomDocument(),
		FirstName:      firstName,
		LastName:       lastName,
		BirthDate:      randomDate(time.Date(1965, 1, 1, 0, 0, 0, 0, time.UTC), 365*38),
		Address:        fmt.Sprintf("%s %d # %d-%d", pick(streets), mrand.Intn(150)+1, mrand.Intn(100)+1, mrand.Intn(99)+1),
		Phone:          fmt.Sprintf("3%02d%07d", mrand.Intn(30)+10, mrand.Intn(10000000)),
		Email:          local + GenerateRandomID(0, 3) + "@" + emailDomainName,
		Title:          pick(titles),
		Salary:         salary,
		HireDate:       randomDate(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), 365*15),
		Status:         pick(statuses),
		EducationLevel: pick(educationLevels),
		Profile:        "Profesional con experiencia en el área de " + strings.ToLower(pick(departments)) + ".",
		Department:     &domain.Department{Name: GenerateRandomDepartmentName()},
	}
}

func GenerateRandomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomID(letterLength int, digitLength int) string {
	randomID := make([]rune, letterLength+digitLength)
	for i := range randomID {
		if i < letterLength {
			randomID[i] = letters[mrand.Intn(52)]
		} else {
			randomID[i] = rune(digits[mrand.Intn(len(digits))])
		}
	}
	return string(randomID)
}
