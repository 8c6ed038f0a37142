package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotEligible         = errors.New("tu documento no está registrado en la base de datos de empleados, contacta a RRHH")
	ErrInvalidCredentials  = errors.New("usuario o contraseña incorrectos")
	ErrDuplicateDocument   = errors.New("ya existe un empleado con ese documento")
	ErrDuplicateUsername   = errors.New("ya existe una cuenta con ese documento")
	ErrNotFound            = errors.New("empleado no encontrado")
	ErrDepartmentNotFound  = errors.New("el departamento no existe")
	ErrNoLinkedEmployee    = errors.New("no tienes un perfil de empleado asociado")
	ErrEmptyQuestion       = errors.New("la pregunta no puede estar vacía")
	ErrInvalidFile         = errors.New("por favor suba un archivo Excel válido")
	ErrUnsupportedFileType = errors.New("formato de archivo no soportado, use .xlsx o .csv")
	ErrInvalidCode         = errors.New("código de verificación incorrecto")
)

// PasswordPolicyError 列出密码违反的所有规则
type PasswordPolicyError struct {
	Violations []string
}

func (e *PasswordPolicyError) Error() string {
	return "contraseña inválida: " + strings.Join(e.Violations, "; ")
}

// AccountCreationError 表示账户创建失败，Reasons 是底层的校验错误
type AccountCreationError struct {
	Reasons []string
}

func (e *AccountCreationError) Error() string {
	return "no se pudo crear la cuenta: " + strings.Join(e.Reasons, "; ")
}

// ImportAbortedError 表示导入中途失败，Processed 行已经写入数据库
type ImportAbortedError struct {
	Processed int
	Err       error
}

func (e *ImportAbortedError) Error() string {
	return fmt.Sprintf("error procesando el archivo: %v", e.Err)
}

func (e *ImportAbortedError) Unwrap() error {
	return e.Err
}
