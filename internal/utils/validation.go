package utils

import (
	"fmt"
	"unicode"

	"github.com/talentoplus/backend/internal/domain"
)

const MinPasswordLength = 6

// ValidatePassword 检查账户密码策略，返回所有不满足的规则
func ValidatePassword(password string) error {
	var hasDigit, hasLower, hasUpper, hasSymbol bool
	for _, c := range password {
		switch {
		case unicode.IsDigit(c):
			hasDigit = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsUpper(c):
			hasUpper = true
		case !unicode.IsLetter(c) && !unicode.IsNumber(c):
			hasSymbol = true
		}
	}

	violations := make([]string, 0)
	if len([]rune(password)) < MinPasswordLength {
		violations = append(violations, fmt.Sprintf("la contraseña debe tener al menos %d caracteres", MinPasswordLength))
	}
	if !hasDigit {
		violations = append(violations, "la contraseña debe contener al menos un dígito")
	}
	if !hasLower {
		violations = append(violations, "la contraseña debe contener al menos una letra minúscula")
	}
	if !hasUpper {
		violations = append(violations, "la contraseña debe contener al menos una letra mayúscula")
	}
	if !hasSymbol {
		violations = append(violations, "la contraseña debe contener al menos un carácter no alfanumérico")
	}

	if len(violations) > 0 {
		return &domain.PasswordPolicyError{Violations: violations}
	}
	return nil
}
