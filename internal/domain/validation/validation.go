// Package validation contiene las reglas de formato de nombres de tenant, emails y contraseñas.
package validation

import (
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
	"golang.org/x/text/cases"

	"github.com/jhoicas/Tenancy-api/internal/domain"
)

// MaxTenantNameLength longitud máxima del nombre de un tenant.
const MaxTenantNameLength = 50

// MinPasswordLength longitud mínima de una contraseña elegida por el usuario.
const MinPasswordLength = 8

// ValidateTenantName exige sólo letras ASCII, dígitos y espacios, al menos una
// mayúscula y como máximo 50 caracteres.
func ValidateTenantName(name string) error {
	if name == "" || len(name) > MaxTenantNameLength {
		return domain.ErrInvalidTenantName
	}
	hasUpper := false
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
		default:
			return domain.ErrInvalidTenantName
		}
	}
	if !hasUpper {
		return domain.ErrInvalidTenantName
	}
	return nil
}

// NormalizeEmail recorta espacios y pliega mayúsculas para comparar emails.
func NormalizeEmail(email string) string {
	// Caser no es seguro entre goroutines; se crea uno por llamada.
	return cases.Fold().String(strings.TrimSpace(email))
}

// ValidateEmail valida el formato del email.
func ValidateEmail(email string) error {
	if email == "" || !govalidator.IsEmail(email) {
		return fmt.Errorf("%w: email %q no es válido", domain.ErrInvalidInput, email)
	}
	return nil
}

// ValidatePassword exige la longitud mínima.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	return nil
}
