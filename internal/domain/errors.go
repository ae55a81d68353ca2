package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	// ErrRetryTx clasifica deadlocks y lock timeouts entre transacciones
	// concurrentes: no es un error de datos, la operación completa puede
	// reintentarse desde el caller.
	ErrRetryTx = errors.New("transacción reintentable")
)

// ValidationError error de validación con referencia al campo ofensor,
// para que el caller pueda mapearlo de vuelta al formulario.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is hace que errors.Is(err, domain.ErrInvalidInput) funcione sobre
// cualquier ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validationf construye un ValidationError con mensaje formateado.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
