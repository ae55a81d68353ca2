package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
)

// fail mapea errores de dominio a respuestas HTTP. Todo handler pasa
// por aquí para que la taxonomía sea uniforme en toda la API.
func fail(c *fiber.Ctx, err error) error {
	var v *domain.ValidationError
	if errors.As(err, &v) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: v.Message, Field: v.Field})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	}
	if errors.Is(err, domain.ErrRetryTx) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "TX_CONFLICT", Message: "conflicto transitorio, reintente la operación"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
