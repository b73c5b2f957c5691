package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
)

// respondDomainError traduce los errores de dominio a respuestas HTTP.
// Los guards de stock y los conflictos de unicidad/dependencias responden 409;
// la entrada inválida 400; lo desconocido 500.
func respondDomainError(c *fiber.Ctx, err error) error {
	var insErr *domain.InsufficientStockError
	if errors.As(err, &insErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: insErr.Error(),
		})
	}
	var negErr *domain.NegativeStockError
	if errors.As(err, &negErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "NEGATIVE_STOCK",
			Message: negErr.Error(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrDuplicateTitle):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "DUPLICATE_TITLE",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrHasDependents):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "HAS_DEPENDENTS",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "CONCURRENCY_CONFLICT",
			Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:    "INTERNAL",
		Message: err.Error(),
	})
}
