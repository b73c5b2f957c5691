package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicateTitle      = errors.New("ya existe un producto con ese título")
	ErrHasDependents       = errors.New("el producto tiene movimientos asociados")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintente la operación")
)

// InsufficientStockError indica que crear o editar una salida dejaría el
// stock derivado en negativo. Lleva el stock disponible al momento del chequeo.
type InsufficientStockError struct {
	ProductID string
	Current   int64 // stock disponible
	Requested int64 // cantidad que se intentó descontar
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Current, e.Requested)
}

// NegativeStockError indica que eliminar una entrada dejaría el stock derivado
// en negativo. El caller debe eliminar primero las salidas que dependen de ella.
type NegativeStockError struct {
	ProductID string
	Resulting int64 // stock que quedaría tras la eliminación
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("la eliminación dejaría el stock en %d: elimine primero las salidas asociadas", e.Resulting)
}
