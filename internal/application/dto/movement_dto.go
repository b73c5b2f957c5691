package dto

import "time"

// CreateMovementRequest entrada para registrar una entrada o salida de stock.
type CreateMovementRequest struct {
	ProductID string    `json:"product_id" validate:"required,uuid"`
	Amount    int64     `json:"amount" validate:"required,gt=0"`
	Date      time.Time `json:"date" validate:"required"`
}

// UpdateMovementRequest entrada para editar una entrada o salida existente.
// ProductID permite reasignar el movimiento a otro producto.
type UpdateMovementRequest struct {
	ProductID string    `json:"product_id" validate:"required,uuid"`
	Amount    int64     `json:"amount" validate:"required,gt=0"`
	Date      time.Time `json:"date" validate:"required"`
}

// MovementResponse salida de una entrada o salida de stock.
type MovementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Amount    int64     `json:"amount"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos de un mismo tipo.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
