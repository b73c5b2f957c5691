package dto

import "time"

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Title string `json:"title" validate:"required,min=1,max=100"`
}

// UpdateProductRequest entrada para renombrar un producto.
type UpdateProductRequest struct {
	Title string `json:"title" validate:"required,min=1,max=100"`
}

// ProductResponse salida de un producto con su stock derivado.
type ProductResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Stock     int64     `json:"stock"` // derivado, nunca persistido
	CreatedAt time.Time `json:"created_at"`
}

// ProductDetailResponse salida del detalle con fechas del último movimiento.
type ProductDetailResponse struct {
	ProductResponse
	LastArrival *time.Time `json:"last_arrival,omitempty"`
	LastExpense *time.Time `json:"last_expense,omitempty"`
}

// ProductListResponse lista paginada de productos con el total del catálogo.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int64             `json:"total"`
	Page  PageResponse      `json:"page"`
}
