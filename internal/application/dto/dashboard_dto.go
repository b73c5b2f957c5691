package dto

import "time"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Composición de solo lectura sobre el calculador de stock y las consultas agregadas.
type DashboardSummaryDTO struct {
	// Totales globales
	TotalProducts int64 `json:"total_products"`
	TotalArrivals int64 `json:"total_arrivals"`
	TotalExpenses int64 `json:"total_expenses"`
	NewProducts   int64 `json:"new_products"` // creados en los últimos 30 días

	// Top 5 productos con stock derivado <= umbral, de menor a mayor
	LowStock []LowStockItemDTO `json:"low_stock"`

	// Últimos 10 movimientos (entradas y salidas combinadas, fecha descendente)
	RecentMovements []RecentMovementDTO `json:"recent_movements"`

	// Serie diaria de 31 puntos: hoy y los 30 días anteriores, con ceros
	// en los días sin actividad
	DailySeries []DailyPointDTO `json:"daily_series"`
}

// LowStockItemDTO producto del widget de bajo stock.
type LowStockItemDTO struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Stock     int64  `json:"stock"`
}

// RecentMovementDTO movimiento del feed de actividad reciente.
type RecentMovementDTO struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	ProductTitle string    `json:"product_title"`
	Type         string    `json:"type"` // arrival | expense
	Amount       int64     `json:"amount"`
	Date         time.Time `json:"date"`
}

// DailyPointDTO punto de la serie diaria de movimientos.
type DailyPointDTO struct {
	Day      time.Time `json:"day"`
	Arrivals int64     `json:"arrivals"`
	Expenses int64     `json:"expenses"`
}
