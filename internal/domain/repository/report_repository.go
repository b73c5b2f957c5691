package repository

import (
	"context"
	"time"
)

// CountsResult totales crudos para el dashboard.
type CountsResult struct {
	Products    int64
	Arrivals    int64
	Expenses    int64
	NewProducts int64 // productos creados en el período "reciente"
}

// LowStockResult fila cruda del listado de bajo stock.
type LowStockResult struct {
	ProductID string
	Title     string
	Stock     int64 // derivado: sum(entradas) - sum(salidas)
}

// RecentMovementResult fila cruda del feed de movimientos recientes.
type RecentMovementResult struct {
	ID           string
	ProductID    string
	ProductTitle string
	Type         string // entity.MovementTypeArrival | entity.MovementTypeExpense
	Amount       int64
	Date         time.Time
}

// DailyTotalsResult punto de la serie diaria de movimientos.
type DailyTotalsResult struct {
	Day      time.Time // medianoche del día
	Arrivals int64
	Expenses int64
}

// ReportRepository define las consultas de lectura para el dashboard.
// Las implementaciones son read-only (no modifican datos).
type ReportRepository interface {
	// GetCounts devuelve los totales globales y los productos creados desde newSince.
	GetCounts(ctx context.Context, newSince time.Time) (CountsResult, error)

	// GetLowStock devuelve hasta `limit` productos con stock derivado <= threshold,
	// ordenados por stock ascendente y título ascendente como desempate.
	GetLowStock(ctx context.Context, threshold int64, limit int) ([]LowStockResult, error)

	// GetRecentMovements devuelve los `limit` movimientos más recientes
	// combinando entradas y salidas, ordenados por fecha descendente.
	GetRecentMovements(ctx context.Context, limit int) ([]RecentMovementResult, error)

	// GetDailyTotals devuelve un punto por día entre from y from+days-1,
	// con ceros en los días sin actividad.
	GetDailyTotals(ctx context.Context, from time.Time, days int) ([]DailyTotalsResult, error)
}
