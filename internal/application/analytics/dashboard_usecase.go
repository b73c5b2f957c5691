// Package analytics contiene el caso de uso del dashboard del almacén:
// composición de solo lectura sobre las consultas agregadas del store.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

const (
	lowStockThreshold = 5  // stock derivado <= 5 entra al widget de bajo stock
	lowStockLimit     = 5  // tamaño del widget
	recentLimit       = 10 // movimientos en el feed de actividad
	seriesDays        = 31 // hoy + 30 días anteriores
	newProductsDays   = 30 // ventana de "productos nuevos"
)

// DashboardUseCase genera el resumen del almacén: totales, bajo stock,
// actividad reciente y serie diaria de movimientos.
//
// Fuente de datos: ReportRepository (consultas read-only).
// No toca las tablas directamente; delega todo en el repositorio.
type DashboardUseCase struct {
	reportRepo repository.ReportRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reportRepo repository.ReportRepository) *DashboardUseCase {
	return &DashboardUseCase{reportRepo: reportRepo}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro llamadas en paralelo:
//  1. GetCounts            → totales y productos nuevos
//  2. GetLowStock          → top 5 con stock <= 5, ascendente
//  3. GetRecentMovements   → últimos 10 movimientos combinados
//  4. GetDailyTotals       → serie de 31 días con ceros
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	seriesFrom := todayStart.AddDate(0, 0, -(seriesDays - 1))
	newSince := todayStart.AddDate(0, 0, -newProductsDays)

	type countsResult struct {
		counts repository.CountsResult
		err    error
	}
	type lowStockResult struct {
		rows []repository.LowStockResult
		err  error
	}
	type recentResult struct {
		rows []repository.RecentMovementResult
		err  error
	}
	type seriesResult struct {
		rows []repository.DailyTotalsResult
		err  error
	}

	countsCh := make(chan countsResult, 1)
	lowCh := make(chan lowStockResult, 1)
	recentCh := make(chan recentResult, 1)
	seriesCh := make(chan seriesResult, 1)

	go func() {
		counts, err := uc.reportRepo.GetCounts(ctx, newSince)
		countsCh <- countsResult{counts, err}
	}()
	go func() {
		rows, err := uc.reportRepo.GetLowStock(ctx, lowStockThreshold, lowStockLimit)
		lowCh <- lowStockResult{rows, err}
	}()
	go func() {
		rows, err := uc.reportRepo.GetRecentMovements(ctx, recentLimit)
		recentCh <- recentResult{rows, err}
	}()
	go func() {
		rows, err := uc.reportRepo.GetDailyTotals(ctx, seriesFrom, seriesDays)
		seriesCh <- seriesResult{rows, err}
	}()

	counts := <-countsCh
	low := <-lowCh
	recent := <-recentCh
	series := <-seriesCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: totales: %w", counts.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: bajo stock: %w", low.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos recientes: %w", recent.err)
	}
	if series.err != nil {
		return nil, fmt.Errorf("dashboard: serie diaria: %w", series.err)
	}

	out := &dto.DashboardSummaryDTO{
		TotalProducts:   counts.counts.Products,
		TotalArrivals:   counts.counts.Arrivals,
		TotalExpenses:   counts.counts.Expenses,
		NewProducts:     counts.counts.NewProducts,
		LowStock:        make([]dto.LowStockItemDTO, 0, len(low.rows)),
		RecentMovements: make([]dto.RecentMovementDTO, 0, len(recent.rows)),
		DailySeries:     make([]dto.DailyPointDTO, 0, len(series.rows)),
	}
	for _, row := range low.rows {
		out.LowStock = append(out.LowStock, dto.LowStockItemDTO{
			ProductID: row.ProductID,
			Title:     row.Title,
			Stock:     row.Stock,
		})
	}
	for _, row := range recent.rows {
		out.RecentMovements = append(out.RecentMovements, dto.RecentMovementDTO{
			ID:           row.ID,
			ProductID:    row.ProductID,
			ProductTitle: row.ProductTitle,
			Type:         row.Type,
			Amount:       row.Amount,
			Date:         row.Date,
		})
	}
	for _, row := range series.rows {
		out.DailySeries = append(out.DailySeries, dto.DailyPointDTO{
			Day:      row.Day,
			Arrivals: row.Arrivals,
			Expenses: row.Expenses,
		})
	}
	return out, nil
}
