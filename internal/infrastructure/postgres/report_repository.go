package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/metrics"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para el dashboard del almacén.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// GetCounts devuelve los totales globales y los productos creados desde newSince.
// Subconsultas escalares: una sola ida a la base.
func (r *ReportRepo) GetCounts(ctx context.Context, newSince time.Time) (repository.CountsResult, error) {
	defer metrics.TrackDBOperation("report_counts")(time.Now())

	const query = `
	SELECT
	    (SELECT COUNT(*) FROM products)                            AS products,
	    (SELECT COUNT(*) FROM arrivals)                            AS arrivals,
	    (SELECT COUNT(*) FROM expenses)                            AS expenses,
	    (SELECT COUNT(*) FROM products WHERE created_at >= $1)     AS new_products`

	var result repository.CountsResult
	err := r.pool.QueryRow(ctx, query, newSince).Scan(
		&result.Products, &result.Arrivals, &result.Expenses, &result.NewProducts,
	)
	if err != nil {
		return repository.CountsResult{}, fmt.Errorf("report.GetCounts: %w", err)
	}
	return result, nil
}

// GetLowStock deriva el stock por producto con sumas agrupadas (jamás una
// consulta por fila) y devuelve los de stock <= threshold, ascendente.
// Desempate por título ascendente.
func (r *ReportRepo) GetLowStock(ctx context.Context, threshold int64, limit int) ([]repository.LowStockResult, error) {
	defer metrics.TrackDBOperation("report_low_stock")(time.Now())

	const query = `
	SELECT
	    p.id,
	    p.title,
	    COALESCE(a.total, 0) - COALESCE(e.total, 0) AS stock
	FROM products p
	LEFT JOIN (SELECT product_id, SUM(amount) AS total FROM arrivals GROUP BY product_id) a
	       ON a.product_id = p.id
	LEFT JOIN (SELECT product_id, SUM(amount) AS total FROM expenses GROUP BY product_id) e
	       ON e.product_id = p.id
	WHERE COALESCE(a.total, 0) - COALESCE(e.total, 0) <= $1
	ORDER BY stock ASC, p.title ASC
	LIMIT $2`

	rows, err := r.pool.Query(ctx, query, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("report.GetLowStock: %w", err)
	}
	defer rows.Close()

	var results []repository.LowStockResult
	for rows.Next() {
		var row repository.LowStockResult
		if err := rows.Scan(&row.ProductID, &row.Title, &row.Stock); err != nil {
			return nil, fmt.Errorf("report.GetLowStock scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetRecentMovements combina entradas y salidas (UNION ALL) ordenadas por
// fecha descendente, con el título del producto resuelto en la misma consulta.
func (r *ReportRepo) GetRecentMovements(ctx context.Context, limit int) ([]repository.RecentMovementResult, error) {
	defer metrics.TrackDBOperation("report_recent_movements")(time.Now())

	const query = `
	SELECT m.id, m.product_id, p.title, m.type, m.amount, m.date
	FROM (
	    SELECT id, product_id, $2::text AS type, amount, date FROM arrivals
	    UNION ALL
	    SELECT id, product_id, $3::text AS type, amount, date FROM expenses
	) m
	JOIN products p ON p.id = m.product_id
	ORDER BY m.date DESC, m.id
	LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit,
		entity.MovementTypeArrival, entity.MovementTypeExpense,
	)
	if err != nil {
		return nil, fmt.Errorf("report.GetRecentMovements: %w", err)
	}
	defer rows.Close()

	var results []repository.RecentMovementResult
	for rows.Next() {
		var row repository.RecentMovementResult
		if err := rows.Scan(&row.ID, &row.ProductID, &row.ProductTitle, &row.Type, &row.Amount, &row.Date); err != nil {
			return nil, fmt.Errorf("report.GetRecentMovements scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetDailyTotals genera un punto por día con generate_series y suma los
// movimientos de cada día; los días sin actividad salen en cero.
func (r *ReportRepo) GetDailyTotals(ctx context.Context, from time.Time, days int) ([]repository.DailyTotalsResult, error) {
	defer metrics.TrackDBOperation("report_daily_totals")(time.Now())

	const query = `
	SELECT
	    d.day,
	    COALESCE((SELECT SUM(amount) FROM arrivals WHERE date >= d.day AND date < d.day + interval '1 day'), 0) AS arrivals,
	    COALESCE((SELECT SUM(amount) FROM expenses WHERE date >= d.day AND date < d.day + interval '1 day'), 0) AS expenses
	FROM generate_series($1::timestamptz, $1::timestamptz + ($2 - 1) * interval '1 day', interval '1 day') AS d(day)
	ORDER BY d.day`

	rows, err := r.pool.Query(ctx, query, from, days)
	if err != nil {
		return nil, fmt.Errorf("report.GetDailyTotals: %w", err)
	}
	defer rows.Close()

	var results []repository.DailyTotalsResult
	for rows.Next() {
		var row repository.DailyTotalsResult
		if err := rows.Scan(&row.Day, &row.Arrivals, &row.Expenses); err != nil {
			return nil, fmt.Errorf("report.GetDailyTotals scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
