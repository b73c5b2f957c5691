package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ArrivalRepository = (*ArrivalRepo)(nil)

// ArrivalRepo implementación del puerto ArrivalRepository sobre PostgreSQL (usable con pool o tx).
type ArrivalRepo struct {
	q Querier
}

// NewArrivalRepository construye el adaptador de persistencia para entradas.
func NewArrivalRepository(q Querier) *ArrivalRepo {
	return &ArrivalRepo{q: q}
}

// Create persiste una nueva entrada de stock.
func (r *ArrivalRepo) Create(ctx context.Context, arrival *entity.Arrival) error {
	query := `
		INSERT INTO arrivals (id, product_id, amount, date, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		arrival.ID, arrival.ProductID, arrival.Amount, arrival.Date, arrival.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert arrival: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID (nil si no existe).
func (r *ArrivalRepo) GetByID(ctx context.Context, id string) (*entity.Arrival, error) {
	query := `SELECT id, product_id, amount, date, created_at FROM arrivals WHERE id = $1`
	var a entity.Arrival
	err := r.q.QueryRow(ctx, query, id).Scan(&a.ID, &a.ProductID, &a.Amount, &a.Date, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get arrival: %w", err)
	}
	return &a, nil
}

// Update actualiza producto, cantidad y fecha de una entrada.
func (r *ArrivalRepo) Update(ctx context.Context, arrival *entity.Arrival) error {
	_, err := r.q.Exec(ctx,
		`UPDATE arrivals SET product_id = $2, amount = $3, date = $4 WHERE id = $1`,
		arrival.ID, arrival.ProductID, arrival.Amount, arrival.Date,
	)
	if err != nil {
		return fmt.Errorf("update arrival: %w", err)
	}
	return nil
}

// Delete elimina una entrada por ID.
func (r *ArrivalRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM arrivals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete arrival: %w", err)
	}
	return nil
}

// List lista entradas por fecha descendente con paginación.
func (r *ArrivalRepo) List(ctx context.Context, limit, offset int) ([]*entity.Arrival, error) {
	query := `
		SELECT id, product_id, amount, date, created_at
		FROM arrivals ORDER BY date DESC, id LIMIT $1 OFFSET $2`
	return r.scanList(ctx, query, limit, offset)
}

// ListByProduct lista las entradas de un producto por fecha descendente.
func (r *ArrivalRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Arrival, error) {
	query := `
		SELECT id, product_id, amount, date, created_at
		FROM arrivals WHERE product_id = $3 ORDER BY date DESC, id LIMIT $1 OFFSET $2`
	return r.scanList(ctx, query, limit, offset, productID)
}

func (r *ArrivalRepo) scanList(ctx context.Context, query string, args ...any) ([]*entity.Arrival, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list arrivals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Arrival
	for rows.Next() {
		var a entity.Arrival
		if err := rows.Scan(&a.ID, &a.ProductID, &a.Amount, &a.Date, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan arrival: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// SumByProduct suma las cantidades del producto. COALESCE devuelve 0 sin filas.
func (r *ArrivalRepo) SumByProduct(ctx context.Context, productID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM arrivals WHERE product_id = $1`,
		productID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum arrivals: %w", err)
	}
	return sum, nil
}

// SumByProducts agrega cantidades por producto en una sola consulta (GROUP BY).
func (r *ArrivalRepo) SumByProducts(ctx context.Context, productIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT product_id, SUM(amount) FROM arrivals WHERE product_id = ANY($1) GROUP BY product_id`,
		productIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("group sum arrivals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var sum int64
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, fmt.Errorf("scan arrival sum: %w", err)
		}
		result[id] = sum
	}
	return result, rows.Err()
}

// LastDateByProduct devuelve la fecha de la entrada más reciente, o nil si no hay.
func (r *ArrivalRepo) LastDateByProduct(ctx context.Context, productID string) (*time.Time, error) {
	var last *time.Time
	err := r.q.QueryRow(ctx,
		`SELECT MAX(date) FROM arrivals WHERE product_id = $1`,
		productID,
	).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("last arrival date: %w", err)
	}
	return last, nil
}

// ExistsByProduct indica si el producto tiene al menos una entrada.
func (r *ArrivalRepo) ExistsByProduct(ctx context.Context, productID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM arrivals WHERE product_id = $1)`,
		productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists arrivals: %w", err)
	}
	return exists, nil
}
