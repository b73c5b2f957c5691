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

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo implementación del puerto ExpenseRepository sobre PostgreSQL (usable con pool o tx).
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador de persistencia para salidas.
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// Create persiste una nueva salida de stock.
func (r *ExpenseRepo) Create(ctx context.Context, expense *entity.Expense) error {
	query := `
		INSERT INTO expenses (id, product_id, amount, date, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		expense.ID, expense.ProductID, expense.Amount, expense.Date, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// GetByID obtiene una salida por ID (nil si no existe).
func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	query := `SELECT id, product_id, amount, date, created_at FROM expenses WHERE id = $1`
	var e entity.Expense
	err := r.q.QueryRow(ctx, query, id).Scan(&e.ID, &e.ProductID, &e.Amount, &e.Date, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

// Update actualiza producto, cantidad y fecha de una salida.
func (r *ExpenseRepo) Update(ctx context.Context, expense *entity.Expense) error {
	_, err := r.q.Exec(ctx,
		`UPDATE expenses SET product_id = $2, amount = $3, date = $4 WHERE id = $1`,
		expense.ID, expense.ProductID, expense.Amount, expense.Date,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// Delete elimina una salida por ID. Un ID inexistente no es error.
func (r *ExpenseRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// List lista salidas por fecha descendente con paginación.
func (r *ExpenseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Expense, error) {
	query := `
		SELECT id, product_id, amount, date, created_at
		FROM expenses ORDER BY date DESC, id LIMIT $1 OFFSET $2`
	return r.scanList(ctx, query, limit, offset)
}

// ListByProduct lista las salidas de un producto por fecha descendente.
func (r *ExpenseRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Expense, error) {
	query := `
		SELECT id, product_id, amount, date, created_at
		FROM expenses WHERE product_id = $3 ORDER BY date DESC, id LIMIT $1 OFFSET $2`
	return r.scanList(ctx, query, limit, offset, productID)
}

func (r *ExpenseRepo) scanList(ctx context.Context, query string, args ...any) ([]*entity.Expense, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Expense
	for rows.Next() {
		var e entity.Expense
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Amount, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// SumByProduct suma las cantidades del producto. COALESCE devuelve 0 sin filas.
func (r *ExpenseRepo) SumByProduct(ctx context.Context, productID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE product_id = $1`,
		productID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	return sum, nil
}

// SumByProducts agrega cantidades por producto en una sola consulta (GROUP BY).
func (r *ExpenseRepo) SumByProducts(ctx context.Context, productIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT product_id, SUM(amount) FROM expenses WHERE product_id = ANY($1) GROUP BY product_id`,
		productIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("group sum expenses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var sum int64
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, fmt.Errorf("scan expense sum: %w", err)
		}
		result[id] = sum
	}
	return result, rows.Err()
}

// LastDateByProduct devuelve la fecha de la salida más reciente, o nil si no hay.
func (r *ExpenseRepo) LastDateByProduct(ctx context.Context, productID string) (*time.Time, error) {
	var last *time.Time
	err := r.q.QueryRow(ctx,
		`SELECT MAX(date) FROM expenses WHERE product_id = $1`,
		productID,
	).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("last expense date: %w", err)
	}
	return last, nil
}

// ExistsByProduct indica si el producto tiene al menos una salida.
func (r *ExpenseRepo) ExistsByProduct(ctx context.Context, productID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM expenses WHERE product_id = $1)`,
		productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists expenses: %w", err)
	}
	return exists, nil
}
