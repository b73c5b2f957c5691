package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ExpenseRepository define el puerto de persistencia para salidas de stock.
// Misma superficie que ArrivalRepository: las agregaciones se consultan por
// separado para cada tipo de movimiento.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id string) (*entity.Expense, error)
	Update(ctx context.Context, expense *entity.Expense) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Expense, error)
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Expense, error)

	SumByProduct(ctx context.Context, productID string) (int64, error)
	SumByProducts(ctx context.Context, productIDs []string) (map[string]int64, error)
	LastDateByProduct(ctx context.Context, productID string) (*time.Time, error)
	ExistsByProduct(ctx context.Context, productID string) (bool, error)
}
