package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ArrivalRepository define el puerto de persistencia para entradas de stock.
type ArrivalRepository interface {
	Create(ctx context.Context, arrival *entity.Arrival) error
	GetByID(ctx context.Context, id string) (*entity.Arrival, error)
	Update(ctx context.Context, arrival *entity.Arrival) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Arrival, error)
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Arrival, error)

	// SumByProduct devuelve la suma de cantidades del producto (0 si no hay filas).
	SumByProduct(ctx context.Context, productID string) (int64, error)
	// SumByProducts agrega por producto en una sola consulta (GROUP BY).
	// Productos sin filas no aparecen en el mapa.
	SumByProducts(ctx context.Context, productIDs []string) (map[string]int64, error)
	// LastDateByProduct devuelve la fecha del movimiento más reciente, o nil si no hay.
	LastDateByProduct(ctx context.Context, productID string) (*time.Time, error)
	ExistsByProduct(ctx context.Context, productID string) (bool, error)
}
