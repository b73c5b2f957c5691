package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) dentro de
	// la transacción activa. Serializa los guards de stock de ese producto.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	// ExistsByTitle chequea unicidad del título ya normalizado
	// (entity.NormalizeTitle). excludeID vacío compara contra todos.
	ExistsByTitle(ctx context.Context, normTitle, excludeID string) (bool, error)
	// Count devuelve el total del catálogo (metadato de los listados).
	Count(ctx context.Context) (int64, error)
}
