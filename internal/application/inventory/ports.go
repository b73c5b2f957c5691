package inventory

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para los guards de stock:
// la secuencia leer-decidir-escribir de cada mutación se serializa por
// producto mediante GetForUpdate sobre la fila del producto.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		arrivalRepo repository.ArrivalRepository,
		expenseRepo repository.ExpenseRepository,
	) error) error
}
