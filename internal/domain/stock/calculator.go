// Package stock implementa el cálculo de stock derivado (servicio de dominio).
// El stock actual nunca se persiste: siempre se recalcula como
// sum(entradas) - sum(salidas), lo que elimina bugs de deriva de contadores.
package stock

import (
	"context"
	"time"
)

// MovementSums es la porción de lectura agregada que el calculador necesita
// de cada tipo de movimiento. Los repositorios de entradas y salidas la
// satisfacen por separado.
type MovementSums interface {
	SumByProduct(ctx context.Context, productID string) (int64, error)
	SumByProducts(ctx context.Context, productIDs []string) (map[string]int64, error)
	LastDateByProduct(ctx context.Context, productID string) (*time.Time, error)
}

// MovementDates fechas del último movimiento de cada tipo (nil si no hay).
type MovementDates struct {
	LastArrival *time.Time
	LastExpense *time.Time
}

// Calculator calcula stock derivado sobre los puertos de movimientos.
// Solo lectura; seguro para uso concurrente.
type Calculator struct {
	arrivals MovementSums
	expenses MovementSums
}

// NewCalculator construye el calculador sobre los repositorios de movimientos.
func NewCalculator(arrivals, expenses MovementSums) *Calculator {
	return &Calculator{arrivals: arrivals, expenses: expenses}
}

// CurrentStock devuelve sum(entradas) - sum(salidas) del producto.
// Un producto sin movimientos (o desconocido) da 0, nunca error.
func (c *Calculator) CurrentStock(ctx context.Context, productID string) (int64, error) {
	in, err := c.arrivals.SumByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	out, err := c.expenses.SumByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return in - out, nil
}

// BatchStock calcula el stock de muchos productos con dos consultas agregadas
// (una por tipo de movimiento), nunca una consulta por producto.
// Todo ID pedido aparece en el resultado, con 0 si no tiene movimientos.
func (c *Calculator) BatchStock(ctx context.Context, productIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	ins, err := c.arrivals.SumByProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	outs, err := c.expenses.SumByProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	for _, id := range productIDs {
		result[id] = ins[id] - outs[id]
	}
	return result, nil
}

// LastMovementDates devuelve la fecha más reciente de cada tipo de movimiento.
func (c *Calculator) LastMovementDates(ctx context.Context, productID string) (MovementDates, error) {
	lastIn, err := c.arrivals.LastDateByProduct(ctx, productID)
	if err != nil {
		return MovementDates{}, err
	}
	lastOut, err := c.expenses.LastDateByProduct(ctx, productID)
	if err != nil {
		return MovementDates{}, err
	}
	return MovementDates{LastArrival: lastIn, LastExpense: lastOut}, nil
}
