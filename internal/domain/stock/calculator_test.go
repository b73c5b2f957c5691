package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/stock"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

// newCalculator arma un calculador sobre el store en memoria con los
// movimientos indicados ya cargados.
func newCalculator(t *testing.T, arrivals []entity.Arrival, expenses []entity.Expense) (*stock.Calculator, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	for i := range arrivals {
		require.NoError(t, store.Arrivals().Create(ctx, &arrivals[i]))
	}
	for i := range expenses {
		require.NoError(t, store.Expenses().Create(ctx, &expenses[i]))
	}
	return stock.NewCalculator(store.Arrivals(), store.Expenses()), store
}

func day(n int) time.Time {
	return time.Date(2026, 8, n, 0, 0, 0, 0, time.UTC)
}

func TestCurrentStock_ProductoDesconocidoDaCero(t *testing.T) {
	calc, _ := newCalculator(t, nil, nil)

	current, err := calc.CurrentStock(context.Background(), "no-existe")
	require.NoError(t, err, "un producto desconocido no debe producir error")
	assert.Equal(t, int64(0), current)
}

func TestCurrentStock_EntradasMenosSalidas(t *testing.T) {
	calc, _ := newCalculator(t,
		[]entity.Arrival{
			{ID: "a1", ProductID: "p1", Amount: 10, Date: day(1)},
			{ID: "a2", ProductID: "p1", Amount: 5, Date: day(2)},
			{ID: "a3", ProductID: "p2", Amount: 3, Date: day(1)},
		},
		[]entity.Expense{
			{ID: "e1", ProductID: "p1", Amount: 4, Date: day(3)},
		},
	)
	ctx := context.Background()

	current, err := calc.CurrentStock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(11), current, "15 de entradas menos 4 de salidas")

	current, err = calc.CurrentStock(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), current, "producto sin salidas")
}

// TestBatchStock_CoincideConCurrentStock verifica que la agregación en lote
// produce exactamente el mismo resultado que el cálculo producto a producto,
// incluyendo el cero para IDs sin movimientos.
func TestBatchStock_CoincideConCurrentStock(t *testing.T) {
	calc, _ := newCalculator(t,
		[]entity.Arrival{
			{ID: "a1", ProductID: "p1", Amount: 10, Date: day(1)},
			{ID: "a2", ProductID: "p2", Amount: 7, Date: day(2)},
		},
		[]entity.Expense{
			{ID: "e1", ProductID: "p1", Amount: 2, Date: day(3)},
			{ID: "e2", ProductID: "p2", Amount: 7, Date: day(4)},
		},
	)
	ctx := context.Background()
	ids := []string{"p1", "p2", "p3-sin-movimientos"}

	batch, err := calc.BatchStock(ctx, ids)
	require.NoError(t, err)
	require.Len(t, batch, len(ids), "todo ID pedido debe aparecer en el resultado")

	for _, id := range ids {
		single, err := calc.CurrentStock(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, single, batch[id], "batch y cálculo individual deben coincidir para %s", id)
	}
	assert.Equal(t, int64(0), batch["p3-sin-movimientos"])
}

func TestBatchStock_SinIDs(t *testing.T) {
	calc, _ := newCalculator(t, nil, nil)

	batch, err := calc.BatchStock(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestLastMovementDates(t *testing.T) {
	calc, _ := newCalculator(t,
		[]entity.Arrival{
			{ID: "a1", ProductID: "p1", Amount: 1, Date: day(1)},
			{ID: "a2", ProductID: "p1", Amount: 1, Date: day(5)},
		},
		[]entity.Expense{
			{ID: "e1", ProductID: "p1", Amount: 1, Date: day(3)},
		},
	)
	ctx := context.Background()

	dates, err := calc.LastMovementDates(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, dates.LastArrival)
	require.NotNil(t, dates.LastExpense)
	assert.Equal(t, day(5), *dates.LastArrival, "debe ser la entrada más reciente")
	assert.Equal(t, day(3), *dates.LastExpense)

	dates, err = calc.LastMovementDates(ctx, "sin-movimientos")
	require.NoError(t, err)
	assert.Nil(t, dates.LastArrival)
	assert.Nil(t, dates.LastExpense)
}
