package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/stock"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

// testEnv entorno de prueba: store en memoria con los casos de uso cableados
// igual que en cmd/api/main.go.
type testEnv struct {
	store     *memory.Store
	arrivalUC *inventory.ArrivalUseCase
	expenseUC *inventory.ExpenseUseCase
	calc      *stock.Calculator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	return &testEnv{
		store:     store,
		arrivalUC: inventory.NewArrivalUseCase(store.TxRunner(), store.Products(), store.Arrivals()),
		expenseUC: inventory.NewExpenseUseCase(store.TxRunner(), store.Expenses()),
		calc:      stock.NewCalculator(store.Arrivals(), store.Expenses()),
	}
}

// seedProduct inserta un producto directamente en el store.
func (env *testEnv) seedProduct(t *testing.T, id, title string) {
	t.Helper()
	err := env.store.Products().Create(context.Background(), &entity.Product{
		ID:        id,
		Title:     title,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
}

// mustStock devuelve el stock derivado actual del producto.
func (env *testEnv) mustStock(t *testing.T, productID string) int64 {
	t.Helper()
	current, err := env.calc.CurrentStock(context.Background(), productID)
	require.NoError(t, err)
	return current
}

func movementReq(productID string, amount int64, date time.Time) dto.CreateMovementRequest {
	return dto.CreateMovementRequest{ProductID: productID, Amount: amount, Date: date}
}

func updateReq(productID string, amount int64, date time.Time) dto.UpdateMovementRequest {
	return dto.UpdateMovementRequest{ProductID: productID, Amount: amount, Date: date}
}

func testDay(n int) time.Time {
	return time.Date(2026, 8, n, 12, 0, 0, 0, time.UTC)
}
