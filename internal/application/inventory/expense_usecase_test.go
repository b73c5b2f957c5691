package inventory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// Secuencia completa entrada/salida: el stock derivado se mueve con cada
// mutación y la salida que lo dejaría negativo se rechaza con el stock
// disponible como contexto.
func TestExpenseCreate_GuardDeStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "widget", "Widget")

	_, err := env.arrivalUC.Create(ctx, movementReq("widget", 10, testDay(1)))
	require.NoError(t, err)
	assert.Equal(t, int64(10), env.mustStock(t, "widget"))

	_, err = env.expenseUC.Create(ctx, movementReq("widget", 4, testDay(2)))
	require.NoError(t, err)
	assert.Equal(t, int64(6), env.mustStock(t, "widget"))

	_, err = env.expenseUC.Create(ctx, movementReq("widget", 7, testDay(3)))
	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr, "la salida que excede el stock debe rechazarse")
	assert.Equal(t, int64(6), insErr.Current, "el error debe llevar el stock disponible")
	assert.Equal(t, int64(7), insErr.Requested)
	assert.Equal(t, int64(6), env.mustStock(t, "widget"), "el rechazo no debe mutar nada")
}

// Frontera del guard: consumir exactamente el stock disponible es válido y
// deja el stock en cero; una unidad más se rechaza.
func TestExpenseCreate_FronteraExacta(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "p1", "Tornillo")

	_, err := env.arrivalUC.Create(ctx, movementReq("p1", 5, testDay(1)))
	require.NoError(t, err)

	_, err = env.expenseUC.Create(ctx, movementReq("p1", 5, testDay(2)))
	require.NoError(t, err, "amount == stock debe aceptarse")
	assert.Equal(t, int64(0), env.mustStock(t, "p1"))

	env.seedProduct(t, "p2", "Tuerca")
	_, err = env.arrivalUC.Create(ctx, movementReq("p2", 5, testDay(1)))
	require.NoError(t, err)
	_, err = env.expenseUC.Create(ctx, movementReq("p2", 6, testDay(2)))
	var insErr *domain.InsufficientStockError
	assert.ErrorAs(t, err, &insErr, "amount == stock+1 debe rechazarse")
}

func TestExpenseCreate_Validacion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "p1", "Widget")

	_, err := env.expenseUC.Create(ctx, movementReq("p1", 0, testDay(1)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = env.expenseUC.Create(ctx, movementReq("p1", -3, testDay(1)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa")

	_, err = env.expenseUC.Create(ctx, movementReq("desconocido", 1, testDay(1)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "producto desconocido")
}

// Edición con el registro original aún contado: el stock hipotético es
// current + cantidadOriginal - cantidadNueva.
func TestExpenseUpdate_DevuelveLaCantidadOriginalAntesDeRestar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "p1", "Widget")

	_, err := env.arrivalUC.Create(ctx, movementReq("p1", 15, testDay(1)))
	require.NoError(t, err)
	exp, err := env.expenseUC.Create(ctx, movementReq("p1", 5, testDay(2)))
	require.NoError(t, err)
	require.Equal(t, int64(10), env.mustStock(t, "p1"))

	// 10 + 5 - 8 = 7 >= 0: válido
	out, err := env.expenseUC.Update(ctx, exp.ID, updateReq("p1", 8, testDay(2)))
	require.NoError(t, err)
	assert.Equal(t, int64(8), out.Amount)
	assert.Equal(t, int64(7), env.mustStock(t, "p1"))

	// 7 + 8 - 16 = -1: rechazado sin mutar
	_, err = env.expenseUC.Update(ctx, exp.ID, updateReq("p1", 16, testDay(2)))
	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, int64(7), env.mustStock(t, "p1"), "el rechazo no debe cambiar el stock")
}

// Reasignar una salida a otro producto: el chequeo corre contra el producto
// destino (el registro original no cuenta allí).
func TestExpenseUpdate_CambioDeProducto(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "origen", "Origen")
	env.seedProduct(t, "destino", "Destino")

	_, err := env.arrivalUC.Create(ctx, movementReq("origen", 10, testDay(1)))
	require.NoError(t, err)
	_, err = env.arrivalUC.Create(ctx, movementReq("destino", 3, testDay(1)))
	require.NoError(t, err)
	exp, err := env.expenseUC.Create(ctx, movementReq("origen", 4, testDay(2)))
	require.NoError(t, err)

	// destino tiene 3: mover la salida de 4 allí excede su stock
	_, err = env.expenseUC.Update(ctx, exp.ID, updateReq("destino", 4, testDay(2)))
	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)

	// con 3 sí cabe; el origen recupera sus 4
	_, err = env.expenseUC.Update(ctx, exp.ID, updateReq("destino", 3, testDay(2)))
	require.NoError(t, err)
	assert.Equal(t, int64(10), env.mustStock(t, "origen"))
	assert.Equal(t, int64(0), env.mustStock(t, "destino"))
}

// Con stock exacto para una sola salida, creaciones concurrentes no pueden
// pasar el guard más de una vez: el runner serializa la secuencia
// leer-decidir-escribir completa.
func TestExpenseCreate_GuardConcurrente(t *testing.T) {
	const intentos = 8

	for i := 0; i < 100; i++ {
		env := newTestEnv(t)
		ctx := context.Background()
		env.seedProduct(t, "p1", "Widget")
		_, err := env.arrivalUC.Create(ctx, movementReq("p1", 10, testDay(1)))
		require.NoError(t, err)

		var wg sync.WaitGroup
		var ok atomic.Int64
		for j := 0; j < intentos; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := env.expenseUC.Create(ctx, movementReq("p1", 10, testDay(2))); err == nil {
					ok.Add(1)
				}
			}()
		}
		wg.Wait()

		require.Equal(t, int64(1), ok.Load(), "solo una salida debe pasar el guard")
		require.Equal(t, int64(0), env.mustStock(t, "p1"), "el stock nunca debe quedar negativo")
	}
}

func TestExpenseUpdate_NoExiste(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "p1", "Widget")

	_, err := env.expenseUC.Update(context.Background(), "no-existe", updateReq("p1", 1, testDay(1)))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Eliminar una salida siempre está permitido y es idempotente: el segundo
// delete del mismo ID es un no-op exitoso que no toca el stock.
func TestExpenseDelete_Idempotente(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "p1", "Widget")

	_, err := env.arrivalUC.Create(ctx, movementReq("p1", 10, testDay(1)))
	require.NoError(t, err)
	exp, err := env.expenseUC.Create(ctx, movementReq("p1", 4, testDay(2)))
	require.NoError(t, err)
	require.Equal(t, int64(6), env.mustStock(t, "p1"))

	require.NoError(t, env.expenseUC.Delete(ctx, exp.ID))
	assert.Equal(t, int64(10), env.mustStock(t, "p1"), "quitar la salida devuelve el stock")

	require.NoError(t, env.expenseUC.Delete(ctx, exp.ID), "segundo delete: no-op exitoso")
	assert.Equal(t, int64(10), env.mustStock(t, "p1"))

	require.NoError(t, env.expenseUC.Delete(ctx, "jamas-existio"))
}
