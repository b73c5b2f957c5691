package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
)

func TestArrivalCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "p1", "Widget")

	out, err := env.arrivalUC.Create(ctx, movementReq("p1", 10, testDay(1)))
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID, "debe asignar identificador")
	assert.Equal(t, int64(10), out.Amount)
	assert.Equal(t, int64(10), env.mustStock(t, "p1"))
}

func TestArrivalCreate_Validacion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "p1", "Widget")

	_, err := env.arrivalUC.Create(ctx, movementReq("p1", 0, testDay(1)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = env.arrivalUC.Create(ctx, movementReq("desconocido", 5, testDay(1)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "producto desconocido")
}

// La edición de entradas no pasa por el guard: puede dejar el stock derivado
// en negativo sin rechazo. Fijado aquí para que cualquier cambio sea
// deliberado.
func TestArrivalUpdate_SinGuardPuedeReducirStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "p1", "Widget")

	arr, err := env.arrivalUC.Create(ctx, movementReq("p1", 10, testDay(1)))
	require.NoError(t, err)
	_, err = env.expenseUC.Create(ctx, movementReq("p1", 8, testDay(2)))
	require.NoError(t, err)
	require.Equal(t, int64(2), env.mustStock(t, "p1"))

	out, err := env.arrivalUC.Update(ctx, arr.ID, updateReq("p1", 1, testDay(1)))
	require.NoError(t, err, "la edición de entradas no está protegida")
	assert.Equal(t, int64(1), out.Amount)
	assert.Equal(t, int64(-7), env.mustStock(t, "p1"), "el stock queda negativo silenciosamente")
}

func TestArrivalUpdate_NoExiste(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "p1", "Widget")

	_, err := env.arrivalUC.Update(context.Background(), "no-existe", updateReq("p1", 1, testDay(1)))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Escenario de eliminación protegida: con una sola entrada de 10 ya
// consumida por una salida de 10, eliminar la entrada dejaría el stock
// en -10 y se rechaza.
func TestArrivalDelete_GuardDeStockNegativo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "x", "Producto X")

	arr, err := env.arrivalUC.Create(ctx, movementReq("x", 10, testDay(1)))
	require.NoError(t, err)
	exp, err := env.expenseUC.Create(ctx, movementReq("x", 10, testDay(2)))
	require.NoError(t, err)
	require.Equal(t, int64(0), env.mustStock(t, "x"))

	err = env.arrivalUC.Delete(ctx, arr.ID)
	var negErr *domain.NegativeStockError
	require.ErrorAs(t, err, &negErr, "eliminar la entrada dejaría el stock en -10")
	assert.Equal(t, int64(-10), negErr.Resulting)
	assert.Equal(t, int64(0), env.mustStock(t, "x"), "el rechazo no debe mutar nada")

	// Tras quitar la salida dependiente la eliminación procede
	require.NoError(t, env.expenseUC.Delete(ctx, exp.ID))
	require.NoError(t, env.arrivalUC.Delete(ctx, arr.ID))
	assert.Equal(t, int64(0), env.mustStock(t, "x"))
}

func TestArrivalDelete_ConStockSobrante(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProduct(t, "p1", "Widget")

	arr, err := env.arrivalUC.Create(ctx, movementReq("p1", 4, testDay(1)))
	require.NoError(t, err)
	_, err = env.arrivalUC.Create(ctx, movementReq("p1", 6, testDay(2)))
	require.NoError(t, err)
	_, err = env.expenseUC.Create(ctx, movementReq("p1", 5, testDay(3)))
	require.NoError(t, err)

	// 10 - 5 = 5 de stock; quitar la entrada de 4 deja 1 >= 0
	require.NoError(t, env.arrivalUC.Delete(ctx, arr.ID))
	assert.Equal(t, int64(1), env.mustStock(t, "p1"))
}

func TestArrivalDelete_NoExiste(t *testing.T) {
	env := newTestEnv(t)

	err := env.arrivalUC.Delete(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
