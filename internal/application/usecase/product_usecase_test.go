package usecase_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

func newProductEnv(t *testing.T) (*usecase.ProductUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(store.TxRunner(), store.Products(), store.Arrivals(), store.Expenses())
	return uc, store
}

func seedArrival(t *testing.T, store *memory.Store, productID string, amount int64) {
	t.Helper()
	err := store.Arrivals().Create(context.Background(), &entity.Arrival{
		ID:        "arr-" + productID,
		ProductID: productID,
		Amount:    amount,
		Date:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func TestProductCreate(t *testing.T) {
	uc, _ := newProductEnv(t)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateProductRequest{Title: "  Tornillo M8  "})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "Tornillo M8", out.Title, "se guarda sin espacios laterales")
	assert.Equal(t, int64(0), out.Stock, "producto nuevo sin movimientos")
}

// La unicidad del título ignora mayúsculas y espacios laterales.
func TestProductCreate_TituloDuplicado(t *testing.T) {
	uc, _ := newProductEnv(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateProductRequest{Title: "Bolt"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Title: "bolt "})
	assert.ErrorIs(t, err, domain.ErrDuplicateTitle)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Title: "  BOLT"})
	assert.ErrorIs(t, err, domain.ErrDuplicateTitle)
}

// El case folding Unicode va más allá de bajar mayúsculas: "ß" se pliega a
// "ss", así que "Straße" y "STRASSE" son el mismo título.
func TestProductCreate_TituloDuplicadoConFolding(t *testing.T) {
	uc, _ := newProductEnv(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateProductRequest{Title: "Straße"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Title: "STRASSE"})
	assert.ErrorIs(t, err, domain.ErrDuplicateTitle)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Title: " straße "})
	assert.ErrorIs(t, err, domain.ErrDuplicateTitle)
}

func TestProductCreate_Validacion(t *testing.T) {
	uc, _ := newProductEnv(t)
	ctx := context.Background()

	casos := []struct {
		nombre string
		titulo string
	}{
		{"vacio", ""},
		{"solo espacios", "   "},
		{"demasiado largo", strings.Repeat("á", 101)},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			_, err := uc.Create(ctx, dto.CreateProductRequest{Title: tc.titulo})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	// 100 runas exactas es válido
	_, err := uc.Create(ctx, dto.CreateProductRequest{Title: strings.Repeat("á", 100)})
	assert.NoError(t, err)
}

func TestProductUpdate(t *testing.T) {
	uc, _ := newProductEnv(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateProductRequest{Title: "Tuerca"})
	require.NoError(t, err)
	otro, err := uc.Create(ctx, dto.CreateProductRequest{Title: "Arandela"})
	require.NoError(t, err)

	// Renombrar al mismo título (distinta capitalización) no colisiona consigo mismo
	out, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{Title: "TUERCA"})
	require.NoError(t, err)
	assert.Equal(t, "TUERCA", out.Title)

	// Colisión con otro producto
	_, err = uc.Update(ctx, otro.ID, dto.UpdateProductRequest{Title: "tuerca"})
	assert.ErrorIs(t, err, domain.ErrDuplicateTitle)

	_, err = uc.Update(ctx, "no-existe", dto.UpdateProductRequest{Title: "Nuevo"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Un producto con movimientos no se puede eliminar: hay que quitar antes
// las entradas y salidas asociadas.
func TestProductDelete_ConMovimientos(t *testing.T) {
	uc, store := newProductEnv(t)
	ctx := context.Background()

	conHistorial, err := uc.Create(ctx, dto.CreateProductRequest{Title: "Con historial"})
	require.NoError(t, err)
	sinHistorial, err := uc.Create(ctx, dto.CreateProductRequest{Title: "Sin historial"})
	require.NoError(t, err)

	seedArrival(t, store, conHistorial.ID, 3)

	err = uc.Delete(ctx, conHistorial.ID)
	assert.ErrorIs(t, err, domain.ErrHasDependents)

	detalle, err := uc.GetByID(ctx, conHistorial.ID)
	require.NoError(t, err)
	require.NotNil(t, detalle, "el rechazo no debe eliminar el producto")

	require.NoError(t, uc.Delete(ctx, sinHistorial.ID))
	detalle, err = uc.GetByID(ctx, sinHistorial.ID)
	require.NoError(t, err)
	assert.Nil(t, detalle)

	err = uc.Delete(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// La eliminación de un producto corre dentro del runner transaccional: si
// compite con la eliminación (con guard) de su última entrada, el producto
// jamás se elimina mientras la entrada siga existiendo.
func TestProductDelete_SerializadoConMovimientos(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		uc, store := newProductEnv(t)
		arrivalUC := inventory.NewArrivalUseCase(store.TxRunner(), store.Products(), store.Arrivals())

		created, err := uc.Create(ctx, dto.CreateProductRequest{Title: "Martillo"})
		require.NoError(t, err)
		arr, err := arrivalUC.Create(ctx, dto.CreateMovementRequest{
			ProductID: created.ID,
			Amount:    3,
			Date:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		var wg sync.WaitGroup
		var delProductErr, delArrivalErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			delProductErr = uc.Delete(ctx, created.ID)
		}()
		go func() {
			defer wg.Done()
			delArrivalErr = arrivalUC.Delete(ctx, arr.ID)
		}()
		wg.Wait()

		require.NoError(t, delArrivalErr)
		if delProductErr == nil {
			remaining, err := store.Arrivals().GetByID(ctx, arr.ID)
			require.NoError(t, err)
			require.Nil(t, remaining, "el producto solo puede eliminarse con la entrada ya eliminada")
		} else {
			require.ErrorIs(t, delProductErr, domain.ErrHasDependents)
		}
	}
}

func TestProductGetByID_Detalle(t *testing.T) {
	uc, store := newProductEnv(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateProductRequest{Title: "Taladro"})
	require.NoError(t, err)
	seedArrival(t, store, created.ID, 7)

	detalle, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, detalle)
	assert.Equal(t, int64(7), detalle.Stock)
	require.NotNil(t, detalle.LastArrival)
	assert.Nil(t, detalle.LastExpense, "sin salidas registradas")
}

func TestProductList_StockEnLote(t *testing.T) {
	uc, store := newProductEnv(t)
	ctx := context.Background()

	a, err := uc.Create(ctx, dto.CreateProductRequest{Title: "A"})
	require.NoError(t, err)
	b, err := uc.Create(ctx, dto.CreateProductRequest{Title: "B"})
	require.NoError(t, err)
	seedArrival(t, store, a.ID, 12)

	list, err := uc.List(ctx, dto.PageRequest{Limit: 50, Offset: 0})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, int64(2), list.Total)

	porID := map[string]int64{}
	for _, item := range list.Items {
		porID[item.ID] = item.Stock
	}
	assert.Equal(t, int64(12), porID[a.ID])
	assert.Equal(t, int64(0), porID[b.ID], "producto sin movimientos aparece con stock cero")

	pagina, err := uc.List(ctx, dto.PageRequest{Limit: 1, Offset: 0})
	require.NoError(t, err)
	require.Len(t, pagina.Items, 1)
	assert.Equal(t, int64(2), pagina.Total, "el total cubre el catálogo, no la página")
}
