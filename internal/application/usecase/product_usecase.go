package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/domain/stock"
	"github.com/jhoicas/almacen-api/pkg/metrics"
)

// ProductUseCase casos de uso CRUD para productos del catálogo.
// El stock nunca se guarda en el producto: las respuestas lo derivan con el
// calculador (agregación en lote para listados, nunca una consulta por fila).
type ProductUseCase struct {
	txRunner inventory.TxRunner
	repo     repository.ProductRepository
	calc     *stock.Calculator
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner inventory.TxRunner,
	repo repository.ProductRepository,
	arrivalRepo repository.ArrivalRepository,
	expenseRepo repository.ExpenseRepository,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner: txRunner,
		repo:     repo,
		calc:     stock.NewCalculator(arrivalRepo, expenseRepo),
	}
}

// Create crea un producto con título único (sin distinguir mayúsculas ni
// espacios laterales). Colisión -> ErrDuplicateTitle.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !entity.ValidTitle(in.Title) {
		return nil, domain.ErrInvalidInput
	}
	norm := entity.NormalizeTitle(in.Title)
	exists, err := uc.repo.ExistsByTitle(ctx, norm, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateTitle
	}

	product := &entity.Product{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(in.Title),
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	metrics.RecordInventoryOperation("product", "create")
	return &dto.ProductResponse{
		ID:        product.ID,
		Title:     product.Title,
		Stock:     0,
		CreatedAt: product.CreatedAt,
	}, nil
}

// GetByID obtiene el detalle de un producto: stock derivado y fechas del
// último movimiento de cada tipo.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductDetailResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	current, err := uc.calc.CurrentStock(ctx, id)
	if err != nil {
		return nil, err
	}
	dates, err := uc.calc.LastMovementDates(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ProductDetailResponse{
		ProductResponse: dto.ProductResponse{
			ID:        product.ID,
			Title:     product.Title,
			Stock:     current,
			CreatedAt: product.CreatedAt,
		},
		LastArrival: dates.LastArrival,
		LastExpense: dates.LastExpense,
	}, nil
}

// Update renombra un producto. Unicidad del título excluyendo el propio ID.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if !entity.ValidTitle(in.Title) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	norm := entity.NormalizeTitle(in.Title)
	exists, err := uc.repo.ExistsByTitle(ctx, norm, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateTitle
	}

	product.Title = strings.TrimSpace(in.Title)
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	current, err := uc.calc.CurrentStock(ctx, id)
	if err != nil {
		return nil, err
	}
	metrics.RecordInventoryOperation("product", "update")
	return &dto.ProductResponse{
		ID:        product.ID,
		Title:     product.Title,
		Stock:     current,
		CreatedAt: product.CreatedAt,
	}, nil
}

// List lista productos con su stock derivado en lote (dos consultas
// agregadas para toda la página, nunca una por producto).
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	stocks, err := uc.calc.BatchStock(ctx, ids)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ProductResponse{
			ID:        p.ID,
			Title:     p.Title,
			Stock:     stocks[p.ID],
			CreatedAt: p.CreatedAt,
		})
	}
	return &dto.ProductListResponse{
		Items: items,
		Total: total,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto sin historial de movimientos.
// Cualquier entrada o salida que lo referencie bloquea la eliminación.
// El chequeo de dependientes y el DELETE corren en una transacción con la
// fila del producto bloqueada, serializados contra las mutaciones con guard.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		arrivalRepo repository.ArrivalRepository,
		expenseRepo repository.ExpenseRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		hasArrivals, err := arrivalRepo.ExistsByProduct(ctx, id)
		if err != nil {
			return err
		}
		hasExpenses, err := expenseRepo.ExistsByProduct(ctx, id)
		if err != nil {
			return err
		}
		if hasArrivals || hasExpenses {
			return domain.ErrHasDependents
		}

		return productRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	metrics.RecordInventoryOperation("product", "delete")
	return nil
}
