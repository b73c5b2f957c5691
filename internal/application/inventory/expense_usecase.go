package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/domain/stock"
	"github.com/jhoicas/almacen-api/pkg/metrics"
)

// ExpenseUseCase mutaciones de salidas de stock.
//
// Crear y editar pasan por el guard de no negatividad dentro de una
// transacción con la fila del producto bloqueada (SELECT FOR UPDATE).
// Eliminar es incondicional: quitar una salida solo aumenta el stock.
type ExpenseUseCase struct {
	txRunner    TxRunner
	expenseRepo repository.ExpenseRepository
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(txRunner TxRunner, expenseRepo repository.ExpenseRepository) *ExpenseUseCase {
	return &ExpenseUseCase{txRunner: txRunner, expenseRepo: expenseRepo}
}

// Create registra una salida de stock si hay stock suficiente.
// Si currentStock < amount falla con *domain.InsufficientStockError sin mutar nada.
func (uc *ExpenseUseCase) Create(ctx context.Context, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if err := validateMovement(in.Amount, in.Date); err != nil {
		return nil, err
	}

	var created *entity.Expense
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		arrivalRepo repository.ArrivalRepository,
		expenseRepo repository.ExpenseRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrInvalidInput
		}

		calc := stock.NewCalculator(arrivalRepo, expenseRepo)
		current, err := calc.CurrentStock(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if current < in.Amount {
			return &domain.InsufficientStockError{
				ProductID: in.ProductID,
				Current:   current,
				Requested: in.Amount,
			}
		}

		created = &entity.Expense{
			ID:        uuid.New().String(),
			ProductID: in.ProductID,
			Amount:    in.Amount,
			Date:      in.Date,
			CreatedAt: time.Now(),
		}
		return expenseRepo.Create(ctx, created)
	})
	if err != nil {
		recordIfInsufficient(err)
		return nil, err
	}
	metrics.RecordInventoryOperation("expense", "create")
	return toMovementResponse(created.ID, created.ProductID, created.Amount, created.Date, created.CreatedAt), nil
}

// Update edita una salida recalculando el stock hipotético.
//
// Mismo producto: el registro original aún cuenta en currentStock, así que el
// stock hipotético es current + cantidadOriginal - cantidadNueva.
// Producto distinto: el registro no cuenta en el destino, el chequeo es
// currentStock(nuevoProducto) - cantidadNueva; el producto origen solo
// recupera stock y no necesita guard.
func (uc *ExpenseUseCase) Update(ctx context.Context, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	if err := validateMovement(in.Amount, in.Date); err != nil {
		return nil, err
	}

	var updated *entity.Expense
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		arrivalRepo repository.ArrivalRepository,
		expenseRepo repository.ExpenseRepository,
	) error {
		expense, err := expenseRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if expense == nil {
			return domain.ErrNotFound
		}

		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrInvalidInput
		}

		calc := stock.NewCalculator(arrivalRepo, expenseRepo)
		current, err := calc.CurrentStock(ctx, in.ProductID)
		if err != nil {
			return err
		}

		wouldBe := current - in.Amount
		if in.ProductID == expense.ProductID {
			// La cantidad original sigue contada en current: se devuelve antes de restar la nueva
			wouldBe = current + expense.Amount - in.Amount
		}
		if wouldBe < 0 {
			return &domain.InsufficientStockError{
				ProductID: in.ProductID,
				Current:   current,
				Requested: in.Amount,
			}
		}

		expense.ProductID = in.ProductID
		expense.Amount = in.Amount
		expense.Date = in.Date
		if err := expenseRepo.Update(ctx, expense); err != nil {
			return err
		}
		updated = expense
		return nil
	})
	if err != nil {
		recordIfInsufficient(err)
		return nil, err
	}
	metrics.RecordInventoryOperation("expense", "update")
	return toMovementResponse(updated.ID, updated.ProductID, updated.Amount, updated.Date, updated.CreatedAt), nil
}

// Delete elimina una salida sin condiciones: el stock derivado solo puede
// subir. Idempotente: un ID inexistente es un no-op exitoso.
func (uc *ExpenseUseCase) Delete(ctx context.Context, id string) error {
	expense, err := uc.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return nil
	}
	if err := uc.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.RecordInventoryOperation("expense", "delete")
	return nil
}

// GetByID obtiene una salida por ID (nil si no existe).
func (uc *ExpenseUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	expense, err := uc.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, nil
	}
	return toMovementResponse(expense.ID, expense.ProductID, expense.Amount, expense.Date, expense.CreatedAt), nil
}

// List lista salidas; con productID filtra por producto.
func (uc *ExpenseUseCase) List(ctx context.Context, productID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	var (
		list []*entity.Expense
		err  error
	)
	if productID != "" {
		list, err = uc.expenseRepo.ListByProduct(ctx, productID, page.Limit, page.Offset)
	} else {
		list, err = uc.expenseRepo.List(ctx, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toMovementResponse(e.ID, e.ProductID, e.Amount, e.Date, e.CreatedAt))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func recordIfInsufficient(err error) {
	var insErr *domain.InsufficientStockError
	if errors.As(err, &insErr) {
		metrics.RecordStockGuardRejection("insufficient_stock")
	}
}
