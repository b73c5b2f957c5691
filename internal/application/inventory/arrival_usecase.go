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

// ArrivalUseCase mutaciones de entradas de stock.
//
// Las entradas solo aumentan el stock, por lo que crear y editar no pasan por
// el guard de no negatividad; la edición puede reducir stock sin chequeo.
// La eliminación sí está protegida: quitar una entrada puede dejar el stock
// derivado en negativo.
type ArrivalUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	arrivalRepo repository.ArrivalRepository
}

// NewArrivalUseCase construye el caso de uso.
func NewArrivalUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	arrivalRepo repository.ArrivalRepository,
) *ArrivalUseCase {
	return &ArrivalUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		arrivalRepo: arrivalRepo,
	}
}

// validateMovement chequea cantidad positiva y fecha presente.
func validateMovement(amount int64, date time.Time) error {
	if amount <= 0 || date.IsZero() {
		return domain.ErrInvalidInput
	}
	return nil
}

// Create registra una entrada de stock. No requiere chequeo de stock.
// Producto desconocido o cantidad no positiva -> ErrInvalidInput.
func (uc *ArrivalUseCase) Create(ctx context.Context, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if err := validateMovement(in.Amount, in.Date); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrInvalidInput
	}

	arrival := &entity.Arrival{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Amount:    in.Amount,
		Date:      in.Date,
		CreatedAt: time.Now(),
	}
	if err := uc.arrivalRepo.Create(ctx, arrival); err != nil {
		return nil, err
	}
	metrics.RecordInventoryOperation("arrival", "create")
	return toMovementResponse(arrival.ID, arrival.ProductID, arrival.Amount, arrival.Date, arrival.CreatedAt), nil
}

// Update edita una entrada existente sin guard de stock: puede reducir el
// stock derivado silenciosamente. Valida cantidad, fecha y producto destino.
func (uc *ArrivalUseCase) Update(ctx context.Context, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	if err := validateMovement(in.Amount, in.Date); err != nil {
		return nil, err
	}
	arrival, err := uc.arrivalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if arrival == nil {
		return nil, domain.ErrNotFound
	}
	if in.ProductID != arrival.ProductID {
		product, err := uc.productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrInvalidInput
		}
	}

	arrival.ProductID = in.ProductID
	arrival.Amount = in.Amount
	arrival.Date = in.Date
	if err := uc.arrivalRepo.Update(ctx, arrival); err != nil {
		return nil, err
	}
	metrics.RecordInventoryOperation("arrival", "update")
	return toMovementResponse(arrival.ID, arrival.ProductID, arrival.Amount, arrival.Date, arrival.CreatedAt), nil
}

// Delete elimina una entrada solo si el stock derivado no queda negativo.
// Ejecuta el guard dentro de una transacción con la fila del producto
// bloqueada, de modo que dos eliminaciones concurrentes no puedan pasar
// ambas el chequeo.
func (uc *ArrivalUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		arrivalRepo repository.ArrivalRepository,
		expenseRepo repository.ExpenseRepository,
	) error {
		arrival, err := arrivalRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if arrival == nil {
			return domain.ErrNotFound
		}
		if _, err := productRepo.GetForUpdate(ctx, arrival.ProductID); err != nil {
			return err
		}

		calc := stock.NewCalculator(arrivalRepo, expenseRepo)
		current, err := calc.CurrentStock(ctx, arrival.ProductID)
		if err != nil {
			return err
		}
		if current-arrival.Amount < 0 {
			return &domain.NegativeStockError{
				ProductID: arrival.ProductID,
				Resulting: current - arrival.Amount,
			}
		}
		return arrivalRepo.Delete(ctx, id)
	})
	if err != nil {
		var negErr *domain.NegativeStockError
		if errors.As(err, &negErr) {
			metrics.RecordStockGuardRejection("negative_stock")
		}
		return err
	}
	metrics.RecordInventoryOperation("arrival", "delete")
	return nil
}

// GetByID obtiene una entrada por ID (nil si no existe).
func (uc *ArrivalUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	arrival, err := uc.arrivalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if arrival == nil {
		return nil, nil
	}
	return toMovementResponse(arrival.ID, arrival.ProductID, arrival.Amount, arrival.Date, arrival.CreatedAt), nil
}

// List lista entradas; con productID filtra por producto.
func (uc *ArrivalUseCase) List(ctx context.Context, productID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	var (
		list []*entity.Arrival
		err  error
	)
	if productID != "" {
		list, err = uc.arrivalRepo.ListByProduct(ctx, productID, page.Limit, page.Offset)
	} else {
		list, err = uc.arrivalRepo.List(ctx, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toMovementResponse(a.ID, a.ProductID, a.Amount, a.Date, a.CreatedAt))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toMovementResponse(id, productID string, amount int64, date, createdAt time.Time) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:        id,
		ProductID: productID,
		Amount:    amount,
		Date:      date,
		CreatedAt: createdAt,
	}
}
