// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Se usa en las pruebas y en modo demo sin PostgreSQL; la semántica
// replica a los adaptadores de postgres (nil para no encontrado, sumas
// agrupadas, comparación de títulos normalizados).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Store contenedor de los tres tipos de registro con un mutex global.
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex // exclusión mutua de los callbacks de TxRunner
	products map[string]entity.Product
	arrivals map[string]entity.Arrival
	expenses map[string]entity.Expense
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]entity.Product),
		arrivals: make(map[string]entity.Arrival),
		expenses: make(map[string]entity.Expense),
	}
}

// Products devuelve la vista ProductRepository del store.
func (s *Store) Products() repository.ProductRepository { return &productView{s} }

// Arrivals devuelve la vista ArrivalRepository del store.
func (s *Store) Arrivals() repository.ArrivalRepository { return &arrivalView{s} }

// Expenses devuelve la vista ExpenseRepository del store.
func (s *Store) Expenses() repository.ExpenseRepository { return &expenseView{s} }

// TxRunner devuelve un runner que ejecuta cada callback en exclusión mutua
// (txMu, distinto del RWMutex de las vistas): la secuencia leer-decidir-escribir
// de los guards queda serializada, como con el bloqueo de fila en PostgreSQL
// pero a nivel de store completo.
func (s *Store) TxRunner() inventory.TxRunner { return &txRunner{s} }

type txRunner struct{ s *Store }

func (r *txRunner) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	arrivalRepo repository.ArrivalRepository,
	expenseRepo repository.ExpenseRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	return fn(r.s.Products(), r.s.Arrivals(), r.s.Expenses())
}

// ── Products ──────────────────────────────────────────────────────────────────

type productView struct{ s *Store }

var _ repository.ProductRepository = (*productView)(nil)

func (v *productView) Create(_ context.Context, p *entity.Product) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.products[p.ID] = *p
	return nil
}

func (v *productView) GetByID(_ context.Context, id string) (*entity.Product, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	if p, ok := v.s.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (v *productView) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return v.GetByID(ctx, id)
}

func (v *productView) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	all := make([]entity.Product, 0, len(v.s.products))
	for _, p := range v.s.products {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return pageOf(all, limit, offset), nil
}

func (v *productView) Update(_ context.Context, p *entity.Product) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.products[p.ID] = *p
	return nil
}

func (v *productView) Delete(_ context.Context, id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	delete(v.s.products, id)
	return nil
}

func (v *productView) ExistsByTitle(_ context.Context, normTitle, excludeID string) (bool, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for _, p := range v.s.products {
		if p.ID != excludeID && entity.NormalizeTitle(p.Title) == normTitle {
			return true, nil
		}
	}
	return false, nil
}

func (v *productView) Count(_ context.Context) (int64, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return int64(len(v.s.products)), nil
}

// ── Arrivals ──────────────────────────────────────────────────────────────────

type arrivalView struct{ s *Store }

var _ repository.ArrivalRepository = (*arrivalView)(nil)

func (v *arrivalView) Create(_ context.Context, a *entity.Arrival) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.arrivals[a.ID] = *a
	return nil
}

func (v *arrivalView) GetByID(_ context.Context, id string) (*entity.Arrival, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	if a, ok := v.s.arrivals[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (v *arrivalView) Update(_ context.Context, a *entity.Arrival) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.arrivals[a.ID] = *a
	return nil
}

func (v *arrivalView) Delete(_ context.Context, id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	delete(v.s.arrivals, id)
	return nil
}

func (v *arrivalView) List(_ context.Context, limit, offset int) ([]*entity.Arrival, error) {
	return v.list("", limit, offset), nil
}

func (v *arrivalView) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.Arrival, error) {
	return v.list(productID, limit, offset), nil
}

func (v *arrivalView) list(productID string, limit, offset int) []*entity.Arrival {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	all := make([]entity.Arrival, 0, len(v.s.arrivals))
	for _, a := range v.s.arrivals {
		if productID == "" || a.ProductID == productID {
			all = append(all, a)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return pageOf(all, limit, offset)
}

func (v *arrivalView) SumByProduct(_ context.Context, productID string) (int64, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var sum int64
	for _, a := range v.s.arrivals {
		if a.ProductID == productID {
			sum += a.Amount
		}
	}
	return sum, nil
}

func (v *arrivalView) SumByProducts(_ context.Context, productIDs []string) (map[string]int64, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	wanted := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	result := make(map[string]int64)
	for _, a := range v.s.arrivals {
		if wanted[a.ProductID] {
			result[a.ProductID] += a.Amount
		}
	}
	return result, nil
}

func (v *arrivalView) LastDateByProduct(_ context.Context, productID string) (*time.Time, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var last *time.Time
	for _, a := range v.s.arrivals {
		if a.ProductID == productID && (last == nil || a.Date.After(*last)) {
			d := a.Date
			last = &d
		}
	}
	return last, nil
}

func (v *arrivalView) ExistsByProduct(_ context.Context, productID string) (bool, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for _, a := range v.s.arrivals {
		if a.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

// ── Expenses ──────────────────────────────────────────────────────────────────

type expenseView struct{ s *Store }

var _ repository.ExpenseRepository = (*expenseView)(nil)

func (v *expenseView) Create(_ context.Context, e *entity.Expense) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.expenses[e.ID] = *e
	return nil
}

func (v *expenseView) GetByID(_ context.Context, id string) (*entity.Expense, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	if e, ok := v.s.expenses[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (v *expenseView) Update(_ context.Context, e *entity.Expense) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.expenses[e.ID] = *e
	return nil
}

func (v *expenseView) Delete(_ context.Context, id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	delete(v.s.expenses, id)
	return nil
}

func (v *expenseView) List(_ context.Context, limit, offset int) ([]*entity.Expense, error) {
	return v.list("", limit, offset), nil
}

func (v *expenseView) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.Expense, error) {
	return v.list(productID, limit, offset), nil
}

func (v *expenseView) list(productID string, limit, offset int) []*entity.Expense {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	all := make([]entity.Expense, 0, len(v.s.expenses))
	for _, e := range v.s.expenses {
		if productID == "" || e.ProductID == productID {
			all = append(all, e)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return pageOf(all, limit, offset)
}

func (v *expenseView) SumByProduct(_ context.Context, productID string) (int64, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var sum int64
	for _, e := range v.s.expenses {
		if e.ProductID == productID {
			sum += e.Amount
		}
	}
	return sum, nil
}

func (v *expenseView) SumByProducts(_ context.Context, productIDs []string) (map[string]int64, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	wanted := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	result := make(map[string]int64)
	for _, e := range v.s.expenses {
		if wanted[e.ProductID] {
			result[e.ProductID] += e.Amount
		}
	}
	return result, nil
}

func (v *expenseView) LastDateByProduct(_ context.Context, productID string) (*time.Time, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var last *time.Time
	for _, e := range v.s.expenses {
		if e.ProductID == productID && (last == nil || e.Date.After(*last)) {
			d := e.Date
			last = &d
		}
	}
	return last, nil
}

func (v *expenseView) ExistsByProduct(_ context.Context, productID string) (bool, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for _, e := range v.s.expenses {
		if e.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

// pageOf aplica limit/offset sobre un slice ya ordenado y devuelve punteros a copias.
func pageOf[T any](all []T, limit, offset int) []*T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	page := make([]*T, 0, end-offset)
	for i := offset; i < end; i++ {
		item := all[i]
		page = append(page, &item)
	}
	return page
}
