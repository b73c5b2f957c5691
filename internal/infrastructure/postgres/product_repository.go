package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. title_norm guarda la forma canónica
// (entity.NormalizeTitle, case folding Unicode) con índice único: el chequeo
// de duplicados en SQL y en Go comparan exactamente lo mismo.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, title, title_norm, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Title, entity.NormalizeTitle(product.Title), product.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTitle
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID (nil si no existe).
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getByID(ctx, id, "")
}

// GetForUpdate bloquea la fila del producto dentro de la transacción activa.
// Serializa los guards de stock de ese producto entre requests concurrentes.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getByID(ctx, id, " FOR UPDATE")
}

func (r *ProductRepo) getByID(ctx context.Context, id, suffix string) (*entity.Product, error) {
	query := `SELECT id, title, created_at FROM products WHERE id = $1` + suffix
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.Title, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// List lista productos por fecha de creación descendente con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT id, title, created_at
		FROM products ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza el título del producto y su forma canónica.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET title = $2, title_norm = $3 WHERE id = $1`,
		product.ID, product.Title, entity.NormalizeTitle(product.Title),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTitle
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto por ID. Las FK de arrivals/expenses hacia
// products convierten un movimiento insertado entre el chequeo de
// dependientes y el DELETE en ErrHasDependents en vez de dejarlo huérfano.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrHasDependents
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// ExistsByTitle chequea si existe un producto con el título normalizado dado.
// Compara contra title_norm, calculado en Go al escribir: lower() de SQL no
// equivale al case folding Unicode (ej. "Straße" se pliega a "strasse").
func (r *ProductRepo) ExistsByTitle(ctx context.Context, normTitle, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM products
			WHERE title_norm = $1 AND ($2 = '' OR id <> $2)
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, normTitle, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists product by title: %w", err)
	}
	return exists, nil
}

// Count devuelve el total de productos.
func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
