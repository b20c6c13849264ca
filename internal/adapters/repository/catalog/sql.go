package catalog

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"go-storefront/internal/domain"
)

const productColumns = `id, title, category, description, image, price`

type sqlRepository struct {
	db *sqlx.DB
}

// NewSQLRepository creates a catalog backed by the products table.
func NewSQLRepository(db *sqlx.DB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product

	query := r.db.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ?`)
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		return nil, errors.Wrapf(err, "get product %s", id)
	}

	return &product, nil
}

func (r *sqlRepository) List(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}

	query := `SELECT ` + productColumns + ` FROM products ORDER BY position`
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, errors.Wrap(err, "list products")
	}

	return products, nil
}

func (r *sqlRepository) Create(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT EXISTS (SELECT 1 FROM products WHERE id = ?)`), product.ID); err != nil {
		return errors.Wrap(err, "check product")
	}
	if exists {
		return ErrProductAlreadyExists
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO products (id, position, title, category, description, image, price)
		VALUES (:id, (SELECT COALESCE(MAX(position), 0) + 1 FROM products), :title, :category, :description, :image, :price)`,
		product,
	)
	if err != nil {
		return errors.Wrapf(err, "insert product %s", product.ID)
	}

	return errors.WithStack(tx.Commit())
}

func (r *sqlRepository) Update(ctx context.Context, product *domain.Product) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE products
		SET title = :title, category = :category, description = :description, image = :image, price = :price
		WHERE id = :id`,
		product,
	)
	if err != nil {
		return errors.Wrapf(err, "update product %s", product.ID)
	}

	return requireAffected(res)
}

func (r *sqlRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return errors.Wrapf(err, "delete product %s", id)
	}

	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return ErrProductNotFound
	}

	return nil
}
