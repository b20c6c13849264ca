package order

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"go-storefront/internal/domain"
)

type orderRow struct {
	ID        string          `db:"id"`
	Payment   string          `db:"payment"`
	Email     string          `db:"email"`
	Phone     string          `db:"phone"`
	Address   string          `db:"address"`
	Total     decimal.Decimal `db:"total"`
	CreatedAt time.Time       `db:"created_at"`
}

type itemRow struct {
	OrderID  string `db:"order_id"`
	Position int    `db:"position"`
	domain.Product
}

type sqlRepository struct {
	db *sqlx.DB
}

// NewSQLRepository creates an order repository backed by the orders,
// order_items and outbox tables.
func NewSQLRepository(db *sqlx.DB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) Create(ctx context.Context, order *domain.Order, outbox ...*OutboxMessage) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT EXISTS (SELECT 1 FROM orders WHERE id = ?)`), order.ID); err != nil {
		return errors.Wrap(err, "check order")
	}
	if exists {
		return ErrOrderAlreadyExists
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO orders (id, payment, email, phone, address, total, created_at)
		VALUES (:id, :payment, :email, :phone, :address, :total, :created_at)`,
		orderRow{
			ID:        order.ID,
			Payment:   order.Customer.Payment,
			Email:     order.Customer.Email,
			Phone:     order.Customer.Phone,
			Address:   order.Customer.Address,
			Total:     order.Total,
			CreatedAt: order.CreatedAt,
		},
	)
	if err != nil {
		return errors.Wrapf(err, "insert order %s", order.ID)
	}

	for i, product := range order.Products {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO order_items (order_id, position, product_id, title, category, description, image, price)
			VALUES (:order_id, :position, :id, :title, :category, :description, :image, :price)`,
			itemRow{OrderID: order.ID, Position: i, Product: product},
		)
		if err != nil {
			return errors.Wrapf(err, "insert item %s of order %s", product.ID, order.ID)
		}
	}

	for _, msg := range outbox {
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = time.Now().UTC()
		}

		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO outbox (id, topic, message, created_at)
			VALUES (:id, :topic, :message, :created_at)`,
			msg,
		)
		if err != nil {
			return errors.Wrapf(err, "insert outbox message %s", msg.ID)
		}
	}

	return errors.WithStack(tx.Commit())
}

func (r *sqlRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	var row orderRow

	query := r.db.Rebind(`SELECT id, payment, email, phone, address, total, created_at FROM orders WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		return nil, errors.Wrapf(err, "get order %s", id)
	}

	orders, err := r.withItems(ctx, []orderRow{row})
	if err != nil {
		return nil, err
	}

	return orders[0], nil
}

func (r *sqlRepository) List(ctx context.Context) ([]*domain.Order, error) {
	var rows []orderRow

	query := `SELECT id, payment, email, phone, address, total, created_at FROM orders ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	return r.withItems(ctx, rows)
}

func (r *sqlRepository) withItems(ctx context.Context, rows []orderRow) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(rows))
	if len(rows) == 0 {
		return orders, nil
	}

	byID := make(map[string]*domain.Order, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		order := &domain.Order{
			ID: row.ID,
			Customer: domain.CustomerData{
				Payment: row.Payment,
				Email:   row.Email,
				Phone:   row.Phone,
				Address: row.Address,
			},
			Products:  []domain.Product{},
			Total:     row.Total,
			CreatedAt: row.CreatedAt,
		}
		orders = append(orders, order)
		byID[row.ID] = order
		ids = append(ids, row.ID)
	}

	query, args, err := sqlx.In(`
		SELECT order_id, position, product_id AS id, title, category, description, image, price
		FROM order_items
		WHERE order_id IN (?)
		ORDER BY order_id, position`, ids)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var items []itemRow
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "list order items")
	}

	for _, item := range items {
		order := byID[item.OrderID]
		order.Products = append(order.Products, item.Product)
	}

	return orders, nil
}

func (r *sqlRepository) GetPendingOutboxMessages(ctx context.Context, limit int) ([]*OutboxMessage, error) {
	messages := []*OutboxMessage{}
	if limit <= 0 {
		limit = defaultBatchSize
	}

	query := r.db.Rebind(`
		SELECT id, topic, message, created_at, processed_at
		FROM outbox
		WHERE processed_at IS NULL
		ORDER BY created_at, id
		LIMIT ?`)
	if err := r.db.SelectContext(ctx, &messages, query, limit); err != nil {
		return nil, errors.Wrap(err, "list pending outbox messages")
	}

	return messages, nil
}

func (r *sqlRepository) MarkOutboxMessageAsProcessed(ctx context.Context, id string) error {
	query := r.db.Rebind(`UPDATE outbox SET processed_at = ? WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return errors.Wrapf(err, "mark outbox message %s", id)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return ErrOutboxMessageNotFound
	}

	return nil
}
