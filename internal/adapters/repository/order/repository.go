package order

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go-storefront/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")
var ErrOrderAlreadyExists = errors.New("order already exists")
var ErrOutboxMessageNotFound = errors.New("outbox message not found")

// OutboxMessage is a message that has to reach the queue once the order
// that produced it is stored.
type OutboxMessage struct {
	ID          string     `db:"id"`
	Topic       string     `db:"topic"`
	Message     []byte     `db:"message"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}

type Repository interface {
	List(ctx context.Context) ([]*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	// Create stores the order together with its outbox messages, or nothing.
	Create(ctx context.Context, order *domain.Order, outbox ...*OutboxMessage) error
	GetPendingOutboxMessages(ctx context.Context, limit int) ([]*OutboxMessage, error)
	MarkOutboxMessageAsProcessed(ctx context.Context, id string) error
}

type repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	outbox map[string]*OutboxMessage
}

// NewRepository creates a new in-memory order repository.
func NewRepository() Repository {
	return &repository{
		orders: make(map[string]*domain.Order),
		outbox: make(map[string]*OutboxMessage),
	}
}

func (r *repository) Create(ctx context.Context, order *domain.Order, outbox ...*OutboxMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return ErrOrderAlreadyExists
	}

	r.orders[order.ID] = order
	for _, msg := range outbox {
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = time.Now().UTC()
		}
		r.outbox[msg.ID] = msg
	}

	return nil
}

func (r *repository) Get(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, exists := r.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}

	return order, nil
}

// List returns orders oldest first.
func (r *repository) List(ctx context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, order)
	}

	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})

	return orders, nil
}

func (r *repository) GetPendingOutboxMessages(ctx context.Context, limit int) ([]*OutboxMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pending := make([]*OutboxMessage, 0)
	for _, msg := range r.outbox {
		if msg.ProcessedAt == nil {
			m := *msg
			pending = append(pending, &m)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].ID < pending[j].ID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	return pending, nil
}

func (r *repository) MarkOutboxMessageAsProcessed(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, exists := r.outbox[id]
	if !exists {
		return ErrOutboxMessageNotFound
	}

	now := time.Now().UTC()
	msg.ProcessedAt = &now

	return nil
}
