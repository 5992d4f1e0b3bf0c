package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/marksousa/testecomerc/internal/domain"
)

// OrderRepository is an in-memory OrderRepository for tests and DSN-less
// development runs. Semantics mirror the postgres implementation: soft
// deletes, newest-first listings, optimistic versions, and the notification
// enqueued atomically with the order.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	outbox *OutboxRepository
}

// NewOrderRepository returns an empty repository writing notifications to
// the given outbox.
func NewOrderRepository(outbox *OutboxRepository) *OrderRepository {
	return &OrderRepository{
		orders: make(map[string]domain.Order),
		outbox: outbox,
	}
}

// Create stores the order and enqueues its notification. Nothing is stored
// when the id is already taken.
func (r *OrderRepository) Create(order domain.Order, notification domain.OutboxMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return domain.ErrOrderVersionConflict
	}

	r.orders[order.ID] = order.Clone()
	if r.outbox != nil {
		if _, err := r.outbox.Enqueue(notification); err != nil {
			delete(r.orders, order.ID)
			return err
		}
	}
	return nil
}

// Get returns a non-deleted order or ErrOrderNotFound.
func (r *OrderRepository) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok || order.DeletedAt != nil {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order.Clone(), nil
}

// List returns non-deleted orders, newest first.
func (r *OrderRepository) List(page domain.Page) (domain.OrderPage, error) {
	return r.list("", page)
}

// ListByCustomer narrows List to one customer.
func (r *OrderRepository) ListByCustomer(customerID string, page domain.Page) (domain.OrderPage, error) {
	return r.list(customerID, page)
}

func (r *OrderRepository) list(customerID string, page domain.Page) (domain.OrderPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page = page.Normalize()

	matched := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if order.DeletedAt != nil {
			continue
		}
		if customerID != "" && order.CustomerID != customerID {
			continue
		}
		matched = append(matched, order)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.Size
	if end > total {
		end = total
	}

	orders := make([]domain.Order, 0, end-start)
	for _, order := range matched[start:end] {
		orders = append(orders, order.Clone())
	}

	return domain.OrderPage{
		Orders: orders,
		Total:  total,
		Number: page.Number,
		Size:   page.Size,
	}, nil
}

// Update replaces the order's lines, status and total in place. The mutex
// serializes concurrent full replaces; the version check catches writers
// that read a stale order.
func (r *OrderRepository) Update(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.orders[order.ID]
	if !ok || current.DeletedAt != nil {
		return domain.ErrOrderNotFound
	}
	if current.Version != order.Version {
		return domain.ErrOrderVersionConflict
	}

	stored := order.Clone()
	stored.Version++
	stored.CreatedAt = current.CreatedAt
	r.orders[order.ID] = stored
	return nil
}

// SoftDelete marks the order deleted and detaches its lines. The detach is
// destructive on purpose; see the repository contract.
func (r *OrderRepository) SoftDelete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok || order.DeletedAt != nil {
		return domain.ErrOrderNotFound
	}

	now := time.Now().UTC()
	order.DeletedAt = &now
	order.UpdatedAt = now
	order.Lines = nil
	r.orders[id] = order
	return nil
}

var _ domain.OrderRepository = (*OrderRepository)(nil)
