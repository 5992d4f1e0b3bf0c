package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// CatalogLookup resolves a product id to its current state. It is the
// read-only slice of ProductRepository the order workflow needs.
type CatalogLookup interface {
	// Get returns the product or ErrProductNotFound.
	Get(id string) (Product, error)
}

// CustomerLookup resolves a customer id to existence and contact email.
type CustomerLookup interface {
	// Get returns the customer or ErrCustomerNotFound.
	Get(id string) (Customer, error)
}

// NotificationPublisher hands a notification to the outside world (the
// message broker behind the mailer). Implementations should be idempotent:
// the outbox worker may publish the same message more than once.
type NotificationPublisher interface {
	Publish(msg OutboxMessage) error
}

// OutboxRepository stores notifications for publication after commit.
type OutboxRepository interface {
	// Enqueue persists a pending message, assigning an id when empty.
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxMessage is one durable notification record.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats describes the current outbox backlog.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

const (
	// AggregateOrder tags outbox messages that belong to an order.
	AggregateOrder = "order"
	// EventOrderCreated is emitted once per successfully created order.
	EventOrderCreated = "order.created"
)

// OrderCreatedNotification is the payload the mailer consumes: enough to
// address the email and reference the order without a follow-up read.
type OrderCreatedNotification struct {
	OrderID     string    `json:"order_id"`
	CustomerID  string    `json:"customer_id"`
	Email       string    `json:"email"`
	TotalAmount Money     `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewOrderCreatedMessage builds the outbox message enqueued in the same
// transaction as the order itself.
func NewOrderCreatedMessage(order Order, email string) (OutboxMessage, error) {
	payload, err := json.Marshal(OrderCreatedNotification{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		Email:       email,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
	})
	if err != nil {
		return OutboxMessage{}, fmt.Errorf("marshal order created notification: %w", err)
	}

	return OutboxMessage{
		AggregateType: AggregateOrder,
		AggregateID:   order.ID,
		EventType:     EventOrderCreated,
		Payload:       payload,
	}, nil
}
