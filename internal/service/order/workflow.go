package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/marksousa/testecomerc/internal/domain"
	"github.com/marksousa/testecomerc/internal/metrics"
)

// LineRequest is one requested order line: which product, how many.
type LineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

// CreateRequest is the payload for creating an order.
type CreateRequest struct {
	CustomerID string        `json:"customer_id"`
	Products   []LineRequest `json:"products"`
}

// UpdateRequest carries the optional changes to an order. A non-nil
// Products slice is a full replace: every existing line is detached and the
// new set attached with freshly snapshotted prices.
type UpdateRequest struct {
	Status   *string       `json:"status"`
	Products []LineRequest `json:"products"`
}

// Workflow orchestrates order create/update/delete and keeps the cached
// total consistent with the attached lines. Each mutating call maps to one
// atomic repository operation.
type Workflow struct {
	orders    domain.OrderRepository
	catalog   domain.CatalogLookup
	customers domain.CustomerLookup
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
}

// NewWorkflow wires the workflow with its collaborators.
func NewWorkflow(
	orders domain.OrderRepository,
	catalog domain.CatalogLookup,
	customers domain.CustomerLookup,
	logger *log.Entry,
) *Workflow {
	if logger == nil {
		logger = log.WithField("component", "order-workflow")
	}
	return &Workflow{
		orders:    orders,
		catalog:   catalog,
		customers: customers,
		logger:    logger,
		metrics:   metrics.NewOrderMetrics(),
	}
}

// Create validates the request, snapshots per-line prices and persists the
// order, its lines and the order-created notification in one transaction.
// Validation reports every failing field; nothing is written when any field
// fails.
func (w *Workflow) Create(req CreateRequest) (domain.Order, error) {
	started := time.Now()
	defer func() { w.metrics.RecordWorkflowDuration("create", time.Since(started)) }()

	v := domain.NewValidationError()

	var customer domain.Customer
	if strings.TrimSpace(req.CustomerID) == "" {
		v.Add("customer_id", "customer_id is required")
	} else {
		resolved, err := w.customers.Get(req.CustomerID)
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			v.Add("customer_id", "customer does not exist")
		case err != nil:
			return domain.Order{}, fmt.Errorf("resolve customer %s: %w", req.CustomerID, err)
		default:
			customer = resolved
		}
	}

	now := time.Now().UTC()
	lines, total, err := w.buildLines(req.Products, v, now)
	if err != nil {
		return domain.Order{}, err
	}

	if v.Has() {
		w.metrics.RecordValidationFailure("create")
		return domain.Order{}, v
	}

	order := domain.Order{
		ID:          uuid.NewString(),
		CustomerID:  customer.ID,
		Customer:    &customer,
		Status:      domain.OrderStatusPending,
		TotalAmount: total,
		Lines:       lines,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, fmt.Errorf("order invariants violated: %s", joinErrors(errs))
	}

	notification, err := domain.NewOrderCreatedMessage(order, customer.Email)
	if err != nil {
		return domain.Order{}, err
	}

	if err := w.orders.Create(order, notification); err != nil {
		w.logger.WithError(err).WithField("order_id", order.ID).Error("failed to persist order")
		return domain.Order{}, fmt.Errorf("persist order: %w", err)
	}

	w.metrics.RecordOrderCreated()
	w.metrics.RecordNotificationEnqueued()
	w.logger.WithFields(log.Fields{
		"order_id":     order.ID,
		"customer_id":  order.CustomerID,
		"total_amount": order.TotalAmount.String(),
		"lines":        len(order.Lines),
	}).Info("order created")

	return order, nil
}

// Update applies an optional status change and/or a full product-list
// replace to one order, atomically.
func (w *Workflow) Update(id string, req UpdateRequest) (domain.Order, error) {
	started := time.Now()
	defer func() { w.metrics.RecordWorkflowDuration("update", time.Since(started)) }()

	order, err := w.orders.Get(id)
	if err != nil {
		return domain.Order{}, err
	}

	v := domain.NewValidationError()
	now := time.Now().UTC()

	if req.Status != nil {
		status, err := domain.ParseOrderStatus(*req.Status)
		if err != nil {
			v.Add("status", "status must be one of: pending, preparing, ready, delivered, cancelled")
		} else {
			// No transition graph: any valid status may follow any other.
			order.Status = status
		}
	}

	if req.Products != nil {
		lines, total, err := w.buildLines(req.Products, v, now)
		if err != nil {
			return domain.Order{}, err
		}
		if !v.Has() {
			order.Lines = lines
			order.TotalAmount = total
		}
	}

	if v.Has() {
		w.metrics.RecordValidationFailure("update")
		return domain.Order{}, v
	}

	order.UpdatedAt = now
	if err := w.orders.Update(order); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) || errors.Is(err, domain.ErrOrderVersionConflict) {
			return domain.Order{}, err
		}
		w.logger.WithError(err).WithField("order_id", id).Error("failed to update order")
		return domain.Order{}, fmt.Errorf("update order: %w", err)
	}

	w.metrics.RecordOrderUpdated()

	// Re-read for the canonical post-update state (version, relations).
	return w.orders.Get(id)
}

// Delete soft-deletes the order and detaches its lines.
func (w *Workflow) Delete(id string) error {
	started := time.Now()
	defer func() { w.metrics.RecordWorkflowDuration("delete", time.Since(started)) }()

	if err := w.orders.SoftDelete(id); err != nil {
		return err
	}
	w.metrics.RecordOrderDeleted()
	w.logger.WithField("order_id", id).Info("order soft-deleted")
	return nil
}

// Get returns one non-deleted order with its relations.
func (w *Workflow) Get(id string) (domain.Order, error) {
	return w.orders.Get(id)
}

// List returns non-deleted orders, newest first.
func (w *Workflow) List(page domain.Page) (domain.OrderPage, error) {
	return w.orders.List(page)
}

// ListByCustomer narrows List to one customer's orders.
func (w *Workflow) ListByCustomer(customerID string, page domain.Page) (domain.OrderPage, error) {
	if _, err := w.customers.Get(customerID); err != nil {
		return domain.OrderPage{}, err
	}
	return w.orders.ListByCustomer(customerID, page)
}

// buildLines resolves every requested product, snapshots its current price
// and accumulates the total. Field failures go into v under the request's
// field names; only infrastructure errors are returned.
func (w *Workflow) buildLines(requests []LineRequest, v *domain.ValidationError, now time.Time) ([]domain.OrderLine, domain.Money, error) {
	if len(requests) == 0 {
		v.Add("products", "at least one product is required")
		return nil, 0, nil
	}

	lines := make([]domain.OrderLine, 0, len(requests))
	var total domain.Money

	for i, req := range requests {
		field := fmt.Sprintf("products.%d", i)

		if req.Quantity < 1 {
			v.Add(field+".quantity", "quantity must be at least 1")
		}
		if strings.TrimSpace(req.ProductID) == "" {
			v.Add(field+".product_id", "product_id is required")
			continue
		}

		product, err := w.catalog.Get(req.ProductID)
		if errors.Is(err, domain.ErrProductNotFound) {
			v.Add(field+".product_id", "product does not exist")
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("resolve product %s: %w", req.ProductID, err)
		}

		line := domain.OrderLine{
			ID:        uuid.NewString(),
			ProductID: product.ID,
			Product:   &product,
			Quantity:  req.Quantity,
			UnitPrice: product.Price, // snapshot: immutable from here on
			CreatedAt: now,
		}
		lines = append(lines, line)
		total += line.Subtotal()
	}

	return lines, total, nil
}

func joinErrors(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}
