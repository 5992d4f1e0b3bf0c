package domain

import (
	"fmt"
	"time"
)

// OrderStatus describes where an order is in its lifecycle.
type OrderStatus string

const (
	// OrderStatusPending is the status every order is created with.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPreparing means the order is being assembled.
	OrderStatusPreparing OrderStatus = "preparing"
	// OrderStatusReady means the order is ready for pickup or dispatch.
	OrderStatusReady OrderStatus = "ready"
	// OrderStatusDelivered means the order reached the customer.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled means the order was called off.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every valid status value.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus maps a string to a known status. Any valid status may be
// set from any other; there is deliberately no transition graph.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, status := range OrderStatuses {
		if s == string(status) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// OrderLine is one row linking an order to a product. UnitPrice is the
// product's price snapshotted when the line was attached; it never changes
// afterwards, regardless of later product price updates.
type OrderLine struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int32     `json:"quantity"`
	UnitPrice Money     `json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
}

// Subtotal is the line's contribution to the order total.
func (l OrderLine) Subtotal() Money {
	return Money(l.Quantity) * l.UnitPrice
}

// Order aggregates the order state and its lines. TotalAmount is a cached
// value; it must equal CalculateTotal() whenever the order is observable.
type Order struct {
	ID          string      `json:"id"`
	CustomerID  string      `json:"customer_id"`
	Customer    *Customer   `json:"customer,omitempty"`
	Status      OrderStatus `json:"status"`
	TotalAmount Money       `json:"total_amount"`
	Lines       []OrderLine `json:"products"`
	Version     int64       `json:"-"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	DeletedAt   *time.Time  `json:"-"`
}

// CalculateTotal recomputes the order total from the attached lines using
// their stored snapshot prices. It never consults live product prices.
func (o *Order) CalculateTotal() Money {
	var total Money
	for _, line := range o.Lines {
		total += line.Subtotal()
	}
	return total
}

// ValidateInvariants checks the order's basic invariants and returns every
// violation, not just the first.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if _, err := ParseOrderStatus(string(o.Status)); err != nil {
		errs = append(errs, ErrStatusInvalid)
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrLinesRequired)
	}
	if o.TotalAmount < 0 {
		errs = append(errs, ErrTotalNegative)
	}

	for _, line := range o.Lines {
		if line.Quantity < 1 {
			errs = append(errs, ErrLineQtyInvalid)
		}
		if line.UnitPrice < 0 {
			errs = append(errs, ErrLinePriceInvalid)
		}
	}
	if o.CalculateTotal() != o.TotalAmount {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}

// Clone returns a deep copy so stored orders cannot be mutated through
// slices or relation pointers held by the caller.
func (o Order) Clone() Order {
	clone := o
	if o.Customer != nil {
		customer := *o.Customer
		clone.Customer = &customer
	}
	if o.DeletedAt != nil {
		deletedAt := *o.DeletedAt
		clone.DeletedAt = &deletedAt
	}
	if o.Lines != nil {
		clone.Lines = make([]OrderLine, len(o.Lines))
		for i, line := range o.Lines {
			cloned := line
			if line.Product != nil {
				product := *line.Product
				cloned.Product = &product
			}
			clone.Lines[i] = cloned
		}
	}
	return clone
}
