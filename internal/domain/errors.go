package domain

import "errors"

var (
	// ErrCustomerRequired means the order has no customer reference.
	ErrCustomerRequired = errors.New("customer_id is required")
	// ErrStatusInvalid means the status is not one of the known values.
	ErrStatusInvalid = errors.New("order status is invalid")
	// ErrLinesRequired means the order must carry at least one line.
	ErrLinesRequired = errors.New("order must contain at least one line")
	// ErrLineQtyInvalid means a line quantity is below one.
	ErrLineQtyInvalid = errors.New("line quantity must be at least 1")
	// ErrLinePriceInvalid means a line snapshot price is negative.
	ErrLinePriceInvalid = errors.New("line unit price must be non-negative")
	// ErrTotalNegative means the cached order total is negative.
	ErrTotalNegative = errors.New("total_amount must be non-negative")
	// ErrTotalMismatch means the cached total disagrees with the line sum.
	ErrTotalMismatch = errors.New("total_amount does not match line sum")

	// ErrOrderNotFound is returned when an order id does not resolve to a
	// non-deleted order.
	ErrOrderNotFound = errors.New("order not found")
	// ErrCustomerNotFound is returned when a customer id does not resolve.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound is returned when a product id does not resolve.
	ErrProductNotFound = errors.New("product not found")

	// ErrOrderVersionConflict signals that a concurrent writer touched the
	// order between read and save.
	ErrOrderVersionConflict = errors.New("order version conflict")
	// ErrCustomerEmailTaken means another non-deleted customer already uses the email.
	ErrCustomerEmailTaken = errors.New("customer email already taken")
	// ErrOutboxMessageMissing means the outbox row to mark no longer exists.
	ErrOutboxMessageMissing = errors.New("outbox message not found")
)

// IsNotFound reports whether err is any of the resource-lookup sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound)
}
