package domain

// OrderRepository is the storage contract for orders and their lines. Every
// mutating call is one atomic unit of work: it either fully applies or
// leaves the store untouched.
type OrderRepository interface {
	// Create persists the order, its lines and the post-commit notification
	// in a single transaction. Returns ErrOrderVersionConflict if the id is
	// already taken.
	Create(order Order, notification OutboxMessage) error
	// Get returns a non-deleted order with customer and lines attached, or
	// ErrOrderNotFound.
	Get(id string) (Order, error)
	// List returns non-deleted orders, newest first.
	List(page Page) (OrderPage, error)
	// ListByCustomer narrows List to one customer's orders.
	ListByCustomer(customerID string, page Page) (OrderPage, error)
	// Update applies a full replace of the order's lines together with its
	// status and total. The order row is locked for the duration and the
	// version is checked, so concurrent replaces cannot interleave; a lost
	// race returns ErrOrderVersionConflict.
	Update(order Order) error
	// SoftDelete marks the order deleted and detaches all of its lines.
	// The detach is destructive: restoring the order would surface it with
	// zero lines. That mirrors the observed behavior and is flagged in
	// DESIGN.md rather than silently changed.
	SoftDelete(id string) error
}

// CustomerRepository stores customers. Email is unique among non-deleted
// customers; violations surface as ErrCustomerEmailTaken.
type CustomerRepository interface {
	Create(customer Customer) error
	// Get returns a non-deleted customer or ErrCustomerNotFound.
	Get(id string) (Customer, error)
	List(page Page) (CustomerPage, error)
	Update(customer Customer) error
	SoftDelete(id string) error
}

// ProductRepository stores catalog products.
type ProductRepository interface {
	Create(product Product) error
	// Get returns a non-deleted product or ErrProductNotFound.
	Get(id string) (Product, error)
	List(page Page) (ProductPage, error)
	Update(product Product) error
	SoftDelete(id string) error
}
