package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/marksousa/testecomerc/internal/domain"
)

// CustomerRepository is the in-memory CustomerRepository.
type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
}

// NewCustomerRepository returns an empty repository.
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{customers: make(map[string]domain.Customer)}
}

// Create stores a customer; email must be unique among non-deleted rows.
func (r *CustomerRepository) Create(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(customer.Email, customer.ID) {
		return domain.ErrCustomerEmailTaken
	}
	r.customers[customer.ID] = customer
	return nil
}

// Get returns a non-deleted customer or ErrCustomerNotFound.
func (r *CustomerRepository) Get(id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[id]
	if !ok || customer.DeletedAt != nil {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

// List returns non-deleted customers, newest first.
func (r *CustomerRepository) List(page domain.Page) (domain.CustomerPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page = page.Normalize()

	matched := make([]domain.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		if customer.DeletedAt == nil {
			matched = append(matched, customer)
		}
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

	return domain.CustomerPage{
		Customers: append([]domain.Customer(nil), matched[start:end]...),
		Total:     total,
		Number:    page.Number,
		Size:      page.Size,
	}, nil
}

// Update overwrites an existing non-deleted customer.
func (r *CustomerRepository) Update(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.customers[customer.ID]
	if !ok || current.DeletedAt != nil {
		return domain.ErrCustomerNotFound
	}
	if r.emailTaken(customer.Email, customer.ID) {
		return domain.ErrCustomerEmailTaken
	}
	customer.CreatedAt = current.CreatedAt
	r.customers[customer.ID] = customer
	return nil
}

// SoftDelete marks the customer deleted.
func (r *CustomerRepository) SoftDelete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	customer, ok := r.customers[id]
	if !ok || customer.DeletedAt != nil {
		return domain.ErrCustomerNotFound
	}
	now := time.Now().UTC()
	customer.DeletedAt = &now
	customer.UpdatedAt = now
	r.customers[id] = customer
	return nil
}

func (r *CustomerRepository) emailTaken(email, excludeID string) bool {
	for _, customer := range r.customers {
		if customer.ID == excludeID || customer.DeletedAt != nil {
			continue
		}
		if strings.EqualFold(customer.Email, email) {
			return true
		}
	}
	return false
}

var _ domain.CustomerRepository = (*CustomerRepository)(nil)
var _ domain.CustomerLookup = (*CustomerRepository)(nil)
