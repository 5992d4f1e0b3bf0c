package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/marksousa/testecomerc/internal/domain"
)

// ProductRepository is the in-memory ProductRepository.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// NewProductRepository returns an empty repository.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]domain.Product)}
}

// Create stores a product.
func (r *ProductRepository) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = product
	return nil
}

// Get returns a non-deleted product or ErrProductNotFound.
func (r *ProductRepository) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok || product.DeletedAt != nil {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// List returns non-deleted products, newest first.
func (r *ProductRepository) List(page domain.Page) (domain.ProductPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page = page.Normalize()

	matched := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if product.DeletedAt == nil {
			matched = append(matched, product)
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

	return domain.ProductPage{
		Products: append([]domain.Product(nil), matched[start:end]...),
		Total:    total,
		Number:   page.Number,
		Size:     page.Size,
	}, nil
}

// Update overwrites an existing non-deleted product. Order lines keep their
// snapshot prices; a price change here never reaches them.
func (r *ProductRepository) Update(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[product.ID]
	if !ok || current.DeletedAt != nil {
		return domain.ErrProductNotFound
	}
	product.CreatedAt = current.CreatedAt
	r.products[product.ID] = product
	return nil
}

// SoftDelete marks the product deleted.
func (r *ProductRepository) SoftDelete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.DeletedAt != nil {
		return domain.ErrProductNotFound
	}
	now := time.Now().UTC()
	product.DeletedAt = &now
	product.UpdatedAt = now
	r.products[id] = product
	return nil
}

var _ domain.ProductRepository = (*ProductRepository)(nil)
var _ domain.CatalogLookup = (*ProductRepository)(nil)
