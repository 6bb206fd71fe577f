package repositories

import (
	"fmt"
	"sort"
	"sync"

	"lapak/internal/models"
)

// MockVariantRepository is an in-memory implementation of VariantRepository.
// Details carry the names directly instead of joining reference tables.
type MockVariantRepository struct {
	variants map[int64]models.VariantDetail
	nextID   int64
	mu       sync.RWMutex
}

// NewMockVariantRepository creates a new instance of MockVariantRepository.
func NewMockVariantRepository() *MockVariantRepository {
	return &MockVariantRepository{
		variants: make(map[int64]models.VariantDetail),
		nextID:   1,
	}
}

// Seed inserts a variant detail with a fixed id, for tests.
func (r *MockVariantRepository) Seed(detail models.VariantDetail) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.variants[detail.ID] = detail
	if detail.ID >= r.nextID {
		r.nextID = detail.ID + 1
	}
}

// Quantity returns the current stock of a variant, for tests.
func (r *MockVariantRepository) Quantity(id int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.variants[id].Quantity
}

// GetByID returns a variant by its id.
func (r *MockVariantRepository) GetByID(id int64) (*models.ProductVariant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	detail, ok := r.variants[id]
	if !ok {
		return nil, fmt.Errorf("variant with ID %d not found", id)
	}
	return &models.ProductVariant{
		ID:        detail.ID,
		ProductID: detail.ProductID,
		Price:     detail.Price,
		Quantity:  detail.Quantity,
	}, nil
}

// GetDetail returns a variant with its display names.
func (r *MockVariantRepository) GetDetail(id int64) (*models.VariantDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	detail, ok := r.variants[id]
	if !ok {
		return nil, fmt.Errorf("variant with ID %d not found", id)
	}
	return &detail, nil
}

// ListForProduct returns a product's in-stock variants.
func (r *MockVariantRepository) ListForProduct(productID int64) ([]models.VariantDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var details []models.VariantDetail
	for _, detail := range r.variants {
		if detail.ProductID == productID && detail.Quantity > 0 {
			details = append(details, detail)
		}
	}
	sort.Slice(details, func(i, j int) bool { return details[i].ID < details[j].ID })
	return details, nil
}

// Create adds a new variant.
func (r *MockVariantRepository) Create(variant *models.ProductVariant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if variant.ID == 0 {
		variant.ID = r.nextID
		r.nextID++
	}
	r.variants[variant.ID] = models.VariantDetail{
		ID:        variant.ID,
		ProductID: variant.ProductID,
		Price:     variant.Price,
		Quantity:  variant.Quantity,
	}
	return nil
}

// Update modifies an existing variant's price and quantity.
func (r *MockVariantRepository) Update(variant *models.ProductVariant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	detail, ok := r.variants[variant.ID]
	if !ok {
		return fmt.Errorf("variant with ID %d not found for update", variant.ID)
	}
	detail.Price = variant.Price
	detail.Quantity = variant.Quantity
	r.variants[variant.ID] = detail
	return nil
}

// AdjustStock applies a signed delta to a variant's quantity. A missing
// variant reports found=false with a nil error.
func (r *MockVariantRepository) AdjustStock(id int64, delta int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	detail, ok := r.variants[id]
	if !ok {
		return false, nil
	}
	detail.Quantity += delta
	r.variants[id] = detail
	return true, nil
}
