package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"lapak/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[int64]models.Order
	nextID int64
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[int64]models.Order),
		nextID: 1,
	}
}

// Create adds a new order, assigning the next id.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == 0 {
		order.ID = r.nextID
		r.nextID++
	} else if order.ID >= r.nextID {
		r.nextID = order.ID + 1
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its id.
func (r *MockOrderRepository) GetByID(id int64) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %d not found", id)
	}
	return &order, nil
}

// GetByUser returns all orders placed by one customer.
func (r *MockOrderRepository) GetByUser(userID int64) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

// GetAll returns all orders.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, order)
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %d not found for status update", id)
	}
	order.Status = status
	r.orders[id] = order
	return nil
}

// SetDeducted updates the deducted-from-stock marker of an order.
func (r *MockOrderRepository) SetDeducted(id int64, deducted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %d not found for marker update", id)
	}
	order.DeductedFromStock = 0
	if deducted {
		order.DeductedFromStock = 1
	}
	r.orders[id] = order
	return nil
}

// ConfirmedSince returns confirmed orders created at or after the given time.
func (r *MockOrderRepository) ConfirmedSince(since time.Time) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.Status == models.StatusConfirmed && !order.CreatedAt.Before(since) {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func sortOrdersNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
