package repositories

import (
	"fmt"
	"time"

	"lapak/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts a new order and fills in its assigned id.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order by its id.
func (r *GORMOrderRepository) GetByID(id int64) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	return &order, nil
}

// GetByUser retrieves all orders placed by one customer, newest first.
func (r *GORMOrderRepository) GetByUser(userID int64) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for user %d: %w", userID, err)
	}
	return orders, nil
}

// GetAll retrieves all orders, newest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus writes a new status for an order.
func (r *GORMOrderRepository) UpdateStatus(id int64, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %d not found for status update", id)
	}
	return nil
}

// SetDeducted writes the deducted-from-stock marker for an order.
func (r *GORMOrderRepository) SetDeducted(id int64, deducted bool) error {
	value := 0
	if deducted {
		value = 1
	}
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("deducted_from_stock", value)
	if res.Error != nil {
		return fmt.Errorf("failed to update deducted marker: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %d not found for marker update", id)
	}
	return nil
}

// ConfirmedSince retrieves confirmed orders created at or after the given time.
func (r *GORMOrderRepository) ConfirmedSince(since time.Time) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("status = ? AND created_at >= ?", models.StatusConfirmed, since).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get confirmed orders: %w", err)
	}
	return orders, nil
}
