package repositories

import (
	"time"

	"lapak/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// append-only apart from status and the deducted-from-stock marker; there
// is deliberately no Delete.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id int64) (*models.Order, error)
	GetByUser(userID int64) ([]models.Order, error)
	GetAll() ([]models.Order, error)
	UpdateStatus(id int64, status string) error
	SetDeducted(id int64, deducted bool) error
	// ConfirmedSince returns confirmed orders created at or after the given
	// time, for sales reporting.
	ConfirmedSince(since time.Time) ([]models.Order, error)
}
