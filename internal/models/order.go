package models

import "time"

// Order statuses. An order walks the forward chain
// pending_payment -> pending_verification -> confirmed -> preparing ->
// shipped -> delivered, and can escape into cancelled_by_client or
// rejected from any non-terminal status.
const (
	StatusPendingPayment      = "pending_payment"
	StatusPendingVerification = "pending_verification"
	StatusConfirmed           = "confirmed"
	StatusPreparing           = "preparing"
	StatusShipped             = "shipped"
	StatusDelivered           = "delivered"
	StatusCancelledByClient   = "cancelled_by_client"
	StatusRejected            = "rejected"
)

// IsActiveStatus reports whether an order in this status can still move.
func IsActiveStatus(status string) bool {
	switch status {
	case StatusPendingPayment, StatusPendingVerification, StatusConfirmed,
		StatusPreparing, StatusShipped:
		return true
	}
	return false
}

// IsFinalStatus reports whether the status is terminal.
func IsFinalStatus(status string) bool {
	switch status {
	case StatusDelivered, StatusCancelledByClient, StatusRejected:
		return true
	}
	return false
}

// Order represents a committed customer order. Cart and TotalPrice are
// frozen at checkout time; only Status and DeductedFromStock change after
// creation. Orders are never deleted, they remain as an audit trail.
type Order struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      int64  `json:"user_id" gorm:"not null;index"`
	UserName    string `json:"user_name" gorm:"not null"`
	UserAddress string `json:"user_address" gorm:"not null"`
	UserPhone   string `json:"user_phone" gorm:"not null"`
	// Cart holds the frozen line items as JSON, see CartSnapshot.
	Cart       string  `json:"cart" gorm:"type:text;not null"`
	TotalPrice float64 `json:"total_price" gorm:"not null"`
	Status     string  `json:"status"`
	// DeductedFromStock records whether this order's inventory debit has
	// already been applied (0 or 1). It is the idempotency marker that
	// keeps repeated confirm/reject/cancel deliveries from double-counting
	// stock.
	DeductedFromStock int       `json:"deducted_from_stock" gorm:"default:0"`
	CreatedAt         time.Time `json:"created_at"`
}
