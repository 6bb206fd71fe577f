package repositories

import (
	"lapak/internal/models"
)

// VariantRepository defines the interface for product variant data access,
// including the inventory adjustment primitive used by the order lifecycle.
type VariantRepository interface {
	GetByID(id int64) (*models.ProductVariant, error)
	// GetDetail returns the variant joined with its product, size and color
	// names, as shown in carts and receipts.
	GetDetail(id int64) (*models.VariantDetail, error)
	// ListForProduct returns a product's variants that have stock on hand.
	ListForProduct(productID int64) ([]models.VariantDetail, error)
	Create(variant *models.ProductVariant) error
	Update(variant *models.ProductVariant) error
	// AdjustStock applies a signed delta to a variant's quantity as a single
	// statement. A variant that no longer exists is reported via found=false
	// with a nil error; callers decide whether that is fatal.
	AdjustStock(id int64, delta int) (found bool, err error)
}
