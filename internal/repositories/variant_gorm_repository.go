package repositories

import (
	"fmt"

	"lapak/internal/models"

	"gorm.io/gorm"
)

// GORMVariantRepository is a GORM implementation of VariantRepository.
type GORMVariantRepository struct {
	db *gorm.DB
}

// NewGORMVariantRepository creates a new instance of GORMVariantRepository.
func NewGORMVariantRepository(db *gorm.DB) *GORMVariantRepository {
	return &GORMVariantRepository{
		db: db,
	}
}

// GetByID retrieves a single variant by its id.
func (r *GORMVariantRepository) GetByID(id int64) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.First(&variant, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("variant with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get variant by ID %d: %w", id, err)
	}
	return &variant, nil
}

// GetDetail retrieves a variant joined with its product, size and color names.
func (r *GORMVariantRepository) GetDetail(id int64) (*models.VariantDetail, error) {
	var detail models.VariantDetail
	err := r.db.Table("product_variants AS pv").
		Select("pv.id, pv.product_id, p.name AS product_name, s.name AS size, c.name AS color, pv.price, pv.quantity").
		Joins("JOIN products p ON pv.product_id = p.id").
		Joins("LEFT JOIN sizes s ON pv.size_id = s.id").
		Joins("LEFT JOIN colors c ON pv.color_id = c.id").
		Where("pv.id = ?", id).
		Take(&detail).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("variant with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get variant detail for ID %d: %w", id, err)
	}
	return &detail, nil
}

// ListForProduct retrieves a product's in-stock variants.
func (r *GORMVariantRepository) ListForProduct(productID int64) ([]models.VariantDetail, error) {
	var details []models.VariantDetail
	err := r.db.Table("product_variants AS pv").
		Select("pv.id, pv.product_id, p.name AS product_name, s.name AS size, c.name AS color, pv.price, pv.quantity").
		Joins("JOIN products p ON pv.product_id = p.id").
		Joins("LEFT JOIN sizes s ON pv.size_id = s.id").
		Joins("LEFT JOIN colors c ON pv.color_id = c.id").
		Where("pv.product_id = ? AND pv.quantity > 0", productID).
		Order("pv.id").
		Find(&details).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list variants for product %d: %w", productID, err)
	}
	return details, nil
}

// Create inserts a new variant.
func (r *GORMVariantRepository) Create(variant *models.ProductVariant) error {
	if err := r.db.Create(variant).Error; err != nil {
		return fmt.Errorf("failed to create variant: %w", err)
	}
	return nil
}

// Update saves all fields of an existing variant.
func (r *GORMVariantRepository) Update(variant *models.ProductVariant) error {
	res := r.db.Save(variant)
	if res.Error != nil {
		return fmt.Errorf("failed to update variant: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("variant with ID %d not found for update", variant.ID)
	}
	return nil
}

// AdjustStock applies a signed delta to a variant's quantity. The update is
// a single statement; a missing row is not an error so that credits for
// variants deleted from the catalog do not abort an order transition.
func (r *GORMVariantRepository) AdjustStock(id int64, delta int) (bool, error) {
	res := r.db.Model(&models.ProductVariant{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return false, fmt.Errorf("failed to adjust stock for variant %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
