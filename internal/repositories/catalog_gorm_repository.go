package repositories

import (
	"fmt"

	"lapak/internal/models"

	"gorm.io/gorm"
)

// GORMCatalogRepository is a GORM implementation of CatalogRepository.
type GORMCatalogRepository struct {
	db *gorm.DB
}

// NewGORMCatalogRepository creates a new instance of GORMCatalogRepository.
func NewGORMCatalogRepository(db *gorm.DB) *GORMCatalogRepository {
	return &GORMCatalogRepository{
		db: db,
	}
}

// ListCategories retrieves all categories.
func (r *GORMCatalogRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ListSubCategories retrieves the sub-categories of one category.
func (r *GORMCatalogRepository) ListSubCategories(categoryID int64) ([]models.SubCategory, error) {
	var subCategories []models.SubCategory
	if err := r.db.Where("category_id = ?", categoryID).Order("name").Find(&subCategories).Error; err != nil {
		return nil, fmt.Errorf("failed to list sub-categories for category %d: %w", categoryID, err)
	}
	return subCategories, nil
}

// ListBrands retrieves all brands.
func (r *GORMCatalogRepository) ListBrands() ([]models.Brand, error) {
	var brands []models.Brand
	if err := r.db.Order("name").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

// GetProduct retrieves a single product by its id.
func (r *GORMCatalogRepository) GetProduct(id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// ListProductsInStock retrieves products under a sub-category that have at
// least one variant with stock on hand. Pass brandID 0 to skip the brand
// filter.
func (r *GORMCatalogRepository) ListProductsInStock(subCategoryID, brandID int64) ([]models.Product, error) {
	query := r.db.Table("products AS p").
		Select("p.*").
		Joins("JOIN product_variants pv ON pv.product_id = p.id").
		Where("p.sub_category_id = ? AND pv.quantity > 0", subCategoryID).
		Group("p.id")
	if brandID != 0 {
		query = query.Where("p.brand_id = ?", brandID)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products for sub-category %d: %w", subCategoryID, err)
	}
	return products, nil
}

// CreateProduct inserts a new product.
func (r *GORMCatalogRepository) CreateProduct(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}
