package repositories

import (
	"lapak/internal/models"
)

// CatalogRepository defines the read/write interface for the catalog
// reference data customers browse: categories, sub-categories, brands and
// products. Variants have their own repository because the order lifecycle
// mutates their stock.
type CatalogRepository interface {
	ListCategories() ([]models.Category, error)
	ListSubCategories(categoryID int64) ([]models.SubCategory, error)
	ListBrands() ([]models.Brand, error)
	GetProduct(id int64) (*models.Product, error)
	// ListProductsInStock returns products under a sub-category (and
	// optionally a brand, pass 0 to skip) that have at least one variant
	// with stock on hand.
	ListProductsInStock(subCategoryID, brandID int64) ([]models.Product, error)
	CreateProduct(product *models.Product) error
}
