package services

import (
	"lapak/internal/models"
	"lapak/internal/repositories"
)

// CatalogService handles business logic for browsing the catalog and for
// the admin's variant price/stock edits.
type CatalogService struct {
	catalogRepo repositories.CatalogRepository
	variantRepo repositories.VariantRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalogRepo repositories.CatalogRepository, variantRepo repositories.VariantRepository) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		variantRepo: variantRepo,
	}
}

// ListCategories retrieves all categories.
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	return s.catalogRepo.ListCategories()
}

// ListSubCategories retrieves the sub-categories of one category.
func (s *CatalogService) ListSubCategories(categoryID int64) ([]models.SubCategory, error) {
	return s.catalogRepo.ListSubCategories(categoryID)
}

// ListBrands retrieves all brands.
func (s *CatalogService) ListBrands() ([]models.Brand, error) {
	return s.catalogRepo.ListBrands()
}

// BrowseProducts retrieves in-stock products under a sub-category,
// optionally filtered by brand (0 skips the filter).
func (s *CatalogService) BrowseProducts(subCategoryID, brandID int64) ([]models.Product, error) {
	return s.catalogRepo.ListProductsInStock(subCategoryID, brandID)
}

// GetProduct retrieves one product.
func (s *CatalogService) GetProduct(id int64) (*models.Product, error) {
	return s.catalogRepo.GetProduct(id)
}

// ListVariants retrieves a product's in-stock variants with display names.
func (s *CatalogService) ListVariants(productID int64) ([]models.VariantDetail, error) {
	return s.variantRepo.ListForProduct(productID)
}

// GetVariant retrieves one variant with its display names.
func (s *CatalogService) GetVariant(id int64) (*models.VariantDetail, error) {
	return s.variantRepo.GetDetail(id)
}

// GetVariantRecord retrieves the raw variant row, for edits that must
// preserve fields the detail view does not carry.
func (s *CatalogService) GetVariantRecord(id int64) (*models.ProductVariant, error) {
	return s.variantRepo.GetByID(id)
}

// UpdateVariant saves an admin's price or stock edit on a variant.
func (s *CatalogService) UpdateVariant(variant *models.ProductVariant) error {
	return s.variantRepo.Update(variant)
}
