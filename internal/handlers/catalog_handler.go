package handlers

import (
	"log"
	"strconv"

	"lapak/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles the read-only browsing endpoints: categories,
// sub-categories, brands, products and their purchasable variants.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	catalogRoutes := router.Group("/catalog")
	catalogRoutes.Get("/categories", h.HandleListCategories)
	catalogRoutes.Get("/categories/:id/subcategories", h.HandleListSubCategories)
	catalogRoutes.Get("/brands", h.HandleListBrands)
	catalogRoutes.Get("/products", h.HandleBrowseProducts)
	catalogRoutes.Get("/products/:id", h.HandleGetProduct)
	catalogRoutes.Get("/products/:id/variants", h.HandleListVariants)
}

// HandleListCategories lists all categories.
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories()
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve categories",
		})
	}
	return c.JSON(categories)
}

// HandleListSubCategories lists the sub-categories of one category.
func (h *CatalogHandler) HandleListSubCategories(c *fiber.Ctx) error {
	categoryID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid category id",
		})
	}
	subCategories, err := h.service.ListSubCategories(categoryID)
	if err != nil {
		log.Printf("Error listing sub-categories for %d: %v", categoryID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve sub-categories",
		})
	}
	return c.JSON(subCategories)
}

// HandleListBrands lists all brands.
func (h *CatalogHandler) HandleListBrands(c *fiber.Ctx) error {
	brands, err := h.service.ListBrands()
	if err != nil {
		log.Printf("Error listing brands: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve brands",
		})
	}
	return c.JSON(brands)
}

// HandleBrowseProducts lists in-stock products under a sub-category,
// optionally narrowed to a brand.
func (h *CatalogHandler) HandleBrowseProducts(c *fiber.Ctx) error {
	subCategoryID, err := strconv.ParseInt(c.Query("sub_category_id"), 10, 64)
	if err != nil || subCategoryID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "sub_category_id is required",
		})
	}
	brandID, _ := strconv.ParseInt(c.Query("brand_id"), 10, 64) // optional

	products, err := h.service.BrowseProducts(subCategoryID, brandID)
	if err != nil {
		log.Printf("Error browsing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
		})
	}
	return c.JSON(products)
}

// HandleGetProduct shows one product.
func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	productID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product id",
		})
	}
	product, err := h.service.GetProduct(productID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}
	return c.JSON(product)
}

// HandleListVariants lists a product's in-stock variants.
func (h *CatalogHandler) HandleListVariants(c *fiber.Ctx) error {
	productID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product id",
		})
	}
	variants, err := h.service.ListVariants(productID)
	if err != nil {
		log.Printf("Error listing variants for product %d: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve variants",
		})
	}
	return c.JSON(variants)
}
