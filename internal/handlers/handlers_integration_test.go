package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"lapak/internal/handlers"
	"lapak/internal/middleware"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter int

// testEnv bundles the app with direct repository access for seeding and
// verification.
type testEnv struct {
	app         *fiber.App
	db          *gorm.DB
	variantRepo repositories.VariantRepository
	orderRepo   repositories.OrderRepository
}

// setupApp builds the full Fiber app against an in-memory SQLite database.
// The admin allow-list is the single user id 1, i.e. whoever registers
// first.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	dbCounter++
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", dbCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.SubCategory{},
		&models.Brand{},
		&models.Size{},
		&models.Color{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Order{},
	)
	require.NoError(t, err)

	adminIDs := []int64{1}

	userRepo := repositories.NewGORMUserRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	variantRepo := repositories.NewGORMVariantRepository(db)
	catalogRepo := repositories.NewGORMCatalogRepository(db)

	authService := services.NewAuthService(userRepo, jwtSecret)
	catalogService := services.NewCatalogService(catalogRepo, variantRepo)
	lifecycleService := services.NewLifecycleService(orderRepo, variantRepo)
	checkoutService := services.NewCheckoutService(orderRepo, variantRepo, nil, adminIDs)
	reportService := services.NewReportService(orderRepo)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewCatalogHandler(catalogService).RegisterRoutes(protected)
	handlers.NewClientHandler(checkoutService, lifecycleService, nil, adminIDs, "https://pay.example.com/lapak").RegisterRoutes(protected)

	adminRoutes := protected.Group("/admin", middleware.AdminRequired(adminIDs))
	handlers.NewAdminHandler(lifecycleService, catalogService, reportService, nil).RegisterRoutes(adminRoutes)

	seedCatalog(t, db)

	return &testEnv{app: app, db: db, variantRepo: variantRepo, orderRepo: orderRepo}
}

// seedCatalog inserts one product with one variant (id 1) stocked at 10.
func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	require.NoError(t, db.Create(&models.Category{Name: "Clothing"}).Error)
	require.NoError(t, db.Create(&models.SubCategory{Name: "Hoodies", CategoryID: 1}).Error)
	require.NoError(t, db.Create(&models.Brand{Name: "Northwind"}).Error)
	require.NoError(t, db.Create(&models.Size{Name: "M"}).Error)
	require.NoError(t, db.Create(&models.Color{Name: "Black"}).Error)
	require.NoError(t, db.Create(&models.Product{
		Name: "Hoodie", Description: "Plain hoodie", CategoryID: 1, SubCategoryID: 1, BrandID: 1,
	}).Error)
	require.NoError(t, db.Create(&models.ProductVariant{
		ProductID: 1, SizeID: 1, ColorID: 1, Price: 50, Quantity: 10,
	}).Error)
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// doJSON performs a request with an optional bearer token and JSON body,
// returning the status code and decoded body.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// registerAndLogin creates an account and returns its bearer token.
func (e *testEnv) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	status, _ := e.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := e.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (e *testEnv) variantQuantity(t *testing.T, id int64) int {
	t.Helper()
	variant, err := e.variantRepo.GetByID(id)
	require.NoError(t, err)
	return variant.Quantity
}

// placeOrder walks the customer through cart and checkout, returning the
// new order id.
func (e *testEnv) placeOrder(t *testing.T, token string, units int) int64 {
	t.Helper()

	for i := 0; i < units; i++ {
		status, _ := e.doJSON(t, http.MethodPost, "/api/v1/cart/items", token, map[string]int64{"variant_id": 1})
		require.Equal(t, http.StatusCreated, status)
	}
	status, body := e.doJSON(t, http.MethodPost, "/api/v1/checkout", token, map[string]string{
		"name": "Aruzhan", "address": "12 Abay Ave", "phone": "+77010000000",
	})
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, body["payment_link"])
	order, ok := body["order"].(map[string]interface{})
	require.True(t, ok)
	return int64(order["id"].(float64))
}

func TestFullOrderLifecycleOverHTTP(t *testing.T) {
	env := setupApp(t)
	adminToken := env.registerAndLogin(t, "shopadmin") // user id 1 = admin
	customerToken := env.registerAndLogin(t, "aruzhan")

	orderID := env.placeOrder(t, customerToken, 2)
	path := fmt.Sprintf("/api/v1/orders/%d", orderID)
	adminPath := fmt.Sprintf("/api/v1/admin/orders/%d", orderID)

	// Checkout froze the cart; stock is untouched until the admin confirms.
	assert.Equal(t, 10, env.variantQuantity(t, 1))

	// Customer marks the order paid.
	status, _ := env.doJSON(t, http.MethodPost, path+"/paid", customerToken, nil)
	require.Equal(t, http.StatusOK, status)

	// Admin confirms: stock debited, marker set.
	status, _ = env.doJSON(t, http.MethodPost, adminPath+"/decision", adminToken, map[string]string{"action": "confirm"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 8, env.variantQuantity(t, 1))

	// A duplicate confirm does not debit again.
	status, _ = env.doJSON(t, http.MethodPost, adminPath+"/decision", adminToken, map[string]string{"action": "confirm"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 8, env.variantQuantity(t, 1))

	// Shipping chain.
	for _, target := range []string{"preparing", "shipped", "delivered"} {
		status, _ = env.doJSON(t, http.MethodPost, adminPath+"/status", adminToken, map[string]string{"status": target})
		require.Equal(t, http.StatusOK, status, "advancing to %s", target)
	}

	// Delivered is terminal: no further transitions, stock untouched.
	status, _ = env.doJSON(t, http.MethodPost, adminPath+"/decision", adminToken, map[string]string{"action": "reject"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, 8, env.variantQuantity(t, 1))
}

func TestRejectRestoresStockOverHTTP(t *testing.T) {
	env := setupApp(t)
	adminToken := env.registerAndLogin(t, "shopadmin")
	customerToken := env.registerAndLogin(t, "aruzhan")

	orderID := env.placeOrder(t, customerToken, 2)
	adminPath := fmt.Sprintf("/api/v1/admin/orders/%d", orderID)

	status, _ := env.doJSON(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/paid", orderID), customerToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = env.doJSON(t, http.MethodPost, adminPath+"/decision", adminToken, map[string]string{"action": "confirm"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 8, env.variantQuantity(t, 1))

	// Reject credits the stock back exactly once.
	status, _ = env.doJSON(t, http.MethodPost, adminPath+"/decision", adminToken, map[string]string{"action": "reject"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 10, env.variantQuantity(t, 1))

	status, _ = env.doJSON(t, http.MethodPost, adminPath+"/decision", adminToken, map[string]string{"action": "reject"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, 10, env.variantQuantity(t, 1))
}

func TestTwoStepCancel(t *testing.T) {
	env := setupApp(t)
	env.registerAndLogin(t, "shopadmin")
	customerToken := env.registerAndLogin(t, "aruzhan")

	orderID := env.placeOrder(t, customerToken, 1)
	path := fmt.Sprintf("/api/v1/orders/%d", orderID)

	// Step one only prompts; the order stays active.
	status, body := env.doJSON(t, http.MethodPost, path+"/cancel", customerToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["message"], "Are you sure")

	order, err := env.orderRepo.GetByID(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, order.Status)

	// Step two cancels.
	status, _ = env.doJSON(t, http.MethodPost, path+"/cancel/confirm", customerToken, nil)
	require.Equal(t, http.StatusOK, status)

	order, err = env.orderRepo.GetByID(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelledByClient, order.Status)
	assert.Equal(t, 10, env.variantQuantity(t, 1), "nothing was debited, nothing to credit")

	// Cancelling again is refused.
	status, _ = env.doJSON(t, http.MethodPost, path+"/cancel/confirm", customerToken, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestCancelSomeoneElsesOrder(t *testing.T) {
	env := setupApp(t)
	env.registerAndLogin(t, "shopadmin")
	ownerToken := env.registerAndLogin(t, "aruzhan")
	strangerToken := env.registerAndLogin(t, "dastan")

	orderID := env.placeOrder(t, ownerToken, 1)
	path := fmt.Sprintf("/api/v1/orders/%d/cancel/confirm", orderID)

	status, _ := env.doJSON(t, http.MethodPost, path, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	order, err := env.orderRepo.GetByID(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, order.Status)
}

func TestAdminRoutesRequireAllowList(t *testing.T) {
	env := setupApp(t)
	env.registerAndLogin(t, "shopadmin")
	customerToken := env.registerAndLogin(t, "aruzhan")

	status, _ := env.doJSON(t, http.MethodGet, "/api/v1/admin/orders", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.doJSON(t, http.MethodGet, "/api/v1/admin/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMalformedShippingStatus(t *testing.T) {
	env := setupApp(t)
	adminToken := env.registerAndLogin(t, "shopadmin")
	customerToken := env.registerAndLogin(t, "aruzhan")

	orderID := env.placeOrder(t, customerToken, 1)
	adminPath := fmt.Sprintf("/api/v1/admin/orders/%d", orderID)

	status, _ := env.doJSON(t, http.MethodPost, adminPath+"/status", adminToken, map[string]string{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, status)

	order, err := env.orderRepo.GetByID(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, order.Status)
}

func TestSnapshotFreezeOverHTTP(t *testing.T) {
	env := setupApp(t)
	adminToken := env.registerAndLogin(t, "shopadmin")
	customerToken := env.registerAndLogin(t, "aruzhan")

	orderID := env.placeOrder(t, customerToken, 1)

	// Admin raises the price after checkout.
	status, _ := env.doJSON(t, http.MethodPatch, "/api/v1/admin/variants/1", adminToken, map[string]float64{"price": 150})
	require.Equal(t, http.StatusOK, status)

	// The stored order still shows the old price and total.
	order, err := env.orderRepo.GetByID(orderID)
	require.NoError(t, err)
	snapshot, err := models.DecodeCartSnapshot(order.Cart)
	require.NoError(t, err)
	item, ok := snapshot.Item(1)
	require.True(t, ok)
	assert.Equal(t, 50.0, item.Price)
	assert.Equal(t, 50.0, order.TotalPrice)
}

func TestOrderHistoryFilters(t *testing.T) {
	env := setupApp(t)
	env.registerAndLogin(t, "shopadmin")
	customerToken := env.registerAndLogin(t, "aruzhan")

	first := env.placeOrder(t, customerToken, 1)
	env.placeOrder(t, customerToken, 1)

	// Cancel the first order so the two filters disagree.
	status, _ := env.doJSON(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel/confirm", first), customerToken, nil)
	require.Equal(t, http.StatusOK, status)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/?filter=active", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var active []models.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&active))
	require.Len(t, active, 1)
	assert.Equal(t, models.StatusPendingPayment, active[0].Status)
}

func TestCatalogBrowsing(t *testing.T) {
	env := setupApp(t)
	customerToken := env.registerAndLogin(t, "aruzhan")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/1/variants", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var variants []models.VariantDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&variants))
	require.Len(t, variants, 1)
	assert.Equal(t, "Hoodie (M, Black)", variants[0].DisplayName())
	assert.Equal(t, 50.0, variants[0].Price)
}
