package services_test

import (
	"testing"

	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockNotifier is a testify mock of the Notifier collaborator.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(recipientID int64, text string) error {
	args := m.Called(recipientID, text)
	return args.Error(0)
}

func seedCheckout(t *testing.T) (*services.CheckoutService, *repositories.MockOrderRepository, *repositories.MockVariantRepository, *MockNotifier) {
	t.Helper()

	orderRepo := repositories.NewMockOrderRepository()
	variantRepo := repositories.NewMockVariantRepository()
	variantRepo.Seed(models.VariantDetail{
		ID: 1, ProductID: 10, ProductName: "Hoodie", Size: "M", Color: "Black",
		Price: 100, Quantity: 3,
	})
	variantRepo.Seed(models.VariantDetail{
		ID: 2, ProductID: 10, ProductName: "Hoodie", Size: "L", Color: "White",
		Price: 120, Quantity: 1,
	})

	notifier := new(MockNotifier)
	svc := services.NewCheckoutService(orderRepo, variantRepo, notifier, []int64{5000})
	return svc, orderRepo, variantRepo, notifier
}

func TestAddItemCapsAtStock(t *testing.T) {
	svc, _, _, _ := seedCheckout(t)

	// Variant 2 has exactly one unit.
	assert.NoError(t, svc.AddItem(700, 2))
	err := svc.AddItem(700, 2)
	assert.Error(t, err, "cannot add more than is on hand")

	cart, err := svc.Cart(700)
	require.NoError(t, err)
	item, ok := cart.Item(2)
	require.True(t, ok)
	assert.Equal(t, 1, item.Quantity)
}

func TestAddItemOutOfStock(t *testing.T) {
	svc, _, variantRepo, _ := seedCheckout(t)
	variantRepo.Seed(models.VariantDetail{ID: 3, ProductID: 11, ProductName: "Cap", Price: 30, Quantity: 0})

	assert.Error(t, svc.AddItem(700, 3))
	assert.Error(t, svc.AddItem(700, 999), "unknown variant")
}

func TestRemoveItemDropsEmptyLine(t *testing.T) {
	svc, _, _, _ := seedCheckout(t)

	require.NoError(t, svc.AddItem(700, 1))
	require.NoError(t, svc.AddItem(700, 1))
	svc.RemoveItem(700, 1)
	svc.RemoveItem(700, 1)

	cart, err := svc.Cart(700)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestCheckoutFreezesPricesAndNames(t *testing.T) {
	svc, orderRepo, variantRepo, notifier := seedCheckout(t)
	notifier.On("Notify", int64(5000), mock.Anything).Return(nil)

	require.NoError(t, svc.AddItem(700, 1))
	require.NoError(t, svc.AddItem(700, 1))

	order, err := svc.Checkout(700, services.ContactDetails{
		Name: "Aruzhan", Address: "12 Abay Ave", Phone: "+77010000000",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, order.Status)
	assert.Equal(t, 200.0, order.TotalPrice)
	assert.Equal(t, 0, order.DeductedFromStock)

	// Catalog edits after checkout must not leak into the stored order.
	variant, err := variantRepo.GetByID(1)
	require.NoError(t, err)
	variant.Price = 150
	require.NoError(t, variantRepo.Update(variant))

	stored, err := orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	snapshot, err := models.DecodeCartSnapshot(stored.Cart)
	require.NoError(t, err)
	item, ok := snapshot.Item(1)
	require.True(t, ok)
	assert.Equal(t, "Hoodie (M, Black)", item.Name)
	assert.Equal(t, 100.0, item.Price, "unit price is frozen at checkout")
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 200.0, stored.TotalPrice, "total is computed once and never recomputed")

	// The cart is gone after a successful checkout.
	cart, err := svc.Cart(700)
	require.NoError(t, err)
	assert.Empty(t, cart)

	notifier.AssertCalled(t, "Notify", int64(5000), mock.Anything)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _, _, _ := seedCheckout(t)

	_, err := svc.Checkout(700, services.ContactDetails{Name: "A", Address: "B", Phone: "C"})
	assert.Error(t, err)
}

func TestCheckoutSurvivesNotifierFailure(t *testing.T) {
	svc, orderRepo, _, notifier := seedCheckout(t)
	notifier.On("Notify", int64(5000), mock.Anything).Return(assert.AnError)

	require.NoError(t, svc.AddItem(700, 1))
	order, err := svc.Checkout(700, services.ContactDetails{
		Name: "Aruzhan", Address: "12 Abay Ave", Phone: "+77010000000",
	})
	require.NoError(t, err, "notification failure must not fail checkout")

	stored, err := orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, stored.Status)
}
