package services

import (
	"fmt"
	"log"
	"sync"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// CheckoutService accumulates per-customer carts and turns a cart into a
// committed order. A live cart only tracks variant ids and running
// quantities; display names and unit prices are copied from the catalog at
// freeze time and never change afterwards, whatever later catalog edits do.
type CheckoutService struct {
	orderRepo   repositories.OrderRepository
	variantRepo repositories.VariantRepository
	notifier    Notifier
	adminIDs    []int64

	mu    sync.Mutex
	carts map[int64]map[int64]int // user id -> variant id -> quantity
}

// NewCheckoutService creates a new CheckoutService. adminIDs is the
// allow-list of operators notified when a new order is placed.
func NewCheckoutService(orderRepo repositories.OrderRepository, variantRepo repositories.VariantRepository, notifier Notifier, adminIDs []int64) *CheckoutService {
	return &CheckoutService{
		orderRepo:   orderRepo,
		variantRepo: variantRepo,
		notifier:    notifier,
		adminIDs:    adminIDs,
		carts:       make(map[int64]map[int64]int),
	}
}

// ContactDetails are the delivery details collected at checkout.
type ContactDetails struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"required,min=1,max=500"`
	Phone   string `json:"phone" validate:"required,min=5,max=32"`
}

// AddItem adds one unit of a variant to the customer's cart. The cart is
// capped at the quantity on hand so a customer cannot reserve more than
// the catalog can sell.
func (s *CheckoutService) AddItem(userID, variantID int64) error {
	detail, err := s.variantRepo.GetDetail(variantID)
	if err != nil {
		return fmt.Errorf("variant %d not available: %w", variantID, err)
	}
	if detail.Quantity <= 0 {
		return fmt.Errorf("variant %d is out of stock", variantID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[userID]
	if cart == nil {
		cart = make(map[int64]int)
		s.carts[userID] = cart
	}
	if cart[variantID] >= detail.Quantity {
		return fmt.Errorf("no more stock available for variant %d", variantID)
	}
	cart[variantID]++
	return nil
}

// RemoveItem removes one unit of a variant from the customer's cart,
// dropping the line when it reaches zero.
func (s *CheckoutService) RemoveItem(userID, variantID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[userID]
	if cart == nil {
		return
	}
	cart[variantID]--
	if cart[variantID] <= 0 {
		delete(cart, variantID)
	}
}

// ClearCart drops the customer's cart.
func (s *CheckoutService) ClearCart(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
}

// Cart returns a frozen view of the customer's current cart with names and
// prices as the catalog shows them right now. This is a preview; the
// binding copy is taken again at checkout.
func (s *CheckoutService) Cart(userID int64) (models.CartSnapshot, error) {
	s.mu.Lock()
	live := make(map[int64]int, len(s.carts[userID]))
	for variantID, qty := range s.carts[userID] {
		live[variantID] = qty
	}
	s.mu.Unlock()

	return s.freeze(live)
}

// Checkout freezes the customer's cart into an order with status
// pending_payment, computing the total once from the frozen prices, and
// notifies the admins best-effort. The cart is cleared on success.
func (s *CheckoutService) Checkout(userID int64, details ContactDetails) (*models.Order, error) {
	s.mu.Lock()
	live := make(map[int64]int, len(s.carts[userID]))
	for variantID, qty := range s.carts[userID] {
		live[variantID] = qty
	}
	s.mu.Unlock()

	if len(live) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	snapshot, err := s.freeze(live)
	if err != nil {
		return nil, err
	}
	raw, err := models.EncodeCartSnapshot(snapshot)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:      userID,
		UserName:    details.Name,
		UserAddress: details.Address,
		UserPhone:   details.Phone,
		Cart:        raw,
		TotalPrice:  snapshot.Total(),
		Status:      models.StatusPendingPayment,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.ClearCart(userID)

	notifyAll(s.notifier, s.adminIDs,
		fmt.Sprintf("New order #%d from %s, total %.2f, awaiting payment.", order.ID, details.Name, order.TotalPrice))
	log.Printf("order %d created for user %d, total %.2f", order.ID, userID, order.TotalPrice)
	return order, nil
}

// freeze copies current display names and unit prices out of the catalog
// for every line of a live cart. A variant that disappeared since it was
// added is dropped from the snapshot.
func (s *CheckoutService) freeze(live map[int64]int) (models.CartSnapshot, error) {
	snapshot := make(models.CartSnapshot, len(live))
	for variantID, qty := range live {
		detail, err := s.variantRepo.GetDetail(variantID)
		if err != nil {
			log.Printf("variant %d vanished from catalog, dropping cart line: %v", variantID, err)
			continue
		}
		snapshot.SetItem(variantID, models.LineItem{
			Name:     detail.DisplayName(),
			Price:    detail.Price,
			Quantity: qty,
		})
	}
	return snapshot, nil
}
