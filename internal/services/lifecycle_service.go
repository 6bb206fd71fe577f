package services

import (
	"fmt"
	"log"
	"sync"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// LifecycleService is the order status state machine. It validates a
// requested transition, applies the inventory side effect at most once per
// order lifecycle (debit on confirm, credit back on reject or cancel),
// then writes the new status. The deducted-from-stock marker makes the
// inventory step idempotent under repeated delivery of the same trigger,
// and a per-order mutex serializes concurrent triggers racing on one id.
type LifecycleService struct {
	orderRepo   repositories.OrderRepository
	variantRepo repositories.VariantRepository

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(orderRepo repositories.OrderRepository, variantRepo repositories.VariantRepository) *LifecycleService {
	return &LifecycleService{
		orderRepo:   orderRepo,
		variantRepo: variantRepo,
		locks:       make(map[int64]*sync.Mutex),
	}
}

// lockOrder returns the mutex serializing transitions for one order id.
// Entries are kept for the life of the process; growth is bounded by the
// number of orders ever touched.
func (s *LifecycleService) lockOrder(id int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// MarkPaid moves a customer's own order from pending_payment to
// pending_verification. No inventory effect.
func (s *LifecycleService) MarkPaid(orderID, callerID int64) (*models.Order, error) {
	l := s.lockOrder(orderID)
	l.Lock()
	defer l.Unlock()

	order, err := s.loadOwned(orderID, callerID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusPendingPayment {
		return nil, fmt.Errorf("%w: order %d is %s", ErrInvalidTransition, orderID, order.Status)
	}
	if err := s.orderRepo.UpdateStatus(orderID, models.StatusPendingVerification); err != nil {
		return nil, fmt.Errorf("failed to mark order %d paid: %w", orderID, err)
	}
	order.Status = models.StatusPendingVerification
	return order, nil
}

// Confirm moves an order from pending_verification to confirmed, debiting
// each line item's quantity from its variant. The debit happens only if
// the deducted marker is unset, so confirming twice debits exactly once.
func (s *LifecycleService) Confirm(orderID int64) (*models.Order, error) {
	l := s.lockOrder(orderID)
	l.Lock()
	defer l.Unlock()

	order, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusPendingVerification &&
		order.Status != models.StatusConfirmed { // re-delivered confirm is tolerated
		return nil, fmt.Errorf("%w: order %d is %s", ErrInvalidTransition, orderID, order.Status)
	}
	if err := s.debit(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(orderID, models.StatusConfirmed); err != nil {
		return nil, fmt.Errorf("failed to confirm order %d: %w", orderID, err)
	}
	order.Status = models.StatusConfirmed
	order.DeductedFromStock = 1
	return order, nil
}

// Reject moves an active, payment-marked order to the terminal rejected
// status, crediting stock back if it had been debited.
func (s *LifecycleService) Reject(orderID int64) (*models.Order, error) {
	l := s.lockOrder(orderID)
	l.Lock()
	defer l.Unlock()

	order, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.StatusPendingPayment {
		return nil, fmt.Errorf("%w: order %d has not been marked paid", ErrInvalidTransition, orderID)
	}
	if err := s.credit(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(orderID, models.StatusRejected); err != nil {
		return nil, fmt.Errorf("failed to reject order %d: %w", orderID, err)
	}
	order.Status = models.StatusRejected
	order.DeductedFromStock = 0
	return order, nil
}

// Cancel moves a customer's own active order to the terminal
// cancelled_by_client status, crediting stock back if it had been debited.
func (s *LifecycleService) Cancel(orderID, callerID int64) (*models.Order, error) {
	l := s.lockOrder(orderID)
	l.Lock()
	defer l.Unlock()

	order, err := s.loadOwned(orderID, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.credit(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(orderID, models.StatusCancelledByClient); err != nil {
		return nil, fmt.Errorf("failed to cancel order %d: %w", orderID, err)
	}
	order.Status = models.StatusCancelledByClient
	order.DeductedFromStock = 0
	return order, nil
}

// forwardSteps maps each shipping status to the status it advances from.
var forwardSteps = map[string]string{
	models.StatusPreparing: models.StatusConfirmed,
	models.StatusShipped:   models.StatusPreparing,
	models.StatusDelivered: models.StatusShipped,
}

// Advance moves an order one step along the forward shipping chain
// confirmed -> preparing -> shipped -> delivered. An unknown target is a
// malformed request; a wrong predecessor is an invalid transition. No
// inventory effect.
func (s *LifecycleService) Advance(orderID int64, target string) (*models.Order, error) {
	from, ok := forwardSteps[target]
	if !ok {
		return nil, fmt.Errorf("%w: unknown shipping status %q", ErrMalformedRequest, target)
	}

	l := s.lockOrder(orderID)
	l.Lock()
	defer l.Unlock()

	order, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != from {
		return nil, fmt.Errorf("%w: order %d is %s, cannot move to %s", ErrInvalidTransition, orderID, order.Status, target)
	}
	if err := s.orderRepo.UpdateStatus(orderID, target); err != nil {
		return nil, fmt.Errorf("failed to advance order %d to %s: %w", orderID, target, err)
	}
	order.Status = target
	return order, nil
}

// load fetches the order and applies the not-found and terminal guards.
func (s *LifecycleService) load(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderNotFound, err)
	}
	if models.IsFinalStatus(order.Status) {
		return nil, fmt.Errorf("%w: order %d is %s", ErrOrderFinalized, orderID, order.Status)
	}
	return order, nil
}

// loadOwned is load plus the owner check for customer-initiated triggers.
func (s *LifecycleService) loadOwned(orderID, callerID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderNotFound, err)
	}
	if order.UserID != callerID {
		return nil, fmt.Errorf("%w: order %d belongs to another customer", ErrUnauthorized, orderID)
	}
	if models.IsFinalStatus(order.Status) {
		return nil, fmt.Errorf("%w: order %d is %s", ErrOrderFinalized, orderID, order.Status)
	}
	return order, nil
}

// debit subtracts each line item's quantity from its variant and sets the
// deducted marker. A set marker makes the whole call a no-op.
func (s *LifecycleService) debit(order *models.Order) error {
	if order.DeductedFromStock == 1 {
		return nil
	}
	return s.adjustAndFlip(order, -1, true)
}

// credit restores each line item's quantity to its variant and clears the
// deducted marker. A cleared marker makes the whole call a no-op.
func (s *LifecycleService) credit(order *models.Order) error {
	if order.DeductedFromStock != 1 {
		return nil
	}
	return s.adjustAndFlip(order, +1, false)
}

// adjustAndFlip walks the frozen cart snapshot applying sign*quantity to
// each variant, then flips the marker. All variant adjustments are applied
// before the marker is written; any adjustment error reverses the deltas
// already applied and aborts with the status and marker untouched, so the
// caller never observes a partial debit or credit. A variant missing from
// the catalog is tolerated: its adjustment is skipped and logged, and the
// transition proceeds.
func (s *LifecycleService) adjustAndFlip(order *models.Order, sign int, deducted bool) error {
	snapshot, err := models.DecodeCartSnapshot(order.Cart)
	if err != nil {
		log.Printf("ERROR: order %d has an unreadable cart snapshot: %v", order.ID, err)
		return fmt.Errorf("%w: order %d: %v", ErrInventoryUpdate, order.ID, err)
	}

	applied := make(map[int64]int)
	for _, variantID := range snapshot.VariantIDs() {
		item, _ := snapshot.Item(variantID)
		found, err := s.variantRepo.AdjustStock(variantID, sign*item.Quantity)
		if err != nil {
			log.Printf("ERROR: stock adjustment failed for order %d, variant %d: %v", order.ID, variantID, err)
			s.reverse(order.ID, applied)
			return fmt.Errorf("%w: order %d, variant %d: %v", ErrInventoryUpdate, order.ID, variantID, err)
		}
		if !found {
			log.Printf("variant %d no longer in catalog, skipping stock adjustment for order %d", variantID, order.ID)
			continue
		}
		applied[variantID] = sign * item.Quantity
	}

	if err := s.orderRepo.SetDeducted(order.ID, deducted); err != nil {
		log.Printf("ERROR: failed to flip deducted marker for order %d: %v", order.ID, err)
		s.reverse(order.ID, applied)
		return fmt.Errorf("%w: order %d: %v", ErrInventoryUpdate, order.ID, err)
	}
	if deducted {
		order.DeductedFromStock = 1
	} else {
		order.DeductedFromStock = 0
	}
	return nil
}

// reverse compensates stock adjustments already applied by a failed
// transition. A reversal that itself fails is logged at error severity for
// operator follow-up; it cannot be retried here without risking a double
// credit.
func (s *LifecycleService) reverse(orderID int64, applied map[int64]int) {
	for variantID, delta := range applied {
		if _, err := s.variantRepo.AdjustStock(variantID, -delta); err != nil {
			log.Printf("ERROR: failed to reverse stock adjustment of %d for order %d, variant %d: %v",
				delta, orderID, variantID, err)
		}
	}
}
