package services

import (
	"fmt"

	"lapak/internal/models"
)

// Order history filters.
const (
	FilterActive   = "active"
	FilterFinished = "finished"
)

// GetOwned returns one order after checking it belongs to the caller.
// Unlike the transition path there is no terminal guard; finished orders
// remain readable as an audit trail.
func (s *LifecycleService) GetOwned(orderID, callerID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderNotFound, err)
	}
	if order.UserID != callerID {
		return nil, fmt.Errorf("%w: order %d belongs to another customer", ErrUnauthorized, orderID)
	}
	return order, nil
}

// GetAny returns one order without an ownership check, for admin views.
func (s *LifecycleService) GetAny(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderNotFound, err)
	}
	return order, nil
}

// History lists a customer's own orders, optionally filtered to active or
// finished ones. An empty filter lists everything.
func (s *LifecycleService) History(userID int64, filter string) ([]models.Order, error) {
	orders, err := s.orderRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	return filterOrders(orders, filter)
}

// AllOrders lists every order for the admin views, with the same filters.
func (s *LifecycleService) AllOrders(filter string) ([]models.Order, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, err
	}
	return filterOrders(orders, filter)
}

func filterOrders(orders []models.Order, filter string) ([]models.Order, error) {
	switch filter {
	case "":
		return orders, nil
	case FilterActive:
		kept := orders[:0]
		for _, order := range orders {
			if models.IsActiveStatus(order.Status) {
				kept = append(kept, order)
			}
		}
		return kept, nil
	case FilterFinished:
		kept := orders[:0]
		for _, order := range orders {
			if models.IsFinalStatus(order.Status) {
				kept = append(kept, order)
			}
		}
		return kept, nil
	default:
		return nil, fmt.Errorf("%w: unknown filter %q", ErrMalformedRequest, filter)
	}
}
