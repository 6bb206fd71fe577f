package handlers

import (
	"fmt"
	"log"
	"time"

	"lapak/internal/models"
	"lapak/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the operator endpoints: order verification and
// rejection, shipping-status updates, sales reports and variant edits.
// Privilege checks happen in the middleware; handlers translate actions
// into lifecycle calls and notify the customer best-effort.
type AdminHandler struct {
	lifecycle *services.LifecycleService
	catalog   *services.CatalogService
	report    *services.ReportService
	notifier  services.Notifier
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(lifecycle *services.LifecycleService, catalog *services.CatalogService, report *services.ReportService, notifier services.Notifier) *AdminHandler {
	return &AdminHandler{
		lifecycle: lifecycle,
		catalog:   catalog,
		report:    report,
		notifier:  notifier,
	}
}

// RegisterRoutes registers the admin routes with the Fiber app.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/orders", h.HandleListOrders)
	router.Get("/orders/:id", h.HandleGetOrder)
	router.Post("/orders/:id/decision", h.HandleDecision)
	router.Post("/orders/:id/status", h.HandleShippingStatus)
	router.Get("/reports/weekly", h.HandleWeeklyReport)
	router.Patch("/variants/:id", h.HandleUpdateVariant)
}

// HandleListOrders lists all orders, filter=active|finished.
func (h *AdminHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.lifecycle.AllOrders(c.Query("filter"))
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrder shows any order.
func (h *AdminHandler) HandleGetOrder(c *fiber.Ctx) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order id",
		})
	}
	order, err := h.lifecycle.GetAny(orderID)
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(order)
}

// HandleDecision performs the admin's confirm-or-reject decision on an
// order awaiting verification. Confirm debits stock (once); reject credits
// it back (once). The customer is notified either way.
func (h *AdminHandler) HandleDecision(c *fiber.Ctx) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order id",
		})
	}
	var req struct {
		Action string `json:"action"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	var order *models.Order
	var customerText string
	switch req.Action {
	case "confirm":
		order, err = h.lifecycle.Confirm(orderID)
		customerText = fmt.Sprintf("Your order #%d has been confirmed! You can track it in your order history.", orderID)
	case "reject":
		order, err = h.lifecycle.Reject(orderID)
		customerText = fmt.Sprintf("Your order #%d was rejected by the administrator.", orderID)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "action must be 'confirm' or 'reject'",
		})
	}
	if err != nil {
		return respondOrderError(c, err)
	}

	h.notifyCustomer(order.UserID, customerText)
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %d is now %s", order.ID, order.Status),
		"order":   order,
	})
}

var shippingStatusTexts = map[string]string{
	models.StatusPreparing: "Your order #%d is being prepared for delivery.",
	models.StatusShipped:   "Your order #%d has been shipped.",
	models.StatusDelivered: "Your order #%d has been delivered. Thank you!",
}

// HandleShippingStatus advances an order along the forward chain
// preparing -> shipped -> delivered. The target status comes from the
// payload; anything unknown is rejected rather than guessed.
func (h *AdminHandler) HandleShippingStatus(c *fiber.Ctx) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order id",
		})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "status is required",
		})
	}

	order, err := h.lifecycle.Advance(orderID, req.Status)
	if err != nil {
		return respondOrderError(c, err)
	}

	if text, ok := shippingStatusTexts[order.Status]; ok {
		h.notifyCustomer(order.UserID, fmt.Sprintf(text, order.ID))
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %d is now %s", order.ID, order.Status),
		"order":   order,
	})
}

// HandleWeeklyReport summarizes confirmed orders over the last seven days.
func (h *AdminHandler) HandleWeeklyReport(c *fiber.Ctx) error {
	report, err := h.report.WeeklySales(time.Now())
	if err != nil {
		log.Printf("Error building weekly report: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not build report",
		})
	}
	return c.JSON(report)
}

// HandleUpdateVariant saves a price or stock edit on a variant.
func (h *AdminHandler) HandleUpdateVariant(c *fiber.Ctx) error {
	variantID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid variant id",
		})
	}
	variant, err := h.catalog.GetVariantRecord(variantID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Variant not found",
		})
	}

	var req struct {
		Price    *float64 `json:"price"`
		Quantity *int     `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if req.Price == nil && req.Quantity == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "price or quantity is required",
		})
	}
	if req.Price != nil && *req.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "price must be positive",
		})
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "quantity cannot be negative",
		})
	}

	if req.Price != nil {
		variant.Price = *req.Price
	}
	if req.Quantity != nil {
		variant.Quantity = *req.Quantity
	}
	if err := h.catalog.UpdateVariant(variant); err != nil {
		log.Printf("Error updating variant %d: %v", variantID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update variant",
		})
	}
	return c.JSON(variant)
}

func (h *AdminHandler) notifyCustomer(userID int64, text string) {
	if h.notifier == nil {
		return
	}
	if err := h.notifier.Notify(userID, text); err != nil {
		log.Printf("Warning: failed to notify customer %d: %v", userID, err)
	}
}
