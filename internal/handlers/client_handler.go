package handlers

import (
	"fmt"
	"log"

	"lapak/internal/middleware"
	"lapak/internal/models"
	"lapak/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ClientHandler handles the customer-facing cart, checkout and order
// endpoints, including the customer-initiated order transitions.
type ClientHandler struct {
	checkout    *services.CheckoutService
	lifecycle   *services.LifecycleService
	notifier    services.Notifier
	adminIDs    []int64
	paymentLink string
	validate    *validator.Validate
}

// NewClientHandler creates a new ClientHandler. adminIDs is the allow-list
// notified of customer actions (payment marked, order cancelled);
// paymentLink is the manual-payment instruction shown after checkout.
func NewClientHandler(checkout *services.CheckoutService, lifecycle *services.LifecycleService, notifier services.Notifier, adminIDs []int64, paymentLink string) *ClientHandler {
	return &ClientHandler{
		checkout:    checkout,
		lifecycle:   lifecycle,
		notifier:    notifier,
		adminIDs:    adminIDs,
		paymentLink: paymentLink,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the customer routes with the Fiber app.
func (h *ClientHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/cart", h.HandleGetCart)
	router.Post("/cart/items", h.HandleAddCartItem)
	router.Delete("/cart/items/:variantID", h.HandleRemoveCartItem)
	router.Post("/checkout", h.HandleCheckout)

	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Post("/:id/paid", h.HandleMarkPaid)
	orderRoutes.Post("/:id/cancel", h.HandleCancelPrompt)
	orderRoutes.Post("/:id/cancel/confirm", h.HandleCancelConfirm)
}

// HandleGetCart shows the caller's current cart with live prices.
func (h *ClientHandler) HandleGetCart(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	snapshot, err := h.checkout.Cart(userID)
	if err != nil {
		log.Printf("Error building cart view for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load cart",
		})
	}
	return c.JSON(fiber.Map{
		"items": snapshot,
		"total": snapshot.Total(),
	})
}

// HandleAddCartItem adds one unit of a variant to the caller's cart.
func (h *ClientHandler) HandleAddCartItem(c *fiber.Ctx) error {
	var req struct {
		VariantID int64 `json:"variant_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.VariantID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "variant_id is required",
		})
	}
	if err := h.checkout.AddItem(middleware.UserID(c), req.VariantID); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Item added to cart",
	})
}

// HandleRemoveCartItem removes one unit of a variant from the caller's cart.
func (h *ClientHandler) HandleRemoveCartItem(c *fiber.Ctx) error {
	variantID, err := paramID(c, "variantID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid variant id",
		})
	}
	h.checkout.RemoveItem(middleware.UserID(c), variantID)
	return c.JSON(fiber.Map{
		"message": "Item removed from cart",
	})
}

// HandleCheckout freezes the caller's cart into a pending_payment order.
func (h *ClientHandler) HandleCheckout(c *fiber.Ctx) error {
	var details services.ContactDetails
	if err := c.BodyParser(&details); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(details); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	order, err := h.checkout.Checkout(middleware.UserID(c), details)
	if err != nil {
		log.Printf("Error during checkout for user %d: %v", middleware.UserID(c), err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Checkout failed",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order":        order,
		"payment_link": h.paymentLink,
		"message":      fmt.Sprintf("Order #%d placed. Pay %.2f and press 'paid' so we can verify.", order.ID, order.TotalPrice),
	})
}

// HandleListOrders lists the caller's orders, filter=active|finished.
func (h *ClientHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.lifecycle.History(middleware.UserID(c), c.Query("filter"))
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrder shows one of the caller's own orders.
func (h *ClientHandler) HandleGetOrder(c *fiber.Ctx) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order id",
		})
	}
	order, err := h.lifecycle.GetOwned(orderID, middleware.UserID(c))
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(order)
}

// HandleMarkPaid records that the caller paid, moving the order to
// pending_verification and telling the admins to verify the payment.
func (h *ClientHandler) HandleMarkPaid(c *fiber.Ctx) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order id",
		})
	}
	order, err := h.lifecycle.MarkPaid(orderID, middleware.UserID(c))
	if err != nil {
		return respondOrderError(c, err)
	}

	h.notifyAdmins(fmt.Sprintf("Customer %s reported payment for order #%d (%.2f), please verify.",
		order.UserName, order.ID, order.TotalPrice))
	return c.JSON(fiber.Map{
		"message": "Payment recorded, awaiting verification",
		"order":   order,
	})
}

// HandleCancelPrompt is the first step of the two-step cancellation: it
// performs no transition and only tells the client how to confirm, so a
// single misclick cannot restore stock.
func (h *ClientHandler) HandleCancelPrompt(c *fiber.Ctx) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order id",
		})
	}
	// Surface ownership and terminal-state problems now rather than after
	// the user confirms.
	order, err := h.lifecycle.GetOwned(orderID, middleware.UserID(c))
	if err != nil {
		return respondOrderError(c, err)
	}
	if models.IsFinalStatus(order.Status) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "This order is already finished or cancelled",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Are you sure you want to cancel this order?",
		"confirm": fmt.Sprintf("/api/v1/orders/%d/cancel/confirm", orderID),
	})
}

// HandleCancelConfirm is the second, distinct action that actually cancels
// the order, crediting stock back if it had been debited.
func (h *ClientHandler) HandleCancelConfirm(c *fiber.Ctx) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order id",
		})
	}
	order, err := h.lifecycle.Cancel(orderID, middleware.UserID(c))
	if err != nil {
		return respondOrderError(c, err)
	}

	h.notifyAdmins(fmt.Sprintf("Customer %s cancelled order #%d (%.2f).",
		order.UserName, order.ID, order.TotalPrice))
	return c.JSON(fiber.Map{
		"message": "Your order has been cancelled",
		"order":   order,
	})
}

func (h *ClientHandler) notifyAdmins(text string) {
	for _, adminID := range h.adminIDs {
		if h.notifier == nil {
			return
		}
		if err := h.notifier.Notify(adminID, text); err != nil {
			log.Printf("Warning: failed to notify admin %d: %v", adminID, err)
		}
	}
}
