package handlers

import (
	"errors"
	"log"
	"strconv"

	"lapak/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respondOrderError maps lifecycle errors onto HTTP responses with a short
// user-facing message. Stack detail stays in the logs.
func respondOrderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	case errors.Is(err, services.ErrOrderFinalized):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "This order is already finished or cancelled",
		})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You cannot act on this order",
		})
	case errors.Is(err, services.ErrMalformedRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
		})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "The order status does not allow this action",
		})
	case errors.Is(err, services.ErrInventoryUpdate):
		log.Printf("ERROR: inventory update failure surfaced to caller: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Stock update failed, please try again",
		})
	default:
		log.Printf("unexpected order error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
		})
	}
}

// paramID parses a positive int64 route parameter.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id parameter")
	}
	return id, nil
}
