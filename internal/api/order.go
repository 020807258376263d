package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"storefront/internal/entity"
	"storefront/internal/service"
)

type OrderHandler struct {
	checkoutService *service.CheckoutService
	historyService  *service.OrderHistoryService
}

// NewOrderHandler creates a new instance of OrderHandler
func NewOrderHandler(checkoutService *service.CheckoutService, historyService *service.OrderHistoryService) *OrderHandler {
	return &OrderHandler{checkoutService: checkoutService, historyService: historyService}
}

// Checkout turns the cart into an order --> POST /checkout
func (h *OrderHandler) Checkout(c echo.Context) error {
	userID := identityFromContext(c)

	shipping := entity.ShippingAddress{}
	if err := c.Bind(&shipping); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	idempotentKey := c.Request().Header.Get("Idempotent-Key")

	order, err := h.checkoutService.Checkout(c.Request().Context(), userID, shipping, idempotentKey)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthenticationRequired):
			return c.JSON(401, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrEmptyCart):
			return c.JSON(400, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOutOfStock), errors.Is(err, service.ErrDuplicateCheckout):
			return c.JSON(409, map[string]string{"error": err.Error()})
		}
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, order)
}

// GetOrders returns the user's order history, newest first --> GET /orders
func (h *OrderHandler) GetOrders(c echo.Context) error {
	userID := identityFromContext(c)

	orders, err := h.historyService.GetOrders(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, orders)
}
