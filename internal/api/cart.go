package api

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/service"
)

type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new instance of CartHandler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart returns the current cart snapshot with totals --> GET /cart
func (h *CartHandler) GetCart(c echo.Context) error {
	userID := identityFromContext(c)

	cart, err := h.cartService.GetCart(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, map[string]interface{}{
		"items": cart.Items,
		"total": cart.Total(),
		"count": cart.Count(),
	})
}

// AddItem adds one unit of a product to the cart --> POST /cart/items
func (h *CartHandler) AddItem(c echo.Context) error {
	userID := identityFromContext(c)

	payload := struct {
		ProductID int `json:"product_id"`
	}{}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	cart, err := h.cartService.AddToCart(c.Request().Context(), userID, payload.ProductID)
	if err != nil {
		return cartError(c, err)
	}

	return c.JSON(200, cart)
}

// UpdateItem sets the quantity of a cart line --> PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c echo.Context) error {
	userID := identityFromContext(c)

	id := c.Param("id")
	idInt, err := strconv.Atoi(id)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	payload := struct {
		Quantity int `json:"quantity"`
	}{}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	cart, err := h.cartService.UpdateQuantity(c.Request().Context(), userID, idInt, payload.Quantity)
	if err != nil {
		return cartError(c, err)
	}

	return c.JSON(200, cart)
}

// RemoveItem removes a cart line --> DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID := identityFromContext(c)

	id := c.Param("id")
	idInt, err := strconv.Atoi(id)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	cart, err := h.cartService.RemoveFromCart(c.Request().Context(), userID, idInt)
	if err != nil {
		return cartError(c, err)
	}

	return c.JSON(200, cart)
}

// ClearCart removes every line from the cart --> DELETE /cart
func (h *CartHandler) ClearCart(c echo.Context) error {
	userID := identityFromContext(c)

	cart, err := h.cartService.ClearCart(c.Request().Context(), userID)
	if err != nil {
		return cartError(c, err)
	}

	return c.JSON(200, cart)
}

func cartError(c echo.Context, err error) error {
	if errors.Is(err, service.ErrAuthenticationRequired) {
		return c.JSON(401, map[string]string{"error": err.Error()})
	}
	return c.JSON(500, map[string]string{"error": err.Error()})
}
