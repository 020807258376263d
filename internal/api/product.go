package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/entity"
	"storefront/internal/service"
)

type ProductHandler struct {
	catalogService *service.CatalogService
}

// NewProductHandler creates a new instance of ProductHandler
func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// ListProducts lists products, filtered by query params --> GET /products?category=&search=
func (h *ProductHandler) ListProducts(c echo.Context) error {
	category := c.QueryParam("category")
	search := c.QueryParam("search")

	products, err := h.catalogService.ListProducts(c.Request().Context(), category, search)
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, products)
}

// CreateProduct adds a product to the catalog --> POST /products
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	created, err := h.catalogService.CreateProduct(c.Request().Context(), &product)
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, created)
}

// GetProduct gets one product --> GET /products/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id := c.Param("id")
	idInt, err := strconv.Atoi(id)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}

	product, err := h.catalogService.GetProduct(c.Request().Context(), idInt)
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, product)
}

// GetProductStock gets the stock of a product --> GET /products/:id/stock
func (h *ProductHandler) GetProductStock(c echo.Context) error {
	id := c.Param("id")
	idInt, err := strconv.Atoi(id)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid product ID"})
	}

	stock, err := h.catalogService.GetProductStock(c.Request().Context(), idInt)
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, map[string]int{"stock": stock})
}

// PreWarmupCache pre-warms the cache with product data --> GET /products/warmup-cache
func (h *ProductHandler) PreWarmupCache(c echo.Context) error {
	err := h.catalogService.PreWarmCache(c.Request().Context())
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, map[string]string{"message": "Cache pre-warmed"})
}
