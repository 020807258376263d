package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"storefront/internal/entity"
)

// OrderCreator persists an order with its lines atomically. Implemented by
// repository.OrderRepository.
type OrderCreator interface {
	CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error)
}

// StockChecker reports current stock for a product. Implemented by
// CatalogService.
type StockChecker interface {
	GetProductStock(ctx context.Context, productID int) (int, error)
}

// EventPublisher emits order events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// IdempotencyStore claims checkout keys so a retried request cannot place a
// second order.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// CheckoutService turns the current cart snapshot into a persisted order
// plus line records, then clears the cart.
type CheckoutService struct {
	carts     *CartService
	orders    OrderCreator
	stock     StockChecker
	publisher EventPublisher
	idem      IdempotencyStore
}

func NewCheckoutService(carts *CartService, orders OrderCreator, stock StockChecker, publisher EventPublisher, idem IdempotencyStore) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		orders:    orders,
		stock:     stock,
		publisher: publisher,
		idem:      idem,
	}
}

// Checkout places an order for the user's whole cart. Each line captures the
// product's current price; the order total is the same fold the cart view
// reports. Order and lines are written in one transaction. Once that commits
// the order stands: the cart clear and the order event are best-effort, a
// failure in either is logged and the created order is still returned.
func (s *CheckoutService) Checkout(ctx context.Context, userID int, shipping entity.ShippingAddress, idempotentKey string) (*entity.Order, error) {
	if userID == 0 {
		return nil, ErrAuthenticationRequired
	}

	if idempotentKey == "" {
		idempotentKey = uuid.NewString()
	}
	claimed, err := s.idem.Claim(ctx, idempotentKey)
	if err != nil {
		logger.Error().Err(err).Msg("Error claiming idempotency key")
		return nil, err
	}
	if !claimed {
		return nil, ErrDuplicateCheckout
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if err := s.checkStock(ctx, cart); err != nil {
		return nil, err
	}

	order := &entity.Order{
		UserID:      userID,
		TotalAmount: cart.Total(),
		Status:      "pending",
		Shipping:    shipping,
	}
	for _, item := range cart.Items {
		var price float64
		if item.Product != nil {
			price = item.Product.Price
		}
		order.Items = append(order.Items, entity.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
		})
	}

	created, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating order for user %d", userID)
		return nil, err
	}

	if _, err := s.carts.ClearCart(ctx, userID); err != nil {
		logger.Error().Err(err).Msgf("Error clearing cart after checkout for user %d", userID)
	}

	payload, err := json.Marshal(created)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling order %d event", created.ID)
		return created, nil
	}
	key := fmt.Sprintf("order.created.%d", created.ID)
	if err := s.publisher.Publish(ctx, key, payload); err != nil {
		logger.Error().Err(err).Msgf("Error publishing order %d event", created.ID)
	}

	return created, nil
}

// checkStock verifies every cart line against current stock. Lookups fan out
// concurrently, one goroutine per line.
func (s *CheckoutService) checkStock(ctx context.Context, cart entity.Cart) error {
	stockCh := make(chan struct {
		ProductID int
		Quantity  int
		Stock     int
		Error     error
	}, len(cart.Items))

	for _, item := range cart.Items {
		go func(item entity.CartItem) {
			stock, err := s.stock.GetProductStock(ctx, item.ProductID)
			stockCh <- struct {
				ProductID int
				Quantity  int
				Stock     int
				Error     error
			}{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Stock:     stock,
				Error:     err,
			}
		}(item)
	}

	for range cart.Items {
		result := <-stockCh
		if result.Error != nil {
			logger.Error().Err(result.Error).Msgf("Error checking stock for product %d", result.ProductID)
			return result.Error
		}
		if result.Stock < result.Quantity {
			logger.Warn().Msgf("Product %d out of stock", result.ProductID)
			return ErrOutOfStock
		}
	}

	return nil
}
