package service

import (
	"context"

	"storefront/internal/entity"
)

// OrderHistoryRepository is the read contract of the history view.
// Implemented by repository.OrderRepository.
type OrderHistoryRepository interface {
	GetOrdersByUser(ctx context.Context, userID int) ([]*entity.Order, error)
	GetOrderItems(ctx context.Context, userID, orderID int) ([]entity.OrderItem, error)
}

// OrderHistoryService is the display-only view of past orders.
type OrderHistoryService struct {
	orderRepo OrderHistoryRepository
}

func NewOrderHistoryService(orderRepo OrderHistoryRepository) *OrderHistoryService {
	return &OrderHistoryService{orderRepo: orderRepo}
}

// GetOrders returns the user's orders most-recent-first with their line
// items. Line items are fetched per order, concurrently; a failed line fetch
// leaves that order without items and does not abort the others. A failed
// top-level fetch degrades to an empty list.
func (s *OrderHistoryService) GetOrders(ctx context.Context, userID int) ([]*entity.Order, error) {
	if userID == 0 {
		return []*entity.Order{}, nil
	}

	orders, err := s.orderRepo.GetOrdersByUser(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error loading orders for user %d", userID)
		return []*entity.Order{}, nil
	}

	itemsCh := make(chan struct {
		Index int
		Items []entity.OrderItem
		Error error
	}, len(orders))

	for i, order := range orders {
		go func(i, orderID int) {
			items, err := s.orderRepo.GetOrderItems(ctx, userID, orderID)
			itemsCh <- struct {
				Index int
				Items []entity.OrderItem
				Error error
			}{Index: i, Items: items, Error: err}
		}(i, order.ID)
	}

	for range orders {
		result := <-itemsCh
		if result.Error != nil {
			logger.Error().Err(result.Error).Msgf("Error loading items for order %d", orders[result.Index].ID)
			continue
		}
		orders[result.Index].Items = result.Items
	}

	return orders, nil
}
