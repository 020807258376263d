package service

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/rs/zerolog"

	"storefront/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// CartRepository is the persistence contract the cart coordinator needs.
// Implemented by repository.CartRepository.
type CartRepository interface {
	GetCartItems(ctx context.Context, userID int) ([]entity.CartItem, error)
	GetCartItemByProduct(ctx context.Context, userID, productID int) (*entity.CartItem, error)
	InsertCartItem(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID, quantity int) error
	DeleteCartItem(ctx context.Context, userID, itemID int) error
	ClearCart(ctx context.Context, userID int) error
}

// CartCache holds the per-user settled snapshot. Get returns (nil, nil) on a
// miss.
type CartCache interface {
	Get(ctx context.Context, userID int) (*entity.Cart, error)
	Set(ctx context.Context, userID int, cart entity.Cart) error
	Invalidate(ctx context.Context, userID int) error
}

// CartService coordinates a user's cart against the persisted lines.
//
// Consistency policy is read-after-write: every mutation invalidates the
// cached snapshot, applies the write, then reloads the whole cart from the
// database and returns the fresh snapshot. The snapshot is never patched in
// place. Two rapid mutations from the same user race their reloads and the
// last reload wins; that window is accepted.
type CartService struct {
	cartRepo CartRepository
	cache    CartCache
}

func NewCartService(cartRepo CartRepository, cache CartCache) *CartService {
	return &CartService{cartRepo: cartRepo, cache: cache}
}

// GetCart returns the user's settled cart snapshot. Without an identity the
// cart is empty and no error is raised. Read failures degrade to an empty
// snapshot: they are logged, not propagated.
func (s *CartService) GetCart(ctx context.Context, userID int) (entity.Cart, error) {
	if userID == 0 {
		return entity.Cart{}, nil
	}

	cached, err := s.cache.Get(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Msgf("Error reading cart snapshot for user %d from cache", userID)
	} else if cached != nil {
		return *cached, nil
	}

	items, err := s.cartRepo.GetCartItems(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error loading cart for user %d", userID)
		return entity.Cart{}, nil
	}

	cart := entity.Cart{Items: items}
	if err := s.cache.Set(ctx, userID, cart); err != nil {
		logger.Warn().Err(err).Msgf("Error caching cart snapshot for user %d", userID)
	}

	return cart, nil
}

// AddToCart adds one unit of a product. An existing line for the product is
// incremented instead of duplicated, so at most one line exists per
// (user, product) pair.
func (s *CartService) AddToCart(ctx context.Context, userID, productID int) (entity.Cart, error) {
	if userID == 0 {
		return entity.Cart{}, ErrAuthenticationRequired
	}

	existing, err := s.cartRepo.GetCartItemByProduct(ctx, userID, productID)
	switch {
	case err == nil:
		return s.UpdateQuantity(ctx, userID, existing.ID, existing.Quantity+1)
	case errors.Is(err, sql.ErrNoRows):
		item := &entity.CartItem{UserID: userID, ProductID: productID, Quantity: 1}
		if _, err := s.cartRepo.InsertCartItem(ctx, item); err != nil {
			logger.Error().Err(err).Msgf("Error inserting cart line for user %d product %d", userID, productID)
			return entity.Cart{}, err
		}
	default:
		logger.Error().Err(err).Msgf("Error looking up cart line for user %d product %d", userID, productID)
		return entity.Cart{}, err
	}

	return s.reload(ctx, userID)
}

// UpdateQuantity sets the quantity of a line. A quantity below 1 is defined
// as removal.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID, quantity int) (entity.Cart, error) {
	if userID == 0 {
		return entity.Cart{}, ErrAuthenticationRequired
	}

	if quantity < 1 {
		return s.RemoveFromCart(ctx, userID, itemID)
	}

	if err := s.cartRepo.UpdateQuantity(ctx, userID, itemID, quantity); err != nil {
		logger.Error().Err(err).Msgf("Error updating quantity of cart line %d for user %d", itemID, userID)
		return entity.Cart{}, err
	}

	return s.reload(ctx, userID)
}

// RemoveFromCart deletes a line from the user's cart.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, itemID int) (entity.Cart, error) {
	if userID == 0 {
		return entity.Cart{}, ErrAuthenticationRequired
	}

	if err := s.cartRepo.DeleteCartItem(ctx, userID, itemID); err != nil {
		logger.Error().Err(err).Msgf("Error deleting cart line %d for user %d", itemID, userID)
		return entity.Cart{}, err
	}

	return s.reload(ctx, userID)
}

// ClearCart deletes every line the user owns. Without an identity it is a
// no-op. The post-state is known, so the empty snapshot is cached directly
// without a reload.
func (s *CartService) ClearCart(ctx context.Context, userID int) (entity.Cart, error) {
	if userID == 0 {
		return entity.Cart{}, nil
	}

	if err := s.cartRepo.ClearCart(ctx, userID); err != nil {
		logger.Error().Err(err).Msgf("Error clearing cart for user %d", userID)
		return entity.Cart{}, err
	}

	empty := entity.Cart{}
	if err := s.cache.Set(ctx, userID, empty); err != nil {
		logger.Warn().Err(err).Msgf("Error caching cleared cart for user %d", userID)
	}

	return empty, nil
}

// InvalidateCart drops the cached snapshot, forcing the next read to hit the
// database. Called on sign-out so a later identity never observes a stale
// view.
func (s *CartService) InvalidateCart(ctx context.Context, userID int) error {
	return s.cache.Invalidate(ctx, userID)
}

func (s *CartService) reload(ctx context.Context, userID int) (entity.Cart, error) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Warn().Err(err).Msgf("Error invalidating cart snapshot for user %d", userID)
	}
	return s.GetCart(ctx, userID)
}
