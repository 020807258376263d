package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/entity"
)

type checkoutFixture struct {
	checkout  *CheckoutService
	carts     *CartService
	cartRepo  *mockCartRepository
	orders    *mockOrderCreator
	stock     *mockStockChecker
	publisher *mockPublisher
	idem      *mockIdempotencyStore
}

func setupCheckout(t *testing.T) *checkoutFixture {
	t.Helper()
	cartRepo := newMockCartRepository()
	carts := NewCartService(cartRepo, newMockCartCache())
	orders := &mockOrderCreator{}
	stock := &mockStockChecker{stocks: map[int]int{}, errs: map[int]error{}}
	publisher := &mockPublisher{}
	idem := newMockIdempotencyStore()
	return &checkoutFixture{
		checkout:  NewCheckoutService(carts, orders, stock, publisher, idem),
		carts:     carts,
		cartRepo:  cartRepo,
		orders:    orders,
		stock:     stock,
		publisher: publisher,
		idem:      idem,
	}
}

func (f *checkoutFixture) seedCart(t *testing.T, userID int, lines map[*entity.Product]int) {
	t.Helper()
	for product, quantity := range lines {
		f.cartRepo.products[product.ID] = product
		f.stock.stocks[product.ID] = 100
		for i := 0; i < quantity; i++ {
			_, err := f.carts.AddToCart(context.Background(), userID, product.ID)
			require.NoError(t, err)
		}
	}
}

var shipping = entity.ShippingAddress{
	Name:    "John Doe",
	Address: "1 Main St",
	City:    "Springfield",
	State:   "IL",
	Zip:     "62701",
	Country: "US",
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	f := setupCheckout(t)
	f.seedCart(t, 7, map[*entity.Product]int{
		{ID: 1, Price: 10.00}: 2,
		{ID: 2, Price: 5.50}:  1,
	})

	order, err := f.checkout.Checkout(context.Background(), 7, shipping, "key-1")
	require.NoError(t, err)

	assert.Equal(t, 25.50, order.TotalAmount)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, shipping, order.Shipping)
	require.Len(t, order.Items, 2)

	var lineSum float64
	for _, item := range order.Items {
		lineSum += float64(item.Quantity) * item.Price
		assert.Equal(t, order.ID, item.OrderID)
	}
	assert.Equal(t, order.TotalAmount, lineSum)

	cart, err := f.carts.GetCart(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	require.Len(t, f.publisher.keys, 1)
	assert.Equal(t, "order.created.1", f.publisher.keys[0])
}

func TestCheckoutRequiresIdentity(t *testing.T) {
	f := setupCheckout(t)

	_, err := f.checkout.Checkout(context.Background(), 0, shipping, "")

	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	assert.Empty(t, f.orders.created)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	f := setupCheckout(t)

	_, err := f.checkout.Checkout(context.Background(), 7, shipping, "key-1")

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.orders.created)
	assert.Empty(t, f.publisher.keys)
}

func TestCheckoutOutOfStock(t *testing.T) {
	f := setupCheckout(t)
	f.seedCart(t, 7, map[*entity.Product]int{
		{ID: 1, Price: 10.00}: 2,
	})
	f.stock.stocks[1] = 1

	_, err := f.checkout.Checkout(context.Background(), 7, shipping, "key-1")

	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Empty(t, f.orders.created)

	cart, err := f.carts.GetCart(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCheckoutDuplicateKeyRejected(t *testing.T) {
	f := setupCheckout(t)
	f.seedCart(t, 7, map[*entity.Product]int{
		{ID: 1, Price: 10.00}: 1,
	})

	_, err := f.checkout.Checkout(context.Background(), 7, shipping, "key-1")
	require.NoError(t, err)

	f.seedCart(t, 7, map[*entity.Product]int{
		{ID: 1, Price: 10.00}: 1,
	})
	_, err = f.checkout.Checkout(context.Background(), 7, shipping, "key-1")

	assert.ErrorIs(t, err, ErrDuplicateCheckout)
	assert.Len(t, f.orders.created, 1)
}

func TestCheckoutPersistFailureKeepsCart(t *testing.T) {
	f := setupCheckout(t)
	f.seedCart(t, 7, map[*entity.Product]int{
		{ID: 1, Price: 10.00}: 1,
	})
	boom := errors.New("tx aborted")
	f.orders.createErr = boom

	_, err := f.checkout.Checkout(context.Background(), 7, shipping, "key-1")

	assert.ErrorIs(t, err, boom)
	cart, err := f.carts.GetCart(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCheckoutClearFailureStillReturnsOrder(t *testing.T) {
	f := setupCheckout(t)
	f.seedCart(t, 7, map[*entity.Product]int{
		{ID: 1, Price: 10.00}: 2,
	})
	f.cartRepo.clearErr = errors.New("connection reset")

	order, err := f.checkout.Checkout(context.Background(), 7, shipping, "key-1")

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, 20.00, order.TotalAmount)
	assert.Len(t, f.orders.created, 1)
	require.Len(t, f.publisher.keys, 1)
	assert.Equal(t, "order.created.1", f.publisher.keys[0])
}

func TestCheckoutPublishFailureIsSoft(t *testing.T) {
	f := setupCheckout(t)
	f.seedCart(t, 7, map[*entity.Product]int{
		{ID: 1, Price: 4.00}: 3,
	})
	f.publisher.err = errors.New("broker down")

	order, err := f.checkout.Checkout(context.Background(), 7, shipping, "key-1")

	require.NoError(t, err)
	assert.Equal(t, 12.00, order.TotalAmount)
	assert.Len(t, f.orders.created, 1)
}
