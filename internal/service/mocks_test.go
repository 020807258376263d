package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/entity"
)

// In-memory stand-ins for the repositories and stores, in the spirit of the
// real schema: one cart line per (user, product), ownership checked on every
// mutation.

type mockCartRepository struct {
	nextID   int
	items    map[int]entity.CartItem
	products map[int]*entity.Product

	getErr    error
	insertErr error
	updateErr error
	deleteErr error
	clearErr  error
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		items:    make(map[int]entity.CartItem),
		products: make(map[int]*entity.Product),
	}
}

func (m *mockCartRepository) GetCartItems(_ context.Context, userID int) ([]entity.CartItem, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []entity.CartItem
	for _, item := range m.items {
		if item.UserID == userID {
			item.Product = m.products[item.ProductID]
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCartRepository) GetCartItemByProduct(_ context.Context, userID, productID int) (*entity.CartItem, error) {
	for _, item := range m.items {
		if item.UserID == userID && item.ProductID == productID {
			found := item
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockCartRepository) InsertCartItem(_ context.Context, item *entity.CartItem) (*entity.CartItem, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	m.nextID++
	item.ID = m.nextID
	m.items[item.ID] = *item
	return item, nil
}

func (m *mockCartRepository) UpdateQuantity(_ context.Context, userID, itemID, quantity int) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if item, ok := m.items[itemID]; ok && item.UserID == userID {
		item.Quantity = quantity
		m.items[itemID] = item
	}
	return nil
}

func (m *mockCartRepository) DeleteCartItem(_ context.Context, userID, itemID int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if item, ok := m.items[itemID]; ok && item.UserID == userID {
		delete(m.items, itemID)
	}
	return nil
}

func (m *mockCartRepository) ClearCart(_ context.Context, userID int) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	for id, item := range m.items {
		if item.UserID == userID {
			delete(m.items, id)
		}
	}
	return nil
}

type mockCartCache struct {
	store  map[int]entity.Cart
	getErr error
}

func newMockCartCache() *mockCartCache {
	return &mockCartCache{store: make(map[int]entity.Cart)}
}

func (m *mockCartCache) Get(_ context.Context, userID int) (*entity.Cart, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if cart, ok := m.store[userID]; ok {
		return &cart, nil
	}
	return nil, nil
}

func (m *mockCartCache) Set(_ context.Context, userID int, cart entity.Cart) error {
	m.store[userID] = cart
	return nil
}

func (m *mockCartCache) Invalidate(_ context.Context, userID int) error {
	delete(m.store, userID)
	return nil
}

type mockOrderCreator struct {
	nextID    int
	created   []*entity.Order
	createErr error
}

func (m *mockOrderCreator) CreateOrder(_ context.Context, order *entity.Order) (*entity.Order, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	order.ID = m.nextID
	order.CreatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	m.created = append(m.created, order)
	return order, nil
}

type mockStockChecker struct {
	stocks map[int]int
	errs   map[int]error
}

func (m *mockStockChecker) GetProductStock(_ context.Context, productID int) (int, error) {
	if err := m.errs[productID]; err != nil {
		return 0, err
	}
	return m.stocks[productID], nil
}

type mockPublisher struct {
	keys     []string
	payloads [][]byte
	err      error
}

func (m *mockPublisher) Publish(_ context.Context, key string, value []byte) error {
	if m.err != nil {
		return m.err
	}
	m.keys = append(m.keys, key)
	m.payloads = append(m.payloads, value)
	return nil
}

type mockIdempotencyStore struct {
	claimed map[string]bool
}

func newMockIdempotencyStore() *mockIdempotencyStore {
	return &mockIdempotencyStore{claimed: make(map[string]bool)}
}

func (m *mockIdempotencyStore) Claim(_ context.Context, key string) (bool, error) {
	if m.claimed[key] {
		return false, nil
	}
	m.claimed[key] = true
	return true, nil
}

type mockHistoryRepository struct {
	orders    []*entity.Order
	items     map[int][]entity.OrderItem
	itemsErrs map[int]error
	ordersErr error
}

func (m *mockHistoryRepository) GetOrdersByUser(_ context.Context, userID int) ([]*entity.Order, error) {
	if m.ordersErr != nil {
		return nil, m.ordersErr
	}
	var out []*entity.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			copied := *order
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockHistoryRepository) GetOrderItems(_ context.Context, userID, orderID int) ([]entity.OrderItem, error) {
	if err := m.itemsErrs[orderID]; err != nil {
		return nil, err
	}
	return m.items[orderID], nil
}

type mockUserRepository struct {
	nextID int
	users  map[int]*entity.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[int]*entity.User)}
}

func (m *mockUserRepository) CreateUser(_ context.Context, user *entity.User) (*entity.User, error) {
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user
	return user, nil
}

func (m *mockUserRepository) GetUserByID(_ context.Context, id int) (*entity.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepository) GetUserByEmailAndPassword(_ context.Context, email, password string) (*entity.User, error) {
	for _, user := range m.users {
		if user.Email == email && user.Password == password {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

type mockSessionStore struct {
	store map[string]string
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{store: make(map[string]string)}
}

func (m *mockSessionStore) Set(_ context.Context, email, token string, _ time.Duration) error {
	m.store[email] = token
	return nil
}

func (m *mockSessionStore) Get(_ context.Context, email string) (string, error) {
	return m.store[email], nil
}

func (m *mockSessionStore) Delete(_ context.Context, email string) error {
	delete(m.store, email)
	return nil
}

type mockCartInvalidator struct {
	invalidated []int
}

func (m *mockCartInvalidator) InvalidateCart(_ context.Context, userID int) error {
	m.invalidated = append(m.invalidated, userID)
	return nil
}

type mockProductRepository struct {
	nextID    int
	products  map[int]*entity.Product
	listCalls int
	getCalls  int
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int]*entity.Product)}
}

func (m *mockProductRepository) GetProducts(_ context.Context, category, search string) ([]entity.Product, error) {
	m.listCalls++
	var out []entity.Product
	for _, product := range m.products {
		if category != "" && product.Category != category {
			continue
		}
		if search != "" && !strings.Contains(product.Name, search) && !strings.Contains(product.Description, search) {
			continue
		}
		out = append(out, *product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockProductRepository) GetProductByID(_ context.Context, id int) (*entity.Product, error) {
	m.getCalls++
	product, ok := m.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) CreateProduct(_ context.Context, product *entity.Product) (*entity.Product, error) {
	if m.nextID <= len(m.products) {
		m.nextID = len(m.products)
	}
	m.nextID++
	product.ID = m.nextID
	m.products[product.ID] = product
	return product, nil
}

func (m *mockProductRepository) UpdateProductStock(_ context.Context, id, stock int) error {
	if product, ok := m.products[id]; ok {
		product.Stock = stock
	}
	return nil
}

// mockProductCache is safe for concurrent use; the cache warmup writes from
// multiple goroutines.
type mockProductCache struct {
	mu    sync.Mutex
	store map[int]entity.Product
}

func newMockProductCache() *mockProductCache {
	return &mockProductCache{store: make(map[int]entity.Product)}
}

func (m *mockProductCache) Get(_ context.Context, productID int) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product, ok := m.store[productID]; ok {
		return &product, nil
	}
	return nil, nil
}

func (m *mockProductCache) Set(_ context.Context, product entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[product.ID] = product
	return nil
}

func (m *mockProductCache) has(productID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.store[productID]
	return ok
}

func (m *mockProductCache) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store)
}
