package service

import (
	"context"

	"storefront/internal/entity"
)

// ProductRepository is the persistence contract of the catalog. Implemented
// by repository.ProductRepository.
type ProductRepository interface {
	GetProducts(ctx context.Context, category, search string) ([]entity.Product, error)
	GetProductByID(ctx context.Context, id int) (*entity.Product, error)
	CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	UpdateProductStock(ctx context.Context, id, stock int) error
}

// ProductCache is a read-through cache for single products. Get returns
// (nil, nil) on a miss.
type ProductCache interface {
	Get(ctx context.Context, productID int) (*entity.Product, error)
	Set(ctx context.Context, product entity.Product) error
}

// CatalogService is the read-only product projection, plus the stock
// adjustments applied by the order event consumer.
type CatalogService struct {
	productRepo ProductRepository
	cache       ProductCache
}

func NewCatalogService(productRepo ProductRepository, cache ProductCache) *CatalogService {
	return &CatalogService{productRepo: productRepo, cache: cache}
}

// ListProducts returns products, optionally narrowed by category equality
// and a free-text match on name/description.
func (s *CatalogService) ListProducts(ctx context.Context, category, search string) ([]entity.Product, error) {
	products, err := s.productRepo.GetProducts(ctx, category, search)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing products")
		return nil, err
	}
	return products, nil
}

// CreateProduct adds a product to the catalog and primes its cache entry.
func (s *CatalogService) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	created, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		return nil, err
	}

	if err := s.cache.Set(ctx, *created); err != nil {
		logger.Warn().Err(err).Msgf("Error setting product %d in cache", created.ID)
	}

	return created, nil
}

// GetProduct reads a product through the cache.
func (s *CatalogService) GetProduct(ctx context.Context, productID int) (*entity.Product, error) {
	cached, err := s.cache.Get(ctx, productID)
	if err != nil {
		logger.Warn().Err(err).Msgf("Error getting product %d from cache", productID)
	} else if cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting product by ID %d", productID)
		return nil, err
	}

	if err := s.cache.Set(ctx, *product); err != nil {
		logger.Warn().Err(err).Msgf("Error setting product %d in cache", productID)
	}

	return product, nil
}

// GetProductStock retrieves the current stock for a product.
func (s *CatalogService) GetProductStock(ctx context.Context, productID int) (int, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return product.Stock, nil
}

// ReserveStock deducts quantity from a product's stock. Plain
// check-then-write, no reservation locking.
func (s *CatalogService) ReserveStock(ctx context.Context, productID, quantity int) error {
	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting product by ID %d", productID)
		return err
	}

	if product.Stock < quantity {
		logger.Warn().Msgf("Product %d out of stock", productID)
		return ErrOutOfStock
	}

	product.Stock -= quantity
	if err := s.productRepo.UpdateProductStock(ctx, productID, product.Stock); err != nil {
		logger.Error().Err(err).Msgf("Error updating stock for product %d", productID)
		return err
	}

	if err := s.cache.Set(ctx, *product); err != nil {
		logger.Warn().Err(err).Msgf("Error setting product %d in cache", productID)
	}

	return nil
}

// ReleaseStock returns quantity to a product's stock when an order is
// cancelled.
func (s *CatalogService) ReleaseStock(ctx context.Context, productID, quantity int) error {
	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting product by ID %d", productID)
		return err
	}

	product.Stock += quantity
	if err := s.productRepo.UpdateProductStock(ctx, productID, product.Stock); err != nil {
		logger.Error().Err(err).Msgf("Error updating stock for product %d", productID)
		return err
	}

	if err := s.cache.Set(ctx, *product); err != nil {
		logger.Warn().Err(err).Msgf("Error setting product %d in cache", productID)
	}

	return nil
}

// PreWarmCache loads every product into the cache asynchronously. The
// writes outlive the triggering request, so they run on a context detached
// from its cancellation.
func (s *CatalogService) PreWarmCache(ctx context.Context) error {
	products, err := s.productRepo.GetProducts(ctx, "", "")
	if err != nil {
		logger.Error().Err(err).Msg("Error getting products")
		return err
	}

	warmCtx := context.WithoutCancel(ctx)
	for _, product := range products {
		go func(product entity.Product) {
			if err := s.cache.Set(warmCtx, product); err != nil {
				logger.Error().Err(err).Msgf("Error setting product %d in cache", product.ID)
			}
		}(product)
	}

	return nil
}
