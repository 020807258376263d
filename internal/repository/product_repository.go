package repository

import (
	"context"
	"database/sql"
	"strings"

	"storefront/internal/entity"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

// GetProducts returns all products, optionally narrowed by category equality
// and a free-text match on name/description.
func (r *ProductRepository) GetProducts(ctx context.Context, category, search string) ([]entity.Product, error) {
	query := `SELECT id, name, description, price, image_url, category, stock, created_at FROM products`
	var (
		conditions []string
		args       []interface{}
	)
	if category != "" {
		conditions = append(conditions, `category = ?`)
		args = append(args, category)
	}
	if search != "" {
		conditions = append(conditions, `(name LIKE ? OR description LIKE ?)`)
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, ` AND `)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		var product entity.Product
		err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.ImageURL, &product.Category, &product.Stock, &product.CreatedAt)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	product := &entity.Product{}
	query := `SELECT id, name, description, price, image_url, category, stock, created_at FROM products WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.ImageURL, &product.Category, &product.Stock, &product.CreatedAt)
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `INSERT INTO products (name, description, price, image_url, category, stock) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, product.Name, product.Description, product.Price, product.ImageURL, product.Category, product.Stock)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	product.ID = int(id)
	return product, nil
}

func (r *ProductRepository) UpdateProductStock(ctx context.Context, id, stock int) error {
	query := `UPDATE products SET stock = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, stock, id)
	return err
}
