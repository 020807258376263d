package repository

import (
	"context"
	"database/sql"

	"storefront/internal/entity"
)

// CartRepository owns the cart_items table. Every query is scoped to the
// owning user id; a line id alone never grants access to another user's line.
type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db}
}

// GetCartItems loads all cart lines for a user joined with their products.
func (r *CartRepository) GetCartItems(ctx context.Context, userID int) ([]entity.CartItem, error) {
	query := `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at,
		       p.id, p.name, p.description, p.price, p.image_url, p.category, p.stock, p.created_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = ?
		ORDER BY ci.created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []entity.CartItem
	for rows.Next() {
		item := entity.CartItem{Product: &entity.Product{}}
		err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt,
			&item.Product.ID, &item.Product.Name, &item.Product.Description, &item.Product.Price,
			&item.Product.ImageURL, &item.Product.Category, &item.Product.Stock, &item.Product.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetCartItemByProduct returns the user's line for a product, or
// sql.ErrNoRows when the product is not in the cart yet.
func (r *CartRepository) GetCartItemByProduct(ctx context.Context, userID, productID int) (*entity.CartItem, error) {
	item := &entity.CartItem{}
	query := `SELECT id, user_id, product_id, quantity, created_at FROM cart_items WHERE user_id = ? AND product_id = ?`
	err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt)
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *CartRepository) InsertCartItem(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error) {
	query := `INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, item.UserID, item.ProductID, item.Quantity)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	item.ID = int(id)
	return item, nil
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, userID, itemID, quantity int) error {
	query := `UPDATE cart_items SET quantity = ? WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query, quantity, itemID, userID)
	return err
}

func (r *CartRepository) DeleteCartItem(ctx context.Context, userID, itemID int) error {
	query := `DELETE FROM cart_items WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query, itemID, userID)
	return err
}

// ClearCart removes every line the user owns. Other users' lines are
// untouched by construction of the WHERE clause.
func (r *CartRepository) ClearCart(ctx context.Context, userID int) error {
	query := `DELETE FROM cart_items WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
