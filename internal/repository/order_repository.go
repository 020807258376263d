package repository

import (
	"context"
	"database/sql"

	"storefront/internal/entity"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

// CreateOrder persists the order row and all its line rows in a single
// transaction, so a failed line insert never leaves a dangling order.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	orderQuery := `
		INSERT INTO orders (user_id, total_amount, status, payment_ref, ship_name, ship_address, ship_city, ship_state, ship_zip, ship_country)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery,
		order.UserID, order.TotalAmount, order.Status, order.PaymentRef,
		order.Shipping.Name, order.Shipping.Address, order.Shipping.City,
		order.Shipping.State, order.Shipping.Zip, order.Shipping.Country)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if len(order.Items) > 0 {
		// Insert order items with batch
		itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, price) VALUES `

		var values []interface{}
		for _, item := range order.Items {
			itemQuery += "(?, ?, ?, ?),"
			values = append(values, orderID, item.ProductID, item.Quantity, item.Price)
		}

		// Remove the trailing comma
		itemQuery = itemQuery[:len(itemQuery)-1]

		_, err = tx.ExecContext(ctx, itemQuery, values...)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	order.ID = int(orderID)
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return order, nil
}

// GetOrdersByUser returns the user's orders most-recent-first, without line
// items. Lines are fetched separately per order.
func (r *OrderRepository) GetOrdersByUser(ctx context.Context, userID int) ([]*entity.Order, error) {
	query := `
		SELECT id, user_id, total_amount, status, payment_ref, ship_name, ship_address, ship_city, ship_state, ship_zip, ship_country, created_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order := &entity.Order{}
		err := rows.Scan(
			&order.ID, &order.UserID, &order.TotalAmount, &order.Status, &order.PaymentRef,
			&order.Shipping.Name, &order.Shipping.Address, &order.Shipping.City,
			&order.Shipping.State, &order.Shipping.Zip, &order.Shipping.Country, &order.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// GetOrderItems loads the line items of one order joined with their
// products. The join through orders scopes the read to the owning user.
func (r *OrderRepository) GetOrderItems(ctx context.Context, userID, orderID int) ([]entity.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, oi.created_at,
		       p.id, p.name, p.description, p.price, p.image_url, p.category, p.stock, p.created_at
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id AND o.user_id = ?
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?`
	rows, err := r.db.QueryContext(ctx, query, userID, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		item := entity.OrderItem{Product: &entity.Product{}}
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price, &item.CreatedAt,
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
