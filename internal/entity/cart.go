package entity

import "time"

// CartItem is one product line in a user's cart. At most one line exists
// per (user, product) pair; adding the same product again bumps Quantity.
type CartItem struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	Product   *Product  `json:"product,omitempty"`
}

// Cart is a settled snapshot of a user's cart lines, joined with their
// products. Snapshots are replaced wholesale after every mutation, never
// patched in place.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Total sums quantity times product price across all lines. A line whose
// product is missing contributes zero.
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		if item.Product == nil {
			continue
		}
		total += float64(item.Quantity) * item.Product.Price
	}
	return total
}

// Count sums the quantities across all lines.
func (c Cart) Count() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

/*
Mysql Table

CREATE TABLE cart_items (
	id INT AUTO_INCREMENT PRIMARY KEY,
	user_id INT NOT NULL,
	product_id INT NOT NULL,
	quantity INT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY user_product (user_id, product_id)
);
*/
