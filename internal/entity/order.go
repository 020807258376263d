package entity

import "time"

type ShippingAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Order is insert-only: once created it is never updated or deleted through
// the storefront. TotalAmount equals the sum of quantity*price over Items at
// creation time.
type Order struct {
	ID          int             `json:"id"`
	UserID      int             `json:"user_id"`
	TotalAmount float64         `json:"total_amount"`
	Status      string          `json:"status"` // default "pending"
	PaymentRef  string          `json:"payment_ref,omitempty"`
	Shipping    ShippingAddress `json:"shipping_address"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []OrderItem     `json:"items,omitempty"`
}

// OrderItem captures the unit price at purchase time, independent of later
// product price changes.
type OrderItem struct {
	ID        int       `json:"id"`
	OrderID   int       `json:"order_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	Product   *Product  `json:"product,omitempty"`
}

/*
Mysql Tables

CREATE TABLE orders (
	id INT AUTO_INCREMENT PRIMARY KEY,
	user_id INT NOT NULL,
	total_amount DOUBLE NOT NULL,
	status VARCHAR(20) NOT NULL,
	payment_ref VARCHAR(255) NOT NULL DEFAULT '',
	ship_name VARCHAR(255) NOT NULL DEFAULT '',
	ship_address VARCHAR(255) NOT NULL DEFAULT '',
	ship_city VARCHAR(100) NOT NULL DEFAULT '',
	ship_state VARCHAR(100) NOT NULL DEFAULT '',
	ship_zip VARCHAR(20) NOT NULL DEFAULT '',
	ship_country VARCHAR(100) NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE order_items (
	id INT AUTO_INCREMENT PRIMARY KEY,
	order_id INT NOT NULL,
	product_id INT NOT NULL,
	quantity INT NOT NULL,
	price DOUBLE NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);
*/
