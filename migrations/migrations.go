package migrations

import (
	"database/sql"
	"time"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(50) NOT NULL,
		email VARCHAR(50) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		price DOUBLE NOT NULL,
		image_url VARCHAR(512) NOT NULL DEFAULT '',
		category VARCHAR(100) NOT NULL DEFAULT '',
		stock INT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		product_id INT NOT NULL,
		quantity INT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY user_product (user_id, product_id)
	);`,
	`CREATE TABLE IF NOT EXISTS orders (
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
	);`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		order_id INT NOT NULL,
		product_id INT NOT NULL,
		quantity INT NOT NULL,
		price DOUBLE NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	);`,
}

// AutoMigrate creates the storefront tables if they do not exist.
func AutoMigrate(retries int, db *sql.DB) error {
	for _, query := range tables {
		if err := execWithRetry(retries, db, query); err != nil {
			return err
		}
	}
	return nil
}

func execWithRetry(retries int, db *sql.DB, query string) error {
	_, err := db.Exec(query)
	for i := 0; err != nil && i < retries; i++ {
		time.Sleep(1 * time.Second)
		_, err = db.Exec(query)
	}
	return err
}
