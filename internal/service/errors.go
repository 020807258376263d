package service

import "errors"

var (
	// ErrAuthenticationRequired is returned when a cart or checkout mutation
	// is attempted without a signed-in identity.
	ErrAuthenticationRequired = errors.New("authentication required")

	ErrEmptyCart          = errors.New("cart is empty")
	ErrOutOfStock         = errors.New("product out of stock")
	ErrDuplicateCheckout  = errors.New("checkout already processed")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
