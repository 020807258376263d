package api

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// identityFromContext extracts the signed-in user id from the JWT the
// middleware parsed. Returns 0 when no identity is present.
func identityFromContext(c echo.Context) int {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return 0
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0
	}
	return int(id)
}

// emailFromContext extracts the signed-in user's email from the JWT claims.
func emailFromContext(c echo.Context) string {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}
