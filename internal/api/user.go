package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/entity"
	"storefront/internal/service"
)

type UserHandler struct {
	sessionService *service.SessionService
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(sessionService *service.SessionService) *UserHandler {
	return &UserHandler{sessionService: sessionService}
}

// Register creates a new user --> POST /register
func (h *UserHandler) Register(c echo.Context) error {
	user := entity.User{}
	if err := c.Bind(&user); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	createdUser, err := h.sessionService.Register(c.Request().Context(), &user)
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	createdUser.Password = ""
	return c.JSON(200, createdUser)
}

// GetUserByID retrieves a user by ID --> GET /users/:id
func (h *UserHandler) GetUserByID(c echo.Context) error {
	id := c.Param("id")
	idInt, err := strconv.Atoi(id)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	user, err := h.sessionService.GetUserByID(c.Request().Context(), idInt)
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	user.Password = ""
	return c.JSON(200, user)
}

// Login logs in a user --> POST /login
func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	login := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}

	if err := c.Bind(&login); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	token, err := h.sessionService.Login(ctx, login.Email, login.Password)
	if err != nil {
		return c.JSON(401, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, map[string]string{"token": token})
}

// Logout signs the user out --> POST /logout
func (h *UserHandler) Logout(c echo.Context) error {
	userID := identityFromContext(c)
	email := emailFromContext(c)
	if userID == 0 || email == "" {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	if err := h.sessionService.Logout(c.Request().Context(), userID, email); err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, map[string]string{"message": "Signed out"})
}

// ValidateSession validates a session token --> GET /session/validate
func (h *UserHandler) ValidateSession(c echo.Context) error {
	ctx := c.Request().Context()

	email := emailFromContext(c)
	token := c.Request().Header.Get("Authorization")
	if email == "" || token == "" {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	valid, err := h.sessionService.ValidateToken(ctx, email, stripBearer(token))
	if err != nil {
		return c.JSON(401, map[string]string{"error": err.Error()})
	}
	if !valid {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	return c.JSON(200, map[string]string{"message": "Session is valid"})
}

func stripBearer(token string) string {
	const prefix = "Bearer "
	if len(token) > len(prefix) && token[:len(prefix)] == prefix {
		return token[len(prefix):]
	}
	return token
}
