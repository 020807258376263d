package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/entity"
)

const sessionTTL = 24 * time.Hour

// UserRepository is the persistence contract of the session provider.
// Implemented by repository.UserRepository.
type UserRepository interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
	GetUserByEmailAndPassword(ctx context.Context, email, password string) (*entity.User, error)
}

// SessionStore keeps issued tokens keyed by email. Get returns an empty
// string when no session exists.
type SessionStore interface {
	Set(ctx context.Context, email, token string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

// CartInvalidator drops a user's cached cart view. Implemented by
// CartService.
type CartInvalidator interface {
	InvalidateCart(ctx context.Context, userID int) error
}

type JwtCustomClaims struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SessionService wraps the identity provider: it issues, validates and
// revokes sessions. The cart view is scoped to the identity, so sign-out
// also invalidates the user's cached cart.
type SessionService struct {
	repo     UserRepository
	sessions SessionStore
	carts    CartInvalidator
	secret   []byte
}

func NewSessionService(repo UserRepository, sessions SessionStore, carts CartInvalidator, secret []byte) *SessionService {
	return &SessionService{
		repo:     repo,
		sessions: sessions,
		carts:    carts,
		secret:   secret,
	}
}

// Register creates a new user account.
func (s *SessionService) Register(ctx context.Context, user *entity.User) (*entity.User, error) {
	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	return createdUser, nil
}

// GetUserByID retrieves a user account by id.
func (s *SessionService) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		return nil, err
	}

	return user, nil
}

// Login authenticates the user and issues a signed token, stored in the
// session store for the session lifetime.
func (s *SessionService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetUserByEmailAndPassword(ctx, email, password)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	claims := &JwtCustomClaims{
		UserID: user.ID,
		Name:   user.Username,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := tkn.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	if err := s.sessions.Set(ctx, email, t, sessionTTL); err != nil {
		return "", err
	}

	return t, nil
}

// Logout revokes the session and drops the user's cached cart view, so a
// later sign-in starts from a fresh snapshot.
func (s *SessionService) Logout(ctx context.Context, userID int, email string) error {
	if err := s.sessions.Delete(ctx, email); err != nil {
		return err
	}

	if err := s.carts.InvalidateCart(ctx, userID); err != nil {
		logger.Warn().Err(err).Msgf("Error invalidating cart view for user %d on logout", userID)
	}

	return nil
}

// ValidateToken checks the presented token against the stored session.
func (s *SessionService) ValidateToken(ctx context.Context, email, token string) (bool, error) {
	stored, err := s.sessions.Get(ctx, email)
	if err != nil {
		return false, err
	}

	return stored != "" && stored == token, nil
}
