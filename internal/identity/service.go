// Package identity authenticates storefront users. Accounts live in the
// catalog store's /users collection; this service layers bcrypt verification
// and JWT issuance on top of it. The cart core only ever consumes the
// resulting user ID.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/stylekart/storefront/pkg/errors"

	"github.com/stylekart/storefront/internal/domain"
)

// UserStore is the slice of the catalog client the identity service needs.
type UserStore interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, user domain.User) error
}

// RegisterInput holds the parameters for creating an account.
type RegisterInput struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// LoginResult is a successful authentication: the signed access token and the
// account it belongs to, with the password hash stripped.
type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Service implements login and registration.
type Service struct {
	store  UserStore
	jwt    *JWTManager
	logger *slog.Logger
}

// NewService creates a new identity service.
func NewService(store UserStore, jwt *JWTManager, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		jwt:    jwt,
		logger: logger,
	}
}

// Login verifies the credentials against the stored accounts and issues an
// access token. Unknown emails and wrong passwords are indistinguishable to
// the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperrors.InvalidInput("email and password are required")
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	for _, u := range users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			break
		}

		token, err := s.jwt.Generate(u.ID, u.Email)
		if err != nil {
			return nil, fmt.Errorf("generate token: %w", err)
		}

		s.logger.InfoContext(ctx, "user logged in",
			slog.String("user_id", u.ID),
		)

		u.PasswordHash = ""
		return &LoginResult{Token: token, User: u}, nil
	}

	return nil, apperrors.Unauthorized("invalid email or password")
}

// Register creates a new account. The password is stored only as a bcrypt
// hash.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, input.Email) {
			return nil, apperrors.AlreadyExists("user", "email", input.Email)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.New().String(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: string(hash),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
	)

	user.PasswordHash = ""
	return &user, nil
}

// ValidateToken verifies an access token and returns the bound user ID and
// email.
func (s *Service) ValidateToken(token string) (*Claims, error) {
	return s.jwt.Validate(token)
}
