// Package service holds the account and note use cases behind the HTTP
// handlers.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hongminglow/notes-be/internal/apperr"
	"github.com/hongminglow/notes-be/internal/auth"
	"github.com/hongminglow/notes-be/internal/models"
	"github.com/hongminglow/notes-be/internal/storage"
)

const invalidCredentials = "invalid credentials"

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// Issuer signs identity tokens.
type Issuer interface {
	Issue(subjectID string) (string, error)
}

// RegisterInput is the registration payload after decoding.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginInput is the login payload after decoding.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned from a successful registration or login.
type AuthResult struct {
	User  models.User
	Token string
}

// AccountOptions tunes AccountService behaviour.
type AccountOptions struct {
	// UnifiedLoginErrors reports unknown emails and wrong passwords with the
	// same message.
	UnifiedLoginErrors bool
}

// AccountService registers and authenticates users.
type AccountService struct {
	users    storage.UserStore
	hasher   Hasher
	tokens   Issuer
	validate *validator.Validate
	opts     AccountOptions
	logger   *slog.Logger
}

// NewAccountService constructs the service.
func NewAccountService(users storage.UserStore, hasher Hasher, tokens Issuer, opts AccountOptions, logger *slog.Logger) *AccountService {
	return &AccountService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		validate: newValidator(),
		opts:     opts,
		logger:   logger,
	}
}

// Register creates an account and issues a token for it.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(s.validate, in); err != nil {
		return AuthResult{}, err
	}

	// Advisory only: the store's unique index decides concurrent races.
	_, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return AuthResult{}, apperr.Conflict("account already exists")
	case !errors.Is(err, storage.ErrNotFound):
		return AuthResult{}, apperr.Store("failed to fetch user", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) || errors.Is(err, auth.ErrPasswordTooLong) {
			return AuthResult{}, &apperr.Error{Kind: apperr.KindValidation, Message: err.Error(), Fields: []string{"password"}}
		}
		return AuthResult{}, err
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return AuthResult{}, apperr.Conflict("account already exists")
		}
		return AuthResult{}, apperr.Store("failed to create user", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResult{}, err
	}
	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))
	return AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a token.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(s.validate, in); err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return AuthResult{}, apperr.Auth(s.loginMessage("invalid email"))
		}
		return AuthResult{}, apperr.Store("failed to fetch user", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.logger.WarnContext(ctx, "login rejected", slog.String("user_id", user.ID))
		return AuthResult{}, apperr.Auth(s.loginMessage("invalid password"))
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: token}, nil
}

// CurrentUser returns the user the auth middleware attached to ctx.
func (s *AccountService) CurrentUser(ctx context.Context) (models.User, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return models.User{}, apperr.Unauthorized("not authorized to access this route", nil)
	}
	return user, nil
}

func (s *AccountService) loginMessage(distinct string) string {
	if s.opts.UnifiedLoginErrors {
		return invalidCredentials
	}
	return distinct
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
