package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"coursehub/internal/auth"
	apperrors "coursehub/internal/errors"
	"coursehub/internal/model"
	"coursehub/internal/repository"
	"coursehub/internal/validation"
)

// SignupInput is the shape a new principal must satisfy.
type SignupInput struct {
	FirstName string `json:"firstName" validate:"min=3" label:"First name"`
	LastName  string `json:"lastName" validate:"min=3" label:"Last name"`
	Email     string `json:"email" validate:"required,email" label:"Email"`
	Password  string `json:"password" validate:"min=4" label:"Password"`
}

// PrincipalConfig binds an auth flow to one principal kind: its table, its signing key
// and whether identity hints go into the token.
type PrincipalConfig struct {
	Repo           repository.PrincipalRepository
	Tokens         *auth.JWTService
	IdentityClaims bool
}

// AuthService handles signup, login and logout for one principal kind.
type AuthService interface {
	Kind() model.Kind
	Signup(ctx context.Context, in SignupInput) (*model.Principal, error)
	Login(ctx context.Context, email, password string) (token string, principal *model.Principal, err error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	repo           repository.PrincipalRepository
	tokens         *auth.JWTService
	identityClaims bool
	tokenStore     auth.TokenStoreInterface
	validator      *validation.Validator
}

// NewAuthService creates an authentication service for cfg's kind.
func NewAuthService(cfg PrincipalConfig, tokenStore auth.TokenStoreInterface, validator *validation.Validator) AuthService {
	return &authService{
		repo:           cfg.Repo,
		tokens:         cfg.Tokens,
		identityClaims: cfg.IdentityClaims,
		tokenStore:     tokenStore,
		validator:      validator,
	}
}

func (s *authService) Kind() model.Kind {
	return s.tokens.Kind()
}

func (s *authService) duplicate() error {
	return &apperrors.DuplicateError{Label: s.Kind().Label()}
}

// Signup validates the input, rejects a taken email, hashes the password and stores the principal.
func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.Principal, error) {
	if err := s.validator.Validate(&in); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, s.duplicate()
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check %s existence: %w", s.Kind(), err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	principal := &model.Principal{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, principal); err != nil {
		// lost a race against a concurrent signup with the same email
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicate()
		}
		return nil, fmt.Errorf("create %s: %w", s.Kind(), err)
	}

	return principal, nil
}

// Login checks credentials and issues a session token. Unknown email and wrong
// password both yield ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.Principal, error) {
	principal, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find %s: %w", s.Kind(), err)
	}

	if err := auth.VerifyPassword(principal.PasswordHash, password); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	var extra auth.ExtraClaims
	if s.identityClaims {
		extra = auth.ExtraClaims{Email: principal.Email, FirstName: principal.FirstName}
	}
	token, _, err := s.tokens.Issue(principal.ID, extra)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, principal, nil
}

// Logout revokes token until it would expire. Tokens that do not verify for
// this kind are ignored, since they grant nothing.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil
	}
	if err := s.tokenStore.Revoke(ctx, claims.ID, s.tokens.RemainingLifetime(claims)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
