package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "coursehub/internal/errors"
	"coursehub/internal/model"
)

// SessionTokenExpiry is the absolute lifetime of a session token. There is no refresh.
const SessionTokenExpiry = 24 * time.Hour

// Claims represents session token claims.
type Claims struct {
	PrincipalID string     `json:"id"`
	Kind        model.Kind `json:"kind"`
	Email       string     `json:"email,omitempty"`
	FirstName   string     `json:"firstName,omitempty"`
	jwt.RegisteredClaims
}

// ExtraClaims are optional identity hints embedded in the token.
type ExtraClaims struct {
	Email     string
	FirstName string
}

// JWTService issues and verifies session tokens for one principal kind.
// Each kind gets its own secret, so a token signed for users never verifies as an admin token.
type JWTService struct {
	kind   model.Kind
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a token service bound to kind and secret.
func NewJWTService(kind model.Kind, secret string) *JWTService {
	return &JWTService{
		kind:   kind,
		secret: []byte(secret),
		now:    time.Now,
	}
}

// WithClock returns a copy of the service that reads time from now.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	cp := *s
	cp.now = now
	return &cp
}

// Kind returns the principal kind this service signs for.
func (s *JWTService) Kind() model.Kind {
	return s.kind
}

// Issue signs a token for principalID that expires SessionTokenExpiry from now.
func (s *JWTService) Issue(principalID uuid.UUID, extra ExtraClaims) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		PrincipalID: principalID.String(),
		Kind:        s.kind,
		Email:       extra.Email,
		FirstName:   extra.FirstName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, claims, nil
}

// Verify checks signature, expiry and kind. Any failure is reported as ErrInvalidToken.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	if claims.Kind != s.kind {
		return nil, fmt.Errorf("%w: token kind %q", apperrors.ErrInvalidToken, claims.Kind)
	}
	if _, err := uuid.Parse(claims.PrincipalID); err != nil {
		return nil, fmt.Errorf("%w: bad principal id", apperrors.ErrInvalidToken)
	}
	return claims, nil
}

// RemainingLifetime is how long claims stay valid, never negative.
func (s *JWTService) RemainingLifetime(claims *Claims) time.Duration {
	if claims == nil || claims.ExpiresAt == nil {
		return 0
	}
	if d := claims.ExpiresAt.Sub(s.now()); d > 0 {
		return d
	}
	return 0
}
