package auth

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "coursehub/internal/errors"
	"coursehub/internal/model"
)

// claimsContextKey is where the verified claims of a kind are stored on the echo context.
func claimsContextKey(kind model.Kind) string {
	return "auth." + string(kind) + ".claims"
}

// Middleware gates a route on a bearer token of the service's kind.
//
// A missing header, or one not prefixed "Bearer ", fails with ErrMissingToken (403).
// A token that does not verify, or that was revoked, fails with ErrInvalidToken (401).
// On success the claims are attached to the context; the principal record is not reloaded.
func Middleware(tokens *JWTService, store TokenStoreInterface) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsContextKey(tokens.Kind()),
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := tokens.Verify(auth)
			if err != nil {
				return nil, err
			}
			if store != nil {
				revoked, err := store.IsRevoked(c.Request().Context(), claims.ID)
				if err != nil {
					return nil, fmt.Errorf("check revocation: %w", err)
				}
				if revoked {
					return nil, fmt.Errorf("%w: revoked", apperrors.ErrInvalidToken)
				}
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if !hasBearerToken(c.Request().Header.Get(echo.HeaderAuthorization)) {
				return apperrors.ErrMissingToken
			}
			return apperrors.ErrInvalidToken
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		verified := verify(next)
		return func(c echo.Context) error {
			// The extractor folds the scheme's case; only the exact prefix is accepted.
			if !hasBearerToken(c.Request().Header.Get(echo.HeaderAuthorization)) {
				return apperrors.ErrMissingToken
			}
			return verified(c)
		}
	}
}

// hasBearerToken reports whether header carries a non-empty credential after
// the exact, case-sensitive "Bearer " prefix.
func hasBearerToken(header string) bool {
	const prefix = "Bearer "
	return len(header) > len(prefix) && strings.HasPrefix(header, prefix)
}

// ClaimsFromContext returns the claims the kind's middleware attached.
func ClaimsFromContext(c echo.Context, kind model.Kind) (*Claims, bool) {
	claims, ok := c.Get(claimsContextKey(kind)).(*Claims)
	return claims, ok && claims != nil
}

// PrincipalID returns the authenticated principal id for kind, or ErrMissingToken
// when the route was not protected by that kind's middleware.
func PrincipalID(c echo.Context, kind model.Kind) (uuid.UUID, error) {
	claims, ok := ClaimsFromContext(c, kind)
	if !ok {
		return uuid.Nil, apperrors.ErrMissingToken
	}
	id, err := uuid.Parse(claims.PrincipalID)
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidToken
	}
	return id, nil
}
