package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "coursehub/internal/errors"
	"coursehub/internal/model"
)

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService(model.KindUser, "user-secret")
	id := uuid.New()

	token, issued, err := svc.Issue(id, ExtraClaims{Email: "a@b.com", FirstName: "Ann"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.PrincipalID)
	assert.Equal(t, model.KindUser, claims.Kind)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "Ann", claims.FirstName)
	assert.Equal(t, issued.ID, claims.ID)
	assert.WithinDuration(t, time.Now().Add(SessionTokenExpiry), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_CrossKindRejected(t *testing.T) {
	users := NewJWTService(model.KindUser, "user-secret")
	admins := NewJWTService(model.KindAdmin, "admin-secret")

	userToken, _, err := users.Issue(uuid.New(), ExtraClaims{})
	require.NoError(t, err)
	adminToken, _, err := admins.Issue(uuid.New(), ExtraClaims{})
	require.NoError(t, err)

	_, err = admins.Verify(userToken)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))

	_, err = users.Verify(adminToken)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestJWTService_KindClaimMustMatch(t *testing.T) {
	// same secret on both kinds still cannot cross over
	users := NewJWTService(model.KindUser, "shared")
	admins := NewJWTService(model.KindAdmin, "shared")

	token, _, err := users.Issue(uuid.New(), ExtraClaims{})
	require.NoError(t, err)

	_, err = admins.Verify(token)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService(model.KindAdmin, "admin-secret")
	old := svc.WithClock(func() time.Time { return time.Now().Add(-25 * time.Hour) })

	token, _, err := old.Issue(uuid.New(), ExtraClaims{})
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestJWTService_StillValidJustBeforeExpiry(t *testing.T) {
	svc := NewJWTService(model.KindUser, "user-secret")
	old := svc.WithClock(func() time.Time { return time.Now().Add(-23 * time.Hour) })

	token, _, err := old.Issue(uuid.New(), ExtraClaims{})
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.NoError(t, err)
}

func TestJWTService_MalformedAndTampered(t *testing.T) {
	svc := NewJWTService(model.KindUser, "user-secret")

	_, err := svc.Verify("not.a.jwt")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))

	token, _, err := svc.Issue(uuid.New(), ExtraClaims{})
	require.NoError(t, err)
	_, err = svc.Verify(token + "x")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	svc := NewJWTService(model.KindUser, "user-secret")
	claims := &Claims{
		PrincipalID: uuid.New().String(),
		Kind:        model.KindUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestJWTService_RequiresExpiry(t *testing.T) {
	svc := NewJWTService(model.KindUser, "user-secret")
	claims := &Claims{PrincipalID: uuid.New().String(), Kind: model.KindUser}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("user-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestJWTService_RemainingLifetime(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	svc := NewJWTService(model.KindUser, "s").WithClock(func() time.Time { return now })

	_, claims, err := svc.Issue(uuid.New(), ExtraClaims{})
	require.NoError(t, err)

	assert.Equal(t, SessionTokenExpiry, svc.RemainingLifetime(claims))
	later := svc.WithClock(func() time.Time { return now.Add(48 * time.Hour) })
	assert.Zero(t, later.RemainingLifetime(claims))
	assert.Zero(t, svc.RemainingLifetime(nil))
}
