package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"coursehub/internal/auth"
	apperrors "coursehub/internal/errors"
	"coursehub/internal/model"
	"coursehub/internal/validation"
)

// MockPrincipalRepository is a mock implementation of PrincipalRepository.
type MockPrincipalRepository struct {
	mock.Mock
	kind model.Kind
}

func (m *MockPrincipalRepository) Kind() model.Kind {
	return m.kind
}

func (m *MockPrincipalRepository) Create(ctx context.Context, principal *model.Principal) error {
	args := m.Called(ctx, principal)
	return args.Error(0)
}

func (m *MockPrincipalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Principal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Principal), args.Error(1)
}

func (m *MockPrincipalRepository) FindByEmail(ctx context.Context, email string) (*model.Principal, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Principal), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func newMockAuthService(kind model.Kind, identityClaims bool) (AuthService, *MockPrincipalRepository, *MockTokenStore, *auth.JWTService) {
	repo := &MockPrincipalRepository{kind: kind}
	store := new(MockTokenStore)
	tokens := auth.NewJWTService(kind, "secret-"+string(kind))
	svc := NewAuthService(PrincipalConfig{Repo: repo, Tokens: tokens, IdentityClaims: identityClaims}, store, validation.New())
	return svc, repo, store, tokens
}

func validSignup() SignupInput {
	return SignupInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Password: "secret"}
}

func TestAuthService_Signup_Success(t *testing.T) {
	svc, repo, _, _ := newMockAuthService(model.KindUser, true)
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "jane@example.com").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*model.Principal")).Return(nil)

	principal, err := svc.Signup(ctx, validSignup())

	require.NoError(t, err)
	assert.Equal(t, "Jane", principal.FirstName)
	assert.NotEqual(t, "secret", principal.PasswordHash)
	assert.NoError(t, auth.VerifyPassword(principal.PasswordHash, "secret"))
	repo.AssertExpectations(t)
}

func TestAuthService_Signup_ValidationCollectsAllMessages(t *testing.T) {
	svc, repo, _, _ := newMockAuthService(model.KindUser, true)

	_, err := svc.Signup(context.Background(), SignupInput{FirstName: "Jo", LastName: "Li", Email: "nope", Password: "abc"})

	var validationErr *apperrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Len(t, validationErr.Messages, 4)
	assert.Contains(t, validationErr.Messages, "Invalid email")
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	tests := []struct {
		name      string
		kind      model.Kind
		wantLabel string
	}{
		{name: "user", kind: model.KindUser, wantLabel: "User already exists"},
		{name: "admin", kind: model.KindAdmin, wantLabel: "Admin already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newMockAuthService(tt.kind, false)
			ctx := context.Background()
			repo.On("FindByEmail", ctx, "jane@example.com").Return(&model.Principal{Email: "jane@example.com"}, nil)

			_, err := svc.Signup(ctx, validSignup())

			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrDuplicatePrincipal))
			assert.Equal(t, tt.wantLabel, err.Error())
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthService_Signup_ConcurrentDuplicate(t *testing.T) {
	svc, repo, _, _ := newMockAuthService(model.KindUser, true)
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "jane@example.com").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*model.Principal")).Return(gorm.ErrDuplicatedKey)

	_, err := svc.Signup(ctx, validSignup())

	assert.True(t, errors.Is(err, apperrors.ErrDuplicatePrincipal))
}

func TestAuthService_Signup_LookupFailure(t *testing.T) {
	svc, repo, _, _ := newMockAuthService(model.KindUser, true)
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "jane@example.com").Return(nil, errors.New("connection reset"))

	_, err := svc.Signup(ctx, validSignup())

	require.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrDuplicatePrincipal))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)
	stored := &model.Principal{ID: uuid.New(), FirstName: "Jane", Email: "jane@example.com", PasswordHash: hash}

	t.Run("user token carries identity claims", func(t *testing.T) {
		svc, repo, _, tokens := newMockAuthService(model.KindUser, true)
		ctx := context.Background()
		repo.On("FindByEmail", ctx, "jane@example.com").Return(stored, nil)

		token, principal, err := svc.Login(ctx, "jane@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, principal.ID)

		claims, err := tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, stored.ID.String(), claims.PrincipalID)
		assert.Equal(t, "jane@example.com", claims.Email)
		assert.Equal(t, "Jane", claims.FirstName)
	})

	t.Run("admin token carries only the id", func(t *testing.T) {
		svc, repo, _, tokens := newMockAuthService(model.KindAdmin, false)
		ctx := context.Background()
		repo.On("FindByEmail", ctx, "jane@example.com").Return(stored, nil)

		token, _, err := svc.Login(ctx, "jane@example.com", "secret")
		require.NoError(t, err)

		claims, err := tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, model.KindAdmin, claims.Kind)
		assert.Empty(t, claims.Email)
		assert.Empty(t, claims.FirstName)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		svc, repo, _, _ := newMockAuthService(model.KindUser, true)
		ctx := context.Background()
		repo.On("FindByEmail", ctx, "jane@example.com").Return(stored, nil)
		repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, _, wrongPassword := svc.Login(ctx, "jane@example.com", "wrong")
		_, _, unknownEmail := svc.Login(ctx, "ghost@example.com", "secret")

		assert.Equal(t, apperrors.ErrInvalidCredentials, wrongPassword)
		assert.Equal(t, apperrors.ErrInvalidCredentials, unknownEmail)
	})
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, store, tokens := newMockAuthService(model.KindUser, true)
	ctx := context.Background()

	token, claims, err := tokens.Issue(uuid.New(), auth.ExtraClaims{})
	require.NoError(t, err)

	store.On("Revoke", ctx, claims.ID, mock.AnythingOfType("time.Duration")).Return(nil)

	require.NoError(t, svc.Logout(ctx, token))
	store.AssertExpectations(t)

	ttl := store.Calls[0].Arguments.Get(2).(time.Duration)
	assert.True(t, ttl > 23*time.Hour && ttl <= auth.SessionTokenExpiry, "ttl %s", ttl)
}

func TestAuthService_Logout_IgnoresForeignTokens(t *testing.T) {
	svc, _, store, _ := newMockAuthService(model.KindUser, true)
	adminTokens := auth.NewJWTService(model.KindAdmin, "secret-admin")
	adminToken, _, err := adminTokens.Issue(uuid.New(), auth.ExtraClaims{})
	require.NoError(t, err)

	assert.NoError(t, svc.Logout(context.Background(), ""))
	assert.NoError(t, svc.Logout(context.Background(), "garbage"))
	assert.NoError(t, svc.Logout(context.Background(), adminToken))
	store.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}
