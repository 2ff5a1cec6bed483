package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStore_DisabledCacheNeverRevokes(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Hour))
	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenStore_IgnoresEmptyAndExpired(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	assert.NoError(t, store.Revoke(ctx, "", time.Hour))
	assert.NoError(t, store.Revoke(ctx, "jti", 0))
	revoked, err := store.IsRevoked(ctx, "")
	assert.NoError(t, err)
	assert.False(t, revoked)
}
