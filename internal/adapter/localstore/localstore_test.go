package localstore_test

import (
	"context"
	"testing"

	"storefront/internal/adapter/localstore"
	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetRemove(t *testing.T) {
	s, err := localstore.Open(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, domain.StateKeyCart)
	require.NoError(t, err)
	assert.False(t, ok, "missing key must read as absent")

	require.NoError(t, s.Set(ctx, domain.StateKeyCart, `{"a":{"amount":2}}`))

	v, ok, err := s.Get(ctx, domain.StateKeyCart)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"a":{"amount":2}}`, v)

	require.NoError(t, s.Remove(ctx, domain.StateKeyCart))
	_, ok, err = s.Get(ctx, domain.StateKeyCart)
	require.NoError(t, err)
	assert.False(t, ok)

	// removing again is a no-op
	require.NoError(t, s.Remove(ctx, domain.StateKeyCart))
}

func TestSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := localstore.Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, domain.StateKeyUser, `{"email":"jo@example.com"}`))

	// simulate a process restart
	s2, err := localstore.Open(dir)
	require.NoError(t, err)
	v, ok, err := s2.Get(ctx, domain.StateKeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"email":"jo@example.com"}`, v)
}

func TestInvalidKeyRejected(t *testing.T) {
	s, err := localstore.Open(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, s.Set(ctx, "../escape", "x"))
	assert.Error(t, s.Set(ctx, "", "x"))
	_, _, err = s.Get(ctx, "UPPER")
	assert.Error(t, err)
}
