//go:build integration

package identifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoriza/internal/authorization/models"
	"autoriza/pkg/platform/sentinel"
	"autoriza/pkg/testutil/containers"
)

func TestRedisSequence_Monotonic(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	seq := NewRedisSequence(rc.Client)

	prev, err := seq.Next(ctx)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		n, err := seq.Next(ctx)
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		prev = n
	}
}

func TestRedisRegistry_ReserveOnce(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	registry := NewRedisRegistry(rc.Client)

	require.NoError(t, registry.Reserve(ctx, "AUT-2025-00000001"))
	err := registry.Reserve(ctx, "AUT-2025-00000001")
	require.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestGenerator_WithRedisBackends(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	gen, err := NewGenerator(NewRedisSequence(rc.Client), NewRedisRegistry(rc.Client))
	require.NoError(t, err)

	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		grant, err := gen.Issue(ctx, models.ApprovalAutomatic, now)
		require.NoError(t, err)
		assert.False(t, seen[grant.Number])
		seen[grant.Number] = true
	}
}
