package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinarb/arbradar/internal/domain"
)

func TestResultCache(t *testing.T) {
	ctx := context.Background()

	result := domain.OpportunitiesResult{
		Opportunities: []domain.Opportunity{{Symbol: "BTCUSDT", ProfitPercent: 0.6}},
		Metadata:      domain.ResponseMetadata{TotalFound: 1},
	}

	t.Run("round trip", func(t *testing.T) {
		c := NewResultCache()
		require.NoError(t, c.Set(ctx, "k", result, time.Minute))

		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, result, got)
	})

	t.Run("miss returns not found", func(t *testing.T) {
		c := NewResultCache()
		_, err := c.Get(ctx, "absent")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("entries expire", func(t *testing.T) {
		c := NewResultCache()
		require.NoError(t, c.Set(ctx, "k", result, 10*time.Millisecond))

		time.Sleep(20 * time.Millisecond)
		_, err := c.Get(ctx, "k")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("keys cache independently", func(t *testing.T) {
		c := NewResultCache()
		other := result
		other.Metadata.TotalFound = 2

		require.NoError(t, c.Set(ctx, "a", result, time.Minute))
		require.NoError(t, c.Set(ctx, "b", other, time.Minute))

		gotA, err := c.Get(ctx, "a")
		require.NoError(t, err)
		gotB, err := c.Get(ctx, "b")
		require.NoError(t, err)
		assert.NotEqual(t, gotA.Metadata.TotalFound, gotB.Metadata.TotalFound)
	})
}
