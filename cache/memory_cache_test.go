package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	tests := []struct {
		name string
		test func(*testing.T)
	}{
		{"miss returns nil", func(t *testing.T) {
			v, err := c.Get(ctx, "absent")
			require.NoError(t, err)
			assert.Nil(t, v)
		}},
		{"set then get", func(t *testing.T) {
			require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
			v, err := c.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v"), v)
			ok, _ := c.Exists(ctx, "k")
			assert.True(t, ok)
		}},
		{"expires", func(t *testing.T) {
			require.NoError(t, c.Set(ctx, "short", []byte("v"), time.Second))
			now = now.Add(2 * time.Second)
			v, err := c.Get(ctx, "short")
			require.NoError(t, err)
			assert.Nil(t, v)
		}},
		{"delete many", func(t *testing.T) {
			require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
			require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
			require.NoError(t, c.Delete(ctx, "a", "b"))
			ok, _ := c.Exists(ctx, "a")
			assert.False(t, ok)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, tt.test)
	}
}
