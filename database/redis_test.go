package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOptions(t *testing.T) {
	t.Run("BareAddress", func(t *testing.T) {
		opts, err := redisOptions("cache:6379", "secret")
		require.NoError(t, err)
		assert.Equal(t, "cache:6379", opts.Addr)
		assert.Equal(t, "secret", opts.Password)
	})

	t.Run("URL", func(t *testing.T) {
		opts, err := redisOptions("redis://:frompath@cache:6380/2", "")
		require.NoError(t, err)
		assert.Equal(t, "cache:6380", opts.Addr)
		assert.Equal(t, "frompath", opts.Password)
		assert.Equal(t, 2, opts.DB)
	})

	t.Run("PasswordOverridesURL", func(t *testing.T) {
		opts, err := redisOptions("redis://:frompath@cache:6380", "env")
		require.NoError(t, err)
		assert.Equal(t, "env", opts.Password)
	})

	t.Run("BadScheme", func(t *testing.T) {
		_, err := redisOptions("http://cache:6379", "")
		assert.Error(t, err)
	})
}
