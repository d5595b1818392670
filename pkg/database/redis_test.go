package database

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uigen-go/internal/config"
)

func TestInitRedis(t *testing.T) {
	t.Cleanup(func() {
		if RDB != nil {
			_ = RDB.Close()
		}
		RDB = nil
	})

	RDB = nil
	InitRedis(config.RedisConfig{})
	assert.Nil(t, RDB, "empty addr disables the cache")

	mr := miniredis.RunT(t)
	InitRedis(config.RedisConfig{Addr: mr.Addr()})
	require.NotNil(t, RDB)
	_ = RDB.Close()
	RDB = nil

	addr := mr.Addr()
	mr.Close()
	InitRedis(config.RedisConfig{Addr: addr})
	assert.Nil(t, RDB, "unreachable redis disables the cache")
}
