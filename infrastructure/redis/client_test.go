package redis_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/elizabethzhu1/newsmapper/infrastructure/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_ReturnsErrorWhenAddressEmpty(t *testing.T) {
	t.Parallel()

	client, err := redis.NewClient(redis.Config{})
	assert.ErrorIs(t, err, redis.ErrEmptyAddress)
	assert.Nil(t, client)
}

func TestNewClient_ConnectsToRedis(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client, err := redis.NewClient(redis.Config{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()
}

func TestNewClient_FailsWhenUnreachable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := redis.NewClient(redis.Config{Address: addr})
	assert.Error(t, err)
}

func TestConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	var cfg redis.Config
	cfg.SetDefaults()
	assert.Equal(t, redis.DefaultAddress, cfg.Address)
	assert.Equal(t, redis.DefaultKeyPrefix, cfg.KeyPrefix)
	assert.Equal(t, redis.DefaultTTL, cfg.TTL)

	custom := redis.Config{Address: "cache:6379", KeyPrefix: "staging:", TTL: time.Minute}
	custom.SetDefaults()
	assert.Equal(t, "cache:6379", custom.Address)
	assert.Equal(t, "staging:", custom.KeyPrefix)
	assert.Equal(t, time.Minute, custom.TTL)
}

func TestConfig_Namespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		kind   string
		want   string
	}{
		{name: "default prefix", prefix: redis.DefaultKeyPrefix, kind: "headlines", want: "newsmapper:headlines:"},
		{name: "custom prefix", prefix: "staging:", kind: "headlines", want: "staging:headlines:"},
		{name: "kind colons trimmed", prefix: "app:", kind: ":headlines:", want: "app:headlines:"},
		{name: "empty prefix", prefix: "", kind: "headlines", want: "headlines:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, redis.Config{KeyPrefix: tt.prefix}.Namespace(tt.kind))
		})
	}
}
