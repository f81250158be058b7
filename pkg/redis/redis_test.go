package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/covercall/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")

	allowed, remaining, err := limiter.Allow(context.Background(), SchwabRateLimit)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, SchwabRateLimit.Limit, remaining)

	assert.NoError(t, limiter.Wait(context.Background(), SchwabRateLimit))
}

func TestWindowMember_UniqueWithinMillisecond(t *testing.T) {
	const now = int64(1772467200000)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		m := windowMember(now)
		assert.True(t, strings.HasPrefix(m, "1772467200000-"), m)
		assert.False(t, seen[m], "duplicate member %s", m)
		seen[m] = true
	}
}

func TestRateLimiter_Key(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "ccscan")
	assert.Equal(t, "ccscan:ratelimit:schwab", limiter.key(SchwabRateLimit))
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	var result string
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, cache.Set(ctx, "key", "value", time.Minute))
	assert.NoError(t, cache.Delete(ctx, "key"))
}

type cachedQuote struct {
	Symbol string  `json:"symbol"`
	Last   float64 `json:"last"`
}

func TestCache_GetHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewCache(Wrap(db), "ccscan")

	payload, _ := json.Marshal(cachedQuote{Symbol: "AMZN", Last: 185.5})
	mock.ExpectGet("ccscan:cache:chain:AMZN").SetVal(string(payload))

	var got cachedQuote
	found, err := cache.Get(context.Background(), ChainKey("amzn"), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "AMZN", got.Symbol)
	assert.Equal(t, 185.5, got.Last)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_GetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewCache(Wrap(db), "ccscan")

	mock.ExpectGet("ccscan:cache:chain:AMZN").RedisNil()

	var got cachedQuote
	found, err := cache.Get(context.Background(), ChainKey("AMZN"), &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_GetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewCache(Wrap(db), "ccscan")

	mock.ExpectGet("ccscan:cache:chain:AMZN").SetErr(errors.New("connection reset"))

	var got cachedQuote
	found, err := cache.Get(context.Background(), ChainKey("AMZN"), &got)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestCache_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewCache(Wrap(db), "ccscan")

	value := cachedQuote{Symbol: "AMZN", Last: 185.5}
	payload, _ := json.Marshal(value)
	mock.ExpectSet("ccscan:cache:chain:AMZN", payload, TTLChain).SetVal("OK")

	require.NoError(t, cache.Set(context.Background(), ChainKey("AMZN"), value, TTLChain))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"ChainKey", ChainKey("amzn"), "chain:AMZN"},
		{"ChainKey upper", ChainKey("MSFT"), "chain:MSFT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}
