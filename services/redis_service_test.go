package services

import (
	"strings"
	"testing"
	"time"

	"github.com/Re-Bottle/bottle-collection-system-backend/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisService(t *testing.T) InterfaceRedisService {
	t.Helper()

	mr := miniredis.RunT(t)
	parts := strings.Split(mr.Addr(), ":")

	cfg := &config.Config{
		RedisHost: parts[0],
		RedisPort: parts[1],
	}
	return NewRedisService(cfg)
}

func TestRedisSetGetDelete(t *testing.T) {
	svc := newTestRedisService(t)

	type payload struct {
		Value string `json:"value"`
	}

	require.NoError(t, svc.Set("key", payload{Value: "hello"}, time.Minute))

	var got payload
	require.NoError(t, svc.Get("key", &got))
	assert.Equal(t, "hello", got.Value)

	require.NoError(t, svc.Delete("key"))
	assert.Error(t, svc.Get("key", &got))
}

func TestCacheUserStats(t *testing.T) {
	svc := newTestRedisService(t)

	require.NoError(t, svc.CacheUserStats(42, 120, 15))

	points, bottles, err := svc.GetUserStats(42)
	require.NoError(t, err)
	assert.Equal(t, 120, points)
	assert.Equal(t, 15, bottles)

	require.NoError(t, svc.InvalidateUserStats(42))
	_, _, err = svc.GetUserStats(42)
	assert.Error(t, err)
}

func TestCacheDeviceState(t *testing.T) {
	svc := newTestRedisService(t)

	state := map[string]interface{}{"state": "Provisioned"}
	require.NoError(t, svc.CacheDeviceState("RB-001", state))

	var got map[string]interface{}
	require.NoError(t, svc.GetDeviceState("RB-001", &got))
	assert.Equal(t, "Provisioned", got["state"])
}
