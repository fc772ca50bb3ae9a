package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

func TestNewClient(t *testing.T) {
	t.Run("未启用时返回nil", func(t *testing.T) {
		client, cleanup, err := NewClient(&config.Config{}, zap.NewNop())
		require.NoError(t, err)
		assert.Nil(t, client)
		cleanup()
	})

	t.Run("连接失败", func(t *testing.T) {
		cfg := &config.Config{Redis: config.RedisConfig{
			Enabled:     true,
			Host:        "127.0.0.1",
			Port:        1,
			DialTimeout: time.Second,
		}}
		_, _, err := NewClient(cfg, zap.NewNop())
		assert.ErrorContains(t, err, "Redis连接失败")
	})
}

func TestNopSessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(nil)

	assert.NoError(t, store.SaveSession(ctx, 1, map[string]interface{}{"ip": "127.0.0.1"}, time.Hour))
	assert.NoError(t, store.AddToBlacklist(ctx, "token", time.Hour))

	revoked, err := store.IsInBlacklist(ctx, "token")
	require.NoError(t, err)
	assert.False(t, revoked, "未启用Redis时Token不会被吊销")
	assert.NoError(t, store.DeleteSession(ctx, 1))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "session:42", sessionKey(42))

	key := blacklistKey("header.payload.signature")
	assert.Len(t, key, len("blacklist:")+64)
	assert.Equal(t, key, blacklistKey("header.payload.signature"))
	assert.NotEqual(t, key, blacklistKey("other.token"))
}

func TestSessionStore_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	store := NewSessionStore(client)
	ctx := context.Background()

	err := store.SaveSession(ctx, 1, map[string]interface{}{"ip": "127.0.0.1"}, time.Hour)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeRedisError))

	_, err = store.IsInBlacklist(ctx, "token")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeRedisError))

	assert.NoError(t, store.AddToBlacklist(ctx, "expired", 0), "剩余有效期为0时直接跳过")
}

// newMiniRedis 启动内存Redis，测试结束自动关闭
func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewClient_Connected(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := &config.Config{Redis: config.RedisConfig{
		Enabled:     true,
		Host:        mr.Host(),
		Port:        port,
		PoolSize:    2,
		DialTimeout: time.Second,
	}}
	client, cleanup, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, client)
	defer cleanup()

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestSessionStore_Session(t *testing.T) {
	mr, client := newMiniRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	err := store.SaveSession(ctx, 7, map[string]interface{}{"ip": "10.0.0.1", "username": "alice"}, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1", mr.HGet("session:7", "ip"))
	assert.Equal(t, "alice", mr.HGet("session:7", "username"))
	assert.Equal(t, time.Hour, mr.TTL("session:7"), "会话与过期时间同时写入")

	require.NoError(t, store.DeleteSession(ctx, 7))
	assert.False(t, mr.Exists("session:7"))
}

func TestSessionStore_Blacklist(t *testing.T) {
	mr, client := newMiniRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()
	token := "header.payload.signature"

	revoked, err := store.IsInBlacklist(ctx, token)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.AddToBlacklist(ctx, token, 30*time.Minute))

	revoked, err = store.IsInBlacklist(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)

	t.Run("Key为Token摘要", func(t *testing.T) {
		assert.True(t, mr.Exists(blacklistKey(token)))
		assert.False(t, mr.Exists(token))
		assert.False(t, mr.Exists("blacklist:"+token))
	})

	t.Run("其他Token不受影响", func(t *testing.T) {
		revoked, err := store.IsInBlacklist(ctx, "other.token")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("过期后自动移出黑名单", func(t *testing.T) {
		mr.FastForward(31 * time.Minute)
		revoked, err := store.IsInBlacklist(ctx, token)
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("已过期的Token不写入", func(t *testing.T) {
		require.NoError(t, store.AddToBlacklist(ctx, "stale.token", 0))
		assert.False(t, mr.Exists(blacklistKey("stale.token")))
	})
}
