package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// SessionStore 会话存储
// 设计说明：
// 1. 登录时记录会话（登录时间、IP），登出时删除
// 2. JWT黑名单：登出后Token在剩余有效期内失效
// 3. Key设计：session:{user_id}、blacklist:{sha256(token)}
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// NewSessionStore 创建会话存储
// client为nil（Redis未启用）时返回空实现
func NewSessionStore(client *redis.Client) SessionStore {
	if client == nil {
		return nopSessionStore{}
	}
	return &sessionStore{client: client}
}

type sessionStore struct {
	client *redis.Client
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("session:%d", userID)
}

// blacklistKey Token较长，取摘要作为Key
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "blacklist:" + hex.EncodeToString(sum[:])
}

// SaveSession 保存用户会话
// HSet与Expire放在同一个事务管道中，避免写入后未设置过期时间
func (s *sessionStore) SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error {
	key := sessionKey(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, data)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return apperrors.WithMessage(apperrors.ErrRedisError, "保存会话失败").WithCause(err)
	}
	return nil
}

// DeleteSession 删除用户会话（登出）
func (s *sessionStore) DeleteSession(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return apperrors.WithMessage(apperrors.ErrRedisError, "删除会话失败").WithCause(err)
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单，ttl为Token剩余有效期
func (s *sessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // 已过期的Token无需拉黑
	}
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.WithMessage(apperrors.ErrRedisError, "添加Token到黑名单失败").WithCause(err)
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *sessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.WithMessage(apperrors.ErrRedisError, "检查黑名单失败").WithCause(err)
	}
	return n > 0, nil
}

// nopSessionStore Redis未启用时的空实现
type nopSessionStore struct{}

func (nopSessionStore) SaveSession(context.Context, uint, map[string]interface{}, time.Duration) error {
	return nil
}

func (nopSessionStore) DeleteSession(context.Context, uint) error { return nil }

func (nopSessionStore) AddToBlacklist(context.Context, string, time.Duration) error { return nil }

func (nopSessionStore) IsInBlacklist(context.Context, string) (bool, error) { return false, nil }
