package user

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/database"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/jwt"
)

// memorySessions 内存版会话存储
type memorySessions struct {
	mu        sync.Mutex
	sessions  map[uint]map[string]interface{}
	blacklist map[string]time.Duration
}

func newMemorySessions() *memorySessions {
	return &memorySessions{
		sessions:  make(map[uint]map[string]interface{}),
		blacklist: make(map[string]time.Duration),
	}
}

func (m *memorySessions) SaveSession(_ context.Context, userID uint, data map[string]interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = data
	return nil
}

func (m *memorySessions) DeleteSession(_ context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

func (m *memorySessions) AddToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blacklist[token] = ttl
	return nil
}

func (m *memorySessions) IsInBlacklist(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blacklist[token]
	return ok, nil
}

type authEnv struct {
	register *RegisterUseCase
	login    *LoginUseCase
	logout   *LogoutUseCase
	refresh  *RefreshTokenUseCase
	profile  *GetProfileUseCase
	sessions *memorySessions
	jwt      *jwt.Manager
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			Path:        filepath.Join(t.TempDir(), "auth.db"),
			AutoMigrate: true,
		},
	}
	db, cleanup, err := database.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	svc := user.NewService(database.NewUserRepository(db))
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	sessions := newMemorySessions()

	return &authEnv{
		register: NewRegisterUseCase(svc, manager),
		login:    NewLoginUseCase(svc, manager, sessions, zap.NewNop()),
		logout:   NewLogoutUseCase(manager, sessions),
		refresh:  NewRefreshTokenUseCase(svc, manager, sessions),
		profile:  NewGetProfileUseCase(svc),
		sessions: sessions,
		jwt:      manager,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	resp, err := env.register.Execute(ctx, RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotZero(t, resp.User.ID)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := env.jwt.ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	t.Run("重复注册", func(t *testing.T) {
		_, err := env.register.Execute(ctx, RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "password123"})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeEmailDuplicate))
	})

	t.Run("登录保存会话", func(t *testing.T) {
		got, err := env.login.Execute(ctx, LoginRequest{
			Email: "alice@example.com", Password: "password123", ClientIP: "10.0.0.1", UserAgent: "test",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice", got.User.Username)

		session := env.sessions.sessions[got.User.ID]
		require.NotNil(t, session)
		assert.Equal(t, "10.0.0.1", session["ip"])
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := env.login.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "wrongpass1"})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidCredentials))
	})

	t.Run("获取当前用户", func(t *testing.T) {
		info, err := env.profile.Execute(ctx, resp.User.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", info.Email)

		_, err = env.profile.Execute(ctx, 999)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUserNotFound))
	})
}

func TestRefreshAndLogout(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	resp, err := env.register.Execute(ctx, RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)

	t.Run("使用Refresh Token换取Access Token", func(t *testing.T) {
		got, err := env.refresh.Execute(ctx, resp.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, got.AccessToken)
		assert.Equal(t, int64(3600), got.ExpiresIn)
	})

	t.Run("Access Token不能用于刷新", func(t *testing.T) {
		_, err := env.refresh.Execute(ctx, resp.AccessToken)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidToken))
	})

	t.Run("已吊销的Refresh Token", func(t *testing.T) {
		require.NoError(t, env.sessions.AddToBlacklist(ctx, resp.RefreshToken, time.Hour))
		_, err := env.refresh.Execute(ctx, resp.RefreshToken)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTokenRevoked))
	})

	t.Run("登出后Access Token进入黑名单", func(t *testing.T) {
		require.NoError(t, env.logout.Execute(ctx, LogoutRequest{UserID: resp.User.ID, AccessToken: resp.AccessToken}))

		revoked, err := env.sessions.IsInBlacklist(ctx, resp.AccessToken)
		require.NoError(t, err)
		assert.True(t, revoked)
		assert.Greater(t, env.sessions.blacklist[resp.AccessToken], time.Duration(0))
	})
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	alice, err := env.register.Execute(ctx, RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	bob, err := env.register.Execute(ctx, RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)

	t.Run("不能吊销其他用户的Refresh Token", func(t *testing.T) {
		err := env.logout.Execute(ctx, LogoutRequest{
			UserID: alice.User.ID, AccessToken: alice.AccessToken, RefreshToken: bob.RefreshToken,
		})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidToken))

		// 校验失败时不吊销任何Token
		revoked, _ := env.sessions.IsInBlacklist(ctx, alice.AccessToken)
		assert.False(t, revoked)
	})

	t.Run("Access Token不能当作Refresh Token吊销", func(t *testing.T) {
		err := env.logout.Execute(ctx, LogoutRequest{
			UserID: alice.User.ID, AccessToken: alice.AccessToken, RefreshToken: alice.AccessToken,
		})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidToken))
	})

	t.Run("登出后不能再刷新", func(t *testing.T) {
		_, err := env.refresh.Execute(ctx, alice.RefreshToken)
		require.NoError(t, err)

		require.NoError(t, env.logout.Execute(ctx, LogoutRequest{
			UserID: alice.User.ID, AccessToken: alice.AccessToken, RefreshToken: alice.RefreshToken,
		}))

		_, err = env.refresh.Execute(ctx, alice.RefreshToken)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTokenRevoked))
	})
}
