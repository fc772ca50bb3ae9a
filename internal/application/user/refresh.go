package user

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/metrics"
)

// RefreshTokenUseCase 刷新Access Token用例
// 用户被删除或Refresh Token已吊销时拒绝刷新
type RefreshTokenUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore redis.SessionStore
}

// NewRefreshTokenUseCase 创建刷新用例
func NewRefreshTokenUseCase(userService user.Service, jwtManager *jwt.Manager, sessionStore redis.SessionStore) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RefreshResponse 刷新响应
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Execute 执行刷新
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (resp *RefreshResponse, err error) {
	defer func() {
		metrics.IncCounterVec(metrics.AuthAttemptsTotal, map[string]string{"action": "refresh", "result": metrics.Result(err)})
	}()

	// 1. 校验Refresh Token
	claims, err := uc.jwtManager.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, apperrors.ErrInvalidToken
	}

	revoked, err := uc.sessionStore.IsInBlacklist(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrTokenRevoked
	}

	// 2. 用户必须仍然存在
	u, err := uc.userService.GetProfile(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	// 3. 签发新的Access Token
	accessToken, err := uc.jwtManager.RefreshAccessToken(refreshToken, u.Email, u.Username)
	if err != nil {
		return nil, err
	}

	return &RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(uc.jwtManager.AccessTokenExpire().Seconds()),
	}, nil
}
