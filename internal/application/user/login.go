package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// LoginUseCase 用户登录用例
// 设计说明：
// 1. 验证邮箱密码
// 2. 生成JWT Token对
// 3. 保存会话到Redis（失败只记录日志，不影响登录）
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore redis.SessionStore
	logger       *zap.Logger
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore redis.SessionStore,
	logger *zap.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email     string
	Password  string
	ClientIP  string
	UserAgent string
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (resp *AuthResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "LoginUseCase.Execute")
	defer func() {
		tracing.EndSpan(span, err)
		metrics.IncCounterVec(metrics.AuthAttemptsTotal, map[string]string{"action": "login", "result": metrics.Result(err)})
	}()

	// 1. 验证邮箱密码
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成JWT Token对
	pair, err := uc.jwtManager.GenerateToken(u.ID, u.Email, u.Username)
	if err != nil {
		return nil, err
	}

	// 3. 保存会话（有效期与Refresh Token一致）
	session := map[string]interface{}{
		"user_id":    u.ID,
		"username":   u.Username,
		"login_at":   time.Now().Unix(),
		"ip":         req.ClientIP,
		"user_agent": req.UserAgent,
	}
	if err := uc.sessionStore.SaveSession(ctx, u.ID, session, uc.jwtManager.RefreshTokenExpire()); err != nil {
		uc.logger.Warn("保存登录会话失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	return newAuthResponse(u, pair), nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	jwtManager   *jwt.Manager
	sessionStore redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(jwtManager *jwt.Manager, sessionStore redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{jwtManager: jwtManager, sessionStore: sessionStore}
}

// LogoutRequest 登出请求
// RefreshToken可选，提供时一并吊销，登出后不能再换取Access Token
type LogoutRequest struct {
	UserID       uint
	AccessToken  string
	RefreshToken string
}

// Execute 执行登出
// 1. 校验Refresh Token属于当前用户（先校验，避免只吊销了一半）
// 2. 删除会话
// 3. Token加入黑名单，有效期为各自的剩余时间
func (uc *LogoutUseCase) Execute(ctx context.Context, req LogoutRequest) (err error) {
	defer func() {
		metrics.IncCounterVec(metrics.AuthAttemptsTotal, map[string]string{"action": "logout", "result": metrics.Result(err)})
	}()

	accessClaims, err := uc.jwtManager.ParseAccessToken(req.AccessToken)
	if err != nil {
		return err
	}

	var refreshClaims *jwt.Claims
	if req.RefreshToken != "" {
		refreshClaims, err = uc.jwtManager.ParseToken(req.RefreshToken)
		if err != nil {
			return err
		}
		if refreshClaims.TokenType != jwt.TokenTypeRefresh || refreshClaims.UserID != req.UserID {
			return apperrors.ErrInvalidToken
		}
	}

	if err := uc.sessionStore.DeleteSession(ctx, req.UserID); err != nil {
		return err
	}
	if err := uc.sessionStore.AddToBlacklist(ctx, req.AccessToken, jwt.RemainingTTL(accessClaims)); err != nil {
		return err
	}
	if refreshClaims != nil {
		return uc.sessionStore.AddToBlacklist(ctx, req.RefreshToken, jwt.RemainingTTL(refreshClaims))
	}
	return nil
}
