package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/response"
)

// Context键
const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
	ctxEmail    = "email"
	ctxToken    = "token"
)

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Bearer Token
// 2. 检查Token黑名单（已登出的Token）
// 3. 验证签名、过期时间和Token类型（只接受Access Token）
// 4. 确认用户仍然存在后，将用户信息注入Context
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore redis.SessionStore
	userService  user.Service
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore redis.SessionStore, userService user.Service) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		userService:  userService,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	books.POST("", authMiddleware.RequireAuth(), bookHandler.CreateBook)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 提取Token（Authorization: Bearer <token>）
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		ctx := c.Request.Context()

		// 2. 黑名单检查
		revoked, err := m.sessionStore.IsInBlacklist(ctx, tokenString)
		if err != nil {
			response.Abort(c, err)
			return
		}
		if revoked {
			response.Abort(c, apperrors.ErrTokenRevoked)
			return
		}

		// 3. 验证Token
		claims, err := m.jwtManager.ParseAccessToken(tokenString)
		if err != nil {
			response.Abort(c, err)
			return
		}

		// 4. 用户已被删除的Token视为无效
		u, err := m.userService.GetProfile(ctx, claims.UserID)
		if err != nil {
			if apperrors.HasCode(err, apperrors.ErrCodeUserNotFound) {
				err = apperrors.ErrInvalidToken
			}
			response.Abort(c, err)
			return
		}

		// 5. 注入用户信息
		c.Set(ctxUserID, u.ID)
		c.Set(ctxUsername, u.Username)
		c.Set(ctxEmail, u.Email)
		c.Set(ctxToken, tokenString)

		c.Next()
	}
}

// bearerToken 解析 "Bearer <token>"
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetUserID 从Context获取当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if userID, exists := c.Get(ctxUserID); exists {
		if uid, ok := userID.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetUsername 从Context获取当前登录用户名
func GetUsername(c *gin.Context) string {
	return c.GetString(ctxUsername)
}

// GetEmail 从Context获取当前登录用户邮箱
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// GetToken 从Context获取当前请求的Access Token
func GetToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}

// MustGetUserID 从Context获取用户ID（如果不存在则panic）
// 说明：用于已经通过RequireAuth中间件的Handler
func MustGetUserID(c *gin.Context) uint {
	userID := GetUserID(c)
	if userID == 0 {
		panic("user_id not found in context")
	}
	return userID
}
