package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Success标识请求是否成功，客户端无需解析HTTP状态码即可判断
// 2. 失败时Code是业务错误码，Error是用户友好的提示信息
// 3. 列表接口额外返回Count（当前页条数）、Total（匹配总数）与Pagination
// 4. 认证接口返回Token字段
type Response struct {
	Success      bool        `json:"success"`
	Code         int         `json:"code,omitempty"`
	Error        string      `json:"error,omitempty"`
	Count        *int        `json:"count,omitempty"`
	Total        *int64      `json:"total,omitempty"`
	Pagination   *Pagination `json:"pagination,omitempty"`
	Data         interface{} `json:"data,omitempty"`
	Token        string      `json:"token,omitempty"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	ExpiresIn    int64       `json:"expires_in,omitempty"`
}

// Pagination 分页导航（只包含存在的上一页/下一页）
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// PageRef 页码引用
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Created 创建成功响应（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// Collection 集合响应（不分页，如搜索结果、评论列表）
func Collection(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Count:   &count,
		Data:    data,
	})
}

// Page 分页列表响应
func Page(c *gin.Context, data interface{}, count int, total int64, pagination *Pagination) {
	if pagination == nil {
		pagination = &Pagination{}
	}
	c.JSON(http.StatusOK, Response{
		Success:    true,
		Count:      &count,
		Total:      &total,
		Pagination: pagination,
		Data:       data,
	})
}

// Token 认证成功响应
func Token(c *gin.Context, status int, accessToken, refreshToken string, expiresIn int64) {
	c.JSON(status, Response{
		Success:      true,
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	err := userService.Register(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	// 提取AppError
	appErr := apperrors.GetAppError(err)

	// 内部错误记录到日志，客户端只看到Message
	if appErr.Err != nil {
		zap.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("code", appErr.Code),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(appErr.Err),
		)
	}

	c.JSON(appErr.HTTPStatus(), Response{
		Success: false,
		Code:    appErr.Code,
		Error:   appErr.Message,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	Error(c, apperrors.New(code, message))
}

// Abort 错误响应并终止后续Handler（中间件使用）
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
