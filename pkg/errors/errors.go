package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型，Code/100即对应的HTTP状态码
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus 由错误码推导HTTP状态码
// 例如：40402 → 404，42200 → 422；无法识别的错误码一律视为500
func (e *AppError) HTTPStatus() int {
	status := e.Code / 100
	if status < http.StatusBadRequest || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// WithMessage 复制错误并替换提示信息（错误码不变）
// 用于预定义错误需要补充具体字段名的场景
func WithMessage(err *AppError, message string) *AppError {
	return &AppError{
		Code:    err.Code,
		Message: message,
		Err:     err.Err,
	}
}

// WithCause 复制错误并附加内部原因（错误码和提示信息不变）
func (e *AppError) WithCause(cause error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     cause,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：错误码 = HTTP状态码 * 100 + 序号
// - 400xx: 请求错误（参数格式、业务规则冲突）
// - 401xx: 认证授权失败
// - 404xx: 资源不存在
// - 422xx: 数据校验失败
// - 500xx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized       = 40100 // 未登录
	ErrCodeInvalidToken       = 40101 // Token无效
	ErrCodeTokenExpired       = 40102 // Token过期
	ErrCodeInvalidCredentials = 40103 // 邮箱或密码错误
	ErrCodeNotOwner           = 40104 // 不是资源所有者
	ErrCodeTokenRevoked       = 40105 // Token已被吊销

	// 资源错误（40400-40499）
	ErrCodeNotFound       = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound   = 40401 // 用户不存在
	ErrCodeBookNotFound   = 40402 // 图书不存在
	ErrCodeReviewNotFound = 40403 // 评论不存在

	// 请求错误（40000-40099）
	ErrCodeBadRequest         = 40000 // 请求错误(通用)
	ErrCodeAlreadyReviewed    = 40001 // 重复评论
	ErrCodeMissingQuery       = 40002 // 缺少搜索关键词
	ErrCodeInvalidQuery       = 40003 // 查询参数非法
	ErrCodeMissingCredentials = 40004 // 缺少邮箱或密码
	ErrCodeBindError          = 40010 // 参数绑定失败

	// 数据校验错误（42200-42299）
	ErrCodeValidation        = 42200 // 数据校验失败(通用)
	ErrCodeEmailDuplicate    = 42201 // 邮箱已存在
	ErrCodeUsernameDuplicate = 42202 // 用户名已存在
	ErrCodeWeakPassword      = 42203 // 密码强度不足
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized       = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken       = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired       = New(ErrCodeTokenExpired, "Token已过期")
	ErrTokenRevoked       = New(ErrCodeTokenRevoked, "Token已失效，请重新登录")
	ErrInvalidCredentials = New(ErrCodeInvalidCredentials, "邮箱或密码错误")
	ErrNotOwner           = New(ErrCodeNotOwner, "无权操作此资源")

	// 资源不存在
	ErrNotFound     = New(ErrCodeNotFound, "资源不存在")
	ErrUserNotFound = New(ErrCodeUserNotFound, "用户不存在")

	// 请求错误
	ErrBadRequest         = New(ErrCodeBadRequest, "请求错误")
	ErrMissingCredentials = New(ErrCodeMissingCredentials, "请提供邮箱和密码")
	ErrBindError          = New(ErrCodeBindError, "参数格式错误")

	// 数据校验
	ErrValidation        = New(ErrCodeValidation, "数据校验失败")
	ErrEmailDuplicate    = New(ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrUsernameDuplicate = New(ErrCodeUsernameDuplicate, "用户名已被占用")
	ErrWeakPassword      = New(ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")
)

// =========================================
// 辅助函数
// =========================================

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// HasCode 判断错误链中是否包含指定错误码的AppError
func HasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
