package dto

// SignupRequest 注册请求
// 字段约束由领域层校验（返回422），这里只做JSON绑定
type SignupRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"secret123"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"secret123"`
}

// RefreshRequest 刷新Token请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest 登出请求（请求体可省略）
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
