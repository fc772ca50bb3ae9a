package user

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// RegisterUseCase 用户注册用例
// 设计说明：
// 1. 注册成功后直接签发Token，客户端无需再调用登录
// 2. 参数校验、密码加密由领域服务完成
type RegisterUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, jwtManager *jwt.Manager) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		jwtManager:  jwtManager,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (resp *AuthResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "RegisterUseCase.Execute")
	defer func() {
		tracing.EndSpan(span, err)
		metrics.IncCounterVec(metrics.AuthAttemptsTotal, map[string]string{"action": "signup", "result": metrics.Result(err)})
	}()

	// 1. 创建用户
	u, err := uc.userService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 签发Token
	pair, err := uc.jwtManager.GenerateToken(u.ID, u.Email, u.Username)
	if err != nil {
		return nil, err
	}

	return newAuthResponse(u, pair), nil
}
