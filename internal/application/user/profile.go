package user

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/user"
)

// GetProfileUseCase 获取当前用户信息
type GetProfileUseCase struct {
	userService user.Service
}

// NewGetProfileUseCase 创建用例
func NewGetProfileUseCase(userService user.Service) *GetProfileUseCase {
	return &GetProfileUseCase{userService: userService}
}

// Execute 执行查询
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uint) (*UserInfo, error) {
	u, err := uc.userService.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(u)
	return &info, nil
}
