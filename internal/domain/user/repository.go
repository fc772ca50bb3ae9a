package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/database层
// 3. 便于单元测试（Fake此接口）
type Repository interface {
	// Create 创建用户
	// 邮箱或用户名已存在时返回ErrEmailDuplicate / ErrUsernameDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户（不加载密码哈希）
	// 不存在时返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户（包含密码哈希，仅用于登录）
	// 不存在时返回ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)
}
