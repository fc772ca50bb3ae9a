package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 用户注册后在本系统内不可修改
// 2. Password保存bcrypt哈希值，默认查询不加载，任何序列化都不包含该字段
// 3. 领域实体不依赖GORM tag（infrastructure层负责映射）
type User struct {
	ID        uint
	Username  string
	Email     string
	Password  string // bcrypt哈希值
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MatchPassword 校验明文密码与哈希值是否匹配
// 不匹配时返回ErrInvalidCredentials，不区分"用户不存在"和"密码错误"
func (u *User) MatchPassword(plain string) error {
	if u.Password == "" {
		return apperrors.ErrInvalidCredentials
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain))
	if err != nil {
		return apperrors.ErrInvalidCredentials
	}
	return nil
}
