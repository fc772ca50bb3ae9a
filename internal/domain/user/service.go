package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/validator"
)

// Service 用户领域服务
// 设计说明：
// 1. 负责密码加密与校验、注册参数校验
// 2. 依赖Repository接口，不依赖具体实现
// 3. 不处理HTTP请求，也不签发Token（由应用层调用pkg/jwt）
type Service interface {
	// Register 用户注册
	Register(ctx context.Context, username, email, password string) (*User, error)

	// Login 用户登录（邮箱 + 密码）
	Login(ctx context.Context, email, password string) (*User, error)

	// GetProfile 获取用户公开信息
	GetProfile(ctx context.Context, id uint) (*User, error)
}

type service struct {
	repo Repository
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// registration 注册参数校验规则
type registration struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=20,password"`
}

// Register 用户注册
// 业务规则：
// 1. 用户名2-50个字符，邮箱格式合法
// 2. 密码8-20位，必须包含字母和数字
// 3. 密码bcrypt加密后存储，明文不落库
// 4. 邮箱、用户名唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, username, email, password string) (*User, error) {
	// 1. 参数校验
	input := registration{
		Username: strings.TrimSpace(username),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	// 2. 密码加密
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	// 3. 持久化（Repository已把唯一索引冲突转换为业务错误）
	user := NewUser(input.Username, input.Email, string(hashed))
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login 用户登录
// 业务规则：
// 1. 邮箱和密码都必须提供
// 2. 用户不存在与密码错误返回同一个错误，避免泄露账号是否存在
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.ErrMissingCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := user.MatchPassword(password); err != nil {
		return nil, err
	}

	return user, nil
}

// GetProfile 获取用户信息
func (s *service) GetProfile(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}
