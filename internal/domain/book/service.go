package book

import (
	"context"
	"strings"
)

// Service 图书领域服务接口
// 设计说明：
// 1. 封装发布者权限校验与字段校验
// 2. 不依赖具体的Repository实现（依赖倒置）
type Service interface {
	// CreateBook 发布图书，发布者为当前用户
	CreateBook(ctx context.Context, userID uint, title, author, genre, description string, publishedYear int) (*Book, error)

	// GetBook 根据ID获取图书
	GetBook(ctx context.Context, id uint) (*Book, error)

	// UpdateBook 部分更新图书
	// 业务规则：只有发布者本人可以修改，修改后重新校验
	UpdateBook(ctx context.Context, id, userID uint, patch Patch) (*Book, error)

	// DeleteBook 删除图书
	// 业务规则：只有发布者本人可以删除
	DeleteBook(ctx context.Context, id, userID uint) (*Book, error)

	// ListBooks 过滤、排序、分页查询（公开接口）
	ListBooks(ctx context.Context, q Query) ([]*Book, int64, error)

	// SearchBooks 按标题或作者模糊搜索，最多返回SearchLimit条
	SearchBooks(ctx context.Context, term string) ([]*Book, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 发布图书
func (s *service) CreateBook(ctx context.Context, userID uint, title, author, genre, description string, publishedYear int) (*Book, error) {
	// 1. 创建实体并校验
	book := NewBook(title, author, genre, description, publishedYear, userID)
	if err := book.Validate(); err != nil {
		return nil, err
	}

	// 2. 持久化
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// GetBook 根据ID获取图书
func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateBook 更新图书
func (s *service) UpdateBook(ctx context.Context, id, userID uint, patch Patch) (*Book, error) {
	// 1. 查询并检查权限
	book, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	// 2. 应用修改并重新校验
	book.Apply(patch)
	if err := book.Validate(); err != nil {
		return nil, err
	}

	// 3. 持久化
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id, userID uint) (*Book, error) {
	book, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return book, nil
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, q Query) ([]*Book, int64, error) {
	return s.repo.List(ctx, q)
}

// SearchBooks 搜索图书
func (s *service) SearchBooks(ctx context.Context, term string) ([]*Book, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrMissingQuery
	}
	return s.repo.Search(ctx, term, SearchLimit)
}

// owned 查询图书并校验发布者
func (s *service) owned(ctx context.Context, id, userID uint) (*Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !book.IsOwnedBy(userID) {
		return nil, ErrNotOwner
	}
	return book, nil
}
