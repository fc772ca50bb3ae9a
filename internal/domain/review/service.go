package review

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/book"
)

// Service 评论领域服务
// 设计说明：
// 1. 评论依附于图书，创建前检查图书是否存在
// 2. 重复评论先查询预检，并发场景下由唯一索引兜底
// 3. 平均评分的重新计算不在领域服务内触发，由应用层在写入成功后调用
type Service interface {
	// AddReview 发表评论
	AddReview(ctx context.Context, bookID, userID uint, title, text string, rating int) (*Review, error)

	// GetReview 获取单条评论
	GetReview(ctx context.Context, id uint) (*Review, error)

	// ListByBook 获取图书的全部评论
	ListByBook(ctx context.Context, bookID uint) ([]*Review, error)

	// UpdateReview 部分更新评论（只有作者本人可以修改）
	UpdateReview(ctx context.Context, id, userID uint, patch Patch) (*Review, error)

	// DeleteReview 删除评论（只有作者本人可以删除），返回被删除的评论
	DeleteReview(ctx context.Context, id, userID uint) (*Review, error)
}

type service struct {
	repo  Repository
	books book.Repository
}

// NewService 创建评论领域服务
func NewService(repo Repository, books book.Repository) Service {
	return &service{repo: repo, books: books}
}

// AddReview 发表评论
// 业务规则：
// 1. 图书必须存在
// 2. 同一用户对同一本书只能评论一次
// 3. 评分1-5分，标题不超过100个字符，内容不能为空
func (s *service) AddReview(ctx context.Context, bookID, userID uint, title, text string, rating int) (*Review, error) {
	// 1. 检查图书是否存在
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		return nil, err
	}

	// 2. 重复评论预检
	exists, err := s.repo.ExistsByBookAndUser(ctx, bookID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	// 3. 校验
	r := NewReview(bookID, userID, title, text, rating)
	if err := r.Validate(); err != nil {
		return nil, err
	}

	// 4. 持久化（唯一索引冲突已转换为ErrAlreadyReviewed）
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// GetReview 获取单条评论
func (s *service) GetReview(ctx context.Context, id uint) (*Review, error) {
	return s.repo.FindByID(ctx, id)
}

// ListByBook 获取图书的全部评论
func (s *service) ListByBook(ctx context.Context, bookID uint) ([]*Review, error) {
	return s.repo.ListByBook(ctx, bookID)
}

// UpdateReview 更新评论
func (s *service) UpdateReview(ctx context.Context, id, userID uint, patch Patch) (*Review, error) {
	r, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	r.Apply(patch)
	if err := r.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteReview 删除评论
func (s *service) DeleteReview(ctx context.Context, id, userID uint) (*Review, error) {
	r, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) owned(ctx context.Context, id, userID uint) (*Review, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.IsOwnedBy(userID) {
		return nil, ErrNotOwner
	}
	return r, nil
}
