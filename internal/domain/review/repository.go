package review

import (
	"context"
)

// Repository 评论仓储接口
type Repository interface {
	// Create 创建评论
	// (book_id, user_id)唯一索引冲突时返回ErrAlreadyReviewed
	Create(ctx context.Context, review *Review) error

	// FindByID 根据ID查找评论（包含作者用户名），不存在返回ErrReviewNotFound
	FindByID(ctx context.Context, id uint) (*Review, error)

	// ListByBook 查询图书的全部评论（包含作者用户名，最新在前）
	ListByBook(ctx context.Context, bookID uint) ([]*Review, error)

	// ExistsByBookAndUser 用户是否已评论过该书
	ExistsByBookAndUser(ctx context.Context, bookID, userID uint) (bool, error)

	// Update 保存标题、内容、评分
	Update(ctx context.Context, review *Review) error

	// Delete 删除评论
	Delete(ctx context.Context, id uint) error

	// DeleteByBook 删除图书的全部评论（删除图书时级联调用）
	DeleteByBook(ctx context.Context, bookID uint) (int64, error)

	// AverageRating 图书评论的平均评分，没有评论时为0
	AverageRating(ctx context.Context, bookID uint) (float64, error)
}
