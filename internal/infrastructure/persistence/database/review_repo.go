package database

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookreview/internal/domain/review"
)

// reviewRepository 评论仓储实现
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评论仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

// reviewRow 评论 + 作者用户名（LEFT JOIN users）
type reviewRow struct {
	ReviewModel
	Username string
}

// withAuthor 关联查询作者用户名
func (r *reviewRepository) withAuthor(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).
		Table("reviews").
		Select("reviews.*, users.username").
		Joins("LEFT JOIN users ON users.id = reviews.user_id")
}

// Create 创建评论
// (book_id, user_id)唯一索引冲突说明该用户已评论过，转换为ErrAlreadyReviewed
func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := &ReviewModel{
		Title:  rv.Title,
		Text:   rv.Text,
		Rating: rv.Rating,
		BookID: rv.BookID,
		UserID: rv.UserID,
	}

	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return review.ErrAlreadyReviewed
		}
		return dbError(err, "创建评论失败")
	}

	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	rv.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找评论
func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*review.Review, error) {
	var row reviewRow
	err := r.withAuthor(ctx).Where("reviews.id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.ErrReviewNotFound
		}
		return nil, dbError(err, "查询评论失败")
	}
	return toReviewEntity(&row), nil
}

// ListByBook 查询图书的全部评论（最新在前）
func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint) ([]*review.Review, error) {
	var rows []reviewRow
	err := r.withAuthor(ctx).
		Where("reviews.book_id = ?", bookID).
		Order("reviews.created_at DESC").
		Order("reviews.id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, dbError(err, "查询评论列表失败")
	}

	reviews := make([]*review.Review, len(rows))
	for i := range rows {
		reviews[i] = toReviewEntity(&rows[i])
	}
	return reviews, nil
}

// ExistsByBookAndUser 用户是否已评论过该书
func (r *reviewRepository) ExistsByBookAndUser(ctx context.Context, bookID, userID uint) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).
		Model(&ReviewModel{}).
		Where("book_id = ? AND user_id = ?", bookID, userID).
		Count(&count).Error
	if err != nil {
		return false, dbError(err, "查询评论失败")
	}
	return count > 0, nil
}

// Update 更新标题、内容、评分
func (r *reviewRepository) Update(ctx context.Context, rv *review.Review) error {
	err := dbFromContext(ctx, r.db).
		Model(&ReviewModel{ID: rv.ID}).
		Select("title", "text", "rating", "updated_at").
		Updates(ReviewModel{
			Title:     rv.Title,
			Text:      rv.Text,
			Rating:    rv.Rating,
			UpdatedAt: rv.UpdatedAt,
		}).Error
	if err != nil {
		return dbError(err, "更新评论失败")
	}
	return nil
}

// Delete 删除评论
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	result := dbFromContext(ctx, r.db).Delete(&ReviewModel{}, id)
	if result.Error != nil {
		return dbError(result.Error, "删除评论失败")
	}
	if result.RowsAffected == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

// DeleteByBook 删除图书的全部评论
func (r *reviewRepository) DeleteByBook(ctx context.Context, bookID uint) (int64, error) {
	result := dbFromContext(ctx, r.db).Where("book_id = ?", bookID).Delete(&ReviewModel{})
	if result.Error != nil {
		return 0, dbError(result.Error, "删除图书评论失败")
	}
	return result.RowsAffected, nil
}

// AverageRating 计算平均评分
// 没有评论时AVG返回NULL，按0处理
func (r *reviewRepository) AverageRating(ctx context.Context, bookID uint) (float64, error) {
	var avg sql.NullFloat64
	err := dbFromContext(ctx, r.db).
		Model(&ReviewModel{}).
		Select("AVG(rating)").
		Where("book_id = ?", bookID).
		Scan(&avg).Error
	if err != nil {
		return 0, dbError(err, "计算平均评分失败")
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

// toReviewEntity GORM模型 → 领域实体
func toReviewEntity(row *reviewRow) *review.Review {
	return &review.Review{
		ID:        row.ID,
		Title:     row.Title,
		Text:      row.Text,
		Rating:    row.Rating,
		BookID:    row.BookID,
		UserID:    row.UserID,
		Username:  row.Username,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
