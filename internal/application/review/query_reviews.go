package review

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/review"
)

// GetReviewUseCase 查询单条评论
type GetReviewUseCase struct {
	reviewService review.Service
}

// NewGetReviewUseCase 创建用例
func NewGetReviewUseCase(reviewService review.Service) *GetReviewUseCase {
	return &GetReviewUseCase{reviewService: reviewService}
}

// Execute 执行查询
func (uc *GetReviewUseCase) Execute(ctx context.Context, id uint) (*ReviewDTO, error) {
	r, err := uc.reviewService.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToReviewDTO(r)
	return &dto, nil
}

// ListReviewsUseCase 查询图书的全部评论（不分页）
type ListReviewsUseCase struct {
	reviewService review.Service
}

// NewListReviewsUseCase 创建用例
func NewListReviewsUseCase(reviewService review.Service) *ListReviewsUseCase {
	return &ListReviewsUseCase{reviewService: reviewService}
}

// Execute 执行查询
func (uc *ListReviewsUseCase) Execute(ctx context.Context, bookID uint) ([]ReviewDTO, error) {
	reviews, err := uc.reviewService.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return ToReviewDTOs(reviews), nil
}
