package review

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/mq"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// UpdateReviewUseCase 修改评论用例
// 修改评分后同样需要重新计算图书平均分
type UpdateReviewUseCase struct {
	reviewService review.Service
	aggregator    *RatingAggregator
	publisher     mq.EventPublisher
	logger        *zap.Logger
}

// NewUpdateReviewUseCase 创建用例
func NewUpdateReviewUseCase(reviewService review.Service, aggregator *RatingAggregator, publisher mq.EventPublisher, logger *zap.Logger) *UpdateReviewUseCase {
	return &UpdateReviewUseCase{
		reviewService: reviewService,
		aggregator:    aggregator,
		publisher:     publisher,
		logger:        logger,
	}
}

// UpdateReviewRequest 修改请求（nil字段不修改）
type UpdateReviewRequest struct {
	ID     uint
	UserID uint
	Title  *string
	Text   *string
	Rating *int
}

// Execute 执行用例
func (uc *UpdateReviewUseCase) Execute(ctx context.Context, req UpdateReviewRequest) (resp *ReviewDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "UpdateReviewUseCase.Execute")
	defer func() { tracing.EndSpan(span, err) }()

	r, err := uc.reviewService.UpdateReview(ctx, req.ID, req.UserID, review.Patch{
		Title:  req.Title,
		Text:   req.Text,
		Rating: req.Rating,
	})
	if err != nil {
		return nil, err
	}
	metrics.IncCounterVec(metrics.ReviewsTotal, map[string]string{"action": "updated"})

	event := recomputeAndBuildEvent(ctx, uc.aggregator, r)
	mq.TryPublish(ctx, uc.publisher, uc.logger, review.RoutingKeyReviewUpdated, event)

	dto := ToReviewDTO(r)
	return &dto, nil
}

// DeleteReviewUseCase 删除评论用例
type DeleteReviewUseCase struct {
	reviewService review.Service
	aggregator    *RatingAggregator
	publisher     mq.EventPublisher
	logger        *zap.Logger
}

// NewDeleteReviewUseCase 创建用例
func NewDeleteReviewUseCase(reviewService review.Service, aggregator *RatingAggregator, publisher mq.EventPublisher, logger *zap.Logger) *DeleteReviewUseCase {
	return &DeleteReviewUseCase{
		reviewService: reviewService,
		aggregator:    aggregator,
		publisher:     publisher,
		logger:        logger,
	}
}

// Execute 执行用例
func (uc *DeleteReviewUseCase) Execute(ctx context.Context, id, userID uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteReviewUseCase.Execute")
	defer func() { tracing.EndSpan(span, err) }()

	r, err := uc.reviewService.DeleteReview(ctx, id, userID)
	if err != nil {
		return err
	}
	metrics.IncCounterVec(metrics.ReviewsTotal, map[string]string{"action": "deleted"})

	event := recomputeAndBuildEvent(ctx, uc.aggregator, r)
	mq.TryPublish(ctx, uc.publisher, uc.logger, review.RoutingKeyReviewDeleted, event)
	return nil
}
