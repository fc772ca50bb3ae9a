package review

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/mq"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// AddReviewUseCase 发表评论用例
// 流程：
// 1. 领域服务校验图书存在、未重复评论、字段合法后写入
// 2. 重新计算图书平均评分
// 3. 发布review.created事件
type AddReviewUseCase struct {
	reviewService review.Service
	aggregator    *RatingAggregator
	publisher     mq.EventPublisher
	logger        *zap.Logger
}

// NewAddReviewUseCase 创建用例
func NewAddReviewUseCase(reviewService review.Service, aggregator *RatingAggregator, publisher mq.EventPublisher, logger *zap.Logger) *AddReviewUseCase {
	return &AddReviewUseCase{
		reviewService: reviewService,
		aggregator:    aggregator,
		publisher:     publisher,
		logger:        logger,
	}
}

// AddReviewRequest 发表评论请求
type AddReviewRequest struct {
	BookID   uint
	UserID   uint
	Username string // 当前用户名（来自认证中间件），用于响应
	Title    string
	Text     string
	Rating   int
}

// Execute 执行用例
func (uc *AddReviewUseCase) Execute(ctx context.Context, req AddReviewRequest) (resp *ReviewDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "AddReviewUseCase.Execute")
	defer func() { tracing.EndSpan(span, err) }()

	r, err := uc.reviewService.AddReview(ctx, req.BookID, req.UserID, req.Title, req.Text, req.Rating)
	if err != nil {
		return nil, err
	}
	r.Username = req.Username
	metrics.IncCounterVec(metrics.ReviewsTotal, map[string]string{"action": "created"})

	// 评分写回失败不影响本次请求
	event := recomputeAndBuildEvent(ctx, uc.aggregator, r)
	mq.TryPublish(ctx, uc.publisher, uc.logger, review.RoutingKeyReviewCreated, event)

	dto := ToReviewDTO(r)
	return &dto, nil
}
