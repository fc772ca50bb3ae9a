package review

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// recomputeTimeout 单次重算的超时时间
const recomputeTimeout = 5 * time.Second

// RatingAggregator 图书平均评分聚合器
// 设计说明：
// 1. 平均分 = 该书全部评论rating的算术平均值，没有评论时为0
// 2. 由评论的创建、更新、删除用例在写入成功后显式调用，只重算受影响的图书
// 3. 结果只取决于当前评论集合，重复调用结果相同
// 4. 写回失败只记录日志和指标，不影响触发它的请求
type RatingAggregator struct {
	reviews review.Repository
	books   book.Repository
	logger  *zap.Logger
}

// NewRatingAggregator 创建聚合器
func NewRatingAggregator(reviews review.Repository, books book.Repository, logger *zap.Logger) *RatingAggregator {
	return &RatingAggregator{
		reviews: reviews,
		books:   books,
		logger:  logger,
	}
}

// Recompute 重新计算并写回图书平均评分
// 使用脱离请求取消信号的context，客户端断开不会中断已提交写入的后续重算
func (a *RatingAggregator) Recompute(ctx context.Context, bookID uint) (avg float64, err error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recomputeTimeout)
	defer cancel()

	ctx, span := tracing.StartSpan(ctx, tracerName, "RatingAggregator.Recompute")
	start := time.Now()
	defer func() {
		tracing.EndSpan(span, err)
		metrics.ObserveHistogram(metrics.RatingRecomputeDuration, time.Since(start).Seconds())
		metrics.IncCounterVec(metrics.RatingRecomputeTotal, map[string]string{"result": metrics.Result(err)})
		if err != nil {
			a.logger.Error("重新计算平均评分失败", zap.Uint("book_id", bookID), zap.Error(err))
		}
	}()

	// 1. 聚合
	avg, err = a.reviews.AverageRating(ctx, bookID)
	if err != nil {
		return 0, err
	}

	// 2. 写回
	if err = a.books.UpdateAverageRating(ctx, bookID, avg); err != nil {
		return 0, err
	}

	a.logger.Debug("平均评分已更新", zap.Uint("book_id", bookID), zap.Float64("average_rating", avg))
	return avg, nil
}

// recomputeAndBuildEvent 评论写入后重算平均分并构造事件
// 重算失败已由Recompute记录，事件不携带平均分
func recomputeAndBuildEvent(ctx context.Context, aggregator *RatingAggregator, r *review.Review) review.Event {
	event := review.Event{
		ReviewID:   r.ID,
		BookID:     r.BookID,
		UserID:     r.UserID,
		Rating:     r.Rating,
		OccurredAt: time.Now(),
	}
	if avg, err := aggregator.Recompute(ctx, r.BookID); err == nil {
		event.AverageRating = &avg
	}
	return event
}
