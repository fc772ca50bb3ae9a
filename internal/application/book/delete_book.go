package book

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/mq"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// Transactor 事务执行器（由database.TxManager实现）
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// DeleteBookUseCase 删除图书用例
// 流程：
// 1. 在同一事务中校验所有权、删除图书、删除其全部评论
// 2. 提交后发布book.deleted事件
//
// 评论随图书一起删除，不存在指向已删除图书的评论，也无需重新计算评分
type DeleteBookUseCase struct {
	txManager   Transactor
	bookService book.Service
	reviewRepo  review.Repository
	publisher   mq.EventPublisher
	logger      *zap.Logger
}

// NewDeleteBookUseCase 创建用例
func NewDeleteBookUseCase(txManager Transactor, bookService book.Service, reviewRepo review.Repository, publisher mq.EventPublisher, logger *zap.Logger) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		txManager:   txManager,
		bookService: bookService,
		reviewRepo:  reviewRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute 执行用例
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id, userID uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteBookUseCase.Execute")
	defer func() { tracing.EndSpan(span, err) }()

	var deleted int64
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.bookService.DeleteBook(txCtx, id, userID); err != nil {
			return err
		}
		n, err := uc.reviewRepo.DeleteByBook(txCtx, id)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return err
	}

	metrics.IncCounterVec(metrics.BooksTotal, map[string]string{"action": "deleted"})
	uc.logger.Info("图书已删除",
		zap.Uint("book_id", id),
		zap.Uint("user_id", userID),
		zap.Int64("deleted_reviews", deleted),
	)

	mq.TryPublish(ctx, uc.publisher, uc.logger, review.RoutingKeyBookDeleted, review.BookDeletedEvent{
		BookID:         id,
		UserID:         userID,
		DeletedReviews: deleted,
		OccurredAt:     time.Now(),
	})
	return nil
}
