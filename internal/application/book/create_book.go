package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// CreateBookUseCase 发布图书用例
// 发布者取自认证中间件，请求体中的user_id、average_rating不会被采用
type CreateBookUseCase struct {
	bookService book.Service
	logger      *zap.Logger
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(bookService book.Service, logger *zap.Logger) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		logger:      logger,
	}
}

// CreateBookRequest 发布请求
type CreateBookRequest struct {
	UserID        uint
	Title         string
	Author        string
	Genre         string
	Description   string
	PublishedYear int
}

// Execute 执行用例
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (resp *BookDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateBookUseCase.Execute")
	defer func() { tracing.EndSpan(span, err) }()

	b, err := uc.bookService.CreateBook(ctx, req.UserID, req.Title, req.Author, req.Genre, req.Description, req.PublishedYear)
	if err != nil {
		return nil, err
	}

	metrics.IncCounterVec(metrics.BooksTotal, map[string]string{"action": "created"})
	uc.logger.Info("图书已发布", zap.Uint("book_id", b.ID), zap.Uint("user_id", b.UserID))

	dto := ToBookDTO(b)
	return &dto, nil
}

// UpdateBookUseCase 修改图书用例（只有发布者可以修改）
type UpdateBookUseCase struct {
	bookService book.Service
}

// NewUpdateBookUseCase 创建用例
func NewUpdateBookUseCase(bookService book.Service) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService}
}

// UpdateBookRequest 修改请求（nil字段不修改）
type UpdateBookRequest struct {
	ID            uint
	UserID        uint
	Title         *string
	Author        *string
	Genre         *string
	Description   *string
	PublishedYear *int
}

// Execute 执行用例
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (resp *BookDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "UpdateBookUseCase.Execute")
	defer func() { tracing.EndSpan(span, err) }()

	b, err := uc.bookService.UpdateBook(ctx, req.ID, req.UserID, book.Patch{
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		Description:   req.Description,
		PublishedYear: req.PublishedYear,
	})
	if err != nil {
		return nil, err
	}

	metrics.IncCounterVec(metrics.BooksTotal, map[string]string{"action": "updated"})
	dto := ToBookDTO(b)
	return &dto, nil
}
