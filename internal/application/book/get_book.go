package book

import (
	"context"

	appreview "github.com/xiebiao/bookreview/internal/application/review"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
)

// GetBookUseCase 图书详情（附带全部评论）
type GetBookUseCase struct {
	bookService   book.Service
	reviewService review.Service
}

// NewGetBookUseCase 创建用例
func NewGetBookUseCase(bookService book.Service, reviewService review.Service) *GetBookUseCase {
	return &GetBookUseCase{
		bookService:   bookService,
		reviewService: reviewService,
	}
}

// Execute 执行查询
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDetailDTO, error) {
	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := uc.reviewService.ListByBook(ctx, id)
	if err != nil {
		return nil, err
	}

	return &BookDetailDTO{
		BookDTO: ToBookDTO(b),
		Reviews: appreview.ToReviewDTOs(reviews),
	}, nil
}

// SearchBooksUseCase 按标题或作者搜索图书
type SearchBooksUseCase struct {
	bookService book.Service
}

// NewSearchBooksUseCase 创建用例
func NewSearchBooksUseCase(bookService book.Service) *SearchBooksUseCase {
	return &SearchBooksUseCase{bookService: bookService}
}

// Execute 执行搜索（最多返回book.SearchLimit条）
func (uc *SearchBooksUseCase) Execute(ctx context.Context, term string) ([]BookDTO, error) {
	books, err := uc.bookService.SearchBooks(ctx, term)
	if err != nil {
		return nil, err
	}
	return ToBookDTOs(books), nil
}
