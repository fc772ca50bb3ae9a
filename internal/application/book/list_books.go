package book

import (
	"context"
	"net/url"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明：
// 1. 查询字符串由领域层ParseQuery解析为白名单内的过滤、排序、投影条件
// 2. total是匹配当前过滤条件的总数，与分页无关
// 3. 指定select时返回投影后的map，否则返回完整的BookDTO
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// PageRef 页码引用
type PageRef struct {
	Page  int
	Limit int
}

// ListBooksResponse 列表查询结果
type ListBooksResponse struct {
	Items interface{} // []BookDTO 或 []map[string]interface{}
	Count int
	Total int64
	Next  *PageRef // 没有下一页时为nil
	Prev  *PageRef // 第一页时为nil
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, values url.Values) (resp *ListBooksResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ListBooksUseCase.Execute")
	defer func() { tracing.EndSpan(span, err) }()

	// 1. 解析查询参数
	q, err := book.ParseQuery(values)
	if err != nil {
		return nil, err
	}

	// 2. 查询
	books, total, err := uc.bookService.ListBooks(ctx, q)
	if err != nil {
		return nil, err
	}

	// 3. 转换与投影
	list := ToBookDTOs(books)
	resp = &ListBooksResponse{
		Items: list,
		Count: len(list),
		Total: total,
	}
	if len(q.Select) > 0 {
		resp.Items = Project(list, q.Select)
	}

	// 4. 分页导航
	if int64(q.Offset()+q.Limit) < total {
		resp.Next = &PageRef{Page: q.Page + 1, Limit: q.Limit}
	}
	if q.Page > 1 {
		resp.Prev = &PageRef{Page: q.Page - 1, Limit: q.Limit}
	}

	return resp, nil
}
