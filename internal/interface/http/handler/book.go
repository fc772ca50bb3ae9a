package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookreview/internal/application/book"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/interface/http/dto"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listUseCase   *appbook.ListBooksUseCase
	getUseCase    *appbook.GetBookUseCase
	searchUseCase *appbook.SearchBooksUseCase
	createUseCase *appbook.CreateBookUseCase
	updateUseCase *appbook.UpdateBookUseCase
	deleteUseCase *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listUseCase *appbook.ListBooksUseCase,
	getUseCase *appbook.GetBookUseCase,
	searchUseCase *appbook.SearchBooksUseCase,
	createUseCase *appbook.CreateBookUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
	deleteUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		searchUseCase: searchUseCase,
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  过滤：field=value 或 field[gt|gte|lt|lte|in]=value；select=title,author；sort=-published_year,title；page、limit
// @Tags         图书
// @Produce      json
// @Param        select query string false "投影字段，逗号分隔"
// @Param        sort   query string false "排序字段，-表示降序"
// @Param        page   query int    false "页码" default(1)
// @Param        limit  query int    false "每页数量（最大100）" default(10)
// @Success      200 {object} response.Response{data=[]appbook.BookDTO} "图书列表"
// @Failure      400 {object} response.Response "查询参数非法"
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	result, err := h.listUseCase.Execute(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := &response.Pagination{}
	if result.Next != nil {
		pagination.Next = &response.PageRef{Page: result.Next.Page, Limit: result.Next.Limit}
	}
	if result.Prev != nil {
		pagination.Prev = &response.PageRef{Page: result.Prev.Page, Limit: result.Prev.Limit}
	}

	response.Page(c, result.Items, result.Count, result.Total, pagination)
}

// SearchBooks 搜索图书
// @Summary      搜索图书
// @Description  按标题或作者模糊匹配（不区分大小写），最多返回10条
// @Tags         图书
// @Produce      json
// @Param        q query string true "关键词"
// @Success      200 {object} response.Response{data=[]appbook.BookDTO} "搜索结果"
// @Failure      400 {object} response.Response "缺少关键词"
// @Router       /api/v1/books/search [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	books, err := h.searchUseCase.Execute(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Collection(c, books, len(books))
}

// GetBook 图书详情（含评论）
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDetailDTO} "图书详情"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c, "id", book.ErrBookNotFound)
	if !ok {
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateBook 发布图书
// @Summary      发布图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookDTO} "发布成功"
// @Failure      401 {object} response.Response "未登录"
// @Failure      422 {object} response.Response "字段校验失败"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		UserID:        middleware.MustGetUserID(c),
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		Description:   req.Description,
		PublishedYear: req.PublishedYear,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Description  只有发布者可以修改，未提供的字段保持不变
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "修改内容"
// @Success      200 {object} response.Response{data=appbook.BookDTO} "修改成功"
// @Failure      401 {object} response.Response "未登录或不是发布者"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      422 {object} response.Response "字段校验失败"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseID(c, "id", book.ErrBookNotFound)
	if !ok {
		return
	}
	var req dto.UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:            id,
		UserID:        middleware.MustGetUserID(c),
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		Description:   req.Description,
		PublishedYear: req.PublishedYear,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBook 删除图书（同时删除其全部评论）
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response "删除成功"
// @Failure      401 {object} response.Response "未登录或不是发布者"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c, "id", book.ErrBookNotFound)
	if !ok {
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), id, middleware.MustGetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, empty)
}
