package handler

import (
	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/bookreview/internal/application/review"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/interface/http/dto"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/pkg/response"
)

// ReviewHandler 评论HTTP处理器
type ReviewHandler struct {
	listUseCase   *appreview.ListReviewsUseCase
	getUseCase    *appreview.GetReviewUseCase
	addUseCase    *appreview.AddReviewUseCase
	updateUseCase *appreview.UpdateReviewUseCase
	deleteUseCase *appreview.DeleteReviewUseCase
}

// NewReviewHandler 创建评论处理器
func NewReviewHandler(
	listUseCase *appreview.ListReviewsUseCase,
	getUseCase *appreview.GetReviewUseCase,
	addUseCase *appreview.AddReviewUseCase,
	updateUseCase *appreview.UpdateReviewUseCase,
	deleteUseCase *appreview.DeleteReviewUseCase,
) *ReviewHandler {
	return &ReviewHandler{
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		addUseCase:    addUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// ListReviews 图书的全部评论
// @Summary      评论列表
// @Tags         评论
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=[]appreview.ReviewDTO} "评论列表"
// @Router       /api/v1/books/{id}/reviews [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	bookID, ok := parseID(c, "id", book.ErrBookNotFound)
	if !ok {
		return
	}

	reviews, err := h.listUseCase.Execute(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Collection(c, reviews, len(reviews))
}

// GetReview 单条评论
// @Summary      评论详情
// @Tags         评论
// @Produce      json
// @Param        id path int true "评论ID"
// @Success      200 {object} response.Response{data=appreview.ReviewDTO} "评论详情"
// @Failure      404 {object} response.Response "评论不存在"
// @Router       /api/v1/reviews/{id} [get]
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := parseID(c, "id", review.ErrReviewNotFound)
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

// AddReview 发表评论
// @Summary      发表评论
// @Description  每个用户对同一本书只能评论一次，评分1-5
// @Tags         评论
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.CreateReviewRequest true "评论内容"
// @Success      201 {object} response.Response{data=appreview.ReviewDTO} "发表成功"
// @Failure      400 {object} response.Response "已经评论过"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      422 {object} response.Response "字段校验失败"
// @Router       /api/v1/books/{id}/reviews [post]
func (h *ReviewHandler) AddReview(c *gin.Context) {
	bookID, ok := parseID(c, "id", book.ErrBookNotFound)
	if !ok {
		return
	}
	var req dto.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.addUseCase.Execute(c.Request.Context(), appreview.AddReviewRequest{
		BookID:   bookID,
		UserID:   middleware.MustGetUserID(c),
		Username: middleware.GetUsername(c),
		Title:    req.Title,
		Text:     req.Text,
		Rating:   req.Rating,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateReview 修改评论
// @Summary      修改评论
// @Tags         评论
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "评论ID"
// @Param        request body dto.UpdateReviewRequest true "修改内容"
// @Success      200 {object} response.Response{data=appreview.ReviewDTO} "修改成功"
// @Failure      401 {object} response.Response "未登录或不是作者"
// @Failure      404 {object} response.Response "评论不存在"
// @Failure      422 {object} response.Response "字段校验失败"
// @Router       /api/v1/reviews/{id} [put]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, ok := parseID(c, "id", review.ErrReviewNotFound)
	if !ok {
		return
	}
	var req dto.UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), appreview.UpdateReviewRequest{
		ID:     id,
		UserID: middleware.MustGetUserID(c),
		Title:  req.Title,
		Text:   req.Text,
		Rating: req.Rating,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteReview 删除评论
// @Summary      删除评论
// @Tags         评论
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "评论ID"
// @Success      200 {object} response.Response "删除成功"
// @Failure      401 {object} response.Response "未登录或不是作者"
// @Failure      404 {object} response.Response "评论不存在"
// @Router       /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := parseID(c, "id", review.ErrReviewNotFound)
	if !ok {
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), id, middleware.MustGetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, empty)
}
