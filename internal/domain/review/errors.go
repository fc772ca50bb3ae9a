package review

import (
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// 评论领域错误定义
var (
	// ErrReviewNotFound 评论不存在
	ErrReviewNotFound = apperrors.New(apperrors.ErrCodeReviewNotFound, "评论不存在")

	// ErrAlreadyReviewed 同一用户重复评论同一本书
	ErrAlreadyReviewed = apperrors.New(apperrors.ErrCodeAlreadyReviewed, "您已经评论过这本书")

	// ErrNotOwner 无权操作此评论
	ErrNotOwner = apperrors.New(apperrors.ErrCodeNotOwner, "无权操作此评论")
)
