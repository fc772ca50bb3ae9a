package book

import (
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrNotOwner 无权操作此图书（已登录但不是发布者）
	ErrNotOwner = apperrors.New(apperrors.ErrCodeNotOwner, "无权操作此图书")

	// ErrMissingQuery 搜索关键词为空
	ErrMissingQuery = apperrors.New(apperrors.ErrCodeMissingQuery, "请提供搜索关键词")

	// ErrInvalidQuery 列表查询参数非法
	ErrInvalidQuery = apperrors.New(apperrors.ErrCodeInvalidQuery, "查询参数非法")
)
