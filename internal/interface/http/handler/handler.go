package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/response"
)

// parseID 解析路径参数中的ID
// 非法ID（非数字、0、溢出）按资源不存在处理
func parseID(c *gin.Context, name string, notFound *apperrors.AppError) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.Error(c, notFound)
		return 0, false
	}
	return uint(id), true
}

// bindJSON 绑定请求体，失败时返回400
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.Error(c, apperrors.WithMessage(apperrors.ErrBindError, "参数格式错误: "+err.Error()))
		return false
	}
	return true
}

// empty 删除、登出等操作成功时的data
var empty = struct{}{}
