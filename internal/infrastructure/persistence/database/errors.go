package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// dbError 数据库异常转换为ErrDatabaseError，驱动错误只作为内部原因记录
func dbError(err error, message string) error {
	return apperrors.WithMessage(apperrors.ErrDatabaseError, message).WithCause(err)
}

// isDuplicateError 判断是否为唯一索引冲突
// 各驱动的错误信息：
// - MySQL 1062:      Duplicate entry 'xxx' for key 'users.idx_users_email'
// - PostgreSQL 23505: duplicate key value violates unique constraint "idx_users_email"
// - SQLite:          UNIQUE constraint failed: users.email
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// violatesColumn 判断唯一索引冲突是否发生在指定列上
// 索引名使用GORM默认命名 idx_<table>_<column>
func violatesColumn(err error, table, column string) bool {
	msg := err.Error()
	return strings.Contains(msg, "idx_"+table+"_"+column) || strings.Contains(msg, table+"."+column)
}
