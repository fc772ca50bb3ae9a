package database

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

func TestDBError(t *testing.T) {
	cause := errors.New("connection reset")
	err := dbError(cause, "查询图书失败")

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabaseError))
	assert.ErrorIs(t, err, cause)

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, "查询图书失败", appErr.Message)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus())
	assert.Nil(t, apperrors.ErrDatabaseError.Err, "不修改预定义错误")
}

func TestRepositories_DatabaseUnavailable(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = NewBookRepository(db).FindByID(ctx, 1)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabaseError), "%v", err)

	_, err = NewReviewRepository(db).ListByBook(ctx, 1)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabaseError), "%v", err)

	_, err = NewUserRepository(db).FindByID(ctx, 1)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabaseError), "%v", err)
}

func TestIsDuplicateError(t *testing.T) {
	assert.False(t, isDuplicateError(nil))
	assert.True(t, isDuplicateError(errors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, isDuplicateError(errors.New("Error 1062: Duplicate entry 'a' for key 'users.idx_users_email'")))
	assert.True(t, violatesColumn(errors.New("UNIQUE constraint failed: users.email"), "users", "email"))
	assert.False(t, violatesColumn(errors.New("UNIQUE constraint failed: users.email"), "users", "username"))
}
