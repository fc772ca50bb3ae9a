package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
)

func TestReviewRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewReviewRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	dune := seedBook(t, db, alice.ID, "Dune", "Frank Herbert", book.GenreScienceFiction, 1965)
	other := seedBook(t, db, alice.ID, "Other", "Someone", book.GenreOther, 2000)

	first := review.NewReview(dune.ID, alice.ID, "Great", "Loved it", 5)
	require.NoError(t, repo.Create(ctx, first))
	second := review.NewReview(dune.ID, bob.ID, "Okay", "Fine", 2)
	require.NoError(t, repo.Create(ctx, second))

	t.Run("唯一索引：同一用户同一本书", func(t *testing.T) {
		err := repo.Create(ctx, review.NewReview(dune.ID, alice.ID, "Again", "Again", 3))
		assert.ErrorIs(t, err, review.ErrAlreadyReviewed)

		exists, err := repo.ExistsByBookAndUser(ctx, dune.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByBookAndUser(ctx, other.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("查询包含作者用户名", func(t *testing.T) {
		found, err := repo.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "bob", found.Username)
		assert.Equal(t, 2, found.Rating)

		list, err := repo.ListByBook(ctx, dune.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "bob", list[0].Username, "最新的评论在前")
		assert.Equal(t, "alice", list[1].Username)
	})

	t.Run("平均评分", func(t *testing.T) {
		avg, err := repo.AverageRating(ctx, dune.ID)
		require.NoError(t, err)
		assert.InDelta(t, 3.5, avg, 1e-9)

		avg, err = repo.AverageRating(ctx, other.ID)
		require.NoError(t, err)
		assert.Zero(t, avg, "没有评论时为0")
	})

	t.Run("更新", func(t *testing.T) {
		second.Rating = 4
		second.Text = "Better on reread"
		require.NoError(t, repo.Update(ctx, second))

		found, err := repo.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, found.Rating)
		assert.Equal(t, "Better on reread", found.Text)
	})

	t.Run("删除", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, second.ID))
		_, err := repo.FindByID(ctx, second.ID)
		assert.ErrorIs(t, err, review.ErrReviewNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, second.ID), review.ErrReviewNotFound)
	})

	t.Run("按图书批量删除", func(t *testing.T) {
		n, err := repo.DeleteByBook(ctx, dune.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		list, err := repo.ListByBook(ctx, dune.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestTxManager(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tx := NewTxManager(db)
	books := NewBookRepository(db)
	reviews := NewReviewRepository(db)
	alice := seedUser(t, db, "alice")
	dune := seedBook(t, db, alice.ID, "Dune", "Frank Herbert", book.GenreScienceFiction, 1965)
	require.NoError(t, reviews.Create(ctx, review.NewReview(dune.ID, alice.ID, "Great", "Loved it", 5)))

	t.Run("返回错误时回滚", func(t *testing.T) {
		boom := errors.New("boom")
		err := tx.Transaction(ctx, func(ctx context.Context) error {
			if _, err := reviews.DeleteByBook(ctx, dune.ID); err != nil {
				return err
			}
			if err := books.Delete(ctx, dune.ID); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = books.FindByID(ctx, dune.ID)
		assert.NoError(t, err, "图书应保留")
		list, err := reviews.ListByBook(ctx, dune.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1, "评论应保留")
	})

	t.Run("成功时提交", func(t *testing.T) {
		err := tx.Transaction(ctx, func(ctx context.Context) error {
			if _, err := reviews.DeleteByBook(ctx, dune.ID); err != nil {
				return err
			}
			return books.Delete(ctx, dune.ID)
		})
		require.NoError(t, err)

		_, err = books.FindByID(ctx, dune.ID)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}
