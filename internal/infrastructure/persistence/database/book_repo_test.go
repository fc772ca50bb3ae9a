package database

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookreview/internal/domain/book"
)

func titles(books []*book.Book) []string {
	result := make([]string, len(books))
	for i, b := range books {
		result[i] = b.Title
	}
	return result
}

func mustQuery(t *testing.T, raw string) book.Query {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	q, err := book.ParseQuery(values)
	require.NoError(t, err)
	return q
}

func TestBookRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewBookRepository(db)
	owner := seedUser(t, db, "owner")
	b := seedBook(t, db, owner.ID, "Dune", "Frank Herbert", book.GenreScienceFiction, 1965)

	t.Run("查询", func(t *testing.T) {
		found, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", found.Title)
		assert.Equal(t, owner.ID, found.UserID)
		assert.Zero(t, found.AverageRating)
	})

	t.Run("更新不影响平均评分", func(t *testing.T) {
		require.NoError(t, repo.UpdateAverageRating(ctx, b.ID, 4.5))

		b.Title = "Dune Messiah"
		b.PublishedYear = 1969
		require.NoError(t, repo.Update(ctx, b))

		found, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", found.Title)
		assert.Equal(t, 1969, found.PublishedYear)
		assert.Equal(t, 4.5, found.AverageRating)
	})

	t.Run("删除", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, b.ID))
		_, err := repo.FindByID(ctx, b.ID)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, b.ID), book.ErrBookNotFound)
	})
}

func TestBookRepository_List(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewBookRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	// 12本书：1990-2001年，奇数年为Fantasy，偶数年为Mystery；前6本属于alice
	for i := 0; i < 12; i++ {
		genre := book.GenreMystery
		if i%2 == 1 {
			genre = book.GenreFantasy
		}
		owner := alice.ID
		if i >= 6 {
			owner = bob.ID
		}
		seedBook(t, db, owner, fmt.Sprintf("Book %02d", i), "Author", genre, 1990+i)
	}

	t.Run("分页：第2页每页5条", func(t *testing.T) {
		books, total, err := repo.List(ctx, mustQuery(t, "sort=published_year&page=2&limit=5"))
		require.NoError(t, err)
		assert.Equal(t, int64(12), total)
		assert.Equal(t, []string{"Book 05", "Book 06", "Book 07", "Book 08", "Book 09"}, titles(books))
	})

	t.Run("最后一页不足limit", func(t *testing.T) {
		books, _, err := repo.List(ctx, mustQuery(t, "sort=published_year&page=3&limit=5"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Book 10", "Book 11"}, titles(books))
	})

	t.Run("默认按创建时间倒序", func(t *testing.T) {
		books, _, err := repo.List(ctx, mustQuery(t, "limit=3"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Book 11", "Book 10", "Book 09"}, titles(books))
	})

	t.Run("过滤条件同时作用于总数", func(t *testing.T) {
		books, total, err := repo.List(ctx, mustQuery(t, "genre=Fantasy&published_year[gte]=1995&sort=-published_year"))
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Equal(t, []string{"Book 11", "Book 09", "Book 07", "Book 05"}, titles(books))
	})

	t.Run("in与lt组合", func(t *testing.T) {
		q := mustQuery(t, fmt.Sprintf("user_id[in]=%d&published_year[lt]=1993&sort=title", alice.ID))
		books, total, err := repo.List(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, []string{"Book 00", "Book 01", "Book 02"}, titles(books))
	})

	t.Run("无匹配", func(t *testing.T) {
		books, total, err := repo.List(ctx, mustQuery(t, "author=Nobody"))
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, books)
	})
}

func TestBookRepository_Search(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewBookRepository(db)
	owner := seedUser(t, db, "owner")

	seedBook(t, db, owner.ID, "Dune", "Frank Herbert", book.GenreScienceFiction, 1965)
	seedBook(t, db, owner.ID, "Children of Dune", "Frank Herbert", book.GenreScienceFiction, 1976)
	seedBook(t, db, owner.ID, "Sand", "Dune Author", book.GenreOther, 2001)
	seedBook(t, db, owner.ID, "100% Pure", "Someone", book.GenreOther, 2010)
	seedBook(t, db, owner.ID, "1000 Pure", "Someone", book.GenreOther, 2011)

	t.Run("标题或作者，不区分大小写", func(t *testing.T) {
		books, err := repo.Search(ctx, "dUNe", 10)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Dune", "Children of Dune", "Sand"}, titles(books))
	})

	t.Run("限制条数", func(t *testing.T) {
		books, err := repo.Search(ctx, "dune", 2)
		require.NoError(t, err)
		assert.Len(t, books, 2)
	})

	t.Run("百分号按字面匹配", func(t *testing.T) {
		books, err := repo.Search(ctx, "100%", 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"100% Pure"}, titles(books))
	})
}
