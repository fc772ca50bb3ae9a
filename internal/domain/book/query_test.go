package book

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

func parse(t *testing.T, raw string) Query {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	q, err := ParseQuery(values)
	require.NoError(t, err)
	return q
}

func TestParseQuery_Defaults(t *testing.T) {
	q := parse(t, "")

	assert.Empty(t, q.Filters)
	assert.Empty(t, q.Select)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 0, q.Offset())
	assert.Equal(t, []SortField{{"created_at", true}, {"id", true}}, q.Sort, "默认按创建时间倒序")
}

func TestParseQuery_Filters(t *testing.T) {
	t.Run("等值过滤", func(t *testing.T) {
		q := parse(t, "genre=Fantasy&author=Frank+Herbert")
		require.Len(t, q.Filters, 2)
		assert.Equal(t, Filter{Field: "author", Op: OpEq, Values: []interface{}{"Frank Herbert"}}, q.Filters[0])
		assert.Equal(t, Filter{Field: "genre", Op: OpEq, Values: []interface{}{"Fantasy"}}, q.Filters[1])
	})

	t.Run("比较运算符按字段类型解析", func(t *testing.T) {
		q := parse(t, "published_year[gte]=1960&published_year[lt]=2000&average_rating[gt]=3.5")
		require.Len(t, q.Filters, 3)
		assert.Equal(t, Filter{Field: "average_rating", Op: OpGt, Values: []interface{}{3.5}}, q.Filters[0])
		assert.Equal(t, Filter{Field: "published_year", Op: OpGte, Values: []interface{}{1960}}, q.Filters[1])
		assert.Equal(t, Filter{Field: "published_year", Op: OpLt, Values: []interface{}{2000}}, q.Filters[2])
	})

	t.Run("in运算符拆分多个值", func(t *testing.T) {
		q := parse(t, "genre[in]=Fantasy,Mystery&user_id[in]=1,2")
		require.Len(t, q.Filters, 2)
		assert.Equal(t, []interface{}{"Fantasy", "Mystery"}, q.Filters[0].Values)
		assert.Equal(t, []interface{}{uint(1), uint(2)}, q.Filters[1].Values)
	})

	t.Run("时间字段支持日期和RFC3339", func(t *testing.T) {
		q := parse(t, "created_at[gte]=2024-01-02&updated_at[lt]=2024-03-01T10:00:00Z")
		require.Len(t, q.Filters, 2)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local), q.Filters[0].Values[0])
		assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), q.Filters[1].Values[0])
	})

	t.Run("未知字段和保留参数被忽略", func(t *testing.T) {
		q := parse(t, "password=x&$where=1&foo[gt]=3&page=2&limit=5&sort=title&select=title")
		assert.Empty(t, q.Filters)
	})
}

func TestParseQuery_Invalid(t *testing.T) {
	cases := map[string]string{
		"非法运算符":   "published_year[ne]=2000",
		"整数解析失败":  "published_year[gt]=abc",
		"浮点解析失败":  "average_rating=high",
		"ID解析失败":  "user_id=-1",
		"时间解析失败":  "created_at[gt]=yesterday",
		"in中含非法值": "published_year[in]=1999,x",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			values, err := url.ParseQuery(raw)
			require.NoError(t, err)
			_, err = ParseQuery(values)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidQuery))
			assert.Equal(t, 400, apperrors.GetAppError(err).HTTPStatus())
		})
	}
}

func TestParseQuery_Sort(t *testing.T) {
	t.Run("多字段排序并追加id", func(t *testing.T) {
		q := parse(t, "sort=-published_year,title")
		assert.Equal(t, []SortField{{"published_year", true}, {"title", false}, {"id", false}}, q.Sort)
	})

	t.Run("忽略未知和重复字段", func(t *testing.T) {
		q := parse(t, "sort=rating,title,-title")
		assert.Equal(t, []SortField{{"title", false}, {"id", false}}, q.Sort)
	})

	t.Run("全部未知时使用默认排序", func(t *testing.T) {
		q := parse(t, "sort=unknown")
		assert.Equal(t, defaultSort(), q.Sort)
	})
}

func TestParseQuery_Select(t *testing.T) {
	q := parse(t, "select=title,author,password,title")
	assert.Equal(t, []string{"id", "title", "author"}, q.Select)
}

func TestParseQuery_Pagination(t *testing.T) {
	cases := []struct {
		raw    string
		page   int
		limit  int
		offset int
	}{
		{"page=2&limit=5", 2, 5, 5},
		{"page=0&limit=-3", 1, 10, 0},
		{"page=abc&limit=xyz", 1, 10, 0},
		{"page=3&limit=1000", 3, 100, 200},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			q := parse(t, tc.raw)
			assert.Equal(t, tc.page, q.Page)
			assert.Equal(t, tc.limit, q.Limit)
			assert.Equal(t, tc.offset, q.Offset())
		})
	}
}
