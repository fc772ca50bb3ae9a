package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookreview/internal/application/book"
	appreview "github.com/xiebiao/bookreview/internal/application/review"
	appuser "github.com/xiebiao/bookreview/internal/application/user"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookreview/internal/interface/http/handler"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/mq"
)

// envelope 响应信封
type envelope struct {
	Success      bool            `json:"success"`
	Code         int             `json:"code"`
	Error        string          `json:"error"`
	Count        *int            `json:"count"`
	Total        *int64          `json:"total"`
	Pagination   json.RawMessage `json:"pagination"`
	Data         json.RawMessage `json:"data"`
	Token        string          `json:"token"`
	RefreshToken string          `json:"refresh_token"`
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{
			Driver:          "sqlite",
			Path:            filepath.Join(t.TempDir(), "api.db"),
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
			AutoMigrate:     true,
		},
		JWT: config.JWTConfig{
			Secret:             "test-secret",
			AccessTokenExpire:  time.Hour,
			RefreshTokenExpire: 24 * time.Hour,
		},
		CORS:    config.CORSConfig{Enabled: true, AllowOrigins: []string{"*"}, AllowMethods: []string{"GET", "POST"}},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	logger := zap.NewNop()

	db, cleanup, err := database.NewDB(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	userRepo := database.NewUserRepository(db)
	bookRepo := database.NewBookRepository(db)
	reviewRepo := database.NewReviewRepository(db)
	sessions := redis.NewSessionStore(nil)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
	publisher := mq.NopPublisher{}

	userSvc := user.NewService(userRepo)
	bookSvc := book.NewService(bookRepo)
	reviewSvc := review.NewService(reviewRepo, bookRepo)
	aggregator := appreview.NewRatingAggregator(reviewRepo, bookRepo, logger)

	handlers := Handlers{
		Auth: handler.NewAuthHandler(
			appuser.NewRegisterUseCase(userSvc, jwtManager),
			appuser.NewLoginUseCase(userSvc, jwtManager, sessions, logger),
			appuser.NewLogoutUseCase(jwtManager, sessions),
			appuser.NewRefreshTokenUseCase(userSvc, jwtManager, sessions),
			appuser.NewGetProfileUseCase(userSvc),
		),
		Book: handler.NewBookHandler(
			appbook.NewListBooksUseCase(bookSvc),
			appbook.NewGetBookUseCase(bookSvc, reviewSvc),
			appbook.NewSearchBooksUseCase(bookSvc),
			appbook.NewCreateBookUseCase(bookSvc, logger),
			appbook.NewUpdateBookUseCase(bookSvc),
			appbook.NewDeleteBookUseCase(database.NewTxManager(db), bookSvc, reviewRepo, publisher, logger),
		),
		Review: handler.NewReviewHandler(
			appreview.NewListReviewsUseCase(reviewSvc),
			appreview.NewGetReviewUseCase(reviewSvc),
			appreview.NewAddReviewUseCase(reviewSvc, aggregator, publisher, logger),
			appreview.NewUpdateReviewUseCase(reviewSvc, aggregator, publisher, logger),
			appreview.NewDeleteReviewUseCase(reviewSvc, aggregator, publisher, logger),
		),
	}

	return New(cfg, logger, handlers, middleware.NewAuthMiddleware(jwtManager, sessions, userSvc))
}

func do(t *testing.T, r http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func signup(t *testing.T, r http.Handler, name string) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": name,
		"email":    name + "@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotEmpty(t, env.Token)
	return env.Token
}

func createBook(t *testing.T, r http.Handler, token, title string, year int) uint {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/v1/books", token, map[string]interface{}{
		"title":          title,
		"author":         "Frank Herbert",
		"genre":          "Science Fiction",
		"description":    "A desert planet",
		"published_year": year,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var b struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &b))
	return b.ID
}

func TestHealthAndDocs(t *testing.T) {
	r := newTestServer(t)

	w, env := do(t, r, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w, env = do(t, r, http.MethodGet, "/api/v1/nothing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestAuthFlow(t *testing.T) {
	r := newTestServer(t)
	token := signup(t, r, "alice")

	t.Run("登录成功", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "ALICE@example.com", "password": "secret123"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, env.Token)
		assert.NotEmpty(t, env.RefreshToken)
	})

	t.Run("密码错误与邮箱不存在返回相同提示", func(t *testing.T) {
		w1, env1 := do(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "alice@example.com", "password": "wrong1234"})
		w2, env2 := do(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "wrong1234"})
		assert.Equal(t, http.StatusUnauthorized, w1.Code)
		assert.Equal(t, http.StatusUnauthorized, w2.Code)
		assert.Equal(t, env1.Error, env2.Error)
	})

	t.Run("缺少邮箱或密码", func(t *testing.T) {
		w, _ := do(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "alice@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("重复注册", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
			"username": "alice2", "email": "alice@example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.False(t, env.Success)
	})

	t.Run("当前用户", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(env.Data), `"username":"alice"`)
		assert.NotContains(t, string(env.Data), "password")
	})

	t.Run("无Token或Token无效", func(t *testing.T) {
		w, _ := do(t, r, http.MethodGet, "/api/v1/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		w, _ = do(t, r, http.MethodGet, "/api/v1/auth/me", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Refresh Token不能当作Access Token使用", func(t *testing.T) {
		_, env := do(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "alice@example.com", "password": "secret123"})
		w, _ := do(t, r, http.MethodGet, "/api/v1/auth/me", env.RefreshToken, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w, refreshed := do(t, r, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": env.RefreshToken})
		require.Equal(t, http.StatusOK, w.Code)
		w, _ = do(t, r, http.MethodGet, "/api/v1/auth/me", refreshed.Token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("登出时提交他人的Refresh Token", func(t *testing.T) {
		_, bob := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
			"username": "bob", "email": "bob@example.com", "password": "secret123",
		})
		w, _ := do(t, r, http.MethodPost, "/api/v1/auth/logout", token, map[string]string{"refresh_token": bob.RefreshToken})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("登出请求体格式错误", func(t *testing.T) {
		w, _ := do(t, r, http.MethodPost, "/api/v1/auth/logout", token, []int{1})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("登出并吊销Refresh Token", func(t *testing.T) {
		_, login := do(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "alice@example.com", "password": "secret123"})
		w, env := do(t, r, http.MethodPost, "/api/v1/auth/logout", login.Token, map[string]string{"refresh_token": login.RefreshToken})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{}`, string(env.Data))
	})

	t.Run("登出", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/v1/auth/logout", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{}`, string(env.Data))
	})
}

func TestBooksAndReviews(t *testing.T) {
	r := newTestServer(t)
	owner := signup(t, r, "owner")
	reader := signup(t, r, "reader")
	other := signup(t, r, "other")

	bookID := createBook(t, r, owner, "Dune", 1965)
	bookPath := fmt.Sprintf("/api/v1/books/%d", bookID)

	t.Run("未登录不能发布", func(t *testing.T) {
		w, _ := do(t, r, http.MethodPost, "/api/v1/books", "", map[string]string{"title": "x"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("字段校验失败", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/v1/books", owner, map[string]interface{}{
			"title": "Bad", "author": "A", "genre": "Poetry", "description": "d", "published_year": 2000,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, env.Error, "genre")
	})

	t.Run("没有评论时返回空数组", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, bookPath, "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var fields map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(env.Data, &fields))
		require.Contains(t, fields, "reviews")
		assert.JSONEq(t, "[]", string(fields["reviews"]))
	})

	t.Run("非法ID视为不存在", func(t *testing.T) {
		w, _ := do(t, r, http.MethodGet, "/api/v1/books/not-a-number", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("非发布者不能修改删除", func(t *testing.T) {
		w, _ := do(t, r, http.MethodPut, bookPath, other, map[string]string{"title": "Hijacked"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		w, _ = do(t, r, http.MethodDelete, bookPath, other, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("评分边界", func(t *testing.T) {
		for _, rating := range []int{0, 6} {
			w, _ := do(t, r, http.MethodPost, bookPath+"/reviews", reader, map[string]interface{}{"title": "t", "text": "x", "rating": rating})
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "rating=%d", rating)
		}
	})

	var reviewID uint
	t.Run("发表评论并更新平均分", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, bookPath+"/reviews", reader, map[string]interface{}{"title": "Epic", "text": "Spice", "rating": 5})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var rv struct {
			ID       uint   `json:"id"`
			Username string `json:"username"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &rv))
		assert.Equal(t, "reader", rv.Username)
		reviewID = rv.ID

		w, _ = do(t, r, http.MethodPost, bookPath+"/reviews", other, map[string]interface{}{"title": "Meh", "text": "Sand", "rating": 1})
		require.Equal(t, http.StatusCreated, w.Code)

		w, env = do(t, r, http.MethodGet, bookPath, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var b struct {
			AverageRating float64 `json:"average_rating"`
			Reviews       []struct {
				Username string `json:"username"`
			} `json:"reviews"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &b))
		assert.Equal(t, 3.0, b.AverageRating)
		assert.Len(t, b.Reviews, 2)
	})

	t.Run("重复评论", func(t *testing.T) {
		w, _ := do(t, r, http.MethodPost, bookPath+"/reviews", reader, map[string]interface{}{"title": "Again", "text": "x", "rating": 3})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("评论列表", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, bookPath+"/reviews", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, env.Count)
		assert.Equal(t, 2, *env.Count)
	})

	t.Run("修改评论", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/reviews/%d", reviewID)
		w, _ := do(t, r, http.MethodPut, path, other, map[string]int{"rating": 1})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w, _ = do(t, r, http.MethodPut, path, reader, map[string]int{"rating": 3})
		require.Equal(t, http.StatusOK, w.Code)

		_, env := do(t, r, http.MethodGet, bookPath, "", nil)
		assert.Contains(t, string(env.Data), `"average_rating":2`)
	})

	t.Run("删除评论", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/reviews/%d", reviewID)
		w, _ := do(t, r, http.MethodDelete, path, reader, nil)
		require.Equal(t, http.StatusOK, w.Code)
		w, _ = do(t, r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("删除图书", func(t *testing.T) {
		w, _ := do(t, r, http.MethodDelete, bookPath, owner, nil)
		require.Equal(t, http.StatusOK, w.Code)
		w, _ = do(t, r, http.MethodGet, bookPath, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		_, env := do(t, r, http.MethodGet, bookPath+"/reviews", "", nil)
		assert.Equal(t, 0, *env.Count)
	})
}

func TestListAndSearchBooks(t *testing.T) {
	r := newTestServer(t)
	owner := signup(t, r, "owner")

	for i := 1; i <= 12; i++ {
		createBook(t, r, owner, fmt.Sprintf("Book %02d", i), 1990+i)
	}
	createBook(t, r, owner, "Dune Messiah", 1969)

	t.Run("分页", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/v1/books?page=2&limit=5&sort=published_year", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 5, *env.Count)
		assert.Equal(t, int64(13), *env.Total)
		assert.JSONEq(t, `{"next":{"page":3,"limit":5},"prev":{"page":1,"limit":5}}`, string(env.Pagination))

		var books []struct {
			Title string `json:"title"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &books))
		assert.Equal(t, "Book 05", books[0].Title)
	})

	t.Run("过滤与投影", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/v1/books?published_year[lt]=1995&select=title", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(5), *env.Total)

		var items []map[string]interface{}
		require.NoError(t, json.Unmarshal(env.Data, &items))
		for _, item := range items {
			assert.Len(t, item, 2)
			assert.Contains(t, item, "id")
			assert.Contains(t, item, "title")
		}
	})

	t.Run("非法查询参数", func(t *testing.T) {
		w, _ := do(t, r, http.MethodGet, "/api/v1/books?published_year[between]=1", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("搜索", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/v1/books/search?q=dune", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, *env.Count)

		w, env = do(t, r, http.MethodGet, "/api/v1/books/search?q=herbert", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 10, *env.Count, "最多返回10条")

		w, _ = do(t, r, http.MethodGet, "/api/v1/books/search", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
