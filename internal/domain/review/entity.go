package review

import (
	"strings"
	"time"

	"github.com/xiebiao/bookreview/pkg/validator"
)

// Review 评论实体（聚合根）
// DDD设计说明：
// 1. 同一用户对同一本书最多一条评论，由(book_id, user_id)唯一索引兜底
// 2. Username是查询时关联出的作者用户名，不持久化
// 3. 评论写入后需要重新计算所属图书的平均评分（由应用层显式触发）
type Review struct {
	ID        uint
	Title     string `json:"title" validate:"required,max=100"`
	Text      string `json:"text" validate:"required"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	BookID    uint
	UserID    uint
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewReview 创建评论（工厂方法）
func NewReview(bookID, userID uint, title, text string, rating int) *Review {
	now := time.Now()
	return &Review{
		Title:     strings.TrimSpace(title),
		Text:      text,
		Rating:    rating,
		BookID:    bookID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Patch 部分更新（nil表示不修改）
type Patch struct {
	Title  *string
	Text   *string
	Rating *int
}

// Apply 应用部分更新
func (r *Review) Apply(p Patch) {
	if p.Title != nil {
		r.Title = strings.TrimSpace(*p.Title)
	}
	if p.Text != nil {
		r.Text = *p.Text
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	r.UpdatedAt = time.Now()
}

// Validate 校验字段约束
func (r *Review) Validate() error {
	return validator.Struct(r)
}

// IsOwnedBy 检查评论是否由指定用户发表
func (r *Review) IsOwnedBy(userID uint) bool {
	return r.UserID == userID
}
