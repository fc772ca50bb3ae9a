package book

import (
	"strings"
	"time"

	"github.com/xiebiao/bookreview/pkg/validator"
)

// 图书分类（固定枚举）
const (
	GenreFiction        = "Fiction"
	GenreNonFiction     = "Non-Fiction"
	GenreScienceFiction = "Science Fiction"
	GenreFantasy        = "Fantasy"
	GenreMystery        = "Mystery"
	GenreThriller       = "Thriller"
	GenreRomance        = "Romance"
	GenreBiography      = "Biography"
	GenreHistory        = "History"
	GenreSelfHelp       = "Self-Help"
	GenreOther          = "Other"
)

// Genres 全部合法分类
var Genres = []string{
	GenreFiction, GenreNonFiction, GenreScienceFiction, GenreFantasy, GenreMystery,
	GenreThriller, GenreRomance, GenreBiography, GenreHistory, GenreSelfHelp, GenreOther,
}

// IsValidGenre 判断分类是否合法（区分大小写）
func IsValidGenre(genre string) bool {
	for _, g := range Genres {
		if g == genre {
			return true
		}
	}
	return false
}

func init() {
	validator.Register("genre", IsValidGenre)
}

// Book 图书实体（聚合根）
// DDD设计说明：
// 1. UserID是发布者，只有发布者可以修改、删除图书
// 2. AverageRating是派生字段，只能由评分聚合器根据评论重新计算，客户端不可写
// 3. validate tag描述字段约束，json tag仅用于生成校验错误中的字段名
type Book struct {
	ID            uint
	Title         string `json:"title" validate:"required,max=100"`
	Author        string `json:"author" validate:"required,max=50"`
	Genre         string `json:"genre" validate:"required,genre"`
	Description   string `json:"description" validate:"required,max=500"`
	PublishedYear int    `json:"published_year" validate:"required,min=1000,notfuture"`
	UserID        uint
	AverageRating float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBook 创建新图书（工厂方法）
// 标题和作者去除首尾空白，调用方需再调用Validate
func NewBook(title, author, genre, description string, publishedYear int, userID uint) *Book {
	now := time.Now()
	return &Book{
		Title:         strings.TrimSpace(title),
		Author:        strings.TrimSpace(author),
		Genre:         genre,
		Description:   description,
		PublishedYear: publishedYear,
		UserID:        userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Patch 部分更新（nil表示不修改该字段）
type Patch struct {
	Title         *string
	Author        *string
	Genre         *string
	Description   *string
	PublishedYear *int
}

// Apply 应用部分更新（领域行为）
// 发布者、评分、创建时间不在可修改范围内
func (b *Book) Apply(p Patch) {
	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		b.Author = strings.TrimSpace(*p.Author)
	}
	if p.Genre != nil {
		b.Genre = *p.Genre
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.PublishedYear != nil {
		b.PublishedYear = *p.PublishedYear
	}
	b.UpdatedAt = time.Now()
}

// Validate 校验字段约束
func (b *Book) Validate() error {
	return validator.Struct(b)
}

// IsOwnedBy 检查图书是否由指定用户发布
func (b *Book) IsOwnedBy(userID uint) bool {
	return b.UserID == userID
}
