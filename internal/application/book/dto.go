package book

import (
	"time"

	appreview "github.com/xiebiao/bookreview/internal/application/review"
	"github.com/xiebiao/bookreview/internal/domain/book"
)

const tracerName = "application/book"

// BookDTO 图书响应
type BookDTO struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	Description   string    `json:"description"`
	PublishedYear int       `json:"published_year"`
	UserID        uint      `json:"user_id"`
	AverageRating float64   `json:"average_rating"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BookDetailDTO 图书详情响应（附带评论，无评论时为[]）
type BookDetailDTO struct {
	BookDTO
	Reviews []appreview.ReviewDTO `json:"reviews"`
}

// ToBookDTO 领域实体 → DTO
func ToBookDTO(b *book.Book) BookDTO {
	return BookDTO{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		Description:   b.Description,
		PublishedYear: b.PublishedYear,
		UserID:        b.UserID,
		AverageRating: b.AverageRating,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// ToBookDTOs 批量转换（空列表返回[]而非null）
func ToBookDTOs(books []*book.Book) []BookDTO {
	list := make([]BookDTO, len(books))
	for i, b := range books {
		list[i] = ToBookDTO(b)
	}
	return list
}

// fieldGetters 投影字段取值（键与book.Fields一致）
var fieldGetters = map[string]func(*BookDTO) interface{}{
	"id":             func(b *BookDTO) interface{} { return b.ID },
	"title":          func(b *BookDTO) interface{} { return b.Title },
	"author":         func(b *BookDTO) interface{} { return b.Author },
	"genre":          func(b *BookDTO) interface{} { return b.Genre },
	"description":    func(b *BookDTO) interface{} { return b.Description },
	"published_year": func(b *BookDTO) interface{} { return b.PublishedYear },
	"user_id":        func(b *BookDTO) interface{} { return b.UserID },
	"average_rating": func(b *BookDTO) interface{} { return b.AverageRating },
	"created_at":     func(b *BookDTO) interface{} { return b.CreatedAt },
	"updated_at":     func(b *BookDTO) interface{} { return b.UpdatedAt },
}

// Project 只保留指定字段
func Project(list []BookDTO, fields []string) []map[string]interface{} {
	projected := make([]map[string]interface{}, len(list))
	for i := range list {
		item := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			if get, ok := fieldGetters[f]; ok {
				item[f] = get(&list[i])
			}
		}
		projected[i] = item
	}
	return projected
}
