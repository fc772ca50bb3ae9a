package review

import (
	"time"

	"github.com/xiebiao/bookreview/internal/domain/review"
)

const tracerName = "application/review"

// ReviewDTO 评论响应
type ReviewDTO struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	BookID    uint      `json:"book_id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToReviewDTO 领域实体 → DTO
func ToReviewDTO(r *review.Review) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID,
		Title:     r.Title,
		Text:      r.Text,
		Rating:    r.Rating,
		BookID:    r.BookID,
		UserID:    r.UserID,
		Username:  r.Username,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ToReviewDTOs 批量转换（空列表返回[]而非null）
func ToReviewDTOs(reviews []*review.Review) []ReviewDTO {
	list := make([]ReviewDTO, len(reviews))
	for i, r := range reviews {
		list[i] = ToReviewDTO(r)
	}
	return list
}
