package review

import "time"

// 领域事件路由键（Topic Exchange，下游可订阅 review.* 或 book.*）
const (
	RoutingKeyReviewCreated = "review.created"
	RoutingKeyReviewUpdated = "review.updated"
	RoutingKeyReviewDeleted = "review.deleted"
	RoutingKeyBookDeleted   = "book.deleted"
)

// Event 评论变更事件
// AverageRating为重算后的平均分，重算失败时为nil（不序列化）
type Event struct {
	ReviewID      uint      `json:"review_id"`
	BookID        uint      `json:"book_id"`
	UserID        uint      `json:"user_id"`
	Rating        int       `json:"rating"`
	AverageRating *float64  `json:"average_rating,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookDeletedEvent 图书删除事件
type BookDeletedEvent struct {
	BookID         uint      `json:"book_id"`
	UserID         uint      `json:"user_id"`
	DeletedReviews int64     `json:"deleted_reviews"`
	OccurredAt     time.Time `json:"occurred_at"`
}
