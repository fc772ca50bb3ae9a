package dto

// CreateReviewRequest 发表评论请求
type CreateReviewRequest struct {
	Title  string `json:"title" example:"Masterpiece"`
	Text   string `json:"text" example:"The spice must flow"`
	Rating int    `json:"rating" example:"5"`
}

// UpdateReviewRequest 修改评论请求（未提供的字段不修改）
type UpdateReviewRequest struct {
	Title  *string `json:"title,omitempty" example:"Masterpiece"`
	Text   *string `json:"text,omitempty" example:"The spice must flow"`
	Rating *int    `json:"rating,omitempty" example:"4"`
}
