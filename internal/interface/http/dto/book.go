package dto

// CreateBookRequest 发布图书请求
// user_id、average_rating等字段即使出现在请求体中也会被忽略
type CreateBookRequest struct {
	Title         string `json:"title" example:"Dune"`
	Author        string `json:"author" example:"Frank Herbert"`
	Genre         string `json:"genre" example:"Science Fiction"`
	Description   string `json:"description" example:"A desert planet"`
	PublishedYear int    `json:"published_year" example:"1965"`
}

// UpdateBookRequest 修改图书请求
// 指针字段区分"未提供"与"零值"，未提供的字段不修改
type UpdateBookRequest struct {
	Title         *string `json:"title,omitempty" example:"Dune"`
	Author        *string `json:"author,omitempty" example:"Frank Herbert"`
	Genre         *string `json:"genre,omitempty" example:"Science Fiction"`
	Description   *string `json:"description,omitempty" example:"A desert planet"`
	PublishedYear *int    `json:"published_year,omitempty" example:"1965"`
}
