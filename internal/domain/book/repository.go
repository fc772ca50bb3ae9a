package book

import (
	"context"
)

// Repository 图书仓储接口（依赖倒置原则）
// 设计说明：
// 1. 由domain层定义接口，infrastructure层实现
// 2. 所有方法在ctx携带事务时使用该事务
type Repository interface {
	// Create 创建图书（回填ID与时间戳）
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书，不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 保存可修改字段（标题、作者、分类、描述、出版年份）
	Update(ctx context.Context, book *Book) error

	// Delete 物理删除图书
	Delete(ctx context.Context, id uint) error

	// List 按过滤、排序、分页条件查询
	// 返回当前页数据和满足过滤条件的总数
	List(ctx context.Context, q Query) ([]*Book, int64, error)

	// Search 标题或作者包含term（不区分大小写），最多返回limit条
	Search(ctx context.Context, term string, limit int) ([]*Book, error)

	// UpdateAverageRating 写回平均评分（仅供评分聚合器调用）
	UpdateAverageRating(ctx context.Context, id uint, avg float64) error
}
