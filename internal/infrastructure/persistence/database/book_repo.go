package database

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookreview/internal/domain/book"
)

// bookRepository 图书仓储实现
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := &BookModel{
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		Description:   b.Description,
		PublishedYear: b.PublishedYear,
		UserID:        b.UserID,
	}

	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return dbError(err, "创建图书失败")
	}

	b.ID = model.ID
	b.AverageRating = model.AverageRating
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := dbFromContext(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, dbError(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Update 更新可修改字段
// 使用Select指定列：零值也会被写入，且不会覆盖发布者和平均评分
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	result := dbFromContext(ctx, r.db).
		Model(&BookModel{ID: b.ID}).
		Select("title", "author", "genre", "description", "published_year", "updated_at").
		Updates(BookModel{
			Title:         b.Title,
			Author:        b.Author,
			Genre:         b.Genre,
			Description:   b.Description,
			PublishedYear: b.PublishedYear,
			UpdatedAt:     b.UpdatedAt,
		})
	if result.Error != nil {
		return dbError(result.Error, "更新图书失败")
	}
	return nil
}

// Delete 删除图书
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := dbFromContext(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return dbError(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 过滤、排序、分页查询
// 总数与当前页使用相同的过滤条件
func (r *bookRepository) List(ctx context.Context, q book.Query) ([]*book.Book, int64, error) {
	db := dbFromContext(ctx, r.db)

	// 1. 查询总数
	var total int64
	if err := applyFilters(db.Model(&BookModel{}), q.Filters).Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "查询图书总数失败")
	}

	// 2. 查询当前页
	query := applyFilters(db.Model(&BookModel{}), q.Filters)
	for _, s := range q.Sort {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Field}, Desc: s.Desc})
	}

	var models []BookModel
	if err := query.Limit(q.Limit).Offset(q.Offset()).Find(&models).Error; err != nil {
		return nil, 0, dbError(err, "查询图书列表失败")
	}

	return toBookEntities(models), total, nil
}

// applyFilters 将过滤条件转换为GORM表达式
// 列名来自book.Fields白名单，值作为参数绑定
func applyFilters(db *gorm.DB, filters []book.Filter) *gorm.DB {
	for _, f := range filters {
		col := clause.Column{Name: f.Field}
		switch f.Op {
		case book.OpEq:
			db = db.Where(clause.Eq{Column: col, Value: f.Values[0]})
		case book.OpGt:
			db = db.Where(clause.Gt{Column: col, Value: f.Values[0]})
		case book.OpGte:
			db = db.Where(clause.Gte{Column: col, Value: f.Values[0]})
		case book.OpLt:
			db = db.Where(clause.Lt{Column: col, Value: f.Values[0]})
		case book.OpLte:
			db = db.Where(clause.Lte{Column: col, Value: f.Values[0]})
		case book.OpIn:
			db = db.Where(clause.IN{Column: col, Values: f.Values})
		}
	}
	return db
}

// Search 标题或作者模糊匹配（不区分大小写）
// 关键词中的 % _ 按字面匹配
func (r *bookRepository) Search(ctx context.Context, term string, limit int) ([]*book.Book, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	var models []BookModel
	err := dbFromContext(ctx, r.db).
		Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(author) LIKE ? ESCAPE '!'", pattern, pattern).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, dbError(err, "搜索图书失败")
	}
	return toBookEntities(models), nil
}

// UpdateAverageRating 写回平均评分
// 使用UpdateColumn，不修改updated_at
func (r *bookRepository) UpdateAverageRating(ctx context.Context, id uint, avg float64) error {
	err := dbFromContext(ctx, r.db).
		Model(&BookModel{}).
		Where("id = ?", id).
		UpdateColumn("average_rating", avg).Error
	if err != nil {
		return dbError(err, "更新平均评分失败")
	}
	return nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Author:        model.Author,
		Genre:         model.Genre,
		Description:   model.Description,
		PublishedYear: model.PublishedYear,
		UserID:        model.UserID,
		AverageRating: model.AverageRating,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}
