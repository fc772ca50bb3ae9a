package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	applog "github.com/xiebiao/bookreview/internal/infrastructure/logger"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架，按配置选择MySQL、PostgreSQL或SQLite驱动
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. SQL日志统一输出到zap：debug模式打印全部SQL，其余模式只打印慢查询和错误
// 4. auto_migrate开启时自动迁移表结构
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	// 1. 选择驱动
	dialector, err := openDialector(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	// 2. 配置GORM日志
	logLevel := gormlogger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info
	}

	// 3. 连接数据库
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: applog.NewGormLogger(log, logLevel, cfg.Database.SlowThreshold),
		NowFunc: func() time.Time {
			// 数据库时间统一截断到微秒（MySQL DATETIME(3)/PostgreSQL timestamp精度不同）
			return time.Now().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			log.Warn("关闭数据库连接失败", zap.Error(err))
		}
	}

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("✓ 数据库连接成功", zap.String("driver", cfg.Database.Driver))

	// 6. 自动迁移表结构
	// 注意：生产环境建议关闭auto_migrate，通过`bookreview migrate`命令显式执行
	if cfg.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, cleanup, nil
}

// openDialector 按驱动名创建GORM Dialector
func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		return mysql.Open(cfg.DSN()), nil
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		// SQLite文件所在目录不存在时先创建
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("创建SQLite目录失败: %w", err)
			}
		}
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// Migrate 迁移表结构
// AutoMigrate只会创建表、添加字段和索引，不会删除或修改现有字段
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&ReviewModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. 用户名和邮箱都有唯一索引
type UserModel struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:50;not null"`
	Email     string `gorm:"uniqueIndex;size:100;not null"`
	Password  string `gorm:"size:255;not null"` // bcrypt哈希
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明：
// 1. 可过滤、排序的列都建了索引
// 2. average_rating是派生列，只由评分聚合器更新
// 3. 物理删除（删除图书时在同一事务中删除其评论）
type BookModel struct {
	ID            uint      `gorm:"primaryKey"`
	Title         string    `gorm:"index;size:100;not null"`
	Author        string    `gorm:"index;size:50;not null"`
	Genre         string    `gorm:"index;size:30;not null"`
	Description   string    `gorm:"size:500;not null"`
	PublishedYear int       `gorm:"index;not null"`
	UserID        uint      `gorm:"index;not null"`
	AverageRating float64   `gorm:"default:0;not null"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// ReviewModel GORM评论模型
// (book_id, user_id)唯一索引保证同一用户对同一本书只有一条评论
type ReviewModel struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:100;not null"`
	Text      string    `gorm:"type:text;not null"`
	Rating    int       `gorm:"not null"`
	BookID    uint      `gorm:"uniqueIndex:idx_review_book_user,priority:1;not null"`
	UserID    uint      `gorm:"uniqueIndex:idx_review_book_user,priority:2;index;not null"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "reviews"
}
