// Book Review API
//
// @title                       Book Review API
// @version                     1.0
// @description                 图书与书评REST API：用户认证、图书与评论管理、平均评分维护
// @host                        localhost:8080
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer <access_token>
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/infrastructure/logger"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookreview",
		Short:         "图书与书评REST API服务",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	serve := newServeCmd()
	// 不带子命令时等同于serve
	root.RunE = serve.RunE
	root.AddCommand(serve, newMigrateCmd())
	return root
}

// newServeCmd 启动HTTP服务
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动HTTP服务",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("加载配置失败: %w", err)
			}

			// 1. 链路追踪（全局Provider，需在创建Span之前初始化）
			if cfg.Tracing.Enabled {
				shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
				if err != nil {
					return fmt.Errorf("初始化链路追踪失败: %w", err)
				}
				defer func() { _ = shutdown(context.Background()) }()
			}

			// 2. 依赖注入
			app, cleanup, err := InitializeApp(cfg)
			if err != nil {
				return fmt.Errorf("初始化应用失败: %w", err)
			}
			defer cleanup()

			// 3. 运行直到收到退出信号
			return app.Run(cmd.Context())
		},
	}
}

// newMigrateCmd 只执行数据库迁移
func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移（创建或更新表结构）",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("加载配置失败: %w", err)
			}
			// NewDB内不重复迁移，由本命令显式执行
			cfg.Database.AutoMigrate = false

			log, syncLog, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			defer syncLog()

			db, closeDB, err := database.NewDB(cfg, log)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("数据库迁移失败: %w", err)
			}
			log.Info("数据库迁移完成", zap.String("driver", cfg.Database.Driver))
			return nil
		},
	}
}
