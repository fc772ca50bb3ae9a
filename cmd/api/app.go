package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
)

// App 组装完成的应用
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	engine *gin.Engine
}

func newApp(cfg *config.Config, logger *zap.Logger, engine *gin.Engine) *App {
	return &App{cfg: cfg, logger: logger, engine: engine}
}

// Run 启动HTTP服务，收到SIGINT/SIGTERM后优雅关闭
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      a.engine,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP服务启动",
			zap.String("addr", srv.Addr),
			zap.String("mode", a.cfg.Server.Mode),
			zap.String("database", a.cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("正在关闭HTTP服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.logger.Info("HTTP服务已关闭")
	return nil
}
