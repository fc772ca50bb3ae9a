// Package logger 基于zap的结构化日志
//
// 设计说明：
// 1. 开发环境使用彩色console格式，生产环境使用JSON格式便于日志采集
// 2. 创建后替换zap全局Logger，pkg层通过zap.L()获取
// 3. 提供GORM日志适配器，SQL日志统一走zap
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
)

// New 按配置创建Logger
// 返回的cleanup负责Sync缓冲区并恢复全局Logger
func New(cfg config.LogConfig) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	sink, closeSink, err := openSink(cfg.Output)
	if err != nil {
		return nil, nil, err
	}

	core := zapcore.NewCore(encoder, sink, level)

	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}
	logger := zap.New(core, opts...)

	restore := zap.ReplaceGlobals(logger)
	cleanup := func() {
		_ = logger.Sync()
		restore()
		closeSink()
	}

	return logger, cleanup, nil
}

// openSink 打开日志输出目标
func openSink(output string) (zapcore.WriteSyncer, func(), error) {
	switch output {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), func() {}, nil
	case "stderr":
		return zapcore.Lock(os.Stderr), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, nil, fmt.Errorf("创建日志目录失败: %w", err)
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	return zapcore.Lock(f), func() { _ = f.Close() }, nil
}
