package main

import (
	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/infrastructure/logger"
	"github.com/xiebiao/bookreview/pkg/circuitbreaker"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/mq"
)

// provideLogger 从配置创建zap Logger
func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	return logger.New(cfg.Log)
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// providePublisher 创建事件发布者
// 未启用MQ时使用NopPublisher，启用后连接失败则启动失败
// 连接成功后用熔断器包装，运行期间RabbitMQ故障不拖慢写请求
func providePublisher(cfg *config.Config, log *zap.Logger) (mq.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return mq.NopPublisher{}, func() {}, nil
	}

	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		return nil, nil, err
	}
	guarded := mq.NewGuardedPublisher(p, circuitbreaker.Config{
		FailureThreshold: cfg.MQ.BreakerThreshold,
		OpenTimeout:      cfg.MQ.BreakerTimeout,
	}, log)

	cleanup := func() {
		if err := guarded.Close(); err != nil {
			log.Warn("关闭消息发布者失败", zap.Error(err))
		}
	}
	return guarded, cleanup, nil
}
