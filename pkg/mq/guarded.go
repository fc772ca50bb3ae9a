package mq

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/pkg/circuitbreaker"
	"github.com/xiebiao/bookreview/pkg/metrics"
)

// GuardedPublisher 带熔断保护的发布者
// RabbitMQ不可用时快速失败，避免每次写请求都等待发布超时
type GuardedPublisher struct {
	next    EventPublisher
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedPublisher 用熔断器包装发布者，状态变化记录日志并上报指标
func NewGuardedPublisher(next EventPublisher, cfg circuitbreaker.Config, logger *zap.Logger) *GuardedPublisher {
	cfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		logger.Warn("熔断器状态变化",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	}

	return &GuardedPublisher{
		next:    next,
		breaker: circuitbreaker.New("rabbitmq", cfg),
	}
}

// Publish 熔断器打开时返回circuitbreaker.ErrOpenState
func (g *GuardedPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	return g.breaker.Execute(func() error {
		return g.next.Publish(ctx, routingKey, message)
	})
}

// Close 关闭底层发布者
func (g *GuardedPublisher) Close() error {
	return g.next.Close()
}

// State 当前熔断状态
func (g *GuardedPublisher) State() circuitbreaker.State {
	return g.breaker.State()
}
