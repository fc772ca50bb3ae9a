// Package metrics 提供基于Prometheus的指标收集
//
// # 指标类型
//
//   - Counter（计数器）：只增不减的累计值，如请求总数、评论总数
//   - Gauge（仪表盘）：可增可减的瞬时值，如正在处理的请求数
//   - Histogram（直方图）：观测值的分布，如请求耗时、评分重算耗时
//
// # 使用方式
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	metrics.IncCounterVec(metrics.ReviewsTotal, map[string]string{"action": "created"})
//
// # 标签规范
//
// 避免高基数标签：不要用user_id、book_id作为标签，path使用路由模板（/books/:id）
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// once 保证指标只注册一次（重复注册会panic）
	once sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// AuthAttemptsTotal 认证请求总数
	// 标签：action（signup/login/refresh/logout）、result（success/failure）
	AuthAttemptsTotal *prometheus.CounterVec

	// BooksTotal 图书写操作总数
	// 标签：action（created/updated/deleted）
	BooksTotal *prometheus.CounterVec

	// ReviewsTotal 评论写操作总数
	// 标签：action（created/updated/deleted）
	ReviewsTotal *prometheus.CounterVec

	// RatingRecomputeTotal 平均分重算次数
	// 标签：result（success/failure）
	RatingRecomputeTotal *prometheus.CounterVec

	// RatingRecomputeDuration 平均分重算耗时
	RatingRecomputeDuration prometheus.Histogram

	// 消息队列指标

	// MessagesPublishedTotal 事件发布总数
	// 标签：routing_key、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=closed 1=open 2=half_open）
	// 标签：name
	CircuitBreakerState *prometheus.GaugeVec
)

// InitMetrics 初始化所有Prometheus指标
// 使用promauto注册到默认Registry，多次调用是安全的
func InitMetrics() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "认证请求总数",
		},
		[]string{"action", "result"},
	)

	BooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "books_operations_total",
			Help: "图书写操作总数",
		},
		[]string{"action"},
	)

	ReviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviews_operations_total",
			Help: "评论写操作总数",
		},
		[]string{"action"},
	)

	RatingRecomputeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rating_recompute_total",
			Help: "图书平均分重算次数",
		},
		[]string{"result"},
	)

	RatingRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rating_recompute_duration_seconds",
			Help:    "图书平均分重算耗时（秒）",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "事件发布总数",
		},
		[]string{"routing_key", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=closed 1=open 2=half_open）",
		},
		[]string{"name"},
	)
}

// 以下便捷函数在指标未初始化时静默忽略（单元测试无需InitMetrics）

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// SetGaugeVec 设置带标签的Gauge
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge == nil {
		return
	}
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram == nil {
		return
	}
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}

// Result 将错误转换为result标签值
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
