// Package circuitbreaker 实现熔断器，用于保护对外部依赖（如RabbitMQ）的调用
//
// 状态转换：
//
//	CLOSED --连续失败达到阈值--> OPEN --超过OpenTimeout--> HALF_OPEN
//	HALF_OPEN --探测成功--> CLOSED
//	HALF_OPEN --探测失败--> OPEN
//
// OPEN状态下调用直接返回ErrOpenState，不再等待下游超时
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrOpenState 熔断器打开，调用被拒绝
var ErrOpenState = errors.New("circuit breaker is open")

// Config 熔断器配置
type Config struct {
	// FailureThreshold 连续失败多少次后打开，<=0时使用默认值5
	FailureThreshold int

	// OpenTimeout OPEN状态持续时间，<=0时使用默认值30s
	OpenTimeout time.Duration

	// HalfOpenProbes HALF_OPEN状态下允许同时进行的探测调用数，<=0时为1
	HalfOpenProbes int

	// OnStateChange 状态变化回调（在锁外调用）
	OnStateChange func(name string, from, to State)
}

// CircuitBreaker 熔断器（并发安全）
type CircuitBreaker struct {
	name string
	cfg  Config
	now  func() time.Time

	mu         sync.Mutex
	state      State
	failures   int       // CLOSED状态下的连续失败次数
	openedAt   time.Time // 进入OPEN的时间
	probes     int       // HALF_OPEN状态下正在进行的探测数
	generation uint64    // 每次状态切换递增，丢弃旧状态下发起的调用结果
}

// New 创建熔断器
func New(name string, cfg Config) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.HalfOpenProbes <= 0 {
		cfg.HalfOpenProbes = 1
	}
	return &CircuitBreaker{name: name, cfg: cfg, now: time.Now}
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// State 当前状态（OPEN超时后切换为HALF_OPEN并触发回调）
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	state, changed := cb.refresh()
	cb.mu.Unlock()

	cb.notify(changed)
	return state
}

// Execute 在熔断器保护下执行fn
// 熔断器打开时不调用fn，直接返回ErrOpenState
func (cb *CircuitBreaker) Execute(fn func() error) error {
	generation, err := cb.before()
	if err != nil {
		return err
	}

	err = fn()
	cb.after(generation, err == nil)
	return err
}

func (cb *CircuitBreaker) before() (uint64, error) {
	cb.mu.Lock()
	state, changed := cb.refresh()
	switch state {
	case StateOpen:
		cb.mu.Unlock()
		cb.notify(changed)
		return 0, ErrOpenState
	case StateHalfOpen:
		if cb.probes >= cb.cfg.HalfOpenProbes {
			cb.mu.Unlock()
			cb.notify(changed)
			return 0, ErrOpenState
		}
		cb.probes++
	}
	generation := cb.generation
	cb.mu.Unlock()

	cb.notify(changed)
	return generation, nil
}

func (cb *CircuitBreaker) after(generation uint64, success bool) {
	cb.mu.Lock()
	if generation != cb.generation {
		// 调用期间状态已经变化，结果不再有意义
		cb.mu.Unlock()
		return
	}

	var changed *transition
	switch cb.state {
	case StateClosed:
		if success {
			cb.failures = 0
		} else {
			cb.failures++
			if cb.failures >= cb.cfg.FailureThreshold {
				changed = cb.setState(StateOpen)
			}
		}
	case StateHalfOpen:
		cb.probes--
		if success {
			changed = cb.setState(StateClosed)
		} else {
			changed = cb.setState(StateOpen)
		}
	}
	cb.mu.Unlock()

	cb.notify(changed)
}

// transition 一次状态切换（锁外通知回调）
type transition struct {
	from, to State
}

// refresh OPEN超时后切换到HALF_OPEN，调用方需持有锁
func (cb *CircuitBreaker) refresh() (State, *transition) {
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.cfg.OpenTimeout {
		return StateHalfOpen, cb.setState(StateHalfOpen)
	}
	return cb.state, nil
}

// setState 切换状态并重置计数，调用方需持有锁
func (cb *CircuitBreaker) setState(to State) *transition {
	from := cb.state
	cb.state = to
	cb.generation++
	cb.failures = 0
	cb.probes = 0
	if to == StateOpen {
		cb.openedAt = cb.now()
	}
	return &transition{from: from, to: to}
}

func (cb *CircuitBreaker) notify(t *transition) {
	if t != nil && cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(cb.name, t.from, t.to)
	}
}
