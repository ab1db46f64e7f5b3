package alert

import (
	"fmt"
	"sync"
	"time"
)

// Alert 告警信息
type Alert struct {
	Level     string // "INFO", "WARNING", "ERROR"
	Message   string
	Timestamp time.Time
	Fields    map[string]interface{}
}

// Channel 告警通道接口
type Channel interface {
	Send(alert Alert) error
	Name() string
}

// Manager 告警管理器。刷新失败是周期性事件，同一告警按 key 限流，
// 避免慢网络下每个周期都刷屏。
type Manager struct {
	channels []Channel
	throttle *Throttler
	mu       sync.RWMutex
}

// Throttler 告警限流器
type Throttler struct {
	lastSent map[string]time.Time
	interval time.Duration
	mu       sync.Mutex
}

// NewThrottler 创建限流器
func NewThrottler(interval time.Duration) *Throttler {
	return &Throttler{
		lastSent: make(map[string]time.Time),
		interval: interval,
	}
}

// Allow 检查是否允许发送（限流）
func (t *Throttler) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	if last, ok := t.lastSent[key]; ok && now.Sub(last) < t.interval {
		return false
	}
	t.lastSent[key] = now
	return true
}

// Reset 清掉某个 key 的限流记录，恢复后立即允许下一条
func (t *Throttler) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.lastSent, key)
}

// NewManager 创建告警管理器
func NewManager(channels []Channel, throttleInterval time.Duration) *Manager {
	return &Manager{
		channels: channels,
		throttle: NewThrottler(throttleInterval),
	}
}

// Send 发送告警，被限流时静默忽略。
func (m *Manager) Send(a Alert) error {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	if !m.throttle.Allow(a.Level + ":" + a.Message) {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var lastErr error
	sent := 0
	for _, ch := range m.channels {
		if err := ch.Send(a); err != nil {
			lastErr = fmt.Errorf("channel %s failed: %w", ch.Name(), err)
		} else {
			sent++
		}
	}
	if sent == 0 && lastErr != nil {
		return lastErr
	}
	return nil
}

// NotifyFetchFailure 拉取失败："本周期无更新"，不致命，限流后通知一次。
func (m *Manager) NotifyFetchFailure(err error) {
	_ = m.Send(Alert{
		Level:   "WARNING",
		Message: "quote refresh failed, no update this cycle",
		Fields:  map[string]interface{}{"error": err.Error()},
	})
}

// NotifyStale 长时间没有成功刷新。
func (m *Manager) NotifyStale(age time.Duration) {
	_ = m.Send(Alert{
		Level:   "ERROR",
		Message: "quotes stale",
		Fields:  map[string]interface{}{"age": age.String()},
	})
}

// NotifyRecovered 刷新恢复，同时解除失败告警的限流。
func (m *Manager) NotifyRecovered() {
	m.throttle.Reset("WARNING:quote refresh failed, no update this cycle")
	m.throttle.Reset("ERROR:quotes stale")
}

// AddChannel 添加告警通道
func (m *Manager) AddChannel(ch Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels, ch)
}
