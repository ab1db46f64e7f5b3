package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	appconfig "stock-watcher-go/config"
	"stock-watcher-go/logs"
)

// HotReloadConfig 热更新配置
type HotReloadConfig struct {
	Enabled      bool          // 是否启用热更新
	CooldownTime time.Duration // 冷却时间，避免编辑器连续写入触发多次重载
}

// DefaultHotReloadConfig 默认热更新配置
func DefaultHotReloadConfig() HotReloadConfig {
	return HotReloadConfig{
		Enabled:      true,
		CooldownTime: 2 * time.Second,
	}
}

// HotReloader 配置热更新器。监听配置文件写入，重新加载并校验后
// 把新配置交给注册的处理函数；加载或校验失败时保持旧配置继续运行。
type HotReloader struct {
	config     HotReloadConfig
	configPath string
	watcher    *fsnotify.Watcher
	log        logs.Logger

	mu         sync.Mutex
	lastReload time.Time
	onReload   func(appconfig.AppConfig)

	stopChan chan struct{}
	doneChan chan struct{}
}

// NewHotReloader 创建热更新器
func NewHotReloader(configPath string, cfg HotReloadConfig, log logs.Logger) (*HotReloader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if log == nil {
		log = logs.DefaultLogger
	}
	return &HotReloader{
		config:     cfg,
		configPath: configPath,
		watcher:    watcher,
		log:        log,
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}, nil
}

// SetReloadHandler 设置重载处理函数
func (h *HotReloader) SetReloadHandler(fn func(appconfig.AppConfig)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReload = fn
}

// Start 启动热更新监听
func (h *HotReloader) Start(ctx context.Context) error {
	if !h.config.Enabled {
		return nil
	}
	if err := h.watcher.Add(h.configPath); err != nil {
		return fmt.Errorf("failed to watch config file: %w", err)
	}
	go h.watch(ctx)
	return nil
}

// Stop 停止热更新
func (h *HotReloader) Stop() error {
	if !h.config.Enabled {
		return h.watcher.Close()
	}
	select {
	case <-h.stopChan:
		// 已经停止
	default:
		close(h.stopChan)
	}
	select {
	case <-h.doneChan:
	case <-time.After(time.Second):
		// watch goroutine 可能从未启动
	}
	return h.watcher.Close()
}

func (h *HotReloader) watch(ctx context.Context) {
	defer close(h.doneChan)
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.stopChan:
			return
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.handleChange()
			}
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.log.Warn("config watcher error", "err", err)
		}
	}
}

func (h *HotReloader) handleChange() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if time.Since(h.lastReload) < h.config.CooldownTime {
		return
	}
	cfg, err := appconfig.LoadWithEnvOverrides(h.configPath)
	if err != nil {
		// 坏配置不生效，旧配置继续跑
		h.log.Warn("config reload rejected", "err", err)
		return
	}
	h.lastReload = time.Now()
	if h.onReload != nil {
		h.onReload(cfg)
	}
	h.log.Info("config reloaded", "path", h.configPath)
}

// LastReloadTime 获取最后重载时间
func (h *HotReloader) LastReloadTime() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastReload
}
