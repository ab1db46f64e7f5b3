package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"stock-watcher-go/config"
	"stock-watcher-go/gateway"
	"stock-watcher-go/infrastructure/alert"
	"stock-watcher-go/infrastructure/logger"
	"stock-watcher-go/internal/app"
	internalconfig "stock-watcher-go/internal/config"
	"stock-watcher-go/metrics"
	"stock-watcher-go/scheduler"
	"stock-watcher-go/storage"
	"stock-watcher-go/watchlist"
)

// Container 依赖注入容器，管理所有组件的生命周期
type Container struct {
	// 配置
	cfg        config.AppConfig
	configPath string

	// 基础设施
	logger *logger.Logger
	alerts *alert.Manager

	// 行情网关
	restClient *gateway.EastMoneyRESTClient

	// 核心服务
	list  *watchlist.List
	store *storage.Store
	sched *scheduler.Scheduler
	app   *app.App

	// 配置热更新；fsnotify 不可用（inotify 句柄耗尽等）时退回 mtime 轮询
	reloader    *internalconfig.HotReloader
	pollWatcher *config.Watcher

	// HTTP服务器
	metricsServer *http.Server

	// 生命周期管理
	lifecycle *LifecycleManager
}

// New 创建新的Container实例
func New(configPath string) (*Container, error) {
	cfg, err := config.LoadWithEnvOverrides(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	return &Container{
		cfg:        cfg,
		configPath: configPath,
		lifecycle:  NewLifecycleManager(),
	}, nil
}

// Build 构建所有组件
func (c *Container) Build() error {
	if err := c.buildInfrastructure(); err != nil {
		return fmt.Errorf("build infrastructure failed: %w", err)
	}

	if err := c.buildGateway(); err != nil {
		return fmt.Errorf("build gateway failed: %w", err)
	}

	if err := c.buildCoreServices(); err != nil {
		return fmt.Errorf("build core services failed: %w", err)
	}

	c.registerLifecycleComponents()
	c.logger.Info("container built successfully")
	return nil
}

func (c *Container) buildInfrastructure() error {
	var err error
	c.logger, err = logger.New(c.cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger failed: %w", err)
	}

	throttle := time.Duration(c.cfg.Alert.ThrottleSec) * time.Second
	c.alerts = alert.NewManager([]alert.Channel{alert.NewLogChannel("log", nil)}, throttle)

	c.logger.Info("infrastructure built")
	return nil
}

func (c *Container) buildGateway() error {
	c.restClient = &gateway.EastMoneyRESTClient{
		BaseURL:    c.cfg.Provider.BaseURL,
		HTTPClient: gateway.NewDefaultHTTPClient(c.timeout()),
		Limiter:    gateway.NewTokenBucketLimiter(c.cfg.Provider.RateLimit, c.cfg.Provider.Burst),
		UserAgent:  c.cfg.Provider.UserAgent,
	}

	c.logger.Info("gateway built")
	return nil
}

func (c *Container) buildCoreServices() error {
	c.list = watchlist.New()
	c.store = &storage.Store{Path: c.cfg.Watchlist.Path}
	c.sched = scheduler.New(c.restClient, c.timeout(), c.logger.AsLight())

	c.app = app.New(c.list, c.store, c.sched, c.alerts, app.Options{
		IntervalTicks: c.cfg.Refresh.IntervalTicks,
		StaleAfter:    time.Duration(c.cfg.Refresh.StaleAfterSec) * time.Second,
	}, c.logger.AsLight())

	if err := c.app.LoadWatchlist(); err != nil {
		return fmt.Errorf("load watchlist failed: %w", err)
	}

	if c.configPath != "" {
		reloader, err := internalconfig.NewHotReloader(c.configPath, internalconfig.DefaultHotReloadConfig(), c.logger.AsLight())
		if err != nil {
			c.logger.LogError(err, map[string]interface{}{"action": "create_hot_reload"})
			c.pollWatcher = &config.Watcher{Path: c.configPath}
		} else {
			reloader.SetReloadHandler(c.applyConfig)
			c.reloader = reloader
		}
	}

	c.logger.Info("core services built", zap.Int("instruments", c.list.Len()))
	return nil
}

func (c *Container) registerLifecycleComponents() {
	if c.cfg.Metrics.Addr != "" {
		c.lifecycle.Register(&httpServerComponent{
			name:    "metrics_server",
			handler: metrics.Handler(),
			addr:    c.cfg.Metrics.Addr,
			logger:  c.logger,
			server:  &c.metricsServer,
		})
	}
}

// applyConfig 配置热更新落地：只接受能在运行中安全切换的字段。
func (c *Container) applyConfig(cfg config.AppConfig) {
	c.sched.SetTimeout(time.Duration(cfg.Provider.TimeoutSec) * time.Second)
	c.app.SetOptions(app.Options{
		IntervalTicks: cfg.Refresh.IntervalTicks,
		StaleAfter:    time.Duration(cfg.Refresh.StaleAfterSec) * time.Second,
	})
	c.logger.LogCommand("config_applied", map[string]interface{}{
		"timeout_sec":    cfg.Provider.TimeoutSec,
		"interval_ticks": cfg.Refresh.IntervalTicks,
	})
}

func (c *Container) Start(ctx context.Context) error {
	c.logger.Info("starting container...")

	if err := c.lifecycle.StartAll(ctx); err != nil {
		return fmt.Errorf("start failed: %w", err)
	}
	if c.reloader != nil {
		if err := c.reloader.Start(ctx); err != nil {
			c.logger.LogError(err, map[string]interface{}{"action": "start_hot_reload"})
		}
	}
	if c.pollWatcher != nil {
		go func() {
			_ = c.pollWatcher.Start(ctx, c.applyConfig)
		}()
	}

	c.logger.Info("container started")
	return nil
}

func (c *Container) Stop() error {
	c.logger.Info("stopping container...")

	if c.reloader != nil {
		if err := c.reloader.Stop(); err != nil {
			c.logger.LogError(err, map[string]interface{}{"action": "stop_hot_reload"})
		}
	}
	if err := c.lifecycle.StopAll(); err != nil {
		c.logger.LogError(err, map[string]interface{}{"action": "stop"})
		return err
	}

	if c.logger != nil {
		c.logger.Close()
	}

	return nil
}

func (c *Container) HealthCheck() error {
	return c.lifecycle.CheckHealth()
}

// App 暴露给驱动循环。
func (c *Container) App() *app.App { return c.app }

// Config 当前生效配置的副本。
func (c *Container) Config() config.AppConfig { return c.cfg }

func (c *Container) timeout() time.Duration {
	return time.Duration(c.cfg.Provider.TimeoutSec) * time.Second
}
