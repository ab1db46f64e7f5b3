package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stock-watcher-go/infrastructure/logger"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env       string          `yaml:"env"`
	Provider  ProviderConfig  `yaml:"provider"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Watchlist WatchlistConfig `yaml:"watchlist"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Alert     AlertConfig     `yaml:"alert"`
	Log       logger.Config   `yaml:"log"`
}

// ProviderConfig 行情源（push2 批量接口）设置。
type ProviderConfig struct {
	BaseURL    string  `yaml:"baseURL"`
	TimeoutSec int     `yaml:"timeoutSec"` // 单次批量拉取超时
	RateLimit  float64 `yaml:"rateLimit"`  // 限流：每秒令牌数
	Burst      int     `yaml:"burst"`      // 限流：最大突发令牌数
	UserAgent  string  `yaml:"userAgent"`
}

// RefreshConfig 刷新节奏。tick 由外部驱动，每 intervalTicks 个 tick 触发一次刷新。
type RefreshConfig struct {
	TickMs        int `yaml:"tickMs"`
	IntervalTicks int `yaml:"intervalTicks"`
	StaleAfterSec int `yaml:"staleAfterSec"` // 超过该时长没有成功对账则告警，0 关闭
}

type WatchlistConfig struct {
	Path string `yaml:"path"` // 为空时用 $HOME/.stocks.json 或 env 覆盖
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // 留空则关闭
}

type AlertConfig struct {
	ThrottleSec int `yaml:"throttleSec"`
}

// Default 没有配置文件时的缺省运行参数。
func Default() AppConfig {
	return AppConfig{
		Env: "dev",
		Provider: ProviderConfig{
			TimeoutSec: 10,
			RateLimit:  2,
			Burst:      2,
			UserAgent:  "stock-watcher/1.0",
		},
		Refresh: RefreshConfig{
			TickMs:        1000,
			IntervalTicks: 60,
			StaleAfterSec: 300,
		},
		Metrics: MetricsConfig{Addr: ":9100"},
		Alert:   AlertConfig{ThrottleSec: 300},
		Log:     logger.DefaultConfig(),
	}
}

// Load reads YAML config from path and applies basic validation.
// 路径为空时直接用缺省配置。
func Load(path string) (AppConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, Validate(cfg)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides select fields from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("SW_PROVIDER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("SW_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("SW_WATCHLIST_PATH"); v != "" {
		cfg.Watchlist.Path = v
	}
	return cfg, Validate(cfg)
}

// Validate ensures required fields are present.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.Provider.TimeoutSec <= 0 {
		return errors.New("provider.timeoutSec must be > 0")
	}
	if cfg.Provider.RateLimit < 0 {
		return errors.New("provider.rateLimit must be >= 0")
	}
	if cfg.Provider.Burst < 0 {
		return errors.New("provider.burst must be >= 0")
	}
	if cfg.Refresh.TickMs <= 0 {
		return errors.New("refresh.tickMs must be > 0")
	}
	if cfg.Refresh.IntervalTicks <= 0 {
		return errors.New("refresh.intervalTicks must be > 0")
	}
	if cfg.Refresh.StaleAfterSec < 0 {
		return errors.New("refresh.staleAfterSec must be >= 0")
	}
	if cfg.Alert.ThrottleSec < 0 {
		return errors.New("alert.throttleSec must be >= 0")
	}
	return nil
}
