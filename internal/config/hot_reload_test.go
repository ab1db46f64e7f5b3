package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	appconfig "stock-watcher-go/config"
	"stock-watcher-go/logs"
)

func writeConfig(t *testing.T, path, metricsAddr string) {
	t.Helper()
	content := "env: dev\nmetrics:\n  addr: \"" + metricsAddr + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestHotReloaderReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, ":9100")

	hr, err := NewHotReloader(path, HotReloadConfig{Enabled: true, CooldownTime: 10 * time.Millisecond}, logs.Nop{})
	if err != nil {
		t.Fatalf("NewHotReloader: %v", err)
	}
	defer hr.Stop()

	reloaded := make(chan appconfig.AppConfig, 1)
	hr.SetReloadHandler(func(cfg appconfig.AppConfig) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := hr.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	writeConfig(t, path, ":9200")

	select {
	case cfg := <-reloaded:
		if cfg.Metrics.Addr != ":9200" {
			t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, ":9200")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("reload handler was not called")
	}
}

func TestHotReloaderRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, ":9100")

	hr, err := NewHotReloader(path, HotReloadConfig{Enabled: true, CooldownTime: 10 * time.Millisecond}, logs.Nop{})
	if err != nil {
		t.Fatalf("NewHotReloader: %v", err)
	}
	defer hr.Stop()

	called := make(chan struct{}, 1)
	hr.SetReloadHandler(func(appconfig.AppConfig) {
		select {
		case called <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := hr.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("metrics: [not a mapping"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	select {
	case <-called:
		t.Fatal("reload handler called for invalid config")
	case <-time.After(300 * time.Millisecond):
	}
	if !hr.LastReloadTime().IsZero() {
		t.Error("LastReloadTime should stay zero after rejected reload")
	}
}

func TestHotReloaderDisabled(t *testing.T) {
	hr, err := NewHotReloader("/nonexistent/config.yaml", HotReloadConfig{Enabled: false}, logs.Nop{})
	if err != nil {
		t.Fatalf("NewHotReloader: %v", err)
	}
	if err := hr.Start(context.Background()); err != nil {
		t.Fatalf("Start with disabled reloader: %v", err)
	}
	if err := hr.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
