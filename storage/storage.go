// Package storage persists the ordered watchlist codes.
// 只存用户原始输入的代码序列；display 与 secid 每次启动重新推导，从不落盘。
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultFileName = ".stocks.json"
	// PathEnv 覆盖默认存储路径，测试与多实例部署用。
	PathEnv = "STOCK_WATCHER_DB_PATH"
)

type storedItem struct {
	Code string `json:"code"`
}

type storedData struct {
	Stocks []storedItem `json:"stocks"`
}

// Store 单文件 JSON 存储。Path 为空时按 env / home 目录解析。
type Store struct {
	Path string
}

func (s *Store) path() (string, error) {
	if s != nil && s.Path != "" {
		return s.Path, nil
	}
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, defaultFileName), nil
}

// Load 读取有序代码列表。文件不存在视为空列表；内容损坏报错，
// 不静默吞掉用户的关注列表。
func (s *Store) Load() ([]string, error) {
	p, err := s.path()
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	var data storedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid watchlist data: %w", err)
	}
	codes := make([]string, len(data.Stocks))
	for i, it := range data.Stocks {
		codes[i] = it.Code
	}
	return codes, nil
}

// Save 覆盖写入当前有序代码列表。每次列表变更后调用。
func (s *Store) Save(codes []string) error {
	p, err := s.path()
	if err != nil {
		return err
	}
	data := storedData{Stocks: make([]storedItem, len(codes))}
	for i, c := range codes {
		data.Stocks[i] = storedItem{Code: c}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, raw, 0o644); err != nil {
		return fmt.Errorf("write watchlist: %w", err)
	}
	return nil
}
