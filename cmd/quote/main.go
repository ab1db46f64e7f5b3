package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"stock-watcher-go/config"
	"stock-watcher-go/gateway"
	"stock-watcher-go/quote"
)

// 一次性查价工具：解析代码、批量拉取、解码并打印，不落盘不常驻。
func main() {
	cfgPath := flag.String("config", "", "配置文件路径，留空用缺省配置")
	flag.Parse()

	codes := flag.Args()
	if len(codes) == 0 {
		log.Fatal("usage: quote [-config path] <code> [code...]")
	}

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	timeout := time.Duration(cfg.Provider.TimeoutSec) * time.Second
	client := &gateway.EastMoneyRESTClient{
		BaseURL:    cfg.Provider.BaseURL,
		HTTPClient: gateway.NewDefaultHTTPClient(timeout),
		Limiter:    gateway.NewTokenBucketLimiter(cfg.Provider.RateLimit, cfg.Provider.Burst),
		UserAgent:  cfg.Provider.UserAgent,
	}

	secids := make([]string, 0, len(codes))
	for _, code := range codes {
		res := quote.Resolve(code)
		if !res.Confirmed {
			fmt.Printf("%s: market guessed as %s\n", code, res.Secid)
		}
		secids = append(secids, res.Secid)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	records, err := client.FetchQuotes(ctx, secids)
	if err != nil {
		log.Fatalf("fetch quotes: %v", err)
	}

	for _, rec := range records {
		snap := quote.Decode(rec)
		if !snap.HasData {
			fmt.Printf("%-10s %-10s  no data (suspended?)\n", snap.Code, snap.Name)
			continue
		}
		note := ""
		if snap.LowConfidence {
			note = "  (unknown market, domestic scaling)"
		}
		fmt.Printf("%-10s %-10s price=%.3f chg=%+.2f%% open=%.3f high=%.3f low=%.3f%s\n",
			snap.Code, snap.Name, snap.Price, snap.Percent, snap.Open, snap.High, snap.Low, note)
	}
}
