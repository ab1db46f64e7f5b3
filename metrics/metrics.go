// Package metrics provides Prometheus metrics for the stock watcher
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RefreshAttempts 刷新触发总数（含被丢弃的触发）
	RefreshAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sw",
		Subsystem: "refresh",
		Name:      "attempts_total",
		Help:      "刷新触发总数",
	})
	// RefreshSkipped 因已有请求在途而被丢弃的触发数
	RefreshSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sw",
		Subsystem: "refresh",
		Name:      "skipped_total",
		Help:      "在途期间被丢弃的刷新触发数",
	})
	// RefreshFailures 整批失败数（网络或解析错误）
	RefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sw",
		Subsystem: "refresh",
		Name:      "failures_total",
		Help:      "整批丢弃的刷新失败数",
	})
	// BatchesDropped 单槽通道被新批次覆盖的旧批次数
	BatchesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sw",
		Subsystem: "refresh",
		Name:      "batches_dropped_total",
		Help:      "被最新批次覆盖的未消费批次数",
	})
	// RecordsDiscarded 找不到匹配关注项的响应记录数
	RecordsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sw",
		Subsystem: "reconcile",
		Name:      "records_discarded_total",
		Help:      "无匹配关注项被静默丢弃的记录数",
	})
	// FetchDuration 单次批量拉取耗时
	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sw",
		Subsystem: "refresh",
		Name:      "fetch_duration_seconds",
		Help:      "单次批量拉取耗时",
		Buckets:   prometheus.DefBuckets,
	})
	// InstrumentsTracked 当前关注项数量
	InstrumentsTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sw",
		Subsystem: "watchlist",
		Name:      "instruments",
		Help:      "当前关注项数量",
	})
	// LastRefreshTimestamp 最近一次成功对账的 unix 时间
	LastRefreshTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sw",
		Subsystem: "refresh",
		Name:      "last_success_timestamp_seconds",
		Help:      "最近一次成功对账的时间戳",
	})
)

// Handler 返回 /metrics 的 HTTP handler，由上层决定挂在哪个端口。
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
