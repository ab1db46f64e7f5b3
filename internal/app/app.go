package app

import (
	"sync"
	"time"

	"stock-watcher-go/infrastructure/alert"
	"stock-watcher-go/logs"
	"stock-watcher-go/metrics"
	"stock-watcher-go/scheduler"
	"stock-watcher-go/storage"
	"stock-watcher-go/watchlist"
)

// Options 运行节奏参数，可在运行中热更新。
type Options struct {
	IntervalTicks int           // 每多少个 tick 自动触发一次刷新
	StaleAfter    time.Duration // 超过该时长没有成功对账则告警，0 关闭
}

// App 把自选列表、持久化、刷新器和告警拼成一个可驱动的整体。
// 所有方法都设计为从单个驱动 goroutine（UI 或 ticker 循环）调用，
// 后台抓取由 scheduler 自己的 goroutine 承担。
type App struct {
	list   *watchlist.List
	store  *storage.Store
	sched  *scheduler.Scheduler
	alerts *alert.Manager
	log    logs.Logger

	mu          sync.Mutex
	opts        Options
	tickCount   int
	lastRefresh time.Time
	lastError   string
	staleSent   bool
}

func New(list *watchlist.List, store *storage.Store, sched *scheduler.Scheduler, alerts *alert.Manager, opts Options, log logs.Logger) *App {
	if log == nil {
		log = logs.DefaultLogger
	}
	if opts.IntervalTicks <= 0 {
		opts.IntervalTicks = 60
	}
	a := &App{
		list:   list,
		store:  store,
		sched:  sched,
		alerts: alerts,
		opts:   opts,
		log:    log,
	}
	sched.SetFailureHandler(a.onFetchFailure)
	return a
}

// LoadWatchlist 启动时从磁盘恢复列表。文件缺失视为空列表。
func (a *App) LoadWatchlist() error {
	codes, err := a.store.Load()
	if err != nil {
		return err
	}
	for _, code := range codes {
		if err := a.list.Add(code); err != nil {
			// 脏数据跳过，不让单条坏记录挡住启动
			a.log.Warn("skip stored code", "code", code, "err", err)
		}
	}
	return nil
}

// Add 新增自选并立即落盘，随后触发一次刷新让新代码尽快有价。
func (a *App) Add(raw string) error {
	if err := a.list.Add(raw); err != nil {
		return err
	}
	if err := a.persist(); err != nil {
		return err
	}
	a.RefreshNow()
	return nil
}

// Delete 删除指定下标的自选并落盘。
func (a *App) Delete(idx int) error {
	if !a.list.Delete(idx) {
		return nil
	}
	return a.persist()
}

// MoveUp 上移一位并落盘，越界 no-op。
func (a *App) MoveUp(idx int) error {
	if !a.list.MoveUp(idx) {
		return nil
	}
	return a.persist()
}

// MoveDown 下移一位并落盘，越界 no-op。
func (a *App) MoveDown(idx int) error {
	if !a.list.MoveDown(idx) {
		return nil
	}
	return a.persist()
}

// RefreshNow 手动触发刷新。在途时 no-op，返回是否真正发起了抓取。
func (a *App) RefreshNow() bool {
	return a.sched.TriggerRefresh(a.list.Entries())
}

// Tick 推进一个时钟周期：先吸收已到达的批次，再决定是否发起自动刷新。
// 返回本轮是否有新数据被合并进列表。
func (a *App) Tick() bool {
	applied := a.Drain()

	a.mu.Lock()
	a.tickCount++
	fire := a.tickCount >= a.opts.IntervalTicks
	if fire {
		a.tickCount = 0
	}
	a.mu.Unlock()

	if fire {
		a.RefreshNow()
	}
	a.checkStale()
	return applied
}

// Drain 取走单槽通道里的最新批次并对账。通道为空时立即返回 false。
func (a *App) Drain() bool {
	select {
	case batch := <-a.sched.Updates():
		n := a.list.Reconcile(batch.Updates)
		a.mu.Lock()
		a.lastRefresh = batch.FetchedAt
		a.lastError = ""
		wasStale := a.staleSent
		a.staleSent = false
		a.mu.Unlock()

		metrics.LastRefreshTimestamp.Set(float64(batch.FetchedAt.Unix()))
		if wasStale && a.alerts != nil {
			a.alerts.NotifyRecovered()
		}
		a.log.Info("batch reconciled", "updates", len(batch.Updates), "applied", n)
		return n > 0
	default:
		return false
	}
}

// Items 当前列表快照，顺序即用户顺序。
func (a *App) Items() []watchlist.Instrument { return a.list.Items() }

// Fetching 是否有刷新在途。
func (a *App) Fetching() bool { return a.sched.Fetching() }

// LastRefresh 最近一次成功对账的抓取时间，从未成功则为零值。
func (a *App) LastRefresh() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastRefresh
}

// LastError 最近一次刷新失败的提示，成功对账后清空。
func (a *App) LastError() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastError
}

// SetOptions 热更新运行节奏。
func (a *App) SetOptions(opts Options) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if opts.IntervalTicks > 0 {
		a.opts.IntervalTicks = opts.IntervalTicks
	}
	a.opts.StaleAfter = opts.StaleAfter
}

func (a *App) persist() error {
	if err := a.store.Save(a.list.Codes()); err != nil {
		a.log.Error("persist watchlist failed", "err", err)
		return err
	}
	return nil
}

func (a *App) onFetchFailure(err error) {
	a.mu.Lock()
	a.lastError = "no update this cycle"
	a.mu.Unlock()
	if a.alerts != nil {
		a.alerts.NotifyFetchFailure(err)
	}
}

// checkStale 数据超过 StaleAfter 未更新则告警一次，恢复后重置。
func (a *App) checkStale() {
	a.mu.Lock()
	stale := a.opts.StaleAfter > 0 &&
		!a.lastRefresh.IsZero() &&
		time.Since(a.lastRefresh) > a.opts.StaleAfter &&
		!a.staleSent
	if stale {
		a.staleSent = true
	}
	age := time.Since(a.lastRefresh)
	a.mu.Unlock()

	if stale && a.alerts != nil {
		a.alerts.NotifyStale(age)
	}
}
