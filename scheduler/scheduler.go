package scheduler

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"stock-watcher-go/logs"
	"stock-watcher-go/metrics"
	"stock-watcher-go/quote"
	"stock-watcher-go/watchlist"
)

// Transport 一个刷新周期只做一次批量请求，不做流式订阅。
type Transport interface {
	FetchQuotes(ctx context.Context, secids []string) ([]quote.RawRecord, error)
}

// Batch 一次刷新周期的完整解码结果。整批是全量快照而非增量，
// 所以在单槽通道上被更新的批次覆盖是无损的。
type Batch struct {
	Updates   []watchlist.Update
	FetchedAt time.Time
}

// Scheduler 后台刷新器。状态机只有 Idle/Fetching 两态：
// 在途期间新触发整个丢弃（不排队、不合并），失败直接回 Idle 等下个 tick。
type Scheduler struct {
	transport Transport
	log       logs.Logger
	onFailure func(error)

	timeoutNs atomic.Int64
	fetching  atomic.Bool
	updates   chan Batch
}

func New(transport Transport, timeout time.Duration, log logs.Logger) *Scheduler {
	if log == nil {
		log = logs.DefaultLogger
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s := &Scheduler{
		transport: transport,
		log:       log,
		updates:   make(chan Batch, 1),
	}
	s.timeoutNs.Store(int64(timeout))
	return s
}

// Updates 消费侧的单槽交接通道。
func (s *Scheduler) Updates() <-chan Batch { return s.updates }

// SetTimeout 热更新单次拉取超时。
func (s *Scheduler) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeoutNs.Store(int64(d))
	}
}

// SetFailureHandler 注册整批失败时的告警回调。
func (s *Scheduler) SetFailureHandler(fn func(error)) {
	s.onFailure = fn
}

// Fetching 当前是否有请求在途。
func (s *Scheduler) Fetching() bool { return s.fetching.Load() }

// TriggerRefresh 任意场合可调（定时 tick 或手动刷新）。
// 在途时调用是 no-op，返回 false；空列表同样 no-op。
func (s *Scheduler) TriggerRefresh(entries []watchlist.Entry) bool {
	if len(entries) == 0 {
		return false
	}
	metrics.RefreshAttempts.Inc()
	if !s.fetching.CompareAndSwap(false, true) {
		metrics.RefreshSkipped.Inc()
		return false
	}
	go s.refresh(entries)
	return true
}

func (s *Scheduler) refresh(entries []watchlist.Entry) {
	defer s.fetching.Store(false)

	secids := make([]string, len(entries))
	for i, e := range entries {
		secids[i] = e.Secid
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.timeoutNs.Load()))
	defer cancel()

	start := time.Now()
	records, err := s.transport.FetchQuotes(ctx, secids)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		// 整批丢弃，不重试；下个 tick 自然再来，失败代价封顶一个刷新周期
		metrics.RefreshFailures.Inc()
		s.log.Warn("refresh failed, batch dropped", "err", err, "secids", len(secids))
		if s.onFailure != nil {
			s.onFailure(err)
		}
		return
	}

	s.deliver(Batch{Updates: match(entries, records), FetchedAt: time.Now()})
}

// match 把响应记录映射回触发时的快照条目：先按完整 secid 精确命中，
// 再按代码部分兜底（盲猜市场被纠正的场合）。映射不到的记录跳过。
func match(entries []watchlist.Entry, records []quote.RawRecord) []watchlist.Update {
	bySecid := make(map[string]watchlist.Entry, len(entries))
	byCode := make(map[string][]watchlist.Entry, len(entries))
	for _, e := range entries {
		secid := strings.ToUpper(e.Secid)
		bySecid[secid] = e
		code := secid
		if i := strings.Index(secid, "."); i >= 0 {
			code = secid[i+1:]
		}
		byCode[code] = append(byCode[code], e)
	}

	updates := make([]watchlist.Update, 0, len(records))
	for _, rec := range records {
		e, ok := bySecid[strings.ToUpper(rec.ConfirmedSecid())]
		if !ok {
			cands := byCode[strings.ToUpper(rec.Code)]
			if len(cands) == 0 {
				continue
			}
			e = cands[0]
		}
		// 市场编号缺失的记录什么也没确认：secid 留空，不让 "-1.代码"
		// 这种无效值被当成纠正存下来、毒化后续周期的请求。
		secid := ""
		if rec.Market.OK {
			secid = rec.ConfirmedSecid()
		}
		updates = append(updates, watchlist.Update{
			Key:   e.Key,
			Secid: secid,
			Snap:  quote.Decode(rec),
		})
	}
	return updates
}

// deliver 单槽交接：槽满时先丢掉没人消费的旧批次再放新批次，
// 陈旧度永不叠加（last-write-wins）。
func (s *Scheduler) deliver(b Batch) {
	for {
		select {
		case s.updates <- b:
			return
		default:
			select {
			case <-s.updates:
				metrics.BatchesDropped.Inc()
			default:
			}
		}
	}
}
