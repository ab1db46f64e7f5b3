package watchlist

import (
	"strings"
	"sync"

	"stock-watcher-go/metrics"
	"stock-watcher-go/quote"
)

// Instrument 单个关注项。UserCode 保持用户输入原样，除显式编辑外不改写；
// Secid 可被响应回填纠正；Display 首次拉取成功前为 nil。
type Instrument struct {
	UserCode string
	Name     string
	Secid    string
	Display  *quote.Snapshot
}

// Key 匹配键。始终由 UserCode 现场重算，从不单独存储。
func (i *Instrument) Key() string {
	return quote.Normalize(i.UserCode)
}

// Entry 是提供给刷新侧的快照单元。
type Entry struct {
	Key   string
	Secid string
}

// Update 是一次刷新解码后的对账单元。
type Update struct {
	Key   string
	Secid string // 响应回填的权威 secid
	Snap  quote.Snapshot
}

// List 有序关注列表，用户命令与对账的唯一事实源。
// 顺序即用户手工排序，刷新从不改变顺序。
type List struct {
	mu    sync.Mutex
	items []*Instrument
}

func New() *List {
	return &List{}
}

// Add 追加关注项。空代码与重复规约键被拒绝，列表不变。
func (l *List) Add(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrEmptyCode
	}
	key := quote.Normalize(raw)

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range l.items {
		if it.Key() == key {
			return ErrDuplicateCode
		}
	}
	l.items = append(l.items, &Instrument{
		UserCode: raw,
		Name:     raw,
		Secid:    quote.Resolve(raw).Secid,
	})
	metrics.InstrumentsTracked.Set(float64(len(l.items)))
	return nil
}

// Delete 删除指定下标，越界为 no-op。
func (l *List) Delete(idx int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx < 0 || idx >= len(l.items) {
		return false
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	metrics.InstrumentsTracked.Set(float64(len(l.items)))
	return true
}

// MoveUp 与相邻项交换，边界 no-op。
func (l *List) MoveUp(idx int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx <= 0 || idx >= len(l.items) {
		return false
	}
	l.items[idx], l.items[idx-1] = l.items[idx-1], l.items[idx]
	return true
}

// MoveDown 与相邻项交换，边界 no-op。
func (l *List) MoveDown(idx int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx < 0 || idx >= len(l.items)-1 {
		return false
	}
	l.items[idx], l.items[idx+1] = l.items[idx+1], l.items[idx]
	return true
}

func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Codes 当前有序的用户代码，持久化用。display 与 secid 从不持久化。
func (l *List) Codes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.items))
	for i, it := range l.items {
		out[i] = it.UserCode
	}
	return out
}

// Entries 刷新侧需要的 (key, secid) 快照。
func (l *List) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.items))
	for i, it := range l.items {
		out[i] = Entry{Key: it.Key(), Secid: it.Secid}
	}
	return out
}

// Items 渲染侧的只读副本。
func (l *List) Items() []Instrument {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Instrument, len(l.items))
	for i, it := range l.items {
		out[i] = *it
	}
	return out
}
