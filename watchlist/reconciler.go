package watchlist

import "stock-watcher-go/metrics"

// Reconcile 把一批解码结果合并进列表：按规约键定位关注项，
// 整体替换 display，回填权威 secid，UserCode 与列表顺序不动。
// 请求发出后被删除的项找不到匹配，静默丢弃。整批在一把锁内应用。
//
// 低置信记录（未知市场按国内倍率解码）不覆盖已有 display，
// 但允许填充还没有任何数据的项：旧的可靠数据优于存疑的新数据，
// 存疑的数据优于没有数据。
func (l *List) Reconcile(updates []Update) (applied int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	byKey := make(map[string]*Instrument, len(l.items))
	for _, it := range l.items {
		byKey[it.Key()] = it
	}

	for _, u := range updates {
		it, ok := byKey[u.Key]
		if !ok {
			metrics.RecordsDiscarded.Inc()
			continue
		}
		if u.Secid != "" && u.Secid != it.Secid {
			it.Secid = u.Secid // 盲猜市场被响应纠正，下个周期直接命中
		}
		if u.Snap.Name != "" {
			it.Name = u.Snap.Name
		}
		if u.Snap.LowConfidence && it.Display != nil {
			continue
		}
		snap := u.Snap
		it.Display = &snap
		applied++
	}
	return applied
}
