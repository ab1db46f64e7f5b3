package watchlist

import (
	"testing"

	"stock-watcher-go/quote"
)

func snap(code string, mkt int, price float64) quote.Snapshot {
	return quote.Snapshot{Code: code, Market: mkt, Price: price, HasData: true}
}

func TestReconcileUpdatesDisplayAndSecid(t *testing.T) {
	l := New()
	if err := l.Add("NVDA"); err != nil {
		t.Fatalf("add: %v", err)
	}
	n := l.Reconcile([]Update{{
		Key:   "NVDA",
		Secid: "105.NVDA",
		Snap: quote.Snapshot{
			Code: "NVDA", Market: 105, Name: "英伟达", Price: 1500, HasData: true,
		},
	}})
	if n != 1 {
		t.Fatalf("applied = %d", n)
	}
	it := l.Items()[0]
	if it.UserCode != "NVDA" {
		t.Fatalf("user code touched: %q", it.UserCode)
	}
	if it.Secid != "105.NVDA" {
		t.Fatalf("secid not confirmed: %q", it.Secid)
	}
	if it.Name != "英伟达" {
		t.Fatalf("name not captured: %q", it.Name)
	}
	if it.Display == nil || it.Display.Price != 1500 {
		t.Fatalf("display not replaced: %+v", it.Display)
	}
}

func TestReconcileSelfCorrectsGuessedMarket(t *testing.T) {
	l := New()
	if err := l.Add("RR."); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := l.Items()[0].Secid; got != "105.RR." {
		t.Fatalf("initial guess = %q", got)
	}
	// 响应确认真实市场是英股
	l.Reconcile([]Update{{Key: "RR.", Secid: "155.RR.", Snap: snap("RR.", 155, 5.8)}})
	it := l.Items()[0]
	if it.Secid != "155.RR." {
		t.Fatalf("secid not corrected: %q", it.Secid)
	}
	if it.UserCode != "RR." {
		t.Fatalf("user code touched: %q", it.UserCode)
	}
}

func TestReconcileDeletedInstrumentIsNoop(t *testing.T) {
	l := New()
	if err := l.Add("600519"); err != nil {
		t.Fatalf("add: %v", err)
	}
	l.Delete(0)
	// 请求在途期间删除，响应回来必须静默丢弃
	n := l.Reconcile([]Update{{Key: "600519", Secid: "1.600519", Snap: snap("600519", 1, 1700)}})
	if n != 0 {
		t.Fatalf("applied = %d, want 0", n)
	}
	if l.Len() != 0 {
		t.Fatalf("reconcile must never create instruments")
	}
}

func TestReconcilePreservesOrder(t *testing.T) {
	l := New()
	for _, c := range []string{"600519", "000001", "NVDA"} {
		if err := l.Add(c); err != nil {
			t.Fatalf("add %s: %v", c, err)
		}
	}
	for i := 0; i < 5; i++ {
		// 响应顺序与列表顺序无关
		l.Reconcile([]Update{
			{Key: "NVDA", Secid: "105.NVDA", Snap: snap("NVDA", 105, 1500)},
			{Key: "600519", Secid: "1.600519", Snap: snap("600519", 1, 1700)},
			{Key: "000001", Secid: "0.000001", Snap: snap("000001", 0, 10.5)},
		})
	}
	codes := l.Codes()
	if codes[0] != "600519" || codes[1] != "000001" || codes[2] != "NVDA" {
		t.Fatalf("order changed by reconcile: %v", codes)
	}
}

func TestReconcileLowConfidencePolicy(t *testing.T) {
	l := New()
	if err := l.Add("FOO"); err != nil {
		t.Fatalf("add: %v", err)
	}
	low := quote.Snapshot{Code: "FOO", Market: 42, Price: 1, HasData: true, LowConfidence: true}

	// 没有任何数据时，低置信也先填上
	if n := l.Reconcile([]Update{{Key: "FOO", Secid: "42.FOO", Snap: low}}); n != 1 {
		t.Fatalf("low-confidence should populate empty display, applied=%d", n)
	}
	// 已有数据后，低置信不再覆盖
	good := quote.Snapshot{Code: "FOO", Market: 105, Price: 2, HasData: true}
	l.Reconcile([]Update{{Key: "FOO", Secid: "105.FOO", Snap: good}})
	if n := l.Reconcile([]Update{{Key: "FOO", Secid: "42.FOO", Snap: low}}); n != 0 {
		t.Fatalf("low-confidence overwrote existing display, applied=%d", n)
	}
	if got := l.Items()[0].Display.Price; got != 2 {
		t.Fatalf("display clobbered: price=%v", got)
	}
}

func TestReconcileEmptySecidKeepsResolved(t *testing.T) {
	l := New()
	if err := l.Add("NVDA"); err != nil {
		t.Fatalf("add: %v", err)
	}
	before := l.Items()[0].Secid // 盲猜的 105.NVDA

	// 市场编号缺失的记录：secid 留空，display 照常填充
	low := quote.Snapshot{Code: "NVDA", Market: -1, Price: 15, HasData: true, LowConfidence: true}
	if n := l.Reconcile([]Update{{Key: "NVDA", Secid: "", Snap: low}}); n != 1 {
		t.Fatalf("applied = %d", n)
	}
	it := l.Items()[0]
	if it.Secid != before {
		t.Fatalf("secid rewritten to %q, want %q kept", it.Secid, before)
	}
	if it.Display == nil || it.Display.Price != 15 {
		t.Fatalf("display not populated: %+v", it.Display)
	}
}
