package main

import (
	"context"
	"testing"
	"time"

	"stock-watcher-go/internal/app"
	"stock-watcher-go/logs"
	"stock-watcher-go/quote"
	"stock-watcher-go/scheduler"
	"stock-watcher-go/storage"
	"stock-watcher-go/watchlist"
)

type nopTransport struct{}

func (nopTransport) FetchQuotes(ctx context.Context, secids []string) ([]quote.RawRecord, error) {
	return nil, nil
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	store := &storage.Store{Path: t.TempDir() + "/stocks.json"}
	sched := scheduler.New(nopTransport{}, time.Second, logs.Nop{})
	return app.New(watchlist.New(), store, sched, nil, app.Options{}, logs.Nop{})
}

func TestParseIndex(t *testing.T) {
	if _, ok := parseIndex("del", ""); ok {
		t.Fatal("missing index must not parse")
	}
	if _, ok := parseIndex("up", "abc"); ok {
		t.Fatal("non-numeric index must not parse")
	}
	if idx, ok := parseIndex("down", "2"); !ok || idx != 2 {
		t.Fatalf("parseIndex(2) = %d, %v", idx, ok)
	}
}

func TestDispatchBadIndexLeavesListIntact(t *testing.T) {
	a := newTestApp(t)
	if err := a.Add("600519"); err != nil {
		t.Fatalf("add: %v", err)
	}
	for _, line := range []string{"del", "del x", "up x", "down x"} {
		if !dispatch(a, line) {
			t.Fatalf("%q must not quit", line)
		}
	}
	if got := len(a.Items()); got != 1 {
		t.Fatalf("list changed by bad-index commands: %d items", got)
	}
}

func TestDispatchQuit(t *testing.T) {
	a := newTestApp(t)
	for _, line := range []string{"q", "quit", "exit"} {
		if dispatch(a, line) {
			t.Fatalf("%q must quit", line)
		}
	}
	if dispatch(a, "unknowncmd") != true {
		t.Fatal("unknown command must not quit")
	}
}
