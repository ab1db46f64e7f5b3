package container

import (
	"context"
	"errors"
	"testing"
)

type fakeComponent struct {
	name    string
	failOn  bool
	started bool
	log     *[]string
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(ctx context.Context) error {
	if f.failOn {
		return errors.New("boom")
	}
	f.started = true
	*f.log = append(*f.log, "start:"+f.name)
	return nil
}

func (f *fakeComponent) Stop() error {
	f.started = false
	*f.log = append(*f.log, "stop:"+f.name)
	return nil
}

func (f *fakeComponent) Health() error {
	if !f.started {
		return errors.New("not started")
	}
	return nil
}

func TestLifecycleStartStopOrder(t *testing.T) {
	var log []string
	m := NewLifecycleManager()
	a := &fakeComponent{name: "a", log: &log}
	b := &fakeComponent{name: "b", log: &log}
	m.Register(a)
	m.Register(b)

	if err := m.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := m.CheckHealth(); err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if err := m.StopAll(); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := []string{"start:a", "start:b", "stop:b", "stop:a"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}
}

func TestLifecycleRollbackOnStartFailure(t *testing.T) {
	var log []string
	m := NewLifecycleManager()
	a := &fakeComponent{name: "a", log: &log}
	bad := &fakeComponent{name: "bad", failOn: true, log: &log}
	m.Register(a)
	m.Register(bad)

	if err := m.StartAll(context.Background()); err == nil {
		t.Fatal("StartAll should fail when a component fails")
	}
	if a.started {
		t.Error("earlier component should be rolled back after failure")
	}
}
