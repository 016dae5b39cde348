package scheduler

import (
	"testing"
	"time"
)

func TestEngineFiresInTimeOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(Alarm{Name: "later", FireAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(Alarm{Name: "sooner", FireAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitAlarm(t, engine.C(), time.Second)
	second := waitAlarm(t, engine.C(), time.Second)
	if first.Name != "sooner" || second.Name != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.Name, second.Name)
	}
}

func TestScheduleReplacesAlarmWithSameName(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(Alarm{Name: "midnight", FireAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := engine.Schedule(Alarm{Name: "midnight", FireAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	got := waitAlarm(t, engine.C(), time.Second)
	if got.Name != "midnight" {
		t.Fatalf("unexpected alarm %q", got.Name)
	}
	if _, ok := engine.Next("midnight"); ok {
		t.Fatalf("replaced alarm should not remain pending")
	}
}

func TestCancelDisarmsAlarm(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	if err := engine.Schedule(Alarm{Name: "midnight", FireAt: time.Now().Add(30 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !engine.Cancel("midnight") {
		t.Fatalf("expected pending alarm to be cancelled")
	}
	if engine.Cancel("midnight") {
		t.Fatalf("second cancel should report nothing removed")
	}
	select {
	case a := <-engine.C():
		t.Fatalf("cancelled alarm fired: %#v", a)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(20 * time.Millisecond)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		if err := engine.Schedule(Alarm{Name: name, FireAt: at}); err != nil {
			t.Fatalf("schedule %s: %v", name, err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped alarms > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidatesAlarm(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(Alarm{Name: "bad"}); err != ErrInvalidFireTime {
		t.Fatalf("expected ErrInvalidFireTime, got %v", err)
	}
	if err := engine.Schedule(Alarm{FireAt: time.Now()}); err != ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestScheduleAfterStopFails(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()
	if err := engine.Schedule(Alarm{Name: "late", FireAt: time.Now()}); err != ErrStopped {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if _, ok := <-engine.C(); ok {
		t.Fatalf("expected output channel closed after stop")
	}
}

func waitAlarm(t *testing.T, ch <-chan Alarm, timeout time.Duration) Alarm {
	t.Helper()
	select {
	case a := <-ch:
		return a
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for alarm")
		return Alarm{}
	}
}
