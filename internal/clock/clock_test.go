package clock

import (
	"testing"
	"time"
)

func TestFake_AdvanceMovesNow(t *testing.T) {
	start := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	f := NewFake(start)

	f.Advance(90 * time.Second)
	if got := f.Now(); !got.Equal(start.Add(90 * time.Second)) {
		t.Errorf("Now() = %v", got)
	}

	f.Set(start)
	if got := f.Now(); !got.Equal(start) {
		t.Errorf("Now() after Set = %v", got)
	}
}

func TestFake_AfterFuncFiresWhenDue(t *testing.T) {
	f := NewFakeMillis(0)
	fired := 0
	f.AfterFunc(5*time.Second, func() { fired++ })

	f.Advance(4999 * time.Millisecond)
	if fired != 0 {
		t.Fatal("timer fired early")
	}

	f.Advance(time.Millisecond)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	f.Advance(time.Hour)
	if fired != 1 {
		t.Errorf("timer fired twice")
	}
	if f.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", f.Pending())
	}
}

func TestFake_StopCancelsTimer(t *testing.T) {
	f := NewFakeMillis(0)
	fired := false
	timer := f.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("Stop() = false for a pending timer")
	}
	if timer.Stop() {
		t.Error("second Stop() = true")
	}

	f.Advance(time.Minute)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestFake_CallbackMayUseClock(t *testing.T) {
	f := NewFakeMillis(0)
	var seen time.Time
	f.AfterFunc(time.Second, func() {
		seen = f.Now()
		f.AfterFunc(time.Second, func() {})
	})

	f.Advance(2 * time.Second)
	if seen.UnixMilli() != 2000 {
		t.Errorf("callback saw %v", seen)
	}
	if f.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", f.Pending())
	}
}
