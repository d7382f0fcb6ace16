package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockNow(t *testing.T) {
	c := Fake(epoch)
	if !c.Now().Equal(epoch) {
		t.Fatalf("expected %v, got %v", epoch, c.Now())
	}
	c.Advance(3 * time.Second)
	if !c.Now().Equal(epoch.Add(3 * time.Second)) {
		t.Errorf("expected clock to advance 3s, got %v", c.Now())
	}
}

func TestFakeClockAfterFuncFiresOnAdvance(t *testing.T) {
	c := Fake(epoch)
	fired := 0
	c.AfterFunc(time.Second, func() { fired++ })

	c.Advance(999 * time.Millisecond)
	if fired != 0 {
		t.Fatal("callback fired before its deadline")
	}
	c.Advance(time.Millisecond)
	if fired != 1 {
		t.Fatalf("expected one call, got %d", fired)
	}
	c.Advance(time.Hour)
	if fired != 1 {
		t.Errorf("one-shot timer fired again: %d", fired)
	}
}

func TestFakeClockStop(t *testing.T) {
	c := Fake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("expected Stop to report an active timer")
	}
	if timer.Stop() {
		t.Error("expected second Stop to report false")
	}
	c.Advance(time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
	if c.PendingCount() != 0 {
		t.Errorf("expected no pending timers, got %d", c.PendingCount())
	}
}

func TestFakeClockChainedCallbacksStepOnce(t *testing.T) {
	c := Fake(epoch)
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		c.AfterFunc(time.Second, tick)
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(time.Second)
	if ticks != 1 {
		t.Fatalf("expected 1 tick, got %d", ticks)
	}
	if c.PendingCount() != 1 {
		t.Errorf("expected the rescheduled timer to be pending, got %d", c.PendingCount())
	}
	c.Advance(time.Second)
	if ticks != 2 {
		t.Errorf("expected 2 ticks, got %d", ticks)
	}
}

func TestFakeClockFiresInDeadlineOrder(t *testing.T) {
	c := Fake(epoch)
	var order []int
	c.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	c.AfterFunc(1*time.Second, func() { order = append(order, 1) })
	c.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	c.Advance(5 * time.Second)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("expected [1 2 3], got %v", order)
	}
}

func TestRealClockAfterFuncStop(t *testing.T) {
	c := Real()
	timer := c.AfterFunc(time.Hour, func() { t.Error("timer should not fire") })
	if !timer.Stop() {
		t.Error("expected Stop to cancel a pending real timer")
	}
}
