package server

import (
	"testing"
	"time"

	"github.com/ayusman/nebula/internal/app"
	"github.com/ayusman/nebula/internal/control"
	"github.com/ayusman/nebula/internal/detector"
)

func TestStateHandler_CloseStopsBroadcast(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing test")
	}

	a := app.New(app.Config{Tuning: control.DefaultTuning()})
	a.SetDetector(detector.NewMockDetector())

	h := NewStateHandler(a)

	// Let a few ticks advance the ambient animation.
	time.Sleep(4 * broadcastInterval)
	h.Close()
	h.Close() // safe to call twice

	// Absorb a tick that may have raced the close.
	time.Sleep(2 * broadcastInterval)
	before := a.Snapshot(time.Now()).DriftClock
	time.Sleep(4 * broadcastInterval)
	after := a.Snapshot(time.Now()).DriftClock

	if before == 0 {
		t.Error("broadcast loop should advance the scene while running")
	}
	if after != before {
		t.Errorf("scene advanced from %f to %f after Close", before, after)
	}
}
