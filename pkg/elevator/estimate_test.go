package elevator

import (
	"testing"
	"time"
)

func TestEstimateArrival(t *testing.T) {
	e := newTestElevator(t, 1)
	e.RequestFloor(5)
	before := e.State()

	eta, ok := e.EstimateArrival(5, frame, time.Minute)
	if !ok {
		t.Fatal("Expected an estimate for the pending floor")
	}
	if eta != 4*time.Second {
		t.Errorf("Expected ETA 4s, got %v", eta)
	}
	if e.State() != before {
		t.Errorf("Estimate mutated the controller.\nbefore: %+v\nafter:  %+v", before, e.State())
	}
	if len(drain(e)) != 2 {
		t.Error("Expected only the live RequestAdded and Departed events on the channel")
	}
}

func TestEstimateArrival_QueuedBehindDoorCycle(t *testing.T) {
	e := newTestElevator(t, 1)
	e.RequestFloor(2)
	e.RequestFloor(3)

	// 64 frames to floor 2, 320 hold, 128 closing, then 64 more frames of
	// travel where the dispatch frame already moves the cab.
	eta, ok := e.EstimateArrival(3, frame, time.Minute)
	if !ok {
		t.Fatal("Expected an estimate for the queued floor")
	}
	if want := 575 * frame; eta != want {
		t.Errorf("Expected ETA %v, got %v", want, eta)
	}
}

func TestEstimateArrival_Unreachable(t *testing.T) {
	e := newTestElevator(t, 1)

	if _, ok := e.EstimateArrival(4, frame, 10*time.Second); ok {
		t.Error("Expected no estimate for a floor nobody requested")
	}
	if eta, ok := e.EstimateArrival(1, frame, time.Second); !ok || eta != 0 {
		t.Errorf("Expected zero ETA at the resting floor, got %v %v", eta, ok)
	}
	if _, ok := e.EstimateArrival(42, frame, time.Second); ok {
		t.Error("Expected no estimate for an out-of-range floor")
	}

	e.RequestFloor(6)
	e.ToggleStop()
	if _, ok := e.EstimateArrival(6, frame, time.Minute); ok {
		t.Error("Expected no estimate while stopped")
	}
}
