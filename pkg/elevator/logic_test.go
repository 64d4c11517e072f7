package elevator

import (
	"reflect"
	"testing"
)

func TestFloorSet_AddRemove(t *testing.T) {
	var s FloorSet
	s = s.Add(3).Add(0).Add(3)

	if !s.Has(0) || !s.Has(3) {
		t.Errorf("Expected floors 0 and 3 pending, got %v", s)
	}
	if s.Len() != 2 {
		t.Errorf("Expected 2 pending floors, got %d", s.Len())
	}

	s = s.Remove(0)
	if s.Has(0) {
		t.Errorf("Floor 0 still pending after Remove: %v", s)
	}

	// Out of range is ignored both ways
	if got := s.Add(-1).Add(MaxFloors); got != s {
		t.Errorf("Expected out-of-range Add to be a no-op, got %v", got)
	}
	if s.Has(-1) || s.Has(MaxFloors) {
		t.Error("Expected out-of-range Has to be false")
	}
}

func TestFloorSet_LowestAndFloors(t *testing.T) {
	var empty FloorSet
	if empty.Lowest() != NoFloor {
		t.Errorf("Expected NoFloor for empty set, got %d", empty.Lowest())
	}

	s := FloorSet(0).Add(6).Add(2).Add(63)
	if s.Lowest() != 2 {
		t.Errorf("Expected lowest 2, got %d", s.Lowest())
	}
	if want := []int{2, 6, 63}; !reflect.DeepEqual(s.Floors(), want) {
		t.Errorf("Expected %v, got %v", want, s.Floors())
	}
	if s.String() != "{2 6 63}" {
		t.Errorf("Unexpected String(): %q", s.String())
	}
}

func TestDoorState_OpenHoldClose(t *testing.T) {
	d := DoorState{}
	d.open(1.0)
	if d.Phase != DoorOpening || !d.Open() {
		t.Fatalf("Expected Opening, got %v", d.Phase)
	}

	// Speed 1/s, hold 1s: half way after 0.5s
	if closed := d.step(0.5, 1.0); closed {
		t.Error("Door reported closed while opening")
	}
	if d.Amount != 0.5 || d.Phase != DoorOpening {
		t.Errorf("Expected half open Opening, got %+v", d)
	}

	d.step(0.5, 1.0)
	// Amount hit 1 and the hold expired in the same step: closing begins.
	if d.Amount != 1 || d.Phase != DoorClosing {
		t.Errorf("Expected fully open and Closing, got %+v", d)
	}

	if closed := d.step(0.5, 1.0); closed {
		t.Error("Door reported closed half way")
	}
	if closed := d.step(0.75, 1.0); !closed {
		t.Errorf("Expected door to finish closing, got %+v", d)
	}
	if d.Phase != DoorClosed || d.Amount != 0 {
		t.Errorf("Expected Closed at 0, got %+v", d)
	}
}

func TestDoorState_CloseIgnoredWhenNotOpen(t *testing.T) {
	d := DoorState{}
	d.close()
	if d.Phase != DoorClosed {
		t.Errorf("Expected closed door to stay Closed, got %v", d.Phase)
	}

	d = DoorState{Phase: DoorClosing, Amount: 0.4}
	d.close()
	if d.Phase != DoorClosing || d.Amount != 0.4 {
		t.Errorf("Expected Closing door untouched, got %+v", d)
	}
}

func TestDoorState_ReopenWhileClosing(t *testing.T) {
	d := DoorState{Phase: DoorClosing, Amount: 0.4}
	d.open(5)
	if d.Phase != DoorOpening || d.Amount != 0.4 || d.Hold != 5 {
		t.Errorf("Expected reopen from 0.4 with full hold, got %+v", d)
	}

	d = DoorState{Phase: DoorHolding, Amount: 1, Hold: 1}
	d.open(5)
	if d.Phase != DoorHolding || d.Hold != 5 {
		t.Errorf("Expected hold timer reset, got %+v", d)
	}
}

func TestDoorState_StepLargeDeltaClamps(t *testing.T) {
	d := DoorState{}
	d.open(100)
	d.step(60, 0.5)
	if d.Amount != 1 {
		t.Errorf("Expected amount clamped to 1, got %v", d.Amount)
	}

	d.close()
	d.step(60, 0.5)
	if d.Amount != 0 || d.Phase != DoorClosed {
		t.Errorf("Expected amount clamped to 0 and Closed, got %+v", d)
	}
}
