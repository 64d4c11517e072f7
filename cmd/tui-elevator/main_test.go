package main

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"go-elevator-3d/pkg/elevator"
	"go-elevator-3d/pkg/panel"
	"go-elevator-3d/pkg/sim"
)

func newTestApp(t *testing.T) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(120, 40)

	s, err := sim.New(sim.DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create simulation: %v", err)
	}
	return NewApp(screen, s, 4), screen
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func screenText(screen tcell.SimulationScreen) string {
	w, h := screen.Size()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			sb.WriteRune(r)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestHandleKey_Quit(t *testing.T) {
	a, _ := newTestApp(t)

	if a.handleKey(key('q')) {
		t.Error("Expected q to quit")
	}
	if a.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("Expected Esc to quit")
	}
	if !a.handleKey(key('x')) {
		t.Error("Expected unbound keys to be ignored")
	}
}

func TestHandleKey_Commands(t *testing.T) {
	a, _ := newTestApp(t)
	e := a.sim.Elevator()

	a.handleKey(key('5'))
	if target, ok := e.TargetFloor(); !ok || target != 5 {
		t.Errorf("Expected departure to 5, got %d/%v", target, ok)
	}
	a.handleKey(key('s'))
	a.handleKey(key('v'))
	if !e.Stopped() || !e.VentilationOn() {
		t.Error("Expected stop and ventilation toggled")
	}
}

func TestHandleKey_RideWithPanel(t *testing.T) {
	a, _ := newTestApp(t)
	e := a.sim.Elevator()

	a.handleKey(key('h'))
	for i := 0; i < 128; i++ {
		a.sim.Step(time.Second / 64)
	}
	a.handleKey(key('b'))
	if !a.sim.InCab() {
		t.Fatalf("Expected to board, status %q", a.status)
	}

	// Cursor starts on button 0; move to floor 6 (index 6).
	a.handleKey(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	a.handleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	a.handleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	if a.cursor != 6 || a.sim.Aimed() != 6 {
		t.Fatalf("Expected cursor and crosshair on 6, got %d/%d", a.cursor, a.sim.Aimed())
	}

	a.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if !e.HasRequest(6) {
		t.Errorf("Expected floor 6 requested, status %q", a.status)
	}
	if a.status != "Pressed 5" {
		t.Errorf("Expected status for the 5 button, got %q", a.status)
	}
}

func TestMoveCursor_Clamps(t *testing.T) {
	a, _ := newTestApp(t)

	a.moveCursor(-1)
	if a.cursor != 0 {
		t.Errorf("Expected cursor to stay at 0, got %d", a.cursor)
	}
	last := a.sim.Panel().Len() - 1
	a.cursor = panel.ButtonID(last)
	a.moveCursor(4)
	if int(a.cursor) != last {
		t.Errorf("Expected cursor to stay at %d, got %d", last, a.cursor)
	}
}

func TestLogEvent_KeepsRecent(t *testing.T) {
	a, _ := newTestApp(t)
	for i := 0; i < maxLogLines+3; i++ {
		a.logEvent(elevator.Event{Type: elevator.EventArrived, Payload: i, Timestamp: time.Now()})
	}
	if len(a.log) != maxLogLines {
		t.Fatalf("Expected %d lines, got %d", maxLogLines, len(a.log))
	}
	if !strings.HasSuffix(a.log[len(a.log)-1], " 8") {
		t.Errorf("Expected newest event last, got %q", a.log[len(a.log)-1])
	}
}

func TestDraw(t *testing.T) {
	a, screen := newTestApp(t)
	a.draw()

	text := screenText(screen)
	for _, want := range []string{"PANEL", "Floor PR", "Door Closed", "CLOSE", "VENT", "landing PR"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q on screen", want)
		}
	}
}
