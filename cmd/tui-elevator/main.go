package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"go-elevator-3d/pkg/config"
	"go-elevator-3d/pkg/elevator"
	"go-elevator-3d/pkg/panel"
	"go-elevator-3d/pkg/sim"
)

const maxLogLines = 6

// App drives one simulation from the terminal. Everything runs on the
// goroutine that calls run.
type App struct {
	screen  tcell.Screen
	sim     *sim.Simulation
	columns int

	cursor panel.ButtonID
	status string
	log    []string
}

func NewApp(screen tcell.Screen, s *sim.Simulation, columns int) *App {
	a := &App{
		screen:  screen,
		sim:     s,
		columns: max(columns, 1),
		cursor:  0,
		status:  "Press h to call the cab",
	}
	s.AimAtButton(a.cursor)
	return a
}

func (a *App) run(frame time.Duration) {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil { // screen finalized
				return
			}
			eventChan <- ev
		}
	}()

	elevatorEvents := a.sim.Elevator().Events()
	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !a.handleEvent(ev) {
				return
			}
			a.draw()

		case event := <-elevatorEvents:
			a.logEvent(event)

		case now := <-ticker.C:
			a.sim.Step(now.Sub(last))
			last = now
			a.draw()
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

// handleKey applies one key press. It returns false to quit.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	e := a.sim.Elevator()

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		a.moveCursor(-1)
	case tcell.KeyRight:
		a.moveCursor(1)
	case tcell.KeyUp:
		a.moveCursor(-a.columns)
	case tcell.KeyDown:
		a.moveCursor(a.columns)
	case tcell.KeyEnter:
		a.press()
	case tcell.KeyRune:
		r := ev.Rune()
		switch {
		case r == 'q':
			return false
		case r >= '0' && r <= '9':
			e.RequestFloor(int(r - '0'))
		case r == ' ':
			a.press()
		case r == 'c':
			e.CloseDoors()
		case r == 'o':
			e.OpenDoors()
		case r == 's':
			e.ToggleStop()
		case r == 'v':
			e.ToggleVentilation()
		case r == 'h':
			if a.sim.Call() {
				a.status = "Called the cab to " + e.FloorName(a.sim.Floor())
			} else {
				a.status = "Hall call is only possible from a landing"
			}
		case r == 'b':
			if a.sim.Board() {
				a.sim.AimAtButton(a.cursor)
				a.status = "Boarded"
			} else {
				a.status = "The doors are not open here"
			}
		case r == 'a':
			if a.sim.Alight() {
				a.status = "Stepped out at " + e.FloorName(a.sim.Floor())
			} else {
				a.status = "Wait for the doors to open"
			}
		}
	}

	a.sim.Step(0)
	return true
}

func (a *App) moveCursor(delta int) {
	next := int(a.cursor) + delta
	if next < 0 || next >= a.sim.Panel().Len() {
		return
	}
	a.cursor = panel.ButtonID(next)
	a.sim.AimAtButton(a.cursor)
}

func (a *App) press() {
	id := a.sim.Interact()
	if id == panel.NoButton {
		a.status = "Nothing to press"
		return
	}
	a.status = "Pressed " + a.sim.ButtonLabel(id)
}

func (a *App) logEvent(ev elevator.Event) {
	line := fmt.Sprintf("%s %-12s %v", ev.Timestamp.Format("15:04:05"), ev.Type, ev.Payload)
	a.log = append(a.log, line)
	if len(a.log) > maxLogLines {
		a.log = a.log[len(a.log)-maxLogLines:]
	}
}

func setupLogging(cfg config.Config) (func(), error) {
	if cfg.Log.File == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return func() {}, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return func() { _ = f.Close() }, nil
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (overrides "+config.EnvConfigPath+")")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	closeLog, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	simulation, err := sim.New(cfg.Simulation("tui"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize simulation: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	NewApp(screen, simulation, cfg.Panel.Columns).run(cfg.FrameInterval())
}
