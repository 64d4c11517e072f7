package main

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"flag"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"go-elevator-3d/pkg/config"
	"go-elevator-3d/pkg/elevator"
	"go-elevator-3d/pkg/panel"
	"go-elevator-3d/pkg/sim"
)

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Message types
// 메시지 타입 정의
type ClientMessage struct {
	Action string  `json:"action"`
	Floor  int     `json:"floor"`
	Button int     `json:"button"`
	Yaw    float64 `json:"yaw"`
	Pitch  float64 `json:"pitch"`
}

type StateMessage struct {
	Type string `json:"type"`
	sim.Snapshot
}

type EventMessage struct {
	Type      string `json:"type"`
	EventType string `json:"eventType"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
}

var sessionSeq atomic.Uint64

// ElevatorSession manages a WebSocket connection with its own simulation.
// ElevatorSession은 하나의 시뮬레이션과 WebSocket 연결을 관리합니다.
type ElevatorSession struct {
	conn   *websocket.Conn
	cfg    config.Config
	id     string
	logger *slog.Logger

	mu        sync.Mutex // guards sim and lastState
	sim       *sim.Simulation
	lastState []byte

	writeMu sync.Mutex
	done    chan struct{}
	cancel  context.CancelFunc
}

func NewElevatorSession(conn *websocket.Conn, cfg config.Config) *ElevatorSession {
	id := "session-" + strconv.FormatUint(sessionSeq.Add(1), 10)
	return &ElevatorSession{
		conn:   conn,
		cfg:    cfg,
		id:     id,
		logger: slog.Default().With("session", id, "remote_addr", conn.RemoteAddr()),
		done:   make(chan struct{}),
	}
}

func (s *ElevatorSession) HandleMessages() {
	s.logger.Info("Session started")
	defer func() {
		close(s.done)
		s.mu.Lock()
		if s.cancel != nil {
			s.cancel()
		}
		s.mu.Unlock()
		_ = s.conn.Close()
		s.logger.Info("Session ended")
	}()

	s.mu.Lock()
	err := s.start()
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("Failed to initialize simulation", "error", err)
		return
	}

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Error("WebSocket read error", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			s.logger.Warn("Failed to parse message", "error", err)
			continue
		}

		s.handleAction(msg)
	}
}

// start builds a fresh simulation and its frame and event goroutines,
// replacing any previous ones. Callers hold mu.
func (s *ElevatorSession) start() error {
	simulation, err := sim.New(s.cfg.Simulation(s.id))
	if err != nil {
		return err
	}
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.sim = simulation
	s.lastState = nil

	// Subscribe to events
	// 이벤트 구독
	go s.eventListener(ctx, simulation.Elevator().Events())
	go s.run(ctx)

	s.logger.Info("Simulation initialized",
		"floors", s.cfg.Building.Floors,
		"initial_floor", s.cfg.Building.InitialFloor,
		"fps", s.cfg.Server.FrameRate,
	)
	return nil
}

// run steps the simulation by real elapsed time once per frame and pushes
// state whenever it changed.
func (s *ElevatorSession) run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.FrameInterval())
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now

			s.mu.Lock()
			if ctx.Err() != nil { // replaced by reset
				s.mu.Unlock()
				return
			}
			s.sim.Step(dt)
			s.sendState(false)
			s.mu.Unlock()
		}
	}
}

func (s *ElevatorSession) handleAction(msg ClientMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("Action received", "action", msg.Action, "payload", msg)

	e := s.sim.Elevator()
	switch msg.Action {
	case "requestFloor":
		e.RequestFloor(msg.Floor)
	case "callToFloor":
		e.CallToFloor(msg.Floor)
	case "closeDoors":
		e.CloseDoors()
	case "openDoors":
		e.OpenDoors()
	case "toggleStop":
		e.ToggleStop()
	case "toggleVentilation":
		e.ToggleVentilation()
	case "aim":
		s.sim.SetAim(sim.Aim{Yaw: msg.Yaw, Pitch: msg.Pitch})
	case "look":
		s.sim.Look(msg.Yaw, msg.Pitch)
	case "aimButton":
		s.sim.AimAtButton(panel.ButtonID(msg.Button))
	case "interact":
		if id := s.sim.Interact(); id != panel.NoButton {
			s.logger.Info("Panel button pressed", "button", s.sim.ButtonLabel(id))
		}
	case "call":
		s.sim.Call()
	case "board":
		if !s.sim.Board() {
			s.logger.Debug("Board refused", "floor", s.sim.Floor())
		}
	case "alight":
		if !s.sim.Alight() {
			s.logger.Debug("Alight refused: doors closed")
		}
	case "reset":
		if err := s.start(); err != nil {
			s.logger.Error("Failed to reset simulation", "error", err)
		}
	case "getState":
		s.sendState(true)
		return
	default:
		s.logger.Warn("Unknown action", "action", msg.Action)
		return
	}

	// Commands bypass Step; resync panel and crosshair before reporting.
	s.sim.Step(0)
	s.sendState(false)
}

func (s *ElevatorSession) eventListener(ctx context.Context, eventCh <-chan elevator.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			s.sendEvent(event)
		}
	}
}

// sendState writes a state message when it differs from the last one sent,
// or always when force is set. Callers hold mu.
func (s *ElevatorSession) sendState(force bool) {
	msg := StateMessage{Type: "state", Snapshot: s.sim.Snapshot()}
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Failed to encode state", "error", err)
		return
	}
	if !force && bytes.Equal(data, s.lastState) {
		return
	}
	s.lastState = data
	s.write(data)
}

func (s *ElevatorSession) sendEvent(event elevator.Event) {
	msg := EventMessage{
		Type:      "event",
		EventType: string(event.Type),
		Payload:   event.Payload,
		Timestamp: event.Timestamp.Format("15:04:05"),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Failed to encode event", "error", err)
		return
	}
	s.write(data)
}

func (s *ElevatorSession) write(data []byte) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Error("Failed to write message", "error", err)
	}
}

func handleWebSocket(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("WebSocket upgrade failed", "error", err)
			return
		}

		session := NewElevatorSession(conn, cfg)
		session.HandleMessages()
	}
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (overrides "+config.EnvConfigPath+")")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	// Serve static files from embedded filesystem
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal(err)
	}

	http.Handle("/", http.FileServer(http.FS(staticFS)))
	http.HandleFunc("/ws", handleWebSocket(cfg))

	addr := ":" + cfg.Server.Port
	slog.Info("Starting elevator web server", "addr", addr, "floors", cfg.Building.Floors)
	slog.Info("Open http://localhost:" + cfg.Server.Port + " in your browser")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}
