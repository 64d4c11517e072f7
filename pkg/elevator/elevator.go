// Package elevator implements a frame-stepped elevator controller.
// 이 패키지는 프레임 단위로 진행되는 엘리베이터 제어기를 구현합니다.
// Motion and door timing advance only through Update; commands never fail.
package elevator

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"
)

// Config holds immutable configuration parameters.
// Config는 시스템 시작 시 설정되며, 런타임 중에 변경되지 않습니다.
type Config struct {
	ID           string
	Floors       int           // 층 수
	FloorHeight  float64       // 층 높이
	Speed        float64       // 주행 속도 (단위/초)
	DoorSpeed    float64       // 문 열림/닫힘 속도 (비율/초)
	DoorOpenTime time.Duration // 문 열림 유지 시간
	InitialFloor int           // 초기 층
	FloorNames   []string      // 표시용 층 이름
	EventBuffer  int           // 이벤트 채널 버퍼 크기
}

// DefaultConfig returns the building the simulator ships with.
func DefaultConfig() Config {
	return Config{
		ID:           "elevator",
		Floors:       8,
		FloorHeight:  3.0,
		Speed:        3.0,
		DoorSpeed:    0.5,
		DoorOpenTime: 5 * time.Second,
		InitialFloor: 1,
		FloorNames:   []string{"SU", "PR", "1", "2", "3", "4", "5", "6"},
		EventBuffer:  1000,
	}
}

// Validate checks the configuration for values the controller cannot run with.
func (c Config) Validate() error {
	if c.Floors < 1 || c.Floors > MaxFloors {
		return fmt.Errorf("invalid config: Floors (%d) must be in [1, %d]", c.Floors, MaxFloors)
	}
	if c.InitialFloor < 0 || c.InitialFloor >= c.Floors {
		return fmt.Errorf("invalid config: InitialFloor (%d) out of range [0, %d)", c.InitialFloor, c.Floors)
	}
	if c.FloorHeight <= 0 {
		return fmt.Errorf("invalid config: FloorHeight (%v) must be positive", c.FloorHeight)
	}
	if c.Speed <= 0 || c.DoorSpeed <= 0 {
		return fmt.Errorf("invalid config: Speed (%v) and DoorSpeed (%v) must be positive", c.Speed, c.DoorSpeed)
	}
	if c.DoorOpenTime < 0 {
		return fmt.Errorf("invalid config: DoorOpenTime (%v) is negative", c.DoorOpenTime)
	}
	if len(c.FloorNames) != 0 && len(c.FloorNames) < c.Floors {
		return fmt.Errorf("invalid config: %d floor names for %d floors", len(c.FloorNames), c.Floors)
	}
	return nil
}

// State is a copy of everything the controller tracks between frames.
// State는 프레임 사이에 유지되는 제어기 상태의 복사본입니다.
type State struct {
	Floor       int     // 정지 시 현재 층, 도착 순간에만 갱신
	Target      int     // 이동 목표 층 (없으면 NoFloor)
	FirstTarget int     // 이동 시작 시점의 목표 층
	Position    float64 // 연속 수직 좌표
	Moving      bool
	Stopped     bool // 비상 정지
	Door        DoorState
	Requests    FloorSet
	Ventilation bool
	VentActive  bool // 환기 표시등
}

// Elevator is the core controller. It is not safe for concurrent use: all
// commands and Update must come from one call site per frame.
type Elevator struct {
	Config Config

	st State

	// --- Observability ---
	logger            *slog.Logger
	eventCh           chan Event
	droppedEventCount uint64
}

// New initializes a new Elevator instance with strict validation.
// 잘못된 설정이 감지되면 즉시 에러를 반환합니다 (Fail Fast).
func New(config Config) (*Elevator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = 1000
	}

	e := &Elevator{
		Config:  config,
		eventCh: make(chan Event, config.EventBuffer),
		logger:  slog.Default().With("id", config.ID),
	}
	e.st = State{
		Floor:       config.InitialFloor,
		Target:      NoFloor,
		FirstTarget: NoFloor,
		Position:    e.FloorY(config.InitialFloor),
	}

	e.logger.Info("Elevator initialized",
		"floors", config.Floors,
		"init_floor", config.InitialFloor,
		"speed", config.Speed,
	)

	return e, nil
}

// --- Accessors ---

// FloorY returns the resting vertical coordinate of a floor.
func (e *Elevator) FloorY(floor int) float64 {
	return float64(floor) * e.Config.FloorHeight
}

// FloorName returns the display name of a floor.
func (e *Elevator) FloorName(floor int) string {
	if floor >= 0 && floor < len(e.Config.FloorNames) {
		return e.Config.FloorNames[floor]
	}
	return strconv.Itoa(floor)
}

// CurrentFloor returns the floor the cab last rested at.
// CurrentFloor는 현재 층을 반환합니다.
func (e *Elevator) CurrentFloor() int { return e.st.Floor }

// TargetFloor returns the floor being travelled to, if any.
func (e *Elevator) TargetFloor() (int, bool) {
	return e.st.Target, e.st.Target != NoFloor
}

// Position returns the continuous vertical coordinate of the cab.
func (e *Elevator) Position() float64 { return e.st.Position }

// Moving reports whether the cab is travelling a leg.
func (e *Elevator) Moving() bool { return e.st.Moving }

// Stopped reports whether the emergency stop is engaged.
func (e *Elevator) Stopped() bool { return e.st.Stopped }

// Door returns the door variant.
func (e *Elevator) Door() DoorState { return e.st.Door }

// DoorOpenAmount returns door openness in [0, 1].
func (e *Elevator) DoorOpenAmount() float64 { return e.st.Door.Amount }

// DoorOpen reports whether the door is commanded open or still holding.
func (e *Elevator) DoorOpen() bool { return e.st.Door.Open() }

// DoorsOpen reports whether the doorway is passable at all.
func (e *Elevator) DoorsOpen() bool { return e.st.Door.Amount > 0.01 }

// Requests returns the pending floor requests.
func (e *Elevator) Requests() FloorSet { return e.st.Requests }

// HasRequest reports whether floor is pending.
func (e *Elevator) HasRequest(floor int) bool { return e.st.Requests.Has(floor) }

// VentilationOn reports the ventilation switch.
func (e *Elevator) VentilationOn() bool { return e.st.Ventilation }

// VentilationActive reports the ventilation indicator used for HUD tint.
func (e *Elevator) VentilationActive() bool { return e.st.VentActive }

// IsAtFloor reports whether the cab rests at floor.
func (e *Elevator) IsAtFloor(floor int) bool {
	return !e.st.Moving && e.st.Floor == floor
}

// State returns a snapshot of the controller state.
// State는 제어기 상태의 스냅샷을 반환합니다.
func (e *Elevator) State() State { return e.st }

func (e *Elevator) validFloor(floor int) bool {
	return floor >= 0 && floor < e.Config.Floors
}

// --- Commands ---

// RequestFloor queues a visit to floor. Out-of-range floors and the floor the
// cab already rests at are ignored. An idle cab with shut doors departs at
// once; an idle cab with a door in any other phase closes it first.
func (e *Elevator) RequestFloor(floor int) {
	if !e.validFloor(floor) {
		e.logger.Debug("RequestFloor ignored: floor out of range", "floor", floor, "floors", e.Config.Floors)
		return
	}
	if floor == e.st.Floor && !e.st.Moving {
		return
	}

	if !e.st.Requests.Has(floor) {
		e.st.Requests = e.st.Requests.Add(floor)
		e.logger.Info("Floor request registered", "floor", floor, "name", e.FloorName(floor))
		e.publishEvent(EventRequestAdded, floor)
	}

	if e.st.Moving {
		return
	}

	if e.st.Door.Phase == DoorClosed {
		e.st.FirstTarget = floor
		e.depart(floor)
		if e.st.Ventilation {
			e.st.VentActive = true
		}
		return
	}

	// Doors open or still closing: close first, depart once shut.
	e.forceClose()
}

// CallToFloor summons the cab from a landing. If the cab already rests at
// floor it (re)opens the doors instead of queuing a move.
func (e *Elevator) CallToFloor(floor int) {
	if !e.validFloor(floor) {
		e.logger.Debug("CallToFloor ignored: floor out of range", "floor", floor)
		return
	}
	if e.st.Floor == floor && !e.st.Moving {
		if !e.st.Door.Open() {
			e.logger.Info("Hall call at current floor: opening doors", "floor", floor)
			e.setDoor(func(d *DoorState) { d.open(e.holdSeconds()) })
		}
		return
	}
	e.RequestFloor(floor)
}

// CloseDoors ends the open-hold early. No-op when already closing or shut.
// CloseDoors: 닫힘 버튼
func (e *Elevator) CloseDoors() {
	if !e.st.Door.Open() {
		return
	}
	e.logger.Info("Close button pressed: Closing immediately")
	e.setDoor(func(d *DoorState) { d.close() })
}

// OpenDoors reopens the doors with a full hold timer. Ignored while moving.
// OpenDoors: 열림 버튼 (이동 중에는 무시)
func (e *Elevator) OpenDoors() {
	if e.st.Moving {
		e.logger.Debug("Open button ignored: cab is moving")
		return
	}
	e.setDoor(func(d *DoorState) { d.open(e.holdSeconds()) })
}

// ToggleStop flips the emergency stop. While stopped the cab does not move,
// door animation and timers keep running.
func (e *Elevator) ToggleStop() {
	e.st.Stopped = !e.st.Stopped
	if e.st.Stopped {
		e.logger.Warn("Emergency Stop Activated", "position", e.st.Position)
	} else {
		e.logger.Info("Emergency Stop Released")
	}
	e.publishMode()
}

// ToggleVentilation flips ventilation. Switching it on while moving lights
// the indicator immediately; otherwise it lights on the next departure.
func (e *Elevator) ToggleVentilation() {
	e.st.Ventilation = !e.st.Ventilation
	if e.st.Ventilation && e.st.Moving {
		e.st.VentActive = true
	}
	e.logger.Info("Ventilation toggled", "on", e.st.Ventilation, "indicator", e.st.VentActive)
	e.publishMode()
}

func (e *Elevator) publishMode() {
	e.publishEvent(EventModeChange, ModeChangePayload{Stopped: e.st.Stopped, Ventilation: e.st.Ventilation})
}

func (e *Elevator) holdSeconds() float64 {
	return e.Config.DoorOpenTime.Seconds()
}

// forceClose starts closing whatever phase the door is in. A door still at
// the start of its opening travel goes straight to Closing, so departure
// always waits for a completed close.
func (e *Elevator) forceClose() {
	e.setDoor(func(d *DoorState) {
		if d.Open() {
			d.close()
		}
	})
}

func (e *Elevator) depart(floor int) {
	e.st.Target = floor
	e.st.Moving = true
	e.logger.Info("Departing", "from", e.st.Floor, "to", floor)
	e.publishEvent(EventDeparted, DepartedPayload{From: e.st.Floor, To: floor})
}

// --- Tick ---

// Update advances the simulation by dt. The door phase runs before the
// motion phase; they meet only where a finished close dispatches the lowest
// pending request.
// Update는 문 단계와 이동 단계를 순서대로 진행합니다.
func (e *Elevator) Update(dt time.Duration) {
	if dt <= 0 {
		return
	}
	seconds := dt.Seconds()
	e.updateDoor(seconds)
	e.updateMotion(seconds)
}

func (e *Elevator) updateDoor(seconds float64) {
	closed := false
	e.setDoor(func(d *DoorState) { closed = d.step(seconds, e.Config.DoorSpeed) })
	if !closed {
		return
	}

	e.st.Target = NoFloor
	next := e.st.Requests.Lowest()
	if next == NoFloor {
		e.logger.Debug("💤 Idle State (No calls)", "floor", e.st.Floor)
		return
	}
	e.depart(next)
}

func (e *Elevator) updateMotion(seconds float64) {
	if !e.st.Moving || e.st.Stopped {
		return
	}

	targetY := e.FloorY(e.st.Target)
	diff := targetY - e.st.Position
	step := e.Config.Speed * seconds

	if math.Abs(diff) <= step {
		e.arrive(targetY)
		return
	}
	if diff > 0 {
		e.st.Position += step
	} else {
		e.st.Position -= step
	}
}

// arrive snaps onto the target floor and opens the doors.
func (e *Elevator) arrive(targetY float64) {
	floor := e.st.Target
	e.st.Position = targetY
	e.st.Floor = floor
	e.st.Moving = false
	e.st.Requests = e.st.Requests.Remove(floor)

	if e.st.VentActive && floor == e.st.FirstTarget {
		e.st.VentActive = false
	}

	e.logger.Info("Arrived at floor", "floor", floor, "name", e.FloorName(floor))
	e.publishEvent(EventArrived, ArrivedPayload{Floor: floor, Name: e.FloorName(floor)})
	e.setDoor(func(d *DoorState) { d.open(e.holdSeconds()) })
}
