// Package sim wires one elevator controller, its button panel and a single
// occupant into a frame-stepped simulation.
// 이 패키지는 제어기, 버튼 패널, 탑승자를 하나의 시뮬레이션으로 묶습니다.
package sim

import (
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"go-elevator-3d/pkg/elevator"
	"go-elevator-3d/pkg/panel"
)

// cabHalfDepth is half the cab depth; the landing eye stands just past it.
const cabHalfDepth = 1.4

// Config holds everything needed to build a Simulation.
type Config struct {
	Elevator     elevator.Config
	Panel        panel.Layout
	PlayerHeight float64 // eye height above the floor
	Reach        float64 // raycast distance for the panel
	Aim          Aim
	ETAStep      time.Duration
	ETALimit     time.Duration
}

// DefaultConfig returns the simulator defaults.
func DefaultConfig() Config {
	return Config{
		Elevator:     elevator.DefaultConfig(),
		Panel:        panel.DefaultLayout(),
		PlayerHeight: 1.7,
		Reach:        3.0,
		ETAStep:      50 * time.Millisecond,
		ETALimit:     2 * time.Minute,
	}
}

// Simulation is one independent building session. Like the controller it
// owns, it expects all calls from a single goroutine.
type Simulation struct {
	cfg    Config
	elev   *elevator.Elevator
	panel  *panel.Panel
	logger *slog.Logger

	aim   Aim
	aimed panel.ButtonID
	inCab bool
	floor int // occupant's landing when outside the cab
}

// New builds the controller and panel and places the occupant on the
// landing of the cab's initial floor.
func New(cfg Config) (*Simulation, error) {
	e, err := elevator.New(cfg.Elevator)
	if err != nil {
		return nil, err
	}
	if cfg.Reach <= 0 {
		cfg.Reach = 3.0
	}

	s := &Simulation{
		cfg:    cfg,
		elev:   e,
		panel:  panel.New(cfg.Panel),
		logger: slog.Default().With("id", cfg.Elevator.ID),
		aim:    cfg.Aim.Turn(0, 0),
		aimed:  panel.NoButton,
		floor:  cfg.Elevator.InitialFloor,
	}
	s.sync()
	return s, nil
}

// Elevator exposes the controller for read access and direct commands.
func (s *Simulation) Elevator() *elevator.Elevator { return s.elev }

// Panel exposes the button panel.
func (s *Simulation) Panel() *panel.Panel { return s.panel }

// Step runs one frame: controller update, then panel positions and
// illumination, then the aimed button.
func (s *Simulation) Step(dt time.Duration) {
	s.elev.Update(dt)
	s.sync()
}

func (s *Simulation) sync() {
	s.panel.RefreshPositions(s.elev.Position())
	s.panel.RefreshIllumination(s.elev)
	s.aimed = s.raycast()
}

func (s *Simulation) raycast() panel.ButtonID {
	if !s.inCab {
		return panel.NoButton
	}
	return s.panel.Raycast(s.Eye(), s.aim.Front(), s.cfg.Reach)
}

// --- Occupant ---

// InCab reports whether the occupant rides the cab.
func (s *Simulation) InCab() bool { return s.inCab }

// Floor returns the occupant's floor: the cab floor while riding.
func (s *Simulation) Floor() int {
	if s.inCab {
		return s.elev.CurrentFloor()
	}
	return s.floor
}

// Eye returns the occupant's eye position. Inside the cab it follows the
// cab; outside it stands on the landing in front of the doors.
func (s *Simulation) Eye() mgl64.Vec3 {
	shaft := s.cfg.Panel.Shaft
	if s.inCab {
		return mgl64.Vec3{shaft.X(), s.elev.Position() + s.cfg.PlayerHeight, shaft.Z()}
	}
	return mgl64.Vec3{shaft.X(), s.elev.FloorY(s.floor) + s.cfg.PlayerHeight, shaft.Z() + cabHalfDepth + 0.3}
}

// Aim returns the current view direction.
func (s *Simulation) Aim() Aim { return s.aim }

// SetAim replaces the view direction.
func (s *Simulation) SetAim(a Aim) {
	s.aim = a.Turn(0, 0)
	s.aimed = s.raycast()
}

// Look turns the view by a delta in degrees.
func (s *Simulation) Look(dyaw, dpitch float64) {
	s.SetAim(s.aim.Turn(dyaw, dpitch))
}

// AimAtButton points the view at the centre of a button.
func (s *Simulation) AimAtButton(id panel.ButtonID) bool {
	b, ok := s.panel.Button(id)
	if !ok {
		return false
	}
	s.SetAim(AimFrom(s.Eye(), b.Center))
	return true
}

// Aimed returns the button under the crosshair, for highlighting.
func (s *Simulation) Aimed() panel.ButtonID { return s.aimed }

// Board steps into the cab. Only possible when the cab rests at the
// occupant's landing with its doors open.
func (s *Simulation) Board() bool {
	if s.inCab || !s.elev.DoorsOpen() || !s.elev.IsAtFloor(s.floor) {
		return false
	}
	s.inCab = true
	s.aimed = s.raycast()
	s.logger.Info("Occupant boarded", "floor", s.floor)
	return true
}

// Alight steps out onto the landing the cab is at. Only possible with the
// doors open.
func (s *Simulation) Alight() bool {
	if !s.inCab || !s.elev.DoorsOpen() {
		return false
	}
	s.inCab = false
	s.floor = s.elev.CurrentFloor()
	s.aimed = panel.NoButton
	s.logger.Info("Occupant alighted", "floor", s.floor)
	return true
}

// Interact presses the aimed button. It does nothing outside the cab and
// returns the button pressed, or NoButton.
func (s *Simulation) Interact() panel.ButtonID {
	if !s.inCab {
		return panel.NoButton
	}
	id := s.raycast()
	if !s.panel.Dispatch(id, s.elev) {
		return panel.NoButton
	}
	b, _ := s.panel.Button(id)
	s.logger.Debug("Button pressed", "button", id, "kind", b.Kind, "floor", b.Floor)
	s.panel.RefreshIllumination(s.elev)
	return id
}

// Call summons the cab to the occupant's landing. Only from outside.
func (s *Simulation) Call() bool {
	if s.inCab {
		return false
	}
	s.elev.CallToFloor(s.floor)
	s.panel.RefreshIllumination(s.elev)
	return true
}

// ButtonLabel returns the caption printed on a button.
func (s *Simulation) ButtonLabel(id panel.ButtonID) string {
	b, ok := s.panel.Button(id)
	if !ok {
		return ""
	}
	switch b.Kind {
	case panel.FloorCall:
		return s.elev.FloorName(b.Floor)
	case panel.CloseDoors:
		return "CLOSE"
	case panel.OpenDoors:
		return "OPEN"
	case panel.EmergencyStop:
		return "STOP"
	case panel.Ventilation:
		return "VENT"
	}
	return "?"
}
