package sim

import (
	"time"

	"go-elevator-3d/pkg/elevator"
	"go-elevator-3d/pkg/panel"
)

// ButtonView is a button as a front-end draws it.
type ButtonView struct {
	ID     int     `json:"id"`
	Kind   string  `json:"kind"`
	Label  string  `json:"label"`
	Floor  int     `json:"floor"`
	Active bool    `json:"active"`
	Aimed  bool    `json:"aimed"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
}

// Snapshot is a serialisable view of one frame.
type Snapshot struct {
	Floors            int                `json:"floors"`
	Floor             int                `json:"floor"`
	FloorName         string             `json:"floorName"`
	Target            int                `json:"target"`
	Position          float64            `json:"position"`
	Moving            bool               `json:"moving"`
	Stopped           bool               `json:"stopped"`
	Door              elevator.DoorPhase `json:"door"`
	DoorOpenAmount    float64            `json:"doorOpenAmount"`
	Requests          []int              `json:"requests"`
	Ventilation       bool               `json:"ventilation"`
	VentilationActive bool               `json:"ventilationActive"`
	InCab             bool               `json:"inCab"`
	OccupantFloor     int                `json:"occupantFloor"`
	Aimed             int                `json:"aimed"`
	ETASeconds        float64            `json:"etaSeconds"` // -1 without a destination
	Buttons           []ButtonView       `json:"buttons"`
}

// Snapshot captures the current frame.
func (s *Simulation) Snapshot() Snapshot {
	e := s.elev
	target, _ := e.TargetFloor()

	snap := Snapshot{
		Floors:            e.Config.Floors,
		Floor:             e.CurrentFloor(),
		FloorName:         e.FloorName(e.CurrentFloor()),
		Target:            target,
		Position:          e.Position(),
		Moving:            e.Moving(),
		Stopped:           e.Stopped(),
		Door:              e.Door().Phase,
		DoorOpenAmount:    e.DoorOpenAmount(),
		Requests:          e.Requests().Floors(),
		Ventilation:       e.VentilationOn(),
		VentilationActive: e.VentilationActive(),
		InCab:             s.inCab,
		OccupantFloor:     s.Floor(),
		Aimed:             int(s.aimed),
		ETASeconds:        -1,
	}
	if eta, ok := s.ETA(); ok {
		snap.ETASeconds = eta.Seconds()
	}

	for i, b := range s.panel.Buttons() {
		id := panel.ButtonID(i)
		snap.Buttons = append(snap.Buttons, ButtonView{
			ID:     i,
			Kind:   b.Kind.String(),
			Label:  s.ButtonLabel(id),
			Floor:  b.Floor,
			Active: b.Active,
			Aimed:  id == s.aimed,
			Y:      b.Center.Y(),
			Z:      b.Center.Z(),
		})
	}
	return snap
}

// Destination is the floor the HUD counts down to: the current leg's target,
// else the lowest pending request.
func (s *Simulation) Destination() (int, bool) {
	if target, ok := s.elev.TargetFloor(); ok {
		return target, true
	}
	if f := s.elev.Requests().Lowest(); f != elevator.NoFloor {
		return f, true
	}
	return elevator.NoFloor, false
}

// ETA estimates the time until the cab rests at Destination.
func (s *Simulation) ETA() (d time.Duration, ok bool) {
	floor, ok := s.Destination()
	if !ok {
		return 0, false
	}
	return s.elev.EstimateArrival(floor, s.cfg.ETAStep, s.cfg.ETALimit)
}
