// Package panel models the cab's button panel: a fixed set of oriented
// rectangles that ride with the cab, hit-tested against a view ray.
// 패널 버튼은 엘리베이터와 함께 움직이며, 시선 광선으로 선택됩니다.
package panel

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind is what a button does when pressed.
type Kind int

const (
	FloorCall Kind = iota
	CloseDoors
	OpenDoors
	EmergencyStop
	Ventilation
)

func (k Kind) String() string {
	return [...]string{"FloorCall", "CloseDoors", "OpenDoors", "EmergencyStop", "Ventilation"}[k]
}

// ButtonID indexes the panel's button list.
type ButtonID int

// NoButton is returned when a ray hits nothing.
const NoButton ButtonID = -1

// Button is one hit target. Active is the illumination state, rewritten from
// controller state on every refresh.
type Button struct {
	Kind       Kind
	Floor      int // only for FloorCall, otherwise -1
	Center     mgl64.Vec3
	Normal     mgl64.Vec3
	HalfWidth  float64
	HalfHeight float64
	Active     bool
}

// Layout places the panel inside the cab. Offsets are relative to the cab
// floor at the shaft centre; the panel wall is the plane x = WallX.
type Layout struct {
	Columns    int
	Rows       int
	ButtonSize float64
	Spacing    float64
	WallX      float64
	CenterY    float64
	CenterZ    float64
	Shaft      mgl64.Vec3 // shaft centre; Y is ignored
}

// DefaultLayout is the 4x2 floor grid with the control row beneath it, on
// the right-hand wall of a 2.8 wide cab.
func DefaultLayout() Layout {
	return Layout{
		Columns:    4,
		Rows:       2,
		ButtonSize: 0.12,
		Spacing:    0.025,
		WallX:      2.8/2 - 0.12,
		CenterY:    2.8 * 0.55,
		CenterZ:    0,
		Shaft:      mgl64.Vec3{0, 0, -10 + 0.15 + 1.5},
	}
}

// FloorButtons is the number of floor-call buttons the layout produces.
func (l Layout) FloorButtons() int {
	return l.Columns * l.Rows
}

// facing is the panel normal: into the cab interior.
var facing = mgl64.Vec3{-1, 0, 0}

var worldUp = mgl64.Vec3{0, 1, 0}

// Panel is the fixed button set plus the cab-local offsets it was built from.
type Panel struct {
	layout  Layout
	buttons []Button
	offsets []mgl64.Vec3
}

// New builds the button set once. Floor buttons come first, row-major from the
// top left, followed by close, open, stop and ventilation.
func New(layout Layout) *Panel {
	p := &Panel{layout: layout}

	pitch := layout.ButtonSize + layout.Spacing
	totalW := float64(layout.Columns)*layout.ButtonSize + float64(layout.Columns-1)*layout.Spacing
	totalH := float64(layout.Rows)*layout.ButtonSize + float64(layout.Rows-1)*layout.Spacing

	startY := layout.CenterY + totalH/2 - layout.ButtonSize/2
	startZ := layout.CenterZ - totalW/2 + layout.ButtonSize/2

	for row := 0; row < layout.Rows; row++ {
		for col := 0; col < layout.Columns; col++ {
			p.add(FloorCall, row*layout.Columns+col, mgl64.Vec3{
				layout.WallX,
				startY - float64(row)*pitch,
				startZ + float64(col)*pitch,
			})
		}
	}

	controlY := startY - float64(layout.Rows)*pitch - layout.Spacing
	for i, kind := range []Kind{CloseDoors, OpenDoors, EmergencyStop, Ventilation} {
		p.add(kind, -1, mgl64.Vec3{layout.WallX, controlY, startZ + float64(i)*pitch})
	}

	p.RefreshPositions(0)
	return p
}

func (p *Panel) add(kind Kind, floor int, offset mgl64.Vec3) {
	half := p.layout.ButtonSize / 2
	p.buttons = append(p.buttons, Button{
		Kind:       kind,
		Floor:      floor,
		Normal:     facing,
		HalfWidth:  half,
		HalfHeight: half,
	})
	p.offsets = append(p.offsets, offset)
}

// RefreshPositions moves every button with the cab. Call it after each
// controller update and before any raycast or draw.
func (p *Panel) RefreshPositions(cabY float64) {
	for i, off := range p.offsets {
		p.buttons[i].Center = mgl64.Vec3{
			p.layout.Shaft.X() + off.X(),
			cabY + off.Y(),
			p.layout.Shaft.Z() + off.Z(),
		}
	}
}

// Len returns the number of buttons.
func (p *Panel) Len() int { return len(p.buttons) }

// Button returns the button with the given id.
func (p *Panel) Button(id ButtonID) (Button, bool) {
	if id < 0 || int(id) >= len(p.buttons) {
		return Button{}, false
	}
	return p.buttons[id], true
}

// Buttons returns a copy of the button list.
func (p *Panel) Buttons() []Button {
	out := make([]Button, len(p.buttons))
	copy(out, p.buttons)
	return out
}

// Find returns the first button of the given kind (and floor, for floor calls).
func (p *Panel) Find(kind Kind, floor int) ButtonID {
	for i, b := range p.buttons {
		if b.Kind == kind && (kind != FloorCall || b.Floor == floor) {
			return ButtonID(i)
		}
	}
	return NoButton
}

// Raycast returns the nearest button whose rectangle the ray crosses within
// maxDist, or NoButton. On equal distances the earlier button wins.
func (p *Panel) Raycast(origin, dir mgl64.Vec3, maxDist float64) ButtonID {
	closest := NoButton
	closestT := maxDist

	for i := range p.buttons {
		b := &p.buttons[i]

		denom := b.Normal.Dot(dir)
		if math.Abs(denom) < 1e-4 {
			continue // parallel to the button plane
		}

		t := b.Center.Sub(origin).Dot(b.Normal) / denom
		if t < 0 || t > closestT {
			continue
		}

		diff := origin.Add(dir.Mul(t)).Sub(b.Center)

		right := b.Normal.Cross(worldUp).Normalize()
		up := right.Cross(b.Normal).Normalize()

		if math.Abs(diff.Dot(right)) <= b.HalfWidth && math.Abs(diff.Dot(up)) <= b.HalfHeight {
			if t < closestT || closest == NoButton {
				closest = ButtonID(i)
				closestT = t
			}
		}
	}

	return closest
}
