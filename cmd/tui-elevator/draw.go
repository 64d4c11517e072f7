package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"go-elevator-3d/pkg/panel"
)

const (
	rowsPerFloor = 2
	shaftX       = 2
	shaftWidth   = 12
	panelX       = 24
	cellWidth    = 7
)

var (
	styleFrame  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCab    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleStop   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed)
	styleVent   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(127, 211, 255))
	styleLit    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleButton = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.NewRGBColor(60, 60, 60))
)

func (a *App) draw() {
	a.screen.Clear()
	a.drawShaft()
	bottom := a.drawPanel()
	a.drawHUD(bottom + 1)
	a.screen.Show()
}

func (a *App) drawText(x, y int, style tcell.Style, text string) {
	for _, r := range text {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// drawShaft renders the floors top-down with the cab at its interpolated
// height and the door gap proportional to the open amount.
func (a *App) drawShaft() {
	e := a.sim.Elevator()
	floors := e.Config.Floors
	top := 1

	for f := 0; f < floors; f++ {
		y := top + (floors-1-f)*rowsPerFloor
		style := styleDim
		if f == a.sim.Floor() && !a.sim.InCab() {
			style = styleText
		}
		a.drawText(0, y+1, style, fmt.Sprintf("%2s", e.FloorName(f)))
		a.drawText(shaftX+1, y+rowsPerFloor, styleFrame, strings.Repeat("─", shaftWidth))
	}
	for y := top; y <= top+floors*rowsPerFloor; y++ {
		a.screen.SetContent(shaftX, y, '│', nil, styleFrame)
		a.screen.SetContent(shaftX+shaftWidth+1, y, '│', nil, styleFrame)
	}

	level := e.Position() / e.Config.FloorHeight
	cabY := top + int(math.Round((float64(floors-1)-level)*rowsPerFloor)) + 1

	style := styleCab
	if e.Stopped() {
		style = styleStop
	}
	inner := shaftWidth - 2
	gap := int(math.Round(e.DoorOpenAmount() * float64(inner)))
	leaf := (inner - gap) / 2
	door := strings.Repeat("▌", leaf) + strings.Repeat(" ", inner-2*leaf) + strings.Repeat("▐", leaf)
	a.drawText(shaftX+2, cabY, style, door)

	if a.sim.InCab() {
		a.screen.SetContent(shaftX+1+shaftWidth/2, cabY, '@', nil, style)
	} else {
		y := top + (floors-1-a.sim.Floor())*rowsPerFloor + 1
		a.screen.SetContent(shaftX+shaftWidth+3, y, '@', nil, styleText)
	}
}

// drawPanel renders the button grid and returns the last row used.
func (a *App) drawPanel() int {
	p := a.sim.Panel()
	a.drawText(panelX, 1, styleText, "PANEL")

	floorButtons := 0
	for _, b := range p.Buttons() {
		if b.Kind == panel.FloorCall {
			floorButtons++
		}
	}

	y := 2
	for i, b := range p.Buttons() {
		id := panel.ButtonID(i)
		var col, row int
		if b.Kind == panel.FloorCall {
			col, row = i%a.columns, i/a.columns
		} else {
			col, row = i-floorButtons, (floorButtons+a.columns-1)/a.columns
		}
		y = 2 + row*2

		style := styleButton
		if b.Active {
			style = styleLit
		}
		if id == a.cursor {
			style = style.Reverse(true)
		}
		label := fmt.Sprintf("%-5s", a.sim.ButtonLabel(id))
		if id == a.sim.Aimed() {
			label = ">" + label[:4]
		}
		a.drawText(panelX+col*cellWidth, y, style, " "+label)
	}
	return y + 1
}

func (a *App) drawHUD(y int) {
	e := a.sim.Elevator()
	x := panelX

	style := styleText
	if e.VentilationActive() {
		style = styleVent
	}
	a.drawText(x, y+1, style, fmt.Sprintf("Floor %-3s  Door %-8s %3.0f%%",
		e.FloorName(e.CurrentFloor()), e.Door().Phase, e.DoorOpenAmount()*100))

	dest := "-"
	if floor, ok := a.sim.Destination(); ok {
		dest = e.FloorName(floor)
		if eta, ok := a.sim.ETA(); ok {
			dest += fmt.Sprintf(" in %.1fs", eta.Seconds())
		}
	}
	a.drawText(x, y+2, styleText, "Next  "+dest)

	var modes []string
	if e.Stopped() {
		modes = append(modes, "STOP")
	}
	if e.VentilationOn() {
		modes = append(modes, "VENT")
	}
	where := "landing " + e.FloorName(a.sim.Floor())
	if a.sim.InCab() {
		where = "in cab"
	}
	a.drawText(x, y+3, styleText, fmt.Sprintf("You   %-12s %s", where, strings.Join(modes, " ")))
	a.drawText(x, y+4, styleDim, a.status)

	for i, line := range a.log {
		a.drawText(x, y+6+i, styleDim, line)
	}
	a.drawText(x, y+7+maxLogLines, styleDim,
		"arrows aim  enter press  h call  b board  a alight  0-9 floor  c/o doors  s stop  v vent  q quit")
}
