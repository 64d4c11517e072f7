package panel

// Commander is the controller command surface a button press drives.
type Commander interface {
	RequestFloor(floor int)
	CloseDoors()
	OpenDoors()
	ToggleStop()
	ToggleVentilation()
}

// StateReader is the controller state illumination is derived from.
type StateReader interface {
	HasRequest(floor int) bool
	Stopped() bool
	VentilationOn() bool
}

// Dispatch sends the single command bound to button id. It reports false for
// NoButton or an unknown id.
func (p *Panel) Dispatch(id ButtonID, c Commander) bool {
	b, ok := p.Button(id)
	if !ok {
		return false
	}

	switch b.Kind {
	case FloorCall:
		c.RequestFloor(b.Floor)
	case CloseDoors:
		c.CloseDoors()
	case OpenDoors:
		c.OpenDoors()
	case EmergencyStop:
		c.ToggleStop()
	case Ventilation:
		c.ToggleVentilation()
	default:
		return false
	}
	return true
}

// RefreshIllumination projects controller state onto the buttons. Close and
// open never stay lit.
func (p *Panel) RefreshIllumination(s StateReader) {
	for i := range p.buttons {
		b := &p.buttons[i]
		switch b.Kind {
		case FloorCall:
			b.Active = s.HasRequest(b.Floor)
		case EmergencyStop:
			b.Active = s.Stopped()
		case Ventilation:
			b.Active = s.VentilationOn()
		default:
			b.Active = false
		}
	}
}
