package elevator

import (
	"math/bits"
	"strconv"
	"strings"
)

// --- Domain Entities & Value Objects ---

// NoFloor marks the absence of a floor (idle target, unset first target).
const NoFloor = -1

// MaxFloors is the capacity of FloorSet.
const MaxFloors = 64

// DoorPhase is the tag of the door state machine.
// DoorPhase는 문 상태 머신의 단계를 나타냅니다.
type DoorPhase int

const (
	DoorClosed  DoorPhase = iota // 완전히 닫힘
	DoorOpening                  // 열리는 중 (유지 타이머 동작)
	DoorHolding                  // 완전히 열림 (유지 타이머 동작)
	DoorClosing                  // 닫히는 중, 닫히면 다음 호출로 출발
)

func (p DoorPhase) String() string {
	return [...]string{"Closed", "Opening", "Holding", "Closing"}[p]
}

// MarshalText renders the phase by name in JSON payloads.
func (p DoorPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// DoorState is the door variant: the phase plus the data the phase carries.
// Amount is 0 when fully closed and 1 when fully open; Hold is the remaining
// open-hold time in seconds and only counts down while Open() is true.
type DoorState struct {
	Phase  DoorPhase
	Amount float64
	Hold   float64
}

// Open reports whether the door is commanded open (opening or holding).
func (d DoorState) Open() bool {
	return d.Phase == DoorOpening || d.Phase == DoorHolding
}

// open (re)starts the open sequence with a full hold timer.
func (d *DoorState) open(hold float64) {
	d.Hold = hold
	if d.Amount >= 1 {
		d.Amount = 1
		d.Phase = DoorHolding
		return
	}
	d.Phase = DoorOpening
}

// close pre-empts the hold timer. A closed or closing door is left alone.
func (d *DoorState) close() {
	if !d.Open() {
		return
	}
	d.Phase = DoorClosing
	d.Hold = 0
}

// step advances the door by dt seconds at the given rate and reports whether
// the door finished closing during this step.
func (d *DoorState) step(dt, speed float64) bool {
	switch d.Phase {
	case DoorOpening, DoorHolding:
		d.Hold -= dt
		if d.Amount < 1 {
			d.Amount += speed * dt
			if d.Amount >= 1 {
				d.Amount = 1
				d.Phase = DoorHolding
			}
		}
		// Closing starts on the next step.
		if d.Hold <= 0 {
			d.Phase = DoorClosing
		}
	case DoorClosing:
		if d.Amount > 0 {
			d.Amount -= speed * dt
		}
		if d.Amount <= 0 {
			d.Amount = 0
			d.Hold = 0
			d.Phase = DoorClosed
			return true
		}
	}
	return false
}

// FloorSet is a fixed-size presence set of floor indices in [0, MaxFloors).
// FloorSet는 대기 중인 층 호출의 비트셋입니다.
type FloorSet uint64

// Has reports whether floor is in the set.
func (s FloorSet) Has(floor int) bool {
	if floor < 0 || floor >= MaxFloors {
		return false
	}
	return s&(1<<uint(floor)) != 0
}

// Add returns the set with floor included.
func (s FloorSet) Add(floor int) FloorSet {
	if floor < 0 || floor >= MaxFloors {
		return s
	}
	return s | 1<<uint(floor)
}

// Remove returns the set with floor excluded.
func (s FloorSet) Remove(floor int) FloorSet {
	if floor < 0 || floor >= MaxFloors {
		return s
	}
	return s &^ (1 << uint(floor))
}

// Lowest returns the lowest pending floor, or NoFloor for an empty set.
func (s FloorSet) Lowest() int {
	if s == 0 {
		return NoFloor
	}
	return bits.TrailingZeros64(uint64(s))
}

// Len returns the number of pending floors.
func (s FloorSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Floors returns the pending floors in ascending order.
func (s FloorSet) Floors() []int {
	floors := make([]int, 0, s.Len())
	for rest := s; rest != 0; rest &= rest - 1 {
		floors = append(floors, bits.TrailingZeros64(uint64(rest)))
	}
	return floors
}

func (s FloorSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range s.Floors() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(f))
	}
	b.WriteByte('}')
	return b.String()
}
