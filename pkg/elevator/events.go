package elevator

import "time"

// EventType represents the category of an elevator event.
// EventType는 엘리베이터 이벤트의 카테고리를 나타냅니다.
type EventType string

const (
	EventRequestAdded EventType = "RequestAdded"
	EventDeparted     EventType = "Departed"
	EventArrived      EventType = "Arrived"
	EventDoorChange   EventType = "DoorChange"
	EventModeChange   EventType = "ModeChange"
)

// Event carries the state change information.
// Event는 시스템 내에서 발생한 상태 변화 정보를 담고 있습니다.
type Event struct {
	Type      EventType
	Payload   any
	Timestamp time.Time
}

// DepartedPayload carries detail for departure events.
type DepartedPayload struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ArrivedPayload carries detail for arrival events.
// ArrivedPayload는 도착 이벤트의 세부 정보를 담고 있습니다.
type ArrivedPayload struct {
	Floor int    `json:"floor"`
	Name  string `json:"name"`
}

// DoorChangePayload carries the door phase transition.
type DoorChangePayload struct {
	From DoorPhase `json:"from"`
	To   DoorPhase `json:"to"`
}

// ModeChangePayload carries the stop and ventilation switches after a toggle.
type ModeChangePayload struct {
	Stopped     bool `json:"stopped"`
	Ventilation bool `json:"ventilation"`
}

// Events returns the read-only channel for state change notifications.
// Events는 상태 변경 알림을 위한 읽기 전용 채널을 반환합니다.
func (e *Elevator) Events() <-chan Event {
	return e.eventCh
}

// DroppedEventCount returns how many events were discarded on a full channel.
func (e *Elevator) DroppedEventCount() uint64 {
	return e.droppedEventCount
}

// publishEvent sends an event to the channel without blocking the tick.
// 채널이 가득 차면 이벤트를 버리고 카운터를 증가시킵니다.
func (e *Elevator) publishEvent(eventType EventType, payload any) {
	if e.eventCh == nil {
		return
	}
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	select {
	case e.eventCh <- event:
	default:
		e.droppedEventCount++
		// Log rarely to avoid flooding
		if e.droppedEventCount%100 == 1 {
			e.logger.Error("Event Channel Saturated", "dropped", e.droppedEventCount, "type", eventType)
		}
	}
}

// setDoor applies a door transition and publishes a phase change.
func (e *Elevator) setDoor(apply func(d *DoorState)) bool {
	before := e.st.Door.Phase
	apply(&e.st.Door)
	if after := e.st.Door.Phase; after != before {
		e.logger.Debug("Door phase changed", "from", before, "to", after, "amount", e.st.Door.Amount)
		e.publishEvent(EventDoorChange, DoorChangePayload{From: before, To: after})
		return true
	}
	return false
}
