package elevator

import (
	"log/slog"
	"time"

	"github.com/tiendc/go-deepcopy"
)

// EstimateArrival simulates a copy of the controller forward in fixed steps
// and returns how long until the cab rests at floor. It reports false when
// the cab would not get there within limit, e.g. while stopped or when floor
// is not pending. The receiver is left untouched.
func (e *Elevator) EstimateArrival(floor int, step, limit time.Duration) (time.Duration, bool) {
	if !e.validFloor(floor) || step <= 0 {
		return 0, false
	}
	if e.IsAtFloor(floor) {
		return 0, true
	}

	sim := &Elevator{
		Config: e.Config,
		logger: slog.New(slog.DiscardHandler),
	}
	if err := deepcopy.Copy(&sim.st, &e.st); err != nil {
		e.logger.Error("EstimateArrival: state copy failed", "error", err)
		return 0, false
	}

	for elapsed := time.Duration(0); elapsed < limit; {
		sim.Update(step)
		elapsed += step
		if sim.IsAtFloor(floor) {
			return elapsed, true
		}
	}
	return 0, false
}
