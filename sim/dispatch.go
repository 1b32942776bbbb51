// The dispatch coordinator is the engine's extension point: it routes
// unassigned hall calls to elevators that received no external command this
// tick. The built-in policy is a fallback only; an external client submitting
// explicit commands always takes precedence.

package sim

// Assignment routes one hall call to one elevator.
type Assignment struct {
	Elevator  int
	Floor     int
	Direction Direction
}

// Dispatcher decides which hall call, if any, each eligible elevator should
// service next. Implementations must be deterministic: identical inputs must
// yield identical assignments.
type Dispatcher interface {
	// Assign receives the fleet (only elevators eligible for policy control,
	// i.e. not externally driven this tick) and the unassigned hall calls
	// oldest first. It returns at most one assignment per hall call.
	Assign(elevators []*Elevator, calls []*HallCall) []Assignment
}

// NearestCarPolicy is the default nearest-car-in-direction policy: for each
// call, among idle cars and cars already sweeping toward the call in the
// requested direction, pick the one minimizing floor distance; ties break on
// the lowest elevator ID.
type NearestCarPolicy struct{}

// NewNearestCarPolicy returns the default dispatch policy.
func NewNearestCarPolicy() *NearestCarPolicy {
	return &NearestCarPolicy{}
}

// Assign implements Dispatcher. Calls are considered oldest first; an idle
// car is claimed by the first call it wins so a single free car is not
// promised to two floors in one tick.
func (p *NearestCarPolicy) Assign(elevators []*Elevator, calls []*HallCall) []Assignment {
	claimed := make(map[int]bool)
	var assignments []Assignment
	for _, call := range calls {
		best := -1
		bestDist := 0
		for _, e := range elevators {
			if claimed[e.ID] || !p.eligible(e, call) {
				continue
			}
			dist := abs(e.Floor - call.Floor)
			if best == -1 || dist < bestDist || (dist == bestDist && e.ID < best) {
				best = e.ID
				bestDist = dist
			}
		}
		if best >= 0 {
			claimed[best] = true
			assignments = append(assignments, Assignment{
				Elevator:  best,
				Floor:     call.Floor,
				Direction: call.Direction,
			})
		}
	}
	return assignments
}

// eligible reports whether e can reasonably service call: it is idle, or it
// is already sweeping in the call's direction with the call's floor ahead of
// it and has spare capacity.
func (p *NearestCarPolicy) eligible(e *Elevator, call *HallCall) bool {
	switch e.State {
	case ElevatorIdle:
		return len(e.Destinations) == 0
	case ElevatorMoving:
		if e.Full() {
			return false
		}
		dir := e.Direction()
		if dir != call.Direction {
			return false
		}
		ahead := DirectionBetween(e.Floor, call.Floor)
		return ahead == dir
	default:
		return false
	}
}
