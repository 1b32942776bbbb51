// The per-car state machine. A car owns its anchor floor, inter-floor travel
// progress, door phase, committed destination queue, and passenger list.
// Direction is never stored: it is derived from the head of the destination
// queue relative to the anchor floor.

package sim

import (
	"fmt"
	"sort"
)

// ElevatorState is the door/motion phase of one car.
type ElevatorState string

const (
	ElevatorIdle        ElevatorState = "idle"
	ElevatorMoving      ElevatorState = "moving"
	ElevatorDoorOpening ElevatorState = "door_opening"
	ElevatorDoorOpen    ElevatorState = "door_open"
	ElevatorDoorClosing ElevatorState = "door_closing"
)

// Elevator is the mutable state of one car, owned exclusively by the engine.
type Elevator struct {
	ID       int
	Capacity int

	State ElevatorState

	// Floor is the anchor floor: the last floor boundary the car crossed.
	// While moving, segTarget is the adjacent floor the car is heading to
	// and progress counts travel ticks into that segment.
	Floor     int
	segTarget int
	progress  int

	// doorTicks counts down the remaining ticks of the current door phase.
	doorTicks int

	// serviceDir is the direction this stop is serving while doors are open;
	// late arrivals in this direction board and re-arm the hold timer.
	serviceDir Direction

	// Destinations is the committed stop queue; head is the current target.
	// Entries are unique valid floor indices.
	Destinations []int

	// Passengers aboard, in boarding order. len() never exceeds Capacity.
	Passengers []*Passenger

	// ExternallyDriven marks that an external client command drove this car
	// in the current tick; the default policy must skip it. Cleared at the
	// start of every tick.
	ExternallyDriven bool
}

// NewElevator creates an idle car parked at floor 0.
func NewElevator(id, capacity int) *Elevator {
	return &Elevator{
		ID:       id,
		Capacity: capacity,
		State:    ElevatorIdle,
	}
}

// Direction is the derived travel direction: the sign of (next queued
// destination - anchor floor), or none when the queue is empty.
func (e *Elevator) Direction() Direction {
	if len(e.Destinations) == 0 {
		return DirectionNone
	}
	return DirectionBetween(e.Floor, e.Destinations[0])
}

// Position returns the fractional shaft position, anchor floor plus segment
// progress. Travel is quantized to travelTicks per floor.
func (e *Elevator) Position(travelTicks int) float64 {
	if e.State != ElevatorMoving || e.progress == 0 {
		return float64(e.Floor)
	}
	frac := float64(e.progress) / float64(travelTicks)
	return float64(e.Floor) + float64(e.segTarget-e.Floor)*frac
}

// NextDestination returns the head of the destination queue.
func (e *Elevator) NextDestination() (int, bool) {
	if len(e.Destinations) == 0 {
		return 0, false
	}
	return e.Destinations[0], true
}

// HasDestination reports whether floor is anywhere in the committed queue.
func (e *Elevator) HasDestination(floor int) bool {
	for _, f := range e.Destinations {
		if f == floor {
			return true
		}
	}
	return false
}

// Full reports whether the car is at capacity.
func (e *Elevator) Full() bool {
	return len(e.Passengers) >= e.Capacity
}

// AppendDestination adds floor to the back of the queue if absent.
func (e *Elevator) AppendDestination(floor int) {
	if !e.HasDestination(floor) {
		e.Destinations = append(e.Destinations, floor)
	}
}

// PrependDestination makes floor the new head of the queue, displacing the
// current target. Used for "go here next" commands.
func (e *Elevator) PrependDestination(floor int) {
	if len(e.Destinations) > 0 && e.Destinations[0] == floor {
		return
	}
	rest := make([]int, 0, len(e.Destinations)+1)
	rest = append(rest, floor)
	for _, f := range e.Destinations {
		if f != floor {
			rest = append(rest, f)
		}
	}
	e.Destinations = rest
}

// AddStop inserts floor into the queue keeping sweep order: stops reachable
// without reversing come first, nearest first, then the stops behind the car
// in reverse order. Matches the stop ordering a LOOK sweep produces. Used
// for engine-originated stops (boarding destinations, policy pickups);
// external commands use Append/Prepend to respect explicit client ordering.
func (e *Elevator) AddStop(floor int) {
	if e.HasDestination(floor) {
		return
	}
	e.Destinations = append(e.Destinations, floor)
	e.sortSweep()
}

func (e *Elevator) sortSweep() {
	dir := e.Direction()
	// Anchor the sweep on current motion; a parked car sweeps toward its
	// nearest stop.
	if dir == DirectionNone && len(e.Destinations) > 0 {
		nearest := e.Destinations[0]
		for _, f := range e.Destinations {
			if abs(f-e.Floor) < abs(nearest-e.Floor) {
				nearest = f
			}
		}
		dir = DirectionBetween(e.Floor, nearest)
	}
	if dir == DirectionNone {
		return
	}
	ahead := make([]int, 0, len(e.Destinations))
	behind := make([]int, 0, len(e.Destinations))
	for _, f := range e.Destinations {
		if DirectionBetween(e.Floor, f) == dir || f == e.Floor {
			ahead = append(ahead, f)
		} else {
			behind = append(behind, f)
		}
	}
	sortByDistance(ahead, e.Floor, false)
	sortByDistance(behind, e.Floor, true)
	e.Destinations = append(ahead, behind...)
}

// popArrived removes the head after the car reaches it.
func (e *Elevator) popArrived() {
	if len(e.Destinations) > 0 && e.Destinations[0] == e.Floor {
		e.Destinations = e.Destinations[1:]
	}
}

func (e *Elevator) String() string {
	return fmt.Sprintf("Elevator(%d %s floor=%d dest=%v pax=%d/%d)",
		e.ID, e.State, e.Floor, e.Destinations, len(e.Passengers), e.Capacity)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sortByDistance(floors []int, from int, farthestFirst bool) {
	sort.Slice(floors, func(i, j int) bool {
		di, dj := abs(floors[i]-from), abs(floors[j]-from)
		if farthestFirst {
			return di > dj
		}
		return di < dj
	})
}
