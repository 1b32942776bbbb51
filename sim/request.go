// Defines the passenger lifecycle and the two request variants the registry
// tracks: hall calls (floor + desired direction, unbound) and car calls
// (elevator + destination floor, created on boarding).

package sim

import "fmt"

// PassengerStatus is the lifecycle state of a simulated passenger.
type PassengerStatus string

const (
	PassengerWaiting   PassengerStatus = "waiting"
	PassengerRiding    PassengerStatus = "in_elevator"
	PassengerCompleted PassengerStatus = "completed"
)

// Passenger models one simulated transport need from arrival at the origin
// floor to alighting at the destination. IDs are deterministic counters so
// that two runs with the same seed produce identical snapshots.
type Passenger struct {
	ID          string
	Origin      int
	Destination int

	Status   PassengerStatus
	Elevator int // car currently aboard, -1 while waiting or completed

	ArriveTick int64 // tick the passenger appeared at the origin floor
	BoardTick  int64 // tick the passenger boarded, -1 until then
	AlightTick int64 // tick the passenger alighted, -1 until then
}

// NewPassenger creates a waiting passenger. Origin and destination must be
// distinct valid floors; the caller (traffic application) guarantees this.
func NewPassenger(id string, origin, destination int, tick int64) *Passenger {
	return &Passenger{
		ID:          id,
		Origin:      origin,
		Destination: destination,
		Status:      PassengerWaiting,
		Elevator:    -1,
		ArriveTick:  tick,
		BoardTick:   -1,
		AlightTick:  -1,
	}
}

// Direction returns the travel direction this passenger needs.
func (p *Passenger) Direction() Direction {
	return DirectionBetween(p.Origin, p.Destination)
}

func (p *Passenger) String() string {
	return fmt.Sprintf("Passenger(%s %d->%d %s)", p.ID, p.Origin, p.Destination, p.Status)
}

// HallCall is an outstanding call-button press: a floor plus a desired
// direction, not yet bound to a specific car. At most one exists per
// (floor, direction) pair.
type HallCall struct {
	Floor     int
	Direction Direction
	Tick      int64 // creation tick
	Assigned  int   // elevator the default policy routed here, -1 if none
}

// CarCall is an outstanding in-car destination press, bound to one elevator.
// At most one exists per (elevator, floor) pair.
type CarCall struct {
	Elevator int
	Floor    int
	Tick     int64 // creation tick
}

// RequestKind discriminates entries in the registry's pending view.
type RequestKind string

const (
	RequestHall RequestKind = "hall"
	RequestCar  RequestKind = "car"
)

// PendingRequest is one unresolved entry in the registry's read-only view,
// ordered by creation tick. For hall calls Elevator is the assigned car
// (-1 when unassigned); for car calls it is the owning car.
type PendingRequest struct {
	Kind      RequestKind `json:"kind"`
	Floor     int         `json:"floor"`
	Direction Direction   `json:"direction"`
	Elevator  int         `json:"elevator"`
	Tick      int64       `json:"tick"`
}
