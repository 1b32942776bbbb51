// Per-tick event records surfaced in snapshots. Events exist for the benefit
// of polling clients (dispatch algorithms, visualizers); the engine itself
// never reacts to them.

package sim

// EventType names the observable occurrences of one tick.
type EventType string

const (
	EventPassengerCall   EventType = "passenger_call"
	EventPassengerBoard  EventType = "passenger_board"
	EventPassengerAlight EventType = "passenger_alight"
	EventElevatorStopped EventType = "elevator_stopped"
	EventElevatorIdle    EventType = "elevator_idle"
)

// Event is one timestamped occurrence. Elevator is -1 when the event is not
// tied to a car (floor index 0 and elevator id 0 are both valid, so absent
// values use explicit sentinels rather than omitted zero values).
type Event struct {
	Tick      int64     `json:"tick"`
	Type      EventType `json:"type"`
	Elevator  int       `json:"elevator"`
	Floor     int       `json:"floor"`
	Passenger string    `json:"passenger,omitempty"`
	Direction Direction `json:"direction"`
}
