// Immutable JSON snapshot of the simulation as of the most recently completed
// tick. Field names are stable across ticks; polling clients key on them.

package sim

import (
	"github.com/sirupsen/logrus"
	"github.com/tiendc/go-deepcopy"
)

// BuildingSnapshot mirrors the immutable run parameters.
type BuildingSnapshot struct {
	NumFloors           int `json:"num_floors"`
	NumElevators        int `json:"num_elevators"`
	FloorTravelTicks    int `json:"floor_travel_ticks"`
	DoorTransitionTicks int `json:"door_transition_ticks"`
	DoorHoldTicks       int `json:"door_hold_ticks"`
	ElevatorCapacity    int `json:"elevator_capacity"`
}

// ElevatorSnapshot is one car's state as of the completed tick.
type ElevatorSnapshot struct {
	ID               int           `json:"id"`
	CurrentFloor     int           `json:"current_floor"`
	Position         float64       `json:"position"`
	State            ElevatorState `json:"state"`
	Direction        Direction     `json:"direction"`
	Destinations     []int         `json:"destinations"`
	Passengers       []string      `json:"passengers"`
	PassengerCount   int           `json:"passenger_count"`
	Capacity         int           `json:"capacity"`
	ExternallyDriven bool          `json:"externally_driven"`
}

// FloorSnapshot lists the passengers queued at one floor per direction, in
// arrival order.
type FloorSnapshot struct {
	Floor     int      `json:"floor"`
	UpQueue   []string `json:"up_queue"`
	DownQueue []string `json:"down_queue"`
}

// PassengerSnapshot is one active (waiting or riding) passenger.
type PassengerSnapshot struct {
	ID          string          `json:"id"`
	Origin      int             `json:"origin"`
	Destination int             `json:"destination"`
	ArriveTick  int64           `json:"arrive_tick"`
	Status      PassengerStatus `json:"status"`
	Elevator    int             `json:"elevator"`
}

// Snapshot is the full engine state served by GET /api/state.
type Snapshot struct {
	Tick            int64                        `json:"tick"`
	Building        BuildingSnapshot             `json:"building"`
	Elevators       []ElevatorSnapshot           `json:"elevators"`
	Floors          []FloorSnapshot              `json:"floors"`
	Passengers      map[string]PassengerSnapshot `json:"passengers"`
	PendingRequests []PendingRequest             `json:"pending_requests"`
	Events          []Event                      `json:"events"`
	Metrics         MetricsSnapshot              `json:"metrics"`
	Scenario        string                       `json:"scenario,omitempty"`
	Degraded        bool                         `json:"degraded"`
}

// buildSnapshot materializes the engine state into a snapshot that shares no
// memory with the live structures. Nested slices go through a deep copy so a
// later tick can never mutate a snapshot already handed to an API reader.
func (e *Engine) buildSnapshot(events []Event) *Snapshot {
	snap := &Snapshot{
		Tick: e.clock,
		Building: BuildingSnapshot{
			NumFloors:           e.building.NumFloors,
			NumElevators:        e.building.NumElevators,
			FloorTravelTicks:    e.building.FloorTravelTicks,
			DoorTransitionTicks: e.building.DoorTransitionTicks,
			DoorHoldTicks:       e.building.DoorHoldTicks,
			ElevatorCapacity:    e.building.ElevatorCapacity,
		},
		Passengers:      make(map[string]PassengerSnapshot),
		PendingRequests: e.registry.Pending(),
		Metrics:         e.metrics.Snapshot(),
		Scenario:        e.scenarioName(),
		Degraded:        e.degraded,
	}

	for _, car := range e.elevators {
		es := ElevatorSnapshot{
			ID:               car.ID,
			CurrentFloor:     car.Floor,
			Position:         car.Position(e.building.FloorTravelTicks),
			State:            car.State,
			Direction:        car.Direction(),
			Destinations:     []int{},
			Passengers:       []string{},
			PassengerCount:   len(car.Passengers),
			Capacity:         car.Capacity,
			ExternallyDriven: car.ExternallyDriven,
		}
		if err := deepcopy.Copy(&es.Destinations, car.Destinations); err != nil {
			logrus.Errorf("snapshot: destination copy for elevator %d: %v", car.ID, err)
		}
		for _, p := range car.Passengers {
			es.Passengers = append(es.Passengers, p.ID)
		}
		snap.Elevators = append(snap.Elevators, es)
	}

	for f := 0; f < e.building.NumFloors; f++ {
		fs := FloorSnapshot{Floor: f, UpQueue: []string{}, DownQueue: []string{}}
		for _, p := range e.floors[f].up {
			fs.UpQueue = append(fs.UpQueue, p.ID)
		}
		for _, p := range e.floors[f].down {
			fs.DownQueue = append(fs.DownQueue, p.ID)
		}
		snap.Floors = append(snap.Floors, fs)
	}

	for id, p := range e.passengers {
		if p.Status == PassengerCompleted {
			continue
		}
		snap.Passengers[id] = PassengerSnapshot{
			ID:          p.ID,
			Origin:      p.Origin,
			Destination: p.Destination,
			ArriveTick:  p.ArriveTick,
			Status:      p.Status,
			Elevator:    p.Elevator,
		}
	}

	if events == nil {
		events = []Event{}
	}
	if err := deepcopy.Copy(&snap.Events, events); err != nil {
		logrus.Errorf("snapshot: event copy: %v", err)
	}
	return snap
}
