package sim

import "fmt"

// Building groups the immutable parameters of a simulation run. Fixed at
// engine construction; every floor index handled by the engine is validated
// against the half-open range [0, NumFloors).
type Building struct {
	NumFloors           int // contiguous floor indices [0, NumFloors), must be >= 2
	NumElevators        int // must be >= 1
	FloorTravelTicks    int // ticks to traverse one floor
	DoorTransitionTicks int // ticks spent opening, and again closing
	DoorHoldTicks       int // ticks doors stay open once fully opened
	ElevatorCapacity    int // max passengers aboard one car
}

// DefaultBuilding returns the stock configuration used when no overrides are
// given on the command line.
func DefaultBuilding() Building {
	return Building{
		NumFloors:           10,
		NumElevators:        2,
		FloorTravelTicks:    3,
		DoorTransitionTicks: 1,
		DoorHoldTicks:       3,
		ElevatorCapacity:    8,
	}
}

// Validate checks the structural invariants of the building configuration.
func (b Building) Validate() error {
	if b.NumFloors < 2 {
		return fmt.Errorf("building needs at least 2 floors, got %d", b.NumFloors)
	}
	if b.NumElevators < 1 {
		return fmt.Errorf("building needs at least 1 elevator, got %d", b.NumElevators)
	}
	if b.FloorTravelTicks < 1 {
		return fmt.Errorf("floor travel time must be at least 1 tick, got %d", b.FloorTravelTicks)
	}
	if b.DoorTransitionTicks < 1 {
		return fmt.Errorf("door transition time must be at least 1 tick, got %d", b.DoorTransitionTicks)
	}
	if b.DoorHoldTicks < 1 {
		return fmt.Errorf("door hold time must be at least 1 tick, got %d", b.DoorHoldTicks)
	}
	if b.ElevatorCapacity < 1 {
		return fmt.Errorf("elevator capacity must be at least 1, got %d", b.ElevatorCapacity)
	}
	return nil
}

// ValidFloor reports whether f is a floor of this building.
func (b Building) ValidFloor(f int) bool {
	return f >= 0 && f < b.NumFloors
}

// TopFloor returns the highest floor index.
func (b Building) TopFloor() int {
	return b.NumFloors - 1
}
