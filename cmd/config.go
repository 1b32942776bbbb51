package cmd

import (
	"fmt"

	"github.com/liftsim/liftsim/sim"
	"github.com/liftsim/liftsim/sim/traffic"
)

// buildEngine assembles a Building, traffic program, and engine from the
// shared CLI flags. Both run and serve construct the engine this way.
func buildEngine() (*sim.Engine, *traffic.Program, error) {
	building := sim.Building{
		NumFloors:           numFloors,
		NumElevators:        numElevators,
		FloorTravelTicks:    floorTravel,
		DoorTransitionTicks: doorTransition,
		DoorHoldTicks:       doorHold,
		ElevatorCapacity:    capacity,
	}
	if err := building.Validate(); err != nil {
		return nil, nil, err
	}

	spec := traffic.DefaultSpec()
	if trafficPath != "" {
		loaded, err := traffic.LoadSpec(trafficPath)
		if err != nil {
			return nil, nil, err
		}
		spec = loaded
	}
	program, err := traffic.Compile(spec, building.NumFloors, seed)
	if err != nil {
		return nil, nil, fmt.Errorf("compile traffic: %w", err)
	}

	engine, err := sim.NewEngine(building, sim.NewNearestCarPolicy(), program)
	if err != nil {
		return nil, nil, err
	}
	return engine, program, nil
}
