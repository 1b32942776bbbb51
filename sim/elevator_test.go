package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElevatorDirection_DerivedFromQueueHead(t *testing.T) {
	// GIVEN a car parked at floor 4
	e := NewElevator(0, 8)
	e.Floor = 4

	// THEN direction tracks the queue head, none when empty
	if got := e.Direction(); got != DirectionNone {
		t.Errorf("empty queue: got %v, want none", got)
	}
	e.AppendDestination(7)
	if got := e.Direction(); got != DirectionUp {
		t.Errorf("head above: got %v, want up", got)
	}
	e.Destinations = []int{1}
	if got := e.Direction(); got != DirectionDown {
		t.Errorf("head below: got %v, want down", got)
	}
}

func TestElevatorAppendDestination_Deduplicates(t *testing.T) {
	e := NewElevator(0, 8)
	e.AppendDestination(3)
	e.AppendDestination(5)
	e.AppendDestination(3)
	assert.Equal(t, []int{3, 5}, e.Destinations)
}

func TestElevatorPrependDestination_DisplacesHead(t *testing.T) {
	// GIVEN a committed queue [3, 5]
	e := NewElevator(0, 8)
	e.Destinations = []int{3, 5}

	// WHEN floor 5 is commanded as the immediate target
	e.PrependDestination(5)

	// THEN it moves to the head without duplicating
	assert.Equal(t, []int{5, 3}, e.Destinations)

	// AND prepending the current head is a no-op
	e.PrependDestination(5)
	assert.Equal(t, []int{5, 3}, e.Destinations)
}

func TestElevatorAddStop_SweepOrder(t *testing.T) {
	// GIVEN a car at floor 2 heading up to 6
	e := NewElevator(0, 8)
	e.Floor = 2
	e.Destinations = []int{6}

	// WHEN stops accumulate on both sides of the car
	e.AddStop(4)
	e.AddStop(0)
	e.AddStop(8)

	// THEN the upward stops come first nearest-first, the stop behind last
	assert.Equal(t, []int{4, 6, 8, 0}, e.Destinations)
}

func TestElevatorAddStop_ParkedSweepsTowardNearest(t *testing.T) {
	// GIVEN a parked car at floor 5
	e := NewElevator(0, 8)
	e.Floor = 5

	// WHEN stops arrive with the nearest below the car
	e.AddStop(4)
	e.AddStop(7)
	e.AddStop(2)

	// THEN the sweep anchors on the nearest stop's direction
	assert.Equal(t, []int{4, 2, 7}, e.Destinations)
}

func TestElevatorPosition_FractionalDuringTravel(t *testing.T) {
	// GIVEN a car two thirds through the segment from floor 3 to floor 4
	e := NewElevator(0, 8)
	e.Floor = 3
	e.State = ElevatorMoving
	e.segTarget = 4
	e.progress = 2

	// THEN position interpolates within the segment
	assert.InDelta(t, 3.6667, e.Position(3), 0.001)

	// AND a parked car sits exactly on its floor
	e.State = ElevatorIdle
	assert.Equal(t, 3.0, e.Position(3))
}

func TestElevatorFull_AtCapacity(t *testing.T) {
	e := NewElevator(0, 2)
	assert.False(t, e.Full())
	e.Passengers = append(e.Passengers, NewPassenger("a", 0, 1, 0), NewPassenger("b", 0, 1, 0))
	assert.True(t, e.Full())
}
