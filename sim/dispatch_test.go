package sim

import "testing"

func hallCall(floor int, dir Direction, tick int64) *HallCall {
	return &HallCall{Floor: floor, Direction: dir, Tick: tick, Assigned: -1}
}

func TestNearestCarPolicy_PrefersClosestIdleCar(t *testing.T) {
	// GIVEN idle cars at floors 0 and 8 and a call at floor 6
	p := NewNearestCarPolicy()
	near := NewElevator(1, 8)
	near.Floor = 8
	far := NewElevator(0, 8)

	// WHEN the call is assigned
	got := p.Assign([]*Elevator{far, near}, []*HallCall{hallCall(6, DirectionDown, 0)})

	// THEN the closer car wins despite its higher ID
	if len(got) != 1 || got[0].Elevator != 1 {
		t.Errorf("Assign: got %+v, want elevator 1", got)
	}
}

func TestNearestCarPolicy_TieBreaksOnLowestID(t *testing.T) {
	// GIVEN two idle cars equidistant from the call
	p := NewNearestCarPolicy()
	a := NewElevator(0, 8)
	a.Floor = 2
	b := NewElevator(1, 8)
	b.Floor = 6

	// WHEN the call at floor 4 is assigned
	got := p.Assign([]*Elevator{a, b}, []*HallCall{hallCall(4, DirectionUp, 0)})

	// THEN the lowest elevator ID wins
	if len(got) != 1 || got[0].Elevator != 0 {
		t.Errorf("Assign: got %+v, want elevator 0", got)
	}
}

func TestNearestCarPolicy_SkipsBusyCarForIdleOne(t *testing.T) {
	// GIVEN one car moving up toward floor 5 from floor 3 and one idle at 0
	p := NewNearestCarPolicy()
	busy := NewElevator(0, 8)
	busy.Floor = 3
	busy.State = ElevatorMoving
	busy.Destinations = []int{5}
	idle := NewElevator(1, 8)

	// WHEN a call at floor 1 going up arrives (behind the moving car)
	got := p.Assign([]*Elevator{busy, idle}, []*HallCall{hallCall(1, DirectionUp, 0)})

	// THEN the idle car is assigned, not the busy one
	if len(got) != 1 || got[0].Elevator != 1 {
		t.Errorf("Assign: got %+v, want idle elevator 1", got)
	}
}

func TestNearestCarPolicy_SameDirectionCarTakesEnRouteCall(t *testing.T) {
	// GIVEN a car at floor 1 sweeping up to 7 and no idle car
	p := NewNearestCarPolicy()
	sweeping := NewElevator(0, 8)
	sweeping.Floor = 1
	sweeping.State = ElevatorMoving
	sweeping.Destinations = []int{7}

	// WHEN an up call at floor 4 (ahead, same direction) arrives
	got := p.Assign([]*Elevator{sweeping}, []*HallCall{hallCall(4, DirectionUp, 0)})

	// THEN the sweeping car picks it up en route
	if len(got) != 1 || got[0].Elevator != 0 {
		t.Errorf("Assign: got %+v, want sweeping elevator 0", got)
	}

	// AND a down call at the same floor is not eligible
	got = p.Assign([]*Elevator{sweeping}, []*HallCall{hallCall(4, DirectionDown, 0)})
	if len(got) != 0 {
		t.Errorf("opposite-direction call: got %+v, want no assignment", got)
	}
}

func TestNearestCarPolicy_OneIdleCarNotPromisedTwice(t *testing.T) {
	// GIVEN one idle car and two calls, oldest first
	p := NewNearestCarPolicy()
	only := NewElevator(0, 8)
	only.Floor = 5
	calls := []*HallCall{hallCall(6, DirectionUp, 1), hallCall(2, DirectionUp, 3)}

	// WHEN both are offered
	got := p.Assign([]*Elevator{only}, calls)

	// THEN the car is claimed by the older call only
	if len(got) != 1 || got[0].Floor != 6 {
		t.Errorf("Assign: got %+v, want single assignment to floor 6", got)
	}
}
