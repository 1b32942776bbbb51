package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildingValidate_Default_OK(t *testing.T) {
	assert.NoError(t, DefaultBuilding().Validate())
}

func TestBuildingValidate_RejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name  string
		tweak func(*Building)
	}{
		{"one floor", func(b *Building) { b.NumFloors = 1 }},
		{"no elevators", func(b *Building) { b.NumElevators = 0 }},
		{"zero travel time", func(b *Building) { b.FloorTravelTicks = 0 }},
		{"zero door transition", func(b *Building) { b.DoorTransitionTicks = 0 }},
		{"zero door hold", func(b *Building) { b.DoorHoldTicks = 0 }},
		{"zero capacity", func(b *Building) { b.ElevatorCapacity = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := DefaultBuilding()
			tc.tweak(&b)
			assert.Error(t, b.Validate())
		})
	}
}

func TestBuildingValidFloor_Bounds(t *testing.T) {
	b := DefaultBuilding() // 10 floors
	assert.True(t, b.ValidFloor(0))
	assert.True(t, b.ValidFloor(9))
	assert.False(t, b.ValidFloor(10))
	assert.False(t, b.ValidFloor(-1))
	assert.Equal(t, 9, b.TopFloor())
}
