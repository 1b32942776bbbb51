package trace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame(tick int64) Frame {
	return Frame{
		Tick: tick,
		Elevators: []ElevatorRecord{{
			ID: 0, CurrentFloor: int(tick), State: "moving", Direction: "up",
			Destinations: []int{5}, Capacity: 8,
		}},
		Floors: []FloorRecord{{Floor: 0, UpQueue: []string{"p0001"}, DownQueue: []string{}}},
		Events: []EventRecord{},
	}
}

func TestRecorder_ScenarioLifecycle(t *testing.T) {
	// GIVEN a recorder with two rounds of frames
	r := NewRecorder("nearest-car", BuildingInfo{Floors: 10, Elevators: 2, MaxCapacity: 8})

	r.StartScenario("first", 100)
	r.Append(testFrame(0))
	r.Append(testFrame(1))
	r.FinishScenario(MetricsRecord{TotalPassengers: 5, CompletedPassengers: 5, CompletionRate: 1})

	r.StartScenario("second", 50)
	r.Append(testFrame(0))
	r.FinishScenario(MetricsRecord{TotalPassengers: 3, CompletedPassengers: 2})

	// WHEN the recording is materialized
	rec := r.Recording()

	// THEN rounds, frame counts, and metadata are all present
	assert.Equal(t, "1.0", rec.Version)
	assert.Equal(t, 2, rec.TotalScenarios)
	assert.Equal(t, 3, rec.Metadata.TotalFrames)
	assert.Equal(t, "nearest-car", rec.Metadata.Algorithm)
	require.Len(t, rec.Scenarios, 2)
	assert.Equal(t, "first", rec.Scenarios[0].ScenarioName)
	assert.Equal(t, int64(100), rec.Scenarios[0].MaxTick)
	assert.Equal(t, 2, rec.Scenarios[0].TotalFrames)
	assert.Equal(t, 5, rec.Scenarios[0].FinalMetrics.CompletedPassengers)
	assert.Equal(t, 10, rec.Scenarios[1].BuildingInfo.Floors)
}

func TestRecorder_FramesBeforeStartAreDropped(t *testing.T) {
	r := NewRecorder("test", BuildingInfo{})
	r.Append(testFrame(0))
	r.FinishScenario(MetricsRecord{})
	assert.Equal(t, 0, r.Recording().TotalScenarios)
}

func TestRecorder_StartFinalizesUnfinishedScenario(t *testing.T) {
	// GIVEN a round left open when the next one starts
	r := NewRecorder("test", BuildingInfo{})
	r.StartScenario("abandoned", 10)
	r.Append(testFrame(0))
	r.StartScenario("next", 10)

	// THEN the open round is closed with its frames intact
	rec := r.Recording()
	require.Len(t, rec.Scenarios, 1)
	assert.Equal(t, "abandoned", rec.Scenarios[0].ScenarioName)
	assert.Equal(t, 1, rec.Scenarios[0].TotalFrames)
}

func TestRecorder_WriteJSON(t *testing.T) {
	// GIVEN a finished recording
	r := NewRecorder("nearest-car", BuildingInfo{Floors: 4, Elevators: 1, MaxCapacity: 8})
	r.StartScenario("only", 20)
	r.Append(testFrame(0))
	r.FinishScenario(MetricsRecord{TotalPassengers: 1, CompletedPassengers: 1, CompletionRate: 1})

	// WHEN it is written to disk
	path := filepath.Join(t.TempDir(), "recording.json")
	require.NoError(t, r.WriteJSON(path))

	// THEN the file parses back into the same document shape
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec Recording
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "1.0", rec.Version)
	require.Len(t, rec.Scenarios, 1)
	assert.Equal(t, "only", rec.Scenarios[0].ScenarioName)
	require.Len(t, rec.Scenarios[0].Frames, 1)
	assert.Equal(t, []int{5}, rec.Scenarios[0].Frames[0].Elevators[0].Destinations)
}
