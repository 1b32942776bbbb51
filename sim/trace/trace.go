// Package trace records per-tick simulation frames for offline visualization.
// This package has no dependencies on sim/ — it stores pure data types, and
// its JSON output is the contract the visualization front-end consumes.
package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// ElevatorRecord captures one car in one frame.
type ElevatorRecord struct {
	ID               int     `json:"id"`
	CurrentFloor     int     `json:"current_floor"`
	Position         float64 `json:"position"`
	State            string  `json:"state"`
	Direction        string  `json:"direction"`
	Destinations     []int   `json:"destinations"`
	PassengerCount   int     `json:"passenger_count"`
	Capacity         int     `json:"capacity"`
	ExternallyDriven bool    `json:"externally_driven"`
}

// FloorRecord captures one floor's waiting queues in one frame.
type FloorRecord struct {
	Floor     int      `json:"floor"`
	UpQueue   []string `json:"up_queue"`
	DownQueue []string `json:"down_queue"`
}

// EventRecord captures one engine event in one frame.
type EventRecord struct {
	Tick      int64  `json:"tick"`
	Type      string `json:"type"`
	Elevator  int    `json:"elevator"`
	Floor     int    `json:"floor"`
	Passenger string `json:"passenger,omitempty"`
	Direction string `json:"direction"`
}

// MetricsRecord captures the metrics aggregate in one frame.
type MetricsRecord struct {
	CompletedPassengers    int     `json:"completed_passengers"`
	TotalPassengers        int     `json:"total_passengers"`
	CompletionRate         float64 `json:"completion_rate"`
	AverageFloorWaitTime   float64 `json:"average_floor_wait_time"`
	P95FloorWaitTime       float64 `json:"p95_floor_wait_time"`
	AverageArrivalWaitTime float64 `json:"average_arrival_wait_time"`
	P95ArrivalWaitTime     float64 `json:"p95_arrival_wait_time"`
}

// Frame is the full per-tick record.
type Frame struct {
	Tick      int64            `json:"tick"`
	Elevators []ElevatorRecord `json:"elevators"`
	Floors    []FloorRecord    `json:"floors"`
	Events    []EventRecord    `json:"events"`
	Metrics   MetricsRecord    `json:"metrics"`
}

// BuildingInfo describes the run the frames belong to.
type BuildingInfo struct {
	Floors      int `json:"floors"`
	Elevators   int `json:"elevators"`
	MaxCapacity int `json:"max_capacity"`
}

// ScenarioRecording is one traffic round's worth of frames.
type ScenarioRecording struct {
	ScenarioName string        `json:"scenario_name"`
	MaxTick      int64         `json:"max_tick"`
	TotalFrames  int           `json:"total_frames"`
	Frames       []Frame       `json:"frames"`
	FinalMetrics MetricsRecord `json:"final_metrics"`
	BuildingInfo BuildingInfo  `json:"building_info"`
}

// Recording is the root document written to disk.
type Recording struct {
	Version        string              `json:"version"`
	TotalScenarios int                 `json:"total_scenarios"`
	Metadata       RecordingMetadata   `json:"metadata"`
	Scenarios      []ScenarioRecording `json:"scenarios"`
}

// RecordingMetadata annotates a recording for the visualizer's header.
type RecordingMetadata struct {
	Algorithm   string `json:"algorithm"`
	RecordedAt  string `json:"recorded_at"`
	TotalFrames int    `json:"total_frames"`
}

// Recorder accumulates frames across scenarios and writes the recording.
type Recorder struct {
	algorithm string
	building  BuildingInfo

	current   *ScenarioRecording
	scenarios []ScenarioRecording
}

// NewRecorder creates a recorder annotated with the driving algorithm's name.
func NewRecorder(algorithm string, building BuildingInfo) *Recorder {
	return &Recorder{algorithm: algorithm, building: building}
}

// StartScenario begins accumulating frames for a named traffic round.
// Any unfinished previous round is finalized first.
func (r *Recorder) StartScenario(name string, maxTick int64) {
	if r.current != nil {
		r.finishCurrent()
	}
	r.current = &ScenarioRecording{
		ScenarioName: name,
		MaxTick:      maxTick,
		BuildingInfo: r.building,
	}
}

// Append adds one frame to the active round. Frames arriving before
// StartScenario are dropped.
func (r *Recorder) Append(f Frame) {
	if r.current == nil {
		return
	}
	r.current.Frames = append(r.current.Frames, f)
}

// FinishScenario closes the active round with its final metrics.
func (r *Recorder) FinishScenario(final MetricsRecord) {
	if r.current == nil {
		return
	}
	r.current.FinalMetrics = final
	r.finishCurrent()
}

func (r *Recorder) finishCurrent() {
	r.current.TotalFrames = len(r.current.Frames)
	r.scenarios = append(r.scenarios, *r.current)
	r.current = nil
}

// Recording materializes everything accumulated so far.
func (r *Recorder) Recording() *Recording {
	total := 0
	for _, s := range r.scenarios {
		total += s.TotalFrames
	}
	return &Recording{
		Version:        "1.0",
		TotalScenarios: len(r.scenarios),
		Metadata: RecordingMetadata{
			Algorithm:   r.algorithm,
			RecordedAt:  time.Now().Format("2006-01-02 15:04:05"),
			TotalFrames: total,
		},
		Scenarios: r.scenarios,
	}
}

// WriteJSON writes the recording to path, indented for the visualizer.
func (r *Recorder) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r.Recording(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode recording: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write recording: %w", err)
	}
	return nil
}
