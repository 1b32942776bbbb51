// Tracks passenger transport metrics for final reporting and for the metrics
// block of every state snapshot.

package sim

import (
	"fmt"
	"sort"
)

// Metrics aggregates wait-time statistics over completed and in-flight
// passengers. Useful for comparing dispatch algorithms across identical
// traffic scenarios.
type Metrics struct {
	TotalPassengers     int
	CompletedPassengers int

	// floorWaits holds board - arrive per boarded passenger (ticks spent
	// waiting at the floor); arrivalWaits holds alight - arrive per
	// completed passenger (total time in system).
	floorWaits   []int64
	arrivalWaits []int64
}

// NewMetrics returns an empty metrics aggregate.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordArrival counts a new passenger entering the system.
func (m *Metrics) RecordArrival() {
	m.TotalPassengers++
}

// RecordBoard records the floor wait of a passenger who just boarded.
func (m *Metrics) RecordBoard(p *Passenger) {
	m.floorWaits = append(m.floorWaits, p.BoardTick-p.ArriveTick)
}

// RecordAlight records the end-to-end wait of a passenger who just alighted.
func (m *Metrics) RecordAlight(p *Passenger) {
	m.CompletedPassengers++
	m.arrivalWaits = append(m.arrivalWaits, p.AlightTick-p.ArriveTick)
}

// CompletionRate returns completed/total, or 0 with no passengers.
func (m *Metrics) CompletionRate() float64 {
	if m.TotalPassengers == 0 {
		return 0
	}
	return float64(m.CompletedPassengers) / float64(m.TotalPassengers)
}

// Reset drops all recorded samples. Used when a traffic round restarts with
// a full reset.
func (m *Metrics) Reset() {
	m.TotalPassengers = 0
	m.CompletedPassengers = 0
	m.floorWaits = nil
	m.arrivalWaits = nil
}

// MetricsSnapshot is the JSON form of the aggregate, with stable field names
// polled by visualizers across ticks.
type MetricsSnapshot struct {
	CompletedPassengers    int     `json:"completed_passengers"`
	TotalPassengers        int     `json:"total_passengers"`
	CompletionRate         float64 `json:"completion_rate"`
	AverageFloorWaitTime   float64 `json:"average_floor_wait_time"`
	P95FloorWaitTime       float64 `json:"p95_floor_wait_time"`
	AverageArrivalWaitTime float64 `json:"average_arrival_wait_time"`
	P95ArrivalWaitTime     float64 `json:"p95_arrival_wait_time"`
}

// Snapshot materializes the current aggregate.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		CompletedPassengers:    m.CompletedPassengers,
		TotalPassengers:        m.TotalPassengers,
		CompletionRate:         m.CompletionRate(),
		AverageFloorWaitTime:   mean(m.floorWaits),
		P95FloorWaitTime:       percentile(m.floorWaits, 0.95),
		AverageArrivalWaitTime: mean(m.arrivalWaits),
		P95ArrivalWaitTime:     percentile(m.arrivalWaits, 0.95),
	}
}

// Print displays the aggregate at the end of a headless run.
func (snap MetricsSnapshot) Print(ticks int64) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Ticks simulated         : %d\n", ticks)
	fmt.Printf("Completed Passengers    : %d/%d (%.1f%%)\n",
		snap.CompletedPassengers, snap.TotalPassengers, snap.CompletionRate*100)
	fmt.Printf("Average Floor Wait      : %.2f ticks\n", snap.AverageFloorWaitTime)
	fmt.Printf("P95 Floor Wait          : %.2f ticks\n", snap.P95FloorWaitTime)
	fmt.Printf("Average Arrival Wait    : %.2f ticks\n", snap.AverageArrivalWaitTime)
	fmt.Printf("P95 Arrival Wait        : %.2f ticks\n", snap.P95ArrivalWaitTime)
}

func mean(samples []int64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum int64
	for _, s := range samples {
		sum += s
	}
	return float64(sum) / float64(len(samples))
}

// percentile returns the nearest-rank percentile of samples; 0 when empty.
func percentile(samples []int64, p float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := make([]int64, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	rank := int(p*float64(len(sorted))+0.5) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return float64(sorted[rank])
}
