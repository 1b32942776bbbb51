// Bridges engine snapshots into the trace package's pure-data frame types.

package sim

import "github.com/liftsim/liftsim/sim/trace"

// FrameFromSnapshot converts a completed-tick snapshot into a trace frame.
func FrameFromSnapshot(s *Snapshot) trace.Frame {
	frame := trace.Frame{
		Tick:    s.Tick,
		Metrics: MetricsRecordFromSnapshot(s.Metrics),
	}
	for _, e := range s.Elevators {
		frame.Elevators = append(frame.Elevators, trace.ElevatorRecord{
			ID:               e.ID,
			CurrentFloor:     e.CurrentFloor,
			Position:         e.Position,
			State:            string(e.State),
			Direction:        e.Direction.String(),
			Destinations:     e.Destinations,
			PassengerCount:   e.PassengerCount,
			Capacity:         e.Capacity,
			ExternallyDriven: e.ExternallyDriven,
		})
	}
	for _, f := range s.Floors {
		frame.Floors = append(frame.Floors, trace.FloorRecord{
			Floor:     f.Floor,
			UpQueue:   f.UpQueue,
			DownQueue: f.DownQueue,
		})
	}
	for _, ev := range s.Events {
		frame.Events = append(frame.Events, trace.EventRecord{
			Tick:      ev.Tick,
			Type:      string(ev.Type),
			Elevator:  ev.Elevator,
			Floor:     ev.Floor,
			Passenger: ev.Passenger,
			Direction: ev.Direction.String(),
		})
	}
	return frame
}

// MetricsRecordFromSnapshot converts the metrics block of a snapshot.
func MetricsRecordFromSnapshot(m MetricsSnapshot) trace.MetricsRecord {
	return trace.MetricsRecord{
		CompletedPassengers:    m.CompletedPassengers,
		TotalPassengers:        m.TotalPassengers,
		CompletionRate:         m.CompletionRate,
		AverageFloorWaitTime:   m.AverageFloorWaitTime,
		P95FloorWaitTime:       m.P95FloorWaitTime,
		AverageArrivalWaitTime: m.AverageArrivalWaitTime,
		P95ArrivalWaitTime:     m.P95ArrivalWaitTime,
	}
}
