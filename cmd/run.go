package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/liftsim/liftsim/sim"
	"github.com/liftsim/liftsim/sim/trace"
)

var (
	recordPath string // Output path for the recorded frames (empty = no recording)
)

// runCmd executes all traffic scenarios headless under the default policy.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all traffic scenarios headless under the default dispatch policy",
	Run: func(cmd *cobra.Command, args []string) {
		engine, program, err := buildEngine()
		if err != nil {
			logrus.Fatalf("setup failed: %v", err)
		}

		var recorder *trace.Recorder
		if recordPath != "" {
			b := engine.Building()
			recorder = trace.NewRecorder("nearest-car", trace.BuildingInfo{
				Floors:      b.NumFloors,
				Elevators:   b.NumElevators,
				MaxCapacity: b.ElevatorCapacity,
			})
		}

		logrus.Infof("Starting headless run: %d scenarios, seed=%d", program.NumScenarios(), seed)
		startTime := time.Now()

		totalTicks := int64(0)
		for round := 0; ; round++ {
			if recorder != nil {
				recorder.StartScenario(program.ScenarioName(round), program.MaxTick(round))
			}
			for !engine.ScenarioDone() {
				if err := engine.Advance(); err != nil {
					logrus.Fatalf("tick failed: %v", err)
				}
				totalTicks++
				if recorder != nil {
					recorder.Append(sim.FrameFromSnapshot(engine.Snapshot()))
				}
			}
			if recorder != nil {
				recorder.FinishScenario(sim.MetricsRecordFromSnapshot(engine.Metrics()))
			}
			if _, err := engine.NextScenario(false); err != nil {
				break
			}
		}

		if recorder != nil {
			if err := recorder.WriteJSON(recordPath); err != nil {
				logrus.Errorf("write recording: %v", err)
			} else {
				s := trace.Summarize(recorder.Recording())
				logrus.Infof("Recorded %d frames over %d scenarios to %s",
					s.TotalFrames, s.TotalScenarios, recordPath)
			}
		}

		engine.Metrics().Print(totalTicks)
		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

func init() {
	runCmd.Flags().StringVar(&recordPath, "record", "", "Write per-tick frames to this JSON file")
	rootCmd.AddCommand(runCmd)
}
