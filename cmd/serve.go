package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/liftsim/liftsim/sim/api"
)

var (
	listenAddr   string        // host:port the API server binds
	tickInterval time.Duration // Wall-clock duration of one simulated tick
)

// serveCmd runs the engine behind the HTTP API for external dispatch clients
// and visualizers. Tick 0 completes before the listener starts, so the first
// successful poll of /api/state marks the engine ready.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation over the HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		engine, program, err := buildEngine()
		if err != nil {
			logrus.Fatalf("setup failed: %v", err)
		}
		logrus.Infof("Engine configured: %d floors, %d elevators, %d scenarios, seed=%d",
			numFloors, numElevators, program.NumScenarios(), seed)

		// Complete tick 0 so /api/state is servable from the first poll.
		if err := engine.Advance(); err != nil {
			logrus.Fatalf("tick 0 failed: %v", err)
		}

		server := api.NewServer(engine, listenAddr)
		serverErr := make(chan error, 1)
		go func() {
			serverErr <- server.ListenAndServe()
		}()

		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case <-ticker.C:
				if engine.ScenarioDone() {
					// Hold at the horizon until a client advances the round.
					continue
				}
				if err := engine.Advance(); err != nil {
					logrus.Errorf("tick failed: %v", err)
				}
			case err := <-serverErr:
				if err != nil {
					logrus.Fatalf("API server failed: %v", err)
				}
				return
			case sig := <-stop:
				logrus.Infof("received %v, shutting down", sig)
				engine.Stop()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(ctx); err != nil {
					logrus.Errorf("shutdown: %v", err)
				}
				return
			}
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen",
		envString("LIFTSIM_LISTEN", ":8000"), "Address the API server binds")
	serveCmd.Flags().DurationVar(&tickInterval, "tick-interval",
		100*time.Millisecond, "Wall-clock duration of one simulated tick")
	rootCmd.AddCommand(serveCmd)
}
