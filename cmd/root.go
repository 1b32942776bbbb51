package cmd

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// CLI flags shared by run and serve
	logLevel       string // Log verbosity level
	seed           int64  // Seed for random passenger generation
	numFloors      int    // Number of floors in the building
	numElevators   int    // Number of elevator cars
	floorTravel    int    // Ticks to traverse one floor
	doorTransition int    // Ticks to open (and to close) the doors
	doorHold       int    // Ticks the doors stay open
	capacity       int    // Passenger capacity per car
	trafficPath    string // Path to a YAML traffic spec (empty = built-in default)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "liftsim",
	Short: "Discrete-event elevator dispatch simulator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// envInt64 reads an integer environment default, falling back when unset or
// unparsable.
func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		logrus.Warnf("ignoring unparsable %s=%q", key, v)
	}
	return fallback
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// init loads .env defaults and sets up shared flags. Flag values beat env
// values, env values beat baked-in defaults.
func init() {
	// Optional .env in the working directory; absence is not an error.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&logLevel, "log",
		envString("LIFTSIM_LOG", "info"), "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed",
		envInt64("LIFTSIM_SEED", 42), "Seed for random passenger generation")
	rootCmd.PersistentFlags().IntVar(&numFloors, "floors",
		int(envInt64("LIFTSIM_FLOORS", 10)), "Number of floors (>= 2)")
	rootCmd.PersistentFlags().IntVar(&numElevators, "elevators",
		int(envInt64("LIFTSIM_ELEVATORS", 2)), "Number of elevator cars (>= 1)")
	rootCmd.PersistentFlags().IntVar(&floorTravel, "floor-travel-ticks", 3, "Ticks to traverse one floor")
	rootCmd.PersistentFlags().IntVar(&doorTransition, "door-transition-ticks", 1, "Ticks to open, and again to close, the doors")
	rootCmd.PersistentFlags().IntVar(&doorHold, "door-hold-ticks", 3, "Ticks the doors stay open")
	rootCmd.PersistentFlags().IntVar(&capacity, "capacity", 8, "Passenger capacity per car")
	rootCmd.PersistentFlags().StringVar(&trafficPath, "traffic",
		envString("LIFTSIM_TRAFFIC", ""), "Path to YAML traffic spec (default: built-in random scenario)")
}
