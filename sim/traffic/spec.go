// Package traffic loads passenger traffic specifications and compiles them
// into deterministic arrival schedules. A spec is a list of named scenarios;
// each scenario scripts explicit arrivals, draws random ones from a seeded
// generator, or both.
package traffic

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec is the top-level traffic configuration, loaded from YAML via
// LoadSpec(path).
type Spec struct {
	Version   string     `yaml:"version"`
	Seed      int64      `yaml:"seed"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario is one traffic round: the engine plays scenarios in order,
// advancing on request (the traffic-round API).
type Scenario struct {
	Name     string    `yaml:"name"`
	MaxTick  int64     `yaml:"max_tick"`
	Arrivals []Arrival `yaml:"arrivals,omitempty"`
	Random   *Random   `yaml:"random,omitempty"`
}

// Arrival scripts one passenger appearing at Origin bound for Destination.
type Arrival struct {
	Tick        int64 `yaml:"tick" json:"tick"`
	Origin      int   `yaml:"origin" json:"origin"`
	Destination int   `yaml:"destination" json:"destination"`
}

// Random parameterizes seeded random passenger generation for a scenario.
type Random struct {
	Rate       float64 `yaml:"rate"`       // expected arrivals per tick
	Passengers int     `yaml:"passengers"` // total passengers to generate
}

// LoadSpec reads and validates a YAML traffic spec.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read traffic spec: %w", err)
	}
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse traffic spec: %w", err)
	}
	return &spec, nil
}

// DefaultSpec returns the spec used when no file is given: a single random
// scenario sized for an interactive session.
func DefaultSpec() *Spec {
	return &Spec{
		Version: "1",
		Scenarios: []Scenario{
			{
				Name:    "default",
				MaxTick: 1000,
				Random:  &Random{Rate: 0.05, Passengers: 40},
			},
		},
	}
}

// Validate checks the spec against a building's floor count.
func (s *Spec) Validate(numFloors int) error {
	if len(s.Scenarios) == 0 {
		return fmt.Errorf("traffic spec has no scenarios")
	}
	for i, sc := range s.Scenarios {
		if sc.Name == "" {
			return fmt.Errorf("scenario %d has no name", i)
		}
		if sc.MaxTick <= 0 {
			return fmt.Errorf("scenario %q: max_tick must be positive", sc.Name)
		}
		for _, a := range sc.Arrivals {
			if a.Origin < 0 || a.Origin >= numFloors || a.Destination < 0 || a.Destination >= numFloors {
				return fmt.Errorf("scenario %q: arrival at tick %d references a floor outside [0,%d)",
					sc.Name, a.Tick, numFloors)
			}
			if a.Origin == a.Destination {
				return fmt.Errorf("scenario %q: arrival at tick %d has origin == destination == %d",
					sc.Name, a.Tick, a.Origin)
			}
			if a.Tick < 0 || a.Tick >= sc.MaxTick {
				return fmt.Errorf("scenario %q: arrival tick %d outside [0,%d)", sc.Name, a.Tick, sc.MaxTick)
			}
		}
		if sc.Random != nil {
			if sc.Random.Rate <= 0 {
				return fmt.Errorf("scenario %q: random rate must be positive", sc.Name)
			}
			if sc.Random.Passengers <= 0 {
				return fmt.Errorf("scenario %q: random passenger count must be positive", sc.Name)
			}
		}
	}
	return nil
}
