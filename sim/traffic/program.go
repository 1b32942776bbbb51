package traffic

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
)

// Program is a compiled traffic spec: a fully materialized, per-scenario
// arrival schedule. Compilation fixes every random draw up front, so replaying
// a program is deterministic regardless of how the engine interleaves queries.
type Program struct {
	scenarios []compiledScenario
}

type compiledScenario struct {
	name     string
	maxTick  int64
	byTick   map[int64][]Arrival
	arrivals int
}

// Compile validates spec against the building's floor count and materializes
// all scenarios. The spec's own seed is used unless overridden by a non-zero
// seed argument; each scenario draws from an isolated RNG derived from the
// master seed and the scenario name.
func Compile(spec *Spec, numFloors int, seed int64) (*Program, error) {
	if err := spec.Validate(numFloors); err != nil {
		return nil, err
	}
	master := spec.Seed
	if seed != 0 {
		master = seed
	}
	prog := &Program{}
	for _, sc := range spec.Scenarios {
		compiled := compiledScenario{
			name:    sc.Name,
			maxTick: sc.MaxTick,
			byTick:  make(map[int64][]Arrival),
		}
		all := make([]Arrival, len(sc.Arrivals))
		copy(all, sc.Arrivals)
		if sc.Random != nil {
			all = append(all, generate(sc, scenarioSeed(master, sc.Name), numFloors)...)
		}
		sort.SliceStable(all, func(i, j int) bool { return all[i].Tick < all[j].Tick })
		for _, a := range all {
			compiled.byTick[a.Tick] = append(compiled.byTick[a.Tick], a)
		}
		compiled.arrivals = len(all)
		prog.scenarios = append(prog.scenarios, compiled)
	}
	return prog, nil
}

// scenarioSeed derives an isolated seed per scenario: master XOR fnv1a64 of
// the scenario name. Keeps scenarios independent of each other's draw counts.
func scenarioSeed(master int64, name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return master ^ int64(h.Sum64())
}

// generate draws the scenario's random passengers: exponential inter-arrival
// times at the configured rate, uniform distinct origin/destination floors.
func generate(sc Scenario, seed int64, numFloors int) []Arrival {
	rng := rand.New(rand.NewSource(seed))
	arrivals := make([]Arrival, 0, sc.Random.Passengers)
	tick := int64(0)
	for i := 0; i < sc.Random.Passengers; i++ {
		iat := int64(rng.ExpFloat64() / sc.Random.Rate)
		if iat < 1 {
			iat = 1
		}
		tick += iat
		if tick >= sc.MaxTick {
			break
		}
		origin := rng.Intn(numFloors)
		destination := rng.Intn(numFloors - 1)
		if destination >= origin {
			destination++
		}
		arrivals = append(arrivals, Arrival{Tick: tick, Origin: origin, Destination: destination})
	}
	return arrivals
}

// NumScenarios returns how many traffic rounds the program holds.
func (p *Program) NumScenarios() int {
	return len(p.scenarios)
}

// ScenarioName returns the name of round i.
func (p *Program) ScenarioName(i int) string {
	if i < 0 || i >= len(p.scenarios) {
		return ""
	}
	return p.scenarios[i].name
}

// MaxTick returns the tick horizon of round i.
func (p *Program) MaxTick(i int) int64 {
	if i < 0 || i >= len(p.scenarios) {
		return 0
	}
	return p.scenarios[i].maxTick
}

// TotalArrivals returns the number of passengers round i will produce.
func (p *Program) TotalArrivals(i int) int {
	if i < 0 || i >= len(p.scenarios) {
		return 0
	}
	return p.scenarios[i].arrivals
}

// ArrivalsAt returns the passengers of round i appearing at the given tick,
// in schedule order. The returned slice must not be mutated.
func (p *Program) ArrivalsAt(i int, tick int64) []Arrival {
	if i < 0 || i >= len(p.scenarios) {
		return nil
	}
	return p.scenarios[i].byTick[tick]
}

func (p *Program) String() string {
	return fmt.Sprintf("TrafficProgram(%d scenarios)", len(p.scenarios))
}
