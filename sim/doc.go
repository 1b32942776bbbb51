// Package sim provides the core discrete-event elevator dispatch engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - elevator.go: the per-car state machine (idle → moving → door phases)
//   - registry.go: deduplicated hall/car call bookkeeping
//   - engine.go: the tick loop composing motion, commands, and dispatch
//
// # Architecture
//
// The sim package owns all mutable simulation state; sub-packages stay at the
// edges:
//   - sim/traffic/: YAML traffic specs compiled into deterministic arrival schedules
//   - sim/trace/: pure-data frame recording for offline visualization
//   - sim/api/: the HTTP surface external dispatch algorithms drive
//
// A single tick loop is the only writer. Readers take the immutable snapshot
// of the last completed tick (Engine.Snapshot); writers queue commands that
// the engine consumes at the next tick boundary (Engine.SubmitCommands).
//
// # Extension Point
//
// Dispatcher is the decision-making seam: the built-in NearestCarPolicy is a
// fallback that only steers cars no external client commanded this tick.
// External algorithms observe state via GET /api/state and steer cars via
// POST /api/command; their commands always take precedence over the policy.
package sim
