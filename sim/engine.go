// The simulation engine: the single authoritative tick loop over building,
// elevators, and request registry. All mutation is serialized through the
// engine mutex; readers get the immutable snapshot of the last completed tick
// through an atomic pointer and never contend with a tick in progress.

package sim

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/liftsim/liftsim/sim/traffic"
)

// floorQueues holds the passengers waiting at one floor, split by desired
// direction, in arrival order.
type floorQueues struct {
	up   []*Passenger
	down []*Passenger
}

// Engine composes the clock, the elevator state machines, the request
// registry, the traffic program, and the dispatch coordinator.
type Engine struct {
	mu sync.Mutex

	building Building
	policy   Dispatcher
	program  *traffic.Program

	clock    int64 // ticks completed in the current scenario
	scenario int   // index into program scenarios
	stopped  bool
	degraded bool

	elevators  []*Elevator
	registry   *Registry
	floors     []floorQueues
	passengers map[string]*Passenger

	passengerSeq int
	pendingCmds  []Command
	metrics      *Metrics

	// snapshot of the most recently completed tick. nil until tick 0
	// completes; that is the readiness signal the API layer keys on.
	snapshot atomic.Pointer[Snapshot]
}

// NewEngine builds an engine for one simulation run. policy defaults to the
// nearest-car policy when nil; program may be nil for runs driven purely by
// PressHallButton and external commands.
func NewEngine(b Building, policy Dispatcher, program *traffic.Program) (*Engine, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid building: %w", err)
	}
	if policy == nil {
		policy = NewNearestCarPolicy()
	}
	e := &Engine{
		building:   b,
		policy:     policy,
		program:    program,
		registry:   NewRegistry(),
		floors:     make([]floorQueues, b.NumFloors),
		passengers: make(map[string]*Passenger),
		metrics:    NewMetrics(),
	}
	for i := 0; i < b.NumElevators; i++ {
		e.elevators = append(e.elevators, NewElevator(i, b.ElevatorCapacity))
	}
	return e, nil
}

// Building returns the immutable run configuration.
func (e *Engine) Building() Building {
	return e.building
}

// Ready reports whether tick 0 has completed, i.e. whether a snapshot is
// servable. The API layer answers 503 until this is true.
func (e *Engine) Ready() bool {
	return e.snapshot.Load() != nil
}

// Snapshot returns the state as of the most recently completed tick, or nil
// before tick 0. The returned value is immutable and safe to share.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// Clock returns the number of completed ticks in the current scenario.
func (e *Engine) Clock() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock
}

// Stop marks the engine halted. Subsequent Advance and command submissions
// fail with ErrEngineUnavailable; the last snapshot stays readable so a
// visualizer can drain.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped = true
}

// Degraded reports whether an internal-consistency failure was detected.
func (e *Engine) Degraded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.degraded
}

// PressHallButton registers a hall call directly, as a passenger at the
// floor would. Re-pressing a lit button is a no-op.
func (e *Engine) PressHallButton(floor int, direction Direction) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineUnavailable
	}
	if !e.building.ValidFloor(floor) {
		return fmt.Errorf("%w: %d outside [0,%d)", ErrInvalidFloor, floor, e.building.NumFloors)
	}
	if direction == DirectionNone ||
		(floor == 0 && direction == DirectionDown) ||
		(floor == e.building.TopFloor() && direction == DirectionUp) {
		return fmt.Errorf("%w: no %s travel from floor %d", ErrMalformedCommand, direction, floor)
	}
	e.registry.RegisterHallCall(floor, direction, e.clock)
	return nil
}

// SubmitCommands validates each command against the current run and queues
// the accepted ones for application at the next tick boundary. The verdicts
// are returned synchronously; a rejected command is never queued.
func (e *Engine) SubmitCommands(cmds []Command) []CommandResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	results := make([]CommandResult, len(cmds))
	for i, cmd := range cmds {
		if e.stopped || !e.ready() {
			results[i] = CommandResult{Command: cmd, Err: ErrEngineUnavailable}
			continue
		}
		if err := validateCommand(cmd, e.building); err != nil {
			logrus.Debugf("rejected command for elevator %d: %v", cmd.Elevator, err)
			results[i] = CommandResult{Command: cmd, Err: err}
			continue
		}
		e.pendingCmds = append(e.pendingCmds, cmd)
		results[i] = CommandResult{Command: cmd, Accepted: true}
	}
	return results
}

func (e *Engine) ready() bool {
	return e.snapshot.Load() != nil
}

// Advance runs exactly one tick: traffic arrivals, elevator motion and door
// phases (with boarding/alighting), queued command application, then the
// default policy for cars not externally driven this tick. The tick's
// snapshot is published before Advance returns.
func (e *Engine) Advance() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineUnavailable
	}
	tick := e.clock
	var events []Event

	events = append(events, e.applyArrivals(tick)...)
	for _, car := range e.elevators {
		car.ExternallyDriven = false
		events = append(events, e.stepElevator(car, tick)...)
	}
	events = append(events, e.applyCommands(tick)...)
	e.runPolicy()
	e.checkInvariants()

	snap := e.buildSnapshot(events)
	e.snapshot.Store(snap)
	e.clock++
	return nil
}

// applyArrivals materializes the traffic program's passengers for this tick.
func (e *Engine) applyArrivals(tick int64) []Event {
	if e.program == nil {
		return nil
	}
	var events []Event
	for _, a := range e.program.ArrivalsAt(e.scenario, tick) {
		e.passengerSeq++
		p := NewPassenger(fmt.Sprintf("p%04d", e.passengerSeq), a.Origin, a.Destination, tick)
		e.passengers[p.ID] = p
		dir := p.Direction()
		if dir == DirectionUp {
			e.floors[a.Origin].up = append(e.floors[a.Origin].up, p)
		} else {
			e.floors[a.Origin].down = append(e.floors[a.Origin].down, p)
		}
		e.registry.RegisterHallCall(a.Origin, dir, tick)
		e.metrics.RecordArrival()
		logrus.Debugf("<< Arrival: %s at floor %d going %s, tick %d", p.ID, a.Origin, dir, tick)
		events = append(events, Event{
			Tick: tick, Type: EventPassengerCall,
			Elevator: -1, Floor: a.Origin, Passenger: p.ID, Direction: dir,
		})
	}
	return events
}

// stepElevator advances one car through its motion/door state machine.
func (e *Engine) stepElevator(car *Elevator, tick int64) []Event {
	var events []Event
	switch car.State {
	case ElevatorIdle:
		head, ok := car.NextDestination()
		if !ok {
			break
		}
		if head == car.Floor {
			car.popArrived()
			car.State = ElevatorDoorOpening
			car.doorTicks = e.building.DoorTransitionTicks
			events = append(events, Event{
				Tick: tick, Type: EventElevatorStopped,
				Elevator: car.ID, Floor: car.Floor, Direction: car.Direction(),
			})
		} else {
			car.State = ElevatorMoving
			car.segTarget = car.Floor + int(DirectionBetween(car.Floor, head))
			car.progress = 0
		}

	case ElevatorMoving:
		if len(car.Destinations) == 0 {
			// Queue drained without a stop; park in place.
			car.State = ElevatorIdle
			car.progress = 0
			break
		}
		car.progress++
		if car.progress >= e.building.FloorTravelTicks {
			car.Floor = car.segTarget
			car.progress = 0
			head := car.Destinations[0]
			if head == car.Floor {
				car.popArrived()
				car.State = ElevatorDoorOpening
				car.doorTicks = e.building.DoorTransitionTicks
				events = append(events, Event{
					Tick: tick, Type: EventElevatorStopped,
					Elevator: car.ID, Floor: car.Floor, Direction: car.Direction(),
				})
			} else {
				car.segTarget = car.Floor + int(DirectionBetween(car.Floor, head))
			}
		}

	case ElevatorDoorOpening:
		car.doorTicks--
		if car.doorTicks <= 0 {
			car.State = ElevatorDoorOpen
			car.doorTicks = e.building.DoorHoldTicks
			events = append(events, e.serviceStop(car, tick)...)
		}

	case ElevatorDoorOpen:
		// A matching passenger arriving while the doors are open boards
		// immediately and re-arms the hold timer, so the doors never close
		// against someone already committed to this car.
		boarded, boardEvents := e.boardWaiting(car, car.serviceDir, tick)
		events = append(events, boardEvents...)
		if boarded > 0 {
			car.doorTicks = e.building.DoorHoldTicks
		}
		car.doorTicks--
		if car.doorTicks <= 0 {
			car.State = ElevatorDoorClosing
			car.doorTicks = e.building.DoorTransitionTicks
		}

	case ElevatorDoorClosing:
		car.doorTicks--
		if car.doorTicks <= 0 {
			car.serviceDir = DirectionNone
			if head, ok := car.NextDestination(); ok {
				car.State = ElevatorMoving
				car.segTarget = car.Floor + int(DirectionBetween(car.Floor, head))
				car.progress = 0
			} else {
				car.State = ElevatorIdle
				events = append(events, Event{
					Tick: tick, Type: EventElevatorIdle,
					Elevator: car.ID, Floor: car.Floor, Direction: DirectionNone,
				})
			}
		}
	}
	return events
}

// serviceStop fires when the doors finish opening: passengers bound for this
// floor alight, the car call resolves, and the matching hall call (if any)
// resolves and boards its passengers.
func (e *Engine) serviceStop(car *Elevator, tick int64) []Event {
	floor := car.Floor
	var events []Event

	// Alighting first frees capacity for boarders.
	remaining := car.Passengers[:0]
	for _, p := range car.Passengers {
		if p.Destination != floor {
			remaining = append(remaining, p)
			continue
		}
		p.Status = PassengerCompleted
		p.Elevator = -1
		p.AlightTick = tick
		e.metrics.RecordAlight(p)
		logrus.Debugf("elevator %d: %s alights at floor %d", car.ID, p.ID, floor)
		events = append(events, Event{
			Tick: tick, Type: EventPassengerAlight,
			Elevator: car.ID, Floor: floor, Passenger: p.ID, Direction: DirectionNone,
		})
	}
	car.Passengers = remaining
	e.registry.ResolveCarCall(car.ID, floor)

	// Hall-call resolution rule: a stop serves the call matching the car's
	// onward direction; a car finishing its queue here adopts the oldest
	// call at this floor instead. Passing without stopping never resolves.
	serviceDir := car.Direction()
	if serviceDir == DirectionNone {
		serviceDir = e.adoptableDirection(floor)
	}
	car.serviceDir = serviceDir
	if serviceDir != DirectionNone {
		e.registry.ResolveHallCall(floor, serviceDir)
		_, boardEvents := e.boardWaiting(car, serviceDir, tick)
		events = append(events, boardEvents...)
	}
	return events
}

// adoptableDirection picks the direction an empty-queue car should serve at
// floor: the older of the two outstanding hall calls, ties to up.
func (e *Engine) adoptableDirection(floor int) Direction {
	up := e.registry.HallCall(floor, DirectionUp)
	down := e.registry.HallCall(floor, DirectionDown)
	switch {
	case up == nil && down == nil:
		return DirectionNone
	case down == nil:
		return DirectionUp
	case up == nil:
		return DirectionDown
	case up.Tick <= down.Tick:
		return DirectionUp
	default:
		return DirectionDown
	}
}

// boardWaiting boards passengers queued at the car's floor in direction dir,
// oldest first, up to capacity. Each boarder registers a car call for their
// destination. Passengers left behind on a full car re-press the button.
func (e *Engine) boardWaiting(car *Elevator, dir Direction, tick int64) (int, []Event) {
	if dir == DirectionNone {
		return 0, nil
	}
	floor := car.Floor
	queue := &e.floors[floor].up
	if dir == DirectionDown {
		queue = &e.floors[floor].down
	}
	var events []Event
	boarded := 0
	for len(*queue) > 0 && !car.Full() {
		p := (*queue)[0]
		*queue = (*queue)[1:]
		p.Status = PassengerRiding
		p.Elevator = car.ID
		p.BoardTick = tick
		car.Passengers = append(car.Passengers, p)
		e.metrics.RecordBoard(p)
		e.registry.RegisterCarCall(car.ID, p.Destination, tick)
		car.AddStop(p.Destination)
		boarded++
		logrus.Debugf("elevator %d: %s boards at floor %d for floor %d", car.ID, p.ID, floor, p.Destination)
		events = append(events, Event{
			Tick: tick, Type: EventPassengerBoard,
			Elevator: car.ID, Floor: floor, Passenger: p.ID, Direction: dir,
		})
	}
	if boarded > 0 {
		e.registry.ResolveHallCall(floor, dir)
	}
	if len(*queue) > 0 {
		// Full car: whoever is left presses the button again.
		e.registry.RegisterHallCall(floor, dir, tick)
	}
	return boarded, events
}

// applyCommands consumes the commands queued since the last tick, in
// submission order. Application failures degrade to logged no-ops.
func (e *Engine) applyCommands(tick int64) []Event {
	cmds := e.pendingCmds
	e.pendingCmds = nil
	var events []Event
	for _, cmd := range cmds {
		if err := validateCommand(cmd, e.building); err != nil {
			logrus.Warnf("dropping queued command for elevator %d: %v", cmd.Elevator, err)
			continue
		}
		car := e.elevators[cmd.Elevator]
		car.ExternallyDriven = true
		switch cmd.Type {
		case CommandGoToFloor:
			if cmd.Floor == car.Floor && (car.State == ElevatorDoorOpen || car.State == ElevatorDoorOpening) {
				// Commanded to the floor it is already serving: hold.
				car.doorTicks = e.building.DoorHoldTicks
				continue
			}
			if cmd.Immediate {
				car.PrependDestination(cmd.Floor)
			} else {
				car.AppendDestination(cmd.Floor)
			}
			logrus.Debugf("elevator %d: external command -> floor %d (immediate=%v)", car.ID, cmd.Floor, cmd.Immediate)
		case CommandOpenDoors:
			switch car.State {
			case ElevatorIdle:
				car.State = ElevatorDoorOpening
				car.doorTicks = e.building.DoorTransitionTicks
				events = append(events, Event{
					Tick: tick, Type: EventElevatorStopped,
					Elevator: car.ID, Floor: car.Floor, Direction: car.Direction(),
				})
			case ElevatorDoorOpen:
				car.doorTicks = e.building.DoorHoldTicks
			case ElevatorDoorClosing:
				car.State = ElevatorDoorOpening
				car.doorTicks = e.building.DoorTransitionTicks
			default:
				// Doors cannot open mid-shaft; advisory command, no-op.
			}
		}
	}
	return events
}

// runPolicy hands unassigned hall calls to the dispatch coordinator for the
// cars no external client drove this tick. The policy never overrides an
// externally driven car.
func (e *Engine) runPolicy() {
	e.validateAssignments()
	calls := e.registry.UnassignedHallCalls()
	if len(calls) == 0 {
		return
	}
	eligible := make([]*Elevator, 0, len(e.elevators))
	for _, car := range e.elevators {
		if !car.ExternallyDriven {
			eligible = append(eligible, car)
		}
	}
	for _, a := range e.policy.Assign(eligible, calls) {
		if a.Elevator < 0 || a.Elevator >= len(e.elevators) || !e.building.ValidFloor(a.Floor) {
			logrus.Errorf("policy produced invalid assignment %+v, ignoring", a)
			continue
		}
		car := e.elevators[a.Elevator]
		hc := e.registry.HallCall(a.Floor, a.Direction)
		if hc == nil {
			continue
		}
		hc.Assigned = car.ID
		car.AddStop(a.Floor)
		logrus.Debugf("policy: hall call (%d,%s) -> elevator %d", a.Floor, a.Direction, car.ID)
	}
}

// validateAssignments releases hall calls whose assigned car no longer plans
// to stop there, e.g. after an external command rerouted it.
func (e *Engine) validateAssignments() {
	for _, pr := range e.registry.Pending() {
		if pr.Kind != RequestHall || pr.Elevator < 0 {
			continue
		}
		car := e.elevators[pr.Elevator]
		if !car.HasDestination(pr.Floor) && car.Floor != pr.Floor {
			if hc := e.registry.HallCall(pr.Floor, pr.Direction); hc != nil {
				hc.Assigned = -1
			}
		}
	}
}

// checkInvariants verifies internal consistency after a tick. A violation is
// a fatal logic error in the engine itself, logged and reflected by the
// degraded flag so a long-running session survives to report it.
func (e *Engine) checkInvariants() {
	for _, car := range e.elevators {
		if len(car.Passengers) > car.Capacity {
			logrus.Errorf("invariant violation on elevator %d: %v (%d aboard, capacity %d)",
				car.ID, ErrCapacityExceeded, len(car.Passengers), car.Capacity)
			e.degraded = true
		}
		for _, f := range car.Destinations {
			if !e.building.ValidFloor(f) {
				logrus.Errorf("invariant violation on elevator %d: queued destination %d outside building", car.ID, f)
				e.degraded = true
			}
		}
	}
}

// scenarioName returns the active traffic round's name, if any.
func (e *Engine) scenarioName() string {
	if e.program == nil {
		return ""
	}
	return e.program.ScenarioName(e.scenario)
}

// ScenarioMaxTick returns the active round's horizon, or 0 without a program.
func (e *Engine) ScenarioMaxTick() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.program == nil {
		return 0
	}
	return e.program.MaxTick(e.scenario)
}

// ScenarioDone reports whether the active round has reached its horizon.
func (e *Engine) ScenarioDone() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.program == nil {
		return false
	}
	return e.clock >= e.program.MaxTick(e.scenario)
}

// NextScenario advances to the next traffic round, clearing all transient
// state. With fullReset the metrics aggregate restarts as well. Returns the
// new round's name.
func (e *Engine) NextScenario(fullReset bool) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return "", ErrEngineUnavailable
	}
	if e.program == nil || e.scenario+1 >= e.program.NumScenarios() {
		return "", fmt.Errorf("no further traffic scenarios")
	}
	e.scenario++
	e.clock = 0
	e.registry = NewRegistry()
	e.floors = make([]floorQueues, e.building.NumFloors)
	e.passengers = make(map[string]*Passenger)
	e.pendingCmds = nil
	for i := range e.elevators {
		e.elevators[i] = NewElevator(i, e.building.ElevatorCapacity)
	}
	if fullReset {
		e.metrics.Reset()
	}
	e.snapshot.Store(e.buildSnapshot(nil))
	name := e.program.ScenarioName(e.scenario)
	logrus.Infof("traffic round advanced to %q (full_reset=%v)", name, fullReset)
	return name, nil
}

// Metrics returns the current metrics aggregate.
func (e *Engine) Metrics() MetricsSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metrics.Snapshot()
}
