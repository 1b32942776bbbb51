package sim

import "errors"

// Error kinds surfaced across the engine/API boundary. Validation errors
// (invalid floor, unknown elevator, malformed command) are reported to the
// caller and never halt the tick loop. Consistency errors (capacity exceeded)
// mark the run degraded instead of crashing a long-lived session.
var (
	// ErrInvalidFloor reports a floor index outside [0, floorCount).
	ErrInvalidFloor = errors.New("invalid floor")

	// ErrUnknownElevator reports an elevator identifier not part of this run.
	ErrUnknownElevator = errors.New("unknown elevator")

	// ErrCapacityExceeded reports a boarding attempt beyond car capacity.
	// This is an internal-consistency failure, not a client error.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrMalformedCommand reports a command that violates the command schema.
	ErrMalformedCommand = errors.New("malformed command")

	// ErrEngineUnavailable reports an API call arriving before tick 0 has
	// completed, or after the engine has been stopped.
	ErrEngineUnavailable = errors.New("engine unavailable")
)
