// Command schema for the external dispatch client. Commands are advisory:
// they are validated synchronously, queued, and consumed at the next tick
// boundary. A rejected command never touches elevator state.

package sim

import "fmt"

// CommandType names the instructions an external client may issue.
type CommandType string

const (
	// CommandGoToFloor commits a destination floor. By default it appends
	// to the car's queue; with Immediate it becomes the new queue head.
	CommandGoToFloor CommandType = "go_to_floor"

	// CommandOpenDoors opens the doors of a parked car, or re-arms the hold
	// timer of a car whose doors are open or closing. A no-op while moving.
	CommandOpenDoors CommandType = "open_doors"
)

// Command is one instruction from the dispatch client to one elevator.
type Command struct {
	Elevator  int         `json:"elevator"`
	Type      CommandType `json:"type"`
	Floor     int         `json:"floor,omitempty"`
	Immediate bool        `json:"immediate,omitempty"`
}

// CommandResult is the per-command acceptance verdict returned to the caller.
// Err is nil for accepted commands.
type CommandResult struct {
	Command  Command
	Accepted bool
	Err      error
}

// validateCommand checks a command against the building and fleet bounds.
// It does not mutate anything; application happens inside the tick loop.
func validateCommand(cmd Command, b Building) error {
	if cmd.Elevator < 0 || cmd.Elevator >= b.NumElevators {
		return fmt.Errorf("%w: id %d", ErrUnknownElevator, cmd.Elevator)
	}
	switch cmd.Type {
	case CommandGoToFloor:
		if !b.ValidFloor(cmd.Floor) {
			return fmt.Errorf("%w: %d outside [0,%d)", ErrInvalidFloor, cmd.Floor, b.NumFloors)
		}
	case CommandOpenDoors:
		// no floor argument
	default:
		return fmt.Errorf("%w: unrecognized type %q", ErrMalformedCommand, cmd.Type)
	}
	return nil
}
