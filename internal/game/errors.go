package game

import "errors"

// Sentinel errors returned by the session engine. The transport layer maps
// them onto the snake_case codes carried in action_result payloads. All of
// them are recoverable: the offending command is rejected without mutating
// session state.
var (
	ErrNotInitialized = errors.New("no game session for channel")
	ErrOutOfTurn      = errors.New("not this participant's turn")
	ErrBlocked        = errors.New("destination blocked")
	ErrOutOfRange     = errors.New("target out of range")
	ErrNoFreeTile     = errors.New("no free tile available")
	ErrUnknownTarget  = errors.New("unknown or inactive target")
	ErrInvalidCommand = errors.New("invalid command")
)

// ErrorCode returns the wire representation of an engine error.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotInitialized):
		return "not_initialized"
	case errors.Is(err, ErrOutOfTurn):
		return "out_of_turn"
	case errors.Is(err, ErrBlocked):
		return "blocked"
	case errors.Is(err, ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, ErrNoFreeTile):
		return "no_free_tile_available"
	case errors.Is(err, ErrUnknownTarget):
		return "unknown_target"
	case errors.Is(err, ErrInvalidCommand):
		return "invalid_command"
	default:
		return "internal_error"
	}
}
