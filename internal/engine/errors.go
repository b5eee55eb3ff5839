package engine

import "errors"

var (
	// ErrConfiguration means the run cannot price orders safely (zero pip
	// value). Fatal: better to abort than submit malformed TP/SL levels.
	ErrConfiguration = errors.New("invalid pricing configuration")

	// ErrInvalidDirection is internal misuse of the pricer or ladder with
	// an order kind outside the known set. Fatal.
	ErrInvalidDirection = errors.New("invalid order direction")

	// ErrNoPosition means a position validity check ran against an empty
	// snapshot. Callers guard with the position count, so hitting this is
	// a programming error and treated as fatal.
	ErrNoPosition = errors.New("no open position to validate")
)
