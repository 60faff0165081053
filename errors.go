package cubeanim

import "errors"

// Sentinel errors for the cubeanim package.
var (
	// Solver errors
	ErrSolverNotReady = errors.New("cubeanim: solver not ready")
	ErrStateChanged   = errors.New("cubeanim: state changed while solving")

	// Queue errors
	ErrHalted = errors.New("cubeanim: queue halted after a failed move")
	ErrClosed = errors.New("cubeanim: puzzle closed")

	// Configuration errors
	ErrInvalidOption = errors.New("cubeanim: invalid option")

	// Parsing errors
	ErrInvalidNotation = errors.New("cubeanim: invalid move notation")
)
