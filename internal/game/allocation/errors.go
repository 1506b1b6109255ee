package allocation

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceUnavailable is a normal negative result: the flight keeps
	// its state and tries again later.
	ErrResourceUnavailable = errors.New("no resource available")

	ErrNoFreeGate   = fmt.Errorf("no free gate: %w", ErrResourceUnavailable)
	ErrNoFreeRunway = fmt.Errorf("no free runway: %w", ErrResourceUnavailable)

	ErrAlreadyBound   = errors.New("flight already holds a resource of that kind")
	ErrFlightFinished = errors.New("flight is arrived or cancelled")
)
