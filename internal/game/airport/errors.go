package airport

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownResource is wrapped by every failed lookup by identifier.
	ErrUnknownResource = errors.New("unknown resource")

	ErrUnknownFlight   = fmt.Errorf("unknown flight: %w", ErrUnknownResource)
	ErrUnknownGate     = fmt.Errorf("unknown gate: %w", ErrUnknownResource)
	ErrUnknownRunway   = fmt.Errorf("unknown runway: %w", ErrUnknownResource)
	ErrUnknownTerminal = fmt.Errorf("unknown terminal: %w", ErrUnknownResource)

	ErrDuplicateFlight   = errors.New("flight already scheduled")
	ErrNotSchedulable    = errors.New("flight cannot enter the schedule")
	ErrDuplicateResource = errors.New("resource id already registered")
	ErrInvariant         = errors.New("binding invariant violated")
)
