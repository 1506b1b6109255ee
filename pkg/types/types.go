package types

import "time"

type FlightID string

type GateID string

type RunwayID string

type TerminalID string

// Window is a closed interval of simulated time.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowBefore returns the window of length lead that ends at t.
func WindowBefore(t time.Time, lead time.Duration) Window {
	return Window{Start: t.Add(-lead), End: t}
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
