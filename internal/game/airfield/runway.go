package airfield

import (
	"fmt"

	"airport-simulator/pkg/types"
)

const DefaultRunwayWidth = 45.0

type RunwayStatus int

const (
	RUNWAY_FREE RunwayStatus = iota
	RUNWAY_IN_USE
	RUNWAY_MAINTENANCE
	RUNWAY_CLOSED
)

var RunwayStatusStringMap = map[RunwayStatus]string{
	RUNWAY_FREE:        "FREE",
	RUNWAY_IN_USE:      "IN_USE",
	RUNWAY_MAINTENANCE: "MAINTENANCE",
	RUNWAY_CLOSED:      "CLOSED",
}

func (s RunwayStatus) String() string {
	if str, ok := RunwayStatusStringMap[s]; ok {
		return str
	}
	return fmt.Sprintf("RunwayStatus(%d)", int(s))
}

// Runway is in use exactly when Flight is set. Length and Width are metres.
type Runway struct {
	ID     types.RunwayID
	Length float64
	Width  float64
	Status RunwayStatus
	Flight types.FlightID
}

func NewRunway(id types.RunwayID, length float64) *Runway {
	return &Runway{ID: id, Length: length, Width: DefaultRunwayWidth, Status: RUNWAY_FREE}
}

func (r *Runway) Free() bool {
	return r.Status == RUNWAY_FREE
}

func (r *Runway) Occupy(id types.FlightID) error {
	if r.Status != RUNWAY_FREE {
		return fmt.Errorf("runway %s is %s: %w", r.ID, r.Status, ErrNotAvailable)
	}
	r.Status = RUNWAY_IN_USE
	r.Flight = id
	return nil
}

// Release frees a runway in use and returns the flight that held it. Any
// other status is left alone.
func (r *Runway) Release() types.FlightID {
	if r.Status != RUNWAY_IN_USE {
		return ""
	}
	id := r.Flight
	r.Status = RUNWAY_FREE
	r.Flight = ""
	return id
}

func (r *Runway) SetMaintenance(on bool) error {
	if r.Status == RUNWAY_IN_USE {
		return fmt.Errorf("runway %s held by flight %s: %w", r.ID, r.Flight, ErrResourceBusy)
	}
	if on {
		r.Status = RUNWAY_MAINTENANCE
	} else {
		r.Status = RUNWAY_FREE
	}
	return nil
}

// Close takes the runway out of service. A runway under maintenance stays
// under maintenance.
func (r *Runway) Close() error {
	switch r.Status {
	case RUNWAY_IN_USE:
		return fmt.Errorf("runway %s held by flight %s: %w", r.ID, r.Flight, ErrResourceBusy)
	case RUNWAY_MAINTENANCE:
		return fmt.Errorf("runway %s is under maintenance: %w", r.ID, ErrNotAvailable)
	}
	r.Status = RUNWAY_CLOSED
	return nil
}

// Open returns a closed or maintained runway to service.
func (r *Runway) Open() error {
	if r.Status != RUNWAY_CLOSED && r.Status != RUNWAY_MAINTENANCE {
		return fmt.Errorf("runway %s is already open (%s)", r.ID, r.Status)
	}
	r.Status = RUNWAY_FREE
	return nil
}

func (r *Runway) String() string {
	s := fmt.Sprintf("Runway %s (%.0fx%.0f m): Status: %s", r.ID, r.Length, r.Width, r.Status)
	if r.Flight != "" {
		s += fmt.Sprintf(", Flight: %s", r.Flight)
	}
	return s
}
