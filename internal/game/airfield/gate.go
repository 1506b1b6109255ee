package airfield

import (
	"fmt"

	"airport-simulator/pkg/types"
)

type GateStatus int

const (
	GATE_FREE GateStatus = iota
	GATE_OCCUPIED
	GATE_MAINTENANCE
)

var GateStatusStringMap = map[GateStatus]string{
	GATE_FREE:        "FREE",
	GATE_OCCUPIED:    "OCCUPIED",
	GATE_MAINTENANCE: "MAINTENANCE",
}

func (s GateStatus) String() string {
	if str, ok := GateStatusStringMap[s]; ok {
		return str
	}
	return fmt.Sprintf("GateStatus(%d)", int(s))
}

// Gate is occupied exactly when Flight is set.
type Gate struct {
	ID     types.GateID
	Status GateStatus
	Flight types.FlightID
}

func NewGate(id types.GateID) *Gate {
	return &Gate{ID: id, Status: GATE_FREE}
}

func (g *Gate) Free() bool {
	return g.Status == GATE_FREE
}

func (g *Gate) Occupy(id types.FlightID) error {
	if g.Status != GATE_FREE {
		return fmt.Errorf("gate %s is %s: %w", g.ID, g.Status, ErrNotAvailable)
	}
	g.Status = GATE_OCCUPIED
	g.Flight = id
	return nil
}

// Release frees an occupied gate and returns the flight that held it.
// Releasing a free gate, or one under maintenance, changes nothing.
func (g *Gate) Release() types.FlightID {
	if g.Status != GATE_OCCUPIED {
		return ""
	}
	id := g.Flight
	g.Status = GATE_FREE
	g.Flight = ""
	return id
}

func (g *Gate) SetMaintenance(on bool) error {
	if g.Status == GATE_OCCUPIED {
		return fmt.Errorf("gate %s held by flight %s: %w", g.ID, g.Flight, ErrResourceBusy)
	}
	if on {
		g.Status = GATE_MAINTENANCE
	} else {
		g.Status = GATE_FREE
	}
	return nil
}

func (g *Gate) String() string {
	s := fmt.Sprintf("Gate %s: Status: %s", g.ID, g.Status)
	if g.Flight != "" {
		s += fmt.Sprintf(", Flight: %s", g.Flight)
	}
	return s
}
