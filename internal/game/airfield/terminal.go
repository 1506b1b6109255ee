package airfield

import (
	"strings"

	"airport-simulator/pkg/types"
)

// Terminal keeps its gates in insertion order, which is also the order
// free gates are handed out in.
type Terminal struct {
	ID    types.TerminalID
	Gates []*Gate
}

func NewTerminal(id types.TerminalID) *Terminal {
	return &Terminal{ID: id}
}

func (t *Terminal) AddGate(g *Gate) {
	t.Gates = append(t.Gates, g)
}

func (t *Terminal) FindFreeGate() *Gate {
	for _, g := range t.Gates {
		if g.Free() {
			return g
		}
	}
	return nil
}

func (t *Terminal) Gate(id types.GateID) (*Gate, bool) {
	for _, g := range t.Gates {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}

func (t *Terminal) String() string {
	var sb strings.Builder
	sb.WriteString("Terminal " + string(t.ID) + ":")
	for _, g := range t.Gates {
		sb.WriteString("\n" + g.String())
	}
	return sb.String()
}
