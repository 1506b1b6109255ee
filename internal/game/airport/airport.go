package airport

import (
	"errors"
	"fmt"

	"airport-simulator/internal/game/airfield"
	"airport-simulator/internal/game/flight"
	"airport-simulator/pkg/types"

	"github.com/iancoleman/orderedmap"
)

// Airport owns every terminal, runway, flight and passenger record. It is
// not safe for concurrent use; simulation.Simulation serializes access.
type Airport struct {
	Name string
	Code string

	terminals []*airfield.Terminal
	runways   []*airfield.Runway
	flights   []*flight.Flight

	flightIdx map[types.FlightID]*flight.Flight

	// passport -> flight.Passenger, in registration order
	passengers *orderedmap.OrderedMap
}

func NewAirport(name, code string) *Airport {
	return &Airport{
		Name:       name,
		Code:       code,
		flightIdx:  make(map[types.FlightID]*flight.Flight),
		passengers: orderedmap.New(),
	}
}

func (ap *Airport) AddTerminal(t *airfield.Terminal) error {
	if _, err := ap.Terminal(t.ID); err == nil {
		return fmt.Errorf("terminal %s: %w", t.ID, ErrDuplicateResource)
	}
	seen := make(map[types.GateID]bool, len(t.Gates))
	for _, g := range t.Gates {
		if _, err := ap.Gate(g.ID); err == nil || seen[g.ID] {
			return fmt.Errorf("gate %s: %w", g.ID, ErrDuplicateResource)
		}
		seen[g.ID] = true
	}
	ap.terminals = append(ap.terminals, t)
	return nil
}

// AddGate appends g to the end of a terminal's search order.
func (ap *Airport) AddGate(terminalID types.TerminalID, g *airfield.Gate) error {
	t, err := ap.Terminal(terminalID)
	if err != nil {
		return err
	}
	if _, err := ap.Gate(g.ID); err == nil {
		return fmt.Errorf("gate %s: %w", g.ID, ErrDuplicateResource)
	}
	t.AddGate(g)
	return nil
}

func (ap *Airport) AddRunway(r *airfield.Runway) error {
	if _, err := ap.Runway(r.ID); err == nil {
		return fmt.Errorf("runway %s: %w", r.ID, ErrDuplicateResource)
	}
	ap.runways = append(ap.runways, r)
	return nil
}

// ScheduleFlight appends f to the schedule. Schedule order is the order the
// dispatcher evaluates flights in. Only SCHEDULED flights without gate or
// runway bindings are accepted; bindings are made through the allocator.
func (ap *Airport) ScheduleFlight(f *flight.Flight) error {
	if f.Status != flight.SCHEDULED {
		return fmt.Errorf("flight %s is %s: %w", f.ID, f.Status, ErrNotSchedulable)
	}
	if f.Gate != "" || f.Runway != "" {
		return fmt.Errorf("flight %s already bound to gate %q runway %q: %w", f.ID, f.Gate, f.Runway, ErrNotSchedulable)
	}
	if _, ok := ap.flightIdx[f.ID]; ok {
		return fmt.Errorf("flight %s: %w", f.ID, ErrDuplicateFlight)
	}
	ap.flights = append(ap.flights, f)
	ap.flightIdx[f.ID] = f
	return nil
}

func (ap *Airport) Terminals() []*airfield.Terminal { return ap.terminals }
func (ap *Airport) Runways() []*airfield.Runway     { return ap.runways }
func (ap *Airport) Flights() []*flight.Flight       { return ap.flights }

func (ap *Airport) Flight(id types.FlightID) (*flight.Flight, error) {
	if f, ok := ap.flightIdx[id]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("flight %s: %w", id, ErrUnknownFlight)
}

func (ap *Airport) Gate(id types.GateID) (*airfield.Gate, error) {
	for _, t := range ap.terminals {
		if g, ok := t.Gate(id); ok {
			return g, nil
		}
	}
	return nil, fmt.Errorf("gate %s: %w", id, ErrUnknownGate)
}

func (ap *Airport) Runway(id types.RunwayID) (*airfield.Runway, error) {
	for _, r := range ap.runways {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("runway %s: %w", id, ErrUnknownRunway)
}

func (ap *Airport) Terminal(id types.TerminalID) (*airfield.Terminal, error) {
	for _, t := range ap.terminals {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("terminal %s: %w", id, ErrUnknownTerminal)
}

// RegisterPassenger records p by passport; a later record with the same
// passport replaces the earlier one but keeps its position.
func (ap *Airport) RegisterPassenger(p flight.Passenger) {
	ap.passengers.Set(p.Passport, p)
}

func (ap *Airport) Passenger(passport string) (flight.Passenger, bool) {
	v, ok := ap.passengers.Get(passport)
	if !ok {
		return flight.Passenger{}, false
	}
	p, ok := v.(flight.Passenger)
	return p, ok
}

func (ap *Airport) PassengerCount() int {
	return len(ap.passengers.Keys())
}

// Passengers returns the registry in registration order.
func (ap *Airport) Passengers() []flight.Passenger {
	keys := ap.passengers.Keys()
	out := make([]flight.Passenger, 0, len(keys))
	for _, k := range keys {
		if p, ok := ap.Passenger(k); ok {
			out = append(out, p)
		}
	}
	return out
}

// CheckInvariants verifies that every binding is mirrored on both sides and
// that resource status agrees with occupancy.
func (ap *Airport) CheckInvariants() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format+": %w", append(args, ErrInvariant)...))
	}

	for _, t := range ap.terminals {
		for _, g := range t.Gates {
			if (g.Status == airfield.GATE_OCCUPIED) != (g.Flight != "") {
				fail("gate %s is %s with occupant %q", g.ID, g.Status, g.Flight)
			}
			if g.Flight == "" {
				continue
			}
			if f, ok := ap.flightIdx[g.Flight]; !ok || f.Gate != g.ID {
				fail("gate %s held by %s which does not hold it", g.ID, g.Flight)
			}
		}
	}
	for _, r := range ap.runways {
		if (r.Status == airfield.RUNWAY_IN_USE) != (r.Flight != "") {
			fail("runway %s is %s with occupant %q", r.ID, r.Status, r.Flight)
		}
		if r.Flight == "" {
			continue
		}
		if f, ok := ap.flightIdx[r.Flight]; !ok || f.Runway != r.ID {
			fail("runway %s held by %s which does not hold it", r.ID, r.Flight)
		}
	}
	for _, f := range ap.flights {
		if f.Gate != "" {
			if g, err := ap.Gate(f.Gate); err != nil || g.Flight != f.ID {
				fail("flight %s holds gate %s which is not bound to it", f.ID, f.Gate)
			}
		}
		if f.Runway != "" {
			if r, err := ap.Runway(f.Runway); err != nil || r.Flight != f.ID {
				fail("flight %s holds runway %s which is not bound to it", f.ID, f.Runway)
			}
		}
	}
	return errors.Join(errs...)
}
