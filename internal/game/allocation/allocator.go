// Package allocation binds free gates and runways to flights, first fit in
// registration order, and keeps both sides of every binding consistent.
package allocation

import (
	"fmt"

	"airport-simulator/internal/game/airfield"
	"airport-simulator/internal/game/flight"
	"airport-simulator/pkg/types"
)

// Topology is the view of an airport the allocator works on. Terminals and
// Runways must return entities in registration order.
type Topology interface {
	Terminals() []*airfield.Terminal
	Runways() []*airfield.Runway
	Flight(id types.FlightID) (*flight.Flight, error)
	Gate(id types.GateID) (*airfield.Gate, error)
	Runway(id types.RunwayID) (*airfield.Runway, error)
}

type Allocator struct {
	topo              Topology
	checkRunwayLength bool
}

type Option func(*Allocator)

// WithRunwayLengthCheck skips runways shorter than the aircraft type needs.
func WithRunwayLengthCheck() Option {
	return func(a *Allocator) {
		a.checkRunwayLength = true
	}
}

func New(topo Topology, opts ...Option) *Allocator {
	a := &Allocator{topo: topo}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Allocator) checkAssignable(f *flight.Flight) error {
	if f.Status.Terminal() {
		return fmt.Errorf("flight %s is %s: %w", f.ID, f.Status, ErrFlightFinished)
	}
	return nil
}

// AssignGate binds the first free gate, scanning terminals and then their
// gates in registration order.
func (a *Allocator) AssignGate(f *flight.Flight) (*airfield.Gate, error) {
	if err := a.checkAssignable(f); err != nil {
		return nil, err
	}
	if f.Gate != "" {
		return nil, fmt.Errorf("flight %s has gate %s: %w", f.ID, f.Gate, ErrAlreadyBound)
	}
	for _, t := range a.topo.Terminals() {
		g := t.FindFreeGate()
		if g == nil {
			continue
		}
		if err := g.Occupy(f.ID); err != nil {
			return nil, err
		}
		f.Gate = g.ID
		return g, nil
	}
	return nil, fmt.Errorf("flight %s: %w", f.ID, ErrNoFreeGate)
}

// AssignRunway binds the first free runway in registration order.
func (a *Allocator) AssignRunway(f *flight.Flight) (*airfield.Runway, error) {
	if err := a.checkAssignable(f); err != nil {
		return nil, err
	}
	if f.Runway != "" {
		return nil, fmt.Errorf("flight %s has runway %s: %w", f.ID, f.Runway, ErrAlreadyBound)
	}
	for _, r := range a.topo.Runways() {
		if !r.Free() {
			continue
		}
		if a.checkRunwayLength && r.Length < f.Aircraft.MinRunwayLength() {
			continue
		}
		if err := r.Occupy(f.ID); err != nil {
			return nil, err
		}
		f.Runway = r.ID
		return r, nil
	}
	return nil, fmt.Errorf("flight %s: %w", f.ID, ErrNoFreeRunway)
}

// ReleaseGate frees g and clears the occupant's back reference. Releasing a
// gate that is not occupied is a no-op.
func (a *Allocator) ReleaseGate(g *airfield.Gate) {
	id := g.Release()
	if id == "" {
		return
	}
	if f, err := a.topo.Flight(id); err == nil && f.Gate == g.ID {
		f.Gate = ""
	}
}

// ReleaseRunway is ReleaseGate for runways.
func (a *Allocator) ReleaseRunway(r *airfield.Runway) {
	id := r.Release()
	if id == "" {
		return
	}
	if f, err := a.topo.Flight(id); err == nil && f.Runway == r.ID {
		f.Runway = ""
	}
}

// ReleaseFlight drops every binding f holds.
func (a *Allocator) ReleaseFlight(f *flight.Flight) {
	if f.Gate != "" {
		if g, err := a.topo.Gate(f.Gate); err == nil && g.Flight == f.ID {
			a.ReleaseGate(g)
		}
		f.Gate = ""
	}
	if f.Runway != "" {
		if r, err := a.topo.Runway(f.Runway); err == nil && r.Flight == f.ID {
			a.ReleaseRunway(r)
		}
		f.Runway = ""
	}
}
