package simulation

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// World steps several airports side by side. Airports share nothing, so
// each one is stepped on its own goroutine; within an airport the
// Simulation's lock keeps the step serialized.
type World struct {
	sims []*Simulation
}

func NewWorld(sims ...*Simulation) *World {
	return &World{sims: sims}
}

func (w *World) Add(s *Simulation) {
	w.sims = append(w.sims, s)
}

func (w *World) Simulations() []*Simulation {
	return w.sims
}

// Step runs one cycle on every airport at the same simulated time and
// returns the first binding invariant failure, if any.
func (w *World) Step(ctx context.Context, now time.Time) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, s := range w.sims {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s.Step(now)
			return s.CheckInvariants()
		})
	}
	return eg.Wait()
}

func (w *World) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(w.sims))
	for _, s := range w.sims {
		out = append(out, s.Snapshot())
	}
	return out
}
