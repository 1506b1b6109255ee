package simulation

import (
	"slices"
	"time"

	"airport-simulator/internal/game/airfield"
	"airport-simulator/internal/game/flight"
	"airport-simulator/pkg/types"

	"github.com/brunoga/deep"
)

// Snapshot is a deep copy of an airport's state after a tick. Changing it
// has no effect on the simulation.
type Snapshot struct {
	Name string
	Code string
	Now  time.Time

	Terminals []*airfield.Terminal
	Runways   []*airfield.Runway
	Flights   []*flight.Flight

	PassengerCount int
	Stats          Stats
	Events         []Event
}

func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sn := deep.MustCopy(Snapshot{
		Name:           s.airport.Name,
		Code:           s.airport.Code,
		Now:            s.now,
		Terminals:      s.airport.Terminals(),
		Runways:        s.airport.Runways(),
		Flights:        s.airport.Flights(),
		PassengerCount: s.airport.PassengerCount(),
		Stats:          s.stats,
		Events:         s.eventLog,
	})
	s.restoreTimes(&sn)
	return sn
}

// restoreTimes puts the live time values back into sn. The deep copy also
// copies each *time.Location, and a copy of time.Local taken before Go has
// loaded it is empty, so copied times would print as UTC.
func (s *Simulation) restoreTimes(sn *Snapshot) {
	sn.Now = s.now
	for i, f := range s.airport.Flights() {
		c := sn.Flights[i]
		c.ScheduledDeparture = f.ScheduledDeparture
		c.ScheduledArrival = f.ScheduledArrival
		c.ActualDeparture = f.ActualDeparture
		c.ActualArrival = f.ActualArrival
	}
	for i, e := range s.eventLog {
		sn.Events[i].Timestamp = e.Timestamp
	}
}

func (sn Snapshot) Flight(id types.FlightID) (*flight.Flight, bool) {
	for _, f := range sn.Flights {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// Upcoming returns up to n flights departing at or after now, earliest
// first.
func (sn Snapshot) Upcoming(now time.Time, n int) []*flight.Flight {
	var out []*flight.Flight
	for _, f := range sn.Flights {
		if !f.ScheduledDeparture.Before(now) {
			out = append(out, f)
		}
	}
	slices.SortStableFunc(out, func(a, b *flight.Flight) int {
		return a.ScheduledDeparture.Compare(b.ScheduledDeparture)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// CountByStatus tallies flights per lifecycle status.
func (sn Snapshot) CountByStatus() map[flight.Status]int {
	counts := make(map[flight.Status]int)
	for _, f := range sn.Flights {
		counts[f.Status]++
	}
	return counts
}
