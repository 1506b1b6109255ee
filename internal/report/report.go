// Package report prints human readable airport status from simulation
// snapshots. It never touches a live simulation.
package report

import (
	"fmt"
	"io"

	"airport-simulator/internal/game/airfield"
	"airport-simulator/internal/game/flight"
	"airport-simulator/internal/game/simulation"

	"github.com/labstack/gommon/color"
)

const upcomingFlights = 5

type Printer struct {
	w io.Writer
	c *color.Color
}

func NewPrinter(w io.Writer, colored bool) *Printer {
	c := color.New()
	if colored {
		c.Enable()
	} else {
		c.Disable()
	}
	return &Printer{w: w, c: c}
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) flightStatus(s flight.Status) string {
	switch s {
	case flight.BOARDING:
		return p.c.Cyan(s)
	case flight.DEPARTED, flight.ARRIVED:
		return p.c.Green(s)
	case flight.DELAYED:
		return p.c.Yellow(s)
	case flight.CANCELLED:
		return p.c.Red(s)
	}
	return s.String()
}

func (p *Printer) gateStatus(s airfield.GateStatus) string {
	switch s {
	case airfield.GATE_FREE:
		return p.c.Green(s)
	case airfield.GATE_MAINTENANCE:
		return p.c.Yellow(s)
	}
	return p.c.Red(s)
}

func (p *Printer) runwayStatus(s airfield.RunwayStatus) string {
	switch s {
	case airfield.RUNWAY_FREE:
		return p.c.Green(s)
	case airfield.RUNWAY_MAINTENANCE, airfield.RUNWAY_CLOSED:
		return p.c.Yellow(s)
	}
	return p.c.Red(s)
}

// Status prints terminals, runways and the next departures.
func (p *Printer) Status(sn simulation.Snapshot) {
	p.printf("\n=== Airport %s (%s) status at %s ===\n", sn.Name, sn.Code, sn.Now.Format("2006-01-02 15:04"))
	p.printf("Total flights: %d\n", len(sn.Flights))
	p.printf("Total passengers: %d\n", sn.PassengerCount)

	p.printf("\nTerminals:\n")
	for _, t := range sn.Terminals {
		p.printf("Terminal %s:\n", t.ID)
		for _, g := range t.Gates {
			p.printf("  Gate %s: %s", g.ID, p.gateStatus(g.Status))
			if g.Flight != "" {
				p.printf(", Flight: %s", g.Flight)
			}
			p.printf("\n")
		}
	}

	p.printf("\nRunways:\n")
	for _, r := range sn.Runways {
		p.printf("  Runway %s (%.0fm): %s", r.ID, r.Length, p.runwayStatus(r.Status))
		if r.Flight != "" {
			p.printf(", Flight: %s", r.Flight)
		}
		p.printf("\n")
	}

	p.printf("\nUpcoming flights:\n")
	for _, f := range sn.Upcoming(sn.Now, upcomingFlights) {
		p.Flight(f)
		p.printf("---\n")
	}
}

func (p *Printer) Flight(f *flight.Flight) {
	p.printf("Flight %s %s (%s)\n", f.ID, f.Airline, f.Aircraft)
	p.printf("From: %s to %s\n", f.Origin, f.Destination)
	p.printf("Time: %s - %s\n", f.ScheduledDeparture.Format("15:04"), f.ScheduledArrival.Format("15:04"))
	p.printf("Status: %s, Passengers: %s", p.flightStatus(f.Status), f.Load())
	if f.Gate != "" {
		p.printf(", Gate: %s", f.Gate)
	}
	if f.Runway != "" {
		p.printf(", Runway: %s", f.Runway)
	}
	p.printf("\n")
}

// Summary prints the lifecycle counters and the last n events.
func (p *Printer) Summary(sn simulation.Snapshot, n int) {
	st := sn.Stats
	p.printf("\n%s: ticks %d, boardings %d, departures %d, arrivals %d, delays %d, cancels %d, runway waits %d, boarded %d\n",
		sn.Code, st.Ticks, st.Boardings, st.Departures, st.Arrivals, st.Delays, st.Cancels, st.RunwayWaits, st.Boarded)

	events := sn.Events
	if len(events) > n {
		events = events[len(events)-n:]
	}
	for _, e := range events {
		msg := e.Message
		if e.IsUrgent {
			msg = p.c.Yellow(msg)
		}
		p.printf("  %s %s: %s\n", e.Timestamp.Format("15:04"), e.Flight, msg)
	}
}
